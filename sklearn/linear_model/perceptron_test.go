package linear_model

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/weaklearn/core/model"
	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"github.com/YuminosukeSato/weaklearn/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// 線形分離可能な3クラスのデータ
func separableData() (*mat.Dense, []int) {
	X := mat.NewDense(6, 2, []float64{
		0, 0,
		0.5, 0.2,
		5, 0,
		5.5, 0.3,
		0, 5,
		0.2, 5.5,
	})
	return X, []int{0, 0, 1, 1, 2, 2}
}

func TestPerceptronSeparable(t *testing.T) {
	X, y := separableData()
	logger, _ := log.NewTestLogger(log.LevelInfo)
	p := NewPerceptron(WithLogger(logger))

	if err := p.FitLabels(X, y); err != nil {
		t.Fatalf("FitLabels failed: %v", err)
	}
	if !p.Converged() {
		t.Errorf("expected convergence on separable data after %d epochs", p.NIter())
	}
	if p.NIter() >= DefaultMaxIter {
		t.Errorf("NIter = %d, expected early stop", p.NIter())
	}

	pred, err := p.PredictLabels(X)
	if err != nil {
		t.Fatalf("PredictLabels failed: %v", err)
	}
	for i := range y {
		if pred[i] != y[i] {
			t.Errorf("sample %d: got %d, want %d", i, pred[i], y[i])
		}
	}

	score, err := p.Score(X, model.LabelsToMatrix(y))
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score != 1.0 {
		t.Errorf("Score = %v, want 1.0", score)
	}
	if !logger.ContainsMessage("Training completed") {
		t.Error("expected training log record")
	}
}

func TestPerceptronIterationCap(t *testing.T) {
	// XOR は線形分離不可能なので上限まで回る
	X := mat.NewDense(4, 2, []float64{0, 0, 1, 1, 0, 1, 1, 0})
	y := []int{0, 0, 1, 1}

	p := NewPerceptron(WithMaxIter(7))
	if err := p.FitLabels(X, y); err != nil {
		t.Fatalf("FitLabels failed: %v", err)
	}
	if p.NIter() != 7 {
		t.Errorf("NIter = %d, want 7", p.NIter())
	}
	if p.Converged() {
		t.Error("XOR must not converge")
	}
}

func TestPerceptronFirstEpochUpdate(t *testing.T) {
	// ゼロ初期化では全スコアが同点になりクラス0が予測される。
	// 1サンプル目(ラベル1)で w[0] -= x, w[1] += x となる。
	X := mat.NewDense(1, 2, []float64{2, 3})
	p := NewPerceptron(WithMaxIter(1), WithNumClasses(2))
	if err := p.FitLabels(X, []int{1}); err != nil {
		t.Fatalf("FitLabels failed: %v", err)
	}
	w := p.Weights()
	want := [][]float64{{-1, -2, -3}, {1, 2, 3}}
	for i := range want {
		for j := range want[i] {
			if w.At(i, j) != want[i][j] {
				t.Errorf("w[%d][%d] = %v, want %v", i, j, w.At(i, j), want[i][j])
			}
		}
	}
}

func TestPerceptronRandomReproducible(t *testing.T) {
	X, y := separableData()

	p1 := NewPerceptron(WithInitialization(InitRandom), WithRandomState(42))
	p2 := NewPerceptron(WithInitialization(InitRandom), WithRandomState(42))
	if err := p1.FitLabels(X, y); err != nil {
		t.Fatalf("p1 FitLabels failed: %v", err)
	}
	if err := p2.FitLabels(X, y); err != nil {
		t.Fatalf("p2 FitLabels failed: %v", err)
	}
	if !mat.Equal(p1.Weights(), p2.Weights()) {
		t.Error("same seed must produce identical weights")
	}
}

func TestPerceptronErrors(t *testing.T) {
	X, y := separableData()

	p := NewPerceptron()
	var nf *errors.NotFittedError
	if _, err := p.PredictLabels(X); !errors.As(err, &nf) {
		t.Errorf("expected not fitted error, got %v", err)
	}

	if err := p.FitLabels(X, y[:3]); err == nil {
		t.Error("expected error for label count mismatch")
	}
	if err := NewPerceptron(WithNumClasses(2)).FitLabels(X, y); err == nil {
		t.Error("expected error for label outside class range")
	}
	if err := NewPerceptron(WithMaxIter(0)).FitLabels(X, y); err == nil {
		t.Error("expected error for max_iter 0")
	}
	if err := NewPerceptron(WithInitialization("gaussian")).FitLabels(X, y); err == nil {
		t.Error("expected error for unknown initialization")
	}

	if err := p.FitLabels(X, y); err != nil {
		t.Fatalf("FitLabels failed: %v", err)
	}
	var dimErr *errors.DimensionError
	if _, err := p.PredictLabels(mat.NewDense(1, 3, nil)); !errors.As(err, &dimErr) {
		t.Errorf("expected DimensionError, got %v", err)
	}
	if _, err := p.PredictLabels(nil); !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData for nil input, got %v", err)
	}
}

func TestPerceptronParams(t *testing.T) {
	p := NewPerceptron()
	err := p.SetParams(map[string]interface{}{
		"max_iter":       50,
		"initialization": InitRandom,
		"random_state":   7,
	})
	if err != nil {
		t.Fatalf("SetParams failed: %v", err)
	}
	params := p.GetParams()
	if params["max_iter"] != 50 || params["initialization"] != InitRandom || params["random_state"] != int64(7) {
		t.Errorf("unexpected params: %v", params)
	}

	if err := p.SetParams(map[string]interface{}{"alpha": 1.0}); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if err := p.SetParams(map[string]interface{}{"max_iter": -1}); err == nil {
		t.Error("expected error for negative max_iter")
	}
}

func TestPerceptronWeightsRoundTrip(t *testing.T) {
	X, y := separableData()
	p := NewPerceptron()
	if err := p.FitLabels(X, y); err != nil {
		t.Fatalf("FitLabels failed: %v", err)
	}

	// JSON を経由しても予測が変わらないこと
	w, err := p.ExportWeights()
	if err != nil {
		t.Fatalf("ExportWeights failed: %v", err)
	}
	if n, err := w.MetadataInt("n_samples"); err != nil || n != 6 {
		t.Errorf("n_samples = %d (%v), want 6", n, err)
	}
	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var decoded model.ModelWeights
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	restored := NewPerceptron()
	if err := restored.ImportWeights(&decoded); err != nil {
		t.Fatalf("ImportWeights failed: %v", err)
	}
	want, _ := p.PredictLabels(X)
	got, err := restored.PredictLabels(X)
	if err != nil {
		t.Fatalf("PredictLabels failed: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}

	decoded.ModelType = "DecisionStump"
	if err := NewPerceptron().ImportWeights(&decoded); err == nil {
		t.Error("expected error for wrong model type")
	}
}

func TestPerceptronSaveLoad(t *testing.T) {
	X, y := separableData()
	p := NewPerceptron()
	if err := p.FitLabels(X, y); err != nil {
		t.Fatalf("FitLabels failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "perceptron.gob")
	if err := model.SaveModel(p, path); err != nil {
		t.Fatalf("SaveModel failed: %v", err)
	}
	loaded := &Perceptron{}
	if err := model.LoadModel(loaded, path); err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	if !loaded.IsFitted() {
		t.Fatal("loaded model must be fitted")
	}
	if !mat.Equal(loaded.Weights(), p.Weights()) {
		t.Error("loaded weights differ")
	}
}
