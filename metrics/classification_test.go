package metrics

import (
	"math"
	"testing"

	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name    string
		yTrue   []float64
		yPred   []float64
		want    float64
		wantErr bool
	}{
		{
			name:  "Perfect accuracy",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 2, 1, 0},
			want:  1.0,
		},
		{
			name:  "80% accuracy",
			yTrue: []float64{0, 1, 2, 1, 0},
			yPred: []float64{0, 1, 1, 1, 0},
			want:  0.8,
		},
		{
			name:  "Zero accuracy",
			yTrue: []float64{0, 0, 0},
			yPred: []float64{1, 1, 1},
			want:  0.0,
		},
		{
			name:    "Length mismatch",
			yTrue:   []float64{0, 1},
			yPred:   []float64{0},
			wantErr: true,
		},
		{
			name:    "Empty vectors",
			yTrue:   []float64{},
			yPred:   []float64{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var yTrue, yPred *mat.VecDense
			if len(tt.yTrue) > 0 {
				yTrue = mat.NewVecDense(len(tt.yTrue), tt.yTrue)
			}
			if len(tt.yPred) > 0 {
				yPred = mat.NewVecDense(len(tt.yPred), tt.yPred)
			}

			got, err := Accuracy(yTrue, yPred)
			if (err != nil) != tt.wantErr {
				t.Errorf("Accuracy() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Accuracy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccuracyMatrix(t *testing.T) {
	yTrue := mat.NewDense(4, 1, []float64{0, 1, 1, 0})
	yPred := mat.NewDense(4, 1, []float64{0, 1, 0, 0})

	got, err := AccuracyMatrix(yTrue, yPred)
	if err != nil {
		t.Fatalf("AccuracyMatrix() error = %v", err)
	}
	if math.Abs(got-0.75) > 1e-9 {
		t.Errorf("AccuracyMatrix() = %v, want 0.75", got)
	}

	if _, err := AccuracyMatrix(yTrue, mat.NewDense(2, 2, nil)); err == nil {
		t.Error("expected error for non-column prediction")
	}
	if _, err := AccuracyMatrix(yTrue, mat.NewDense(3, 1, nil)); err == nil {
		t.Error("expected error for row mismatch")
	}
}

func TestAccuracyLabels(t *testing.T) {
	got, err := AccuracyLabels([]int{0, 1, 2, 2}, []int{0, 1, 1, 2})
	if err != nil {
		t.Fatalf("AccuracyLabels() error = %v", err)
	}
	if got != 0.75 {
		t.Errorf("AccuracyLabels() = %v, want 0.75", got)
	}

	_, err = AccuracyLabels([]int{0, 1}, []int{0})
	var de *errors.DimensionError
	if !errors.As(err, &de) {
		t.Errorf("expected DimensionError, got %v", err)
	}
	if _, err := AccuracyLabels(nil, nil); err == nil {
		t.Error("expected error for empty labels")
	}
}

func TestConfusionMatrix(t *testing.T) {
	yTrue := []int{0, 0, 1, 1, 2, 2}
	yPred := []int{0, 1, 1, 1, 2, 0}

	cm, err := ConfusionMatrix(yTrue, yPred, 3)
	if err != nil {
		t.Fatalf("ConfusionMatrix() error = %v", err)
	}
	want := mat.NewDense(3, 3, []float64{
		1, 1, 0,
		0, 2, 0,
		1, 0, 1,
	})
	if !mat.Equal(cm, want) {
		t.Errorf("ConfusionMatrix() =\n%v\nwant\n%v", mat.Formatted(cm), mat.Formatted(want))
	}

	if _, err := ConfusionMatrix([]int{0, 3}, []int{0, 0}, 3); err == nil {
		t.Error("expected error for out-of-range label")
	}
	if _, err := ConfusionMatrix([]int{0}, []int{0}, 0); err == nil {
		t.Error("expected error for numClasses = 0")
	}
}

func TestBalancedAccuracy(t *testing.T) {
	// class 0: 3/4 recall, class 1: 1/2 recall, class 2 absent
	yTrue := []int{0, 0, 0, 0, 1, 1}
	yPred := []int{0, 0, 0, 1, 1, 0}

	got, err := BalancedAccuracy(yTrue, yPred, 3)
	if err != nil {
		t.Fatalf("BalancedAccuracy() error = %v", err)
	}
	if math.Abs(got-0.625) > 1e-9 {
		t.Errorf("BalancedAccuracy() = %v, want 0.625", got)
	}
}

func BenchmarkAccuracyLabels(b *testing.B) {
	n := 10000
	yTrue := make([]int, n)
	yPred := make([]int, n)
	for i := range yTrue {
		yTrue[i] = i % 3
		yPred[i] = (i / 2) % 3
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = AccuracyLabels(yTrue, yPred)
	}
}
