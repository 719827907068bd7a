package preprocessing

import (
	"fmt"
	"math"
	"sort"

	"github.com/YuminosukeSato/weaklearn/core/model"
	"github.com/YuminosukeSato/weaklearn/pkg/errors"
)

// LabelEncoder はscikit-learn互換のラベルエンコーダー
// 任意の数値ラベルを 0 から NClasses()-1 までの連続した整数に変換する
type LabelEncoder struct {
	state *model.StateManager

	// classes は昇順に並んだ元のラベル値
	classes []float64

	// index は元のラベル値からエンコード後の値への対応
	index map[float64]int
}

// NewLabelEncoder は新しいLabelEncoderを作成する
//
// 使用例:
//
//	enc := preprocessing.NewLabelEncoder()
//	labels, err := enc.FitTransform([]float64{3, 7, 3, -1})
//	// labels == []int{1, 2, 1, 0}
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{state: model.NewStateManager()}
}

// Fit は訓練ラベルから一意なクラスを学習する
func (e *LabelEncoder) Fit(y []float64) error {
	if len(y) == 0 {
		return errors.NewModelError("LabelEncoder.Fit", "empty data", errors.ErrEmptyData)
	}

	index := make(map[float64]int)
	classes := make([]float64, 0)
	for i, v := range y {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.NewNumericalInstabilityError("LabelEncoder.Fit", []float64{v}, i)
		}
		if _, ok := index[v]; !ok {
			index[v] = 0
			classes = append(classes, v)
		}
	}
	sort.Float64s(classes)
	for i, c := range classes {
		index[c] = i
	}

	e.classes = classes
	e.index = index
	e.state.SetDimensions(1, len(y), len(classes))
	e.state.SetFitted()
	return nil
}

// Transform はラベルをエンコード済みの整数に変換する
// 学習時に見ていないラベルはエラーになる
func (e *LabelEncoder) Transform(y []float64) ([]int, error) {
	if err := e.state.RequireFitted("LabelEncoder", "Transform"); err != nil {
		return nil, err
	}

	encoded := make([]int, len(y))
	for i, v := range y {
		idx, ok := e.index[v]
		if !ok {
			return nil, errors.NewValueError("LabelEncoder.Transform",
				fmt.Sprintf("label %g at index %d was not seen during Fit", v, i))
		}
		encoded[i] = idx
	}
	return encoded, nil
}

// FitTransform は学習と変換を同時に実行する
func (e *LabelEncoder) FitTransform(y []float64) ([]int, error) {
	if err := e.Fit(y); err != nil {
		return nil, err
	}
	return e.Transform(y)
}

// InverseTransform はエンコード済みの整数を元のラベル値に戻す
func (e *LabelEncoder) InverseTransform(labels []int) ([]float64, error) {
	if err := e.state.RequireFitted("LabelEncoder", "InverseTransform"); err != nil {
		return nil, err
	}

	original := make([]float64, len(labels))
	for i, l := range labels {
		if l < 0 || l >= len(e.classes) {
			return nil, errors.NewValidationError("labels",
				fmt.Sprintf("encoded label at index %d is outside [0, %d)", i, len(e.classes)), l)
		}
		original[i] = e.classes[l]
	}
	return original, nil
}

// Classes は学習したクラスを昇順で返す
func (e *LabelEncoder) Classes() []float64 {
	out := make([]float64, len(e.classes))
	copy(out, e.classes)
	return out
}

// NClasses は学習したクラス数を返す
func (e *LabelEncoder) NClasses() int {
	return len(e.classes)
}

// IsFitted は学習済みかどうかを返す
func (e *LabelEncoder) IsFitted() bool {
	return e.state.IsFitted()
}

// GetParams はエンコーダーのパラメータを取得する
func (e *LabelEncoder) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_classes": len(e.classes),
	}
}

// String はエンコーダーの文字列表現を返す
func (e *LabelEncoder) String() string {
	if !e.IsFitted() {
		return "LabelEncoder(fitted=false)"
	}
	return fmt.Sprintf("LabelEncoder(classes=%v)", e.classes)
}
