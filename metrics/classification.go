// Package metrics は分類モデルの評価指標を提供する
package metrics

import (
	"fmt"

	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Accuracy は正解率（予測が一致したサンプルの割合）を計算する
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	if yTrue == nil || yPred == nil || yTrue.Len() == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}

	n := yTrue.Len()
	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// AccuracyMatrix は n×1 の行列形式の入力に対して正解率を計算する
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, errors.NewValueError("AccuracyMatrix", "empty matrix")
	}
	if cTrue != 1 || cPred != 1 {
		return 0, errors.NewValueError("AccuracyMatrix", "must be a column vector (n×1 matrix)")
	}
	if rTrue != rPred {
		return 0, errors.NewDimensionError("AccuracyMatrix", rTrue, rPred, 0)
	}

	return Accuracy(
		mat.NewVecDense(rTrue, mat.Col(nil, 0, yTrue)),
		mat.NewVecDense(rPred, mat.Col(nil, 0, yPred)),
	)
}

// AccuracyLabels は整数ラベルに対して正解率を計算する
func AccuracyLabels(yTrue, yPred []int) (float64, error) {
	if len(yTrue) == 0 {
		return 0, errors.NewValueError("AccuracyLabels", "empty labels")
	}
	if len(yPred) != len(yTrue) {
		return 0, errors.NewDimensionError("AccuracyLabels", len(yTrue), len(yPred), 0)
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue)), nil
}

// ConfusionMatrix は numClasses×numClasses の混同行列を返す。
// 要素 (i, j) は真のクラスが i で j と予測されたサンプル数。
func ConfusionMatrix(yTrue, yPred []int, numClasses int) (*mat.Dense, error) {
	if len(yTrue) == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty labels")
	}
	if len(yPred) != len(yTrue) {
		return nil, errors.NewDimensionError("ConfusionMatrix", len(yTrue), len(yPred), 0)
	}
	if numClasses < 1 {
		return nil, errors.NewValidationError("numClasses", "must be at least 1", numClasses)
	}

	cm := mat.NewDense(numClasses, numClasses, nil)
	for i := range yTrue {
		t, p := yTrue[i], yPred[i]
		if t < 0 || t >= numClasses || p < 0 || p >= numClasses {
			return nil, errors.NewValidationError("labels",
				fmt.Sprintf("sample %d has a label outside [0, %d)", i, numClasses), [2]int{t, p})
		}
		cm.Set(t, p, cm.At(t, p)+1)
	}
	return cm, nil
}

// BalancedAccuracy はクラスごとの再現率の平均を返す。
// 評価データに現れないクラスは平均から除外する。
func BalancedAccuracy(yTrue, yPred []int, numClasses int) (float64, error) {
	cm, err := ConfusionMatrix(yTrue, yPred, numClasses)
	if err != nil {
		return 0, err
	}

	var sum float64
	present := 0
	for c := 0; c < numClasses; c++ {
		support := mat.Sum(cm.RowView(c))
		if support == 0 {
			continue
		}
		sum += errors.SafeDivide(cm.At(c, c), support)
		present++
	}
	return errors.SafeDivide(sum, float64(present)), nil
}
