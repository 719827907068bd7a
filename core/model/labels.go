package model

import (
	"fmt"
	"math"

	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LabelsFromMatrix converts a class label vector given as an n×1 or 1×n
// matrix into integer labels. Every value must be a non-negative integer.
func LabelsFromMatrix(op string, y mat.Matrix) ([]int, error) {
	rows, cols := y.Dims()
	if rows != 1 && cols != 1 {
		return nil, errors.NewValidationError("y", fmt.Sprintf("%s: labels must be a vector, got %dx%d", op, rows, cols), nil)
	}
	n := rows * cols
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		var v float64
		if cols == 1 {
			v = y.At(i, 0)
		} else {
			v = y.At(0, i)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v != math.Trunc(v) {
			return nil, errors.NewValidationError("y", fmt.Sprintf("%s: label %d must be a non-negative integer", op, i), v)
		}
		labels[i] = int(v)
	}
	return labels, nil
}

// LabelsToMatrix returns labels as an n×1 column.
func LabelsToMatrix(labels []int) *mat.Dense {
	data := make([]float64, len(labels))
	for i, l := range labels {
		data[i] = float64(l)
	}
	return mat.NewDense(len(labels), 1, data)
}
