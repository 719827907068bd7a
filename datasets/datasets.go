// Package datasets loads and saves numeric matrices and label vectors.
//
// The file format is chosen by extension: ".csv" and ".txt" are comma
// separated text, ".npy" is the NumPy array format. Matrices are stored one
// sample per row; pass transpose to LoadMatrix for files that store one
// attribute per row.
package datasets

import (
	"math"
	"path/filepath"
	"strings"

	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

type format int

const (
	formatCSV format = iota
	formatNPY
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return formatCSV, nil
	case ".npy":
		return formatNPY, nil
	default:
		return 0, errors.Wrapf(errors.ErrUnsupportedFormat, "datasets: %q", path)
	}
}

// LoadMatrix reads a matrix from path. With transpose set the file is read
// as attribute-major and the result is returned sample-major.
func LoadMatrix(path string, transpose bool) (*mat.Dense, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	var m *mat.Dense
	switch f {
	case formatNPY:
		m, err = loadNpy(path)
	default:
		m, err = loadCSV(path)
	}
	if err != nil {
		return nil, err
	}
	if transpose {
		m = mat.DenseCopyOf(m.T())
	}
	return m, nil
}

// SaveMatrix writes m to path, one row per line for text formats.
func SaveMatrix(path string, m mat.Matrix) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	if f == formatNPY {
		return saveNpy(path, m)
	}
	return saveCSV(path, m)
}

// LoadLabels reads integer labels stored as a single row or a single column.
func LoadLabels(path string) ([]int, error) {
	m, err := LoadMatrix(path, false)
	if err != nil {
		return nil, err
	}
	values, err := vectorOf(path, m)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(values))
	for i, v := range values {
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return nil, errors.NewValidationError("labels", "labels must be integers", v)
		}
		labels[i] = int(v)
	}
	return labels, nil
}

// LoadVector reads real values stored as a single row or a single column.
func LoadVector(path string) ([]float64, error) {
	m, err := LoadMatrix(path, false)
	if err != nil {
		return nil, err
	}
	return vectorOf(path, m)
}

// SaveLabels writes labels as a single column.
func SaveLabels(path string, labels []int) error {
	m := mat.NewDense(len(labels), 1, nil)
	for i, l := range labels {
		m.Set(i, 0, float64(l))
	}
	return SaveMatrix(path, m)
}

// SaveVector writes values as a single column.
func SaveVector(path string, values []float64) error {
	data := make([]float64, len(values))
	copy(data, values)
	return SaveMatrix(path, mat.NewDense(len(values), 1, data))
}

func vectorOf(path string, m *mat.Dense) ([]float64, error) {
	r, c := m.Dims()
	switch {
	case c == 1:
		return mat.Col(nil, 0, m), nil
	case r == 1:
		return mat.Row(nil, 0, m), nil
	default:
		return nil, errors.NewValueError("datasets.LoadLabels",
			"expected a single row or column in "+path)
	}
}
