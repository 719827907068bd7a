package datasets

import (
	"os"

	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// loadNpy reads a float64 array of rank 1 or 2. A rank 1 array becomes a
// single column.
func loadNpy(path string) (*mat.Dense, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "datasets: open %s", path)
	}
	defer f.Close()

	r, err := npyio.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "datasets: read npy header %s", path)
	}

	shape := r.Header.Descr.Shape
	switch len(shape) {
	case 1:
		var data []float64
		if err := r.Read(&data); err != nil {
			return nil, errors.Wrapf(err, "datasets: read %s", path)
		}
		if len(data) == 0 {
			return nil, errors.NewModelError("datasets.LoadMatrix", "empty data", errors.ErrEmptyData)
		}
		return mat.NewDense(len(data), 1, data), nil
	case 2:
		if shape[0] == 0 || shape[1] == 0 {
			return nil, errors.NewModelError("datasets.LoadMatrix", "empty data", errors.ErrEmptyData)
		}
		m := &mat.Dense{}
		if err := r.Read(m); err != nil {
			return nil, errors.Wrapf(err, "datasets: read %s", path)
		}
		return m, nil
	default:
		return nil, errors.NewValidationError("shape", "npy array must have rank 1 or 2", shape)
	}
}

func saveNpy(path string, m mat.Matrix) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "datasets: create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "datasets: close %s", path)
		}
	}()
	if err := npyio.Write(f, mat.DenseCopyOf(m)); err != nil {
		return errors.Wrapf(err, "datasets: write %s", path)
	}
	return nil
}
