package datasets

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

func loadCSV(path string) (*mat.Dense, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "datasets: open %s", path)
	}
	defer file.Close()

	m, err := ReadCSV(file)
	if err != nil {
		return nil, errors.Wrapf(err, "datasets: read %s", path)
	}
	return m, nil
}

// ReadCSV parses comma separated numeric rows. Every row must have the same
// number of fields; blank lines are skipped.
func ReadCSV(r io.Reader) (*mat.Dense, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var data []float64
	rows, cols := 0, 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "parse csv")
		}
		if rows == 0 {
			cols = len(rec)
		}
		for j, s := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d column %d", rows+1, j+1)
			}
			data = append(data, v)
		}
		rows++
	}
	if rows == 0 {
		return nil, errors.NewModelError("datasets.ReadCSV", "empty data", errors.ErrEmptyData)
	}
	return mat.NewDense(rows, cols, data), nil
}

// WriteCSV writes m as comma separated rows using the shortest
// representation that round-trips each value.
func WriteCSV(w io.Writer, m mat.Matrix) error {
	writer := csv.NewWriter(w)
	r, c := m.Dims()
	rec := make([]string, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			rec[j] = strconv.FormatFloat(m.At(i, j), 'g', -1, 64)
		}
		if err := writer.Write(rec); err != nil {
			return errors.Wrap(err, "write csv")
		}
	}
	writer.Flush()
	return errors.Wrap(writer.Error(), "write csv")
}

func saveCSV(path string, m mat.Matrix) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "datasets: create %s", path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "datasets: close %s", path)
		}
	}()
	return WriteCSV(file, m)
}
