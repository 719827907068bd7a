package errors

import (
	"math"
)

// maxReportedValues limits the number of offending values kept in an error.
const maxReportedValues = 10

// CheckScalar checks a single scalar value for NaN or Inf.
func CheckScalar(operation string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewNumericalInstabilityError(operation, []float64{value}, -1)
	}
	return nil
}

// CheckMatrix checks all values in a matrix for NaN or Inf.
// The first offending row is reported together with its bad values.
func CheckMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols int) error {
	return checkMatrix(operation, matrix, rows, cols, func(v float64) bool {
		return math.IsNaN(v) || math.IsInf(v, 0)
	})
}

// CheckNaN checks a matrix for NaN only. Infinite values are accepted,
// which is what prediction paths need: they are ordinary out-of-range inputs there.
func CheckNaN(operation string, matrix interface{ At(int, int) float64 }, rows, cols int) error {
	return checkMatrix(operation, matrix, rows, cols, math.IsNaN)
}

func checkMatrix(operation string, matrix interface{ At(int, int) float64 }, rows, cols int, bad func(float64) bool) error {
	for i := 0; i < rows; i++ {
		var unstableValues []float64
		for j := 0; j < cols; j++ {
			v := matrix.At(i, j)
			if bad(v) {
				unstableValues = append(unstableValues, v)
				if len(unstableValues) >= maxReportedValues {
					break
				}
			}
		}
		if len(unstableValues) > 0 {
			return NewNumericalInstabilityError(operation, unstableValues, i)
		}
	}
	return nil
}

// SafeDivide performs division with protection against division by zero.
// Returns 0 if denominator is zero or close to zero.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}
