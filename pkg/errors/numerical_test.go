package errors

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestCheckMatrix(t *testing.T) {
	tests := []struct {
		name    string
		data    []float64
		wantErr bool
		wantRow int
	}{
		{"finite", []float64{1, 2, 3, 4}, false, 0},
		{"nan in second row", []float64{1, 2, math.NaN(), 4}, true, 1},
		{"inf in first row", []float64{math.Inf(1), 2, 3, 4}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mat.NewDense(2, 2, tt.data)
			err := CheckMatrix("test", m, 2, 2)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckMatrix() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			var numErr *NumericalInstabilityError
			if !As(err, &numErr) {
				t.Fatalf("expected NumericalInstabilityError, got %T", err)
			}
			if numErr.Row != tt.wantRow {
				t.Errorf("Row = %d, want %d", numErr.Row, tt.wantRow)
			}
		})
	}
}

func TestCheckNaNAcceptsInf(t *testing.T) {
	m := mat.NewDense(1, 2, []float64{math.Inf(-1), math.Inf(1)})
	if err := CheckNaN("test", m, 1, 2); err != nil {
		t.Errorf("CheckNaN should accept infinite values, got %v", err)
	}

	m = mat.NewDense(1, 2, []float64{0, math.NaN()})
	if err := CheckNaN("test", m, 1, 2); err == nil {
		t.Error("CheckNaN should reject NaN")
	}
}

func TestCheckScalar(t *testing.T) {
	if err := CheckScalar("test", 1.5); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckScalar("test", math.NaN()); err == nil {
		t.Error("expected error for NaN")
	}
}

func TestSafeDivide(t *testing.T) {
	if got := SafeDivide(1, 0); got != 0 {
		t.Errorf("SafeDivide(1, 0) = %v, want 0", got)
	}
	if got := SafeDivide(3, 4); got != 0.75 {
		t.Errorf("SafeDivide(3, 4) = %v, want 0.75", got)
	}
}
