package preprocessing

import (
	"math"
	"reflect"
	"testing"

	"github.com/YuminosukeSato/weaklearn/pkg/errors"
)

func TestLabelEncoder_FitTransform(t *testing.T) {
	tests := []struct {
		name        string
		y           []float64
		wantLabels  []int
		wantClasses []float64
	}{
		{
			name:        "already dense",
			y:           []float64{0, 1, 2, 1},
			wantLabels:  []int{0, 1, 2, 1},
			wantClasses: []float64{0, 1, 2},
		},
		{
			name:        "sparse and negative",
			y:           []float64{3, 7, 3, -1},
			wantLabels:  []int{1, 2, 1, 0},
			wantClasses: []float64{-1, 3, 7},
		},
		{
			name:        "single class",
			y:           []float64{5, 5, 5},
			wantLabels:  []int{0, 0, 0},
			wantClasses: []float64{5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewLabelEncoder()
			got, err := enc.FitTransform(tt.y)
			if err != nil {
				t.Fatalf("FitTransform() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.wantLabels) {
				t.Errorf("FitTransform() = %v, want %v", got, tt.wantLabels)
			}
			if !reflect.DeepEqual(enc.Classes(), tt.wantClasses) {
				t.Errorf("Classes() = %v, want %v", enc.Classes(), tt.wantClasses)
			}
			if enc.NClasses() != len(tt.wantClasses) {
				t.Errorf("NClasses() = %d", enc.NClasses())
			}

			back, err := enc.InverseTransform(got)
			if err != nil {
				t.Fatalf("InverseTransform() error = %v", err)
			}
			if !reflect.DeepEqual(back, tt.y) {
				t.Errorf("InverseTransform() = %v, want %v", back, tt.y)
			}
		})
	}
}

func TestLabelEncoder_Errors(t *testing.T) {
	enc := NewLabelEncoder()

	var nf *errors.NotFittedError
	if _, err := enc.Transform([]float64{1}); !errors.As(err, &nf) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
	if _, err := enc.InverseTransform([]int{0}); !errors.As(err, &nf) {
		t.Errorf("expected NotFittedError, got %v", err)
	}
	if err := enc.Fit(nil); !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("expected ErrEmptyData, got %v", err)
	}
	if err := enc.Fit([]float64{1, math.NaN()}); err == nil {
		t.Error("expected error for NaN label")
	}

	if err := enc.Fit([]float64{1, 2}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	var ve *errors.ValueError
	if _, err := enc.Transform([]float64{3}); !errors.As(err, &ve) {
		t.Errorf("expected ValueError for unseen label, got %v", err)
	}
	if _, err := enc.InverseTransform([]int{2}); err == nil {
		t.Error("expected error for out-of-range encoded label")
	}
}

func TestLabelEncoder_ClassesIsACopy(t *testing.T) {
	enc := NewLabelEncoder()
	if err := enc.Fit([]float64{2, 1}); err != nil {
		t.Fatal(err)
	}
	c := enc.Classes()
	c[0] = 99
	if enc.Classes()[0] != 1 {
		t.Error("Classes() must return a copy")
	}
	if enc.String() != "LabelEncoder(classes=[1 2])" {
		t.Errorf("String() = %q", enc.String())
	}
}
