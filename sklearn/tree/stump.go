package tree

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/YuminosukeSato/weaklearn/core/parallel"
	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"github.com/YuminosukeSato/weaklearn/pkg/log"
	"gonum.org/v1/gonum/mat"
)

// parallelFeatureThreshold is the feature count above which attribute
// scoring is spread over workers.
const parallelFeatureThreshold = 8

// Bucket is one contiguous interval of the split attribute.
// It covers values from Threshold up to the next bucket's threshold.
type Bucket struct {
	Threshold float64
	Label     int
}

// Stump is a trained decision stump. It is immutable once returned by Train
// and safe for concurrent use.
//
// Buckets are ordered by strictly increasing Threshold and no two adjacent
// buckets share a Label. When OneClass is set Buckets is empty and every
// sample is assigned DefaultClass.
type Stump struct {
	SplitColumn  int
	Buckets      []Bucket
	OneClass     bool
	DefaultClass int

	NumClasses int
	BucketSize int
	NFeatures  int
}

// Train fits a decision stump on X (n_samples×n_features) with one label per
// row. Labels must lie in [0, numClasses) and bucketSize must be at least 1.
func Train(X mat.Matrix, labels []int, numClasses, bucketSize int) (*Stump, error) {
	t := trainer{numClasses: numClasses, bucketSize: bucketSize, workers: 1}
	return t.train(X, labels)
}

// trainer carries the settings of one training run.
type trainer struct {
	numClasses int
	bucketSize int
	workers    int
	logger     log.Logger
}

func (t trainer) train(X mat.Matrix, labels []int) (*Stump, error) {
	if err := validateTrainingData(X, labels, t.numClasses, t.bucketSize); err != nil {
		return nil, err
	}
	nSamples, nFeatures := X.Dims()

	s := &Stump{
		SplitColumn:  -1,
		NumClasses:   t.numClasses,
		BucketSize:   t.bucketSize,
		NFeatures:    nFeatures,
		DefaultClass: mostFrequent(labels),
	}

	if allEqual(labels) {
		s.OneClass = true
		s.DefaultClass = labels[0]
		return s, nil
	}

	columns := make([][]float64, nFeatures)
	for j := range columns {
		columns[j] = mat.Col(nil, j, X)
	}

	scores := t.scoreAttributes(columns, labels)

	best := math.Inf(1)
	for j, score := range scores {
		if score < best {
			best = score
			s.SplitColumn = j
		}
	}

	if s.SplitColumn < 0 {
		s.OneClass = true
		warning := errors.NewDegenerateSplitWarning("DecisionStump", nFeatures, countClasses(labels), s.DefaultClass)
		if t.logger != nil {
			t.logger.Warn("No attribute has distinct values, predicting the majority class", warning,
				log.FeaturesKey, nFeatures,
				log.SamplesKey, nSamples,
				log.OneClassKey, true,
			)
		}
		errors.Warn(warning)
		return s, nil
	}

	s.Buckets = MergeBuckets(collapseThresholds(buildBuckets(columns[s.SplitColumn], labels, t.bucketSize)))

	if t.logger != nil && t.logger.Enabled(context.Background(), log.LevelDebug) {
		t.logger.Debug("Split attribute selected",
			log.SplitColumnKey, s.SplitColumn,
			log.EntropyKey, best,
			log.BucketsKey, len(s.Buckets),
			log.SamplesKey, nSamples,
		)
	}
	return s, nil
}

// scoreAttributes returns the split entropy of every column. Columns without
// distinct values score +Inf so they are never selected. Each column writes
// only its own slot, which keeps the selection order independent of workers.
func (t trainer) scoreAttributes(columns [][]float64, labels []int) []float64 {
	scores := make([]float64, len(columns))
	score := func(start, end int) {
		for j := start; j < end; j++ {
			if !isDistinct(columns[j]) {
				scores[j] = math.Inf(1)
				continue
			}
			scores[j] = splitEntropy(columns[j], labels, t.numClasses, t.bucketSize)
		}
	}

	parallel.ParallelizeWithThreshold(len(columns), parallelFeatureThreshold, t.workers, score)

	if t.logger != nil && t.logger.Enabled(context.Background(), log.LevelDebug) {
		for j, s := range scores {
			t.logger.Debug("Attribute scored", log.AttributeKey, j, log.EntropyKey, s)
		}
	}
	return scores
}

func validateTrainingData(X mat.Matrix, labels []int, numClasses, bucketSize int) error {
	if X == nil {
		return errors.NewModelError("DecisionStump.Train", "empty data", errors.ErrEmptyData)
	}
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("DecisionStump.Train", "empty data", errors.ErrEmptyData)
	}
	if len(labels) != nSamples {
		return errors.NewDimensionError("DecisionStump.Train", nSamples, len(labels), 0)
	}
	if numClasses < 1 {
		return errors.NewValidationError("numClasses", "must be at least 1", numClasses)
	}
	if bucketSize < 1 {
		return errors.NewValidationError("bucketSize", "must be at least 1", bucketSize)
	}
	for i, l := range labels {
		if l < 0 || l >= numClasses {
			return errors.NewValidationError("labels", fmt.Sprintf("label at index %d is outside [0, %d)", i, numClasses), l)
		}
	}
	return errors.CheckMatrix("DecisionStump.Train", X, nSamples, nFeatures)
}

// Classify returns one label per row of X. X must have the number of
// features the stump was trained on. Only the split attribute is read, and
// it must not contain NaN; a one-class stump accepts any values.
func (s *Stump) Classify(X mat.Matrix) ([]int, error) {
	if X == nil {
		return nil, errors.NewModelError("DecisionStump.Classify", "empty data", errors.ErrEmptyData)
	}
	nSamples, nFeatures := X.Dims()
	if nFeatures != s.NFeatures {
		return nil, errors.NewDimensionError("DecisionStump.Classify", s.NFeatures, nFeatures, 1)
	}

	predictions := make([]int, nSamples)
	if nSamples == 0 {
		return predictions, nil
	}
	if s.OneClass {
		for i := range predictions {
			predictions[i] = s.DefaultClass
		}
		return predictions, nil
	}

	values := mat.NewVecDense(nSamples, mat.Col(nil, s.SplitColumn, X))
	if err := errors.CheckNaN("DecisionStump.Classify", values, nSamples, 1); err != nil {
		return nil, err
	}
	for i := range predictions {
		predictions[i] = s.ClassifyValue(values.AtVec(i))
	}
	return predictions, nil
}

// ClassifyValue returns the label for a single value of the split attribute:
// the label of the last bucket whose threshold is ≤ v, or of the first
// bucket when v lies below every threshold.
func (s *Stump) ClassifyValue(v float64) int {
	if s.OneClass || len(s.Buckets) == 0 {
		return s.DefaultClass
	}
	return s.Buckets[s.bucketIndex(v)].Label
}

func (s *Stump) bucketIndex(v float64) int {
	idx := sort.Search(len(s.Buckets), func(i int) bool {
		return s.Buckets[i].Threshold > v
	})
	if idx == 0 {
		return 0
	}
	return idx - 1
}

// Validate checks the structural invariants of a stump built outside Train,
// for example one decoded from disk.
func (s *Stump) Validate() error {
	if s.NumClasses < 1 {
		return errors.NewValidationError("NumClasses", "must be at least 1", s.NumClasses)
	}
	if s.NFeatures < 1 {
		return errors.NewValidationError("NFeatures", "must be at least 1", s.NFeatures)
	}
	if s.DefaultClass < 0 || s.DefaultClass >= s.NumClasses {
		return errors.NewValidationError("DefaultClass", "outside class range", s.DefaultClass)
	}
	if s.OneClass {
		if len(s.Buckets) != 0 {
			return errors.NewValidationError("Buckets", "one-class stump must not have buckets", len(s.Buckets))
		}
		return nil
	}
	if s.SplitColumn < 0 || s.SplitColumn >= s.NFeatures {
		return errors.NewValidationError("SplitColumn", fmt.Sprintf("must be in [0, %d)", s.NFeatures), s.SplitColumn)
	}
	if len(s.Buckets) == 0 {
		return errors.NewValidationError("Buckets", "split stump needs at least one bucket", 0)
	}
	for i, b := range s.Buckets {
		if b.Label < 0 || b.Label >= s.NumClasses {
			return errors.NewValidationError("Buckets", fmt.Sprintf("bucket %d label outside class range", i), b.Label)
		}
		if err := errors.CheckScalar("DecisionStump.Validate", b.Threshold); err != nil {
			return errors.Wrapf(err, "bucket %d threshold", i)
		}
		if i == 0 {
			continue
		}
		if b.Threshold <= s.Buckets[i-1].Threshold {
			return errors.NewValidationError("Buckets", fmt.Sprintf("threshold %d is not strictly increasing", i), b.Threshold)
		}
		if b.Label == s.Buckets[i-1].Label {
			return errors.NewValidationError("Buckets", fmt.Sprintf("buckets %d and %d share a label", i-1, i), b.Label)
		}
	}
	return nil
}

// String renders the stump as a short human readable description.
func (s *Stump) String() string {
	if s.OneClass {
		return fmt.Sprintf("DecisionStump(one class: %d)", s.DefaultClass)
	}
	desc := fmt.Sprintf("DecisionStump(split on x[%d]:", s.SplitColumn)
	for _, b := range s.Buckets {
		desc += fmt.Sprintf(" [%g → %d]", b.Threshold, b.Label)
	}
	return desc + ")"
}

func allEqual(labels []int) bool {
	for _, l := range labels[1:] {
		if l != labels[0] {
			return false
		}
	}
	return true
}

func countClasses(labels []int) int {
	seen := make(map[int]struct{})
	for _, l := range labels {
		seen[l] = struct{}{}
	}
	return len(seen)
}
