package tree

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"
	"time"

	"github.com/YuminosukeSato/weaklearn/core/model"
	"github.com/YuminosukeSato/weaklearn/core/parallel"
	"github.com/YuminosukeSato/weaklearn/metrics"
	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"github.com/YuminosukeSato/weaklearn/pkg/log"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultBucketSize is the minimum bucket size used when none is given.
	DefaultBucketSize = 10

	weightsModelType = "DecisionStump"
	weightsVersion   = "1.0.0"
)

// DecisionStumpClassifier is a scikit-learn style estimator around Stump.
//
// Labels passed to Fit must be non-negative integers. With the default
// numClasses of 0 the number of classes is inferred as max(label)+1.
type DecisionStumpClassifier struct {
	state *model.StateManager

	// Hyperparameters
	numClasses int // 0 = infer from labels
	bucketSize int // minimum bucket size
	nJobs      int // workers for attribute scoring, <= 0 means all cores

	stump  *Stump
	logger log.Logger
	mu     sync.RWMutex
}

// DecisionStumpOption is a functional option for DecisionStumpClassifier.
type DecisionStumpOption func(*DecisionStumpClassifier)

// NewDecisionStumpClassifier creates a new DecisionStumpClassifier.
func NewDecisionStumpClassifier(opts ...DecisionStumpOption) *DecisionStumpClassifier {
	ds := &DecisionStumpClassifier{
		state:      model.NewStateManager(),
		bucketSize: DefaultBucketSize,
		nJobs:      1,
	}
	for _, opt := range opts {
		opt(ds)
	}
	if ds.logger == nil {
		ds.logger = log.GetLoggerWithName("tree").With(log.ModelNameKey, "DecisionStumpClassifier")
	}
	return ds
}

// WithNumClasses sets the number of classes. 0 infers it from the labels.
func WithNumClasses(n int) DecisionStumpOption {
	return func(ds *DecisionStumpClassifier) {
		ds.numClasses = n
	}
}

// WithBucketSize sets the minimum bucket size.
func WithBucketSize(size int) DecisionStumpOption {
	return func(ds *DecisionStumpClassifier) {
		ds.bucketSize = size
	}
}

// WithNJobs sets the number of workers used to score attributes.
// Values <= 0 use every CPU core.
func WithNJobs(n int) DecisionStumpOption {
	return func(ds *DecisionStumpClassifier) {
		ds.nJobs = n
	}
}

// WithLogger sets the logger used by the estimator.
func WithLogger(logger log.Logger) DecisionStumpOption {
	return func(ds *DecisionStumpClassifier) {
		ds.logger = logger
	}
}

// Fit trains the stump on X (n_samples×n_features) and y (n_samples×1).
// On error the previously fitted model, if any, is left untouched.
func (ds *DecisionStumpClassifier) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "DecisionStumpClassifier.Fit")

	labels, err := model.LabelsFromMatrix("DecisionStumpClassifier.Fit", y)
	if err != nil {
		return err
	}
	return ds.FitLabels(X, labels)
}

// FitLabels is Fit with the labels given as a slice.
func (ds *DecisionStumpClassifier) FitLabels(X mat.Matrix, labels []int) (err error) {
	defer errors.Recover(&err, "DecisionStumpClassifier.FitLabels")

	ds.mu.Lock()
	defer ds.mu.Unlock()

	numClasses, err := ds.resolveNumClasses(labels)
	if err != nil {
		return err
	}

	start := time.Now()
	t := trainer{
		numClasses: numClasses,
		bucketSize: ds.bucketSize,
		workers:    parallel.ResolveWorkers(ds.nJobs),
		logger:     ds.logger,
	}
	stump, err := t.train(X, labels)
	if err != nil {
		ds.logger.Error("Training failed", err, log.OperationKey, log.OperationFit)
		return err
	}

	nSamples, nFeatures := X.Dims()
	ds.stump = stump
	ds.state.SetDimensions(nFeatures, nSamples, numClasses)
	ds.state.SetFitted()

	ds.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.ClassesKey, numClasses,
		log.BucketSizeKey, ds.bucketSize,
		log.SplitColumnKey, stump.SplitColumn,
		log.BucketsKey, len(stump.Buckets),
		log.OneClassKey, stump.OneClass,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func (ds *DecisionStumpClassifier) resolveNumClasses(labels []int) (int, error) {
	if ds.numClasses < 0 {
		return 0, errors.NewValidationError("num_classes", "must be non-negative (0 infers from labels)", ds.numClasses)
	}
	if ds.numClasses > 0 {
		return ds.numClasses, nil
	}
	if len(labels) == 0 {
		return 0, errors.NewModelError("DecisionStumpClassifier.Fit", "empty data", errors.ErrEmptyData)
	}
	maxLabel := 0
	for i, l := range labels {
		if l < 0 {
			return 0, errors.NewValidationError("labels", fmt.Sprintf("label at index %d is negative", i), l)
		}
		if l > maxLabel {
			maxLabel = l
		}
	}
	return maxLabel + 1, nil
}

// Predict returns predicted labels as an n_samples×1 matrix.
func (ds *DecisionStumpClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	labels, err := ds.PredictLabels(X)
	if err != nil {
		return nil, err
	}
	return model.LabelsToMatrix(labels), nil
}

// PredictLabels returns one predicted label per row of X.
func (ds *DecisionStumpClassifier) PredictLabels(X mat.Matrix) ([]int, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if err := ds.state.RequireFitted("DecisionStumpClassifier", "Predict"); err != nil {
		return nil, err
	}
	if X == nil {
		return nil, errors.NewModelError("DecisionStumpClassifier.Predict", "empty data", errors.ErrEmptyData)
	}
	_, nFeatures := X.Dims()
	if err := ds.state.RequireFeatures("DecisionStumpClassifier.Predict", nFeatures); err != nil {
		return nil, err
	}

	predictions, err := ds.stump.Classify(X)
	if err != nil {
		return nil, err
	}
	ds.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PredsKey, len(predictions),
	)
	return predictions, nil
}

// Score returns the accuracy of the predictions for X against y.
func (ds *DecisionStumpClassifier) Score(X, y mat.Matrix) (float64, error) {
	labels, err := model.LabelsFromMatrix("DecisionStumpClassifier.Score", y)
	if err != nil {
		return 0, err
	}
	predictions, err := ds.PredictLabels(X)
	if err != nil {
		return 0, err
	}
	accuracy, err := metrics.AccuracyLabels(labels, predictions)
	if err != nil {
		return 0, err
	}
	ds.logger.Debug("Score computed", log.OperationKey, log.OperationScore, log.AccuracyKey, accuracy)
	return accuracy, nil
}

// IsFitted reports whether Fit has completed successfully.
func (ds *DecisionStumpClassifier) IsFitted() bool {
	return ds.state.IsFitted()
}

// Stump returns the trained stump, or nil before Fit.
func (ds *DecisionStumpClassifier) Stump() *Stump {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.stump
}

// GetParams returns the hyperparameters.
func (ds *DecisionStumpClassifier) GetParams() map[string]interface{} {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return map[string]interface{}{
		"num_classes": ds.numClasses,
		"bucket_size": ds.bucketSize,
		"n_jobs":      ds.nJobs,
	}
}

// SetParams sets hyperparameters by name. Unknown names are rejected.
func (ds *DecisionStumpClassifier) SetParams(params map[string]interface{}) error {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	for key, value := range params {
		n, ok := intParam(value)
		if !ok {
			return errors.NewValidationError(key, "must be an integer", value)
		}
		switch key {
		case "num_classes":
			if n < 0 {
				return errors.NewValidationError(key, "must be non-negative", n)
			}
			ds.numClasses = n
		case "bucket_size":
			if n < 1 {
				return errors.NewValidationError(key, "must be at least 1", n)
			}
			ds.bucketSize = n
		case "n_jobs":
			ds.nJobs = n
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}

func intParam(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// ExportWeights returns the trained stump as a ModelWeights envelope.
// Coefficients hold the bucket thresholds and Labels the bucket labels;
// a one-class stump stores its default class as the only label.
func (ds *DecisionStumpClassifier) ExportWeights() (*model.ModelWeights, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if err := ds.state.RequireFitted("DecisionStumpClassifier", "ExportWeights"); err != nil {
		return nil, err
	}

	s := ds.stump
	_, nSamples, _ := ds.state.GetDimensions()
	w := &model.ModelWeights{
		ModelType: weightsModelType,
		Version:   weightsVersion,
		Hyperparameters: map[string]interface{}{
			"num_classes": s.NumClasses,
			"bucket_size": s.BucketSize,
		},
		Metadata: map[string]interface{}{
			"split_column":  s.SplitColumn,
			"default_class": s.DefaultClass,
			"one_class":     s.OneClass,
			"n_features":    s.NFeatures,
			"n_samples":     nSamples,
		},
		IsFitted: true,
	}
	if s.OneClass {
		w.Labels = []int{s.DefaultClass}
		return w, nil
	}
	w.Coefficients = make([]float64, len(s.Buckets))
	w.Labels = make([]int, len(s.Buckets))
	for i, b := range s.Buckets {
		w.Coefficients[i] = b.Threshold
		w.Labels[i] = b.Label
	}
	return w, nil
}

// ImportWeights restores a stump exported by ExportWeights.
func (ds *DecisionStumpClassifier) ImportWeights(weights *model.ModelWeights) error {
	if weights == nil {
		return errors.NewValueError("DecisionStumpClassifier.ImportWeights", "weights are nil")
	}
	if err := weights.Validate(); err != nil {
		return err
	}
	if weights.ModelType != weightsModelType {
		return errors.NewValidationError("model_type", "expected "+weightsModelType, weights.ModelType)
	}
	if !weights.IsFitted {
		return errors.NewValueError("DecisionStumpClassifier.ImportWeights", "weights are not fitted")
	}

	s, err := stumpFromWeights(weights)
	if err != nil {
		return err
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.installStump(s)
	return nil
}

func stumpFromWeights(w *model.ModelWeights) (*Stump, error) {
	s := &Stump{}
	var err error
	if s.NumClasses, err = w.HyperparameterInt("num_classes"); err != nil {
		return nil, err
	}
	if s.BucketSize, err = w.HyperparameterInt("bucket_size"); err != nil {
		return nil, err
	}
	if s.SplitColumn, err = w.MetadataInt("split_column"); err != nil {
		return nil, err
	}
	if s.DefaultClass, err = w.MetadataInt("default_class"); err != nil {
		return nil, err
	}
	if s.NFeatures, err = w.MetadataInt("n_features"); err != nil {
		return nil, err
	}
	oneClass, ok := w.Metadata["one_class"].(bool)
	if !ok {
		return nil, errors.NewValidationError("one_class", "must be a boolean", w.Metadata["one_class"])
	}
	s.OneClass = oneClass

	if !s.OneClass {
		if len(w.Coefficients) != len(w.Labels) {
			return nil, errors.NewDimensionError("DecisionStumpClassifier.ImportWeights", len(w.Labels), len(w.Coefficients), 0)
		}
		s.Buckets = make([]Bucket, len(w.Labels))
		for i := range w.Labels {
			s.Buckets[i] = Bucket{Threshold: w.Coefficients[i], Label: w.Labels[i]}
		}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// installStump makes s the fitted model. The caller holds ds.mu.
func (ds *DecisionStumpClassifier) installStump(s *Stump) {
	ds.stump = s
	ds.numClasses = s.NumClasses
	ds.bucketSize = s.BucketSize
	ds.state.SetDimensions(s.NFeatures, 0, s.NumClasses)
	ds.state.SetFitted()
}

// gobStump is the on-disk form used by model.SaveModel and model.LoadModel.
type gobStump struct {
	Stump *Stump
	NJobs int
	State model.ModelState
}

// GobEncode implements gob.GobEncoder.
func (ds *DecisionStumpClassifier) GobEncode() ([]byte, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if err := ds.state.RequireFitted("DecisionStumpClassifier", "GobEncode"); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobStump{Stump: ds.stump, NJobs: ds.nJobs, State: ds.state.GetState()}); err != nil {
		return nil, errors.Wrap(err, "failed to encode decision stump")
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (ds *DecisionStumpClassifier) GobDecode(data []byte) error {
	var g gobStump
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return errors.Wrap(err, "failed to decode decision stump")
	}
	if g.Stump == nil {
		return errors.NewValueError("DecisionStumpClassifier.GobDecode", "missing stump")
	}
	if err := g.Stump.Validate(); err != nil {
		return err
	}

	if ds.state == nil {
		ds.state = model.NewStateManager()
	}
	if ds.logger == nil {
		ds.logger = log.GetLoggerWithName("tree").With(log.ModelNameKey, "DecisionStumpClassifier")
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.nJobs = g.NJobs
	ds.installStump(g.Stump)
	if g.State.Fitted && g.State.NFeatures == g.Stump.NFeatures {
		ds.state.SetState(g.State)
	}
	return nil
}
