// Package linear_model provides linear classifiers that complement the decision stump.
package linear_model

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/YuminosukeSato/weaklearn/core/model"
	"github.com/YuminosukeSato/weaklearn/metrics"
	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"github.com/YuminosukeSato/weaklearn/pkg/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// DefaultMaxIter is the default cap on training epochs.
	DefaultMaxIter = 1000

	// InitZero starts training from all-zero weights.
	InitZero = "zero"
	// InitRandom starts training from weights drawn uniformly from [0, 1).
	InitRandom = "random"

	perceptronModelType = "Perceptron"
	perceptronVersion   = "1.0.0"
)

// Perceptron is a multi-class perceptron with one weight vector per class.
//
// Each sample is extended with a constant bias input of 1. A sample is
// assigned the class whose weight vector has the largest dot product with
// it. On a mistake the predicted class's weights move away from the sample
// and the true class's weights move toward it. Training stops after an
// epoch without mistakes or after maxIter epochs.
type Perceptron struct {
	state *model.StateManager

	// Hyperparameters
	numClasses     int    // 0 = infer from labels
	maxIter        int    // maximum number of epochs
	initialization string // InitZero or InitRandom
	randomState    int64  // seed for InitRandom, < 0 = time based

	// Model parameters
	weights   *mat.Dense // numClasses × (nFeatures+1), column 0 is the bias
	nIter     int
	converged bool

	logger log.Logger
	mu     sync.RWMutex
}

// PerceptronOption is a functional option for Perceptron.
type PerceptronOption func(*Perceptron)

// NewPerceptron creates a new Perceptron.
func NewPerceptron(opts ...PerceptronOption) *Perceptron {
	p := &Perceptron{
		state:          model.NewStateManager(),
		maxIter:        DefaultMaxIter,
		initialization: InitZero,
		randomState:    -1,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = log.GetLoggerWithName("linear_model").With(log.ModelNameKey, "Perceptron")
	}
	return p
}

// WithMaxIter sets the maximum number of training epochs.
func WithMaxIter(maxIter int) PerceptronOption {
	return func(p *Perceptron) {
		p.maxIter = maxIter
	}
}

// WithInitialization selects the weight initialization, InitZero or InitRandom.
func WithInitialization(method string) PerceptronOption {
	return func(p *Perceptron) {
		p.initialization = method
	}
}

// WithRandomState sets the seed used by InitRandom.
func WithRandomState(seed int64) PerceptronOption {
	return func(p *Perceptron) {
		p.randomState = seed
	}
}

// WithNumClasses sets the number of classes. 0 infers it from the labels.
func WithNumClasses(n int) PerceptronOption {
	return func(p *Perceptron) {
		p.numClasses = n
	}
}

// WithLogger sets the logger used by the estimator.
func WithLogger(logger log.Logger) PerceptronOption {
	return func(p *Perceptron) {
		p.logger = logger
	}
}

// Fit trains the perceptron on X (n_samples×n_features) and y (n_samples×1).
func (p *Perceptron) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "Perceptron.Fit")

	labels, err := model.LabelsFromMatrix("Perceptron.Fit", y)
	if err != nil {
		return err
	}
	return p.FitLabels(X, labels)
}

// FitLabels is Fit with the labels given as a slice.
func (p *Perceptron) FitLabels(X mat.Matrix, labels []int) (err error) {
	defer errors.Recover(&err, "Perceptron.FitLabels")

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.validateParams(); err != nil {
		return err
	}
	if X == nil {
		return errors.NewModelError("Perceptron.Fit", "empty data", errors.ErrEmptyData)
	}
	nSamples, nFeatures := X.Dims()
	if nSamples == 0 || nFeatures == 0 {
		return errors.NewModelError("Perceptron.Fit", "empty data", errors.ErrEmptyData)
	}
	if len(labels) != nSamples {
		return errors.NewDimensionError("Perceptron.Fit", nSamples, len(labels), 0)
	}
	if err := errors.CheckMatrix("Perceptron.Fit", X, nSamples, nFeatures); err != nil {
		return err
	}

	numClasses := p.numClasses
	maxLabel := 0
	for i, l := range labels {
		if l < 0 || (numClasses > 0 && l >= numClasses) {
			return errors.NewValidationError("labels", fmt.Sprintf("label at index %d is outside the class range", i), l)
		}
		if l > maxLabel {
			maxLabel = l
		}
	}
	if numClasses == 0 {
		numClasses = maxLabel + 1
	}

	start := time.Now()
	weights := p.initialWeights(numClasses, nFeatures+1)

	x := mat.NewVecDense(nFeatures+1, nil)
	scores := mat.NewVecDense(numClasses, nil)
	epochs, converged := 0, false
	for epochs < p.maxIter && !converged {
		epochs++
		converged = true
		for i := 0; i < nSamples; i++ {
			biasedRow(x, X, i)
			scores.MulVec(weights, x)
			pred := floats.MaxIdx(scores.RawVector().Data)
			if pred == labels[i] {
				continue
			}
			converged = false
			addRow(weights, pred, x, -1)
			addRow(weights, labels[i], x, 1)
		}
	}

	p.weights = weights
	p.nIter = epochs
	p.converged = converged
	p.state.SetDimensions(nFeatures, nSamples, numClasses)
	p.state.SetFitted()

	p.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
		log.ClassesKey, numClasses,
		log.IterationKey, epochs,
		"training.converged", converged,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return nil
}

func (p *Perceptron) validateParams() error {
	if p.maxIter < 1 {
		return errors.NewValidationError("max_iter", "must be at least 1", p.maxIter)
	}
	if p.numClasses < 0 {
		return errors.NewValidationError("num_classes", "must be non-negative (0 infers from labels)", p.numClasses)
	}
	if p.initialization != InitZero && p.initialization != InitRandom {
		return errors.NewValidationError("initialization", "must be \"zero\" or \"random\"", p.initialization)
	}
	return nil
}

func (p *Perceptron) initialWeights(rows, cols int) *mat.Dense {
	w := mat.NewDense(rows, cols, nil)
	if p.initialization != InitRandom {
		return w
	}
	seed := p.randomState
	if seed < 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			w.Set(i, j, rng.Float64())
		}
	}
	return w
}

// biasedRow fills dst with 1 followed by row i of X.
func biasedRow(dst *mat.VecDense, X mat.Matrix, i int) {
	dst.SetVec(0, 1)
	for j := 1; j < dst.Len(); j++ {
		dst.SetVec(j, X.At(i, j-1))
	}
}

// addRow adds sign·x to row r of w.
func addRow(w *mat.Dense, r int, x *mat.VecDense, sign float64) {
	floats.AddScaled(w.RawRowView(r), sign, x.RawVector().Data)
}

// Predict returns predicted labels as an n_samples×1 matrix.
func (p *Perceptron) Predict(X mat.Matrix) (mat.Matrix, error) {
	labels, err := p.PredictLabels(X)
	if err != nil {
		return nil, err
	}
	return model.LabelsToMatrix(labels), nil
}

// PredictLabels returns one predicted label per row of X.
func (p *Perceptron) PredictLabels(X mat.Matrix) ([]int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := p.state.RequireFitted("Perceptron", "Predict"); err != nil {
		return nil, err
	}
	if X == nil {
		return nil, errors.NewModelError("Perceptron.Predict", "empty data", errors.ErrEmptyData)
	}
	nSamples, nFeatures := X.Dims()
	if err := p.state.RequireFeatures("Perceptron.Predict", nFeatures); err != nil {
		return nil, err
	}
	if err := errors.CheckNaN("Perceptron.Predict", X, nSamples, nFeatures); err != nil {
		return nil, err
	}

	numClasses, _ := p.weights.Dims()
	x := mat.NewVecDense(nFeatures+1, nil)
	scores := mat.NewVecDense(numClasses, nil)
	predictions := make([]int, nSamples)
	for i := range predictions {
		biasedRow(x, X, i)
		scores.MulVec(p.weights, x)
		predictions[i] = floats.MaxIdx(scores.RawVector().Data)
	}
	return predictions, nil
}

// Score returns the accuracy of the predictions for X against y.
func (p *Perceptron) Score(X, y mat.Matrix) (float64, error) {
	labels, err := model.LabelsFromMatrix("Perceptron.Score", y)
	if err != nil {
		return 0, err
	}
	predictions, err := p.PredictLabels(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyLabels(labels, predictions)
}

// IsFitted reports whether Fit has completed successfully.
func (p *Perceptron) IsFitted() bool {
	return p.state.IsFitted()
}

// Weights returns a copy of the weight matrix; column 0 holds the bias.
func (p *Perceptron) Weights() *mat.Dense {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.weights == nil {
		return nil
	}
	return mat.DenseCopyOf(p.weights)
}

// NIter returns the number of epochs run by the last Fit.
func (p *Perceptron) NIter() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.nIter
}

// Converged reports whether the last Fit ended with an epoch without mistakes.
func (p *Perceptron) Converged() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.converged
}

// GetParams returns the hyperparameters.
func (p *Perceptron) GetParams() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return map[string]interface{}{
		"num_classes":    p.numClasses,
		"max_iter":       p.maxIter,
		"initialization": p.initialization,
		"random_state":   p.randomState,
	}
}

// SetParams sets hyperparameters by name.
func (p *Perceptron) SetParams(params map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, value := range params {
		switch key {
		case "num_classes":
			n, ok := value.(int)
			if !ok || n < 0 {
				return errors.NewValidationError(key, "must be a non-negative int", value)
			}
			p.numClasses = n
		case "max_iter":
			n, ok := value.(int)
			if !ok || n < 1 {
				return errors.NewValidationError(key, "must be a positive int", value)
			}
			p.maxIter = n
		case "initialization":
			s, ok := value.(string)
			if !ok || (s != InitZero && s != InitRandom) {
				return errors.NewValidationError(key, "must be \"zero\" or \"random\"", value)
			}
			p.initialization = s
		case "random_state":
			switch v := value.(type) {
			case int64:
				p.randomState = v
			case int:
				p.randomState = int64(v)
			default:
				return errors.NewValidationError(key, "must be an integer", value)
			}
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	return nil
}

// ExportWeights returns the weight matrix, row-major, in a ModelWeights envelope.
func (p *Perceptron) ExportWeights() (*model.ModelWeights, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if err := p.state.RequireFitted("Perceptron", "ExportWeights"); err != nil {
		return nil, err
	}
	rows, cols := p.weights.Dims()
	_, nSamples, _ := p.state.GetDimensions()
	coef := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		coef = append(coef, p.weights.RawRowView(i)...)
	}
	return &model.ModelWeights{
		ModelType:    perceptronModelType,
		Version:      perceptronVersion,
		Coefficients: coef,
		Hyperparameters: map[string]interface{}{
			"max_iter":       p.maxIter,
			"initialization": p.initialization,
		},
		Metadata: map[string]interface{}{
			"n_classes":  rows,
			"n_features": cols - 1,
			"n_samples":  nSamples,
			"n_iter":     p.nIter,
			"converged":  p.converged,
		},
		IsFitted: true,
	}, nil
}

// ImportWeights restores weights exported by ExportWeights.
func (p *Perceptron) ImportWeights(w *model.ModelWeights) error {
	if w == nil {
		return errors.NewValueError("Perceptron.ImportWeights", "weights are nil")
	}
	if err := w.Validate(); err != nil {
		return err
	}
	if w.ModelType != perceptronModelType {
		return errors.NewValidationError("model_type", "expected "+perceptronModelType, w.ModelType)
	}
	if !w.IsFitted {
		return errors.NewValueError("Perceptron.ImportWeights", "weights are not fitted")
	}
	numClasses, err := w.MetadataInt("n_classes")
	if err != nil {
		return err
	}
	nFeatures, err := w.MetadataInt("n_features")
	if err != nil {
		return err
	}
	if numClasses < 1 || nFeatures < 1 || len(w.Coefficients) != numClasses*(nFeatures+1) {
		return errors.NewDimensionError("Perceptron.ImportWeights", numClasses*(nFeatures+1), len(w.Coefficients), 0)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	data := make([]float64, len(w.Coefficients))
	copy(data, w.Coefficients)
	p.weights = mat.NewDense(numClasses, nFeatures+1, data)
	p.numClasses = numClasses
	p.state.SetDimensions(nFeatures, 0, numClasses)
	p.state.SetFitted()
	return nil
}

// GobEncode stores the fitted weights so the estimator works with
// model.SaveModel.
func (p *Perceptron) GobEncode() ([]byte, error) {
	w, err := p.ExportWeights()
	if err != nil {
		return nil, err
	}
	return w.ToJSON()
}

// GobDecode restores weights written by GobEncode.
func (p *Perceptron) GobDecode(data []byte) error {
	var w model.ModelWeights
	if err := w.FromJSON(data); err != nil {
		return err
	}
	if p.state == nil {
		p.state = model.NewStateManager()
	}
	if p.logger == nil {
		p.logger = log.GetLoggerWithName("linear_model").With(log.ModelNameKey, "Perceptron")
	}
	if p.maxIter == 0 {
		p.maxIter = DefaultMaxIter
	}
	if p.initialization == "" {
		p.initialization = InitZero
	}
	if err := p.ImportWeights(&w); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if n, err := w.HyperparameterInt("max_iter"); err == nil {
		p.maxIter = n
	}
	if s, ok := w.Hyperparameters["initialization"].(string); ok {
		p.initialization = s
	}
	return nil
}
