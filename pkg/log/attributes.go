// Standard attribute keys for weaklearn log records.
//
// Keys follow a hierarchical naming convention ("model.name", "data.samples")
// so that log pipelines can filter and aggregate on them.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of machine learning model.
	// Examples: "DecisionStumpClassifier", "Perceptron", "LabelEncoder"
	ModelNameKey = "model.name"

	// OperationKey specifies the machine learning operation being performed.
	// Standard values: "fit", "predict", "transform", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies which component or package is logging.
	// Examples: "tree", "linear_model", "datasets", "cli"
	ComponentKey = "ml.component"

	// PhaseKey indicates the phase of model lifecycle.
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the dataset.
	FeaturesKey = "data.features"

	// ClassesKey indicates the number of class slots used for training.
	ClassesKey = "data.classes"

	// PathKey records the file a dataset or model was read from or written to.
	PathKey = "data.path"
)

// Decision stump structure
const (
	// SplitColumnKey records the attribute chosen as split column.
	SplitColumnKey = "stump.split_column"

	// BucketsKey records the number of buckets after merging.
	BucketsKey = "stump.buckets"

	// BucketSizeKey records the minimum bucket size.
	BucketSizeKey = "stump.bucket_size"

	// EntropyKey records a candidate split entropy score.
	EntropyKey = "stump.entropy"

	// AttributeKey records the attribute index being evaluated.
	AttributeKey = "stump.attribute"

	// OneClassKey records whether the stump degenerated into a constant predictor.
	OneClassKey = "stump.one_class"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// AccuracyKey records model accuracy for evaluation operations.
	AccuracyKey = "metrics.accuracy"

	// IterationKey records the number of iterations an iterative learner ran.
	IterationKey = "training.iteration"

	// PredsKey indicates the number of predictions made.
	PredsKey = "preds.count"
)

// Error Context
const (
	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// ErrorDetailKey holds the structured fields of a weaklearn error type.
	ErrorDetailKey = "error.detail"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationScore     = "score"

	PhaseTraining      = "training"
	PhaseTesting       = "testing"
	PhasePreprocessing = "preprocessing"
)
