// Package config holds the settings of the weaklearn command.
package config

import (
	"os"
	"strconv"

	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"github.com/YuminosukeSato/weaklearn/pkg/log"
)

// Training methods accepted by the command.
const (
	MethodStump      = "stump"
	MethodPerceptron = "perceptron"
)

// Config holds all weaklearn command settings.
type Config struct {
	Data     DataConfig
	Training TrainingConfig
	Output   OutputConfig
	LogLevel string
}

// DataConfig names the input files.
type DataConfig struct {
	TrainFile  string
	LabelsFile string // empty = labels are the last column of TrainFile
	TestFile   string
	Transpose  bool // files store one attribute per row
}

// TrainingConfig holds learner settings.
type TrainingConfig struct {
	Method     string
	NumClasses int // 0 = infer from the labels
	BucketSize int
	NJobs      int
	Iterations int // perceptron only
}

// OutputConfig names the output files. Empty paths are skipped.
type OutputConfig struct {
	Predictions string
	Model       string
	Plot        string
	Graph       string
}

// Load reads configuration from environment variables with defaults.
// Command-line flags are applied on top by the caller.
func Load() Config {
	return Config{
		Training: TrainingConfig{
			Method:     getenv("WEAKLEARN_METHOD", MethodStump),
			NumClasses: getenvInt("WEAKLEARN_NUM_CLASSES", 0),
			BucketSize: getenvInt("WEAKLEARN_BUCKET_SIZE", 10),
			NJobs:      getenvInt("WEAKLEARN_NJOBS", 1),
			Iterations: getenvInt("WEAKLEARN_ITERATIONS", 1000),
		},
		Output: OutputConfig{
			Predictions: getenv("WEAKLEARN_OUTPUT", "output.csv"),
		},
		LogLevel: getenv("WEAKLEARN_LOG_LEVEL", "info"),
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Data.TrainFile == "" {
		return errors.NewValidationError("train_file", "is required", c.Data.TrainFile)
	}
	switch c.Training.Method {
	case MethodStump, MethodPerceptron:
	default:
		return errors.NewValidationError("method", "must be \"stump\" or \"perceptron\"", c.Training.Method)
	}
	if c.Training.NumClasses < 0 {
		return errors.NewValidationError("num_classes", "must be non-negative (0 infers from labels)", c.Training.NumClasses)
	}
	if c.Training.BucketSize < 1 {
		return errors.NewValidationError("bucket_size", "must be at least 1", c.Training.BucketSize)
	}
	if c.Training.Iterations < 1 {
		return errors.NewValidationError("iterations", "must be at least 1", c.Training.Iterations)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
