// Command weaklearn trains a decision stump or a perceptron on a labeled
// dataset and classifies a test set with it.
//
//	weaklearn -train_file train.csv -labels_file labels.csv -test_file test.csv
//
// Labels may be arbitrary numbers; they are mapped to 0..k-1 for training
// and mapped back when predictions are written. Without -labels_file the
// last column of the training file holds the labels.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/YuminosukeSato/weaklearn/core/model"
	"github.com/YuminosukeSato/weaklearn/datasets"
	"github.com/YuminosukeSato/weaklearn/internal/config"
	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"github.com/YuminosukeSato/weaklearn/pkg/log"
	"github.com/YuminosukeSato/weaklearn/preprocessing"
	"github.com/YuminosukeSato/weaklearn/sklearn/linear_model"
	"github.com/YuminosukeSato/weaklearn/sklearn/tree"
	"gonum.org/v1/gonum/mat"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := log.SetupLogger(cfg.LogLevel, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := log.GetLoggerWithName("cli")
	err = errors.SafeExecute("weaklearn", func() error { return run(cfg, logger) })
	if err != nil {
		logger.Error("weaklearn failed", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (config.Config, error) {
	cfg := config.Load()

	fs := flag.NewFlagSet("weaklearn", flag.ContinueOnError)
	fs.StringVar(&cfg.Data.TrainFile, "train_file", cfg.Data.TrainFile, "training data file (.csv, .txt or .npy)")
	fs.StringVar(&cfg.Data.LabelsFile, "labels_file", cfg.Data.LabelsFile, "training labels file; empty = last column of the training file")
	fs.StringVar(&cfg.Data.TestFile, "test_file", cfg.Data.TestFile, "test data file to classify")
	fs.BoolVar(&cfg.Data.Transpose, "transpose", cfg.Data.Transpose, "data files store one attribute per row")
	fs.StringVar(&cfg.Training.Method, "method", cfg.Training.Method, "learner: stump or perceptron")
	fs.IntVar(&cfg.Training.NumClasses, "num_classes", cfg.Training.NumClasses, "number of classes; 0 infers from the labels")
	fs.IntVar(&cfg.Training.BucketSize, "bucket_size", cfg.Training.BucketSize, "minimum bucket size of the stump")
	fs.IntVar(&cfg.Training.NJobs, "n_jobs", cfg.Training.NJobs, "workers for attribute scoring; <= 0 uses all cores")
	fs.IntVar(&cfg.Training.Iterations, "iterations", cfg.Training.Iterations, "maximum perceptron epochs")
	fs.StringVar(&cfg.Output.Predictions, "output", cfg.Output.Predictions, "file to write test predictions to")
	fs.StringVar(&cfg.Output.Model, "model_out", cfg.Output.Model, "file to save the trained model to (.json for a weights envelope, gob otherwise)")
	fs.StringVar(&cfg.Output.Plot, "plot", cfg.Output.Plot, "stump only: save a plot of the split attribute (.png, .svg, .pdf)")
	fs.StringVar(&cfg.Output.Graph, "graph", cfg.Output.Graph, "stump only: render the stump graph (.svg, .png, .jpg, .dot)")
	fs.StringVar(&cfg.LogLevel, "log_level", cfg.LogLevel, "log level: debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// classifier is what the command needs from either learner.
type classifier interface {
	FitLabels(X mat.Matrix, labels []int) error
	PredictLabels(X mat.Matrix) ([]int, error)
	model.WeightExporter
}

func newClassifier(cfg config.Config, numClasses int) classifier {
	if cfg.Training.Method == config.MethodPerceptron {
		return linear_model.NewPerceptron(
			linear_model.WithNumClasses(numClasses),
			linear_model.WithMaxIter(cfg.Training.Iterations),
		)
	}
	return tree.NewDecisionStumpClassifier(
		tree.WithNumClasses(numClasses),
		tree.WithBucketSize(cfg.Training.BucketSize),
		tree.WithNJobs(cfg.Training.NJobs),
	)
}

func run(cfg config.Config, logger log.Logger) error {
	X, rawLabels, err := loadTrainingData(cfg.Data)
	if err != nil {
		return err
	}
	nSamples, nFeatures := X.Dims()
	logger.Info("Training data loaded",
		log.PathKey, cfg.Data.TrainFile,
		log.SamplesKey, nSamples,
		log.FeaturesKey, nFeatures,
	)

	encoder := preprocessing.NewLabelEncoder()
	labels, err := encoder.FitTransform(rawLabels)
	if err != nil {
		return err
	}
	numClasses := cfg.Training.NumClasses
	if numClasses == 0 {
		numClasses = encoder.NClasses()
	} else if numClasses < encoder.NClasses() {
		return errors.NewValidationError("num_classes",
			fmt.Sprintf("labels contain %d distinct classes", encoder.NClasses()), numClasses)
	}

	clf := newClassifier(cfg, numClasses)
	start := time.Now()
	if err := clf.FitLabels(X, labels); err != nil {
		return err
	}
	logger.Info("Training finished",
		log.PhaseKey, log.PhaseTraining,
		log.ClassesKey, numClasses,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	if stump, ok := clf.(*tree.DecisionStumpClassifier); ok {
		if err := renderStump(cfg.Output, stump.Stump(), X, labels, logger); err != nil {
			return err
		}
	} else if cfg.Output.Plot != "" || cfg.Output.Graph != "" {
		logger.Warn("Plot and graph output are only available for the stump", "method", cfg.Training.Method)
	}

	if cfg.Output.Model != "" {
		if err := saveModel(cfg.Output.Model, clf); err != nil {
			return err
		}
		logger.Info("Model saved", log.PathKey, cfg.Output.Model)
	}

	if cfg.Data.TestFile == "" {
		return nil
	}
	return classifyTestData(cfg, clf, encoder, nFeatures, logger)
}

func loadTrainingData(cfg config.DataConfig) (*mat.Dense, []float64, error) {
	X, err := datasets.LoadMatrix(cfg.TrainFile, cfg.Transpose)
	if err != nil {
		return nil, nil, err
	}
	if cfg.LabelsFile != "" {
		labels, err := datasets.LoadVector(cfg.LabelsFile)
		if err != nil {
			return nil, nil, err
		}
		return X, labels, nil
	}

	r, c := X.Dims()
	if c < 2 {
		return nil, nil, errors.NewValueError("weaklearn",
			"training file needs at least one attribute column besides the label column")
	}
	labels := mat.Col(nil, c-1, X)
	return mat.DenseCopyOf(X.Slice(0, r, 0, c-1)), labels, nil
}

func classifyTestData(cfg config.Config, clf classifier, encoder *preprocessing.LabelEncoder, nFeatures int, logger log.Logger) error {
	test, err := datasets.LoadMatrix(cfg.Data.TestFile, cfg.Data.Transpose)
	if err != nil {
		return err
	}
	nTest, testFeatures := test.Dims()
	if testFeatures != nFeatures {
		return errors.NewDimensionError("weaklearn: test data", nFeatures, testFeatures, 1)
	}

	start := time.Now()
	predictions, err := clf.PredictLabels(test)
	if err != nil {
		return err
	}
	logger.Info("Testing finished",
		log.PhaseKey, log.PhaseTesting,
		log.SamplesKey, nTest,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	values, err := encoder.InverseTransform(predictions)
	if err != nil {
		return err
	}
	if err := datasets.SaveVector(cfg.Output.Predictions, values); err != nil {
		return err
	}
	logger.Info("Predictions saved", log.PathKey, cfg.Output.Predictions, log.PredsKey, len(values))
	return nil
}

func renderStump(out config.OutputConfig, s *tree.Stump, X mat.Matrix, labels []int, logger log.Logger) error {
	logger.Info("Stump trained",
		log.SplitColumnKey, s.SplitColumn,
		log.BucketsKey, len(s.Buckets),
		log.OneClassKey, s.OneClass,
	)
	if out.Plot != "" && s.OneClass {
		logger.Warn("One-class stump has no split to plot", log.PathKey, out.Plot)
	} else if out.Plot != "" {
		if err := tree.SaveSplitPlot(s, X, labels, out.Plot); err != nil {
			return err
		}
		logger.Info("Split plot saved", log.PathKey, out.Plot)
	}
	if out.Graph != "" {
		if err := s.SaveGraph(out.Graph); err != nil {
			return err
		}
		logger.Info("Stump graph saved", log.PathKey, out.Graph)
	}
	return nil
}

func saveModel(path string, clf classifier) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		w, err := clf.ExportWeights()
		if err != nil {
			return err
		}
		data, err := w.ToJSON()
		if err != nil {
			return err
		}
		return errors.Wrapf(os.WriteFile(path, data, 0o644), "failed to write model file %s", path)
	}
	return model.SaveModel(clf, path)
}
