package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/YuminosukeSato/weaklearn/core/model"
	"github.com/YuminosukeSato/weaklearn/datasets"
	"github.com/YuminosukeSato/weaklearn/internal/config"
	"github.com/YuminosukeSato/weaklearn/pkg/errors"
	"github.com/YuminosukeSato/weaklearn/pkg/log"
	"github.com/YuminosukeSato/weaklearn/sklearn/tree"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestParseFlags(t *testing.T) {
	t.Setenv("WEAKLEARN_BUCKET_SIZE", "4")
	cfg, err := parseFlags([]string{"-train_file", "train.csv", "-method", "perceptron", "-iterations", "20"})
	if err != nil {
		t.Fatalf("parseFlags failed: %v", err)
	}
	if cfg.Data.TrainFile != "train.csv" || cfg.Training.Method != config.MethodPerceptron {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Training.Iterations != 20 {
		t.Errorf("Iterations = %d, want 20", cfg.Training.Iterations)
	}
	if cfg.Training.BucketSize != 4 {
		t.Errorf("BucketSize = %d, want 4 from the environment", cfg.Training.BucketSize)
	}

	if _, err := parseFlags([]string{"-method", "stump"}); err == nil {
		t.Error("expected error without -train_file")
	}
}

func TestRunStump(t *testing.T) {
	dir := t.TempDir()
	// 任意の数値ラベル (10, 20) は 0, 1 に正規化され、出力時に元に戻る
	train := writeFile(t, dir, "train.csv", "1,5\n2,5\n3,5\n7,5\n8,5\n9,5\n")
	labels := writeFile(t, dir, "labels.csv", "10\n10\n10\n20\n20\n20\n")
	test := writeFile(t, dir, "test.csv", "0,1\n8.5,1\n")

	cfg := config.Load()
	cfg.Data = config.DataConfig{TrainFile: train, LabelsFile: labels, TestFile: test}
	cfg.Training.Method = config.MethodStump
	cfg.Training.NumClasses = 0
	cfg.Training.BucketSize = 1
	cfg.Output = config.OutputConfig{
		Predictions: filepath.Join(dir, "pred.csv"),
		Model:       filepath.Join(dir, "model.gob"),
	}

	logger, _ := log.NewTestLogger(log.LevelInfo)
	if err := run(cfg, logger); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	pred, err := datasets.LoadVector(cfg.Output.Predictions)
	if err != nil {
		t.Fatalf("LoadVector failed: %v", err)
	}
	if len(pred) != 2 || pred[0] != 10 || pred[1] != 20 {
		t.Errorf("predictions = %v, want [10 20]", pred)
	}

	clf := tree.NewDecisionStumpClassifier()
	if err := model.LoadModel(clf, cfg.Output.Model); err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	if clf.Stump().SplitColumn != 0 {
		t.Errorf("SplitColumn = %d, want 0", clf.Stump().SplitColumn)
	}
	for _, msg := range []string{"Training finished", "Testing finished", "Predictions saved"} {
		if !logger.ContainsMessage(msg) {
			t.Errorf("missing log record %q", msg)
		}
	}
}

func TestRunPerceptronLabelsInLastColumn(t *testing.T) {
	dir := t.TempDir()
	train := writeFile(t, dir, "train.csv", "0,0,1\n0.5,0.5,1\n5,5,2\n5.5,5,2\n")
	test := writeFile(t, dir, "test.csv", "0.2,0.1\n6,6\n")

	cfg := config.Load()
	cfg.Data = config.DataConfig{TrainFile: train, TestFile: test}
	cfg.Training.Method = config.MethodPerceptron
	cfg.Training.NumClasses = 0
	cfg.Training.Iterations = 1000
	cfg.Output = config.OutputConfig{
		Predictions: filepath.Join(dir, "pred.csv"),
		Model:       filepath.Join(dir, "model.json"),
	}

	logger, _ := log.NewTestLogger(log.LevelInfo)
	if err := run(cfg, logger); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	pred, err := datasets.LoadVector(cfg.Output.Predictions)
	if err != nil {
		t.Fatalf("LoadVector failed: %v", err)
	}
	if len(pred) != 2 || pred[0] != 1 || pred[1] != 2 {
		t.Errorf("predictions = %v, want [1 2]", pred)
	}

	data, err := os.ReadFile(cfg.Output.Model)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var w model.ModelWeights
	if err := w.FromJSON(data); err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if w.ModelType != "Perceptron" {
		t.Errorf("ModelType = %q, want Perceptron", w.ModelType)
	}
}

func TestRunTestDimensionMismatch(t *testing.T) {
	dir := t.TempDir()
	train := writeFile(t, dir, "train.csv", "1,2,0\n3,4,1\n")
	test := writeFile(t, dir, "test.csv", "1,2,3\n")

	cfg := config.Load()
	cfg.Data = config.DataConfig{TrainFile: train, TestFile: test}
	cfg.Training.Method = config.MethodStump
	cfg.Training.NumClasses = 0
	cfg.Training.BucketSize = 1
	cfg.Output = config.OutputConfig{Predictions: filepath.Join(dir, "pred.csv")}

	logger, _ := log.NewTestLogger(log.LevelInfo)
	err := run(cfg, logger)
	var dimErr *errors.DimensionError
	if !errors.As(err, &dimErr) {
		t.Fatalf("expected DimensionError, got %v", err)
	}
	if dimErr.Expected != 2 || dimErr.Got != 3 {
		t.Errorf("DimensionError = %+v, want expected 2 got 3", dimErr)
	}
}

func TestRunTooFewClasses(t *testing.T) {
	dir := t.TempDir()
	train := writeFile(t, dir, "train.csv", "1,0\n2,1\n3,2\n")

	cfg := config.Load()
	cfg.Data = config.DataConfig{TrainFile: train}
	cfg.Training.Method = config.MethodStump
	cfg.Training.NumClasses = 2

	logger, _ := log.NewTestLogger(log.LevelInfo)
	var ve *errors.ValidationError
	if err := run(cfg, logger); !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
