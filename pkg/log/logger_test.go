package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/YuminosukeSato/weaklearn/pkg/errors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestZerologLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelDebug).With(ModelNameKey, "DecisionStumpClassifier")

	logger.Info("Training completed",
		OperationKey, OperationFit,
		SamplesKey, 12,
		SplitColumnKey, 1,
	)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e["message"] != "Training completed" {
		t.Errorf("message = %v", e["message"])
	}
	if e["level"] != "info" {
		t.Errorf("level = %v, want info", e["level"])
	}
	if e[ModelNameKey] != "DecisionStumpClassifier" {
		t.Errorf("%s = %v", ModelNameKey, e[ModelNameKey])
	}
	if e[SamplesKey] != 12.0 {
		t.Errorf("%s = %v, want 12", SamplesKey, e[SamplesKey])
	}
	if _, ok := e["time"]; !ok {
		t.Error("expected timestamp field")
	}
}

func TestZerologLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown")

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d: %s", len(entries), buf.String())
	}
	if logger.Enabled(context.Background(), LevelDebug) {
		t.Error("debug should be disabled at warn level")
	}
	if !logger.Enabled(context.Background(), LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestZerologLoggerErrorDetail(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	err := errors.NewDimensionError("Predict", 3, 2, 1)
	logger.Error("Prediction failed", err, OperationKey, OperationPredict)

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if msg, _ := e[ErrAttrKey].(string); !strings.Contains(msg, "dimension mismatch") {
		t.Errorf("%s = %v", ErrAttrKey, e[ErrAttrKey])
	}
	if st, _ := e[StacktraceAttrKey].(string); st == "" {
		t.Error("expected a stack trace")
	}
	detail, ok := e[ErrorDetailKey].(map[string]interface{})
	if !ok {
		t.Fatalf("expected %s object, got %v", ErrorDetailKey, e[ErrorDetailKey])
	}
	if detail["type"] != "DimensionError" || detail["expected"] != 3.0 {
		t.Errorf("unexpected detail: %v", detail)
	}
	if e[OperationKey] != OperationPredict {
		t.Errorf("%s = %v", OperationKey, e[OperationKey])
	}
}

func TestZerologLoggerPlainError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo)

	logger.Error("plain", fmt.Errorf("boom"))

	e := decodeLines(t, &buf)[0]
	if e[ErrAttrKey] != "boom" {
		t.Errorf("%s = %v", ErrAttrKey, e[ErrAttrKey])
	}
	if _, ok := e[StacktraceAttrKey]; ok {
		t.Error("plain errors carry no stack trace")
	}
}

func TestSetupLoggerRoutesWarnings(t *testing.T) {
	prev := GetLogger()
	defer func() {
		SetLogger(prev)
		errors.SetZerologWarnFunc(nil)
	}()

	var buf bytes.Buffer
	if err := SetupLogger("debug", &buf); err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}

	errors.Warn(errors.NewDegenerateSplitWarning("DecisionStump", 2, 3, 1))

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e["level"] != "warn" {
		t.Errorf("level = %v, want warn", e["level"])
	}
	if e[ComponentKey] != "warnings" {
		t.Errorf("%s = %v", ComponentKey, e[ComponentKey])
	}
	detail, ok := e[ErrorDetailKey].(map[string]interface{})
	if !ok || detail["type"] != "DegenerateSplitWarning" || detail["default_class"] != 1.0 {
		t.Errorf("unexpected warning detail: %v", e[ErrorDetailKey])
	}
}

func TestSetupLoggerRejectsUnknownLevel(t *testing.T) {
	prev := GetLogger()
	defer SetLogger(prev)

	if err := SetupLogger("chatty", &bytes.Buffer{}); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if GetLogger() != prev {
		t.Error("logger must not change on failed setup")
	}
}

func TestGetLoggerWithName(t *testing.T) {
	prev := GetLogger()
	defer SetLogger(prev)

	provider, _ := NewTestLoggerProvider(LevelDebug)
	SetLogger(provider.GetLogger())

	GetLoggerWithName("tree").Info("named")
	if !provider.Logger().ContainsField(ComponentKey, "tree") {
		t.Error("component field missing")
	}
}

func TestTestLogger(t *testing.T) {
	logger, buffer := NewTestLogger(LevelInfo)

	logger.Debug("dropped")
	logger.With(ModelNameKey, "Perceptron").Info("fit", IterationKey, 7)
	logger.Error("failed", fmt.Errorf("bad input"), OperationKey, OperationFit)

	if strings.Contains(buffer.String(), "dropped") {
		t.Error("debug message should be filtered")
	}
	if !logger.ContainsField(ModelNameKey, "Perceptron") {
		t.Error("With fields missing")
	}
	if !logger.ContainsField(IterationKey, 7.0) {
		t.Error("iteration field missing")
	}
	if !logger.ContainsField(ErrAttrKey, "bad input") {
		t.Error("leading error not recorded")
	}
	if !logger.ContainsField(OperationKey, OperationFit) {
		t.Error("fields after error not recorded")
	}

	logger.Clear()
	if buffer.Len() != 0 {
		t.Error("Clear should empty the buffer")
	}
}

func TestTestLoggerProviderSetLevel(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelDebug)
	named := provider.GetLoggerWithName("datasets")

	provider.SetLevel(LevelError)
	named.Info("hidden")
	if buffer.Len() != 0 {
		t.Errorf("expected no output after raising level, got %q", buffer.String())
	}
}

func TestConcurrentLogging(t *testing.T) {
	logger, _ := NewTestLogger(LevelDebug)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				logger.With(ComponentKey, fmt.Sprintf("worker-%d", id)).Info("tick", IterationKey, i)
			}
		}(g)
	}
	wg.Wait()

	entries, err := logger.GetLogEntries()
	if err != nil {
		t.Fatalf("GetLogEntries: %v", err)
	}
	if len(entries) != 200 {
		t.Errorf("expected 200 entries, got %d", len(entries))
	}
}

func BenchmarkZerologLogger(b *testing.B) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo).With(ModelNameKey, "BenchmarkModel")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		logger.Info("Prediction completed", OperationKey, OperationPredict, SamplesKey, 1000)
	}
}
