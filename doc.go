// Package weaklearn provides decision stumps and other weak learners for Go,
// designed to serve as base classifiers inside boosting ensembles.
//
// weaklearn offers a scikit-learn-like API on top of gonum matrices, with
// structured errors and zerolog-backed logging shared by every estimator.
//
// # Features
//
// - Decision stump: single-attribute classifier with bucketed thresholds
// - Perceptron: multi-class online linear classifier for comparison
// - scikit-learn-like API: Fit, Predict, Score, GetParams, SetParams
// - Robust Error Handling: typed errors with stack traces
// - Dataset I/O: CSV and NumPy .npy files
//
// # Installation
//
// Install weaklearn using go get:
//
//	go get github.com/YuminosukeSato/weaklearn
//
// # Quick Start
//
// Here's a simple example of a decision stump:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/weaklearn/sklearn/tree"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    // Create training data: one attribute, two classes
//	    X := mat.NewDense(6, 1, []float64{1, 2, 3, 7, 8, 9})
//	    labels := []int{0, 0, 0, 1, 1, 1}
//
//	    // Create and train model
//	    clf := tree.NewDecisionStumpClassifier(tree.WithBucketSize(2))
//	    if err := clf.FitLabels(X, labels); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    // Make predictions
//	    XTest := mat.NewDense(2, 1, []float64{0, 10})
//	    predictions, err := clf.PredictLabels(XTest)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("Predictions:", predictions) // [0 1]
//	}
//
// # Packages
//
// The library is organized into several packages:
//
//   - sklearn/tree: DecisionStumpClassifier and the low-level Train/Stump API
//   - sklearn/linear_model: Perceptron
//   - metrics: Accuracy, confusion matrix, balanced accuracy
//   - preprocessing: LabelEncoder for arbitrary numeric labels
//   - datasets: Matrix and label loading and saving
//   - core/model: Core interfaces, state management and persistence
//   - core/parallel: Parallel processing utilities
//   - pkg/errors, pkg/log: Error types and structured logging
//
// The weaklearn command in cmd/weaklearn trains either learner from files.
//
// # Parallelism
//
// Attribute scoring of the stump can be spread over workers with
// tree.WithNJobs. The chosen attribute does not depend on the number of
// workers, and a trained stump is safe for concurrent prediction.
//
// # License
//
// weaklearn is released under the MIT License.
package weaklearn
