package tree

import (
	"gonum.org/v1/gonum/floats"
)

// sortedColumn holds one attribute column sorted ascending together with
// the labels permuted the same way. Equal values keep their sample order.
type sortedColumn struct {
	values []float64
	labels []int
}

func sortColumn(column []float64, labels []int) sortedColumn {
	values := make([]float64, len(column))
	copy(values, column)
	inds := make([]int, len(values))
	floats.ArgsortStable(values, inds)

	sortedLabels := make([]int, len(inds))
	for i, idx := range inds {
		sortedLabels[i] = labels[idx]
	}
	return sortedColumn{values: values, labels: sortedLabels}
}

// isDistinct reports whether the column holds at least two different values.
func isDistinct(column []float64) bool {
	return floats.Max(column)-floats.Min(column) > 0
}

// walkBuckets partitions sorted labels into contiguous buckets and calls
// emit with the inclusive bounds of each.
//
// A bucket closes at the end of a run of equal labels. A run shorter than
// bucketSize is extended to bucketSize samples (or to the end of the data),
// swallowing whatever labels follow. The final bucket is never extended.
func walkBuckets(sortedLabels []int, bucketSize int, emit func(begin, end int)) {
	n := len(sortedLabels)
	count := 0
	for i := 0; i < n; {
		count++
		switch {
		case i == n-1:
			emit(i-count+1, i)
			i++
		case sortedLabels[i] != sortedLabels[i+1]:
			begin := i - count + 1
			end := i
			if count < bucketSize {
				end = begin + bucketSize - 1
				if end > n-1 {
					end = n - 1
				}
			}
			emit(begin, end)
			i = end + 1
			count = 0
		default:
			i++
		}
	}
}

// splitEntropy scores a tentative bucketing of one attribute: the sum over
// buckets of (bucket size / n)·bucketEntropy. Lower is better.
func splitEntropy(column []float64, labels []int, numClasses, bucketSize int) float64 {
	sc := sortColumn(column, labels)
	n := float64(len(labels))

	var score float64
	walkBuckets(sc.labels, bucketSize, func(begin, end int) {
		bucket := sc.labels[begin : end+1]
		score += float64(len(bucket)) / n * bucketEntropy(bucket, numClasses)
	})
	return score
}

// buildBuckets runs the same bucketing as splitEntropy on the chosen
// attribute and labels each bucket with its majority class.
func buildBuckets(column []float64, labels []int, bucketSize int) []Bucket {
	sc := sortColumn(column, labels)

	var buckets []Bucket
	walkBuckets(sc.labels, bucketSize, func(begin, end int) {
		buckets = append(buckets, Bucket{
			Threshold: sc.values[begin],
			Label:     mostFrequent(sc.labels[begin : end+1]),
		})
	})
	return buckets
}
