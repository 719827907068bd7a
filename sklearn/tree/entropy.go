package tree

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// bucketEntropy returns Σ p_c·log2(p_c) over the first numClasses class slots
// of labels. Empty classes contribute nothing. The value is ≤ 0 and a pure
// bucket scores 0; lower (more negative) means a more mixed bucket.
func bucketEntropy(labels []int, numClasses int) float64 {
	if len(labels) == 0 {
		return 0
	}
	p := make([]float64, numClasses)
	for _, l := range labels {
		p[l]++
	}
	n := float64(len(labels))
	for c := range p {
		p[c] /= n
	}
	// stat.Entropy is -Σ p·ln p
	return -stat.Entropy(p) / math.Ln2
}
