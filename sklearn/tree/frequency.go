package tree

import "sort"

// mostFrequent returns the most common value in labels. On a tie the
// smallest of the tied values wins. labels must not be empty.
func mostFrequent(labels []int) int {
	if len(labels) == 1 {
		return labels[0]
	}
	sorted := make([]int, len(labels))
	copy(sorted, labels)
	sort.Ints(sorted)

	best, bestCount := sorted[0], 0
	for i := 0; i < len(sorted); {
		j := i + 1
		for j < len(sorted) && sorted[j] == sorted[i] {
			j++
		}
		if j-i > bestCount {
			best, bestCount = sorted[i], j-i
		}
		i = j
	}
	return best
}
