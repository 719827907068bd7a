package tree

// MergeBuckets removes every bucket whose label equals that of the bucket
// before it, so that no two adjacent buckets share a label. The first
// bucket of each run survives and keeps its threshold. The input slice is
// not modified.
func MergeBuckets(buckets []Bucket) []Bucket {
	if len(buckets) == 0 {
		return nil
	}
	merged := make([]Bucket, 0, len(buckets))
	merged = append(merged, buckets[0])
	for _, b := range buckets[1:] {
		if b.Label == merged[len(merged)-1].Label {
			continue
		}
		merged = append(merged, b)
	}
	return merged
}

// collapseThresholds drops buckets that are shadowed by a later bucket with
// the same threshold. Lookup always picks the last bucket whose threshold is
// ≤ the value, so the earlier one can never be selected.
func collapseThresholds(buckets []Bucket) []Bucket {
	if len(buckets) == 0 {
		return nil
	}
	out := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		if len(out) > 0 && out[len(out)-1].Threshold == b.Threshold {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
