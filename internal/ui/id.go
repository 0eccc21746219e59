package ui

import "sort"

// MinIDPrefix is the shortest prefix UniqueIDPrefixLengths reports.
const MinIDPrefix = 4

// UniqueIDPrefixLengths returns, for each ID, the length of the shortest
// prefix no other ID in ids starts with, but at least minimum and at most
// the ID's length.
func UniqueIDPrefixLengths(ids []string, minimum int) map[string]int {
	sorted := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	// In sorted order an ID shares its longest common prefix with one of its
	// neighbors.
	lengths := make(map[string]int, len(sorted))
	for i, id := range sorted {
		shared := 0
		if i > 0 {
			shared = max(shared, commonPrefixLen(id, sorted[i-1]))
		}
		if i+1 < len(sorted) {
			shared = max(shared, commonPrefixLen(id, sorted[i+1]))
		}
		lengths[id] = min(max(shared+1, minimum), len(id))
	}
	return lengths
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// ID renders id with its first prefixLen bytes highlighted and the rest
// muted.
func (t Theme) ID(id string, prefixLen int) string {
	if prefixLen <= 0 || prefixLen >= len(id) {
		return t.render(t.idPrefix, id)
	}
	return t.render(t.idPrefix, id[:prefixLen]) + t.render(t.muted, id[prefixLen:])
}
