package parser

import "sort"

// Dedupe removes candidates that refer to the same declaration, keeping the
// first occurrence, and orders the result by source position.
func Dedupe(candidates []*Candidate) []*Candidate {
	seen := make(map[string]bool, len(candidates))
	result := make([]*Candidate, 0, len(candidates))

	for _, c := range candidates {
		key := c.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, c)
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i].Position, result[j].Position
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Offset < b.Offset
	})

	return result
}
