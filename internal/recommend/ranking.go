// Ordersight - Storefront Order Analytics and Forecasting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ordersight

package recommend

import "sort"

// frequencyCounter counts identifier occurrences while remembering the order
// each identifier was first seen. First-encountered order breaks ranking
// ties, which keeps rankings deterministic across re-scans of the same data.
type frequencyCounter struct {
	counts map[string]int
	order  map[string]int
	next   int
}

func newFrequencyCounter() *frequencyCounter {
	return &frequencyCounter{
		counts: make(map[string]int),
		order:  make(map[string]int),
	}
}

// Add counts n occurrences of id.
func (fc *frequencyCounter) Add(id string, n int) {
	if _, seen := fc.counts[id]; !seen {
		fc.order[id] = fc.next
		fc.next++
	}
	fc.counts[id] += n
}

// Len returns the number of distinct identifiers counted.
func (fc *frequencyCounter) Len() int {
	return len(fc.counts)
}

// Top returns the n most frequent identifiers, descending by count,
// first-encountered first on ties. n <= 0 returns all.
func (fc *frequencyCounter) Top(n int) []string {
	ids := make([]string, 0, len(fc.counts))
	for id := range fc.counts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if fc.counts[ids[i]] != fc.counts[ids[j]] {
			return fc.counts[ids[i]] > fc.counts[ids[j]]
		}
		return fc.order[ids[i]] < fc.order[ids[j]]
	})
	if n > 0 && len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

// Max returns the single most frequent identifier, or "" when empty.
func (fc *frequencyCounter) Max() string {
	top := fc.Top(1)
	if len(top) == 0 {
		return ""
	}
	return top[0]
}
