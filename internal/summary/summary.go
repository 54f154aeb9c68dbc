// Package summary aggregates a draw batch into per-name counts.
package summary

import (
	"sort"

	"github.com/naveenspark/gacha/pkg/domain"
)

// Summarize groups outcomes by exact name and orders them by count, highest
// first. Equal counts keep first-appearance order. Batches of one or fewer
// outcomes have no summary and return nil.
func Summarize(batch []domain.DrawOutcome) []domain.SummaryEntry {
	if len(batch) <= 1 {
		return nil
	}

	index := make(map[string]int, len(batch))
	var entries []domain.SummaryEntry
	for _, o := range batch {
		if i, ok := index[o.Name]; ok {
			entries[i].Count++
			continue
		}
		index[o.Name] = len(entries)
		entries = append(entries, domain.SummaryEntry{Name: o.Name, Count: 1})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

// Total sums the counts of entries.
func Total(entries []domain.SummaryEntry) int {
	n := 0
	for _, e := range entries {
		n += e.Count
	}
	return n
}
