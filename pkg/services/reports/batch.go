package reports

import (
	"fmt"
	"slices"
)

// Tier maps a record volume to a batch size and capture scale. A tier applies
// when the number of groups is strictly greater than Above.
type Tier struct {
	Above     int     `mapstructure:"above"`
	BatchSize int     `mapstructure:"batch_size"`
	Scale     float64 `mapstructure:"scale"`
}

// BatchPolicy sizes batches inversely to the total volume so one capture
// stays bounded in memory regardless of report size.
type BatchPolicy struct {
	Tiers []Tier `mapstructure:"tiers"`
}

func DefaultBatchPolicy() BatchPolicy {
	return BatchPolicy{Tiers: []Tier{
		{Above: 50, BatchSize: 5, Scale: 1.5},
		{Above: 20, BatchSize: 10, Scale: 1.75},
		{Above: 0, BatchSize: 20, Scale: 2},
	}}
}

func (p BatchPolicy) Validate() error {
	if len(p.Tiers) == 0 {
		return fmt.Errorf("batch policy has no tiers")
	}
	for _, t := range p.Tiers {
		if t.BatchSize <= 0 {
			return fmt.Errorf("tier above %d: batch size must be positive", t.Above)
		}
		if t.Scale <= 0 {
			return fmt.Errorf("tier above %d: scale must be positive", t.Above)
		}
		if t.Above < 0 {
			return fmt.Errorf("tier threshold must not be negative")
		}
	}

	sorted := p.sorted()
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Above == sorted[i-1].Above {
			return fmt.Errorf("duplicate tier threshold %d", sorted[i].Above)
		}
		if sorted[i].BatchSize < sorted[i-1].BatchSize {
			return fmt.Errorf("tier above %d has a smaller batch than tier above %d",
				sorted[i].Above, sorted[i-1].Above)
		}
	}
	return nil
}

// Select returns the tier for total groups. Totals below every threshold use
// the lowest tier.
func (p BatchPolicy) Select(total int) Tier {
	sorted := p.sorted()
	for _, t := range sorted {
		if total > t.Above {
			return t
		}
	}
	return sorted[len(sorted)-1]
}

// sorted orders tiers by descending threshold.
func (p BatchPolicy) sorted() []Tier {
	tiers := slices.Clone(p.Tiers)
	slices.SortFunc(tiers, func(a, b Tier) int {
		return b.Above - a.Above
	})
	return tiers
}

// Partition splits items into consecutive batches of size; the last may be
// shorter. Empty input yields no batches.
func Partition[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		batches = append(batches, items[start:end:end])
	}
	return batches
}
