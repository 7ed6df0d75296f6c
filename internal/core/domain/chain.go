package domain

// ChainedRecord is a record paired with its chain: how many habits were done that day.
type ChainedRecord struct {
	HabitRecord
	Chain int
}

// ChainOf counts strictly positive values.
func ChainOf(values []int) int {
	chain := 0
	for _, v := range values {
		if v > 0 {
			chain++
		}
	}
	return chain
}

// DeriveChains computes the chain of every record. The result owns its records.
func DeriveChains(records []HabitRecord) []ChainedRecord {
	out := make([]ChainedRecord, 0, len(records))
	for _, r := range records {
		out = append(out, ChainedRecord{
			HabitRecord: r.Clone(),
			Chain:       ChainOf(r.Values),
		})
	}
	return out
}
