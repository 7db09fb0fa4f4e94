package core

// CategoryTotal is an aggregated daily amount for one category.
type CategoryTotal struct {
	Category string
	Total    float64
}

// AggregateByCategory groups entries by exact category name. Output order is
// first-appearance order across the input, so the same ledger always produces
// the same chart layout. Categories are never dropped, even at a zero total.
func AggregateByCategory(entries []Entry) []CategoryTotal {
	index := make(map[string]int, len(entries))
	totals := make([]CategoryTotal, 0, len(entries))
	for _, e := range entries {
		i, ok := index[e.Category]
		if !ok {
			i = len(totals)
			index[e.Category] = i
			totals = append(totals, CategoryTotal{Category: e.Category})
		}
		totals[i].Total += e.AmountDaily
	}
	return totals
}

// Total sums the daily amounts of all entries.
func Total(entries []Entry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.AmountDaily
	}
	return sum
}
