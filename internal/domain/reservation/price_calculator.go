package reservation

import "sort"

// SeatFeeTotal is the sum of seat prices in one currency.
type SeatFeeTotal struct {
	Currency string
	Total    Money
}

// TotalSeatFees sums assignment prices per currency, skipping free seats.
// Results are ordered by currency code.
func TotalSeatFees(assignments []SeatAssignment) []SeatFeeTotal {
	byCurrency := make(map[string]Money)
	for _, a := range assignments {
		if a.Price.IsZero() {
			continue
		}
		cur := a.Price.Currency()
		byCurrency[cur] = byCurrency[cur].Add(a.Price)
	}

	totals := make([]SeatFeeTotal, 0, len(byCurrency))
	for cur, m := range byCurrency {
		totals = append(totals, SeatFeeTotal{Currency: cur, Total: m})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].Currency < totals[j].Currency })
	return totals
}
