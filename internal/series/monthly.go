package series

import "time"

// MonthlyClose is the last valid price of a ticker within one calendar month.
type MonthlyClose struct {
	Date  time.Time
	Close float64
}

// MonthlyCloses reduces rows to one last-valid-price-per-month series for a
// ticker, in date order. Months without a valid price are skipped entirely.
func MonthlyCloses(rows []PriceRow, ticker string) []MonthlyClose {
	var out []MonthlyClose
	for _, row := range rows {
		price, ok := row.Price(ticker)
		if !ok {
			continue
		}

		if len(out) > 0 && sameMonth(out[len(out)-1].Date, row.Date) {
			out[len(out)-1] = MonthlyClose{Date: row.Date, Close: price}
			continue
		}
		out = append(out, MonthlyClose{Date: row.Date, Close: price})
	}
	return out
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
