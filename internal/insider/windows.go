package insider

import (
	"time"

	"github.com/filingsight/filingsight/internal/contracts"
)

const dateLayout = "2006-01-02"

// parseDate parses a transaction date; undated or malformed dates are
// excluded from date-dependent logic rather than treated as errors.
func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// event is one dated, signed transaction.
type event struct {
	date   time.Time
	owner  string
	sign   int
	shares float64
	price  float64
}

// signedEvents keeps transactions that carry a parseable date and a
// buy or sell direction, sorted by date ascending. Input order breaks
// date ties, keeping the scan deterministic.
func signedEvents(txs []contracts.Transaction) []event {
	var events []event
	for _, tx := range txs {
		sign := Sign(tx.TypeText)
		if sign == 0 {
			continue
		}
		date, ok := parseDate(tx.Date)
		if !ok {
			continue
		}
		events = append(events, event{
			date:   date,
			owner:  tx.OwnerName,
			sign:   sign,
			shares: tx.Shares,
			price:  tx.Price,
		})
	}
	sortEventsByDate(events)
	return events
}

func sortEventsByDate(events []event) {
	// insertion sort keeps equal dates in input order
	for i := 1; i < len(events); i++ {
		for j := i; j > 0 && events[j].date.Before(events[j-1].date); j-- {
			events[j], events[j-1] = events[j-1], events[j]
		}
	}
}

// aggregateWindow sums signed activity over the trailing window ending
// at asOf. Unnamed owners count toward totals but not toward the
// distinct buyer/seller tallies.
func aggregateWindow(events []event, asOf time.Time, days int) contracts.ActivityWindow {
	cutoff := asOf.AddDate(0, 0, -days)
	buyers := make(map[string]struct{})
	sellers := make(map[string]struct{})

	var window contracts.ActivityWindow
	for _, ev := range events {
		if ev.date.Before(cutoff) || ev.date.After(asOf) {
			continue
		}
		window.NetShares += float64(ev.sign) * ev.shares
		dollars := ev.shares * ev.price
		if dollars < 0 {
			dollars = -dollars
		}
		window.TotalDollars += dollars
		if ev.owner == "" {
			continue
		}
		if ev.sign > 0 {
			buyers[ev.owner] = struct{}{}
		} else {
			sellers[ev.owner] = struct{}{}
		}
	}
	window.UniqueBuyers = len(buyers)
	window.UniqueSellers = len(sellers)
	return window
}
