// Package calculator derives figures from a client's service history.
package calculator

import (
	"strconv"
	"strings"

	"github.com/mmynk/salonbook/internal/models"
)

// Summary aggregates a client's history entries.
type Summary struct {
	// Visits is the number of entries.
	Visits int

	// Total is the sum of every cost that parses as a number.
	Total float64

	// Unparsed counts entries whose cost is empty or not a number.
	// Costs are free text, so Total is only a lower bound when this is > 0.
	Unparsed int

	// LastVisit is the latest date found, or "" when no entry has one.
	LastVisit string
}

// ParseCost reads a decimal-as-text cost. A decimal comma is accepted
// ("1500,50"), since that is how costs are often typed.
func ParseCost(cost string) (float64, bool) {
	cost = strings.TrimSpace(cost)
	if cost == "" {
		return 0, false
	}
	if !strings.Contains(cost, ".") {
		cost = strings.Replace(cost, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(cost, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// SummarizeHistory computes visit count, total spent and last visit date.
// Dates use models.DateLayout, so they compare correctly as strings.
func SummarizeHistory(entries []*models.HistoryEntry) Summary {
	var s Summary
	for _, e := range entries {
		s.Visits++

		if v, ok := ParseCost(e.Cost); ok {
			s.Total += v
		} else {
			s.Unparsed++
		}

		if e.Date > s.LastVisit {
			s.LastVisit = e.Date
		}
	}
	return s
}
