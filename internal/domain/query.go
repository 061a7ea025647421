package domain

import (
	"time"
)

// FlowType classifies a transaction by the sign of its amount under the
// engine's sign convention: expense is positive, income is negative.
type FlowType string

const (
	FlowAll     FlowType = "all"
	FlowExpense FlowType = "expense"
	FlowIncome  FlowType = "income"
)

// QuerySpec is the caller-supplied filter and paging state for one feed
// request. It is built per request and never persisted.
//
// Start and End are inclusive bounds; nil means unbounded on that side.
// Malformed date parameters are dropped at parse time rather than rejected,
// so a bad bound widens the result instead of failing the request.
type QuerySpec struct {
	Text      string
	Start     *time.Time
	End       *time.Time
	Flow      FlowType
	AccountID string
	Limit     int
	Offset    int
}

// DateWindow is an inclusive [Start, End] calendar-day window for upstream
// transaction fetches.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// TrailingWindow returns the window covering the trailing number of days up
// to now.
func TrailingWindow(days int) DateWindow {
	end := time.Now().UTC()
	return DateWindow{Start: end.AddDate(0, 0, -days), End: end}
}

// StartDate returns the window start as a calendar-day string.
func (w DateWindow) StartDate() string {
	return w.Start.Format(DayFormat)
}

// EndDate returns the window end as a calendar-day string.
func (w DateWindow) EndDate() string {
	return w.End.Format(DayFormat)
}
