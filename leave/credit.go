/*
credit.go - Date-range to credit conversion

PURPOSE:
  Converts one entry (a contiguous date range, optionally time-bounded to a
  single partial day) into a day-by-day breakdown and a total credit amount.
  Every date in the range is classified through Classify; only Available
  days contribute credits.

MODES:
  Full-day:    every date from Start to End inclusive. An Available day
               contributes exactly 1.0 credit; any other day contributes 0
               and is recorded as weekend/holiday/conflict so the UI can
               explain why.

  Partial-day: Partial=true and Start==End with both times supplied.
               Credits are the worked fraction of a standard 8-hour shift.
               If the elapsed span exceeds 5 hours, a fixed 1-hour unpaid
               break is deducted first. A non-Available date contributes 0
               regardless of the time math: conflict overrides duration.

NUMERIC SEMANTICS:
  Per-day contributions are decimals rounded to 2 places. Totals are the
  exact decimal sum of those contributions; they are never re-derived from
  floats, so multi-entry accumulation cannot drift.
*/
package leave

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// SHIFT CONSTANTS
// =============================================================================

const (
	// FullShiftMinutes is the standard working day a credit is measured against.
	FullShiftMinutes = 8 * 60

	// UnpaidBreakMinutes is deducted from spans longer than BreakThresholdMinutes.
	UnpaidBreakMinutes = 60

	// BreakThresholdMinutes: spans strictly longer than this include the break.
	BreakThresholdMinutes = 5 * 60
)

// =============================================================================
// ENTRY AND BREAKDOWN
// =============================================================================

// Entry is one contiguous date range of an in-progress submission.
// StartTime/EndTime are only meaningful when Partial is true.
type Entry struct {
	ID        string
	Start     Date
	End       Date
	Partial   bool
	StartTime ClockTime
	EndTime   ClockTime
}

// DayStatus explains a single day's contribution in user-facing terms.
type DayStatus string

const (
	DayValid    DayStatus = "valid"    // contributes credits
	DayWeekend  DayStatus = "weekend"  // rest day, skipped
	DayHoliday  DayStatus = "holiday"  // company holiday, skipped
	DayConflict DayStatus = "conflict" // attendance or approved leave, skipped
)

func statusFor(c Classification) DayStatus {
	switch c {
	case ClassAvailable:
		return DayValid
	case ClassRestDay:
		return DayWeekend
	case ClassHoliday:
		return DayHoliday
	default:
		return DayConflict
	}
}

// DayLine is one (date, classification, credits) tuple of a breakdown.
type DayLine struct {
	Date           Date
	Classification Classification
	Status         DayStatus
	Credits        decimal.Decimal
}

// DayBreakdown is the ordered per-day result of computing one entry.
type DayBreakdown struct {
	Days         []DayLine
	TotalCredits decimal.Decimal
}

// ValidDays returns the dates that actually contribute credits.
func (b DayBreakdown) ValidDays() []Date {
	var days []Date
	for _, line := range b.Days {
		if line.Status == DayValid {
			days = append(days, line.Date)
		}
	}
	return days
}

func emptyBreakdown() DayBreakdown {
	return DayBreakdown{TotalCredits: decimal.Zero}
}

// =============================================================================
// CALCULATOR
// =============================================================================

// ComputeEntry converts an entry into its day breakdown. Invalid ranges
// (end before start, or end time not after start time in partial mode)
// return an empty breakdown with zero credits and ErrInvalidRange.
func ComputeEntry(e Entry, ec EmployeeContext) (DayBreakdown, error) {
	if e.End.Before(e.Start) {
		return emptyBreakdown(), &RangeError{Start: e.Start, End: e.End, Detail: "end date before start date"}
	}

	if e.Partial && e.Start.Equal(e.End) {
		return computePartialDay(e, ec)
	}
	return computeFullDays(e, ec)
}

// computeFullDays walks every date in [Start, End] inclusive.
func computeFullDays(e Entry, ec EmployeeContext) (DayBreakdown, error) {
	breakdown := emptyBreakdown()

	for d := e.Start; !d.After(e.End); d = d.AddDays(1) {
		class := Classify(d, ec)
		credits := decimal.Zero
		if class.Requestable() {
			credits = decimal.NewFromInt(1)
		}
		breakdown.Days = append(breakdown.Days, DayLine{
			Date:           d,
			Classification: class,
			Status:         statusFor(class),
			Credits:        credits,
		})
		breakdown.TotalCredits = breakdown.TotalCredits.Add(credits)
	}
	return breakdown, nil
}

// computePartialDay converts a time-bounded single-day entry into a
// fraction of a full shift.
func computePartialDay(e Entry, ec EmployeeContext) (DayBreakdown, error) {
	if e.EndTime <= e.StartTime {
		return emptyBreakdown(), &RangeError{Start: e.Start, End: e.End, Detail: "end time not after start time"}
	}

	class := Classify(e.Start, ec)
	if !class.Requestable() {
		// Conflict overrides duration: the day is unusable no matter the span.
		return DayBreakdown{
			Days: []DayLine{{
				Date:           e.Start,
				Classification: class,
				Status:         statusFor(class),
				Credits:        decimal.Zero,
			}},
			TotalCredits: decimal.Zero,
		}, nil
	}

	worked := e.EndTime.Minutes() - e.StartTime.Minutes()
	if worked > BreakThresholdMinutes {
		worked -= UnpaidBreakMinutes
	}

	credits := decimal.NewFromInt(int64(worked)).
		Div(decimal.NewFromInt(FullShiftMinutes))
	if credits.GreaterThan(decimal.NewFromInt(1)) {
		credits = decimal.NewFromInt(1)
	}
	if credits.IsNegative() {
		credits = decimal.Zero
	}
	credits = credits.Round(2)

	return DayBreakdown{
		Days: []DayLine{{
			Date:           e.Start,
			Classification: class,
			Status:         DayValid,
			Credits:        credits,
		}},
		TotalCredits: credits,
	}, nil
}
