/*
Package leave implements the leave-request eligibility and credit engine.

PURPOSE:
  This package contains the pure domain logic behind a leave submission:
  - Classify: decides, per calendar date, whether a day can be requested
  - ComputeEntry: converts a date range (optionally partial-day) into a
    day-by-day breakdown and a total credit amount
  - RequestBuilder: aggregates entries, projects the resulting balance,
    and enforces submission preconditions

KEY CONCEPTS:
  - Credit: a fractional unit of leave balance consumed by one day (or
    partial day) of approved absence. Always decimal.Decimal, never float.
  - Classification: the single source of truth for day eligibility, shared
    by the interactive date picker and the credit calculator so the two
    can never disagree.
  - Entry: one contiguous date range added to an in-progress submission.
    Entries are ephemeral; they do not outlive a submission attempt.

DESIGN PRINCIPLES:
  1. Purity: classification and credit computation are deterministic
     functions of their inputs, with no side effects
  2. Precision: decimal arithmetic end to end; totals are accumulated
     from exact decimals, never re-derived from rounded floats
  3. One classifier: any divergence between picker and calculator is a
     bug, so there is exactly one classification code path

SEE ALSO:
  - classify.go: DayClassification and the precedence rules
  - credit.go: full-day and partial-day credit computation
  - builder.go: aggregation, balance projection, submission preconditions
  - lifecycle package: consumes the Submission produced here
*/
package leave

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// LEAVE CATEGORIES
// =============================================================================

// Category identifies a leave balance bucket.
type Category string

const (
	CategoryVacation  Category = "vacation"
	CategorySick      Category = "sick"
	CategoryEmergency Category = "emergency"
	CategoryMaternity Category = "maternity"
	CategoryPaternity Category = "paternity"
)

// Categories lists all known leave categories.
func Categories() []Category {
	return []Category{
		CategoryVacation,
		CategorySick,
		CategoryEmergency,
		CategoryMaternity,
		CategoryPaternity,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryVacation, CategorySick, CategoryEmergency, CategoryMaternity, CategoryPaternity:
		return true
	}
	return false
}

// =============================================================================
// BALANCE SHEET - Per-category credit balances
// =============================================================================

// BalanceSheet maps leave categories to their remaining credits.
// Balances are non-negative; the only mutation paths are a committed
// submission (debit) and a rejected request (refund).
type BalanceSheet map[Category]decimal.Decimal

func (b BalanceSheet) Get(c Category) decimal.Decimal {
	if v, ok := b[c]; ok {
		return v
	}
	return decimal.Zero
}

// Clone returns an independent copy.
func (b BalanceSheet) Clone() BalanceSheet {
	out := make(BalanceSheet, len(b))
	for c, v := range b {
		out[c] = v
	}
	return out
}

// =============================================================================
// SUBMISSION - The builder's output, handed to the lifecycle
// =============================================================================

// Submission is the assembled payload of a leave submission: the flattened
// usable days of every entry, the exact total credits they consume, and the
// per-entry breakdowns kept for user-facing explanation.
type Submission struct {
	Category   Category
	Reason     string
	Days       []Date
	Credits    decimal.Decimal
	Breakdowns []DayBreakdown
}
