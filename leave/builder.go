/*
builder.go - Multi-entry aggregation and balance projection

PURPOSE:
  A RequestBuilder collects the entries of one in-progress leave submission,
  projects the resulting balance, and enforces submission preconditions.
  Builder state is ephemeral: it exists only between the first AddEntry and
  a successful Build, and is never persisted.

INVARIANT:
  projected balance = current balance - sum(entry totals), exactly, for any
  sequence of add/remove operations. The sum is taken over exact decimals,
  so the projection is order-independent.

PRECONDITIONS (CanSubmit):
  1. at least one entry exists
  2. a non-empty reason is present
  3. the projected balance is >= 0

  A negative projection is a hard block: Build fails with
  ErrInsufficientBalance before anything is committed.
*/
package leave

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// REQUEST BUILDER
// =============================================================================

// BuilderEntry pairs an entry with its computed breakdown.
type BuilderEntry struct {
	Entry     Entry
	Breakdown DayBreakdown
}

// RequestBuilder assembles one leave submission.
// Not safe for concurrent use; one builder belongs to one session.
type RequestBuilder struct {
	category Category
	context  EmployeeContext
	reason   string
	entries  []BuilderEntry
}

// NewRequestBuilder starts an empty submission for one leave category.
func NewRequestBuilder(category Category, ec EmployeeContext) *RequestBuilder {
	return &RequestBuilder{category: category, context: ec}
}

// SetReason records the justification string.
func (b *RequestBuilder) SetReason(reason string) { b.reason = reason }

// Category returns the submission's leave category.
func (b *RequestBuilder) Category() Category { return b.category }

// AddEntry computes the entry's breakdown and adds it to the submission.
// Entries without an ID are assigned one. Invalid ranges are rejected with
// ErrInvalidRange and leave the builder unchanged.
func (b *RequestBuilder) AddEntry(e Entry) (BuilderEntry, error) {
	breakdown, err := ComputeEntry(e, b.context)
	if err != nil {
		return BuilderEntry{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	be := BuilderEntry{Entry: e, Breakdown: breakdown}
	b.entries = append(b.entries, be)
	return be, nil
}

// RemoveEntry drops the entry with the given id. Unknown ids are a no-op.
func (b *RequestBuilder) RemoveEntry(id string) {
	for i, be := range b.entries {
		if be.Entry.ID == id {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}

// Entries returns the current entries in insertion order.
func (b *RequestBuilder) Entries() []BuilderEntry {
	out := make([]BuilderEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// TotalCredits is the exact decimal sum of all entry totals.
func (b *RequestBuilder) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, be := range b.entries {
		total = total.Add(be.Breakdown.TotalCredits)
	}
	return total
}

// ProjectedBalance returns current minus the total credits of all entries.
func (b *RequestBuilder) ProjectedBalance(current decimal.Decimal) decimal.Decimal {
	return current.Sub(b.TotalCredits())
}

// CanSubmit reports whether all submission preconditions hold against the
// given current balance.
func (b *RequestBuilder) CanSubmit(current decimal.Decimal) bool {
	return len(b.entries) > 0 &&
		strings.TrimSpace(b.reason) != "" &&
		!b.ProjectedBalance(current).IsNegative()
}

// Build flattens all entries' valid days into a Submission. It re-checks
// every precondition so a direct call cannot bypass the UI's checks:
// ErrNoEntries for an empty submission, ErrMissingReason for an empty
// reason, ErrInsufficientBalance for a negative projection.
func (b *RequestBuilder) Build(current decimal.Decimal) (Submission, error) {
	if len(b.entries) == 0 {
		return Submission{}, ErrNoEntries
	}
	if strings.TrimSpace(b.reason) == "" {
		return Submission{}, ErrMissingReason
	}

	total := b.TotalCredits()
	if current.Sub(total).IsNegative() {
		return Submission{}, &InsufficientBalanceError{
			Category:  b.category,
			Available: current,
			Requested: total,
		}
	}

	sub := Submission{
		Category: b.category,
		Reason:   b.reason,
		Credits:  total,
	}
	for _, be := range b.entries {
		sub.Days = append(sub.Days, be.Breakdown.ValidDays()...)
		sub.Breakdowns = append(sub.Breakdowns, be.Breakdown)
	}
	return sub, nil
}
