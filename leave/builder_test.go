package leave_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hr-portal/leave"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newBuilder(t *testing.T) *leave.RequestBuilder {
	t.Helper()
	return leave.NewRequestBuilder(leave.CategoryVacation, weekendOnly())
}

func addDays(t *testing.T, b *leave.RequestBuilder, start, end leave.Date) leave.BuilderEntry {
	t.Helper()
	be, err := b.AddEntry(leave.Entry{Start: start, End: end})
	require.NoError(t, err)
	return be
}

// =============================================================================
// PROJECTION INVARIANT
// =============================================================================

func TestBuilder_ProjectedBalance_ExactInvariant(t *testing.T) {
	// Property: projectedBalance = currentBalance - sum(entry totals),
	// exactly, for any sequence of add/remove operations.

	b := newBuilder(t)
	addDays(t, b, monday, monday)                       // 1.0
	partial := leave.Entry{                             // 0.63
		Start: monday.AddDays(7), End: monday.AddDays(7),
		Partial: true,
	}
	var err error
	partial.StartTime, err = leave.ParseClockTime("08:00")
	require.NoError(t, err)
	partial.EndTime, err = leave.ParseClockTime("13:00")
	require.NoError(t, err)
	_, err = b.AddEntry(partial)
	require.NoError(t, err)

	current := decimal.NewFromInt(10)
	want := current.Sub(decimal.RequireFromString("1.63"))
	assert.True(t, b.ProjectedBalance(current).Equal(want), "got %s", b.ProjectedBalance(current))
}

func TestBuilder_RemoveEntry_RestoresProjection(t *testing.T) {
	b := newBuilder(t)
	kept := addDays(t, b, monday, monday)
	removed := addDays(t, b, monday.AddDays(1), monday.AddDays(1))

	b.RemoveEntry(removed.Entry.ID)

	require.Len(t, b.Entries(), 1)
	assert.Equal(t, kept.Entry.ID, b.Entries()[0].Entry.ID)
	assert.True(t, b.TotalCredits().Equal(decimal.NewFromInt(1)))
}

func TestBuilder_RemoveUnknownID_NoOp(t *testing.T) {
	b := newBuilder(t)
	addDays(t, b, monday, monday)
	b.RemoveEntry("no-such-entry")
	assert.Len(t, b.Entries(), 1)
}

func TestBuilder_MultiEntryAccumulation_NoDrift(t *testing.T) {
	// Ten 0.63-credit partial entries must sum to exactly 6.3, which float
	// arithmetic would miss.
	b := newBuilder(t)
	for i := 0; i < 10; i++ {
		e := leave.Entry{
			Start:   monday.AddDays(i * 7),
			End:     monday.AddDays(i * 7),
			Partial: true,
		}
		var err error
		e.StartTime, err = leave.ParseClockTime("08:00")
		require.NoError(t, err)
		e.EndTime, err = leave.ParseClockTime("13:00")
		require.NoError(t, err)
		_, err = b.AddEntry(e)
		require.NoError(t, err)
	}
	assert.True(t, b.TotalCredits().Equal(decimal.RequireFromString("6.3")), "got %s", b.TotalCredits())
}

// =============================================================================
// SUBMISSION PRECONDITIONS
// =============================================================================

func TestBuilder_CanSubmit_RequiresEntryReasonAndBalance(t *testing.T) {
	b := newBuilder(t)
	ten := decimal.NewFromInt(10)

	assert.False(t, b.CanSubmit(ten), "no entries yet")

	addDays(t, b, monday, monday)
	assert.False(t, b.CanSubmit(ten), "no reason yet")

	b.SetReason("family trip")
	assert.True(t, b.CanSubmit(ten))

	assert.False(t, b.CanSubmit(decimal.Zero), "negative projection blocks")
}

func TestBuilder_Build_NoEntries(t *testing.T) {
	// An empty submission must not build, even with a reason set: a direct
	// Build call cannot commit a request with no days.
	b := newBuilder(t)
	b.SetReason("family trip")

	_, err := b.Build(decimal.NewFromInt(10))
	assert.ErrorIs(t, err, leave.ErrNoEntries)
	assert.True(t, leave.IsClientError(err))
}

func TestBuilder_Build_MissingReason(t *testing.T) {
	b := newBuilder(t)
	addDays(t, b, monday, monday)
	b.SetReason("   ")

	_, err := b.Build(decimal.NewFromInt(10))
	assert.ErrorIs(t, err, leave.ErrMissingReason)
}

func TestBuilder_Build_InsufficientBalance_HardBlock(t *testing.T) {
	// GIVEN: current balance 2.0 and entries totalling 3.0
	// THEN: Build fails with InsufficientBalance

	b := newBuilder(t)
	addDays(t, b, monday, monday.AddDays(2)) // Mon..Wed = 3.0
	b.SetReason("vacation")

	_, err := b.Build(decimal.NewFromInt(2))
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)

	var detail *leave.InsufficientBalanceError
	require.ErrorAs(t, err, &detail)
	assert.True(t, detail.Requested.Equal(decimal.NewFromInt(3)))
	assert.True(t, detail.Available.Equal(decimal.NewFromInt(2)))
}

func TestBuilder_Build_FlattensValidDays(t *testing.T) {
	// GIVEN: Mon..Sun plus a separate Tuesday the week after
	// THEN: the submission's day list holds only the Available days

	b := newBuilder(t)
	addDays(t, b, monday, monday.AddDays(6)) // Mon..Sun: 5 valid
	addDays(t, b, monday.AddDays(8), monday.AddDays(8))
	b.SetReason("long break")

	sub, err := b.Build(decimal.NewFromInt(10))
	require.NoError(t, err)

	assert.Len(t, sub.Days, 6)
	assert.True(t, sub.Credits.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, leave.CategoryVacation, sub.Category)
	assert.Len(t, sub.Breakdowns, 2)
}

func TestBuilder_AddEntry_InvalidRange_BuilderUnchanged(t *testing.T) {
	b := newBuilder(t)
	_, err := b.AddEntry(leave.Entry{Start: monday, End: monday.AddDays(-1)})
	assert.ErrorIs(t, err, leave.ErrInvalidRange)
	assert.Empty(t, b.Entries())
}
