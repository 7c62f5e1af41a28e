package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hr-portal/leave"
	"github.com/warp/hr-portal/lifecycle"
	"github.com/warp/hr-portal/store/memory"
)

func shiftRequest(id string) *lifecycle.Request {
	at := time.Date(2025, time.August, 1, 9, 0, 0, 0, time.UTC)
	return &lifecycle.Request{
		ID:         id,
		EmployeeID: "emp-1",
		Type:       lifecycle.TypeShiftChange,
		Status:     lifecycle.StatusSubmitted,
		Reason:     "swap",
		Timeline:   lifecycle.NewTimeline(at, "Dana Reyes"),
		Shift:      &lifecycle.ShiftDetail{From: "morning", To: "night"},
		AppliedAt:  at,
		UpdatedAt:  at,
	}
}

func TestMemory_AppendList_NewestFirst(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, shiftRequest("req-1")))
	require.NoError(t, store.Append(ctx, shiftRequest("req-2")))

	reqs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "req-2", reqs[0].ID)
	assert.Equal(t, "req-1", reqs[1].ID)
}

func TestMemory_Get_ReturnsIndependentCopy(t *testing.T) {
	// Mutating what Get hands out must not leak into the store.
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, shiftRequest("req-1")))

	got, err := store.Get(ctx, "req-1")
	require.NoError(t, err)
	got.Status = lifecycle.StatusApproved
	got.Timeline[0].Description = "tampered"

	fresh, err := store.Get(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, lifecycle.StatusSubmitted, fresh.Status)
	assert.Equal(t, "Request submitted", fresh.Timeline[0].Description)
}

func TestMemory_WithTx_RollsBackOnError(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.SetBalance(ctx, "emp-1", leave.CategoryVacation, decimal.NewFromInt(10)))

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx lifecycle.Store) error {
		if err := tx.SetBalance(ctx, "emp-1", leave.CategoryVacation, decimal.NewFromInt(3)); err != nil {
			return err
		}
		if err := tx.Append(ctx, shiftRequest("req-1")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	sheet, err := store.Balances(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, sheet.Get(leave.CategoryVacation).Equal(decimal.NewFromInt(10)))

	got, err := store.Get(ctx, "req-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
