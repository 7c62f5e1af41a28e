package accrual_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/hr-portal/accrual"
	"github.com/warp/hr-portal/leave"
	"github.com/warp/hr-portal/store/memory"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// =============================================================================
// ANNUAL SCHEDULE
// =============================================================================

func TestAnnualSchedule_Monthly_FullYear(t *testing.T) {
	// GIVEN 12 vacation credits per year accrued monthly
	s := &accrual.AnnualSchedule{
		Category:  leave.CategoryVacation,
		Annual:    decimal.NewFromInt(12),
		Frequency: accrual.GrantMonthly,
	}

	// WHEN generating grants for a full calendar year
	grants := s.Grants(leave.NewDate(2025, time.January, 1), leave.NewDate(2025, time.December, 31))

	// THEN one grant lands on the first of each month, each worth 1 credit
	require.Len(t, grants, 12)
	for i, g := range grants {
		assert.Equal(t, leave.NewDate(2025, time.Month(i+1), 1), g.On)
		assert.True(t, g.Credits.Equal(decimal.NewFromInt(1)), "grant %d: %s", i, g.Credits)
	}
}

func TestAnnualSchedule_Monthly_MidYearRange(t *testing.T) {
	s := &accrual.AnnualSchedule{
		Category:  leave.CategoryVacation,
		Annual:    decimal.NewFromInt(12),
		Frequency: accrual.GrantMonthly,
	}

	// A range starting mid-March excludes March 1 but includes April
	// through August.
	grants := s.Grants(leave.NewDate(2025, time.March, 15), leave.NewDate(2025, time.August, 31))

	require.Len(t, grants, 5)
	assert.Equal(t, leave.NewDate(2025, time.April, 1), grants[0].On)
	assert.Equal(t, leave.NewDate(2025, time.August, 1), grants[4].On)
}

func TestAnnualSchedule_Upfront(t *testing.T) {
	s := &accrual.AnnualSchedule{
		Category:  leave.CategorySick,
		Annual:    decimal.NewFromInt(10),
		Frequency: accrual.GrantUpfront,
	}

	grants := s.Grants(leave.NewDate(2025, time.January, 1), leave.NewDate(2026, time.December, 31))

	require.Len(t, grants, 2)
	assert.Equal(t, leave.NewDate(2025, time.January, 1), grants[0].On)
	assert.Equal(t, leave.NewDate(2026, time.January, 1), grants[1].On)
	assert.True(t, grants[0].Credits.Equal(decimal.NewFromInt(10)))
}

func TestAnnualSchedule_Upfront_RangeMissesGrantDay(t *testing.T) {
	s := &accrual.AnnualSchedule{
		Category:  leave.CategorySick,
		Annual:    decimal.NewFromInt(10),
		Frequency: accrual.GrantUpfront,
	}

	// Hired in February: no grant day falls inside the remaining year.
	grants := s.Grants(leave.NewDate(2025, time.February, 1), leave.NewDate(2025, time.December, 31))

	assert.Empty(t, grants)
}

// =============================================================================
// TENURE SCHEDULE
// =============================================================================

func TestTenureSchedule_StepsUpWithService(t *testing.T) {
	// GIVEN tiers of 12 credits/year from hire and 24 after 5 years,
	// hired January 2020
	s := &accrual.TenureSchedule{
		Category: leave.CategoryVacation,
		HireDate: leave.NewDate(2020, time.January, 1),
		Tiers: []accrual.TenureTier{
			{AfterYears: 0, Annual: decimal.NewFromInt(12)},
			{AfterYears: 5, Annual: decimal.NewFromInt(24)},
		},
	}

	// WHEN accruing across the 5-year boundary
	before := s.Grants(leave.NewDate(2024, time.June, 1), leave.NewDate(2024, time.June, 30))
	after := s.Grants(leave.NewDate(2025, time.June, 1), leave.NewDate(2025, time.June, 30))

	// THEN the monthly portion doubles
	require.Len(t, before, 1)
	require.Len(t, after, 1)
	assert.True(t, before[0].Credits.Equal(decimal.NewFromInt(1)), "got %s", before[0].Credits)
	assert.True(t, after[0].Credits.Equal(decimal.NewFromInt(2)), "got %s", after[0].Credits)
}

// =============================================================================
// GRANTER
// =============================================================================

func TestGranter_AppliesPlanToBalances(t *testing.T) {
	store := memory.New()
	granter := accrual.NewGranter(store, quietLog())
	ctx := context.Background()

	// Standard plan, applied over January through June: vacation accrues
	// 6 monthly portions, sick and emergency land upfront.
	added, err := granter.Apply(ctx, "emp-1", accrual.StandardPlan(12, 10, 5),
		leave.NewDate(2025, time.January, 1), leave.NewDate(2025, time.June, 30))
	require.NoError(t, err)

	assert.True(t, added.Get(leave.CategoryVacation).Equal(decimal.NewFromInt(6)))
	assert.True(t, added.Get(leave.CategorySick).Equal(decimal.NewFromInt(10)))

	balances, err := store.Balances(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balances.Get(leave.CategoryVacation).Equal(decimal.NewFromInt(6)))
	assert.True(t, balances.Get(leave.CategorySick).Equal(decimal.NewFromInt(10)))
	assert.True(t, balances.Get(leave.CategoryEmergency).Equal(decimal.NewFromInt(5)))
}

func TestGranter_AddsToExistingBalance(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.SetBalance(ctx, "emp-1", leave.CategoryVacation, decimal.NewFromInt(3)))

	granter := accrual.NewGranter(store, quietLog())
	_, err := granter.Apply(ctx, "emp-1",
		[]accrual.Schedule{&accrual.AnnualSchedule{
			Category:  leave.CategoryVacation,
			Annual:    decimal.NewFromInt(12),
			Frequency: accrual.GrantMonthly,
		}},
		leave.NewDate(2025, time.January, 1), leave.NewDate(2025, time.January, 31))
	require.NoError(t, err)

	balances, err := store.Balances(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balances.Get(leave.CategoryVacation).Equal(decimal.NewFromInt(4)))
}

func TestGranter_EmptyRange_NoWrites(t *testing.T) {
	store := memory.New()
	granter := accrual.NewGranter(store, quietLog())
	ctx := context.Background()

	day := leave.NewDate(2025, time.June, 15)
	added, err := granter.Apply(ctx, "emp-1", accrual.StandardPlan(12, 10, 5), day, day)
	require.NoError(t, err)

	assert.Empty(t, added)
	balances, err := store.Balances(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, balances.Get(leave.CategoryVacation).IsZero())
}
