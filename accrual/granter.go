package accrual

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/warp/hr-portal/leave"
	"github.com/warp/hr-portal/lifecycle"
)

// =============================================================================
// GRANTER - Applies schedule grants to stored balances
// =============================================================================

// Granter runs accrual schedules against an employee's balances. All
// grants of one run are applied in a single transaction.
type Granter struct {
	Store lifecycle.Store
	Log   *logrus.Logger
}

func NewGranter(store lifecycle.Store, log *logrus.Logger) *Granter {
	if log == nil {
		log = logrus.New()
	}
	return &Granter{Store: store, Log: log}
}

// Apply generates grants from every schedule over [from, to] and adds
// them to the employee's balances. Returns the credits added per
// category.
func (g *Granter) Apply(ctx context.Context, employeeID string, schedules []Schedule, from, to leave.Date) (leave.BalanceSheet, error) {
	added := leave.BalanceSheet{}
	for _, s := range schedules {
		for _, grant := range s.Grants(from, to) {
			added[grant.Category] = added.Get(grant.Category).Add(grant.Credits)
		}
	}
	if len(added) == 0 {
		return added, nil
	}

	err := g.Store.WithTx(ctx, func(tx lifecycle.Store) error {
		current, err := tx.Balances(ctx, employeeID)
		if err != nil {
			return err
		}
		for category, credits := range added {
			next := current.Get(category).Add(credits)
			if err := tx.SetBalance(ctx, employeeID, category, next); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for category, credits := range added {
		g.Log.WithFields(logrus.Fields{
			"employee": employeeID,
			"category": category,
			"credits":  credits.String(),
		}).Info("leave credits accrued")
	}
	return added, nil
}

// =============================================================================
// STANDARD PLANS
// =============================================================================

// StandardPlan is the default accrual plan: a yearly vacation allowance
// granted monthly, sick and emergency allowances granted upfront.
func StandardPlan(vacation, sick, emergency int64) []Schedule {
	return []Schedule{
		&AnnualSchedule{
			Category:  leave.CategoryVacation,
			Annual:    decimal.NewFromInt(vacation),
			Frequency: GrantMonthly,
		},
		&AnnualSchedule{
			Category:  leave.CategorySick,
			Annual:    decimal.NewFromInt(sick),
			Frequency: GrantUpfront,
		},
		&AnnualSchedule{
			Category:  leave.CategoryEmergency,
			Annual:    decimal.NewFromInt(emergency),
			Frequency: GrantUpfront,
		},
	}
}
