/*
schedule.go - Leave credit accrual schedules

PURPOSE:
  Defines how leave credits accumulate over time. A Schedule generates
  grant events for a date range; the Granter applies them to an
  employee's balances.

SCHEDULE TYPES:
  AnnualSchedule:
    "15 vacation credits per year" distributed upfront or monthly.
    - GrantUpfront: the full allowance on January 1
    - GrantMonthly: allowance/12 on the first of each month

  TenureSchedule:
    Monthly grants whose annual allowance steps up with years of
    service. Example: 12 credits for 0-2 years, 15 for 3-4, 20 for 5+.

ROUNDING:
  Monthly grants divide the annual allowance by 12 and round to two
  decimal places, the same scale the credit calculator uses. Rounding
  drift over a year stays within a cent of credit and is accepted.

SEE ALSO:
  - granter.go: applies grants through the request store
*/
package accrual

import (
	"github.com/shopspring/decimal"

	"github.com/warp/hr-portal/leave"
)

// =============================================================================
// SCHEDULE
// =============================================================================

// Grant is a single credit accrual event.
type Grant struct {
	On       leave.Date
	Category leave.Category
	Credits  decimal.Decimal
	Reason   string
}

// Schedule generates credit grants for a date range.
type Schedule interface {
	// Grants returns the grant events falling within [from, to], inclusive.
	Grants(from, to leave.Date) []Grant
}

// Frequency controls how an annual allowance is distributed.
type Frequency string

const (
	GrantUpfront Frequency = "upfront"
	GrantMonthly Frequency = "monthly"
)

var months = decimal.NewFromInt(12)

// =============================================================================
// ANNUAL SCHEDULE
// =============================================================================

// AnnualSchedule grants a fixed yearly allowance for one category.
type AnnualSchedule struct {
	Category  leave.Category
	Annual    decimal.Decimal
	Frequency Frequency
}

func (s *AnnualSchedule) Grants(from, to leave.Date) []Grant {
	if s.Frequency == GrantUpfront {
		return s.upfront(from, to)
	}
	return s.monthly(from, to)
}

func (s *AnnualSchedule) upfront(from, to leave.Date) []Grant {
	var grants []Grant
	for year := from.Year(); year <= to.Year(); year++ {
		on := leave.NewDate(year, 1, 1)
		if inRange(on, from, to) {
			grants = append(grants, Grant{
				On:       on,
				Category: s.Category,
				Credits:  s.Annual,
				Reason:   "annual grant",
			})
		}
	}
	return grants
}

func (s *AnnualSchedule) monthly(from, to leave.Date) []Grant {
	var grants []Grant
	portion := s.Annual.Div(months).Round(2)

	for on := firstOfMonth(from); !on.After(to); on = nextMonth(on) {
		if inRange(on, from, to) {
			grants = append(grants, Grant{
				On:       on,
				Category: s.Category,
				Credits:  portion,
				Reason:   "monthly accrual",
			})
		}
	}
	return grants
}

// =============================================================================
// TENURE SCHEDULE
// =============================================================================

// TenureTier maps completed years of service to an annual allowance.
type TenureTier struct {
	AfterYears int
	Annual     decimal.Decimal
}

// TenureSchedule grants monthly portions of an allowance that steps up
// with tenure. Tiers must be ordered by AfterYears ascending.
type TenureSchedule struct {
	Category leave.Category
	HireDate leave.Date
	Tiers    []TenureTier
}

func (s *TenureSchedule) Grants(from, to leave.Date) []Grant {
	var grants []Grant
	for on := firstOfMonth(from); !on.After(to); on = nextMonth(on) {
		if !inRange(on, from, to) {
			continue
		}
		annual := s.allowanceAt(on)
		if annual.IsZero() {
			continue
		}
		grants = append(grants, Grant{
			On:       on,
			Category: s.Category,
			Credits:  annual.Div(months).Round(2),
			Reason:   "tenure accrual",
		})
	}
	return grants
}

func (s *TenureSchedule) allowanceAt(on leave.Date) decimal.Decimal {
	years := on.Year() - s.HireDate.Year()
	if on.Month() < s.HireDate.Month() {
		years--
	}

	var annual decimal.Decimal
	for _, tier := range s.Tiers {
		if years >= tier.AfterYears {
			annual = tier.Annual
		}
	}
	return annual
}

// =============================================================================
// DATE HELPERS
// =============================================================================

func inRange(d, from, to leave.Date) bool {
	return !d.Before(from) && !d.After(to)
}

func firstOfMonth(d leave.Date) leave.Date {
	return leave.NewDate(d.Year(), d.Month(), 1)
}

func nextMonth(d leave.Date) leave.Date {
	return leave.NewDate(d.Year(), d.Month()+1, 1)
}
