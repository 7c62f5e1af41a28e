/*
classify.go - Per-date eligibility classification

PURPOSE:
  Decides, for a single calendar date, whether the day is usable for a
  leave request. The same classification is shown interactively (the date
  picker disables/decorates a day) and consumed non-interactively by the
  credit calculator; centralizing it guarantees the two never disagree.

PRECEDENCE:
  When multiple conditions apply to one date, the first match wins:

    Attendance > Holiday > ApprovedLeave > RestDay > Available

  A day with an attendance log is never requestable, even if it is also a
  holiday. An approved leave outranks a rest day so that a leave granted
  on a working Saturday still shows as taken.

TOTALITY:
  Classify is a total function over any valid date. It never errors; a
  date with no annotations is simply Available.
*/
package leave

// =============================================================================
// DAY CLASSIFICATION
// =============================================================================

// Classification is the eligibility verdict for one calendar date.
type Classification string

const (
	// ClassAttendance: the employee has a time-in/time-out log on this date.
	ClassAttendance Classification = "attendance"

	// ClassHoliday: the date is a named company holiday.
	ClassHoliday Classification = "holiday"

	// ClassApprovedLeave: an already-approved leave request covers this date.
	ClassApprovedLeave Classification = "approved_leave"

	// ClassRestDay: the date falls on the employee's rest-day pattern.
	ClassRestDay Classification = "rest_day"

	// ClassAvailable: nothing blocks this date; it is usable for a request.
	ClassAvailable Classification = "available"
)

// Requestable reports whether a day with this classification may
// contribute credits to a leave entry.
func (c Classification) Requestable() bool { return c == ClassAvailable }

// =============================================================================
// EMPLOYEE CONTEXT - The records classification draws from
// =============================================================================

// AttendanceRecord is one time-in/time-out log entry.
type AttendanceRecord struct {
	Date    Date
	TimeIn  ClockTime
	TimeOut ClockTime
}

// AttendanceLog looks up the attendance record for a date, if any.
type AttendanceLog interface {
	AttendanceOn(d Date) (AttendanceRecord, bool)
}

// MapAttendanceLog is an AttendanceLog backed by a fixed record set.
type MapAttendanceLog map[Date]AttendanceRecord

func NewAttendanceLog(records ...AttendanceRecord) MapAttendanceLog {
	m := make(MapAttendanceLog, len(records))
	for _, r := range records {
		m[r.Date] = r
	}
	return m
}

func (m MapAttendanceLog) AttendanceOn(d Date) (AttendanceRecord, bool) {
	r, ok := m[d]
	return r, ok
}

// ApprovedLeaveLookup answers whether an already-approved leave request
// covers a date for this employee.
type ApprovedLeaveLookup interface {
	ApprovedLeaveOn(d Date) bool
}

// ApprovedDaySet is an ApprovedLeaveLookup backed by a fixed day set.
type ApprovedDaySet map[Date]bool

func NewApprovedDaySet(days ...Date) ApprovedDaySet {
	m := make(ApprovedDaySet, len(days))
	for _, d := range days {
		m[d] = true
	}
	return m
}

func (s ApprovedDaySet) ApprovedLeaveOn(d Date) bool { return s[d] }

// EmployeeContext bundles everything classification needs for one employee.
// Nil fields are treated as "no records of that kind".
type EmployeeContext struct {
	Attendance AttendanceLog
	Holidays   HolidayCalendar
	RestDays   RestPattern
	Approved   ApprovedLeaveLookup
}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classify returns the eligibility verdict for one date. Pure and
// deterministic: evaluates the precedence chain and returns the first match,
// defaulting to Available.
func Classify(d Date, ec EmployeeContext) Classification {
	if ec.Attendance != nil {
		if _, ok := ec.Attendance.AttendanceOn(d); ok {
			return ClassAttendance
		}
	}
	if ec.Holidays != nil {
		if _, ok := ec.Holidays.HolidayOn(d); ok {
			return ClassHoliday
		}
	}
	if ec.Approved != nil && ec.Approved.ApprovedLeaveOn(d) {
		return ClassApprovedLeave
	}
	if ec.RestDays != nil && ec.RestDays.IsRestDay(d) {
		return ClassRestDay
	}
	return ClassAvailable
}
