package leave_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/warp/hr-portal/leave"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// 2025-08-04 is a Monday, 2025-08-09 a Saturday.
var (
	monday   = leave.NewDate(2025, time.August, 4)
	saturday = leave.NewDate(2025, time.August, 9)
)

func fullContext(d leave.Date) leave.EmployeeContext {
	timeIn, _ := leave.ParseClockTime("08:00")
	timeOut, _ := leave.ParseClockTime("17:00")
	return leave.EmployeeContext{
		Attendance: leave.NewAttendanceLog(leave.AttendanceRecord{Date: d, TimeIn: timeIn, TimeOut: timeOut}),
		Holidays:   leave.NewHolidayCalendar(leave.Holiday{Date: d, Name: "Founders Day"}),
		RestDays:   leave.WeekendRest(),
		Approved:   leave.NewApprovedDaySet(d),
	}
}

// =============================================================================
// PRECEDENCE TESTS
// =============================================================================

func TestClassify_PlainWeekday_Available(t *testing.T) {
	// GIVEN: A weekday with no records of any kind
	// THEN: The day is Available

	got := leave.Classify(monday, leave.EmployeeContext{RestDays: leave.WeekendRest()})
	assert.Equal(t, leave.ClassAvailable, got)
	assert.True(t, got.Requestable())
}

func TestClassify_NilContext_Available(t *testing.T) {
	// Classification is total: an empty context means no records, not an error.
	got := leave.Classify(monday, leave.EmployeeContext{})
	assert.Equal(t, leave.ClassAvailable, got)
}

func TestClassify_Saturday_RestDay(t *testing.T) {
	got := leave.Classify(saturday, leave.EmployeeContext{RestDays: leave.WeekendRest()})
	assert.Equal(t, leave.ClassRestDay, got)
	assert.False(t, got.Requestable())
}

func TestClassify_Attendance_WinsOverEverything(t *testing.T) {
	// GIVEN: A Saturday that is simultaneously an attendance day, a holiday,
	//        and covered by approved leave
	// THEN: Attendance wins; it sits at the top of the precedence chain

	got := leave.Classify(saturday, fullContext(saturday))
	assert.Equal(t, leave.ClassAttendance, got)
}

func TestClassify_Holiday_WinsOverApprovedLeaveAndRest(t *testing.T) {
	ec := fullContext(saturday)
	ec.Attendance = nil

	got := leave.Classify(saturday, ec)
	assert.Equal(t, leave.ClassHoliday, got)
}

func TestClassify_ApprovedLeave_WinsOverRestDay(t *testing.T) {
	// An approved leave on a working Saturday still shows as taken.
	ec := fullContext(saturday)
	ec.Attendance = nil
	ec.Holidays = nil

	got := leave.Classify(saturday, ec)
	assert.Equal(t, leave.ClassApprovedLeave, got)
}

func TestClassify_Deterministic(t *testing.T) {
	// Same inputs, same verdict: classification is pure.
	ec := fullContext(monday)
	first := leave.Classify(monday, ec)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, leave.Classify(monday, ec))
	}
}
