package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func punch(id, name string, d Date, hour, minute int) Punch {
	return Punch{
		EmployeeID: EmployeeID(id),
		Name:       name,
		Date:       d,
		Time:       TimeOfDay{Hour: hour, Minute: minute},
	}
}

func classifyOne(t *testing.T, p1, p2 Punch) DailyHours {
	t.Helper()
	days, _, err := Classify([]Punch{p1, p2})
	require.NoError(t, err)
	require.Len(t, days, 1)
	return days[0]
}

func hoursOf(d DailyHours) float64 {
	f, _ := d.HoursWorked.Float64()
	return f
}

func overtimeOf(d DailyHours) float64 {
	f, _ := d.OvertimeHours.Float64()
	return f
}

var (
	tuesday  = NewDate(2026, time.March, 10)
	saturday = NewDate(2026, time.March, 14)
	sunday   = NewDate(2026, time.March, 15)
	mayDay   = NewDate(2026, time.May, 1) // Día del Trabajo, a Friday
)

// =============================================================================
// ENTRY/EXIT DISAMBIGUATION
// =============================================================================

func TestClassify_MissingMeridiem_RecoversAfternoonExit(t *testing.T) {
	// GIVEN: Readings of 3:00 and 7:00 with no AM/PM marker
	// WHEN: Classified
	// THEN: Interpreted as 07:00 entry, 15:00 exit (8 hours, no overtime)

	day := classifyOne(t,
		punch("8-123-456", "Ana Pérez", tuesday, 3, 0),
		punch("8-123-456", "Ana Pérez", tuesday, 7, 0),
	)

	assert.InDelta(t, 8.0, hoursOf(day), 0.001)
	assert.InDelta(t, 0.0, overtimeOf(day), 0.001)
	assert.False(t, day.PremiumDay)
}

func TestClassify_CloseMorningReadings_KeptInSortedOrder(t *testing.T) {
	// Readings less than 2 hours apart stay as-is: 07:00 in, 08:30 out.
	day := classifyOne(t,
		punch("e1", "Luis", tuesday, 8, 30),
		punch("e1", "Luis", tuesday, 7, 0),
	)

	assert.InDelta(t, 1.5, hoursOf(day), 0.001)
}

func TestClassify_AlreadyResolvedTimes_Unchanged(t *testing.T) {
	day := classifyOne(t,
		punch("e1", "Luis", tuesday, 7, 0),
		punch("e1", "Luis", tuesday, 16, 0),
	)

	assert.InDelta(t, 9.0, hoursOf(day), 0.001)
	assert.InDelta(t, 1.0, overtimeOf(day), 0.001)
}

// =============================================================================
// ENTRY GRACE
// =============================================================================

func TestClassify_EntryGrace(t *testing.T) {
	tests := []struct {
		name      string
		entryH    int
		entryM    int
		wantHours float64
	}{
		{"early arrival snaps to 07:00", 6, 45, 8.0},
		{"exactly 07:05 snaps to 07:00", 7, 5, 8.0},
		{"07:06 keeps the real timestamp", 7, 6, 7.9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			day := classifyOne(t,
				punch("e1", "Luis", tuesday, tc.entryH, tc.entryM),
				punch("e1", "Luis", tuesday, 15, 0),
			)
			assert.InDelta(t, tc.wantHours, hoursOf(day), 0.001)
		})
	}
}

// =============================================================================
// OVERTIME THRESHOLDS AND EXIT TOLERANCE
// =============================================================================

func TestClassify_ExitTolerance_Weekday(t *testing.T) {
	// Exit at 15:08 is within the 10-minute tolerance, so no overtime and
	// the worked hours are measured to 15:00.
	day := classifyOne(t,
		punch("e1", "Luis", tuesday, 7, 0),
		punch("e1", "Luis", tuesday, 15, 8),
	)

	assert.InDelta(t, 8.0, hoursOf(day), 0.001)
	assert.InDelta(t, 0.0, overtimeOf(day), 0.001)
}

func TestClassify_ExitJustPastTolerance_AccruesOvertime(t *testing.T) {
	// 15:11 is one minute past the tolerance window; overtime runs from
	// the 15:00 threshold.
	day := classifyOne(t,
		punch("e1", "Luis", tuesday, 7, 0),
		punch("e1", "Luis", tuesday, 15, 11),
	)

	assert.InDelta(t, 8.0+11.0/60, hoursOf(day), 0.001)
	assert.InDelta(t, 11.0/60, overtimeOf(day), 0.001)
}

func TestClassify_SaturdayThresholdIsNoon(t *testing.T) {
	day := classifyOne(t,
		punch("e1", "Luis", saturday, 7, 0),
		punch("e1", "Luis", saturday, 14, 0),
	)

	assert.InDelta(t, 7.0, hoursOf(day), 0.001)
	assert.InDelta(t, 2.0, overtimeOf(day), 0.001)
}

func TestClassify_EntryAfterThreshold_AllOvertime(t *testing.T) {
	// Entered at 16:00 on a weekday, well past 15:10: the whole shift is
	// overtime.
	day := classifyOne(t,
		punch("e1", "Luis", tuesday, 16, 0),
		punch("e1", "Luis", tuesday, 20, 0),
	)

	assert.InDelta(t, 4.0, hoursOf(day), 0.001)
	assert.InDelta(t, 4.0, overtimeOf(day), 0.001)
}

// =============================================================================
// NIGHT SHIFT
// =============================================================================

func TestClassify_OvernightShift_RollsOverMidnight(t *testing.T) {
	// 22:00 in, 06:00 out the next morning: 8 hours, all past the weekday
	// threshold.
	day := classifyOne(t,
		punch("e1", "Luis", tuesday, 22, 0),
		punch("e1", "Luis", tuesday, 6, 0),
	)

	assert.InDelta(t, 8.0, hoursOf(day), 0.001)
}

// =============================================================================
// PREMIUM DAYS
// =============================================================================

func TestClassify_Sunday_NoOvertimeEver(t *testing.T) {
	// GIVEN: A long Sunday shift ending past the weekday threshold
	// THEN: Zero overtime; the day is flagged premium instead

	day := classifyOne(t,
		punch("e1", "Luis", sunday, 7, 0),
		punch("e1", "Luis", sunday, 18, 0),
	)

	assert.True(t, day.PremiumDay)
	assert.InDelta(t, 0.0, overtimeOf(day), 0.001)
	assert.InDelta(t, 11.0, hoursOf(day), 0.001)
}

func TestClassify_NationalHoliday_IsPremium(t *testing.T) {
	day := classifyOne(t,
		punch("e1", "Luis", mayDay, 7, 0),
		punch("e1", "Luis", mayDay, 15, 0),
	)

	assert.True(t, day.PremiumDay)
	assert.InDelta(t, 0.0, overtimeOf(day), 0.001)
}

// =============================================================================
// PLAUSIBILITY WARNINGS
// =============================================================================

func TestClassify_ImplausiblyShortDay_WarnsButKeepsRecord(t *testing.T) {
	days, warnings, err := Classify([]Punch{
		punch("e1", "Luis", tuesday, 7, 0),
		punch("e1", "Luis", tuesday, 7, 30),
	})
	require.NoError(t, err)

	require.Len(t, days, 1)
	assert.InDelta(t, 0.5, hoursOf(days[0]), 0.001)
	require.Len(t, warnings, 1)
	assert.Equal(t, EmployeeID("e1"), warnings[0].EmployeeID)
	assert.Contains(t, warnings[0].Message, "implausible")
}

func TestClassify_NormalDay_NoWarnings(t *testing.T) {
	_, warnings, err := Classify([]Punch{
		punch("e1", "Luis", tuesday, 7, 0),
		punch("e1", "Luis", tuesday, 15, 0),
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

// =============================================================================
// STRUCTURE
// =============================================================================

func TestClassify_UnpairedGroup_Rejected(t *testing.T) {
	_, _, err := Classify([]Punch{
		punch("e1", "Luis", tuesday, 7, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidAttendance)
}

func TestClassify_OutputSortedByEmployeeThenDate(t *testing.T) {
	wednesday := tuesday.AddDays(1)
	days, _, err := Classify([]Punch{
		punch("z9", "Zoe", tuesday, 7, 0),
		punch("z9", "Zoe", tuesday, 15, 0),
		punch("a1", "Ana", wednesday, 7, 0),
		punch("a1", "Ana", wednesday, 15, 0),
		punch("a1", "Ana", tuesday, 7, 0),
		punch("a1", "Ana", tuesday, 15, 0),
	})
	require.NoError(t, err)
	require.Len(t, days, 3)

	assert.Equal(t, EmployeeID("a1"), days[0].EmployeeID)
	assert.True(t, days[0].Date.Equal(tuesday))
	assert.Equal(t, EmployeeID("a1"), days[1].EmployeeID)
	assert.True(t, days[1].Date.Equal(wednesday))
	assert.Equal(t, EmployeeID("z9"), days[2].EmployeeID)
}

// Overtime can never exceed the hours worked, whatever the punches say.
func TestClassify_OvertimeNeverExceedsWorked(t *testing.T) {
	cases := [][2]TimeOfDay{
		{{Hour: 7, Minute: 0}, {Hour: 15, Minute: 0}},
		{{Hour: 7, Minute: 0}, {Hour: 19, Minute: 45}},
		{{Hour: 16, Minute: 0}, {Hour: 23, Minute: 30}},
		{{Hour: 3, Minute: 0}, {Hour: 7, Minute: 0}},
		{{Hour: 22, Minute: 0}, {Hour: 6, Minute: 0}},
	}

	for _, c := range cases {
		day := classifyOne(t,
			Punch{EmployeeID: "e1", Name: "Luis", Date: tuesday, Time: c[0]},
			Punch{EmployeeID: "e1", Name: "Luis", Date: tuesday, Time: c[1]},
		)
		assert.True(t, day.OvertimeHours.LessThanOrEqual(day.HoursWorked),
			"overtime %s exceeds worked %s for %s-%s",
			day.OvertimeHours, day.HoursWorked, c[0], c[1])
	}
}
