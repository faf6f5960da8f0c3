package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// DATE PARSING
// =============================================================================

func TestParseDate_Layouts(t *testing.T) {
	cases := []struct {
		in   string
		want Date
	}{
		{"2026-10-05", NewDate(2026, time.October, 5)},
		{"05/10/2026", NewDate(2026, time.October, 5)},
		{"2026-10-05 07:00:00", NewDate(2026, time.October, 5)},
		{"5/10/26", NewDate(2026, time.October, 5)},
		{"05-10-26", NewDate(2026, time.October, 5)},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, got.Equal(tc.want), "%s parsed as %s", tc.in, got)
	}
}

func TestParseDate_DayFirstForShortForms(t *testing.T) {
	// 03/04/26 is April 3rd in the office's convention, never March 4th.
	got, err := ParseDate("03/04/26")
	require.NoError(t, err)
	assert.True(t, got.Equal(NewDate(2026, time.April, 3)), "got %s", got)
}

func TestParseDate_Rejects(t *testing.T) {
	for _, in := range []string{"", "  ", "not-a-date", "32/01/2026"} {
		_, err := ParseDate(in)
		assert.Error(t, err, "%q", in)
	}
}
