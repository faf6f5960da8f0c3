package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodFor_FirstHalf(t *testing.T) {
	p := PeriodFor(NewDate(2026, time.October, 7))

	assert.True(t, p.Start.Equal(NewDate(2026, time.October, 1)))
	assert.True(t, p.End.Equal(NewDate(2026, time.October, 15)))
	assert.True(t, p.FirstHalf())
}

func TestPeriodFor_SecondHalf(t *testing.T) {
	p := PeriodFor(NewDate(2026, time.October, 16))

	assert.True(t, p.Start.Equal(NewDate(2026, time.October, 16)))
	assert.True(t, p.End.Equal(NewDate(2026, time.October, 30)))
	assert.False(t, p.FirstHalf())
}

func TestPeriodFor_Day15BelongsToFirstHalf(t *testing.T) {
	p := PeriodFor(NewDate(2026, time.February, 15))
	assert.True(t, p.FirstHalf())
}

func TestPeriod_PayDate(t *testing.T) {
	tests := []struct {
		name string
		ref  Date
		want Date
	}{
		{"first half pays on the 15th", NewDate(2026, time.October, 3), NewDate(2026, time.October, 15)},
		{"second half pays on the last day", NewDate(2026, time.October, 20), NewDate(2026, time.October, 31)},
		{"february last day", NewDate(2026, time.February, 20), NewDate(2026, time.February, 28)},
		{"leap february", NewDate(2028, time.February, 20), NewDate(2028, time.February, 29)},
		{"december last day", NewDate(2026, time.December, 28), NewDate(2026, time.December, 31)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PeriodFor(tc.ref).PayDate()
			assert.True(t, got.Equal(tc.want), "got %s, want %s", got, tc.want)
		})
	}
}

func TestPeriod_Contains(t *testing.T) {
	p := PeriodFor(NewDate(2026, time.October, 7))

	assert.True(t, p.Contains(NewDate(2026, time.October, 1)))
	assert.True(t, p.Contains(NewDate(2026, time.October, 15)))
	assert.False(t, p.Contains(NewDate(2026, time.September, 30)))
	assert.False(t, p.Contains(NewDate(2026, time.October, 16)))
}
