package payroll

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var attendanceHeader = []string{"First Name", "Last Name", "ID", "Date", "Time"}

func TestNormalizeAttendance_SkipsMetadataRows(t *testing.T) {
	// Biometric exports lead with device metadata before the real header.
	rows := [][]string{
		{"Attendance Report"},
		{"Device: BX-100", "Exported: 2026-10-16"},
		attendanceHeader,
		{"Ana", "Pérez", "8-123-456", "2026-10-05", "07:00"},
	}

	punches, err := NormalizeAttendance(rows)
	require.NoError(t, err)
	require.Len(t, punches, 1)
	assert.Equal(t, EmployeeID("8-123-456"), punches[0].EmployeeID)
	assert.Equal(t, "Ana Pérez", punches[0].Name)
}

func TestNormalizeAttendance_NoHeader(t *testing.T) {
	_, err := NormalizeAttendance([][]string{
		{"garbage"},
		{"more", "garbage"},
	})
	assert.ErrorIs(t, err, ErrHeaderNotFound)
}

func TestNormalizeAttendance_MissingColumns(t *testing.T) {
	_, err := NormalizeAttendance([][]string{
		{"First Name", "Last Name", "Date"},
	})

	var mErr *MissingColumnsError
	require.True(t, errors.As(err, &mErr))
	assert.ElementsMatch(t, []string{"ID", "Time"}, mErr.Columns)
	assert.ErrorIs(t, err, ErrMissingColumns)
}

func TestNormalizeAttendance_FloatIDArtifact(t *testing.T) {
	rows := [][]string{
		attendanceHeader,
		{"Ana", "Pérez", "170660927.0", "2026-10-05", "07:00"},
	}

	punches, err := NormalizeAttendance(rows)
	require.NoError(t, err)
	require.Len(t, punches, 1)
	assert.Equal(t, EmployeeID("170660927"), punches[0].EmployeeID)
}

func TestNormalizeAttendance_DropsUnparseableRows(t *testing.T) {
	rows := [][]string{
		attendanceHeader,
		{"Ana", "Pérez", "8-123-456", "not-a-date", "07:00"},
		{"Ana", "Pérez", "8-123-456", "2026-10-05", "25:99"},
		{"", "", "", "", ""},
		{"Luis", "Gómez", "PA445566", "2026-10-05", "07:00:00"},
	}

	punches, err := NormalizeAttendance(rows)
	require.NoError(t, err)
	require.Len(t, punches, 1)
	assert.Equal(t, EmployeeID("PA445566"), punches[0].EmployeeID)
	assert.Equal(t, TimeOfDay{Hour: 7, Minute: 0}, punches[0].Time)
}

func TestNormalizeAttendance_DateFormats(t *testing.T) {
	rows := [][]string{
		attendanceHeader,
		{"A", "B", "1", "2026-10-05", "07:00"},
		{"A", "B", "1", "05/10/2026", "07:00"},
		{"A", "B", "1", "2026-10-05 00:00:00", "07:00"},
	}

	punches, err := NormalizeAttendance(rows)
	require.NoError(t, err)
	require.Len(t, punches, 3)
	for _, p := range punches {
		assert.Equal(t, "2026-10-05", p.Date.String())
	}
}

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"170660927.0", "170660927"},
		{"170660927", "170660927"},
		{"  8-123-456 ", "8-123-456"},
		{"PA445566", "PA445566"},
		{"12.5", "12.5"}, // genuine fraction, not an artifact
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, NormalizeID(tc.in), "NormalizeID(%q)", tc.in)
	}
}
