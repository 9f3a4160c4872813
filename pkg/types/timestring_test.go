package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "valid morning", input: "09:00", want: "09:00"},
		{name: "valid midnight", input: "00:00", want: "00:00"},
		{name: "valid end of day", input: "23:59", want: "23:59"},
		{name: "out of range hour", input: "24:00", wantErr: true},
		{name: "out of range minute", input: "12:60", wantErr: true},
		{name: "garbage", input: "noon", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		minutes int
		want    string
		wantErr bool
	}{
		{name: "within hour", start: "09:00", minutes: 30, want: "09:30"},
		{name: "across hour", start: "09:45", minutes: 30, want: "10:15"},
		{name: "zero", start: "12:00", minutes: 0, want: "12:00"},
		{name: "to last minute", start: "23:00", minutes: 59, want: "23:59"},
		{name: "past midnight", start: "23:30", minutes: 60, wantErr: true},
		{name: "exactly midnight", start: "23:00", minutes: 60, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, err := NewTimeStringFromString(tt.start)
			require.NoError(t, err)

			got, err := start.AddMinutes(tt.minutes)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestOverlaps(t *testing.T) {
	ts := func(s string) TimeString {
		v, err := NewTimeStringFromString(s)
		require.NoError(t, err)
		return v
	}

	tests := []struct {
		name string
		a    [2]string
		b    [2]string
		want bool
	}{
		{name: "identical", a: [2]string{"10:00", "11:00"}, b: [2]string{"10:00", "11:00"}, want: true},
		{name: "partial overlap", a: [2]string{"10:00", "11:00"}, b: [2]string{"10:30", "11:30"}, want: true},
		{name: "containment", a: [2]string{"10:00", "12:00"}, b: [2]string{"10:30", "11:00"}, want: true},
		// Полуоткрытые интервалы: встык - не пересечение
		{name: "back to back", a: [2]string{"10:00", "11:00"}, b: [2]string{"11:00", "12:00"}, want: false},
		{name: "disjoint", a: [2]string{"09:00", "10:00"}, b: [2]string{"14:00", "15:00"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(ts(tt.a[0]), ts(tt.a[1]), ts(tt.b[0]), ts(tt.b[1]))
			assert.Equal(t, tt.want, got)

			// Пересечение симметрично
			gotRev := Overlaps(ts(tt.b[0]), ts(tt.b[1]), ts(tt.a[0]), ts(tt.a[1]))
			assert.Equal(t, tt.want, gotRev)
		})
	}
}

func TestTimeString_At(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Moscow")
	require.NoError(t, err)

	ts, err := NewTimeStringFromString("14:30")
	require.NoError(t, err)

	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	got := ts.At(date, loc)

	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 15, got.Day())
	assert.Equal(t, 14, got.Hour())
	assert.Equal(t, 30, got.Minute())
	assert.Equal(t, loc, got.Location())
}

func TestTimeString_SubMinutes(t *testing.T) {
	ts := func(s string) TimeString {
		v, err := NewTimeStringFromString(s)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, 90, ts("19:30").SubMinutes(ts("18:00")))
	assert.Equal(t, 0, ts("18:00").SubMinutes(ts("18:00")))
	assert.Equal(t, -60, ts("17:00").SubMinutes(ts("18:00")))
}

func TestNewTimeStringFromMinutes(t *testing.T) {
	got, err := NewTimeStringFromMinutes(570)
	require.NoError(t, err)
	assert.Equal(t, "09:30", got.String())

	_, err = NewTimeStringFromMinutes(1440)
	require.Error(t, err)

	_, err = NewTimeStringFromMinutes(-1)
	require.Error(t, err)
}
