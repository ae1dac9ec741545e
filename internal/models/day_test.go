package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayRange_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 02:00 at +05:00 is still the previous day in UTC.
	start, end := DayRange(time.Date(2026, 5, 10, 2, 0, 0, 0, loc))
	assert.Equal(t, time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC), end)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2026-02-28", FormatDate(d))

	_, err = ParseDate("28/02/2026")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("month")
	require.NoError(t, err)
	w, ok := p.Window()
	assert.True(t, ok)
	assert.Equal(t, 30*Day, w)

	_, ok = PeriodLifetime.Window()
	assert.False(t, ok)

	_, err = ParsePeriod("year")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSnapshot_Newer(t *testing.T) {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	a := &Snapshot{ID: 1, TakenAt: base}
	b := &Snapshot{ID: 2, TakenAt: base.Add(time.Minute)}
	c := &Snapshot{ID: 3, TakenAt: base}

	assert.True(t, b.Newer(a))
	assert.False(t, a.Newer(b))
	assert.True(t, c.Newer(a), "equal timestamps fall back to the higher id")
	assert.False(t, a.Newer(c))
}
