package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextMonthBegin(t *testing.T) {
	t.Run("mid month", func(t *testing.T) {
		require.Equal(t, NewDate(2010, 2, 1), NextMonthBegin(NewDate(2010, 1, 15)))
	})
	t.Run("first of month", func(t *testing.T) {
		require.Equal(t, NewDate(2010, 2, 1), NextMonthBegin(NewDate(2010, 1, 1)))
	})
	t.Run("year rollover", func(t *testing.T) {
		require.Equal(t, NewDate(2011, 1, 1), NextMonthBegin(NewDate(2010, 12, 31)))
	})
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2020, 3, 4, 13, 30, 0, 0, time.UTC)
	require.Equal(t, NewDate(2020, 3, 4), DateOnly(ts))
}

func TestDaysBetween(t *testing.T) {
	require.Equal(t, float64(365), DaysBetween(NewDate(2019, 1, 1), NewDate(2020, 1, 1)))
	require.Equal(t, float64(-1), DaysBetween(NewDate(2020, 1, 2), NewDate(2020, 1, 1)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2021-06-30")
	require.NoError(t, err)
	require.Equal(t, NewDate(2021, 6, 30), d)
	require.True(t, DateLte(d, d))

	_, err = ParseDate("30/06/2021")
	require.Error(t, err)
}
