package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		period, err := ParsePeriod("10/2011")
		require.NoError(t, err)
		assert.Equal(t, Period{Year: 2011, Month: time.October}, period)
		assert.Equal(t, "10/2011", period.String())
	})

	for _, value := range []string{"", "1/2011", "10/11", "10-2011", "2011/10", "13/2011", "00/2011", "10/2011 ", "ab/cdef"} {
		t.Run("invalid "+value, func(t *testing.T) {
			_, err := ParsePeriod(value)
			assert.ErrorIs(t, err, ErrInvalidPeriodFormat)
		})
	}
}

func TestPreviousPeriod(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2011, time.December, 13, 10, 0, 0, 0, time.UTC), "11/2011"},
		{time.Date(2012, time.January, 1, 0, 0, 0, 0, time.UTC), "12/2011"},
		{time.Date(2016, time.March, 31, 23, 59, 59, 0, time.UTC), "02/2016"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, PreviousPeriod(tt.now).String())
		})
	}
}

func TestPeriod_IsClosed(t *testing.T) {
	now := time.Date(2011, time.December, 13, 10, 0, 0, 0, time.UTC)

	assert.True(t, Period{Year: 2011, Month: time.November}.IsClosed(now))
	assert.True(t, Period{Year: 2010, Month: time.December}.IsClosed(now))
	assert.False(t, Period{Year: 2011, Month: time.December}.IsClosed(now))
	assert.False(t, Period{Year: 2012, Month: time.January}.IsClosed(now))
}

func TestPeriodOf(t *testing.T) {
	ts := time.Date(2016, time.February, 29, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "02/2016", PeriodOf(ts).String())
}
