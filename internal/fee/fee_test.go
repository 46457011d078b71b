package fee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zvrva/securespot/internal/domain"
)

func TestCents(t *testing.T) {
	testCases := []struct {
		name            string
		durationMinutes int64
		rateCents       int64
		expected        int64
	}{
		{"one hour at 10.00", 60, 1000, 1000},
		{"half hour at 10.00", 30, 1000, 500},
		{"90 minutes at 10.00", 90, 1000, 1500},
		{"one minute at 10.00", 1, 1000, 17},
		{"rounding half up", 1, 150, 3}, // 2.5 cents rounds to 3
		{"zero duration", 0, 1000, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Cents(tc.durationMinutes, tc.rateCents))
		})
	}
}

func TestCents_MonotonicInDuration(t *testing.T) {
	var prev int64
	for minutes := int64(1); minutes <= 240; minutes++ {
		fee := Cents(minutes, 1250)
		assert.GreaterOrEqual(t, fee, prev)
		prev = fee
	}
}

func TestCents_Deterministic(t *testing.T) {
	assert.Equal(t, Cents(75, 999), Cents(75, 999))
}

func TestForReservation(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := &domain.Reservation{
		RateCents: 1000,
		StartTime: start,
		EndTime:   start.Add(60 * time.Minute),
	}
	assert.Equal(t, int64(1000), ForReservation(r))
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "10.00", FormatCents(1000))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "12.34", FormatCents(1234))
}
