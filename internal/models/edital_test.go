package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEdital_IsActiveAt_ClosedInterval(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 1, 23, 59, 59, 0, time.UTC)
	edital := Edital{ID: "ed-1", StartDate: start, EndDate: end}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"before window", start.Add(-time.Second), false},
		{"exactly at start", start, true},
		{"inside window", start.Add(24 * time.Hour), true},
		{"exactly at end", end, true},
		{"after window", end.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, edital.IsActiveAt(tt.at))
		})
	}
}

func TestActiveEdital_PicksFirstOpenWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	editals := []Edital{
		{ID: "closed", StartDate: now.Add(-48 * time.Hour), EndDate: now.Add(-24 * time.Hour)},
		{ID: "open", StartDate: now.Add(-time.Hour), EndDate: now.Add(time.Hour)},
		{ID: "future", StartDate: now.Add(24 * time.Hour), EndDate: now.Add(48 * time.Hour)},
	}

	active := ActiveEdital(editals, now)
	require.NotNil(t, active)
	assert.Equal(t, "open", active.ID)

	assert.Nil(t, ActiveEdital(editals[:1], now))
	assert.Nil(t, ActiveEdital(nil, now))
}
