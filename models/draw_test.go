package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDraw_State(t *testing.T) {
	draw := &Draw{ID: 1}
	assert.Equal(t, DrawStatePending, draw.State())
	assert.False(t, draw.IsDecided())

	supporterID := int64(4)
	draw.SupporterID = &supporterID
	assert.Equal(t, DrawStateDecided, draw.State())
	assert.True(t, draw.IsDecided())
}

func TestDraw_IsDueOn(t *testing.T) {
	draw := &Draw{DrawDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)}
	auckland := time.FixedZone("NZDT", 13*60*60)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"day before", time.Date(2026, 3, 14, 23, 59, 59, 0, time.UTC), false},
		{"start of day", time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"end of day", time.Date(2026, 3, 15, 23, 59, 59, 0, time.UTC), true},
		{"days later", time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC), true},
		{"already the 15th in auckland", time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC).In(auckland), true},
		{"still the 14th in auckland", time.Date(2026, 3, 14, 10, 59, 0, 0, time.UTC).In(auckland), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, draw.IsDueOn(tt.now))
		})
	}
}
