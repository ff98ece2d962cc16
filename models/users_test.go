package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestStatsView_DerivedValues(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	u := User{
		CurrentStreak: 7,
		TotalWorkouts: 42,
		JoinedAt:      now.AddDate(0, 0, -30),
		IsActive:      true,
		WeightKg:      floatPtr(80),
		HeightCm:      floatPtr(180),
		WeightGoalKg:  floatPtr(75),
	}

	stats := u.StatsView(now)

	assert.Equal(t, 7, stats.CurrentStreak)
	assert.Equal(t, 42, stats.TotalWorkouts)
	assert.Equal(t, 30, stats.JoinedDaysAgo)
	require.NotNil(t, stats.BMI)
	assert.Equal(t, 24.7, *stats.BMI)
	require.NotNil(t, stats.WeightProgress)
	assert.Equal(t, 5.0, *stats.WeightProgress)
}

func TestStatsView_MissingMeasurements(t *testing.T) {
	u := User{JoinedAt: time.Now()}

	stats := u.StatsView(time.Now())

	assert.Nil(t, stats.BMI)
	assert.Nil(t, stats.WeightProgress)
}

func TestProfileUpdate_IsEmpty(t *testing.T) {
	assert.True(t, ProfileUpdate{}.IsEmpty())

	name := "New Name"
	assert.False(t, ProfileUpdate{DisplayName: &name}.IsEmpty())
}
