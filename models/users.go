package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// User mirrors one row of the users table. A row is bound 1:1 to the external
// identity subject that first produced it; FirebaseUID never changes after
// creation.
type User struct {
	ID            uuid.UUID
	FirebaseUID   string
	Email         string
	DisplayName   string
	PhotoURL      *string
	EmailVerified bool
	IsActive      bool
	CurrentStreak int
	TotalWorkouts int
	Age           *int
	WeightKg      *float64
	HeightCm      *float64
	WeightGoalKg  *float64
	PrimaryGoal   *string
	Gender        *string
	JoinedAt      time.Time
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Principal is the resolved identity the authentication middleware attaches to
// the request context. Downstream handlers treat it as read-only.
type Principal struct {
	ID            uuid.UUID
	FirebaseUID   string
	Email         string
	DisplayName   string
	EmailVerified bool
	User          *User
}

// CurrentUser is the projection returned by GET /me.
type CurrentUser struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	DisplayName   string     `json:"displayName"`
	PhotoURL      *string    `json:"photoURL"`
	EmailVerified bool       `json:"emailVerified"`
	IsActive      bool       `json:"isActive"`
	CurrentStreak int        `json:"currentStreak"`
	TotalWorkouts int        `json:"totalWorkouts"`
	JoinedAt      time.Time  `json:"joinedAt"`
	LastLoginAt   *time.Time `json:"lastLoginAt"`
}

// Profile is the projection returned by the profile endpoints.
type Profile struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	DisplayName   string     `json:"displayName"`
	PhotoURL      *string    `json:"photoURL"`
	EmailVerified bool       `json:"emailVerified"`
	Age           *int       `json:"age"`
	WeightKg      *float64   `json:"weightKg"`
	HeightCm      *float64   `json:"heightCm"`
	WeightGoalKg  *float64   `json:"weightGoalKg"`
	PrimaryGoal   *string    `json:"primaryGoal"`
	Gender        *string    `json:"gender"`
	CurrentStreak int        `json:"currentStreak"`
	TotalWorkouts int        `json:"totalWorkouts"`
	JoinedAt      time.Time  `json:"joinedAt"`
	LastLoginAt   *time.Time `json:"lastLoginAt"`
	IsActive      bool       `json:"isActive"`
}

// Stats is the projection returned by GET /stats.
type Stats struct {
	CurrentStreak  int        `json:"currentStreak"`
	TotalWorkouts  int        `json:"totalWorkouts"`
	JoinedDaysAgo  int        `json:"joinedDaysAgo"`
	LastLogin      *time.Time `json:"lastLogin"`
	IsActive       bool       `json:"isActive"`
	BMI            *float64   `json:"bmi"`
	WeightProgress *float64   `json:"weightProgress"`
}

// CurrentUserView projects a user row into the /me shape.
func (u *User) CurrentUserView() CurrentUser {
	return CurrentUser{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		PhotoURL:      u.PhotoURL,
		EmailVerified: u.EmailVerified,
		IsActive:      u.IsActive,
		CurrentStreak: u.CurrentStreak,
		TotalWorkouts: u.TotalWorkouts,
		JoinedAt:      u.JoinedAt,
		LastLoginAt:   u.LastLoginAt,
	}
}

// ProfileView projects a user row into the profile shape.
func (u *User) ProfileView() Profile {
	return Profile{
		ID:            u.ID,
		Email:         u.Email,
		DisplayName:   u.DisplayName,
		PhotoURL:      u.PhotoURL,
		EmailVerified: u.EmailVerified,
		Age:           u.Age,
		WeightKg:      u.WeightKg,
		HeightCm:      u.HeightCm,
		WeightGoalKg:  u.WeightGoalKg,
		PrimaryGoal:   u.PrimaryGoal,
		Gender:        u.Gender,
		CurrentStreak: u.CurrentStreak,
		TotalWorkouts: u.TotalWorkouts,
		JoinedAt:      u.JoinedAt,
		LastLoginAt:   u.LastLoginAt,
		IsActive:      u.IsActive,
	}
}

// StatsView computes the derived statistics for a user row. BMI and weight
// progress are only present when the underlying measurements exist.
func (u *User) StatsView(now time.Time) Stats {
	stats := Stats{
		CurrentStreak: u.CurrentStreak,
		TotalWorkouts: u.TotalWorkouts,
		JoinedDaysAgo: int(now.Sub(u.JoinedAt).Hours() / 24),
		LastLogin:     u.LastLoginAt,
		IsActive:      u.IsActive,
	}

	if u.WeightKg != nil && u.HeightCm != nil && *u.HeightCm > 0 {
		heightM := *u.HeightCm / 100
		bmi := round1(*u.WeightKg / (heightM * heightM))
		stats.BMI = &bmi
	}

	if u.WeightKg != nil && u.WeightGoalKg != nil {
		progress := round1(*u.WeightKg - *u.WeightGoalKg)
		stats.WeightProgress = &progress
	}

	return stats
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
