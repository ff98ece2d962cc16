package models

// CreateGroupRequest is the body of POST /groups/create. Name is trimmed
// before validation.
type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,min=3"`
	Description *string `json:"description"`
	MaxMembers  int     `json:"maxMembers" validate:"omitempty,min=2,max=500"`
	IsPublic    bool    `json:"isPublic"`
}

// JoinGroupRequest is the body of POST /groups/join. The code is trimmed and
// uppercased before lookup.
type JoinGroupRequest struct {
	Code string `json:"code" validate:"required"`
}

// UpdateStreakRequest is the body of PUT /streak. Increment true bumps the
// streak by one, false resets it to zero.
type UpdateStreakRequest struct {
	Increment bool `json:"increment"`
}

// AddWorkoutRequest is the body of POST /workout.
type AddWorkoutRequest struct {
	Type      string `json:"type" validate:"required"`
	Duration  int    `json:"duration" validate:"required,gt=0"`
	Intensity string `json:"intensity"`
	Notes     string `json:"notes"`
}

// Workout echoes the recorded workout back to the caller. Individual workouts
// are not persisted; only the per-user counter is.
type Workout struct {
	Type      string `json:"type"`
	Duration  int    `json:"duration"`
	Intensity string `json:"intensity,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// WorkoutTotals is the response shape of GET /workouts.
type WorkoutTotals struct {
	Total  int       `json:"total"`
	Streak int       `json:"streak"`
	Recent []Workout `json:"recent"`
}

// ProfileUpdate enumerates the profile fields a client may change. Nil means
// "leave untouched"; the store maps each set field onto a parameterized
// assignment, so no column name ever derives from request data.
type ProfileUpdate struct {
	DisplayName  *string  `json:"displayName" validate:"omitempty,min=1,max=255"`
	PhotoURL     *string  `json:"photoURL" validate:"omitempty,url"`
	Age          *int     `json:"age" validate:"omitempty,min=13,max=120"`
	WeightKg     *float64 `json:"weightKg" validate:"omitempty,gt=0,lt=500"`
	HeightCm     *float64 `json:"heightCm" validate:"omitempty,gt=0,lt=300"`
	WeightGoalKg *float64 `json:"weightGoalKg" validate:"omitempty,gt=0,lt=500"`
	PrimaryGoal  *string  `json:"primaryGoal" validate:"omitempty,max=100"`
	Gender       *string  `json:"gender" validate:"omitempty,max=20"`
}

// IsEmpty reports whether the update would change nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p.DisplayName == nil && p.PhotoURL == nil && p.Age == nil &&
		p.WeightKg == nil && p.HeightCm == nil && p.WeightGoalKg == nil &&
		p.PrimaryGoal == nil && p.Gender == nil
}
