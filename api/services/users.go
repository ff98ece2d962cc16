package services

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/reto140/reto140-api/api/middleware"
	"github.com/reto140/reto140-api/internal/appconfig"
	"github.com/reto140/reto140-api/models"
)

// UserStore is the slice of the store the user service depends on.
type UserStore interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (*models.User, error)
	UpdateStreak(ctx context.Context, userID uuid.UUID, increment bool) (int, error)
	AddWorkout(ctx context.Context, userID uuid.UUID) (int, error)
	GetWorkoutTotals(ctx context.Context, userID uuid.UUID) (int, int, error)
}

// UserService serves the profile, stats and workout endpoints for the
// authenticated caller.
type UserService struct {
	Config *appconfig.Config
	DB     UserStore
}

// GetCurrentUserService returns the caller's user record as resolved by the
// authentication middleware.
func (s *UserService) GetCurrentUserService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		WriteErrResponse(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	WriteResponse(w, http.StatusOK, struct {
		models.Response
		User models.CurrentUser `json:"user"`
	}{
		Response: models.Response{Message: "user retrieved successfully"},
		User:     principal.User.CurrentUserView(),
	})
}

// GetProfileService returns the caller's full profile.
func (s *UserService) GetProfileService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		WriteErrResponse(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	WriteResponse(w, http.StatusOK, struct {
		models.Response
		Profile models.Profile `json:"profile"`
	}{
		Response: models.Response{Message: "profile retrieved successfully"},
		Profile:  principal.User.ProfileView(),
	})
}

// GetStatsService returns derived statistics for the caller.
func (s *UserService) GetStatsService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		WriteErrResponse(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	WriteResponse(w, http.StatusOK, struct {
		models.Response
		Stats models.Stats `json:"stats"`
	}{
		Response: models.Response{Message: "stats retrieved successfully"},
		Stats:    principal.User.StatsView(time.Now().UTC()),
	})
}

// UpdateProfileService applies a partial profile update.
func (s *UserService) UpdateProfileService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		WriteErrResponse(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var update models.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		WriteErrResponse(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	if update.IsEmpty() {
		WriteErrResponse(w, http.StatusBadRequest, "no fields to update", "")
		return
	}

	if err := validate.Struct(update); err != nil {
		HandleErrResponse(w, r, s.Config, err)
		return
	}

	user, err := s.DB.UpdateProfile(r.Context(), principal.ID, update)
	if err != nil {
		HandleErrResponse(w, r, s.Config, err)
		return
	}

	WriteResponse(w, http.StatusOK, struct {
		models.Response
		Profile models.Profile `json:"profile"`
	}{
		Response: models.Response{Message: "profile updated successfully"},
		Profile:  user.ProfileView(),
	})
}

// UpdateStreakService increments or resets the caller's streak.
func (s *UserService) UpdateStreakService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		WriteErrResponse(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req models.UpdateStreakRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteErrResponse(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	streak, err := s.DB.UpdateStreak(r.Context(), principal.ID, req.Increment)
	if err != nil {
		HandleErrResponse(w, r, s.Config, err)
		return
	}

	WriteResponse(w, http.StatusOK, struct {
		models.Response
		NewStreak int `json:"newStreak"`
	}{
		Response:  models.Response{Message: "streak updated successfully"},
		NewStreak: streak,
	})
}

// AddWorkoutService records a workout by bumping the caller's counter and
// echoes the workout back.
func (s *UserService) AddWorkoutService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		WriteErrResponse(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req models.AddWorkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteErrResponse(w, http.StatusBadRequest, "invalid request body", "")
		return
	}

	if err := validate.Struct(req); err != nil {
		HandleErrResponse(w, r, s.Config, err)
		return
	}

	if _, err := s.DB.AddWorkout(r.Context(), principal.ID); err != nil {
		HandleErrResponse(w, r, s.Config, err)
		return
	}

	WriteResponse(w, http.StatusOK, struct {
		models.Response
		Workout models.Workout `json:"workout"`
	}{
		Response: models.Response{Message: "workout added successfully"},
		Workout: models.Workout{
			Type:      req.Type,
			Duration:  req.Duration,
			Intensity: req.Intensity,
			Notes:     req.Notes,
		},
	})
}

// GetWorkoutsService returns the caller's workout totals. Individual workouts
// are not persisted, so the recent list is always empty.
func (s *UserService) GetWorkoutsService(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		WriteErrResponse(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	total, streak, err := s.DB.GetWorkoutTotals(r.Context(), principal.ID)
	if err != nil {
		HandleErrResponse(w, r, s.Config, err)
		return
	}

	WriteResponse(w, http.StatusOK, struct {
		models.Response
		Workouts models.WorkoutTotals `json:"workouts"`
	}{
		Response: models.Response{Message: "workouts retrieved successfully"},
		Workouts: models.WorkoutTotals{Total: total, Streak: streak, Recent: []models.Workout{}},
	})
}
