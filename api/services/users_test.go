package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/reto140/reto140-api/api/middleware"
	"github.com/reto140/reto140-api/models"
)

func testUser() *models.User {
	weight := 80.0
	height := 180.0
	goal := 75.0
	return &models.User{
		ID:            uuid.New(),
		FirebaseUID:   "firebase-uid-1",
		Email:         "runner@example.com",
		DisplayName:   "runner",
		EmailVerified: true,
		IsActive:      true,
		CurrentStreak: 3,
		TotalWorkouts: 12,
		WeightKg:      &weight,
		HeightCm:      &height,
		WeightGoalKg:  &goal,
		JoinedAt:      time.Now().AddDate(0, 0, -10),
	}
}

// authedRequest attaches a resolved principal the way the authentication
// middleware does.
func authedRequest(method, target string, body io.Reader, user *models.User) *http.Request {
	r := httptest.NewRequest(method, target, body)
	principal := models.Principal{
		ID:            user.ID,
		FirebaseUID:   user.FirebaseUID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		EmailVerified: user.EmailVerified,
		User:          user,
	}
	return r.WithContext(context.WithValue(r.Context(), middleware.PrincipalKey, principal))
}

func TestGetCurrentUserService(t *testing.T) {
	user := testUser()
	svc := &UserService{DB: new(MockFitnessStore)}

	w := httptest.NewRecorder()
	svc.GetCurrentUserService(w, authedRequest(http.MethodGet, "/api/auth/me", nil, user))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Error bool               `json:"error"`
		User  models.CurrentUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Error)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, "runner@example.com", resp.User.Email)
	assert.Equal(t, 12, resp.User.TotalWorkouts)
}

func TestGetCurrentUserService_NoPrincipal(t *testing.T) {
	svc := &UserService{DB: new(MockFitnessStore)}

	w := httptest.NewRecorder()
	svc.GetCurrentUserService(w, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetStatsService_DerivesBMI(t *testing.T) {
	user := testUser()
	svc := &UserService{DB: new(MockFitnessStore)}

	w := httptest.NewRecorder()
	svc.GetStatsService(w, authedRequest(http.MethodGet, "/api/auth/stats", nil, user))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Stats models.Stats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Stats.BMI)
	assert.Equal(t, 24.7, *resp.Stats.BMI)
	require.NotNil(t, resp.Stats.WeightProgress)
	assert.Equal(t, 5.0, *resp.Stats.WeightProgress)
	assert.Equal(t, 10, resp.Stats.JoinedDaysAgo)
}

func TestUpdateProfileService_NoFields(t *testing.T) {
	mockDB := new(MockFitnessStore)
	svc := &UserService{DB: mockDB}

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodPut, "/api/auth/profile", bytes.NewReader([]byte(`{}`)), testUser())
	svc.UpdateProfileService(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockDB.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfileService_UpdatesOnlyProvidedFields(t *testing.T) {
	user := testUser()
	updated := *user
	updated.DisplayName = "Morning Runner"

	mockDB := new(MockFitnessStore)
	mockDB.On("UpdateProfile", mock.Anything, user.ID, mock.MatchedBy(func(u models.ProfileUpdate) bool {
		return u.DisplayName != nil && *u.DisplayName == "Morning Runner" && u.WeightKg == nil
	})).Return(&updated, nil)

	svc := &UserService{DB: mockDB}

	body := []byte(`{"displayName":"Morning Runner"}`)
	w := httptest.NewRecorder()
	svc.UpdateProfileService(w, authedRequest(http.MethodPut, "/api/auth/profile", bytes.NewReader(body), user))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Profile models.Profile `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Morning Runner", resp.Profile.DisplayName)

	mockDB.AssertExpectations(t)
}

func TestUpdateStreakService_Increment(t *testing.T) {
	user := testUser()
	mockDB := new(MockFitnessStore)
	mockDB.On("UpdateStreak", mock.Anything, user.ID, true).Return(4, nil)

	svc := &UserService{DB: mockDB}

	body := []byte(`{"increment":true}`)
	w := httptest.NewRecorder()
	svc.UpdateStreakService(w, authedRequest(http.MethodPut, "/api/auth/streak", bytes.NewReader(body), user))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		NewStreak int `json:"newStreak"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.NewStreak)

	mockDB.AssertExpectations(t)
}

func TestAddWorkoutService_MissingType(t *testing.T) {
	mockDB := new(MockFitnessStore)
	svc := &UserService{DB: mockDB}

	body := []byte(`{"duration":30}`)
	w := httptest.NewRecorder()
	svc.AddWorkoutService(w, authedRequest(http.MethodPost, "/api/auth/workout", bytes.NewReader(body), testUser()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockDB.AssertNotCalled(t, "AddWorkout", mock.Anything, mock.Anything)
}

func TestAddWorkoutService_EchoesWorkout(t *testing.T) {
	user := testUser()
	mockDB := new(MockFitnessStore)
	mockDB.On("AddWorkout", mock.Anything, user.ID).Return(13, nil)

	svc := &UserService{DB: mockDB}

	body := []byte(`{"type":"running","duration":45,"intensity":"high"}`)
	w := httptest.NewRecorder()
	svc.AddWorkoutService(w, authedRequest(http.MethodPost, "/api/auth/workout", bytes.NewReader(body), user))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Workout models.Workout `json:"workout"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "running", resp.Workout.Type)
	assert.Equal(t, 45, resp.Workout.Duration)
	assert.Equal(t, "high", resp.Workout.Intensity)

	mockDB.AssertExpectations(t)
}

func TestGetWorkoutsService(t *testing.T) {
	user := testUser()
	mockDB := new(MockFitnessStore)
	mockDB.On("GetWorkoutTotals", mock.Anything, user.ID).Return(12, 3, nil)

	svc := &UserService{DB: mockDB}

	w := httptest.NewRecorder()
	svc.GetWorkoutsService(w, authedRequest(http.MethodGet, "/api/auth/workouts", nil, user))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Workouts models.WorkoutTotals `json:"workouts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 12, resp.Workouts.Total)
	assert.Equal(t, 3, resp.Workouts.Streak)
	assert.NotNil(t, resp.Workouts.Recent)

	mockDB.AssertExpectations(t)
}
