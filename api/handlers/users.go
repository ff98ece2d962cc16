package handlers

import (
	"net/http"

	services "github.com/reto140/reto140-api/api/services"
)

func GetMe(svc *services.UserService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetCurrentUserService(w, r)
	}
}

func GetProfile(svc *services.UserService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetProfileService(w, r)
	}
}

func GetStats(svc *services.UserService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetStatsService(w, r)
	}
}

func UpdateProfile(svc *services.UserService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateProfileService(w, r)
	}
}

func UpdateStreak(svc *services.UserService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.UpdateStreakService(w, r)
	}
}

func AddWorkout(svc *services.UserService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.AddWorkoutService(w, r)
	}
}

func GetWorkouts(svc *services.UserService) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		svc.GetWorkoutsService(w, r)
	}
}
