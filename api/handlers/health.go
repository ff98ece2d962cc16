package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/reto140/reto140-api/db"
)

// Health reports service liveness and store reachability. Unauthenticated.
func Health(fitnessDB *db.FitnessDB) http.HandlerFunc {

	return func(w http.ResponseWriter, r *http.Request) {

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		overall := "OK"
		database := "connected"
		status := http.StatusOK
		if err := fitnessDB.Ping(ctx); err != nil {
			overall = "DEGRADED"
			database = "unreachable"
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(struct {
			Status    string    `json:"status"`
			Service   string    `json:"service"`
			Timestamp time.Time `json:"timestamp"`
			Database  string    `json:"database"`
		}{
			Status:    overall,
			Service:   "reto140-api",
			Timestamp: time.Now().UTC(),
			Database:  database,
		})
	}
}
