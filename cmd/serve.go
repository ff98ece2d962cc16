package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/reto140/reto140-api/api/handlers"
	"github.com/reto140/reto140-api/api/middleware"
	services "github.com/reto140/reto140-api/api/services"
	"github.com/reto140/reto140-api/internal/appconfig"
	"github.com/reto140/reto140-api/internal/idp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server for handling API requests",
	Run: func(cmd *cobra.Command, args []string) {

		// Load the config, initialize the database and set up logging
		commonSetUp()
		defer fitnessDB.Close()

		verifier := initializeVerifier(appCfg.Auth)

		userService := &services.UserService{Config: appCfg, DB: fitnessDB}
		groupService := &services.GroupService{Config: appCfg, DB: fitnessDB}

		// Create routes
		r := mux.NewRouter()

		r.HandleFunc("/health", handlers.Health(fitnessDB)).Methods(http.MethodGet)

		api := r.PathPrefix(appCfg.BasePath).Subrouter()

		// Apply the middleware to the API routes
		api.Use(middleware.WithLogger)
		api.Use(middleware.Authenticate(verifier, fitnessDB))

		// User routes
		api.HandleFunc("/me", handlers.GetMe(userService)).Methods(http.MethodGet)
		api.HandleFunc("/profile", handlers.GetProfile(userService)).Methods(http.MethodGet)
		api.HandleFunc("/profile", handlers.UpdateProfile(userService)).Methods(http.MethodPut)
		api.HandleFunc("/stats", handlers.GetStats(userService)).Methods(http.MethodGet)
		api.HandleFunc("/streak", handlers.UpdateStreak(userService)).Methods(http.MethodPut)
		api.HandleFunc("/workout", handlers.AddWorkout(userService)).Methods(http.MethodPost)
		api.HandleFunc("/workouts", handlers.GetWorkouts(userService)).Methods(http.MethodGet)

		// Group routes
		api.HandleFunc("/groups/create", handlers.CreateGroup(groupService)).Methods(http.MethodPost)
		api.HandleFunc("/groups/join", handlers.JoinGroup(groupService)).Methods(http.MethodPost)
		api.HandleFunc("/groups/my-groups", handlers.GetMyGroups(groupService)).Methods(http.MethodGet)
		api.HandleFunc("/groups/{group-id}", handlers.GetGroupDetails(groupService)).Methods(http.MethodGet)
		api.HandleFunc("/groups/{group-id}/leave", handlers.LeaveGroup(groupService)).Methods(http.MethodDelete)

		srv := &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		log.Info().Msg(fmt.Sprintf("Server started at %s:%d", host, port))

		if err := srv.ListenAndServe(); err != nil {
			log.Error().Err(err).Msg("could not start server")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&host, "host", "0.0.0.0", "host to run the server on")
	serveCmd.Flags().IntVar(&port, "port", 8080, "port to run the server on")
}

// initializeVerifier builds the identity verifier named by the config. An
// unreachable or missing provider degrades to the not-configured variant so
// the API still serves a well-defined authentication failure.
func initializeVerifier(cfg appconfig.AuthConfig) idp.Verifier {
	switch cfg.Provider {
	case "oidc":
		verifier, err := idp.NewOIDCVerifier(context.Background(), cfg.IssuerURL, cfg.Audience, cfg.VerifyTimeout())
		if err != nil {
			log.Error().Err(err).Msg("identity provider unreachable, authentication disabled")
			return idp.NotConfigured{}
		}
		return verifier
	case "insecure":
		log.Warn().Msg("token signatures are NOT verified, development use only")
		return idp.Insecure{}
	default:
		log.Warn().Msg("no identity provider configured, all requests will be rejected")
		return idp.NotConfigured{}
	}
}
