package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/reto140/reto140-api/db"
	"github.com/reto140/reto140-api/internal/appconfig"
	"github.com/reto140/reto140-api/internal/joincode"
)

var (
	logLevel   string
	configPath string
	host       string
	port       int

	appCfg    *appconfig.Config
	fitnessDB *db.FitnessDB
)

var rootCmd = &cobra.Command{
	Use:   "reto140-api",
	Short: "RETO140 API",
	Long:  `RETO140 API is the fitness tracking backend serving profiles, workouts and groups.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn",
		"sets the log level")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml",
		"path to the config file")
}

// commonSetUp initializes logging, loads the config and opens the database.
func commonSetUp() {
	setLogging(logLevel)

	var err error
	appCfg, err = appconfig.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := log.With().Str("component", "db").Logger()
	fitnessDB, err = db.NewFitnessDB(appCfg.Database.Source, joincode.Random{}, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
}

func setLogging(level string) {
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}
