package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/patientdx/patientdx/internal/config"
	"github.com/patientdx/patientdx/internal/datagen"
	"github.com/patientdx/patientdx/internal/domain/diagnosis"
	"github.com/patientdx/patientdx/internal/domain/patient"
	"github.com/patientdx/patientdx/internal/platform/llm"
	"github.com/patientdx/patientdx/internal/platform/middleware"
	"github.com/patientdx/patientdx/internal/platform/session"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "patientdx-server",
		Short: "Patient records API with AI diagnosis suggestions",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(generateDataCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func generateDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-data",
		Short: "Write a synthetic patient CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			count, _ := cmd.Flags().GetInt("count")
			out, _ := cmd.Flags().GetString("out")
			seed, _ := cmd.Flags().GetInt64("seed")

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			records := datagen.New(seed).Generate(count)
			if err := patient.WriteCSV(out, records); err != nil {
				return err
			}
			cmd.Printf("Wrote %d patient record(s) to %s\n", len(records), out)
			return nil
		},
	}
	cmd.Flags().Int("count", 20, "Number of records to generate")
	cmd.Flags().String("out", "hypothetical_patient_data.csv", "Output CSV path")
	cmd.Flags().Int64("seed", 0, "Random seed (0 means time-based)")
	return cmd
}

func runServer() error {
	// Logger; switched to the console writer once config says development.
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Initial patient snapshot. A missing file starts every session with an
	// empty table.
	snapshot, err := patient.LoadCSV(cfg.DataFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Str("file", cfg.DataFile).Msg("data file not found; starting with an empty table")
		} else {
			logger.Fatal().Err(err).Str("file", cfg.DataFile).Msg("failed to load data file")
		}
	} else {
		logger.Info().Int("records", len(snapshot)).Str("file", cfg.DataFile).Msg("loaded patient snapshot")
	}

	// Session manager and janitor
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessions := session.NewManager(snapshot, time.Duration(cfg.SessionTTLMinutes)*time.Minute, logger)
	go sessions.StartJanitor(ctx)

	// Model collaborator
	if !cfg.DiagnosisEnabled() {
		logger.Warn().Msg("GOOGLE_API_KEY not set; diagnosis feature is disabled, CRUD stays available")
	}
	generator := llm.NewGemini(cfg.GoogleAPIKey, cfg.GeminiModel)

	e := newRouter(cfg, logger, sessions, generator)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newRouter wires middleware and domain handlers onto a fresh echo instance.
func newRouter(cfg *config.Config, logger zerolog.Logger, sessions *session.Manager, generator llm.Generator) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID", session.Header},
		// Browser clients must be able to read the assigned session id back.
		ExposeHeaders: []string{session.Header},
	}))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":            "ok",
			"version":           "0.1.0",
			"diagnosis_enabled": cfg.DiagnosisEnabled(),
		})
	})

	// API group: rate limited, session scoped
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))
	apiV1.Use(session.Middleware(sessions))

	// -- Register Domain Handlers --

	// Patient domain
	patientHandler := patient.NewHandler(func(c echo.Context) *patient.Store {
		return session.FromContext(c).Patients
	})
	patientHandler.RegisterRoutes(apiV1)

	// Diagnosis domain
	diagSvc := diagnosis.NewService(generator, time.Duration(cfg.LLMTimeoutSeconds)*time.Second)
	diagHandler := diagnosis.NewHandler(diagSvc)
	diagHandler.RegisterRoutes(apiV1)

	return e
}
