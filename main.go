package main

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Lakshita2255/Voter-auth-project/auth"
	"github.com/Lakshita2255/Voter-auth-project/cliparse"
	"github.com/Lakshita2255/Voter-auth-project/db"
	"github.com/Lakshita2255/Voter-auth-project/directory"
	"github.com/Lakshita2255/Voter-auth-project/middleware"
	"github.com/Lakshita2255/Voter-auth-project/models"
	"github.com/Lakshita2255/Voter-auth-project/router"
	"github.com/Lakshita2255/Voter-auth-project/session"
)

// demoListed is how many generated credentials are printed in demo mode.
const demoListed = 5

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	if cfg.IPHashSalt == "" {
		if cfg.IPHashSalt, err = auth.GenerateID(16); err != nil {
			slog.Error("failed to generate ip salt", "error", err)
			os.Exit(1)
		}
		slog.Info("IP_HASH_SALT not set, using a per-process salt")
	}

	dir, closeDir, err := openDirectory(cfg)
	if err != nil {
		slog.Error("directory setup failed", "mode", cfg.DirectoryMode, "error", err)
		os.Exit(1)
	}
	defer closeDir()

	registry := session.NewRegistry(dir, session.Options{Timeout: cfg.DirectoryTimeout}, cfg.MaxSessions, cfg.SessionTTL)

	// Create router
	mux := router.NewRouter(registry, dir, cfg)

	// Create server
	server := http.Server{
		Handler:           middleware.Recover(middleware.CORS(mux)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DirectoryTimeout+5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "mode", cfg.DirectoryMode, "demo", cfg.DemoMode)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}

// openDirectory builds the configured voter directory. The returned func
// releases its resources.
func openDirectory(cfg cliparse.Config) (directory.IdentityDirectory, func(), error) {
	now := time.Now()
	rng := rand.New(rand.NewPCG(uint64(now.UnixNano()), rand.Uint64()))

	if cfg.DirectoryMode == cliparse.ModeMemory {
		voters := directory.GenerateVoters(rng, cfg.MockVoters, now)
		slog.Info("Generated mock voters", "count", len(voters))
		logDemoCredentials(cfg, voters)
		return directory.NewMemoryDirectory(voters...), func() {}, nil
	}

	driver := cfg.DatabaseType
	if driver == "postgres" {
		slog.Info("Connecting to PostgreSQL")
	} else {
		slog.Info("Opening SQLite database", "path", cfg.DatabaseURL)
	}
	dbConn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if driver == "sqlite" {
		// SQLite allows a single writer
		dbConn.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DirectoryTimeout)
	defer cancel()

	// Verify connection
	if err := dbConn.PingContext(ctx); err != nil {
		dbConn.Close()
		return nil, nil, err
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		dbConn.Close()
		return nil, nil, err
	}
	slog.Info("Database schema ready")

	dir := directory.NewSQLDirectory(dbConn)
	count, err := dir.Count(ctx)
	if err != nil {
		dbConn.Close()
		return nil, nil, err
	}
	if count == 0 && cfg.MockVoters > 0 {
		voters := directory.GenerateVoters(rng, cfg.MockVoters, now)
		for _, v := range voters {
			if err := dir.Insert(context.Background(), v); err != nil {
				dbConn.Close()
				return nil, nil, err
			}
		}
		slog.Info("Seeded empty voter table", "count", len(voters))
		logDemoCredentials(cfg, voters)
	}

	return dir, func() { dbConn.Close() }, nil
}

// logDemoCredentials prints sign-in credentials so a demo can be driven by hand.
func logDemoCredentials(cfg cliparse.Config, voters []models.VoterRecord) {
	if !cfg.DemoMode {
		return
	}
	for i, v := range voters {
		if i == demoListed {
			break
		}
		slog.Info("demo voter",
			"name", v.FullName,
			"voter_id", v.VoterID,
			"national_id", v.NationalID,
			"phone", v.Phone,
			"date_of_birth", v.DateOfBirth,
		)
	}
}
