package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "mini_blog/docs"
	"mini_blog/internal/config"
	"mini_blog/internal/handlers"
	"mini_blog/internal/logger"
	"mini_blog/internal/notify"
	"mini_blog/internal/repository"
	"mini_blog/internal/repository/db"
	"mini_blog/internal/server"
	"mini_blog/internal/service"
	"mini_blog/internal/storage"
)

const (
	startupTimeout  = 15 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	resetDB := flag.Bool("reset-db", false, "drop and recreate the users and posts tables, then exit")
	flag.Parse()

	// load configs/config.yml, .env and the environment
	cfg, err := config.Load(config.DefaultOptions())
	if err != nil {
		logger.Get(logger.InfoLevel, logger.ConsoleFormat).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.Get(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = log.Sync() }()
	if cfg.GeneratedSecret {
		log.Warnw("secret_key not set; sessions will not survive a restart")
	}

	// open DB
	store, err := openStore(cfg, log)
	if err != nil {
		log.Fatalw("failed to init database", "err", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()

	if *resetDB {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		if err := db.ResetSchema(ctx, store); err != nil {
			log.Fatalw("failed to reset schema", "err", err)
		}
		log.Infow("schema reset", "backend", store.Dialect().String())
		return
	}

	files, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		log.Fatalw("failed to init upload dir", "dir", cfg.UploadDir, "err", err)
	}

	notifier := notify.Async(newNotifier(cfg, log), log)

	// wire dependencies
	repos := repository.NewRepository(store)
	services := service.NewService(repos, service.Deps{
		DB:            store,
		Files:         files,
		Notifier:      notifier,
		SessionSecret: cfg.SecretKey,
		SessionTTL:    cfg.Session.TTL,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.SessionCookie{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.TTL,
		Secure: cfg.Session.Secure,
	})

	// start HTTP server
	srv := server.New(server.Timeouts{
		ReadHeader: cfg.HTTP.ReadHeaderTimeout,
		Write:      cfg.HTTP.WriteTimeout,
		Idle:       cfg.HTTP.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Port, apiHandler, log)
	log.Infow("server started", "port", cfg.Port, "backend", store.Dialect().String(), "upload_dir", cfg.UploadDir)

	// graceful shutdown
	waitForShutdown(srv, notifier, log)
}

// openStore connects to PostgreSQL when DATABASE_URL is set, SQLite otherwise,
// and makes sure both tables exist.
func openStore(cfg *config.Config, log *logger.Logger) (*db.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	opts := db.Options{DatabaseURL: cfg.DatabaseURL, SQLitePath: cfg.SQLitePath}
	store, err := db.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx, store); err != nil {
		_ = store.Close()
		return nil, err
	}
	log.Infow("database ready", "backend", db.DialectFor(opts).String())
	return store, nil
}

func newNotifier(cfg *config.Config, log *logger.Logger) notify.Notifier {
	if !cfg.Mail.Enabled {
		log.Infow("registration e-mails disabled")
		return notify.Nop{}
	}
	return &notify.SMTP{
		Host:     cfg.Mail.Host,
		Port:     cfg.Mail.Port,
		Username: cfg.Mail.Username,
		Password: cfg.Mail.Password,
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, notifier *notify.AsyncNotifier, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}

	// let pending registration e-mails finish
	notifier.Wait()
}
