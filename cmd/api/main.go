package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ideavalidator/sanity-api/internal/application"
	appideas "github.com/ideavalidator/sanity-api/internal/application/ideas"
	"github.com/ideavalidator/sanity-api/internal/config"
	"github.com/ideavalidator/sanity-api/internal/domain/analysis"
	aiclient "github.com/ideavalidator/sanity-api/internal/infra/ai/openai"
	mysqlp "github.com/ideavalidator/sanity-api/internal/infra/db/mysql"
	postgresp "github.com/ideavalidator/sanity-api/internal/infra/db/postgres"
	"github.com/ideavalidator/sanity-api/internal/infra/history"
	"github.com/ideavalidator/sanity-api/internal/infra/httpserver"
	minioStore "github.com/ideavalidator/sanity-api/internal/infra/storage"
	"github.com/ideavalidator/sanity-api/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()
	checkers := map[string]middleware.HealthChecker{
		"history": &middleware.HistoryHealthChecker{Path: cfg.History.Path},
	}

	// remote collection is optional: without it the service runs in demo
	// mode with local history only
	var repo analysis.Repository
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		defer db.Close()
		repo = mysqlp.NewAnalysisRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		defer db.Close()
		repo = postgresp.NewAnalysisRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "":
		log.Println("no database configured, running with local history only")
	default:
		log.Fatalf("unknown database driver: %q", cfg.Database.Driver)
	}

	svc := &appideas.Service{
		Repo:      repo,
		History:   history.New(cfg.History.Path, cfg.History.Limit),
		Clock:     application.SystemClock{},
		AITimeout: cfg.AITimeout(),
	}
	if cfg.AI.APIKey != "" {
		svc.AI = aiclient.NewClient(cfg.AI.APIKey, cfg.AI.Model)
	} else {
		log.Println("no AI credential configured, every analysis will use the sample fallback")
	}

	// export storage is optional
	var exporter httpserver.Exporter
	if cfg.Export.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Export.Endpoint,
			cfg.Export.Region,
			cfg.Export.BucketName,
			cfg.Export.AccessKey,
			cfg.Export.SecretKey,
			cfg.Export.UseSSL,
		)
		if err != nil {
			log.Fatalf("export storage init error: %v", err)
		}
		exporter = store
	}

	mux := chi.NewRouter()
	mux.Use(middleware.Logging)
	mux.Use(middleware.RateLimit(10, 1))
	mux.Mount("/", httpserver.NewRouter(svc, exporter, checkers))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // analyze waits on the AI call
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
