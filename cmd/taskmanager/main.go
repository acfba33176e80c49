package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"task-manager/internal/config"
	"task-manager/internal/httpapi"
	"task-manager/internal/repository"
	"task-manager/internal/service"
	"task-manager/internal/token"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := flag.Bool("seed", false, "insert demo users and tasks, then exit")
	flag.Parse()

	// A missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	if *seed {
		if err := repository.Seed(ctx, db); err != nil {
			log.Fatalf("seed: %v", err)
		}
		log.Println("Seed data inserted.")
		return
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokenSvc := token.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL, cfg.RefreshGrace)
	authSvc := service.NewAuthService(userRepo, tokenSvc)
	taskSvc := service.NewTaskService(taskRepo)

	api := httpapi.NewServer(authSvc, taskSvc, tokenSvc, userRepo, cfg.WebDir)

	scheduler := service.NewSchedulerService(time.Local)
	if cfg.PurgeRetention > 0 {
		if _, err := scheduler.ScheduleDaily(cfg.PurgeTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			cutoff := time.Now().Add(-cfg.PurgeRetention)
			purged, err := taskRepo.PurgeDeleted(jobCtx, cutoff)
			if err != nil {
				log.Printf("purge: %v", err)
				return
			}
			if purged > 0 {
				log.Printf("purge: removed %d tasks deleted before %s", purged, cutoff.Format(time.RFC3339))
			}
		}); err != nil {
			log.Fatalf("schedule purge: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("Task manager API listening on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
