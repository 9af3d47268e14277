package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"filesmanager/internal/config"
	"filesmanager/internal/database"
	"filesmanager/internal/middleware"
	"filesmanager/internal/modules/auth"
	"filesmanager/internal/modules/files"
	"filesmanager/internal/modules/system"
	"filesmanager/internal/queue"
	"filesmanager/internal/repository"
	"filesmanager/internal/session"
	"filesmanager/internal/storage"
	"filesmanager/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}

	sessions, err := session.Open(cfg.SessionDBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer sessions.Close()

	content := storage.NewDisk(cfg.StorageRoot)
	jobs := queue.NewMemory(cfg.QueueSize)

	userRepo := repository.NewUserRepository(db)
	fileRepo := repository.NewFileRepository(db)

	authService := auth.NewService(userRepo, sessions, cfg.SessionTTL)
	authHandler := auth.NewHandler(authService)

	fileService := files.NewService(fileRepo, content, jobs)
	fileHandler := files.NewHandler(fileService)

	systemHandler := system.NewHandler(userRepo, fileRepo, sessions)

	// Workers run on a background context and stop by channel close, so
	// buffered jobs still drain during shutdown.
	var wg sync.WaitGroup
	thumbnailer := worker.New(fileRepo, content)
	for i := 0; i < cfg.WorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			thumbnailer.Run(context.Background(), jobs.Jobs())
		}()
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterPublicRoutes(v1)
		systemHandler.RegisterRoutes(v1)

		download := v1.Group("/")
		download.Use(middleware.OptionalTokenAuth(authService))
		fileHandler.RegisterPublicRoutes(download)

		protected := v1.Group("/")
		protected.Use(middleware.TokenAuth(authService))
		{
			authHandler.RegisterProtectedRoutes(protected)
			fileHandler.RegisterProtectedRoutes(protected)
		}
	}

	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	jobs.Close()
	wg.Wait()
}
