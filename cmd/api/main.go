package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"alumni/internal/alumni"
	"alumni/internal/archive"
	"alumni/internal/auth"
	"alumni/internal/config"
	"alumni/internal/handler"
	"alumni/internal/httpmiddleware"
	"alumni/internal/importjob"
	"alumni/internal/jobboard"
	"alumni/internal/queue"
	"alumni/internal/store"
)

func main() {
	cfg, err := config.Load()
	log := cfg.Logger()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, log); err != nil {
		log.WithError(err).Fatal("http server failed")
	}
}

func runHTTP(cfg config.App, log *logrus.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		db          *store.DB
		alumniStore alumni.Store
		jobStore    jobboard.Store
	)
	if cfg.StoreBackend == "memory" {
		log.Warn("using in-memory store; data is lost on restart")
		alumniStore = alumni.NewMemoryStore()
		jobStore = jobboard.NewMemoryStore()
	} else {
		var err error
		db, err = store.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		alumniStore = alumni.NewRepository(db.Client)
		jobStore = jobboard.NewRepository(db.Client)
	}
	alumniSvc := alumni.NewService(alumniStore)
	jobSvc := jobboard.NewService(jobStore)

	var (
		redisClient *store.Redis
		q           queue.Queue
		imports     importjob.Store
		prefs       jobboard.PreferenceStore
	)
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
		imports = importjob.NewMemoryStore(cfg.ImportStatusTTL)
		prefs = jobboard.NewMemoryPreferences()

		// Without a shared queue the import worker has to run in this process.
		worker := importjob.NewWorker(imports, importjob.ServiceCreator{Service: alumniSvc}, cfg.ImportDelay, log)
		go func() {
			if err := worker.Run(ctx, q); err != nil {
				log.WithError(err).Error("in-process import worker stopped")
			}
		}()
	} else {
		redisClient = store.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer redisClient.Close()
		q = queue.NewRedisQueue(redisClient.Client, queue.DefaultKey)
		imports = importjob.NewRedisStore(redisClient.Client, cfg.ImportStatusTTL)
		prefs = jobboard.NewRedisPreferences(redisClient.Client)
	}

	arch, err := archive.New(ctx, cfg.Archive)
	if err != nil {
		log.WithError(err).Warn("import archive unavailable, uploads will not be kept")
		arch = archive.Nop{}
	} else if cfg.Archive.Enabled() {
		log.WithField("bucket", cfg.Archive.Bucket).Info("archiving import uploads")
	}

	h := handler.New(handler.Deps{
		Alumni:      alumniSvc,
		Jobs:        jobSvc,
		Preferences: prefs,
		Imports:     imports,
		Queue:       q,
		Archive:     arch,
		Log:         log,

		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	r := gin.New()
	r.MaxMultipartMemory = cfg.MaxUploadBytes
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(log, "/healthz", "/metrics"))
	r.Use(httpmiddleware.CORS())
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		dbHealthy := db == nil || db.Healthy(c.Request.Context())
		redisHealthy := redisClient == nil || redisClient.Healthy(c.Request.Context())
		status := http.StatusOK
		if !dbHealthy || !redisHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "db": dbHealthy, "redis": redisHealthy})
	})

	h.Register(r, auth.Bearer(cfg.JWTSigningKey, cfg.JWTIssuer, auth.RoleAdmin))

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("server forced shutdown")
	}

	log.Info("server exited")
	return nil
}
