package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"alumni/internal/alumni"
	"alumni/internal/config"
	"alumni/internal/importjob"
	"alumni/internal/jobboard"
	"alumni/internal/metrics"
	"alumni/internal/queue"
	"alumni/internal/store"
)

// Worker runs queued imports against the alumni store and prunes expired postings.
func main() {
	cfg, err := config.Load()
	log := cfg.Logger()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if cfg.QueueBackend == "memory" {
		log.Fatal("QUEUE_BACKEND=memory runs imports inside the api process; the worker needs redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(ctx, cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("db connect failed")
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()
	if !redisClient.Healthy(ctx) {
		log.WithField("addr", cfg.RedisAddr).Warn("redis not reachable yet, consumer will keep retrying")
	}

	q := queue.NewRedisQueue(redisClient.Client, queue.DefaultKey)
	imports := importjob.NewRedisStore(redisClient.Client, cfg.ImportStatusTTL)
	alumniSvc := alumni.NewService(alumni.NewRepository(db.Client))
	jobs := jobboard.NewService(jobboard.NewRepository(db.Client))

	go cleanupLoop(ctx, jobs, cfg.CleanupInterval, log)

	worker := importjob.NewWorker(imports, importjob.ServiceCreator{Service: alumniSvc}, cfg.ImportDelay, log)
	if err := worker.Run(ctx, q); err != nil {
		log.WithError(err).Fatal("worker failed")
	}
	log.Info("worker stopped")
}

func cleanupLoop(ctx context.Context, jobs *jobboard.Service, every time.Duration, log *logrus.Logger) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		n, err := jobs.CleanupExpired(ctx)
		switch {
		case err != nil:
			log.WithError(err).Warn("expired posting cleanup failed")
		case n > 0:
			metrics.PostingsExpired.Add(float64(n))
			log.WithField("deleted", n).Info("removed expired postings")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
