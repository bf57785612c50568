package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/api"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/barb"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/config"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/pkg/distlock"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/repository/postgres"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/repository/redisstore"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/service/reconcile"
	"github.com/MGLB2333/LightBoxTVLabs-sub002/internal/service/tvr"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}

	// Panel client
	panel := barb.NewClient(barb.Config{
		BaseURL:             cfg.BARB.BaseURL,
		Email:               cfg.BARB.Email,
		Password:            cfg.BARB.Password,
		PageSize:            cfg.BARB.PageSize,
		PageDelayMS:         cfg.BARB.PageDelayMS,
		FallbackWindowStart: cfg.BARB.FallbackWindowStart,
		FallbackWindowEnd:   cfg.BARB.FallbackWindowEnd,
	})
	if cfg.BARB.TimeoutSeconds > 0 {
		panel.SetHTTPClient(&http.Client{Timeout: time.Duration(cfg.BARB.TimeoutSeconds) * time.Second})
	}

	// Database is required for campaign plans; the cache store tier depends
	// on cache.backend and degrades to memory-only when unavailable.
	var db *sql.DB
	if cfg.Database.URL != "" {
		db, err = sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			log.Fatalf("Database unreachable: %v", err)
		}
		pingCancel()
	} else {
		log.Fatal("database.url is required (set DATABASE_URL)")
	}
	defer db.Close()

	var store tvr.Store
	var pgCache *postgres.TVRCacheRepo
	var rdb *redis.Client
	switch cfg.Cache.Backend {
	case "postgres":
		pgCache = postgres.NewTVRCacheRepo(db)
		store = pgCache
	case "redis":
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Printf("Warning: Redis connection failed (%s): %v, running memory-only cache", cfg.Redis.Addr, err)
			rdb.Close()
			rdb = nil
		} else {
			store = redisstore.New(rdb, cfg.Cache.StoreTTL())
		}
		pingCancel()
	case "none":
		log.Println("[cache] persistent tier disabled; memory tier only")
	default:
		log.Fatalf("Unknown cache.backend %q (want postgres, redis or none)", cfg.Cache.Backend)
	}

	cache := tvr.NewCache(store, cfg.Cache.MemoryTTL(), cfg.Cache.StoreTTL())
	tvrService := tvr.NewService(panel, cache)

	campaignRepo := postgres.NewCampaignRepo(db)
	reconcileService := reconcile.NewService(campaignRepo, panel, cfg.Reconciliation.MaxConcurrentStations)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres cache rows outlive their freshness window; sweep them so the
	// table does not grow unbounded. The lock keeps one replica sweeping.
	if pgCache != nil && cfg.Cache.CleanupEveryMin > 0 {
		interval := time.Duration(cfg.Cache.CleanupEveryMin) * time.Minute
		sweepLock := distlock.New(rdb, db, "tvr-cache-sweep", interval)
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					ok, err := sweepLock.TryAcquire(ctx)
					if err != nil {
						log.Printf("Warning: cache sweep lock: %v", err)
						continue
					}
					if !ok {
						continue
					}
					n, err := pgCache.CleanExpired(ctx, cfg.Cache.StoreTTL())
					if err != nil {
						log.Printf("Warning: cache cleanup failed: %v", err)
					} else if n > 0 {
						log.Printf("[cache] removed %d expired entries", n)
					}
					if err := sweepLock.Release(ctx); err != nil {
						log.Printf("Warning: cache sweep unlock: %v", err)
					}
				}
			}
		}()
	}

	server := api.NewServer(api.NewHandlers(tvrService, reconcileService))
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", addr)
		errCh <- server.ListenAndServe(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: shutdown did not complete cleanly: %v", err)
	}
}
