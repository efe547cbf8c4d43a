package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/deal-analyzer/internal/cache"
	"github.com/evcraddock/deal-analyzer/internal/logging"
	"github.com/evcraddock/deal-analyzer/internal/web"
)

type serveOptions struct {
	port          int
	apiKey        string
	redisAddr     string
	redisPassword string
	redisDB       int
	cacheTTL      time.Duration
	cacheSize     int
	rateLimit     int
	workers       int
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON API server",
		Long: "Serves /api/evaluate, /api/analyze, /api/max-price and /api/sweep.\n" +
			"Max-price results are cached in Redis when --redis-addr is set, in memory otherwise.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.apiKey == "" {
				opts.apiKey = os.Getenv("DA_SERVE_API_KEY")
			}
			// Request logs are the server's output.
			logging.Setup(cmd.ErrOrStderr(), flagVerbose)
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVar(&opts.port, "port", 8080, "port to listen on")
	cmd.Flags().StringVar(&opts.apiKey, "api-key", "", "require this Bearer token on /api/ routes (env DA_SERVE_API_KEY)")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address for the result cache, host:port")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().DurationVar(&opts.cacheTTL, "cache-ttl", 24*time.Hour, "Redis cache entry lifetime")
	cmd.Flags().IntVar(&opts.cacheSize, "cache-size", 1024, "in-memory cache entries when Redis is not used")
	cmd.Flags().IntVar(&opts.rateLimit, "rate-limit", 0, "requests per minute per client IP (0 disables)")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "concurrent searches per sweep request (default GOMAXPROCS)")

	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var c cache.Cache
	if opts.redisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		r, err := cache.NewRedis(pingCtx, cache.RedisConfig{
			Addr:     opts.redisAddr,
			Password: opts.redisPassword,
			DB:       opts.redisDB,
			TTL:      opts.cacheTTL,
		})
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() {
			if cerr := r.Close(); cerr != nil {
				slog.Warn("closing redis", "error", cerr)
			}
		}()
		c = r
		slog.Info("using redis cache", "addr", opts.redisAddr)
	} else {
		c = cache.NewMemory(opts.cacheSize)
	}

	srv := web.NewServer(web.Config{
		APIKey:       opts.apiKey,
		Cache:        c,
		RateLimit:    opts.rateLimit,
		SweepWorkers: opts.workers,
	})
	defer srv.Close()

	return srv.ListenAndServe(ctx, opts.port)
}
