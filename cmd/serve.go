package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

type jobFunc func(context.Context) (int, error)

// jobRunner serializes pipeline jobs: one browser session means one job at a
// time, whether triggered over HTTP or by the schedule loop.
type jobRunner struct {
	mu  sync.Mutex
	ctx context.Context
	wg  sync.WaitGroup
}

func (j *jobRunner) tryStart(name string, fn jobFunc) bool {
	if !j.mu.TryLock() {
		return false
	}
	j.wg.Add(1)
	go func() {
		defer j.mu.Unlock()
		defer j.wg.Done()

		start := time.Now()
		count, err := fn(j.ctx)
		if err != nil {
			zap.L().Error("job failed", zap.String("job", name), zap.Error(err))
			return
		}
		zap.L().Info("job complete",
			zap.String("job", name),
			zap.Int("count", count),
			zap.Duration("elapsed", time.Since(start)),
		)
	}()
	return true
}

func newAdminRouter(runner *jobRunner, jobs map[string]jobFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	for name, fn := range jobs {
		r.Post("/admin/"+name, func(w http.ResponseWriter, _ *http.Request) {
			if !runner.tryStart(name, fn) {
				writeJSON(w, http.StatusConflict, map[string]string{"error": "another job is running"})
				return
			}
			writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "job": name})
		})
	}

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin trigger server with optional daily schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		runner := &jobRunner{ctx: ctx}

		crawlJob := func(ctx context.Context) (int, error) {
			return runCrawl(ctx, st, cfg.Crawl.PerBrandLimit)
		}
		purgeJob := func(ctx context.Context) (int, error) {
			return runPurge(ctx, st, cfg.Retention.Days)
		}
		jobs := map[string]jobFunc{
			"discover": func(ctx context.Context) (int, error) { return runDiscover(ctx, st) },
			"crawl":    crawlJob,
			"purge":    purgeJob,
		}

		if cfg.Schedule.Enabled {
			// The scheduled crawl refreshes the brand list first so new
			// brands surface without a manual discover trigger.
			refresh := func(ctx context.Context) (int, error) {
				if _, err := runDiscover(ctx, st); err != nil {
					zap.L().Warn("scheduled discovery failed", zap.Error(err))
				}
				return crawlJob(ctx)
			}
			go scheduleLoop(ctx, cfg.Schedule, runner, refresh, purgeJob)
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newAdminRouter(runner, jobs),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port), zap.Bool("schedule", cfg.Schedule.Enabled))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		runner.wg.Wait()
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
