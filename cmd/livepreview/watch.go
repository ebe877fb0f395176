package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/livepreview/internal/history"
	"github.com/alexisbeaulieu97/livepreview/internal/logger"
	"github.com/alexisbeaulieu97/livepreview/internal/telemetry"
	"github.com/alexisbeaulieu97/livepreview/internal/watch"
)

type watchOptions struct {
	configPath  string
	output      string
	metricsAddr string
	historyPath string
	delay       time.Duration
}

func newWatchCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild the preview script whenever the descriptor or its filters change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(cmd, rootFlags)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, log, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to descriptor document")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output path; defaults to build.output")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9464)")
	cmd.Flags().StringVar(&opts.historyPath, "history", "", "Record changed builds in this SQLite history database")
	cmd.Flags().DurationVar(&opts.delay, "debounce", watch.DefaultDelay, "Quiet period before rebuilding")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// watchSession holds what survives across rebuilds.
type watchSession struct {
	cmd     *cobra.Command
	opts    *watchOptions
	log     *logger.Logger
	metrics *telemetry.Metrics
	store   *history.Store
}

func runWatch(ctx context.Context, cmd *cobra.Command, log *logger.Logger, opts *watchOptions) error {
	p, err := loadProject("watch", opts.configPath)
	if err != nil {
		return err
	}
	if p.outputPath(opts.output) == "" {
		return newCommandError("watch", "choosing the output file", errors.New("no output path"), "Pass -o <file> or set build.output.")
	}

	s := &watchSession{cmd: cmd, opts: opts, log: log.Component("watch"), metrics: telemetry.NewMetrics()}

	if opts.historyPath != "" {
		s.store, err = openHistory(ctx, opts.historyPath)
		if err != nil {
			return newCommandError("watch", fmt.Sprintf("opening history %s", opts.historyPath), err, "")
		}
		defer s.store.Close()
	}

	if opts.metricsAddr != "" {
		srv := &http.Server{Addr: opts.metricsAddr, Handler: metricsMux(s.metrics), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error(err, "metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		s.log.WithField("addr", opts.metricsAddr).Info("serving metrics")
	}

	if err := s.rebuild(ctx, p); err != nil {
		s.log.Error(err, "initial build failed")
	}

	return s.watch(ctx, p)
}

// watch runs the file watcher for p. A reload that changes the watched file set, such as a
// new build.filters entry, restarts the watcher on the reloaded project.
func (s *watchSession) watch(ctx context.Context, p *project) error {
	for {
		files := p.watchedFiles()
		w, err := watch.New(files, watch.WithDelay(s.opts.delay), watch.WithLogger(s.log))
		if err != nil {
			return newCommandError("watch", "preparing file watcher", err, "")
		}

		runCtx, restart := context.WithCancel(ctx)
		var next *project
		err = w.Run(runCtx, func(ctx context.Context, changed []string) {
			s.log.WithField("changed", changed).Debug("rebuilding")
			reloaded, err := loadProject("watch", s.opts.configPath)
			if err != nil {
				s.log.Error(err, "reload failed")
				return
			}
			if err := s.rebuild(ctx, reloaded); err != nil {
				s.log.Error(err, "rebuild failed")
			}
			if !slices.Equal(reloaded.watchedFiles(), files) {
				next = reloaded
				restart()
			}
		})
		restart()
		if err != nil {
			return err
		}
		if next == nil || ctx.Err() != nil {
			return nil
		}

		s.log.WithField("files", len(next.watchedFiles())).Info("watch list changed")
		p = next
	}
}

func (s *watchSession) rebuild(ctx context.Context, p *project) error {
	res, err := p.build(ctx, buildEnv{log: s.log, metrics: s.metrics})
	if err != nil {
		return err
	}

	out := p.outputPath(s.opts.output)
	if err := emitScript(s.cmd, out, res); err != nil {
		return err
	}
	s.log.WithFields(map[string]any{"output": out, "digest": res.Digest}).Info("script rebuilt")

	if s.store == nil {
		return nil
	}
	latest, err := s.store.Latest(ctx, p.path)
	switch {
	case err == nil && latest.Digest == res.Digest:
		return nil
	case err != nil && !errors.Is(err, history.ErrNotFound):
		return err
	}
	return s.store.Record(ctx, history.FromResult(p.path, res))
}

func metricsMux(m *telemetry.Metrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}
