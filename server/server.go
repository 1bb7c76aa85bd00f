package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/credenzahq/credenza/config"
	"github.com/credenzahq/credenza/queue/scheduler"
	"golang.org/x/sync/errgroup"
)

// Server owns the HTTP listener and the background scheduler for the life of
// the process. Run blocks until a shutdown signal or a listener failure, then
// stops both within the configured graceful window.
type Server struct {
	cfg       config.Server
	handler   http.Handler
	scheduler *scheduler.Scheduler
	logger    *slog.Logger
}

func NewServer(cfg config.Server, handler http.Handler, sched *scheduler.Scheduler, logger *slog.Logger) *Server {
	return &Server{
		cfg:       cfg,
		handler:   handler,
		scheduler: sched,
		logger:    logger,
	}
}

func (s *Server) Run() error {
	s.logger.Info("server configuration",
		"addr", s.cfg.Addr,
		"read_timeout", s.cfg.ReadTimeout.Duration,
		"read_header_timeout", s.cfg.ReadHeaderTimeout.Duration,
		"write_timeout", s.cfg.WriteTimeout.Duration,
		"idle_timeout", s.cfg.IdleTimeout.Duration,
		"shutdown_timeout", s.cfg.ShutdownGracefulTimeout.Duration,
	)

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout.Duration,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout.Duration,
		WriteTimeout:      s.cfg.WriteTimeout.Duration,
		IdleTimeout:       s.cfg.IdleTimeout.Duration,
	}

	serverError := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", s.cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	if s.scheduler != nil {
		s.scheduler.Start()
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer stop()

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info("received shutdown signal")
	case err := <-serverError:
		s.logger.Error("http server failed, shutting down", "err", err)
		runErr = err
	}

	// Stop listening for signals so a second interrupt kills the process.
	stop()

	gracefulCtx, cancelShutdown := context.WithTimeout(context.Background(), s.cfg.ShutdownGracefulTimeout.Duration)
	defer cancelShutdown()

	shutdownGroup, _ := errgroup.WithContext(gracefulCtx)

	shutdownGroup.Go(func() error {
		if err := srv.Shutdown(gracefulCtx); err != nil {
			s.logger.Error("http server shutdown error", "err", err)
			return err
		}
		s.logger.Info("http server stopped")
		return nil
	})

	if s.scheduler != nil {
		shutdownGroup.Go(func() error {
			if err := s.scheduler.Stop(gracefulCtx); err != nil {
				s.logger.Error("scheduler shutdown error", "err", err)
				return err
			}
			s.logger.Info("scheduler stopped")
			return nil
		})
	}

	if err := shutdownGroup.Wait(); err != nil {
		return err
	}
	s.logger.Info("all systems stopped")
	return runErr
}
