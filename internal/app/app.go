package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"supermarket/internal/config"
	httpapi "supermarket/internal/http"
	"supermarket/internal/journal"
	"supermarket/internal/logger"
	"supermarket/internal/menu"
	"supermarket/internal/session"
)

const shutdownTimeout = 5 * time.Second

// App собирает логгер, журнал и сессию; консоль и HTTP работают поверх одной сессии
type App struct {
	cfg     *config.Config
	log     *logger.Logger
	journal *journal.Journal
	session *session.Session
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &App{cfg: cfg, log: log}

	// nil интерфейс, а не nil *journal.Journal: иначе сессия не подставит заглушку
	var rec session.Recorder
	if cfg.JournalPath != "" {
		j, err := journal.Open(ctx, cfg.JournalPath)
		if err != nil {
			_ = log.Close()
			return nil, fmt.Errorf("init journal: %w", err)
		}
		a.journal = j
		rec = j
		log.Info("journal opened", zap.String("path", cfg.JournalPath), zap.String("session_id", j.SessionID()))
	}

	a.session = session.NewInMemory(cfg.ExportDir, time.Now, rec, log.Logger)
	log.Info("application started",
		zap.String("export_dir", cfg.ExportDir),
		zap.String("log_file", log.Path()),
		zap.Bool("env_file", cfg.EnvFileLoaded),
	)
	return a, nil
}

func (a *App) Session() *session.Session { return a.session }

// RunConsole меню входа до Exit или конца ввода
func (a *App) RunConsole(ctx context.Context, in io.Reader, out io.Writer, interactive bool) error {
	d := menu.NewDispatcher(a.session, menu.Options{
		In:          in,
		Out:         out,
		Interactive: interactive,
		Logger:      a.log.Logger,
	})
	return d.Run(ctx)
}

// Serve HTTP до отмены ctx, затем штатная остановка
func (a *App) Serve(ctx context.Context) error {
	srv := httpapi.NewServer(a.session, a.log.Logger)
	httpServer := &http.Server{
		Addr:    a.cfg.HTTPAddr,
		Handler: srv.Engine(),
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.log.Info("HTTP server stopped")
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.journal != nil {
		errs = append(errs, a.journal.Close())
	}
	a.log.Info("application stopped")
	errs = append(errs, a.log.Close())
	return errors.Join(errs...)
}
