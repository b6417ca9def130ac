// Command server exposes a trained rhyme model as a JSON REST API.
//
// Endpoints:
//
//	POST /api/tag        body: {"poems": [{"stanzas": [[{"text": "...", "ipa": "..."}]]}]}
//	GET  /api/model
//	GET  /api/models
//	GET  /api/alphabets
//	GET  /health
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/versotym/rhymetagger"
	"github.com/versotym/rhymetagger/internal/config"
	"github.com/versotym/rhymetagger/internal/store"
)

func main() {
	configPath := flag.String("config", "rhymetagger.yaml", "configuration file")
	addr := flag.String("addr", "", "listen address (overrides the configuration)")
	verbose := flag.Bool("verbose", false, "debug logging")
	flag.Parse()

	if err := run(*configPath, *addr, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, addr string, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := cfg.Logging.Logger(verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		lm loadedModel
		st *store.SQLiteStore
	)
	if cfg.Server.ModelFile != "" {
		logger.Info("loading model", zap.String("file", cfg.Server.ModelFile))
		if lm.model, err = rhymetagger.LoadModel(cfg.Server.ModelFile); err != nil {
			return err
		}
	} else {
		if st, err = store.NewSQLiteStore(cfg.Store.Path); err != nil {
			return err
		}
		defer st.Close()
		if lm.id, err = st.LatestModelID(ctx); err != nil {
			return fmt.Errorf("store %s: %w", cfg.Store.Path, err)
		}
		logger.Info("loading model", zap.Int64("model_id", lm.id))
		if lm.model, err = st.LoadModel(ctx, lm.id); err != nil {
			return err
		}
	}
	logger.Info("model loaded",
		zap.String("alphabet", lm.model.Alphabet.Name()),
		zap.Int("entries", lm.model.Probabilities.Len()))

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newRouter(lm, st, cfg.Server.AllowedOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
