package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/examprep/cbt/internal/config"
	"github.com/examprep/cbt/internal/offline"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the offline caching proxy for the web app",
	Long: `serve fronts the web app at CBT_APP_ORIGIN with a local proxy that caches
the app shell and every successful response, so the app keeps working when
the network drops. Point the browser at the proxy address instead of the app.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := config.NewLogger(os.Stderr, cfg.LogLevel)
		addr := cfg.ProxyAddr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		cache, err := offline.OpenCache(ctx, filepath.Join(filepath.Dir(dbPath), "offline.db"))
		if err != nil {
			return err
		}
		defer cache.Close()

		w, err := offline.New(offline.Config{
			Origin:  cfg.AppOrigin,
			Version: cfg.AppVersion,
			Logger:  log,
		}, cache)
		if err != nil {
			return err
		}

		if err := w.Install(ctx); err != nil {
			log.Warn("app shell not cached; serving from the network only", "err", err)
		}
		removed, err := w.Activate(ctx)
		if err != nil {
			return fmt.Errorf("activate %s: %w", w.Generation(), err)
		}
		if len(removed) > 0 {
			log.Info("removed old cache generations", "generations", removed)
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           w,
			ReadHeaderTimeout: 10 * time.Second,
		}
		errc := make(chan error, 1)
		go func() { errc <- srv.ListenAndServe() }()
		fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s (cache %s)\n", cfg.AppOrigin, addr, w.Generation())

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		err = srv.Shutdown(shutdownCtx)
		w.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides CBT_PROXY_ADDR)")
}
