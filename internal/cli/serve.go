package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/lmeier/layermix/pkg/assets"
	"github.com/lmeier/layermix/pkg/cache"
	"github.com/lmeier/layermix/pkg/compose"
	"github.com/lmeier/layermix/pkg/entity"
	lmerrors "github.com/lmeier/layermix/pkg/errors"
	"github.com/lmeier/layermix/pkg/layoutio"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	configPath string
	addr       string
	noCache    bool
}

// serveCommand creates the serve command, which exposes resolved
// layouts and on-demand renders over HTTP. Tables are resolved once
// at startup; restart the server to pick up table changes.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080"}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve resolved layouts and on-demand renders over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default "+defaultConfigFile+")")
	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the asset cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	layouts, stats, err := c.resolveLayouts(ctx, opts.configPath)
	if err != nil {
		return err
	}
	c.Logger.Info("layouts resolved", "layouts", stats.Layouts)

	assetCache, err := c.serveCache(opts.noCache)
	if err != nil {
		return err
	}
	defer assetCache.Close()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           c.serveRouter(layouts, assetCache),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	printInfo("Serving %d layouts on %s", len(layouts), opts.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (c *CLI) serveCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// serveRouter builds the HTTP API:
//
//	GET /layouts               all resolved layouts as JSON
//	GET /outputs/{name}        the named layout rendered as PNG
func (c *CLI) serveRouter(layouts []entity.Layout, assetCache cache.Cache) http.Handler {
	byName := make(map[string]entity.Layout, len(layouts))
	for _, l := range layouts {
		byName[l.OutputName()] = l
	}
	compositor := compose.New(assets.NewImages(assetCache), assets.NewFaces())

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(c))

	r.Get("/layouts", func(w http.ResponseWriter, req *http.Request) {
		var buf bytes.Buffer
		if err := layoutio.WriteJSON(layouts, &buf); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(buf.Bytes())
	})

	r.Get("/outputs/{name}", func(w http.ResponseWriter, req *http.Request) {
		name := chi.URLParam(req, "name")
		l, ok := byName[name]
		if !ok {
			http.Error(w, fmt.Sprintf("unknown output %q", name), http.StatusNotFound)
			return
		}

		img, err := compositor.Render(req.Context(), l)
		if err != nil {
			status := http.StatusInternalServerError
			if lmerrors.Is(err, lmerrors.ErrCodeDecode) || lmerrors.Is(err, lmerrors.ErrCodeFont) {
				status = http.StatusBadGateway
			}
			http.Error(w, err.Error(), status)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, img); err != nil {
			loggerFromContext(req.Context()).Error("encode render", "output", name, "err", err)
		}
	})

	return r
}

// requestLogger attaches a request-scoped logger carrying the request id to
// the request context and logs one line per request through it.
func requestLogger(c *CLI) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			reqLogger := c.Logger.With("request_id", middleware.GetReqID(req.Context()))
			req = req.WithContext(withLogger(req.Context(), reqLogger))
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req)
			reqLogger.Debug("request",
				"method", req.Method, "path", req.URL.Path,
				"status", ww.Status(), "took", time.Since(start).Round(time.Millisecond))
		})
	}
}
