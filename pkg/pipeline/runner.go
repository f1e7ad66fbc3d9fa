package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/lmeier/layermix/pkg/assets"
	"github.com/lmeier/layermix/pkg/cache"
	"github.com/lmeier/layermix/pkg/compose"
	"github.com/lmeier/layermix/pkg/config"
	"github.com/lmeier/layermix/pkg/entity"
	"github.com/lmeier/layermix/pkg/errors"
	"github.com/lmeier/layermix/pkg/parse"
	"github.com/lmeier/layermix/pkg/tabular"
)

// Extensions imaging can encode directly. Output names with any other
// suffix get the configured format appended.
var encodableExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".tif": true, ".tiff": true, ".bmp": true,
}

// Runner executes pipeline runs. CacheDir is where the file cache
// lives when the config selects it.
type Runner struct {
	CacheDir string
}

// tables holds the four raw input tables of one run.
type tables struct {
	canvas [][]string
	image  [][]string
	text   [][]string
	layout [][]string
}

// Run loads, parses, resolves, renders, and writes everything.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", result.RunID[:8])

	layouts, stats, err := r.resolve(ctx, opts, logger)
	if err != nil {
		return nil, err
	}
	result.Stats = *stats

	layouts, err = filterLayouts(layouts, opts.Only)
	if err != nil {
		return nil, err
	}

	outputs, err := r.renderAll(ctx, opts, logger, layouts)
	if err != nil {
		return nil, err
	}
	result.Outputs = outputs
	result.Stats.Rendered = len(outputs)
	result.Stats.Took = time.Since(start)
	logger.Info("run finished", "rendered", len(outputs), "took", result.Stats.Took)
	return result, nil
}

// Resolve runs the pipeline up to layout resolution, without touching
// any image or font. The resolve and serve commands use it.
func (r *Runner) Resolve(ctx context.Context, opts Options) ([]entity.Layout, *Stats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	return r.resolve(ctx, opts, opts.Logger)
}

func (r *Runner) resolve(ctx context.Context, opts Options, logger logSink) ([]entity.Layout, *Stats, error) {
	src, err := r.openSource(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	defer src.Close()

	raw, err := loadTables(ctx, src, opts.Config.TableNames())
	if err != nil {
		return nil, nil, err
	}

	canvases, err := parse.Canvases(opts.Config.TableNames().Canvas, raw.canvas)
	if err != nil {
		return nil, nil, err
	}
	images, err := parse.ImageElements(opts.Config.TableNames().Image, raw.image, opts.Config.Assets.ImageDir)
	if err != nil {
		return nil, nil, err
	}
	texts, err := parse.TextElements(opts.Config.TableNames().Text, raw.text, opts.Config.Assets.FontFile)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("tables parsed",
		"canvases", len(canvases), "images", len(images), "texts", len(texts))

	layouts, err := parse.ResolveLayouts(raw.layout, texts, images, canvases)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("layouts resolved", "layouts", len(layouts))

	stats := &Stats{
		Canvases: len(canvases),
		Images:   len(images),
		Texts:    len(texts),
		Layouts:  len(layouts),
	}
	return layouts, stats, nil
}

func (r *Runner) renderAll(ctx context.Context, opts Options, logger logSink, layouts []entity.Layout) ([]Output, error) {
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeWrite, err, "output directory %s cannot be created", opts.OutputDir)
	}

	assetCache, err := r.openCache(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer assetCache.Close()
	compositor := compose.New(assets.NewImages(assetCache), assets.NewFaces())

	var (
		mu       sync.Mutex
		firstErr error
		outputs  = make([]Output, 0, len(layouts))
		wg       sync.WaitGroup
		sem      = make(chan struct{}, opts.Workers)
	)
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	for _, layout := range layouts {
		wg.Add(1)
		go func(l entity.Layout) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-runCtx.Done():
				return
			}

			out, err := r.renderOne(runCtx, opts, compositor, l)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
					cancel()
				}
				return
			}
			logger.Info("rendered", "output", out.Name, "layers", out.Layers, "took", out.Took)
			outputs = append(outputs, out)
		}(layout)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outputs, nil
}

func (r *Runner) renderOne(ctx context.Context, opts Options, c *compose.Compositor, l entity.Layout) (Output, error) {
	start := time.Now()
	img, err := c.Render(ctx, l)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInternal
		}
		return Output{}, errors.Wrap(code, err, "layout %q cannot be rendered", l.OutputName())
	}

	path := filepath.Join(opts.OutputDir, outputFileName(l.OutputName(), opts.Format))
	if err := imaging.Save(img, path); err != nil {
		return Output{}, errors.Wrap(errors.ErrCodeWrite, err, "output %s cannot be written", path)
	}
	return Output{
		Name:   l.OutputName(),
		Path:   path,
		Canvas: l.Canvas().ID(),
		Layers: len(l.Layers()),
		Took:   time.Since(start),
	}, nil
}

// outputFileName keeps the layout's output name verbatim when it
// already carries an encodable extension, and appends the configured
// format (default png) otherwise.
func outputFileName(name, format string) string {
	if encodableExts[strings.ToLower(filepath.Ext(name))] {
		return name
	}
	if format == "" {
		format = "png"
	}
	return fmt.Sprintf("%s.%s", name, strings.TrimPrefix(strings.ToLower(format), "."))
}

func filterLayouts(layouts []entity.Layout, only []string) ([]entity.Layout, error) {
	if len(only) == 0 {
		return layouts, nil
	}
	wanted := make(map[string]bool, len(only))
	for _, name := range only {
		wanted[name] = true
	}
	kept := make([]entity.Layout, 0, len(only))
	for _, l := range layouts {
		if wanted[l.OutputName()] {
			kept = append(kept, l)
			delete(wanted, l.OutputName())
		}
	}
	for name := range wanted {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "output %q is not in the layout table", name)
	}
	return kept, nil
}

func (r *Runner) openSource(ctx context.Context, opts Options) (tabular.Source, error) {
	src := opts.Config.Source
	switch src.Type {
	case config.SourceCSV:
		return tabular.NewCSVSource(src.Path)
	case config.SourceSQLite:
		return tabular.NewSQLiteSource(ctx, src.Path)
	case config.SourceMongo:
		return tabular.NewMongoSource(ctx, src.URI, src.Database)
	case config.SourceRemote:
		c, err := r.openCache(ctx, opts)
		if err != nil {
			return nil, err
		}
		return tabular.NewRemoteSource(src.URL, c)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown source type %q", src.Type)
	}
}

func (r *Runner) openCache(ctx context.Context, opts Options) (cache.Cache, error) {
	if opts.NoCache {
		return cache.NewNullCache(), nil
	}
	switch opts.Config.Cache.Type {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, opts.Config.Cache.URL)
	default:
		dir := opts.Config.Cache.Dir
		if dir == "" {
			dir = r.CacheDir
		}
		if dir == "" {
			dir = filepath.Join(os.TempDir(), "layermix-cache")
		}
		return cache.NewFileCache(dir)
	}
}

func loadTables(ctx context.Context, src tabular.Source, names tabular.Tables) (*tables, error) {
	var (
		raw tables
		err error
	)
	if raw.canvas, err = src.Table(ctx, names.Canvas); err != nil {
		return nil, err
	}
	if raw.image, err = src.Table(ctx, names.Image); err != nil {
		return nil, err
	}
	if raw.text, err = src.Table(ctx, names.Text); err != nil {
		return nil, err
	}
	if raw.layout, err = src.Table(ctx, names.Layout); err != nil {
		return nil, err
	}
	return &raw, nil
}

// logSink is the slice of charmbracelet/log the runner needs; it keeps
// the worker code testable without a real logger.
type logSink interface {
	Info(msg interface{}, keyvals ...interface{})
}
