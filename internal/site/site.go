// Package site assembles one page load: shell, cards, category filter.
package site

import (
	"bytes"
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/sheetfolio/internal/cards"
	"github.com/Zachkp/sheetfolio/internal/content"
	"github.com/Zachkp/sheetfolio/internal/filter"
	"github.com/Zachkp/sheetfolio/internal/loader"
	"github.com/Zachkp/sheetfolio/internal/page"
	"github.com/Zachkp/sheetfolio/internal/sheet"
	"github.com/Zachkp/sheetfolio/web"
)

// ErrUnknownKind is returned for a fragment name that is not a container.
var ErrUnknownKind = errors.New("site: unknown fragment kind")

var kinds = map[string]content.Type{
	"certificates": content.Certificate,
	"projects":     content.Project,
	"skills":       content.Skill,
}

// KindOf maps a plural fragment name to its content type.
func KindOf(name string) (content.Type, error) {
	t, ok := kinds[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", errors.Wrapf(ErrUnknownKind, "%q", name)
	}
	return t, nil
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger passed to every loader and filter engine.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithContainers overrides the container selectors.
func WithContainers(c loader.Containers) Option {
	return func(a *Assembler) {
		a.containers = c
	}
}

// WithFilter overrides the filter anchors and timings.
func WithFilter(opts filter.Options) Option {
	return func(a *Assembler) {
		a.filter = opts
	}
}

// Assembler builds pages. It is safe for concurrent use; every call gets its
// own document, loader and filter engine.
type Assembler struct {
	shell      *web.Shell
	source     sheet.Source
	renderer   *cards.Renderer
	cols       sheet.Columns
	containers loader.Containers
	filter     filter.Options
	logger     *zap.Logger
}

// New returns an Assembler reading rows from source.
func New(shell *web.Shell, source sheet.Source, renderer *cards.Renderer, cols sheet.Columns, opts ...Option) *Assembler {
	a := &Assembler{
		shell:      shell,
		source:     source,
		renderer:   renderer,
		cols:       cols.Trimmed(),
		containers: loader.DefaultContainers(),
		filter:     filter.DefaultOptions(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Page is one assembled document.
type Page struct {
	Doc    *page.Document
	Result loader.Result
	// Filter is nil when the shell has no project section.
	Filter *filter.Engine

	containers loader.Containers
}

// HTML serializes the full document.
func (p *Page) HTML() (string, error) {
	return p.Doc.HTML()
}

// Fragment returns the inner HTML of the container for t.
func (p *Page) Fragment(t content.Type) (string, error) {
	sel := p.containers.Of(t)
	out, ok, err := p.Doc.InnerHTML(sel)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errors.Errorf("container %s not in page", sel)
	}
	return out, nil
}

// Assemble renders the shell, then runs the loader and the filter engine side
// by side. The engine rebuilds when the loader signals completion. A non-empty
// category is selected afterwards; unknown categories leave All active.
func (a *Assembler) Assemble(ctx context.Context, category string) (*Page, error) {
	var buf bytes.Buffer
	if err := a.shell.Render(&buf); err != nil {
		return nil, err
	}
	doc, err := page.Parse(&buf)
	if err != nil {
		return nil, err
	}

	engine := filter.Init(doc, a.filter, a.logger)
	l := loader.New(a.source, a.renderer, a.cols,
		loader.WithLogger(a.logger),
		loader.WithContainers(a.containers),
	)

	var res loader.Result
	g, gctx := errgroup.WithContext(ctx)
	if engine != nil {
		g.Go(func() error {
			return engine.Watch(gctx, l.Done())
		})
	}
	g.Go(func() error {
		res = l.Load(gctx, doc)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "assembling page")
	}

	p := &Page{Doc: doc, Result: res, Filter: engine, containers: a.containers}

	category = strings.TrimSpace(category)
	if category == "" || engine == nil {
		return p, nil
	}
	if _, err := engine.Select(category); err != nil {
		if !errors.Is(err, filter.ErrUnknownCategory) {
			return nil, err
		}
		a.logger.Debug("ignoring unknown category", zap.String("category", category))
	}
	return p, nil
}

// Content fetches and classifies rows without rendering. A malformed body
// yields empty groups, matching what the page shows.
func (a *Assembler) Content(ctx context.Context) (content.Groups, error) {
	rows, err := a.source.Fetch(ctx)
	if err != nil {
		if errors.Is(err, sheet.ErrMalformed) {
			return content.Groups{}, nil
		}
		return content.Groups{}, err
	}
	return content.Partition(sheet.NormalizeAll(rows), a.cols).Display(), nil
}

// Columns returns the configured column schema.
func (a *Assembler) Columns() sheet.Columns {
	return a.cols
}
