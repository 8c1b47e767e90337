// Package loader fills the page containers with cards built from sheet rows.
package loader

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/sheetfolio/internal/cards"
	"github.com/Zachkp/sheetfolio/internal/content"
	"github.com/Zachkp/sheetfolio/internal/page"
	"github.com/Zachkp/sheetfolio/internal/sheet"
)

// State is the loader lifecycle: idle, loading, then one terminal state.
type State int

const (
	Idle State = iota
	Loading
	Populated
	Empty
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Populated:
		return "populated"
	case Empty:
		return "empty"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether s ends a load.
func (s State) Terminal() bool {
	return s == Populated || s == Empty || s == Failed
}

// Containers are the selectors cards are inserted into.
type Containers struct {
	Timeline string `koanf:"timeline" validate:"required"`
	Projects string `koanf:"projects" validate:"required"`
	Skills   string `koanf:"skills" validate:"required"`
}

// DefaultContainers matches the portfolio page shell.
func DefaultContainers() Containers {
	return Containers{
		Timeline: ".timeline",
		Projects: ".project-content",
		Skills:   ".skills-content",
	}
}

// Of returns the selector for t.
func (c Containers) Of(t content.Type) string {
	switch t {
	case content.Project:
		return c.Projects
	case content.Skill:
		return c.Skills
	default:
		return c.Timeline
	}
}

// Result summarizes one load.
type Result struct {
	State        State
	Certificates int
	Projects     int
	Skills       int
	Missing      []sheet.Field
	Err          error
}

var placeholderText = map[content.Type]string{
	content.Certificate: "Loading certificates…",
	content.Project:     "Loading projects…",
	content.Skill:       "Loading skills…",
}

const placeholderStyle = "text-align:center; color:#888; padding:20px; font-size:14px; grid-column:1/-1;"

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithContainers overrides the container selectors.
func WithContainers(c Containers) Option {
	return func(l *Loader) {
		l.containers = c
	}
}

// Loader runs one page load. It is not re-entrant: Load does its work once
// and later calls return the first result.
type Loader struct {
	source     sheet.Source
	renderer   *cards.Renderer
	cols       sheet.Columns
	containers Containers
	logger     *zap.Logger

	once   sync.Once
	done   chan struct{}
	mu     sync.Mutex
	state  State
	result Result
}

// New returns an idle loader.
func New(source sheet.Source, renderer *cards.Renderer, cols sheet.Columns, opts ...Option) *Loader {
	l := &Loader{
		source:     source,
		renderer:   renderer,
		cols:       cols.Trimmed(),
		containers: DefaultContainers(),
		logger:     zap.NewNop(),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With(zap.String("component", "cms"))
	return l
}

// Done is closed once the loader reaches a terminal state.
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// State returns the current lifecycle state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Load fetches, classifies and renders rows into doc. Failures are logged and
// recorded on the result; they are never returned to the page.
func (l *Loader) Load(ctx context.Context, doc *page.Document) Result {
	ran := false
	l.once.Do(func() {
		ran = true
		res := l.load(ctx, doc)
		l.mu.Lock()
		l.state = res.State
		l.result = res
		l.mu.Unlock()
		close(l.done)
	})
	if !ran {
		l.logger.Warn("load already ran; ignoring repeated call")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.result
}

func (l *Loader) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

func (l *Loader) load(ctx context.Context, doc *page.Document) Result {
	targets := make(map[content.Type]*page.Container, len(content.Types))
	for _, t := range content.Types {
		if c := doc.Container(l.containers.Of(t)); c != nil {
			targets[t] = c
		}
	}
	if len(targets) == 0 {
		l.logger.Warn("no target containers found in page")
		return Result{State: Empty}
	}

	l.setState(Loading)

	placeholders := make(map[content.Type]page.Nodes, len(targets))
	for t, c := range targets {
		nodes, err := c.Append(`<p class="cms-loader" style="` + placeholderStyle + `">` + placeholderText[t] + `</p>`)
		if err == nil {
			placeholders[t] = nodes
		}
	}
	clearPlaceholders := func() {
		for t, nodes := range placeholders {
			targets[t].Remove(nodes)
		}
	}

	rows, err := l.source.Fetch(ctx)
	clearPlaceholders()
	if err != nil {
		if errors.Is(err, sheet.ErrMalformed) {
			l.logger.Info("sheet did not return rows", zap.Error(err))
			return Result{State: Empty}
		}
		l.logger.Error("failed to load content", zap.Error(err))
		return Result{State: Failed, Err: err}
	}
	if len(rows) == 0 {
		l.logger.Info("sheet is empty")
		return Result{State: Empty}
	}

	rows = sheet.NormalizeAll(rows)
	headers := sheet.Headers(rows)
	missing := l.cols.Missing(headers)
	l.logger.Debug("detected columns", zap.Strings("columns", headers))
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, f := range missing {
			names = append(names, f.Header)
		}
		l.logger.Warn("sheet is missing expected columns; affected fields use defaults", zap.Strings("missing", names))
	}

	groups := content.Partition(rows, l.cols).Display()
	res := Result{
		State:        Populated,
		Certificates: len(groups.Certificates),
		Projects:     len(groups.Projects),
		Skills:       len(groups.Skills),
		Missing:      missing,
	}
	l.logger.Info("classified rows",
		zap.Int("certificates", res.Certificates),
		zap.Int("projects", res.Projects),
		zap.Int("skills", res.Skills),
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, t := range content.Types {
		c, ok := targets[t]
		rows := groups.Of(t)
		if !ok || len(rows) == 0 {
			continue
		}
		g.Go(func() error {
			if err := l.fill(gctx, c, t, rows); err != nil {
				return err
			}
			l.logger.Info("cards loaded", zap.String("type", string(t)), zap.Int("count", len(rows)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.logger.Error("failed to load content", zap.Error(err))
		res.State = Failed
		res.Err = err
	}
	return res
}

// fill renders rows in order and appends each card to c.
func (l *Loader) fill(ctx context.Context, c *page.Container, t content.Type, rows []sheet.Record) error {
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "rendering %s cards", t)
		}
		fragment, err := l.renderer.Render(t, row, i)
		if err != nil {
			return err
		}
		if _, err := c.Append(fragment); err != nil {
			return err
		}
	}
	return nil
}
