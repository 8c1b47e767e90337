// Package filter builds the project category filter over rendered cards.
//
// The engine never calls into the loader. It derives everything from the
// cards present in the page and is told when to look either by a completion
// signal or by child-list mutations on the project grid.
package filter

import (
	"html"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Zachkp/sheetfolio/internal/page"
)

// ErrUnknownCategory is returned by Select for a category no card carries.
var ErrUnknownCategory = errors.New("filter: unknown category")

const (
	barClass       = "project-filter-bar"
	buttonClass    = "filter-btn"
	baseTransition = "opacity 0.3s ease, transform 0.35s cubic-bezier(0.34,1.56,0.64,1), width 0s, margin 0s"
)

// collapsed is applied in order to hidden cards; visible cards drop these.
var collapsed = [][2]string{
	{"pointer-events", "none"},
	{"position", "absolute"},
	{"visibility", "hidden"},
	{"width", "0"},
	{"overflow", "hidden"},
	{"margin", "0"},
	{"padding", "0"},
	{"min-height", "0"},
	{"border", "none"},
}

// Options locates the filter's anchors and tunes its timing.
type Options struct {
	Section  string        `koanf:"section"`
	Grid     string        `koanf:"grid"`
	Card     string        `koanf:"card"`
	Category string        `koanf:"category"`
	Title    string        `koanf:"title"`
	Settle   time.Duration `koanf:"settle"`
	Fallback time.Duration `koanf:"fallback"`
	Stagger  time.Duration `koanf:"stagger"`
}

// DefaultOptions matches the portfolio page shell and card markup.
func DefaultOptions() Options {
	return Options{
		Section:  "#Projects",
		Grid:     ".project-content",
		Card:     ".project-card",
		Category: ".project-category",
		Title:    ".title",
		Settle:   150 * time.Millisecond,
		Fallback: 5 * time.Second,
		Stagger:  60 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Section == "" {
		o.Section = def.Section
	}
	if o.Grid == "" {
		o.Grid = def.Grid
	}
	if o.Card == "" {
		o.Card = def.Card
	}
	if o.Category == "" {
		o.Category = def.Category
	}
	if o.Title == "" {
		o.Title = def.Title
	}
	if o.Settle <= 0 {
		o.Settle = def.Settle
	}
	if o.Fallback <= 0 {
		o.Fallback = def.Fallback
	}
	if o.Stagger < 0 {
		o.Stagger = def.Stagger
	}
	return o
}

type cardRef struct {
	index      int
	categories []string
}

// Engine owns the visibility state of the project cards in one document.
type Engine struct {
	doc    *page.Document
	grid   *page.Container
	opts   Options
	logger *zap.Logger

	mu         sync.Mutex
	active     string
	categories []string
	cards      []cardRef
	rebuilds   int
}

// Init binds an engine to doc. It returns nil when the project section or
// grid is missing, in which case there is nothing to filter.
func Init(doc *page.Document, opts Options, logger *zap.Logger) *Engine {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if doc.Container(opts.Section) == nil {
		return nil
	}
	grid := doc.Container(opts.Grid)
	if grid == nil {
		return nil
	}
	return &Engine{
		doc:    doc,
		grid:   grid,
		opts:   opts,
		logger: logger.With(zap.String("component", "filter")),
		active: All,
	}
}

// Active returns the selected category.
func (e *Engine) Active() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// Categories returns the derived category set, All first. Empty before the
// first rebuild and when there are no cards.
func (e *Engine) Categories() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.categories...)
}

// Visible returns the indices of cards shown under the active category.
func (e *Engine) Visible() []int {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []int
	for _, c := range e.cards {
		if e.shows(c.categories) {
			out = append(out, c.index)
		}
	}
	return out
}

// Rebuilds counts completed rebuilds.
func (e *Engine) Rebuilds() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rebuilds
}

// Rebuild re-reads the cards, regenerates the control bar and reapplies the
// active category, falling back to All when it no longer exists.
func (e *Engine) Rebuild() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rebuild()
}

// Select switches the active category. Selecting the active category again
// is a no-op and reports false.
func (e *Engine) Select(category string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if category == e.active {
		return false, nil
	}
	if e.stale() {
		e.rebuild()
	}
	if !contains(e.categories, category) {
		return false, errors.Wrapf(ErrUnknownCategory, "%q", category)
	}

	e.active = category
	e.doc.Update(func(d *goquery.Document) {
		e.markButtons(d)
		e.apply(d)
	})
	e.logger.Debug("filter applied", zap.String("category", category))
	return true, nil
}

// stale reports whether the grid holds a different number of cards than the
// last rebuild saw. Must hold e.mu.
func (e *Engine) stale() bool {
	return e.grid.Count(e.opts.Card) != len(e.cards)
}

// rebuild must hold e.mu.
func (e *Engine) rebuild() {
	e.doc.Update(func(d *goquery.Document) {
		var refs []cardRef
		d.Find(e.opts.Grid).First().Find(e.opts.Card).Each(func(i int, card *goquery.Selection) {
			if _, ok := card.Attr("data-categories-ready"); !ok {
				label := card.Find(e.opts.Category).First().Text()
				card.SetAttr("data-cats", joinCats(ParseCategories(label)))
				card.SetAttr("data-categories-ready", "1")
				st := parseStyle(card.AttrOr("style", ""))
				st.set("transition", baseTransition)
				card.SetAttr("style", st.String())
			}
			refs = append(refs, cardRef{index: i, categories: splitCats(card.AttrOr("data-cats", ""))})
		})
		e.cards = refs

		if len(refs) == 0 {
			e.categories = nil
			e.active = All
			return
		}

		cats := []string{All}
		seen := map[string]bool{All: true}
		for _, ref := range refs {
			for _, c := range ref.categories {
				if !seen[c] {
					seen[c] = true
					cats = append(cats, c)
				}
			}
		}
		e.categories = cats
		if !seen[e.active] {
			e.active = All
		}

		e.renderBar(d)
		e.apply(d)
	})
	e.rebuilds++
	e.logger.Debug("filter rebuilt",
		zap.Int("cards", len(e.cards)),
		zap.Strings("categories", e.categories),
		zap.String("active", e.active),
	)
}

func (e *Engine) shows(cats []string) bool {
	return e.active == All || contains(cats, e.active)
}

// renderBar creates the bar after the section title, or regenerates its buttons.
func (e *Engine) renderBar(d *goquery.Document) {
	section := d.Find(e.opts.Section).First()
	buttons := e.buttonsHTML()

	bar := section.Find("." + barClass).First()
	if bar.Length() > 0 {
		bar.SetHtml(buttons)
		return
	}

	action := ""
	if id := section.AttrOr("id", ""); id != "" {
		action = "#" + id
	}
	markup := `<form class="` + barClass + `" role="tablist" aria-label="Filter projects by category" method="get" action="` +
		html.EscapeString(action) + `">` + buttons + `</form>`

	if title := section.Find(e.opts.Title).First(); title.Length() > 0 {
		title.AfterHtml(markup)
	} else {
		section.PrependHtml(markup)
	}
}

func (e *Engine) buttonsHTML() string {
	var b strings.Builder
	for _, cat := range e.categories {
		active := cat == e.active
		esc := html.EscapeString(cat)

		b.WriteString(`<button type="submit" name="category" value="`)
		b.WriteString(esc)
		b.WriteString(`" class="` + buttonClass)
		if active {
			b.WriteString(" active")
		}
		b.WriteString(`" data-cat="`)
		b.WriteString(esc)
		b.WriteString(`" role="tab" aria-selected="`)
		b.WriteString(strconv.FormatBool(active))
		b.WriteString(`">`)
		if icon := Icon(cat); icon != "" {
			b.WriteString(`<span class="filter-icon">` + icon + `</span>`)
		}
		b.WriteString(`<span>` + esc + `</span></button>`)
	}
	return b.String()
}

func (e *Engine) markButtons(d *goquery.Document) {
	d.Find(e.opts.Section).First().Find("." + buttonClass).Each(func(_ int, btn *goquery.Selection) {
		active := btn.AttrOr("data-cat", "") == e.active
		if active {
			btn.AddClass("active")
		} else {
			btn.RemoveClass("active")
		}
		btn.SetAttr("aria-selected", strconv.FormatBool(active))
	})
}

// apply collapses hidden cards at once and staggers visible ones back in.
func (e *Engine) apply(d *goquery.Document) {
	step := e.opts.Stagger.Milliseconds()
	shown := int64(0)

	d.Find(e.opts.Grid).First().Find(e.opts.Card).Each(func(_ int, card *goquery.Selection) {
		st := parseStyle(card.AttrOr("style", ""))
		if e.shows(splitCats(card.AttrOr("data-cats", ""))) {
			for _, kv := range collapsed {
				st.del(kv[0])
			}
			st.set("transition-delay", strconv.FormatInt(shown*step, 10)+"ms")
			st.set("opacity", "1")
			st.set("transform", "translateY(0) scale(1)")
			card.RemoveAttr("aria-hidden")
			card.RemoveAttr("inert")
			card.RemoveAttr("tabindex")
			shown++
		} else {
			st.set("transition-delay", "0ms")
			st.set("opacity", "0")
			st.set("transform", "translateY(20px) scale(0.95)")
			for _, kv := range collapsed {
				st.set(kv[0], kv[1])
			}
			card.SetAttr("aria-hidden", "true")
			card.SetAttr("inert", "")
			card.SetAttr("tabindex", "-1")
		}
		card.SetAttr("style", st.String())
	})
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
