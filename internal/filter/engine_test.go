package filter

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Zachkp/sheetfolio/internal/page"
)

const shell = `<!DOCTYPE html><html><body>
<section id="Projects"><h2 class="title">Projects</h2><div class="project-content"></div></section>
</body></html>`

func card(category, title string) string {
	return `<div class="project-card"><div class="project-info"><p class="project-category">` + category +
		`</p><strong class="project-title"><span>` + title + `</span></strong></div></div>`
}

func newDoc(t *testing.T, markup string) *page.Document {
	t.Helper()
	doc, err := page.ParseString(markup)
	require.NoError(t, err)
	return doc
}

func seeded(t *testing.T, cards ...string) (*page.Document, *Engine) {
	t.Helper()
	doc := newDoc(t, shell)
	grid := doc.Container(".project-content")
	for _, c := range cards {
		_, err := grid.Append(c)
		require.NoError(t, err)
	}
	e := Init(doc, DefaultOptions(), zap.NewNop())
	require.NotNil(t, e)
	return doc, e
}

func buttons(doc *page.Document) (cats []string, active []string) {
	doc.View(func(d *goquery.Document) {
		d.Find(".project-filter-bar .filter-btn").Each(func(_ int, b *goquery.Selection) {
			cat := b.AttrOr("data-cat", "")
			cats = append(cats, cat)
			if b.HasClass("active") {
				active = append(active, cat)
			}
		})
	})
	return cats, active
}

func TestParseCategories(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Web", "Game"}, ParseCategories(" Web, Game "))
	assert.Equal(t, []string{"Web", "Game", "AI"}, ParseCategories("Web / Game,, AI /"))
	assert.Empty(t, ParseCategories(""))
	assert.Empty(t, ParseCategories(" , / "))
}

func TestIconFallsBackToNone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "✦", Icon(All))
	assert.Equal(t, "🎮", Icon("Game"))
	assert.Empty(t, Icon("Robotics"))
	assert.Empty(t, Icon("game"), "icon lookup is case-sensitive")

	doc, e := seeded(t, card("Robotics", "arm"))
	e.Rebuild()
	doc.View(func(d *goquery.Document) {
		assert.Equal(t, 1, d.Find(`.filter-btn[data-cat="All"] .filter-icon`).Length())
		assert.Equal(t, 0, d.Find(`.filter-btn[data-cat="Robotics"] .filter-icon`).Length())
	})
}

func TestRebuildDerivesCategoriesAndFilters(t *testing.T) {
	t.Parallel()

	doc, e := seeded(t, card("Web", "one"), card("Web, Game", "two"), card("", "three"))
	e.Rebuild()

	assert.Equal(t, []string{All, "Web", "Game"}, e.Categories())
	assert.Equal(t, All, e.Active())
	assert.Equal(t, []int{0, 1, 2}, e.Visible())

	changed, err := e.Select("Game")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []int{1}, e.Visible())

	_, active := buttons(doc)
	assert.Equal(t, []string{"Game"}, active)

	changed, err = e.Select(All)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []int{0, 1, 2}, e.Visible())
}

func TestSelectSameCategoryIsNoop(t *testing.T) {
	t.Parallel()

	_, e := seeded(t, card("Web", "one"))
	e.Rebuild()

	changed, err := e.Select(All)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = e.Select("Web")
	require.NoError(t, err)
	changed, err = e.Select("Web")
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestSelectUnknownCategory(t *testing.T) {
	t.Parallel()

	_, e := seeded(t, card("Web", "one"))
	e.Rebuild()

	_, err := e.Select("Nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCategory))
	assert.Equal(t, All, e.Active())
}

func TestBarInsertedAfterTitleOnce(t *testing.T) {
	t.Parallel()

	doc, e := seeded(t, card("Game", "one"), card("Mystery", "two"))
	e.Rebuild()
	e.Rebuild()

	doc.View(func(d *goquery.Document) {
		bars := d.Find("#Projects .project-filter-bar")
		require.Equal(t, 1, bars.Length())
		assert.True(t, bars.Prev().Is(".title"), "bar must follow the section title")
		assert.Equal(t, "tablist", bars.AttrOr("role", ""))
		assert.Equal(t, "#Projects", bars.AttrOr("action", ""))

		game := bars.Find(`.filter-btn[data-cat="Game"]`)
		assert.Equal(t, "🎮", game.Find(".filter-icon").Text())
		mystery := bars.Find(`.filter-btn[data-cat="Mystery"]`)
		require.Equal(t, 1, mystery.Length())
		assert.Equal(t, 0, mystery.Find(".filter-icon").Length(), "unknown categories render without an icon")
		assert.Equal(t, "Mystery", mystery.Text())
		assert.Equal(t, "✦", bars.Find(".filter-btn").First().Find(".filter-icon").Text())
	})
}

func TestBarPrependedWithoutTitle(t *testing.T) {
	t.Parallel()

	doc := newDoc(t, `<html><body><section id="Projects"><div class="project-content"></div></section></body></html>`)
	_, err := doc.Container(".project-content").Append(card("Web", "one"))
	require.NoError(t, err)

	e := Init(doc, DefaultOptions(), nil)
	require.NotNil(t, e)
	e.Rebuild()

	doc.View(func(d *goquery.Document) {
		assert.True(t, d.Find("#Projects").Children().First().Is(".project-filter-bar"))
	})
}

func TestApplyCollapsesHiddenAndStaggersVisible(t *testing.T) {
	t.Parallel()

	doc, e := seeded(t, card("Web", "one"), card("Game", "two"), card("Web", "three"))
	e.Rebuild()
	_, err := e.Select("Web")
	require.NoError(t, err)

	doc.View(func(d *goquery.Document) {
		cards := d.Find(".project-card")
		first, second, third := cards.Eq(0), cards.Eq(1), cards.Eq(2)

		hidden := parseStyle(second.AttrOr("style", ""))
		assert.Equal(t, "hidden", hidden.get("visibility"))
		assert.Equal(t, "0", hidden.get("width"))
		assert.Equal(t, "absolute", hidden.get("position"))
		assert.Equal(t, "0ms", hidden.get("transition-delay"))
		assert.Equal(t, "true", second.AttrOr("aria-hidden", ""))
		_, inert := second.Attr("inert")
		assert.True(t, inert)
		assert.Equal(t, "-1", second.AttrOr("tabindex", ""))
		_, focusable := first.Attr("tabindex")
		assert.False(t, focusable)

		v1 := parseStyle(first.AttrOr("style", ""))
		v3 := parseStyle(third.AttrOr("style", ""))
		assert.Equal(t, "0ms", v1.get("transition-delay"))
		assert.Equal(t, "60ms", v3.get("transition-delay"))
		assert.Equal(t, "1", v3.get("opacity"))
		assert.Empty(t, v3.get("visibility"))
		assert.NotEmpty(t, v3.get("transition"))
		assert.Equal(t, "Web", first.AttrOr("data-cats", ""))
		assert.Equal(t, "1", first.AttrOr("data-categories-ready", ""))
	})

	_, err = e.Select(All)
	require.NoError(t, err)
	doc.View(func(d *goquery.Document) {
		second := d.Find(".project-card").Eq(1)
		st := parseStyle(second.AttrOr("style", ""))
		assert.Empty(t, st.get("visibility"))
		assert.Empty(t, st.get("position"))
		assert.Equal(t, "60ms", st.get("transition-delay"))
		_, hidden := second.Attr("aria-hidden")
		assert.False(t, hidden)
		_, tabindex := second.Attr("tabindex")
		assert.False(t, tabindex)
	})
}

func TestRebuildKeepsActiveWhenStillValid(t *testing.T) {
	t.Parallel()

	doc, e := seeded(t, card("Web", "one"), card("Game", "two"))
	e.Rebuild()
	_, err := e.Select("Game")
	require.NoError(t, err)

	_, err = doc.Container(".project-content").Append(card("Web / AI", "three"))
	require.NoError(t, err)
	e.Rebuild()

	assert.Equal(t, "Game", e.Active())
	assert.Equal(t, []string{All, "Web", "Game", "AI"}, e.Categories())
	assert.Equal(t, []int{1}, e.Visible())
	cats, active := buttons(doc)
	assert.Equal(t, []string{All, "Web", "Game", "AI"}, cats)
	assert.Equal(t, []string{"Game"}, active)
}

func TestSelectRevalidatesAfterNewCards(t *testing.T) {
	t.Parallel()

	doc, e := seeded(t, card("Web", "one"))
	e.Rebuild()

	_, err := doc.Container(".project-content").Append(card("Game", "two"))
	require.NoError(t, err)

	changed, err := e.Select("Game")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []int{1}, e.Visible())
}

func TestRebuildWithoutCardsBuildsNoBar(t *testing.T) {
	t.Parallel()

	doc, e := seeded(t)
	e.Rebuild()

	assert.Empty(t, e.Categories())
	assert.Equal(t, All, e.Active())
	cats, _ := buttons(doc)
	assert.Empty(t, cats)
}

func TestInitRequiresSectionAndGrid(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Init(newDoc(t, `<html><body><div class="project-content"></div></body></html>`), DefaultOptions(), nil))
	assert.Nil(t, Init(newDoc(t, `<html><body><section id="Projects"></section></body></html>`), DefaultOptions(), nil))
}

func TestEscapesCategoryText(t *testing.T) {
	t.Parallel()

	doc, e := seeded(t, card(`&lt;i&gt;x&amp;y&#34;`, "one"))
	e.Rebuild()

	assert.Equal(t, []string{All, `<i>x&y"`}, e.Categories())
	doc.View(func(d *goquery.Document) {
		btn := d.Find(`.filter-btn`).Eq(1)
		assert.Equal(t, `<i>x&y"`, btn.AttrOr("data-cat", ""))
		assert.Equal(t, `<i>x&y"`, btn.AttrOr("value", ""))
		assert.Equal(t, 0, btn.Find("i").Length())
		assert.Equal(t, 0, d.Find(".project-filter-bar i").Length())
	})
}

func TestStyleRoundTrip(t *testing.T) {
	t.Parallel()

	st := parseStyle("color: red; ;bogus; width:10px")
	assert.Equal(t, "10px", st.get("width"))
	st.set("opacity", "1")
	st.del("width")
	st.set("color", "blue")
	assert.Equal(t, "color: blue; opacity: 1;", st.String())
	assert.Equal(t, st.String(), parseStyle(st.String()).String())

	st = parseStyle("transform: translateY(20px) scale(0.95); transition-delay: 0ms")
	assert.Equal(t, "translateY(20px) scale(0.95)", st.get("transform"))
	st.set("transform", "")
	assert.Equal(t, "transition-delay: 0ms;", st.String())
}
