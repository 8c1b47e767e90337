package page

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shell = `<!DOCTYPE html><html><body>
<section id="Projects"><h2 class="title">Projects</h2><div class="project-content"></div></section>
</body></html>`

func TestContainerLookup(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(shell)
	require.NoError(t, err)

	require.NotNil(t, doc.Container(".project-content"))
	assert.Nil(t, doc.Container(".timeline"))
}

func TestAppendAndRemoveNotifyObservers(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(shell)
	require.NoError(t, err)
	grid := doc.Container(".project-content")

	events, stop := grid.Observe(4)
	defer stop()

	nodes, err := grid.Append(`<p class="cms-loader">Loading…</p>`)
	require.NoError(t, err)
	_, err = grid.Append(`<div class="project-card">one</div>`)
	require.NoError(t, err)
	assert.Equal(t, 1, grid.Count(".project-card"))

	grid.Remove(nodes)
	assert.Equal(t, 0, grid.Count(".cms-loader"))

	first := <-events
	assert.Equal(t, ".project-content", first.Target)
	assert.Equal(t, 1, first.Added)
	<-events
	removed := <-events
	assert.Equal(t, 1, removed.Removed)

	grid.Remove(nodes)
	select {
	case m := <-events:
		t.Fatalf("unexpected mutation after removing detached nodes: %+v", m)
	default:
	}
}

func TestObserveStopUnsubscribes(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(shell)
	require.NoError(t, err)
	grid := doc.Container(".project-content")

	events, stop := grid.Observe(1)
	stop()
	_, err = grid.Append(`<div class="project-card"></div>`)
	require.NoError(t, err)

	select {
	case <-events:
		t.Fatal("stopped observer received a mutation")
	default:
	}
}

func TestObserveDropsWhenBufferFull(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(shell)
	require.NoError(t, err)
	grid := doc.Container(".project-content")

	events, stop := grid.Observe(1)
	defer stop()
	for i := 0; i < 3; i++ {
		_, err = grid.Append(`<div class="project-card"></div>`)
		require.NoError(t, err)
	}
	assert.Len(t, events, 1)
	assert.Equal(t, 3, grid.Count(".project-card"))
}

func TestHTMLAndInnerHTML(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(shell)
	require.NoError(t, err)
	_, err = doc.Container(".project-content").Append(`<div class="project-card">A &amp; B</div>`)
	require.NoError(t, err)

	inner, ok, err := doc.InnerHTML(".project-content")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `<div class="project-card">A &amp; B</div>`, inner)

	_, ok, err = doc.InnerHTML(".missing")
	require.NoError(t, err)
	assert.False(t, ok)

	full, err := doc.HTML()
	require.NoError(t, err)
	assert.Contains(t, full, "<!DOCTYPE html>")
	assert.Contains(t, full, `<div class="project-card">A &amp; B</div>`)
}

func TestUpdateAndView(t *testing.T) {
	t.Parallel()

	doc, err := ParseString(shell)
	require.NoError(t, err)

	doc.Update(func(d *goquery.Document) {
		d.Find(".title").SetAttr("data-seen", "1")
	})
	var seen string
	doc.View(func(d *goquery.Document) {
		seen = d.Find(".title").AttrOr("data-seen", "")
	})
	assert.Equal(t, "1", seen)
}
