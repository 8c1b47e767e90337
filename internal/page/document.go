// Package page holds the HTML document that one page load assembles.
//
// A Document is shared between the content loader, which appends cards, and
// the filter engine, which later changes their visibility. All access goes
// through the document lock.
package page

import (
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// Mutation describes a child-list change on an observed container.
type Mutation struct {
	Target  string
	Added   int
	Removed int
}

// Document is a mutex-guarded goquery document.
type Document struct {
	mu        sync.Mutex
	doc       *goquery.Document
	observers map[*html.Node][]*observer
}

type observer struct {
	ch chan Mutation
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse page")
	}
	return &Document{doc: doc, observers: make(map[*html.Node][]*observer)}, nil
}

// ParseString is Parse for an in-memory document.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Container returns the first element matching selector, or nil.
func (d *Document) Container(selector string) *Container {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return &Container{doc: d, node: sel.Get(0), selector: selector}
}

// View runs fn with read access to the document.
func (d *Document) View(fn func(doc *goquery.Document)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.doc)
}

// Update runs fn with write access to the document. Changes made here are
// attribute or structure edits outside observed child lists; they are not
// reported to observers.
func (d *Document) Update(fn func(doc *goquery.Document)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.doc)
}

// HTML renders the whole document.
func (d *Document) HTML() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	out, err := d.doc.Html()
	if err != nil {
		return "", errors.Wrap(err, "failed to render page")
	}
	return out, nil
}

// InnerHTML renders the contents of the first element matching selector.
func (d *Document) InnerHTML(selector string) (string, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false, nil
	}
	out, err := sel.Html()
	if err != nil {
		return "", true, errors.Wrapf(err, "failed to render %s", selector)
	}
	return out, true, nil
}

// notify must be called with d.mu held.
func (d *Document) notify(node *html.Node, m Mutation) {
	for _, o := range d.observers[node] {
		select {
		case o.ch <- m:
		default:
		}
	}
}
