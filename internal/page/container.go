package page

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// Container is an element that owns inserted cards.
type Container struct {
	doc      *Document
	node     *html.Node
	selector string
}

// Nodes is a handle to nodes inserted by Append.
type Nodes []*html.Node

// Selector returns the selector the container was found with.
func (c *Container) Selector() string {
	return c.selector
}

// Append parses fragment in the container's context and appends it as the
// last children. Observers see one mutation per call.
func (c *Container) Append(fragment string) (Nodes, error) {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()

	nodes, err := html.ParseFragment(strings.NewReader(fragment), c.node)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse fragment for %s", c.selector)
	}

	for _, n := range nodes {
		c.node.AppendChild(n)
	}
	c.doc.notify(c.node, Mutation{Target: c.selector, Added: len(nodes)})
	return nodes, nil
}

// Remove detaches nodes that are still children of the container.
func (c *Container) Remove(nodes Nodes) {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()

	removed := 0
	for _, n := range nodes {
		if n.Parent == c.node {
			c.node.RemoveChild(n)
			removed++
		}
	}
	if removed > 0 {
		c.doc.notify(c.node, Mutation{Target: c.selector, Removed: removed})
	}
}

// Count returns the number of descendants matching selector.
func (c *Container) Count(selector string) int {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	return c.selection().Find(selector).Length()
}

// Each calls fn for every descendant matching selector, under the document lock.
func (c *Container) Each(selector string, fn func(i int, s *goquery.Selection)) {
	c.doc.mu.Lock()
	defer c.doc.mu.Unlock()
	c.selection().Find(selector).Each(fn)
}

// Observe subscribes to child-list changes. Notifications are dropped when
// the buffer is full; stop unsubscribes.
func (c *Container) Observe(buffer int) (events <-chan Mutation, stop func()) {
	if buffer < 1 {
		buffer = 1
	}
	o := &observer{ch: make(chan Mutation, buffer)}

	c.doc.mu.Lock()
	c.doc.observers[c.node] = append(c.doc.observers[c.node], o)
	c.doc.mu.Unlock()

	stop = func() {
		c.doc.mu.Lock()
		defer c.doc.mu.Unlock()
		list := c.doc.observers[c.node]
		for i, cur := range list {
			if cur == o {
				c.doc.observers[c.node] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(c.doc.observers[c.node]) == 0 {
			delete(c.doc.observers, c.node)
		}
	}
	return o.ch, stop
}

// selection must be used with the document lock held.
func (c *Container) selection() *goquery.Selection {
	return c.doc.doc.FindNodes(c.node)
}
