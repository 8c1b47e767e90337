package filter

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// style is an ordered view of an inline style attribute.
type style struct {
	decls []*css.Declaration
}

// parseStyle reads attr one declaration at a time so a single broken
// declaration drops only itself.
func parseStyle(attr string) *style {
	s := &style{}
	for _, chunk := range strings.Split(attr, ";") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		decls, err := parser.ParseDeclarations(chunk + ";")
		if err != nil {
			continue
		}
		for _, d := range decls {
			if d.Property != "" && d.Value != "" {
				s.set(d.Property, d.Value)
			}
		}
	}
	return s
}

func (s *style) index(name string) int {
	for i, d := range s.decls {
		if d.Property == name {
			return i
		}
	}
	return -1
}

func (s *style) set(name, val string) {
	if name == "" {
		return
	}
	if val == "" {
		s.del(name)
		return
	}
	if i := s.index(name); i >= 0 {
		s.decls[i].Value = val
		return
	}
	s.decls = append(s.decls, &css.Declaration{Property: name, Value: val})
}

func (s *style) del(name string) {
	if i := s.index(name); i >= 0 {
		s.decls = append(s.decls[:i], s.decls[i+1:]...)
	}
}

func (s *style) get(name string) string {
	if i := s.index(name); i >= 0 {
		return s.decls[i].Value
	}
	return ""
}

func (s *style) String() string {
	parts := make([]string, 0, len(s.decls))
	for _, d := range s.decls {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, " ")
}
