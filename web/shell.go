// Package web embeds the page shell and static assets.
package web

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var static embed.FS

// Profile is the static copy around the dynamic sections.
type Profile struct {
	Name  string   `koanf:"name"`
	Title string   `koanf:"title"`
	About string   `koanf:"about"`
	Roles []string `koanf:"roles"`
}

// DefaultProfile returns the built-in copy.
func DefaultProfile() Profile {
	return Profile{
		Name:  "Portfolio",
		Title: "Portfolio",
		About: AboutMe,
		Roles: append([]string(nil), Roles...),
	}
}

// Shell renders the page skeleton the loader fills.
type Shell struct {
	tmpl    *template.Template
	profile Profile
	now     func() time.Time
}

// NewShell parses the embedded page template.
func NewShell(profile Profile) (*Shell, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse page shell")
	}
	return &Shell{tmpl: tmpl, profile: profile, now: time.Now}, nil
}

// Render writes the empty page.
func (s *Shell) Render(w io.Writer) error {
	err := s.tmpl.ExecuteTemplate(w, "index.html", map[string]any{
		"profile": s.profile,
		"year":    s.now().Year(),
	})
	return errors.Wrap(err, "failed to render page shell")
}

// StaticFS exposes the embedded assets rooted at static/.
func StaticFS() (fs.FS, error) {
	return fs.Sub(static, "static")
}
