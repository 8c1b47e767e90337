// Package cards renders classified sheet rows into HTML card fragments.
package cards

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"

	"github.com/Zachkp/sheetfolio/internal/content"
	"github.com/Zachkp/sheetfolio/internal/fields"
	"github.com/Zachkp/sheetfolio/internal/sheet"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	defaultCertTitle    = "Untitled Certificate"
	defaultProjTitle    = "Untitled Project"
	defaultProjCategory = "Project"
	defaultSkillName    = "Skill"
	noLiveURL           = "#"
)

type imageView struct {
	Src string
	Alt string
}

type certificateView struct {
	Side      string
	DateLabel string
	Title     string
	Issuer    string
	Image     *imageView
	Link      string
}

type mediaView struct {
	Kind  string
	Image imageView
	Link  string
}

type projectView struct {
	Media       *mediaView
	Category    string
	Title       string
	Description template.HTML
	GitHub      string
}

type skillView struct {
	Name  string
	Image *imageView
}

// Renderer produces card markup for one column schema.
type Renderer struct {
	cols     sheet.Columns
	tmpl     *template.Template
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewRenderer parses the embedded card templates.
func NewRenderer(cols sheet.Columns) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse card templates")
	}
	return &Renderer{
		cols:     cols.Trimmed(),
		tmpl:     tmpl,
		markdown: goldmark.New(),
		policy:   newDescriptionPolicy(),
	}, nil
}

func newDescriptionPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoFollowOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

// Render dispatches on t. position is only used by certificates.
func (r *Renderer) Render(t content.Type, rec sheet.Record, position int) (string, error) {
	switch t {
	case content.Project:
		return r.Project(rec)
	case content.Skill:
		return r.Skill(rec)
	default:
		return r.Certificate(rec, position)
	}
}

// Certificate renders a timeline entry; even positions sit on the left.
func (r *Renderer) Certificate(rec sheet.Record, position int) (string, error) {
	title := orDefault(rec.Get(r.cols.CertTitle), defaultCertTitle)
	view := certificateView{
		Side:      "left",
		DateLabel: fields.FormatDate(rec.Get(r.cols.CertDate)),
		Title:     title,
		Issuer:    rec.Get(r.cols.CertIssuer),
		Link:      rec.Get(r.cols.CertLink),
	}
	if position%2 != 0 {
		view.Side = "right"
	}
	if src := fields.ResolveImage(rec.Get(r.cols.CertImage)); src != "" {
		view.Image = &imageView{Src: src, Alt: title}
	}
	return r.execute("certificate", view)
}

// Project renders a project card with its media block.
func (r *Renderer) Project(rec sheet.Record) (string, error) {
	title := orDefault(rec.Get(r.cols.ProjTitle), defaultProjTitle)
	view := projectView{
		Category: orDefault(rec.Get(r.cols.ProjCategory), defaultProjCategory),
		Title:    title,
		GitHub:   rec.Get(r.cols.ProjGithub),
	}

	live := orDefault(rec.Get(r.cols.ProjLive), noLiveURL)
	if media := fields.DetectMedia(rec.Get(r.cols.ProjImage)); media.Kind != fields.MediaNone {
		mv := &mediaView{
			Kind:  string(media.Kind),
			Image: imageView{Src: media.Source, Alt: title},
		}
		if media.Kind == fields.MediaImage && live != noLiveURL {
			mv.Link = live
		}
		view.Media = mv
	}

	if r.cols.ProjDescription != "" {
		desc, err := r.description(rec.Get(r.cols.ProjDescription))
		if err != nil {
			return "", err
		}
		view.Description = desc
	}
	return r.execute("project", view)
}

// Skill renders a skill tile. An unresolved image is left out entirely.
func (r *Renderer) Skill(rec sheet.Record) (string, error) {
	name := orDefault(rec.Get(r.cols.SkillName), defaultSkillName)
	view := skillView{Name: name}
	if src := fields.ResolveImage(rec.Get(r.cols.SkillImage)); src != "" {
		view.Image = &imageView{Src: src, Alt: name}
	}
	return r.execute("skill", view)
}

func (r *Renderer) description(md string) (template.HTML, error) {
	if strings.TrimSpace(md) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(md), &buf); err != nil {
		return "", errors.Wrap(err, "failed to render project description")
	}
	//nolint:gosec // sanitized by the UGC policy
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", errors.Wrapf(err, "failed to render %s card", name)
	}
	return buf.String(), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
