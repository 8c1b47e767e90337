// Package content classifies sheet rows into certificates, projects and skills.
package content

import (
	"strings"

	"github.com/Zachkp/sheetfolio/internal/sheet"
)

// Type is the kind of card a row renders as.
type Type string

const (
	Certificate Type = "certificate"
	Project     Type = "project"
	Skill       Type = "skill"
)

// Types lists every content type.
var Types = []Type{Certificate, Project, Skill}

// Classify reads the discriminator column. Rows with an empty, missing or
// unrecognized discriminator are certificates.
func Classify(rec sheet.Record, cols sheet.Columns) Type {
	raw := strings.ToLower(rec.Get(cols.Type))
	switch {
	case strings.Contains(raw, "project"):
		return Project
	case strings.Contains(raw, "skill"):
		return Skill
	case strings.Contains(raw, "certificate"):
		return Certificate
	default:
		return Certificate
	}
}

// Groups holds classified rows per type.
type Groups struct {
	Certificates []sheet.Record `json:"certificates"`
	Projects     []sheet.Record `json:"projects"`
	Skills       []sheet.Record `json:"skills"`
}

// Partition classifies rows, keeping source order within each group.
func Partition(rows []sheet.Record, cols sheet.Columns) Groups {
	var g Groups
	for _, row := range rows {
		switch Classify(row, cols) {
		case Project:
			g.Projects = append(g.Projects, row)
		case Skill:
			g.Skills = append(g.Skills, row)
		default:
			g.Certificates = append(g.Certificates, row)
		}
	}
	return g
}

// Display returns the groups in render order: certificates and projects
// newest first, skills in declared order.
func (g Groups) Display() Groups {
	return Groups{
		Certificates: reversed(g.Certificates),
		Projects:     reversed(g.Projects),
		Skills:       append([]sheet.Record(nil), g.Skills...),
	}
}

// Of returns the group for t.
func (g Groups) Of(t Type) []sheet.Record {
	switch t {
	case Project:
		return g.Projects
	case Skill:
		return g.Skills
	default:
		return g.Certificates
	}
}

func reversed(rows []sheet.Record) []sheet.Record {
	out := make([]sheet.Record, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = row
	}
	return out
}
