package sheet

import "strings"

// Columns maps each logical field to the sheet header that holds it.
// Headers are compared after trimming.
type Columns struct {
	// Type is the row discriminator ("Add Certificate", "Add Project", "Add Skill").
	Type string `koanf:"type" validate:"required"`

	CertTitle  string `koanf:"cert_title" validate:"required"`
	CertIssuer string `koanf:"cert_issuer" validate:"required"`
	CertDate   string `koanf:"cert_date" validate:"required"`
	CertImage  string `koanf:"cert_image" validate:"required"`
	CertLink   string `koanf:"cert_link" validate:"required"`

	ProjTitle       string `koanf:"proj_title" validate:"required"`
	ProjCategory    string `koanf:"proj_category" validate:"required"`
	ProjImage       string `koanf:"proj_image" validate:"required"`
	ProjLive        string `koanf:"proj_live" validate:"required"`
	ProjGithub      string `koanf:"proj_github" validate:"required"`
	ProjDescription string `koanf:"proj_description"`

	SkillName  string `koanf:"skill_name" validate:"required"`
	SkillImage string `koanf:"skill_image" validate:"required"`
}

// DefaultColumns returns the headers of the portfolio's Google Form sheet.
func DefaultColumns() Columns {
	return Columns{
		Type: "What do you want to add?",

		CertTitle:  "Title",
		CertIssuer: "Issuer",
		CertDate:   "Date",
		CertImage:  "Certificate Image URL",
		CertLink:   "Certificate URL",

		ProjTitle:       "Project Title",
		ProjCategory:    "Project Category",
		ProjImage:       "Project Image URL",
		ProjLive:        "Project Live URL",
		ProjGithub:      "GitHub Repository URL",
		ProjDescription: "Project Description",

		SkillName:  "Skill",
		SkillImage: "Skill Image URL",
	}
}

// Field is one entry of the column schema.
type Field struct {
	Name     string
	Header   string
	Optional bool
}

// Fields lists the schema in a stable order.
func (c Columns) Fields() []Field {
	return []Field{
		{Name: "type", Header: c.Type},
		{Name: "cert_title", Header: c.CertTitle},
		{Name: "cert_issuer", Header: c.CertIssuer},
		{Name: "cert_date", Header: c.CertDate},
		{Name: "cert_image", Header: c.CertImage},
		{Name: "cert_link", Header: c.CertLink},
		{Name: "proj_title", Header: c.ProjTitle},
		{Name: "proj_category", Header: c.ProjCategory},
		{Name: "proj_image", Header: c.ProjImage},
		{Name: "proj_live", Header: c.ProjLive},
		{Name: "proj_github", Header: c.ProjGithub},
		{Name: "proj_description", Header: c.ProjDescription, Optional: true},
		{Name: "skill_name", Header: c.SkillName},
		{Name: "skill_image", Header: c.SkillImage},
	}
}

// Missing reports the required fields whose header is absent from headers.
func (c Columns) Missing(headers []string) []Field {
	present := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		present[strings.TrimSpace(h)] = struct{}{}
	}

	var missing []Field
	for _, f := range c.Fields() {
		if f.Optional {
			continue
		}
		if _, ok := present[strings.TrimSpace(f.Header)]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// Trimmed returns c with every header trimmed.
func (c Columns) Trimmed() Columns {
	t := c
	for _, p := range []*string{
		&t.Type,
		&t.CertTitle, &t.CertIssuer, &t.CertDate, &t.CertImage, &t.CertLink,
		&t.ProjTitle, &t.ProjCategory, &t.ProjImage, &t.ProjLive, &t.ProjGithub, &t.ProjDescription,
		&t.SkillName, &t.SkillImage,
	} {
		*p = strings.TrimSpace(*p)
	}
	return t
}
