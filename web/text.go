package web

var (
	// AboutMe is the default about-section copy. Override it with profile.about.
	AboutMe = `This page collects certificates, projects and skills straight from a
	spreadsheet. Add a row to the sheet and it shows up here on the next load.`

	// Roles cycle under the headline.
	Roles = []string{
		"Developer",
		"Designer",
		"Lifelong Learner",
	}
)
