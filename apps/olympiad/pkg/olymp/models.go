package olymp

// Source describes an external page that news items or calendar records
// are scraped from.
type Source struct {
	Label   string `yaml:"label"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
	Stage   string `yaml:"stage"`
	Format  string `yaml:"format"`
	Summary string `yaml:"summary"`
}

type Page struct {
	URL     string
	Title   string
	Summary string
	Text    string
}
