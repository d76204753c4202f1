package models

// SiteContent is the per-tenant branding and copy consumed by templates.
type SiteContent struct {
	Brand      Brand    `json:"brand" yaml:"brand"`
	Navigation []Link   `json:"navigation" yaml:"navigation"`
	Hero       []Banner `json:"hero" yaml:"hero"`
	Footer     Footer   `json:"footer" yaml:"footer"`
	Story      Story    `json:"story" yaml:"story"`
	Gallery    []Image  `json:"gallery" yaml:"gallery"`
	Events     []Event  `json:"events" yaml:"events"`
}

type Brand struct {
	Name    string            `json:"name" yaml:"name"`
	Tagline string            `json:"tagline" yaml:"tagline"`
	LogoURL string            `json:"logo_url" yaml:"logo_url"`
	Colors  map[string]string `json:"colors,omitempty" yaml:"colors"`
}

type Link struct {
	Label string `json:"label" yaml:"label"`
	Href  string `json:"href" yaml:"href"`
}

type Banner struct {
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
	ImageURL string `json:"image_url" yaml:"image_url"`
	CTA      *Link  `json:"cta,omitempty" yaml:"cta"`
}

type Footer struct {
	Address string   `json:"address" yaml:"address"`
	Phone   string   `json:"phone" yaml:"phone"`
	Email   string   `json:"email" yaml:"email"`
	Hours   []string `json:"hours" yaml:"hours"`
	Social  []Link   `json:"social" yaml:"social"`
}

type Story struct {
	Title      string   `json:"title" yaml:"title"`
	Paragraphs []string `json:"paragraphs" yaml:"paragraphs"`
	ImageURL   string   `json:"image_url" yaml:"image_url"`
}

type Image struct {
	URL     string `json:"url" yaml:"url"`
	Caption string `json:"caption" yaml:"caption"`
}

type Event struct {
	Title       string `json:"title" yaml:"title"`
	Date        string `json:"date" yaml:"date"`
	Description string `json:"description" yaml:"description"`
}
