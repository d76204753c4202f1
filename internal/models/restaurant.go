package models

// Restaurant is a tenant: one restaurant's configured instance of the site.
type Restaurant struct {
	ID             string       `json:"id"`
	Domain         string       `json:"domain"`
	Name           string       `json:"name"`
	SlugName       string       `json:"slug_name"`
	Template       string       `json:"template"` // casual, pizza, journey...
	Currency       string       `json:"currency"`
	Phone          string       `json:"phone"`
	Town           string       `json:"town"`
	WebsiteLogoURL string       `json:"website_logo_url"`
	Location       Location     `json:"location"`
	Cuisines       []string     `json:"cuisines"`
	Hours          OpeningHours `json:"hours"`
	Tables         []Table      `json:"tables,omitempty"`
}

// OpeningHours bounds the bookable evening, as "HH:MM" wall-clock strings.
type OpeningHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

type Table struct {
	ID        string `json:"id"`
	Capacity  int    `json:"capacity"`
	Available bool   `json:"available"`
}
