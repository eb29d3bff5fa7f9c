package source

// Source configuration types

type Kind string

const (
	KindOrders   Kind = "orders"
	KindSchedule Kind = "schedule"
)

type Config struct {
	Name     string         // Derived from filename (without .yml extension)
	Kind     Kind           `yaml:"kind"`
	URL      string         `yaml:"url"`
	Settings ConfigSettings `yaml:"settings"`
	Filters  []ConfigFilter `yaml:"filters"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxItems        int  `yaml:"max_items"`
	Timeout         int  `yaml:"timeout"`        // seconds
	RenderContent   bool `yaml:"render_content"` // render order full text to markdown
}

type ConfigFilter struct {
	Field    string   `yaml:"field"` // title, id or link
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

// Parsed record types

type Order struct {
	ID              string // Federal Register document number
	Title           string
	SigningDate     string // YYYY-MM-DD when known
	PublicationDate string // YYYY-MM-DD
	HTMLURL         string
	PDFURL          string
	XMLURL          string
	ContentHash     string
}

type Event struct {
	ID          string
	Date        string  // YYYY-MM-DD
	Time        *string // HH:MM:SS
	Location    string
	Details     string
	URL         string
	VideoURL    string
	Latitude    *float64
	Longitude   *float64
	ContentHash string
}
