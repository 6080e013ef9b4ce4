package domain

// Country describes one measurement site in the registry
type Country struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	Slug      string `json:"slug"`
	CleanFile string `json:"clean_file"`
	RawFile   string `json:"raw_file"`
}

// CountryStatus reports whether a country's cleaned file is currently loadable
type CountryStatus struct {
	Country
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
}

// About is the static content of the About page
type About struct {
	Title      string   `json:"title"`
	Objective  string   `json:"objective"`
	DataSource string   `json:"data_source"`
	Features   []string `json:"features"`
	Countries  []string `json:"countries"`
	Version    string   `json:"version"`
}
