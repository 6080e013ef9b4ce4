package dataset

import (
	"strings"

	"github.com/biter777/countries"

	"moonlight/pkg/contracts/domain"
)

// DefaultCountries is the registry order used for loading and comparison
var DefaultCountries = []domain.Country{
	{Name: "Benin", Slug: "benin"},
	{Name: "Sierra Leone", Slug: "sierraleone"},
	{Name: "Togo", Slug: "togo"},
}

// Registry maps user-facing country identifiers to measurement files
type Registry struct {
	countries []domain.Country
	byKey     map[string]int
}

// NewRegistry builds a registry. Empty Code and file names are derived from
// the country name and slug.
func NewRegistry(entries ...domain.Country) *Registry {
	r := &Registry{byKey: make(map[string]int)}
	for _, c := range entries {
		if c.Slug == "" {
			c.Slug = slugify(c.Name)
		}
		if c.CleanFile == "" {
			c.CleanFile = c.Slug + "_clean.csv"
		}
		if c.RawFile == "" {
			c.RawFile = c.Slug + ".csv"
		}

		code := countries.ByName(c.Name)
		if c.Code == "" && code != countries.Unknown {
			c.Code = code.Alpha2()
		}

		idx := len(r.countries)
		r.countries = append(r.countries, c)
		r.index(c.Name, idx)
		r.index(c.Slug, idx)
		r.index(c.Code, idx)
		if code != countries.Unknown {
			r.index(code.Alpha3(), idx)
			r.index(code.Info().Name, idx)
		}
	}
	return r
}

// DefaultRegistry returns the Benin, Sierra Leone and Togo registry
func DefaultRegistry() *Registry {
	return NewRegistry(DefaultCountries...)
}

func (r *Registry) index(key string, idx int) {
	key = normalizeKey(key)
	if key == "" {
		return
	}
	if _, taken := r.byKey[key]; !taken {
		r.byKey[key] = idx
	}
}

// Lookup resolves a display name, ISO alpha-2/alpha-3 code or file slug
func (r *Registry) Lookup(name string) (domain.Country, bool) {
	key := normalizeKey(name)
	if idx, ok := r.byKey[key]; ok {
		return r.countries[idx], true
	}

	// Alternative spellings known to the ISO table, e.g. "Republic of Benin"
	if code := countries.ByName(strings.TrimSpace(name)); code != countries.Unknown {
		if idx, ok := r.byKey[normalizeKey(code.Alpha2())]; ok {
			return r.countries[idx], true
		}
	}
	return domain.Country{}, false
}

// Countries returns the registered countries in registry order
func (r *Registry) Countries() []domain.Country {
	out := make([]domain.Country, len(r.countries))
	copy(out, r.countries)
	return out
}

// Names returns the display names in registry order
func (r *Registry) Names() []string {
	out := make([]string, len(r.countries))
	for i, c := range r.countries {
		out[i] = c.Name
	}
	return out
}

// Position returns the registry index of a display name, or -1
func (r *Registry) Position(name string) int {
	if idx, ok := r.byKey[normalizeKey(name)]; ok {
		return idx
	}
	return -1
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
