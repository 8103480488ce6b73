// Package templates holds the catalog of visual resume templates.
package templates

import (
	"fmt"
	"sort"
	"strings"
)

type Category string

const (
	CategoryProfessional Category = "professional"
	CategoryModern       Category = "modern"
	CategoryCreative     Category = "creative"
	CategoryMinimal      Category = "minimal"
)

// HeaderStyle selects the header block a template renders.
type HeaderStyle string

const (
	HeaderGradient HeaderStyle = "gradient"
	HeaderDiagonal HeaderStyle = "diagonal"
	HeaderClassic  HeaderStyle = "classic"
	HeaderMinimal  HeaderStyle = "minimal"
)

type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Text       string `json:"text"`
	Background string `json:"background"`
}

type Fonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Layout values are CSS lengths.
type Layout struct {
	HeaderHeight string `json:"headerHeight"`
	Spacing      string `json:"spacing"`
	SectionGap   string `json:"sectionGap"`
}

type Template struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Category    Category    `json:"category"`
	Premium     bool        `json:"premium"`
	Header      HeaderStyle `json:"header"`
	Colors      Palette     `json:"colors"`
	Fonts       Fonts       `json:"fonts"`
	Layout      Layout      `json:"layout"`
}

// Registry is an immutable catalog keyed by template id. It is built once
// and shared; lookups never fail.
type Registry struct {
	byID      map[string]Template
	aliases   map[string]string
	order     []string
	defaultID string
}

// NewRegistry builds a registry from templates in display order. The
// default is the template whose id equals defaultID, or the first one when
// defaultID is empty.
func NewRegistry(defaultID string, list []Template, aliases map[string]string) (*Registry, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("templates: empty catalog")
	}
	r := &Registry{
		byID:    make(map[string]Template, len(list)),
		aliases: make(map[string]string, len(aliases)),
	}
	for _, t := range list {
		id := normalizeID(t.ID)
		if id == "" {
			return nil, fmt.Errorf("templates: template %q has no id", t.Name)
		}
		if _, dup := r.byID[id]; dup {
			return nil, fmt.Errorf("templates: duplicate id %q", id)
		}
		t.ID = id
		r.byID[id] = t
		r.order = append(r.order, id)
	}
	for alias, target := range aliases {
		target = normalizeID(target)
		if _, ok := r.byID[target]; !ok {
			return nil, fmt.Errorf("templates: alias %q points to unknown id %q", alias, target)
		}
		r.aliases[normalizeID(alias)] = target
	}

	r.defaultID = r.order[0]
	if defaultID != "" {
		id := normalizeID(defaultID)
		if _, ok := r.byID[id]; !ok {
			return nil, fmt.Errorf("templates: default %q not in catalog", defaultID)
		}
		r.defaultID = id
	}
	return r, nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Resolve reports the canonical id for id and whether it is known.
func (r *Registry) Resolve(id string) (string, bool) {
	id = normalizeID(id)
	if _, ok := r.byID[id]; ok {
		return id, true
	}
	if target, ok := r.aliases[id]; ok {
		return target, true
	}
	return r.defaultID, false
}

// Lookup returns the template for id, falling back to the default template
// for unknown or empty ids.
func (r *Registry) Lookup(id string) Template {
	canonical, _ := r.Resolve(id)
	return r.byID[canonical]
}

// Has reports whether id (or an alias of it) is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.Resolve(id)
	return ok
}

func (r *Registry) Default() Template { return r.byID[r.defaultID] }

// All returns every template in catalog order.
func (r *Registry) All() []Template {
	return r.filter(func(Template) bool { return true })
}

func (r *Registry) ListFree() []Template {
	return r.filter(func(t Template) bool { return !t.Premium })
}

func (r *Registry) ListPremium() []Template {
	return r.filter(func(t Template) bool { return t.Premium })
}

func (r *Registry) ListByCategory(c Category) []Template {
	return r.filter(func(t Template) bool { return t.Category == c })
}

// Aliases returns the legacy ids accepted by Lookup, sorted.
func (r *Registry) Aliases() []string {
	out := make([]string, 0, len(r.aliases))
	for a := range r.aliases {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) filter(keep func(Template) bool) []Template {
	out := []Template{}
	for _, id := range r.order {
		if t := r.byID[id]; keep(t) {
			out = append(out, t)
		}
	}
	return out
}
