// Package compose turns a resume and a visual template into a
// self-contained HTML document. Composition is pure: the same inputs
// always produce byte-identical output and nothing touches the network or
// the filesystem.
package compose

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"resume-renderer/internal/model"
	"resume-renderer/internal/templates"

	"github.com/tdewolff/minify/v2"
	mcss "github.com/tdewolff/minify/v2/css"
	mhtml "github.com/tdewolff/minify/v2/html"
	"golang.org/x/net/publicsuffix"
)

//go:embed layout.html.tmpl
var layoutSource string

// Compositor renders resumes into HTML. It is safe for concurrent use.
type Compositor struct {
	tpl           *template.Template
	defaultLocale string
	minifier      *minify.M
}

type Option func(*Compositor)

// WithDefaultLocale sets the locale used when a resume carries none.
func WithDefaultLocale(locale string) Option {
	return func(c *Compositor) { c.defaultLocale = locale }
}

// WithMinify strips insignificant whitespace from the generated document.
func WithMinify() Option {
	return func(c *Compositor) {
		m := minify.New()
		m.AddFunc("text/css", mcss.Minify)
		m.Add("text/html", &mhtml.Minifier{KeepDocumentTags: true, KeepEndTags: true, KeepQuotes: true})
		c.minifier = m
	}
}

func New(opts ...Option) (*Compositor, error) {
	tpl, err := template.New("resume").Parse(layoutSource)
	if err != nil {
		return nil, fmt.Errorf("compose: parse layout: %w", err)
	}
	c := &Compositor{tpl: tpl, defaultLocale: english.Lang}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// ResolveLocale returns the supported locale a resume will be rendered in.
func (c *Compositor) ResolveLocale(locale string) string {
	if strings.TrimSpace(locale) == "" {
		locale = c.defaultLocale
	}
	return labelsFor(locale).Lang
}

// Compose renders r with t.
func (c *Compositor) Compose(r *model.Resume, t templates.Template) (string, error) {
	if r == nil {
		return "", errors.New("compose: nil resume")
	}
	v := buildView(r, t, labelsFor(c.ResolveLocale(r.Locale)))

	var buf bytes.Buffer
	if err := c.tpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("compose: execute layout: %w", err)
	}
	if c.minifier == nil {
		return buf.String(), nil
	}
	out, err := c.minifier.String("text/html", buf.String())
	if err != nil {
		return "", fmt.Errorf("compose: minify: %w", err)
	}
	return out, nil
}

type theme struct {
	Primary      template.CSS
	Secondary    template.CSS
	Accent       template.CSS
	Text         template.CSS
	Background   template.CSS
	HeaderHeight template.CSS
	Spacing      template.CSS
	SectionGap   template.CSS
	HeadingFont  template.CSS
	BodyFont     template.CSS
}

type link struct {
	Label string
	Text  string
	URL   string
}

type entry struct {
	Title       string
	Subtitle    string
	Location    string
	Dates       string
	Description string
}

type skillGroup struct {
	Title  string
	Skills []string
}

type languageItem struct {
	Name  string
	Level string
}

type view struct {
	Lang        string
	Title       string
	Theme       theme
	HeaderStyle templates.HeaderStyle
	Labels      *Labels
	Name        string
	Contacts    []string
	Links       []link
	Summary     string
	Experiences []entry
	Educations  []entry
	SkillGroups []skillGroup
	Languages   []languageItem
}

func buildView(r *model.Resume, t templates.Template, l *Labels) view {
	p := r.Personal
	v := view{
		Lang:        l.Lang,
		Title:       firstNonEmpty(r.Title, p.FullName, l.DocumentTitle),
		Theme:       themeOf(t),
		HeaderStyle: t.Header,
		Labels:      l,
		Name:        firstNonEmpty(p.FullName, l.NamePlaceholder),
		Summary:     strings.TrimSpace(p.Summary),
	}
	if v.HeaderStyle == "" {
		v.HeaderStyle = templates.HeaderGradient
	}

	for _, c := range []string{p.Email, p.Phone, p.Address, p.Location()} {
		if c = strings.TrimSpace(c); c != "" {
			v.Contacts = append(v.Contacts, c)
		}
	}
	for _, s := range []struct{ label, raw string }{
		{l.LinkedIn, p.LinkedIn},
		{l.GitHub, p.GitHub},
		{l.Website, p.Website},
	} {
		if lk, ok := newLink(s.label, s.raw); ok {
			v.Links = append(v.Links, lk)
		}
	}

	for _, e := range r.Experiences {
		v.Experiences = append(v.Experiences, entry{
			Title:       e.Position,
			Subtitle:    e.Company,
			Location:    e.Location,
			Dates:       l.dateRange(e.StartDate, e.EndDate, e.Current),
			Description: strings.TrimSpace(e.Description),
		})
	}
	for _, e := range r.Educations {
		title := e.Degree
		if e.Field != "" {
			title = e.Degree + " " + l.FieldJoin + " " + e.Field
		}
		v.Educations = append(v.Educations, entry{
			Title:       title,
			Subtitle:    e.Institution,
			Location:    e.Location,
			Dates:       l.dateRange(e.StartDate, e.EndDate, e.Current),
			Description: strings.TrimSpace(e.Description),
		})
	}

	v.SkillGroups = groupSkills(r.Skills, l)

	for _, lang := range r.Languages {
		v.Languages = append(v.Languages, languageItem{Name: lang.Name, Level: l.languageLevel(lang.Level)})
	}
	return v
}

// groupSkills buckets skills by category in the fixed category order,
// keeping input order inside each bucket and dropping empty buckets.
func groupSkills(skills []model.Skill, l *Labels) []skillGroup {
	if len(skills) == 0 {
		return nil
	}
	buckets := make(map[skillCategory][]string, len(skillCategories))
	for _, s := range skills {
		badge := s.Name
		if s.Level != "" {
			badge = s.Name + " (" + l.skillLevel(s.Level) + ")"
		}
		cat := categoryOf(s.Category)
		buckets[cat] = append(buckets[cat], badge)
	}
	var out []skillGroup
	for _, cat := range skillCategories {
		if names := buckets[cat]; len(names) > 0 {
			out = append(out, skillGroup{Title: l.Categories[cat], Skills: names})
		}
	}
	return out
}

// Template values come from the static catalog, not from users, so they
// are marked as trusted CSS.
func themeOf(t templates.Template) theme {
	return theme{
		Primary:      template.CSS(t.Colors.Primary),
		Secondary:    template.CSS(t.Colors.Secondary),
		Accent:       template.CSS(t.Colors.Accent),
		Text:         template.CSS(t.Colors.Text),
		Background:   template.CSS(t.Colors.Background),
		HeaderHeight: template.CSS(t.Layout.HeaderHeight),
		Spacing:      template.CSS(t.Layout.Spacing),
		SectionGap:   template.CSS(t.Layout.SectionGap),
		HeadingFont:  template.CSS(t.Fonts.Heading),
		BodyFont:     template.CSS(t.Fonts.Body),
	}
}

// newLink normalizes a profile URL and derives a short display text such
// as "linkedin.com/in/jane".
func newLink(label, raw string) (link, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return link{}, false
	}
	u := raw
	if !strings.Contains(u, "://") {
		u = "https://" + u
	}
	parsed, err := url.Parse(u)
	if err != nil || parsed.Hostname() == "" {
		return link{Label: label, Text: raw}, true
	}
	// eTLD+1 for tidy labels: "br.linkedin.com" shows as "linkedin.com".
	host := strings.ToLower(parsed.Hostname())
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		host = etld1
	}
	host = strings.TrimPrefix(host, "www.")
	text := host
	if p := strings.Trim(parsed.EscapedPath(), "/"); p != "" {
		text = host + "/" + p
	}
	return link{Label: label, Text: text, URL: parsed.String()}, true
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
