package templates

import "sync"

// DefaultID is the free template used when a request names an unknown one.
const DefaultID = "professional-classic"

const (
	fontSans  = "-apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif"
	fontSerif = "Georgia, 'Times New Roman', serif"
	fontMono  = "'JetBrains Mono', 'Fira Code', Menlo, monospace"
)

var catalog = []Template{
	{
		ID:          "professional-classic",
		Name:        "Profissional Clássico",
		Description: "Elegant, traditional layout for corporate roles",
		Category:    CategoryProfessional,
		Header:      HeaderClassic,
		Colors:      Palette{Primary: "#1e40af", Secondary: "#4b5563", Accent: "#6b7280", Text: "#1f2937", Background: "#ffffff"},
		Fonts:       Fonts{Heading: fontSerif, Body: fontSans},
		Layout:      Layout{HeaderHeight: "140px", Spacing: "20px", SectionGap: "35px"},
	},
	{
		ID:          "modern-minimal",
		Name:        "Moderno Minimalista",
		Description: "Clean modern design for technology professionals",
		Category:    CategoryModern,
		Premium:     true,
		Header:      HeaderGradient,
		Colors:      Palette{Primary: "#1e40af", Secondary: "#1e3a8a", Accent: "#6b7280", Text: "#1f2937", Background: "#ffffff"},
		Fonts:       Fonts{Heading: fontSans, Body: fontSans},
		Layout:      Layout{HeaderHeight: "160px", Spacing: "20px", SectionGap: "35px"},
	},
	{
		ID:          "creative-designer",
		Name:        "Criativo Designer",
		Description: "Vivid colors and visual accents for designers and artists",
		Category:    CategoryCreative,
		Premium:     true,
		Header:      HeaderDiagonal,
		Colors:      Palette{Primary: "#7c3aed", Secondary: "#db2777", Accent: "#f59e0b", Text: "#111827", Background: "#ffffff"},
		Fonts:       Fonts{Heading: "'Poppins', " + fontSans, Body: fontSans},
		Layout:      Layout{HeaderHeight: "180px", Spacing: "22px", SectionGap: "32px"},
	},
	{
		ID:          "executive-premium",
		Name:        "Executivo Premium",
		Description: "Sophisticated layout for executive and senior management roles",
		Category:    CategoryProfessional,
		Premium:     true,
		Header:      HeaderClassic,
		Colors:      Palette{Primary: "#111827", Secondary: "#374151", Accent: "#b45309", Text: "#111827", Background: "#ffffff"},
		Fonts:       Fonts{Heading: fontSerif, Body: fontSerif},
		Layout:      Layout{HeaderHeight: "150px", Spacing: "18px", SectionGap: "30px"},
	},
	{
		ID:          "tech-developer",
		Name:        "Tech Developer",
		Description: "Technical modern layout for developers and engineers",
		Category:    CategoryModern,
		Premium:     true,
		Header:      HeaderGradient,
		Colors:      Palette{Primary: "#0f766e", Secondary: "#134e4a", Accent: "#0891b2", Text: "#0f172a", Background: "#ffffff"},
		Fonts:       Fonts{Heading: fontMono, Body: fontSans},
		Layout:      Layout{HeaderHeight: "150px", Spacing: "18px", SectionGap: "30px"},
	},
	{
		ID:          "minimal-clean",
		Name:        "Minimal Clean",
		Description: "Extremely clean and straight to the point",
		Category:    CategoryMinimal,
		Header:      HeaderMinimal,
		Colors:      Palette{Primary: "#111827", Secondary: "#4b5563", Accent: "#9ca3af", Text: "#111827", Background: "#ffffff"},
		Fonts:       Fonts{Heading: fontSans, Body: fontSans},
		Layout:      Layout{HeaderHeight: "110px", Spacing: "16px", SectionGap: "40px"},
	},
}

// Ids used by earlier versions of the editor and still stored on old resumes.
var legacyAliases = map[string]string{
	"classic":    "professional-classic",
	"modern":     "modern-minimal",
	"creative":   "creative-designer",
	"executive":  "executive-premium",
	"tech":       "tech-developer",
	"minimalist": "minimal-clean",
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide catalog, built on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := NewRegistry(DefaultID, catalog, legacyAliases)
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}
