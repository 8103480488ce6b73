package compose

import (
	"strconv"
	"strings"
	"time"

	"resume-renderer/internal/model"

	"golang.org/x/text/language"
)

type skillCategory int

const (
	categoryTechnical skillCategory = iota
	categoryInterpersonal
	categoryCertification
	categoryOther
)

// skillCategories is the fixed display order of skill groups.
var skillCategories = []skillCategory{categoryTechnical, categoryInterpersonal, categoryCertification, categoryOther}

// Labels is the fixed text of one locale.
type Labels struct {
	Lang            string
	DocumentTitle   string
	NamePlaceholder string
	Summary         string
	Experience      string
	Education       string
	Skills          string
	Languages       string
	Present         string
	FieldJoin       string
	LinkedIn        string
	GitHub          string
	Website         string
	Months          [12]string
	Categories      map[skillCategory]string
	SkillLevels     map[model.SkillLevel]string
	LanguageLevels  map[model.LanguageLevel]string
}

var english = &Labels{
	Lang:            "en",
	DocumentTitle:   "Resume",
	NamePlaceholder: "Your Name",
	Summary:         "Professional Summary",
	Experience:      "Professional Experience",
	Education:       "Education",
	Skills:          "Skills",
	Languages:       "Languages",
	Present:         "Present",
	FieldJoin:       "in",
	LinkedIn:        "LinkedIn",
	GitHub:          "GitHub",
	Website:         "Website",
	Months:          [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	Categories: map[skillCategory]string{
		categoryTechnical:     "Technical",
		categoryInterpersonal: "Interpersonal",
		categoryCertification: "Certifications",
		categoryOther:         "Other",
	},
	SkillLevels: map[model.SkillLevel]string{
		model.SkillBeginner:     "Beginner",
		model.SkillIntermediate: "Intermediate",
		model.SkillAdvanced:     "Advanced",
		model.SkillExpert:       "Expert",
	},
	LanguageLevels: map[model.LanguageLevel]string{
		model.LanguageBasic:        "Basic",
		model.LanguageIntermediate: "Intermediate",
		model.LanguageAdvanced:     "Advanced",
		model.LanguageFluent:       "Fluent",
		model.LanguageNative:       "Native",
	},
}

var portuguese = &Labels{
	Lang:            "pt-BR",
	DocumentTitle:   "Currículo",
	NamePlaceholder: "Seu Nome",
	Summary:         "Resumo Profissional",
	Experience:      "Experiência Profissional",
	Education:       "Formação Acadêmica",
	Skills:          "Habilidades",
	Languages:       "Idiomas",
	Present:         "Atual",
	FieldJoin:       "em",
	LinkedIn:        "LinkedIn",
	GitHub:          "GitHub",
	Website:         "Site",
	Months:          [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"},
	Categories: map[skillCategory]string{
		categoryTechnical:     "Técnicas",
		categoryInterpersonal: "Interpessoais",
		categoryCertification: "Certificações",
		categoryOther:         "Outras",
	},
	SkillLevels: map[model.SkillLevel]string{
		model.SkillBeginner:     "Iniciante",
		model.SkillIntermediate: "Intermediário",
		model.SkillAdvanced:     "Avançado",
		model.SkillExpert:       "Especialista",
	},
	LanguageLevels: map[model.LanguageLevel]string{
		model.LanguageBasic:        "Básico",
		model.LanguageIntermediate: "Intermediário",
		model.LanguageAdvanced:     "Avançado",
		model.LanguageFluent:       "Fluente",
		model.LanguageNative:       "Nativo",
	},
}

// Index order matches supportedTags.
var labelSets = []*Labels{english, portuguese}

var (
	supportedTags = []language.Tag{language.English, language.BrazilianPortuguese}
	matcher       = language.NewMatcher(supportedTags)
)

// labelsFor picks the closest supported locale, English when nothing matches.
func labelsFor(locale string) *Labels {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return english
	}
	_, idx := language.MatchStrings(matcher, locale)
	if idx < 0 || idx >= len(labelSets) {
		return english
	}
	return labelSets[idx]
}

func (l *Labels) month(ym model.YearMonth) string {
	if ym.IsZero() || ym.Month < time.January || ym.Month > time.December {
		if ym.Year != 0 {
			return strconv.Itoa(ym.Year)
		}
		return ""
	}
	return l.Months[ym.Month-1] + " " + strconv.Itoa(ym.Year)
}

// dateRange renders "{start} - {end|Present}". Current always wins over a
// stored end date.
func (l *Labels) dateRange(start model.YearMonth, end *model.YearMonth, current bool) string {
	s := l.month(start)
	var e string
	switch {
	case current:
		e = l.Present
	case end != nil:
		e = l.month(*end)
	}
	switch {
	case s != "" && e != "":
		return s + " - " + e
	case s != "":
		return s
	default:
		return e
	}
}

// Unknown levels pass through unchanged.
func (l *Labels) skillLevel(level model.SkillLevel) string {
	if v, ok := l.SkillLevels[model.SkillLevel(strings.ToUpper(string(level)))]; ok {
		return v
	}
	return string(level)
}

func (l *Labels) languageLevel(level model.LanguageLevel) string {
	if v, ok := l.LanguageLevels[model.LanguageLevel(strings.ToUpper(string(level)))]; ok {
		return v
	}
	return string(level)
}

// categoryOf maps free-form category names, in either locale, onto the
// fixed groups.
func categoryOf(raw string) skillCategory {
	switch model.Slug(raw) {
	case "technical", "tecnica", "tecnicas", "hard", "hard-skills":
		return categoryTechnical
	case "interpersonal", "interpessoal", "interpessoais", "soft", "soft-skills":
		return categoryInterpersonal
	case "certification", "certifications", "certificacao", "certificacoes":
		return categoryCertification
	default:
		return categoryOther
	}
}
