package model

import "time"

// Go models for the render input. They match resume.schema.json, which is
// used to validate payloads before rendering.

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "BEGINNER"
	SkillIntermediate SkillLevel = "INTERMEDIATE"
	SkillAdvanced     SkillLevel = "ADVANCED"
	SkillExpert       SkillLevel = "EXPERT"
)

type LanguageLevel string

const (
	LanguageBasic        LanguageLevel = "BASIC"
	LanguageIntermediate LanguageLevel = "INTERMEDIATE"
	LanguageAdvanced     LanguageLevel = "ADVANCED"
	LanguageFluent       LanguageLevel = "FLUENT"
	LanguageNative       LanguageLevel = "NATIVE"
)

type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

type Experience struct {
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	Location    string     `json:"location,omitempty"`
	StartDate   YearMonth  `json:"startDate"`
	EndDate     *YearMonth `json:"endDate,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type Education struct {
	Institution string     `json:"institution"`
	Degree      string     `json:"degree"`
	Field       string     `json:"field,omitempty"`
	Location    string     `json:"location,omitempty"`
	StartDate   YearMonth  `json:"startDate"`
	EndDate     *YearMonth `json:"endDate,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type Skill struct {
	Name     string     `json:"name"`
	Level    SkillLevel `json:"level"`
	Category string     `json:"category,omitempty"`
}

type Language struct {
	Name  string        `json:"name"`
	Level LanguageLevel `json:"level"`
}

// Resume is a fully hydrated resume as handed over by the persistence
// layer. Slice order is the display order.
type Resume struct {
	ID          string       `json:"id,omitempty"`
	Title       string       `json:"title,omitempty"`
	TemplateID  string       `json:"templateId,omitempty"`
	Locale      string       `json:"locale,omitempty"`
	Personal    PersonalInfo `json:"personalInfo"`
	Experiences []Experience `json:"experiences"`
	Educations  []Education  `json:"educations"`
	Skills      []Skill      `json:"skills"`
	Languages   []Language   `json:"languages"`
	UpdatedAt   time.Time    `json:"updatedAt,omitempty"`
}

// Location joins city and state the way the header displays them.
func (p PersonalInfo) Location() string {
	switch {
	case p.City != "" && p.State != "":
		return p.City + ", " + p.State
	case p.City != "":
		return p.City
	default:
		return p.State
	}
}
