package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"resume-renderer/internal/model"
)

// fingerprintInput lists everything that can change the rendered document.
// Resume.ID and Resume.UpdatedAt are left out on purpose: two saves of the
// same content must share a cache entry.
type fingerprintInput struct {
	TemplateID  string             `json:"t"`
	Locale      string             `json:"l"`
	Title       string             `json:"ti"`
	Personal    model.PersonalInfo `json:"p"`
	Experiences []model.Experience `json:"x"`
	Educations  []model.Education  `json:"e"`
	Skills      []model.Skill      `json:"s"`
	Languages   []model.Language   `json:"g"`
}

// Fingerprint derives the cache key for rendering r with templateID in
// locale. templateID and locale should already be resolved so aliases and
// fallbacks map onto the same key.
func Fingerprint(templateID, locale string, r *model.Resume) (string, error) {
	if r == nil {
		return "", fmt.Errorf("cache: fingerprint of nil resume")
	}
	raw, err := json.Marshal(fingerprintInput{
		TemplateID:  templateID,
		Locale:      locale,
		Title:       r.Title,
		Personal:    r.Personal,
		Experiences: nonNil(r.Experiences),
		Educations:  nonNil(r.Educations),
		Skills:      nonNil(r.Skills),
		Languages:   nonNil(r.Languages),
	})
	if err != nil {
		return "", fmt.Errorf("cache: encode fingerprint: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// nil and empty lists render identically, so they must hash identically.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
