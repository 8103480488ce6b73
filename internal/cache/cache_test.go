package cache

import (
	"fmt"
	"testing"
	"time"

	"resume-renderer/internal/model"
)

func baseResume() *model.Resume {
	return &model.Resume{
		ID:         "r-1",
		TemplateID: "modern-minimal",
		Personal:   model.PersonalInfo{FullName: "Jane Doe", Email: "jane@example.com"},
		Experiences: []model.Experience{
			{Company: "Tech Co", Position: "Engineer", StartDate: model.NewYearMonth(2022, time.January), Current: true},
			{Company: "Old Co", Position: "Intern", StartDate: model.NewYearMonth(2020, time.March)},
		},
		Skills: []model.Skill{{Name: "Go", Level: model.SkillExpert, Category: "technical"}},
	}
}

func mustFingerprint(t *testing.T, templateID, locale string, r *model.Resume) string {
	t.Helper()
	key, err := Fingerprint(templateID, locale, r)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	return key
}

func TestFingerprintIgnoresIdentityAndTimestamps(t *testing.T) {
	a := baseResume()
	b := baseResume()
	b.ID = "r-2"
	b.UpdatedAt = time.Now()
	if mustFingerprint(t, "modern-minimal", "en", a) != mustFingerprint(t, "modern-minimal", "en", b) {
		t.Fatal("identical content must share a key")
	}
	c := baseResume()
	c.Skills, c.Languages = nil, []model.Language{}
	d := baseResume()
	d.Skills, d.Languages = []model.Skill{}, nil
	if mustFingerprint(t, "x", "en", c) != mustFingerprint(t, "x", "en", d) {
		t.Fatal("nil and empty lists must share a key")
	}
}

func TestFingerprintChangesWithContent(t *testing.T) {
	base := mustFingerprint(t, "modern-minimal", "en", baseResume())

	mutations := map[string]func(r *model.Resume){
		"name":        func(r *model.Resume) { r.Personal.FullName = "Jane Q. Doe" },
		"title":       func(r *model.Resume) { r.Title = "Backend" },
		"current":     func(r *model.Resume) { r.Experiences[0].Current = false },
		"skill level": func(r *model.Resume) { r.Skills[0].Level = model.SkillAdvanced },
		"order": func(r *model.Resume) {
			r.Experiences[0], r.Experiences[1] = r.Experiences[1], r.Experiences[0]
		},
	}
	for name, mutate := range mutations {
		r := baseResume()
		mutate(r)
		if mustFingerprint(t, "modern-minimal", "en", r) == base {
			t.Fatalf("%s: expected a different key", name)
		}
	}
	if mustFingerprint(t, "tech-developer", "en", baseResume()) == base {
		t.Fatal("template id must be part of the key")
	}
	if mustFingerprint(t, "modern-minimal", "pt-BR", baseResume()) == base {
		t.Fatal("locale must be part of the key")
	}
	if len(base) != 64 {
		t.Fatalf("expected hex sha-256, got %q", base)
	}
}

func TestFingerprintNilResume(t *testing.T) {
	if _, err := Fingerprint("x", "en", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestGetSetAndStats(t *testing.T) {
	c := New(0, 0)
	if _, ok := c.Get("k"); ok {
		t.Fatal("empty cache returned a hit")
	}
	c.Set("k", "<html></html>")
	got, ok := c.Get("k")
	if !ok || got != "<html></html>" {
		t.Fatalf("Get = %q, %v", got, ok)
	}
	st := c.Stats()
	if st.Size != 1 || st.MaxSize != DefaultSize || st.Hits != 1 || st.Misses != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after purge, got %d", c.Len())
	}
	if c.Stats().Hits != 1 {
		t.Fatal("purge must not reset counters")
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), "v")
	}
	// Touch k0 so k1 becomes the eviction candidate.
	if _, ok := c.Get("k0"); !ok {
		t.Fatal("k0 missing")
	}
	c.Set("k3", "v")
	if c.Len() != 3 {
		t.Fatalf("expected bound of 3, got %d", c.Len())
	}
	if _, ok := c.Get("k1"); ok {
		t.Fatal("k1 should have been evicted")
	}
	for _, k := range []string{"k0", "k2", "k3"} {
		if _, ok := c.Get(k); !ok {
			t.Fatalf("%s should still be cached", k)
		}
	}
}

func TestEntriesExpire(t *testing.T) {
	c := New(10, 50*time.Millisecond)
	c.Set("k", "v")
	if _, ok := c.Get("k"); !ok {
		t.Fatal("fresh entry missing")
	}
	time.Sleep(120 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry returned")
	}
}
