package render

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"resume-renderer/internal/domain"
	"resume-renderer/internal/model"
	"resume-renderer/internal/rendertest"
	"resume-renderer/pkg/infrastructure"

	"github.com/ledongthuc/pdf"
)

func techResume() *model.Resume {
	stale := model.NewYearMonth(2023, time.June)
	return &model.Resume{
		ID:       "r-42",
		Personal: model.PersonalInfo{FullName: "Jane Doe", Summary: "Engineer who ships."},
		Experiences: []model.Experience{{
			Company:   "Tech Co",
			Position:  "Engineer",
			StartDate: model.NewYearMonth(2022, time.January),
			EndDate:   &stale,
			Current:   true,
		}},
	}
}

func newDriver(t *testing.T, l *rendertest.Launcher, idle time.Duration, mutate ...func(*Config)) *Driver {
	t.Helper()
	cfg := Config{Pool: infrastructure.NewBrowserPool(l.Launch, idle)}
	for _, m := range mutate {
		m(&cfg)
	}
	d, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func pdfText(t *testing.T, data []byte) string {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open pdf: %v", err)
	}
	rd, err := r.GetPlainText()
	if err != nil {
		t.Fatalf("extract text: %v", err)
	}
	raw, err := io.ReadAll(rd)
	if err != nil {
		t.Fatalf("read text: %v", err)
	}
	return string(raw)
}

func TestGeneratePDFEndToEnd(t *testing.T) {
	l := rendertest.NewLauncher()
	d := newDriver(t, l, time.Minute)

	out, err := d.GeneratePDF(context.Background(), techResume(), "modern-minimal")
	if err != nil {
		t.Fatalf("GeneratePDF: %v", err)
	}
	text := pdfText(t, out)
	for _, want := range []string{"Tech Co", "Engineer", "Present"} {
		if !strings.Contains(text, want) {
			t.Fatalf("pdf text missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "2023") {
		t.Fatalf("stale end date rendered:\n%s", text)
	}

	opts := l.LastOptions()
	if opts != infrastructure.A4(0.5) {
		t.Fatalf("unexpected page geometry %+v", opts)
	}
}

func TestGeneratePDFPortuguese(t *testing.T) {
	l := rendertest.NewLauncher()
	d := newDriver(t, l, time.Minute)

	r := techResume()
	r.Locale = "pt-BR"
	out, err := d.GeneratePDF(context.Background(), r, "")
	if err != nil {
		t.Fatalf("GeneratePDF: %v", err)
	}
	text := pdfText(t, out)
	for _, want := range []string{"Resumo Profissional", "Atual", "Tech Co"} {
		if !strings.Contains(text, want) {
			t.Fatalf("pdf text missing %q:\n%s", want, text)
		}
	}
}

func TestUnknownTemplateFallsBack(t *testing.T) {
	l := rendertest.NewLauncher()
	d := newDriver(t, l, time.Minute)

	if _, err := d.GeneratePDF(context.Background(), techResume(), "nonexistent-template-id"); err != nil {
		t.Fatalf("expected fallback render, got %v", err)
	}
	a, _ := d.ComposeHTML(techResume(), "nonexistent-template-id")
	b, _ := d.ComposeHTML(techResume(), d.Templates().Default().ID)
	if a != b {
		t.Fatal("fallback should render exactly like the default template")
	}
}

func TestCacheHitsAndMisses(t *testing.T) {
	l := rendertest.NewLauncher()
	d := newDriver(t, l, time.Minute)
	ctx := context.Background()

	if _, err := d.GeneratePDF(ctx, techResume(), "tech-developer"); err != nil {
		t.Fatalf("GeneratePDF: %v", err)
	}
	reloaded := techResume()
	reloaded.ID = "r-43"
	reloaded.UpdatedAt = time.Now()
	if _, err := d.GeneratePDF(ctx, reloaded, "tech"); err != nil {
		t.Fatalf("GeneratePDF: %v", err)
	}
	if st := d.Stats().Cache; st.Hits != 1 || st.Misses != 1 || st.Size != 1 {
		t.Fatalf("expected a hit for identical content, got %+v", st)
	}

	changed := techResume()
	changed.Experiences[0].Description = "Led the platform team."
	if _, err := d.GeneratePDF(ctx, changed, "tech-developer"); err != nil {
		t.Fatalf("GeneratePDF: %v", err)
	}
	if st := d.Stats().Cache; st.Misses != 2 || st.Size != 2 {
		t.Fatalf("expected a miss after editing a field, got %+v", st)
	}
}

func TestLoadFailureDiscardsBrowser(t *testing.T) {
	l := rendertest.NewLauncher()
	d := newDriver(t, l, time.Minute)
	ctx := context.Background()

	l.FailLoad(errors.New("navigation crashed"))
	out, err := d.GeneratePDF(ctx, techResume(), "")
	if out != nil {
		t.Fatal("failed render returned bytes")
	}
	if !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
	var re *Error
	if !errors.As(err, &re) || re.Stage != StageLoad {
		t.Fatalf("expected load stage, got %v", err)
	}
	if !l.Browser(0).Closed() {
		t.Fatal("browser survived a failed render")
	}

	if _, err := d.GeneratePDF(ctx, techResume(), ""); err != nil {
		t.Fatalf("next render should succeed on a fresh browser: %v", err)
	}
	if l.Launches() != 2 {
		t.Fatalf("expected relaunch, got %d launches", l.Launches())
	}
}

func TestPrintFailuresAreRenderErrors(t *testing.T) {
	cases := []struct {
		name   string
		inject func(*rendertest.Launcher)
		stage  Stage
	}{
		{"print error", func(l *rendertest.Launcher) { l.FailPrint(errors.New("printing failed")) }, StagePrint},
		{"corrupt output", func(l *rendertest.Launcher) { l.CorruptPrint() }, StageValidate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := rendertest.NewLauncher()
			d := newDriver(t, l, time.Minute)
			tc.inject(l)

			out, err := d.GeneratePDF(context.Background(), techResume(), "")
			if out != nil || !errors.Is(err, ErrRender) {
				t.Fatalf("expected ErrRender without bytes, got %d bytes, %v", len(out), err)
			}
			if stageOf(err) != tc.stage {
				t.Fatalf("stage = %q, want %q", stageOf(err), tc.stage)
			}
			if d.Stats().Pool.Running {
				t.Fatal("browser not discarded")
			}
			if _, err := d.GeneratePDF(context.Background(), techResume(), ""); err != nil {
				t.Fatalf("recovery render: %v", err)
			}
		})
	}
}

func TestLaunchFailureIsRenderError(t *testing.T) {
	l := rendertest.NewLauncher()
	l.FailLaunch(errors.New("chrome not found"))
	d := newDriver(t, l, time.Minute)

	_, err := d.GeneratePDF(context.Background(), techResume(), "")
	if !errors.Is(err, ErrRender) || !errors.Is(err, infrastructure.ErrBrowserUnavailable) {
		t.Fatalf("expected ErrRender wrapping ErrBrowserUnavailable, got %v", err)
	}
	if stageOf(err) != StageAcquire {
		t.Fatalf("unexpected stage %q", stageOf(err))
	}
	if _, err := d.GeneratePDF(context.Background(), techResume(), ""); err != nil {
		t.Fatalf("retry should launch a browser: %v", err)
	}
}

func TestIdleTeardownThenRender(t *testing.T) {
	l := rendertest.NewLauncher()
	d := newDriver(t, l, 30*time.Millisecond)
	ctx := context.Background()

	if _, err := d.GeneratePDF(ctx, techResume(), ""); err != nil {
		t.Fatalf("GeneratePDF: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for l.Running() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("browser was not torn down after the idle window")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, err := d.GeneratePDF(ctx, techResume(), ""); err != nil {
		t.Fatalf("render after idle teardown: %v", err)
	}
	if l.Launches() != 2 {
		t.Fatalf("expected a new browser, got %d launches", l.Launches())
	}
}

func TestConcurrentRendersShareBrowser(t *testing.T) {
	l := rendertest.NewLauncher()
	l.SetLoadDelay(5 * time.Millisecond)
	d := newDriver(t, l, time.Minute)

	var wg sync.WaitGroup
	errs := make(chan error, 12)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := techResume()
			if i%2 == 0 {
				r.Personal.FullName = "John Roe"
			}
			if _, err := d.GeneratePDF(context.Background(), r, ""); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("GeneratePDF: %v", err)
	}
	if l.Launches() != 1 {
		t.Fatalf("expected one shared browser, got %d", l.Launches())
	}
	if st := d.Stats(); st.Pool.ActivePages != 0 || st.Cache.Size != 2 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

type memRecorder struct {
	mu   sync.Mutex
	jobs []domain.RenderJob
}

func (m *memRecorder) Save(_ context.Context, j *domain.RenderJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, *j)
	return nil
}

type memArchive struct {
	mu   sync.Mutex
	keys []string
}

func (m *memArchive) Put(_ context.Context, key, contentType string, data []byte) (string, error) {
	if contentType != "application/pdf" || !bytes.HasPrefix(data, []byte("%PDF")) {
		return "", errors.New("unexpected artifact")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys = append(m.keys, key)
	return "mem://" + key, nil
}

func TestRecorderAndArchive(t *testing.T) {
	l := rendertest.NewLauncher()
	rec := &memRecorder{}
	arc := &memArchive{}
	d := newDriver(t, l, time.Minute, func(c *Config) {
		c.Recorder = rec
		c.Archive = arc
	})
	ctx := context.Background()

	if _, err := d.GeneratePDF(ctx, techResume(), "executive"); err != nil {
		t.Fatalf("GeneratePDF: %v", err)
	}
	l.FailLoad(errors.New("boom"))
	_, _ = d.GeneratePDF(ctx, techResume(), "executive")

	if len(rec.jobs) != 2 {
		t.Fatalf("expected 2 recorded jobs, got %d", len(rec.jobs))
	}
	ok, failed := rec.jobs[0], rec.jobs[1]
	if ok.Status != domain.RenderStatusSucceeded || ok.TemplateID != "executive-premium" || ok.ResumeID != "r-42" || ok.Bytes == 0 || ok.CacheHit {
		t.Fatalf("unexpected success job %+v", ok)
	}
	if !strings.HasPrefix(ok.ArtifactKey, "mem://") || !strings.HasSuffix(ok.ArtifactKey, "-jane-doe.pdf") {
		t.Fatalf("unexpected artifact key %q", ok.ArtifactKey)
	}
	if failed.Status != domain.RenderStatusFailed || failed.Stage != string(StageLoad) || !failed.CacheHit || failed.Error == "" {
		t.Fatalf("unexpected failure job %+v", failed)
	}
	if len(arc.keys) != 1 {
		t.Fatalf("expected only the successful render archived, got %v", arc.keys)
	}
}

func TestComposeHTMLNilResume(t *testing.T) {
	d := newDriver(t, rendertest.NewLauncher(), time.Minute)
	_, err := d.ComposeHTML(nil, "")
	if !errors.Is(err, ErrComposition) || !errors.Is(err, ErrRender) {
		t.Fatalf("expected composition render error, got %v", err)
	}
	if _, err := d.GeneratePDF(context.Background(), nil, ""); stageOf(err) != StageCompose {
		t.Fatalf("expected compose stage, got %v", err)
	}
}

func TestCloseReleasesEverything(t *testing.T) {
	l := rendertest.NewLauncher()
	d := newDriver(t, l, time.Minute)

	if _, err := d.GeneratePDF(context.Background(), techResume(), ""); err != nil {
		t.Fatalf("GeneratePDF: %v", err)
	}
	d.Close()
	if st := d.Stats(); st.Cache.Size != 0 || st.Pool.Running {
		t.Fatalf("unexpected stats after close %+v", st)
	}
	if l.Running() != 0 {
		t.Fatal("browser still running after close")
	}
	if _, err := d.GeneratePDF(context.Background(), techResume(), ""); stageOf(err) != StageAcquire {
		t.Fatalf("expected acquire failure after close, got %v", err)
	}
}

func TestNewRequiresPool(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error without pool")
	}
}
