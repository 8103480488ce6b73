package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"resume-renderer/internal/config"
	"resume-renderer/internal/model"
	"resume-renderer/internal/render"
	infra "resume-renderer/pkg/infrastructure"

	"github.com/spf13/cobra"
)

type renderFlags struct {
	in         string
	templateID string
	out        string
	html       bool
}

func newRenderCmd() *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a resume JSON file",
		Long: `Render validates a resume JSON document and writes it as a PDF, or as the
composed HTML with --html.

Examples:
  resumectl render --in resume.json
  resumectl render --in - --template tech --out cv.pdf < resume.json
  resumectl render --in resume.json --html --out preview.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.in, "in", "", "Resume JSON file, - for stdin")
	cmd.Flags().StringVar(&f.templateID, "template", "", "Template id (default: the catalog default)")
	cmd.Flags().StringVar(&f.out, "out", "", "Output file (default: derived from the resume title)")
	cmd.Flags().BoolVar(&f.html, "html", false, "Write the composed HTML instead of a PDF")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runRender(cmd *cobra.Command, f renderFlags) error {
	raw, err := readInput(cmd, f.in)
	if err != nil {
		return err
	}
	r, err := model.Decode(raw)
	if err != nil {
		return err
	}

	cfg := config.Load()
	pdf := infra.A4(cfg.MarginInches)
	if cfg.Paper == "LETTER" {
		pdf = infra.Letter(cfg.MarginInches)
	}
	pool := infra.NewBrowserPool(infra.NewChromeLauncher(infra.ChromeOptions{ExecPath: cfg.ChromePath}), cfg.BrowserIdleTimeout)
	driver, err := render.New(render.Config{
		Pool:          pool,
		PDF:           pdf,
		Timeout:       cfg.RenderTimeout,
		MinifyHTML:    cfg.MinifyHTML,
		DefaultLocale: cfg.DefaultLocale,
	})
	if err != nil {
		return err
	}
	defer driver.Close()

	var (
		out []byte
		ext = "pdf"
	)
	if f.html {
		ext = "html"
		doc, err := driver.ComposeHTML(r, f.templateID)
		if err != nil {
			return err
		}
		out = []byte(doc)
	} else {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if out, err = driver.GeneratePDF(ctx, r, f.templateID); err != nil {
			return err
		}
	}

	path := f.out
	if path == "" {
		path = r.FileName(ext)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, len(out))
	return nil
}

func readInput(cmd *cobra.Command, in string) ([]byte, error) {
	if in == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return b, nil
	}
	b, err := os.ReadFile(in)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	return b, nil
}
