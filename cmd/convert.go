// Package cmd — convert command.
// This is the main command that orchestrates the pipeline:
// load → rewrite → (embed) → assemble → write, plus optional companion exports.
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/wikimirror/config"
	"github.com/gaurav-prasanna/wikimirror/core"
	"github.com/gaurav-prasanna/wikimirror/core/fetch"
	"github.com/gaurav-prasanna/wikimirror/core/mirror"
	"github.com/gaurav-prasanna/wikimirror/core/normalize"
	"github.com/gaurav-prasanna/wikimirror/core/output"
	"github.com/gaurav-prasanna/wikimirror/core/render"
	"github.com/gaurav-prasanna/wikimirror/logger"
)

// Flag variables.
var (
	flagOffline     bool
	flagMarkdown    bool
	flagManifest    bool
	flagPDF         bool
	flagTimeout     time.Duration
	flagConcurrency int
)

var convertCmd = &cobra.Command{
	Use:   "convert <url_or_file> [output_file]",
	Short: "Convert a Wikipedia article into a mirror page",
	Long: `Convert fetches a Wikipedia article (or reads a saved HTML file), strips
tracking scripts and site chrome, intercepts every outbound link and writes a
single HTML page. The default output file is fake_wiki_page.html.

Examples:
  wikimirror convert https://en.wikipedia.org/wiki/Python
  wikimirror convert https://en.wikipedia.org/wiki/Python my_page.html --offline
  wikimirror convert saved_page.html output.html --markdown --manifest`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(&flagOffline, "offline", false, "Embed stylesheets, images and fonts as data URIs")

	// Companion exports, written next to the HTML output.
	convertCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Also write the article as Markdown")
	convertCmd.Flags().BoolVar(&flagManifest, "manifest", false, "Also write a JSON manifest of links and resources")
	convertCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Also write a printable PDF handout")

	convertCmd.Flags().DurationVar(&flagTimeout, "timeout", fetch.DefaultTimeout, "Per-request timeout")
	convertCmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "Simultaneous resource downloads in offline mode (default from config)")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	var outPath string
	if len(args) > 1 {
		outPath = args[1]
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger.Debug("fetch timeout %s, concurrency %d", cfg.Fetch.Timeout, cfg.Fetch.Concurrency)

	target := outPath
	if target == "" {
		target = cfg.Output.DefaultFile
	}
	for _, r := range selectRenderers() {
		if err := output.CheckCompanion(target, r.Extension()); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	pipeline := mirror.New(fetch.New(cfg.FetchOptions()), cfg.Fetch.Concurrency)
	res, err := pipeline.Run(ctx, input, flagOffline)
	if err != nil {
		return err
	}

	writer, err := output.New(outPath, cfg.Output.DefaultFile)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}
	logger.Info("Writing to: %s", writer.HTMLPath)
	path, err := writer.WriteHTML(res.HTML)
	if err != nil {
		return err
	}

	if err := writeCompanions(writer, res); err != nil {
		return err
	}

	if n := res.Failed(); n > 0 {
		logger.Info("  %d of %d resources could not be embedded and stay external", n, len(res.Resources))
		if logger.IsVerbose() {
			for _, r := range res.Resources {
				if !r.Embedded {
					logger.Debug("%s %s: %s", r.Kind, r.Resolved, r.Err)
				}
			}
		}
	}
	if flagOffline {
		logger.Info("✓ Done! Created %s (%s)", path, output.HumanSize(len(res.HTML)))
	} else {
		logger.Info("✓ Done! Created %s", path)
	}
	return nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loader, err := configLoader()
	if err != nil {
		return nil, fmt.Errorf("initializing config loader: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cmd.Flags().Changed("timeout") {
		if flagTimeout <= 0 {
			return nil, fmt.Errorf("--timeout must be positive (got %s)", flagTimeout)
		}
		cfg.Fetch.Timeout = flagTimeout
	}
	if cmd.Flags().Changed("concurrency") {
		if flagConcurrency <= 0 {
			return nil, fmt.Errorf("--concurrency must be positive (got %d)", flagConcurrency)
		}
		cfg.Fetch.Concurrency = flagConcurrency
	}
	return cfg, nil
}

// selectRenderers creates the companion renderers requested by flags.
func selectRenderers() []core.Renderer {
	var renderers []core.Renderer
	if flagMarkdown {
		renderers = append(renderers, render.NewMarkdownRenderer())
	}
	if flagManifest {
		renderers = append(renderers, render.NewManifestRenderer())
	}
	if flagPDF {
		renderers = append(renderers, render.NewPDFRenderer())
	}
	return renderers
}

// writeCompanions renders and writes every requested companion export.
func writeCompanions(writer *output.Writer, res *mirror.Result) error {
	renderers := selectRenderers()
	if len(renderers) == 0 {
		return nil
	}

	markdown, err := normalize.New().Normalize(res.Page.Body)
	if err != nil {
		return fmt.Errorf("normalize: %w", err)
	}
	artifact := buildArtifact(res, markdown)

	for _, r := range renderers {
		data, err := r.Render(artifact)
		if err != nil {
			return fmt.Errorf("render %s: %w", r.Extension(), err)
		}
		path, err := writer.WriteCompanion(data, r.Extension())
		if err != nil {
			return err
		}
		logger.Info("✓ Written: %s", path)
	}
	return nil
}

// buildArtifact constructs the companion input from a pipeline result.
func buildArtifact(res *mirror.Result, markdown string) *core.Artifact {
	return &core.Artifact{
		Meta: core.PageMetadata{
			Source:      res.Source.Input,
			Title:       res.Page.Title,
			Offline:     res.Page.Offline,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Markdown:  markdown,
		Links:     res.Page.Links,
		Resources: res.Resources,
	}
}
