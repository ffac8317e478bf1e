// formbuilder-preview renders a sample settings form to HTML. It is useful
// for checking template overrides, themes and presets without wiring a host
// application: pass --templates and --overrides to try local changes, or
// --serve to browse the result with its assets mounted.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"

	formbuilder "github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/components/timezones"
	"github.com/goliatone/go-formbuilder/pkg/component"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/resolve"
	"github.com/goliatone/go-formbuilder/pkg/scope"
)

type options struct {
	output    string
	templates string
	overrides string
	preset    string
	values    string
	storage   string
	serve     string
	logLevel  string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var opts options
	flagSet := pflag.NewFlagSet("formbuilder-preview", pflag.ContinueOnError)
	flagSet.StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	flagSet.StringVar(&opts.templates, "templates", "", "directory with template overrides for the vanilla renderer")
	flagSet.StringVar(&opts.overrides, "overrides", "", "directory with YAML/JSON template override files")
	flagSet.StringVar(&opts.preset, "preset", "", "YAML/JSON preset applied to the sample form")
	flagSet.StringVar(&opts.values, "values", "", "JSON file with submitted values")
	flagSet.StringVar(&opts.storage, "storage-key", "site_settings", "option storage key used for input names")
	flagSet.StringVar(&opts.serve, "serve", "", "serve the preview on this address instead of writing it")
	flagSet.StringVar(&opts.logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	if err := flagSet.Parse(args); err != nil {
		return err
	}

	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "formbuilder-preview",
		Level:  hclog.LevelFromString(opts.logLevel),
		Output: os.Stderr,
	})

	if opts.serve != "" {
		return serve(opts, logger)
	}

	page, err := renderPage(context.Background(), opts, logger)
	if err != nil {
		return err
	}
	if opts.output == "" {
		_, err = fmt.Fprintln(os.Stdout, page)
		return err
	}
	if err := os.WriteFile(opts.output, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("preview written", "path", opts.output)
	return nil
}

func serve(opts options, logger hclog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle(vanilla.DefaultAssetBaseURL+"/",
		http.StripPrefix(vanilla.DefaultAssetBaseURL+"/", http.FileServerFS(formbuilder.AssetsFS())),
	)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		page, err := renderPage(r.Context(), opts, logger)
		if err != nil {
			logger.Error("render preview", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(page))
	})

	server := &http.Server{
		Addr:              opts.serve,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("serving preview", "addr", opts.serve)
	return server.ListenAndServe()
}

func renderPage(ctx context.Context, opts options, logger hclog.Logger) (string, error) {
	storage, err := scope.Option(opts.storage)
	if err != nil {
		return "", err
	}

	registry := component.NewDefaultRegistry()
	if err := timezones.Register(registry, timezones.WithEmptyOption("Site default")); err != nil {
		return "", err
	}

	formOpts := []orchestrator.Option{
		orchestrator.WithLogger(logger),
		orchestrator.WithComponents(registry),
		orchestrator.WithScope(storage),
		orchestrator.WithAction("/options.php"),
		orchestrator.WithHidden(render.Nonce("_wpnonce", "preview")),
	}
	if opts.templates != "" {
		formOpts = append(formOpts, orchestrator.WithVanillaOptions(vanilla.WithTemplatesDir(opts.templates)))
	}
	if opts.overrides != "" {
		formOpts = append(formOpts, orchestrator.WithTemplateOverrides(os.DirFS(opts.overrides)))
	}
	if opts.preset != "" {
		data, err := os.ReadFile(opts.preset)
		if err != nil {
			return "", fmt.Errorf("read preset: %w", err)
		}
		transformer, err := orchestrator.NewPresetTransformer(data)
		if err != nil {
			return "", err
		}
		formOpts = append(formOpts, orchestrator.WithTransformer(transformer))
	}

	values, err := loadValues(opts.values)
	if err != nil {
		return "", err
	}

	form := formbuilder.NewForm("site_settings", formOpts...)
	declareSample(form)

	out, err := form.Render(ctx, formbuilder.RenderOptions{Values: values})
	if err != nil {
		return "", err
	}
	for _, failure := range out.Failures {
		logger.Warn("element fell back", "element", failure.ElementID, "template_type", failure.TemplateType, "error", failure.Err)
	}
	return page(out), nil
}

func declareSample(form *formbuilder.Form) {
	general := form.Builder().Section("general").
		Heading("General").
		Description("Basic information about the site.")
	general.MustField("title", "Site title", component.AliasText, nil).Required()
	general.MustField("tagline", "", component.AliasText, map[string]any{
		"context": map[string]any{"placeholder": "Just another site"},
	})
	general.MustField("admin_email", "Administration email", component.AliasEmail, nil).Required()
	general.MustField("timezone", "Timezone", timezones.Alias, nil)
	general.MustField("layout", "", component.AliasSelect, nil).
		MustCall("options", map[string]string{"boxed": "Boxed", "wide": "Full width"}).
		Default("wide")

	appearance := form.Builder().Section("appearance").Heading("Appearance")
	colors := appearance.Group("colors").Heading("Colors")
	colors.MustField("primary_color", "", component.AliasColor, nil)
	colors.MustField("accent_color", "", component.AliasColor, nil)
	appearance.MustField("logo", "", component.AliasMedia, nil).
		Description(resolve.String(func() string { return "PNG or SVG, at least 256px wide." }))
	appearance.MustField("show_credits", "Show footer credits", component.AliasCheckbox, nil)
	appearance.MustField("credits_text", "", component.AliasTextarea, map[string]any{
		"context": map[string]any{"visible_when": "values.show_credits == true"},
	})
}

func loadValues(path string) (map[string]any, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values: %w", err)
	}
	return values, nil
}

func page(out formbuilder.Output) string {
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>formbuilder preview</title>\n")
	for _, style := range out.Styles {
		fmt.Fprintf(&b, "<link rel=\"stylesheet\" id=\"%s\" href=\"%s\">\n", html.EscapeString(style.Handle), html.EscapeString(style.Source))
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(out.Markup)
	for _, script := range out.Scripts {
		fmt.Fprintf(&b, "\n<script id=\"%s\" src=\"%s\" defer></script>", html.EscapeString(script.Handle), html.EscapeString(script.Source))
	}
	b.WriteString("\n</body>\n</html>")
	return b.String()
}
