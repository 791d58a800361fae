package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-view/internal/datafile"
)

type renderOptions struct {
	dataFile    string
	assignments []string
	noLayout    bool
	output      string
	watch       bool
	interactive bool
}

func newRenderCmd(a *app) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [template]",
		Short: "Render a template and print the result",
		Long: `Render a template found under the root directory. Attributes from the
config file are visible to every template; --data and --set values
override them. When a layout is configured the rendered template is
bound to "content" inside it.

Examples:
  view-cli render pages/home.tpl --layout layout.tpl --set title=Home
  view-cli render pages/home.tpl --data home.yaml --output home.html
  view-cli render --interactive --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runRender(cmd.Context(), args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.dataFile, "data", "d", "", "YAML or JSON file with render data")
	flags.StringArrayVarP(&opts.assignments, "set", "s", nil, "render data as key=value (repeatable)")
	flags.BoolVar(&opts.noLayout, "no-layout", false, "skip the layout pass")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "render again whenever files under the root change")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "pick the template from a list")
	return cmd
}

func (a *app) runRender(ctx context.Context, args []string, opts *renderOptions) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}

	r, err := a.newRenderer(cfg)
	if err != nil {
		return err
	}

	data, err := renderData(opts)
	if err != nil {
		return err
	}

	name, err := a.templateName(cfg.Root, args, opts.interactive)
	if err != nil {
		return err
	}

	render := func() error {
		out, err := r.Fetch(name, data, !opts.noLayout)
		if err != nil {
			return err
		}
		return a.writeOutput(opts.output, out)
	}

	if err := render(); err != nil {
		return err
	}
	if !opts.watch {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(a.stderr, cfg.Verbose)
	return watchTemplates(ctx, cfg.Root, logger, func() {
		if err := render(); err != nil {
			logger.Error("render failed", "template", name, "error", err)
		}
	}, opts.output)
}

func (a *app) templateName(root string, args []string, interactive bool) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if !interactive {
		return "", errors.New("view-cli: template name required (or use --interactive)")
	}
	names, err := listTemplates(root)
	if err != nil {
		return "", fmt.Errorf("view-cli: list templates: %w", err)
	}
	return a.picker.PickTemplate(names)
}

func (a *app) writeOutput(path, out string) error {
	if path == "" {
		_, err := fmt.Fprint(a.stdout, out)
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("view-cli: write output: %w", err)
	}
	fmt.Fprintf(a.stderr, "Rendered to %s\n", path)
	return nil
}

func renderData(opts *renderOptions) (map[string]any, error) {
	data := map[string]any{}
	if opts.dataFile != "" {
		loaded, err := datafile.Load(opts.dataFile)
		if err != nil {
			return nil, err
		}
		maps.Copy(data, loaded)
	}
	if len(opts.assignments) > 0 {
		assigned, err := datafile.ParseAssignments(opts.assignments)
		if err != nil {
			return nil, err
		}
		maps.Copy(data, assigned)
	}
	return data, nil
}
