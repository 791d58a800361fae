package main

import (
	"io"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-view/pkg/renderer"
)

type app struct {
	stdout  io.Writer
	stderr  io.Writer
	viper   *viper.Viper
	picker  templatePicker
	cfgFile string
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		viper:  viper.New(),
		picker: surveyPicker{},
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "view-cli",
		Short:         "Render templates from a directory, optionally inside a layout",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./view.yaml)")
	flags.StringP("root", "r", "", "template root directory")
	flags.StringP("layout", "l", "", "layout template, relative to the root")
	flags.BoolP("verbose", "v", false, "log debug records to stderr")

	_ = a.viper.BindPFlag("root", flags.Lookup("root"))
	_ = a.viper.BindPFlag("layout", flags.Lookup("layout"))
	_ = a.viper.BindPFlag("verbose", flags.Lookup("verbose"))

	root.AddCommand(newRenderCmd(a), newListCmd(a))
	return root
}

func (a *app) config() (Config, error) {
	return loadConfig(a.viper, a.cfgFile)
}

func (a *app) newRenderer(cfg Config) (*renderer.Renderer, error) {
	return renderer.New(cfg.Root, cfg.Attributes, cfg.Layout,
		renderer.WithLogger(newLogger(a.stderr, cfg.Verbose)),
	)
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List template files under the root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			names, err := listTemplates(cfg.Root)
			if err != nil {
				return err
			}
			for _, name := range names {
				cmd.Println(name)
			}
			return nil
		},
	}
}

// listTemplates returns every regular file under root as a slash separated
// path relative to root, skipping hidden files and directories.
func listTemplates(root string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func isHidden(name string) bool {
	return len(name) > 1 && name[0] == '.'
}
