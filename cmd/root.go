package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/RoriDocs/internal/app"
	"github.com/Rorical/RoriDocs/internal/cache"
	"github.com/Rorical/RoriDocs/internal/catalog"
	"github.com/Rorical/RoriDocs/internal/config"
	"github.com/Rorical/RoriDocs/internal/logging"
)

// deps is everything the commands reach outside the process for
type deps struct {
	loadConfig func() (*config.Config, error)
	catalog    *catalog.Catalog
	httpClient *http.Client
	confirm    func(label string) (bool, error)
	run        func(*app.Application) error
}

func defaultDeps() *deps {
	return &deps{
		loadConfig: config.LoadConfig,
		catalog:    catalog.Default(),
		confirm:    promptConfirm,
		run:        (*app.Application).Start,
	}
}

var rootCmd = newRootCmd(defaultDeps())

func newRootCmd(d *deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "roridocs [dataset]",
		Short: "Browse OpenVoiceOS documentation in the terminal",
		Long: `RoriDocs downloads the OpenVoiceOS documentation sets once, caches them
locally and opens them in a two-pane markdown browser.

Datasets: ` + strings.Join(d.catalog.Keys(), ", ") + `.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runView(cmd, d, args[0], false)
		},
	}

	root.AddCommand(newViewCmd(d))
	root.AddCommand(newDatasetsCmd(d))
	return root
}

func Execute() {
	defer func() { _ = logging.Sync() }()

	if err := rootCmd.Execute(); err != nil {
		logging.L().Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

// setup loads the config and starts file logging
func (d *deps) setup() (*config.Config, error) {
	cfg, err := d.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	err = logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: cfg.LogPath(),
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return cfg, nil
}

func (d *deps) newCache(cfg *config.Config) *cache.Cache {
	opts := []cache.Option{
		cache.WithTimeout(cfg.FetchTimeout()),
		cache.WithLogger(logging.Named("cache")),
	}
	if d.httpClient != nil {
		opts = append(opts, cache.WithHTTPClient(d.httpClient))
	}
	return cache.New(cfg.CacheRoot(), opts...)
}

func promptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	if errors.Is(err, promptui.ErrAbort) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
