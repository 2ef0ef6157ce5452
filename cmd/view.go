package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/RoriDocs/internal/app"
	"github.com/Rorical/RoriDocs/internal/logging"
)

func newViewCmd(d *deps) *cobra.Command {
	var refresh bool

	viewCmd := &cobra.Command{
		Use:   "view [dataset]",
		Short: "Download a dataset if needed and browse it",
		Long: `Make sure the dataset is cached, refresh the others in the background
and open the browser on the requested one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, d, args[0], refresh)
		},
	}
	viewCmd.Flags().BoolVar(&refresh, "refresh", false, "download the dataset again even if cached")
	return viewCmd
}

// runView fails on an unknown key or a failed download of the requested
// dataset before any UI exists. Other datasets only produce warnings.
func runView(cmd *cobra.Command, d *deps, key string, refresh bool) error {
	ds, err := d.catalog.Resolve(key)
	if err != nil {
		return err
	}

	cfg, err := d.setup()
	if err != nil {
		return err
	}
	c := d.newCache(cfg)
	ctx := cmd.Context()

	fmt.Fprintf(cmd.OutOrStdout(), "Preparing %s in %s\n", ds.Key, c.Root())
	if err := c.Ensure(ctx, ds, refresh); err != nil {
		return fmt.Errorf("prepare dataset %s: %w", ds.Key, err)
	}

	failures := c.Prefetch(ctx, d.catalog.Others(ds.Key), false)
	keys := make([]string, 0, len(failures))
	for k := range failures {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s is not available offline: %v\n", k, failures[k])
	}

	application, err := app.NewApplication(cfg, ds, c.DocsRoot(ds), app.WithLogger(logging.Named("app")))
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer application.Stop()

	if err := d.run(application); err != nil {
		logging.L().Error("application error", zap.Error(err))
		return fmt.Errorf("application error: %w", err)
	}
	return nil
}
