package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriDocs/internal/catalog"
)

func newDatasetsCmd(d *deps) *cobra.Command {
	datasetsCmd := &cobra.Command{
		Use:   "datasets",
		Short: "Manage cached documentation datasets",
	}

	datasetsCmd.AddCommand(
		newListDatasetsCmd(d),
		newShowDatasetCmd(d),
		newUpdateDatasetsCmd(d),
		newCleanDatasetCmd(d),
	)
	return datasetsCmd
}

func newListDatasetsCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all datasets and whether they are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := d.setup()
			if err != nil {
				return err
			}
			c := d.newCache(cfg)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Cache: %s\n\n", c.Root())
			for _, ds := range d.catalog.Datasets() {
				st, err := c.Status(ds)
				if err != nil {
					return err
				}
				state := "not cached"
				if st.Cached {
					state = fmt.Sprintf("cached, %d documents", st.Files)
				}
				fmt.Fprintf(out, "  %s (%s)\n", ds.Key, state)
				fmt.Fprintf(out, "    URL: %s\n", ds.ArchiveURL)
			}
			return nil
		},
	}
}

func newShowDatasetCmd(d *deps) *cobra.Command {
	return &cobra.Command{
		Use:   "show [dataset]",
		Short: "Show dataset details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := d.catalog.Resolve(args[0])
			if err != nil {
				return err
			}
			cfg, err := d.setup()
			if err != nil {
				return err
			}
			c := d.newCache(cfg)
			st, err := c.Status(ds)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "Dataset: %s\n", ds.Key)
			fmt.Fprintf(out, "  URL: %s\n", ds.ArchiveURL)
			if rootName, err := catalog.ArchiveRootName(ds.ArchiveURL); err == nil {
				fmt.Fprintf(out, "  Archive root: %s\n", rootName)
			}
			fmt.Fprintf(out, "  Path: %s\n", c.Path(ds))
			if !st.Cached {
				fmt.Fprintln(out, "  Cached: No")
				return nil
			}
			fmt.Fprintln(out, "  Cached: Yes")
			fmt.Fprintf(out, "  Docs: %s\n", c.DocsRoot(ds))
			fmt.Fprintf(out, "  Documents: %d\n", st.Files)
			fmt.Fprintf(out, "  Updated: %s\n", st.ModTime.Format(time.RFC3339))
			return nil
		},
	}
}

func newUpdateDatasetsCmd(d *deps) *cobra.Command {
	var all bool

	updateCmd := &cobra.Command{
		Use:   "update [dataset...]",
		Short: "Download datasets again, replacing the cached copies",
		Long: `Download the named datasets again. With --all or no names every dataset is
refreshed. Datasets are processed in order and the first failure stops the run;
a failed dataset keeps its previous cached copy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			datasets := d.catalog.Datasets()
			if !all && len(args) > 0 {
				datasets = datasets[:0:0]
				for _, key := range args {
					ds, err := d.catalog.Resolve(key)
					if err != nil {
						return err
					}
					datasets = append(datasets, ds)
				}
			}

			cfg, err := d.setup()
			if err != nil {
				return err
			}
			c := d.newCache(cfg)

			if err := c.EnsureAll(cmd.Context(), datasets, true); err != nil {
				return err
			}
			for _, ds := range datasets {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", ds.Key)
			}
			return nil
		},
	}
	updateCmd.Flags().BoolVar(&all, "all", false, "update every dataset")
	return updateCmd
}

func newCleanDatasetCmd(d *deps) *cobra.Command {
	var yes bool

	cleanCmd := &cobra.Command{
		Use:   "clean [dataset]",
		Short: "Delete a dataset's cached copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := d.catalog.Resolve(args[0])
			if err != nil {
				return err
			}
			cfg, err := d.setup()
			if err != nil {
				return err
			}
			c := d.newCache(cfg)

			if !yes {
				ok, err := d.confirm(fmt.Sprintf("Delete %s", c.Path(ds)))
				if err != nil {
					return fmt.Errorf("prompt failed: %w", err)
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			if err := c.Remove(ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", ds.Key)
			return nil
		},
	}
	cleanCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cleanCmd
}
