package cmd

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/dadao-education/unicatalog/internal/catalog"
	"github.com/spf13/cobra"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse or reset the university catalog",
	}

	cmd.AddCommand(newCatalogListCmd(opts))
	cmd.AddCommand(newCatalogShowCmd(opts))
	cmd.AddCommand(newCatalogResetCmd(opts))

	return cmd
}

func newCatalogListCmd(opts *rootOptions) *cobra.Command {
	var region string
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List universities by ranking",
		Example: `  unicatalog catalog list
  unicatalog catalog list --region 欧洲
  unicatalog catalog list --query oxford`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			repo, closeFn, err := openCatalog(cmd.Context(), cfg, opts.ephemeral)
			if err != nil {
				return err
			}
			defer closeFn()

			universities := repo.Filter(catalog.Filter{Region: region, Query: query})

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tQS\tNAME\tENGLISH NAME\tLOCATION\tPROGRAMS\tSOURCE")
			for _, u := range universities {
				programs := 0
				for _, d := range u.Departments {
					programs += len(d.Programs)
				}
				source := "bundled"
				if catalog.IsCustom(u.ID) {
					source = "imported"
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%d\t%s\n", u.ID, u.QSRanking, u.NameCN, u.NameEN, u.Location, programs, source)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&region, "region", catalog.RegionAll, "Region filter")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive name search")

	return cmd
}

func newCatalogShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print one university as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			repo, closeFn, err := openCatalog(cmd.Context(), cfg, opts.ephemeral)
			if err != nil {
				return err
			}
			defer closeFn()

			u, ok := repo.Get(args[0])
			if !ok {
				return fmt.Errorf("university not found: %s", args[0])
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(u)
		},
	}
}

func newCatalogResetCmd(opts *rootOptions) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Discard imported data and restore the bundled catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !assumeYes {
				ok, err := confirm(cmd.InOrStdin(), out, "Reset the catalog to the bundled defaults?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Reset cancelled")
					return nil
				}
			}

			repo, closeFn, err := openCatalog(cmd.Context(), cfg, opts.ephemeral)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := repo.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Catalog reset, %d universities\n", repo.Len())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Reset without asking")

	return cmd
}
