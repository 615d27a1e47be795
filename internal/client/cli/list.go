package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/certshowcase/internal/catalog"
	"github.com/dmitrijs2005/certshowcase/internal/common"
)

func (a *App) listCommand() *cobra.Command {
	cr := catalog.DefaultCriteria()
	var sortBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the public listing, filtered and sorted by the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := catalog.ParseSort(sortBy)
			if err != nil {
				return err
			}
			cr.SortBy = mode
			return a.List(cmd.Context(), cr)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&cr.Search, "search", "", "case-insensitive match on title or issuer")
	fl.StringVar(&cr.Issuer, "issuer", common.FilterAll, "exact issuer")
	fl.StringVar(&cr.Type, "type", common.FilterAll, "certification, badge or qualification")
	fl.StringVar(&cr.Status, "status", common.FilterAll, "completed or in_progress")
	fl.StringVar(&sortBy, "sort", string(catalog.SortNewest), "newest, oldest, title or issuer")
	return cmd
}

// List prints the records matching cr as the server filters and orders them.
func (a *App) List(ctx context.Context, cr catalog.Criteria) error {
	records, err := a.api.SearchCertifications(ctx, cr)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No certifications match the current filters.")
		return nil
	}
	a.printTable(records)
	return nil
}
