package cli

import (
	"context"
	"fmt"

	"github.com/andy/jobtrack/internal/catalog"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the parts and labour catalogs",
	Long: `Fetch and display the remote parts and labour catalogs.

When the remote catalog is unreachable, cached or built-in sample data
is shown with a warning.`,
}

var catalogPartsCmd = &cobra.Command{
	Use:   "parts",
	Short: "List the parts catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")
		return printCatalog(catalog.KindParts, refresh)
	},
}

var catalogLabourCmd = &cobra.Command{
	Use:   "labour",
	Short: "List the labour catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")
		return printCatalog(catalog.KindLabour, refresh)
	},
}

func printCatalog(kind catalog.Kind, refresh bool) error {
	ctx := context.Background()

	if refresh {
		appInstance.Catalog.Invalidate(kind)
	}

	res := appInstance.Catalog.Fetch(ctx, kind)
	if res.Err != nil {
		fmt.Printf("Warning: %v\n\n", res.Err)
	}

	if len(res.Data) == 0 {
		fmt.Println("No catalog items found")
		return nil
	}

	fmt.Printf("%-12s %-35s %10s %-20s\n", "ID", "Name", "Price", "Category")
	fmt.Println("--------------------------------------------------------------------------------")

	for _, item := range res.Data {
		fmt.Printf("%-12s %-35s %10s %-20s\n",
			item.ID,
			truncate(item.Name, 35),
			item.UnitPrice,
			truncate(item.Category, 20),
		)
	}

	fmt.Printf("\nTotal: %d item(s)\n", len(res.Data))
	return nil
}

func init() {
	catalogCmd.AddCommand(catalogPartsCmd)
	catalogCmd.AddCommand(catalogLabourCmd)

	catalogPartsCmd.Flags().Bool("refresh", false, "Bypass the cache and fetch fresh data")
	catalogLabourCmd.Flags().Bool("refresh", false, "Bypass the cache and fetch fresh data")
}
