package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pwd-tools/tender-cli/internal/directory"
)

var biddersSearch string

var biddersCmd = &cobra.Command{
	Use:   "bidders",
	Short: "Inspect the persistent bidder directory",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir, err := directory.Open(cfg.Directory.Path)
		if err != nil {
			return eris.Wrap(err, "open bidder directory")
		}

		names := dir.Names()
		if biddersSearch != "" {
			names = dir.Search(biddersSearch)
		}
		if len(names) == 0 {
			fmt.Println("no bidders found")
			return nil
		}

		for _, name := range names {
			e, _ := dir.Get(name)
			fmt.Printf("%-30s %-30s tenders %-3d last used %s\n",
				name, e.Address, e.TotalTenders, e.LastUsed)
		}

		s := dir.Summary()
		fmt.Printf("\n%d bidder(s); most used: %s; last updated: %s\n",
			s.TotalBidders, s.MostUsed, s.LastUpdated)
		return nil
	},
}

func init() {
	biddersCmd.Flags().StringVar(&biddersSearch, "search", "", "filter names containing this term")
	rootCmd.AddCommand(biddersCmd)
}
