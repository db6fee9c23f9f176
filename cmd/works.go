package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pwd-tools/tender-cli/internal/session"
)

var worksNIT string

var worksCmd = &cobra.Command{
	Use:   "works",
	Short: "List the work items of an ingested NIT batch",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if worksNIT == "" {
			batches, err := st.ListBatches(ctx, session.BatchFilter{})
			if err != nil {
				return eris.Wrap(err, "list batches")
			}
			if len(batches) == 0 {
				fmt.Println("no NIT batches ingested")
				return nil
			}
			for _, b := range batches {
				fmt.Printf("NIT %-16s %d work(s)  ingested %s\n",
					b.NITNumber, len(b.Works), b.CreatedAt.Format("02-01-2006 15:04"))
			}
			return nil
		}

		batch, err := st.GetBatch(ctx, worksNIT)
		if err != nil {
			return eris.Wrapf(err, "load batch %s", worksNIT)
		}

		fmt.Printf("NIT %s  dated %s\n", batch.NITNumber, batch.Works[0].NITDate)
		for _, w := range batch.Works {
			fmt.Printf("  item %-4s Rs. %14.2f  EM %10.2f  %2d month(s)  %s\n",
				w.ItemNo, w.EstimatedCost, w.EarnestMoney, w.TimeCompletionMonths, w.WorkName)
		}
		return nil
	},
}

func init() {
	worksCmd.Flags().StringVar(&worksNIT, "nit", "", "NIT number (omit to list all batches)")
	rootCmd.AddCommand(worksCmd)
}
