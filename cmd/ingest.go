package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pwd-tools/tender-cli/internal/model"
	"github.com/pwd-tools/tender-cli/internal/nit"
)

var ingestXLSXPath string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a NIT spreadsheet into the workspace",
	Long:  "Reads a Notice Inviting Tender spreadsheet, normalizes the work records, and saves them as the current batch for that NIT number. Re-ingesting the same NIT replaces the batch.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		sheet, err := nit.Read(ingestXLSXPath)
		if err != nil {
			return eris.Wrap(err, "read spreadsheet")
		}

		works, err := nit.Normalize(sheet)
		if err != nil {
			return eris.Wrap(err, "normalize spreadsheet")
		}

		// Normalize guarantees at least one surviving record.
		batch := &model.NITBatch{
			NITNumber: works[0].NITNumber,
			Works:     works,
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SaveBatch(ctx, batch); err != nil {
			return eris.Wrap(err, "save batch")
		}

		zap.L().Info("ingest complete",
			zap.String("nit", batch.NITNumber),
			zap.Int("works", len(batch.Works)),
			zap.String("file", ingestXLSXPath),
		)

		fmt.Printf("NIT %s: %d work(s) ingested\n", batch.NITNumber, len(batch.Works))
		for _, w := range batch.Works {
			fmt.Printf("  item %-4s Rs. %.2f  %s\n", w.ItemNo, w.EstimatedCost, w.WorkName)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestXLSXPath, "file", "", "path to NIT spreadsheet (required)")
	_ = ingestCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(ingestCmd)
}
