package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pwd-tools/tender-cli/internal/dateparse"
	"github.com/pwd-tools/tender-cli/internal/directory"
	"github.com/pwd-tools/tender-cli/internal/evaluate"
	"github.com/pwd-tools/tender-cli/internal/finance"
	"github.com/pwd-tools/tender-cli/internal/model"
)

var (
	evaluateNIT  string
	evaluateItem string
	evaluateBids []string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Record bids against a work item and rank them",
	Long: `Records a bid round for one work item, computes each bid amount from the
quoted percentage, ranks the round, and commits it. Bidders are folded into
the persistent bidder directory.

Each --bid takes "NAME|ADDRESS|PERCENTAGE", e.g. --bid "M/s Sharma|Udaipur|-5.00".
A known bidder's address may be omitted: --bid "M/s Sharma||-5.00".`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		batch, err := st.GetBatch(ctx, evaluateNIT)
		if err != nil {
			return eris.Wrapf(err, "load batch %s", evaluateNIT)
		}
		work, ok := batch.Work(evaluateItem)
		if !ok {
			return eris.Errorf("no item %s in NIT %s", evaluateItem, evaluateNIT)
		}

		dir, err := directory.Open(cfg.Directory.Path)
		if err != nil {
			return eris.Wrap(err, "open bidder directory")
		}

		today := dateparse.FormatDisplay(time.Now())
		var bids model.BidSet
		for _, spec := range evaluateBids {
			bid, err := parseBidSpec(work, dir, spec, today)
			if err != nil {
				return err
			}
			bids = append(bids, bid)
		}

		if err := evaluate.CheckDistinctBidders(bids); err != nil {
			return err
		}
		ranked := evaluate.Rank(bids)

		round := &model.BidRound{
			BatchID: batch.ID,
			ItemNo:  work.ItemNo,
			Bids:    bids,
		}
		if err := st.SaveRound(ctx, round); err != nil {
			return eris.Wrap(err, "save bid round")
		}
		if err := dir.Commit(bids, today); err != nil {
			return eris.Wrap(err, "update bidder directory")
		}

		zap.L().Info("bid round committed",
			zap.String("nit", batch.NITNumber),
			zap.String("item", work.ItemNo),
			zap.Int("bids", len(bids)),
		)

		fmt.Printf("NIT %s item %s: %d bid(s) against Rs. %s\n",
			batch.NITNumber, work.ItemNo, len(bids), finance.FormatCurrency(work.EstimatedCost))
		for _, row := range finance.ComparisonRows(ranked, work.EstimatedCost) {
			fmt.Printf("  L%-2d %-30s %+7.2f%% %-5s Rs. %s\n",
				row.Rank, row.BidderName, row.Percentage, row.RateLabel,
				finance.FormatCurrency(row.BidAmount))
		}
		return nil
	},
}

// parseBidSpec decodes one --bid flag value. The address falls back to the
// bidder directory for known names.
func parseBidSpec(work model.WorkRecord, dir *directory.Directory, spec, today string) (model.Bid, error) {
	parts := strings.SplitN(spec, "|", 3)
	if len(parts) != 3 {
		return model.Bid{}, eris.Errorf("bid %q: want NAME|ADDRESS|PERCENTAGE", spec)
	}

	name := strings.TrimSpace(parts[0])
	address := strings.TrimSpace(parts[1])
	if name == "" {
		return model.Bid{}, eris.Errorf("bid %q: empty bidder name", spec)
	}
	if address == "" {
		if entry, ok := dir.Get(name); ok {
			address = entry.Address
		}
	}

	pct, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return model.Bid{}, eris.Wrapf(err, "bid %q: parse percentage", spec)
	}

	return evaluate.NewBid(work, name, address, pct, today)
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateNIT, "nit", "", "NIT number (required)")
	evaluateCmd.Flags().StringVar(&evaluateItem, "item", "1", "work item number")
	evaluateCmd.Flags().StringArrayVar(&evaluateBids, "bid", nil, `bid as "NAME|ADDRESS|PERCENTAGE" (repeatable, required)`)
	_ = evaluateCmd.MarkFlagRequired("nit")
	_ = evaluateCmd.MarkFlagRequired("bid")
	rootCmd.AddCommand(evaluateCmd)
}
