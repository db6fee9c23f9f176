package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pwd-tools/tender-cli/internal/assemble"
	"github.com/pwd-tools/tender-cli/internal/render"
)

var (
	generateNIT  string
	generateItem string
	generateOut  string
	generateZip  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the tender documents for a work item",
	Long:  "Assembles the document data for a committed bid round and renders the comparative statement, letter of acceptance, work order, and scrutiny sheet. Rendering falls back from PDF to HTML per document.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		batch, err := st.GetBatch(ctx, generateNIT)
		if err != nil {
			return eris.Wrapf(err, "load batch %s", generateNIT)
		}
		work, ok := batch.Work(generateItem)
		if !ok {
			return eris.Errorf("no item %s in NIT %s", generateItem, generateNIT)
		}
		round, err := st.GetRound(ctx, batch.ID, work.ItemNo)
		if err != nil {
			return eris.Wrapf(err, "load bid round for item %s", work.ItemNo)
		}

		data, err := assemble.Assemble(work, round.Bids, time.Now())
		if err != nil {
			return eris.Wrap(err, "assemble document data")
		}

		profile := render.DefaultProfile()
		if cfg.Render.ProfilePath != "" {
			profile, err = render.LoadProfile(cfg.Render.ProfilePath)
			if err != nil {
				return eris.Wrap(err, "load letterhead profile")
			}
		}

		htmlRenderer, err := render.NewHTML(profile)
		if err != nil {
			return eris.Wrap(err, "build html renderer")
		}
		chain := render.NewChain(render.NewPDF(profile), htmlRenderer)

		outDir := generateOut
		if outDir == "" {
			outDir = cfg.Render.OutputDir
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return eris.Wrapf(err, "create output dir %s", outDir)
		}

		results := make([]*render.Result, len(render.AllKinds))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Generate.Concurrency)
		for i, kind := range render.AllKinds {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				res, err := chain.Render(kind, data)
				if err != nil {
					return eris.Wrapf(err, "render %s", kind)
				}
				results[i] = res
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if generateZip {
			bundle, err := render.Bundle(batch.NITNumber, work.ItemNo, results)
			if err != nil {
				return eris.Wrap(err, "bundle documents")
			}
			name := filepath.Join(outDir, render.ArchiveName(render.DocumentKind("tender_documents"), batch.NITNumber, work.ItemNo, "zip"))
			if err := os.WriteFile(name, bundle, 0o644); err != nil {
				return eris.Wrapf(err, "write %s", name)
			}
			fmt.Printf("wrote %s (%d documents)\n", name, len(results))
			return nil
		}

		for _, res := range results {
			name := filepath.Join(outDir, render.ArchiveName(res.Kind, batch.NITNumber, work.ItemNo, res.Ext))
			if err := os.WriteFile(name, res.Bytes, 0o644); err != nil {
				return eris.Wrapf(err, "write %s", name)
			}
			zap.L().Info("document written",
				zap.String("document", string(res.Kind)),
				zap.String("renderer", res.Renderer),
				zap.String("file", name),
			)
			fmt.Printf("wrote %s\n", name)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateNIT, "nit", "", "NIT number (required)")
	generateCmd.Flags().StringVar(&generateItem, "item", "1", "work item number")
	generateCmd.Flags().StringVar(&generateOut, "out", "", "output directory (default from config)")
	generateCmd.Flags().BoolVar(&generateZip, "zip", false, "bundle all documents into one archive")
	_ = generateCmd.MarkFlagRequired("nit")
	rootCmd.AddCommand(generateCmd)
}
