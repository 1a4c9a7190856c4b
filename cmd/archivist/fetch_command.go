package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"archivist/internal/archive"
	"archivist/internal/fetch"
	"archivist/internal/logging"
	"archivist/internal/services/nara"
)

// newFetchCommand downloads a page range directly, without the daemon. It is
// the quick path for a one-off grab onto the local disk.
func newFetchCommand(ctx *commandContext) *cobra.Command {
	var startPage, endPage int
	var outDir string
	var makeZip, makePDF bool

	cmd := &cobra.Command{
		Use:   "fetch <catalog-url>",
		Short: "Download a page range from a catalog record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if startPage < 1 {
				return fmt.Errorf("--start must be at least 1")
			}
			if endPage < startPage {
				return fmt.Errorf("--end must be >= --start")
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: "console"})
			if err != nil {
				return err
			}

			target := outDir
			if target == "" {
				target = "."
			}
			target, err = filepath.Abs(target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printer := message.NewPrinter(language.English)

			fetcher := fetch.New(cfg, nara.NewClient(cfg), logger)
			summary, err := fetcher.FetchRange(runCtx, args[0], target, startPage, endPage, func(done, total int, msg string) {
				printer.Fprintf(out, "\r[%d/%d] %s", done, total, msg)
			})
			fmt.Fprintln(out)
			if err != nil {
				return err
			}

			printer.Fprintf(out, "Downloaded %d pages (%d skipped, %d available) into %s\n",
				summary.Downloaded, summary.Skipped, summary.TotalAvailable, target)
			for _, e := range summary.Errors {
				fmt.Fprintf(out, "  error: %s\n", e)
			}

			if makeZip || makePDF {
				assembler := archive.NewAssembler(cfg, logger)
				if makeZip {
					zipPath := filepath.Join(target, "archive.zip")
					if err := assembler.BuildZip(target, zipPath); err != nil {
						return fmt.Errorf("build zip: %w", err)
					}
					fmt.Fprintf(out, "Wrote %s\n", zipPath)
				}
				if makePDF {
					images, err := assembler.ListImages(target)
					if err != nil {
						return err
					}
					pdfPath := filepath.Join(target, "archive.pdf")
					built, err := assembler.BuildPDF(runCtx, images, pdfPath)
					if err != nil {
						return fmt.Errorf("build pdf: %w", err)
					}
					if built {
						fmt.Fprintf(out, "Wrote %s\n", pdfPath)
					} else {
						fmt.Fprintln(out, "PDF skipped: img2pdf not available or no images")
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&startPage, "start", 1, "First page to download")
	cmd.Flags().IntVar(&endPage, "end", 1, "Last page to download")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (defaults to the current directory)")
	cmd.Flags().BoolVar(&makeZip, "zip", false, "Assemble a ZIP archive after downloading")
	cmd.Flags().BoolVar(&makePDF, "pdf", false, "Assemble a PDF after downloading (requires img2pdf)")
	return cmd
}
