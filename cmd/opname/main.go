package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/analysis"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/config"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/export"
	"github.com/andresuchdata/stock-opname-dss/backend-go/internal/pipeline"
	"github.com/andresuchdata/stock-opname-dss/backend-go/pkg/logger"
)

func main() {
	_ = godotenv.Load(".env")

	app := &cli.App{
		Name:  "opname",
		Usage: "Analyze stock opname files offline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "analyze",
				Usage:     "Analyze one or more .xlsx/.csv opname files",
				ArgsUsage: "<files...>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "export-dir",
						Usage:   "Directory for the per-file analysis workbooks",
						EnvVars: []string{"APP_EXPORT_DIR"},
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of files analyzed concurrently",
						Value: pipeline.DefaultConfig().WorkerCount,
					},
					&cli.IntFlag{
						Name:  "top",
						Usage: "Number of urgency items printed per file",
						Value: 5,
					},
					&cli.StringFlag{
						Name:    "model",
						Usage:   "Urgency scoring model (ahp, additive)",
						EnvVars: []string{"ANALYSIS_MODEL"},
					},
				},
				Action: runAnalyze,
			},
			{
				Name:      "template",
				Usage:     "Write an empty import template workbook",
				ArgsUsage: "<path>",
				Action:    runTemplate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("opname failed")
	}
}

func runAnalyze(c *cli.Context) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		return cli.Exit("at least one input file is required", 1)
	}

	v := viper.New()
	if model := c.String("model"); model != "" {
		v.Set("ANALYSIS_MODEL", model)
	}
	params, err := config.New(v).Analysis.Params()
	if err != nil {
		return err
	}

	engine, err := analysis.NewEngine(params)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(engine, pipeline.Config{
		WorkerCount: c.Int("workers"),
		ExportDir:   c.String("export-dir"),
	})

	reports, err := runner.Run(c.Context, files)
	if err != nil {
		return err
	}

	failed := 0
	for _, report := range reports {
		if report.Err != nil {
			failed++
		}
		printReport(c.App.Writer, report, c.Int("top"))
	}
	if failed > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d files could not be analyzed", failed, len(reports)), 1)
	}
	return nil
}

func printReport(w io.Writer, report pipeline.FileReport, top int) {
	fmt.Fprintf(w, "== %s\n", filepath.Base(report.Path))
	if report.Err != nil {
		fmt.Fprintf(w, "   error: %v\n\n", report.Err)
		return
	}

	s := report.Result.Summary
	fmt.Fprintf(w, "   products: %d  accuracy: %s  inventory: %s  variance: %s\n",
		s.TotalProducts,
		analysis.FormatPercent(s.AccuracyRate),
		analysis.FormatIDR(s.TotalInventoryValue),
		analysis.FormatIDR(s.TotalVarianceValue))
	fmt.Fprintf(w, "   low stock: %d  reorder: %d  overstock: %d\n", s.LowStockItems, s.ReorderItems, s.OverstockItems)

	for _, rowErr := range report.RowErrors {
		fmt.Fprintf(w, "   skipped %s\n", rowErr.Error())
	}

	urgency := report.Result.Urgency
	if top >= 0 && len(urgency) > top {
		urgency = urgency[:top]
	}
	if len(urgency) > 0 {
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "   CODE\tNAME\tSTATUS\tLEVEL\tSCORE\tTIMEFRAME")
		for _, item := range urgency {
			fmt.Fprintf(tw, "   %s\t%s\t%s\t%s\t%d\t%s\n",
				item.Code, item.Name, item.StockStatus, item.UrgencyLevel, item.UrgencyScore, item.Timeframe)
		}
		tw.Flush()
	}

	if report.ExportPath != "" {
		fmt.Fprintf(w, "   exported: %s\n", report.ExportPath)
	}
	fmt.Fprintln(w)
}

func runTemplate(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		path = "Stock_Opname_Template.xlsx"
	}

	data, err := export.Template()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write template: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "template written to %s\n", path)
	return nil
}
