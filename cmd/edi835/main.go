package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/oarkflow/log"
	"github.com/urfave/cli/v2"

	"github.com/oarkflow/edi835/pkg/config"
	"github.com/oarkflow/edi835/pkg/remit"
	"github.com/oarkflow/edi835/pkg/server"
	"github.com/oarkflow/edi835/pkg/sqlloader"
	"github.com/oarkflow/edi835/pkg/utils/fileutil"
	"github.com/oarkflow/edi835/report"
)

func main() {
	app := &cli.App{
		Name:  "edi835",
		Usage: "Parse X12 835 remittance advices into nested or flattened projections",
		Commands: []*cli.Command{
			{
				Name:  "parse",
				Usage: "Parse one remittance file and emit the hierarchical JSON view",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the remittance file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write JSON to this path instead of stdout",
					},
				},
				Action: runParse,
			},
			{
				Name:  "flatten",
				Usage: "Parse one remittance file and emit one CSV row per service line",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the remittance file",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write CSV to this path instead of stdout",
					},
					&cli.BoolFlag{
						Name:  "append",
						Usage: "Append to the output file instead of truncating it",
					},
				},
				Action: runFlatten,
			},
			{
				Name:  "batch",
				Usage: "Parse every remittance file under a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to a config file (YAML, JSON, or BCL)",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Input directory (ignored when --config is set)",
					},
					&cli.StringFlag{
						Name:  "format",
						Value: config.FormatJSON,
						Usage: "Output format: json or csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory (json) or file (csv)",
					},
					&cli.IntFlag{
						Name:  "workers",
						Value: 4,
						Usage: "Parallel parse workers",
					},
				},
				Action: runBatch,
			},
			{
				Name:  "serve",
				Usage: "Start the HTTP parse service",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "address",
						Value: ":8080",
						Usage: "Listen address",
					},
				},
				Action: runServe,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func runParse(c *cli.Context) error {
	ts, err := remit.ParseFile(c.String("file"))
	if err != nil {
		return err
	}
	out, err := ts.ToJSON()
	if err != nil {
		return err
	}
	if path := c.String("output"); path != "" {
		return os.WriteFile(path, out, 0644)
	}
	fmt.Println(string(out))
	return nil
}

func runFlatten(c *cli.Context) error {
	ts, err := remit.ParseFile(c.String("file"))
	if err != nil {
		return err
	}
	table, err := ts.Flatten()
	if err != nil {
		return err
	}

	if path := c.String("output"); path != "" {
		appender, err := fileutil.NewCSVAppender(path, c.Bool("append"))
		if err != nil {
			return err
		}
		if err := appender.AppendRows(table.Columns, table.Rows); err != nil {
			_ = appender.Close()
			return err
		}
		return appender.Close()
	}

	writer := csv.NewWriter(os.Stdout)
	if err := writer.Write(table.Columns); err != nil {
		return err
	}
	for _, row := range table.Rows {
		if err := writer.Write(table.Record(row)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func runBatch(c *cli.Context) error {
	cfg, err := batchConfig(c)
	if err != nil {
		return err
	}

	monitor, err := report.New()
	if err != nil {
		return err
	}
	start, err := monitor.Snapshot()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := remit.ParseDir(ctx, cfg.Input.Path, remit.BatchOptions{Workers: cfg.Workers})
	if err != nil {
		return err
	}
	if err := writeOutputs(cfg, results); err != nil {
		return err
	}
	if cfg.Database != nil {
		if err := storeResults(ctx, cfg.Database, results); err != nil {
			return err
		}
	}

	end, err := monitor.Snapshot()
	if err != nil {
		return err
	}
	summary := report.Summarize(start, end, results)
	fmt.Println(summary.ToString())
	return writeSummary(cfg, summary)
}

// writeSummary drops summary.json and summary.txt next to the batch
// output when the output target is a directory.
func writeSummary(cfg *config.Config, summary *report.RunReport) error {
	if cfg.Output.Path == "" || cfg.Output.Format != config.FormatJSON {
		return nil
	}
	if err := os.WriteFile(filepath.Join(cfg.Output.Path, "summary.json"),
		[]byte(summary.ToJSON()), 0644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cfg.Output.Path, "summary.txt"),
		[]byte(summary.ToString()+"\n"), 0644)
}

func batchConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.Load(path)
	}
	dir := c.String("dir")
	if dir == "" {
		return nil, fmt.Errorf("either --config or --dir is required")
	}
	cfg := &config.Config{
		Input:   config.InputConfig{Path: dir},
		Output:  config.OutputConfig{Format: c.String("format"), Path: c.String("output")},
		Workers: c.Int("workers"),
	}
	return cfg, cfg.Validate()
}

// writeOutputs emits one JSON file per parsed document, or appends all
// flattened rows to a single CSV target.
func writeOutputs(cfg *config.Config, results []remit.FileResult) error {
	if cfg.Output.Path == "" {
		return nil
	}

	if cfg.Output.Format == config.FormatJSON {
		if err := os.MkdirAll(cfg.Output.Path, 0755); err != nil {
			return err
		}
		for _, result := range results {
			if result.Err != nil {
				continue
			}
			out, err := result.Document.ToJSON()
			if err != nil {
				return err
			}
			base := strings.TrimSuffix(filepath.Base(result.Path), filepath.Ext(result.Path))
			target := filepath.Join(cfg.Output.Path, base+".json")
			if err := os.WriteFile(target, out, 0644); err != nil {
				return err
			}
		}
		return nil
	}

	appender, err := fileutil.NewCSVAppender(cfg.Output.Path, true)
	if err != nil {
		return err
	}
	defer appender.Close()
	for _, result := range results {
		if result.Err != nil {
			continue
		}
		table, err := result.Document.Flatten()
		if err != nil {
			log.Printf("Skipping %s: %v", result.Path, err)
			continue
		}
		if err := appender.AppendRows(table.Columns, table.Rows); err != nil {
			return err
		}
	}
	return nil
}

func storeResults(ctx context.Context, dbCfg *config.DatabaseConfig, results []remit.FileResult) error {
	loader, err := sqlloader.Connect(dbCfg)
	if err != nil {
		return err
	}
	defer loader.Close()
	for _, result := range results {
		if result.Err != nil {
			continue
		}
		table, err := result.Document.Flatten()
		if err != nil {
			log.Printf("Skipping %s: %v", result.Path, err)
			continue
		}
		if err := loader.StoreTable(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

func runServe(c *cli.Context) error {
	s, err := server.New(config.ServerConfig{Address: c.String("address")})
	if err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Printf("Shutting down")
		_ = s.Shutdown()
	}()

	log.Printf("Listening on %s", c.String("address"))
	return s.Listen()
}
