// Package commands implements CLI command handlers for citetrail.
package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/salamanca-digital/citetrail/pkg/config"
	"github.com/salamanca-digital/citetrail/pkg/labels"
	"github.com/salamanca-digital/citetrail/pkg/observability"
	"github.com/salamanca-digital/citetrail/pkg/pipeline"
)

// NewTransformCommand returns the "transform" subcommand: runs the
// pipeline once over a single work's source document and writes the four
// output artefacts names (preliminary index, resolved index,
// fragments, metadata) to the configured output directory.
func NewTransformCommand() *cobra.Command {
	var (
		configPath      string
		workID          string
		outputDir       string
		idServerBaseURL string
		iiifBaseURL     string
		labelsPath      string
		noColor         bool
	)

	cmd := &cobra.Command{
		Use:   "transform <work-id>",
		Short: "Run the transformation pipeline over a single work",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			workID = args[0]

			return runTransform(transformArgs{
				configPath:      configPath,
				workID:          workID,
				outputDir:       outputDir,
				idServerBaseURL: idServerBaseURL,
				iiifBaseURL:     iiifBaseURL,
				labelsPath:      labelsPath,
				noColor:         noColor,
			})
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a config.yaml file")
	cmd.Flags().StringVar(&outputDir, "output", "", "directory to write output artefacts to (overrides config)")
	cmd.Flags().StringVar(&idServerBaseURL, "id-server-base-url", "", "base URL for cross-work citation URIs (overrides config)")
	cmd.Flags().StringVar(&iiifBaseURL, "iiif-base-url", "", "base URL for IIIF image derivation (overrides config)")
	cmd.Flags().StringVar(&labelsPath, "labels", "", "path to a citation-label override YAML file (overrides config)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")

	return cmd
}

type transformArgs struct {
	configPath      string
	workID          string
	outputDir       string
	idServerBaseURL string
	iiifBaseURL     string
	labelsPath      string
	noColor         bool
}

func runTransform(args transformArgs) error {
	if args.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	cfg, err := config.LoadConfig(args.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if args.outputDir != "" {
		cfg.TEI.OutputDir = args.outputDir
	}

	if args.idServerBaseURL != "" {
		cfg.Domain.IDServerBaseURL = args.idServerBaseURL
	}

	if args.iiifBaseURL != "" {
		cfg.Domain.IIIFBaseURL = args.iiifBaseURL
	}

	if args.labelsPath != "" {
		cfg.TEI.LabelsPath = args.labelsPath
	}

	citationLabels, err := labels.Load(cfg.TEI.LabelsPath)
	if err != nil {
		return fmt.Errorf("load citation labels: %w", err)
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceName = "citetrail"
	obsCfg.Mode = observability.ModeCLI
	obsCfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer func() { _ = providers.Shutdown(context.Background()) }()

	metrics, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	p := pipeline.New(metrics, providers.Logger)

	srcPath := filepath.Join(cfg.TEI.RootDir, args.workID+".xml")

	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source document %q: %w", srcPath, err)
	}
	defer f.Close()

	start := time.Now()

	res, err := p.Transform(context.Background(), f, filepath.Dir(srcPath), pipeline.Options{
		WorkID:          args.workID,
		IDServerBaseURL: cfg.Domain.IDServerBaseURL,
		IIIFBaseURL:     cfg.Domain.IIIFBaseURL,
		MaxCiteDepth:    cfg.TEI.MaxCiteDepth,
		CitationLabels:  citationLabels,
	})
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stdout, "transform failed: %v\n", err)

		return err
	}

	elapsed := time.Since(start)

	if err := writeArtefacts(cfg.TEI.OutputDir, args.workID, res); err != nil {
		return fmt.Errorf("write output artefacts: %w", err)
	}

	printSummary(args.workID, res, elapsed, cfg.TEI.OutputDir)

	return nil
}

// writeArtefacts writes the four per-request output files: preliminary
// index, resolved index, fragments, and metadata, under
// outputDir/<work_id>_*.
func writeArtefacts(outputDir, workID string, res *pipeline.Result) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	if err := res.Preliminary.WriteToFile(filepath.Join(outputDir, workID+"_index0.xml")); err != nil {
		return fmt.Errorf("write preliminary index: %w", err)
	}

	if err := res.Resolved.WriteToFile(filepath.Join(outputDir, workID+"_index.xml")); err != nil {
		return fmt.Errorf("write resolved index: %w", err)
	}

	fragFile, err := os.Create(filepath.Join(outputDir, workID+"_resources.json"))
	if err != nil {
		return err
	}
	defer fragFile.Close()

	if err := json.NewEncoder(fragFile).Encode(res.Fragments); err != nil {
		return fmt.Errorf("write fragments: %w", err)
	}

	metaFile, err := os.Create(filepath.Join(outputDir, workID+"_metadata.json"))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	if err := json.NewEncoder(metaFile).Encode(res.Metadata); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	return nil
}

// printSummary renders a one-line success banner followed by a go-pretty
// table summarizing the run: a colored status line plus a borderless
// summary table.
func printSummary(workID string, res *pipeline.Result, elapsed time.Duration, outputDir string) {
	color.New(color.FgGreen).Fprintf(os.Stdout, "transform complete (%s)\n", workID)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	tbl.AppendRow(table.Row{"fragments", humanize.Comma(int64(len(res.Fragments)))})
	tbl.AppendRow(table.Row{"cite depth", res.CiteDepth})
	tbl.AppendRow(table.Row{"title", res.Metadata.Title})
	tbl.AppendRow(table.Row{"elapsed", elapsed.Round(time.Millisecond)})
	tbl.AppendRow(table.Row{"output dir", outputDir})

	tbl.Render()
}
