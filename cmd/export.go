package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/busradar/busradar/config"
	"github.com/busradar/busradar/core/tracklog"
	"github.com/busradar/busradar/pkg/export"
)

var (
	exportFormat  string
	exportVehicle string
	exportStart   string
	exportEnd     string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded vehicle tracks",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or json")
	exportCmd.Flags().StringVar(&exportVehicle, "vehicle", "", "filter by vehicle route key")
	exportCmd.Flags().StringVar(&exportStart, "start", "", "start of the time range, RFC 3339")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "end of the time range, RFC 3339")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file, stdout when empty")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	q := tracklog.Query{VehicleID: exportVehicle}
	if exportStart != "" {
		if q.Start, err = time.Parse(time.RFC3339, exportStart); err != nil {
			return fmt.Errorf("parse start: %w", err)
		}
	}
	if exportEnd != "" {
		if q.End, err = time.Parse(time.RFC3339, exportEnd); err != nil {
			return fmt.Errorf("parse end: %w", err)
		}
	}

	var store tracklog.Store
	if cfg.TrackLog.Backend == "sqlite" {
		store, err = tracklog.NewSQLiteStore(cfg.TrackLog.Path)
	} else {
		store, err = tracklog.NewJSONLStore(cfg.TrackLog.Path)
	}
	if err != nil {
		return fmt.Errorf("open track log: %w", err)
	}
	defer func() { _ = store.Close() }()

	points, err := store.Query(context.Background(), q)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	switch exportFormat {
	case "json":
		return export.WriteJSON(w, points)
	case "csv":
		return export.WriteCSV(w, points)
	default:
		return fmt.Errorf("unknown format %q", exportFormat)
	}
}
