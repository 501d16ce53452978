package fit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthurssouza42/fit/internal/app"
	"github.com/arthurssouza42/fit/internal/service"
)

var (
	exportFormat    string
	exportOut       string
	exportDelimiter string
	importFormat    string
	importIn        string
	importMode      string
	importDryRun    bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the food log (csv) or everything (json)",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveFormat(exportFormat, exportOut)
		if err != nil {
			return err
		}
		return withRuntime(func(rt *runtime) error {
			diary, err := rt.openDiary()
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			switch format {
			case "json":
				data, err := service.ExportSnapshot(diary, rt.db)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(&buf)
				enc.SetIndent("", "  ")
				if err := enc.Encode(data); err != nil {
					return fmt.Errorf("marshal export json: %w", err)
				}
			case "csv":
				delim, err := app.ParseDelimiter(exportDelimiter)
				if err != nil {
					return err
				}
				if err := service.WriteLogCSV(&buf, diary.Store.AllEntries(), delim); err != nil {
					return err
				}
			}
			if exportOut == "" || exportOut == "-" {
				_, err := io.Copy(cmd.OutOrStdout(), &buf)
				return err
			}
			if err := os.WriteFile(exportOut, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write export file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", diary.Store.Len(), exportOut)
			return nil
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a csv food log or a json export",
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(importIn) == "" {
			return fmt.Errorf("--in is required")
		}
		format, err := resolveFormat(importFormat, importIn)
		if err != nil {
			return err
		}
		mode, err := service.ParseImportMode(importMode)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(importIn)
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}
		return withRuntime(func(rt *runtime) error {
			var payload service.ExportData
			switch format {
			case "json":
				if err := json.Unmarshal(raw, &payload); err != nil {
					return fmt.Errorf("parse import json: %w", err)
				}
			case "csv":
				entries, warnings, err := service.ReadLogCSV(bytes.NewReader(raw))
				if err != nil {
					return err
				}
				payload.Entries = entries
				for _, w := range warnings {
					fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
				}
			}
			diary, err := rt.openDiary()
			if err != nil {
				return err
			}
			report, err := service.ImportSnapshot(diary, rt.db, &payload, service.ImportOptions{
				Mode:   mode,
				DryRun: importDryRun,
				Logger: rt.log,
			})
			if err != nil {
				return err
			}
			prefix := "Import report"
			if importDryRun {
				prefix = "Dry run"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: inserted=%d skipped=%d conflicts=%d\n", prefix, report.Inserted, report.Skipped, report.Conflicts)
			for _, w := range report.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
			}
			return nil
		})
	},
}

// resolveFormat uses the explicit format or the file extension.
func resolveFormat(format, path string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			format = "json"
		default:
			format = "csv"
		}
	}
	if format != "json" && format != "csv" {
		return "", fmt.Errorf("unsupported --format %q (use json or csv)", format)
	}
	return format, nil
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Export format: csv or json (default from --out extension, else csv)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file path (default stdout)")
	exportCmd.Flags().StringVar(&exportDelimiter, "delimiter", ";", "CSV delimiter: ;, , or tab")

	importCmd.Flags().StringVar(&importFormat, "format", "", "Import format: csv or json (default from --in extension)")
	importCmd.Flags().StringVar(&importIn, "in", "", "Input file path")
	importCmd.Flags().StringVar(&importMode, "mode", "fail", "What to do with entries already logged: fail or skip")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate and report without writing")
}
