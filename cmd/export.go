package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"content-forge/feature/content/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	exportLibrary string
	exportOutput  string
)

// exportCmd normalizes a stored document back into canonical JSON.
var exportCmd = &cobra.Command{
	Use:   "export <slug>",
	Short: "Export a document as a canonical record",
	Long: `Normalize the document with the given slug back into the canonical
schema and print it as JSON.

Examples:
  # Export a world document to stdout
  content-forge export ancient-red-dragon

  # Export the library copy instead
  content-forge export ancient-red-dragon --library bestiary

  # Write to a file
  content-forge export ancient-red-dragon -o dragon.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportLibrary, "library", "", "Source content library (world scope when omitted)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	env, err := buildEnv()
	if err != nil {
		return err
	}

	rec, err := env.service.Export(context.Background(), args[0], store.Scope{Library: exportLibrary})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode canonical record: %w", err)
	}

	if exportOutput == "" {
		fmt.Println(string(out))
		return nil
	}
	if err := os.WriteFile(exportOutput, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	env.logger.Info("Export complete",
		zap.String("slug", args[0]),
		zap.String("file", exportOutput),
	)
	return nil
}
