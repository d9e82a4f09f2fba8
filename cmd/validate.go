package cmd

import (
	"errors"
	"fmt"
	"os"

	"content-forge/core/logger"
	"content-forge/feature/content/schema"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// validateCmd checks a canonical JSON file against the schema without
// touching any store.
var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a canonical record file against its schema",
	Long: `Validate a canonical JSON record against the schema for its declared
version and type. Violations are listed with their instance paths.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	RootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	l, err := logger.New(&logger.Config{Level: "debug", Format: "console"})
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	validator, err := schema.NewValidator()
	if err != nil {
		return fmt.Errorf("failed to compile canonical schemas: %w", err)
	}

	if err := validator.Validate(raw); err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			for _, v := range verr.Violations {
				l.Warn("Schema violation",
					zap.String("path", v.Path),
					zap.String("message", v.Message),
				)
			}
			return fmt.Errorf("%s failed validation with %d violation(s)", args[0], len(verr.Violations))
		}
		return err
	}

	l.Info("Record is valid", zap.String("file", args[0]))
	return nil
}
