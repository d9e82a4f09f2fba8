package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"content-forge/feature/content/merge"
	"content-forge/feature/content/models"
	"content-forge/feature/content/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	mergeSections []string
	mergeLibrary  string
	mergeDryRun   bool
	mergeYes      bool
)

// mergeCmd merges selected sections of a patch actor into a stored document.
var mergeCmd = &cobra.Command{
	Use:   "merge <slug> <patch-file>",
	Short: "Merge sections of a canonical actor into a stored document",
	Long: `Merge selected sections of a canonical actor patch into the document
with the given slug. Each --section flag names a section and an operation:
'replace' swaps the section wholesale, 'add' upserts into it.

Examples:
  # Replace the inventory, keep everything else
  content-forge merge ancient-red-dragon patch.json --section inventory=replace

  # Add new strikes and replace defenses (with interactive confirmation)
  content-forge merge ancient-red-dragon patch.json --section strikes=add --section defenses=replace

  # Preview the plan without writing
  content-forge merge ancient-red-dragon patch.json --section core=replace --dry-run

  # Non-interactive apply
  content-forge merge ancient-red-dragon patch.json --section spells=add --yes`,
	Args: cobra.ExactArgs(2),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringArrayVar(&mergeSections, "section", nil, "Section and operation as name=replace|add (repeatable)")
	mergeCmd.Flags().StringVar(&mergeLibrary, "library", "", "Target content library (world scope when omitted)")
	mergeCmd.Flags().BoolVar(&mergeDryRun, "dry-run", false, "Build and print the plan without writing")
	mergeCmd.Flags().BoolVar(&mergeYes, "yes", false, "Auto-confirm destructive actions (non-interactive)")
	RootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	// Step 1: Parse the section request
	req, err := parseSectionFlags(mergeSections)
	if err != nil {
		return err
	}
	if len(req) == 0 {
		return fmt.Errorf("at least one --section flag is required")
	}

	// Step 2: Read the patch actor
	raw, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[1], err)
	}
	var patch models.Actor
	if err := json.Unmarshal(raw, &patch); err != nil {
		return fmt.Errorf("failed to decode patch actor: %w", err)
	}

	env, err := buildEnv()
	if err != nil {
		return err
	}
	l := env.logger
	ctx := context.Background()

	opts := merge.Options{
		DryRun:    mergeDryRun,
		Confirmed: false, // Set after the confirmation prompt
	}

	// Step 3: Build the plan first so the prompt can show what will change
	if !mergeDryRun {
		opts.Confirmed = confirmMergeAction()
		if !opts.Confirmed {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	result, err := env.service.MergeSections(ctx, args[0], store.Scope{Library: mergeLibrary}, &patch, req, opts)
	if result != nil && result.Plan != nil {
		printMergePlan(l, result.Plan)
	}
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}

	if mergeDryRun {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	l.Info("Merge complete",
		zap.Int("executed", result.Executed),
		zap.Int("skipped", len(result.Skipped)),
	)
	return nil
}

// parseSectionFlags converts repeated name=op flags into a merge request.
func parseSectionFlags(flags []string) (merge.Request, error) {
	req := merge.Request{}
	for _, f := range flags {
		name, op, found := strings.Cut(f, "=")
		if !found {
			return nil, fmt.Errorf("invalid --section %q: expected name=replace|add", f)
		}
		section, err := merge.ParseSection(name)
		if err != nil {
			return nil, err
		}
		parsed, err := merge.ParseOp(op)
		if err != nil {
			return nil, err
		}
		req[section] = parsed
	}
	return req, nil
}

// printMergePlan prints a formatted plan summary using logger.
func printMergePlan(l *zap.Logger, plan *merge.Plan) {
	s := plan.Summary
	l.Info("Merge plan",
		zap.Int("deletes", s.Deletes),
		zap.Int("creates", s.Creates),
		zap.Int("spells", s.Spells),
		zap.Int("skipped", s.Skipped),
	)
	for _, sk := range plan.Skipped {
		l.Warn("Spell will be skipped",
			zap.String("name", sk.Name),
			zap.String("reason", sk.Reason),
		)
	}
}

// confirmMergeAction prompts the user for confirmation or uses --yes flag.
func confirmMergeAction() bool {
	if mergeYes {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm the merge: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
