package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/hydro414e13/prvcsh/internal/config"
	"github.com/hydro414e13/prvcsh/internal/database"
	"github.com/hydro414e13/prvcsh/internal/model"
	"github.com/spf13/cobra"
)

// Constants for score direction and summary messages.
const (
	directionImproved  = "improved"
	directionWorsened  = "worsened"
	directionUnchanged = "unchanged"
	noChangesMessage   = "No changes"
)

// historyListLimit caps the --list output. It matches the depth the
// retention sweep keeps per session, so listing deeper would only show
// records already scheduled for deletion.
const historyListLimit = 10

// NewCompareCmd creates the compare command.
// This command compares stored scan results against each other.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [baseline-id] [current-id]",
		Short: "Compare two stored scan results",
		Long: `Compare displays differences between two stored scan results.

This command retrieves both records from the database and shows:
- The anonymity score change and risk level movement
- New penalties that appeared since the baseline scan
- Resolved penalties that are no longer present

Use --list with --session to find result IDs. Scans are stored by the
serve command; offline scans (prvcsh scan) are never stored.

Examples:
  # Compare result 9 against baseline result 3
  prvcsh compare 3 9

  # List stored results for a session
  prvcsh compare --list --session 2f5a...

  # Output comparison in JSON format
  prvcsh compare --json 3 9`,
		Args: cobra.MaximumNArgs(2),
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List stored scan results for the session given with --session")
	cmd.Flags().StringP("session", "s", "",
		"Session ID whose results to list")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	// Storage
	cmd.Flags().String("db-dir", "",
		"Directory for the SQLite database (default: XDG data directory)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, args []string) error {
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	session, err := cmd.Flags().GetString("session")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	cfg := config.NewConfig()
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	ctx := context.Background()

	db, err := database.Open(cfg.DatabasePath(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if list {
		if session == "" {
			return errors.New("--list requires --session")
		}
		return listSessionHistory(ctx, cmd.OutOrStdout(), db, session)
	}

	if len(args) != 2 {
		return errors.New("compare needs two result IDs (use --list to find them)")
	}

	baselineID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid baseline result ID %q: %w", args[0], err)
	}
	currentID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid current result ID %q: %w", args[1], err)
	}

	return runComparison(ctx, cmd.OutOrStdout(), db, baselineID, currentID, jsonOutput)
}

// listSessionHistory prints the stored results for one session, newest
// first.
func listSessionHistory(ctx context.Context, out io.Writer, db *database.ScanDB, sessionID string) error {
	records, err := db.History(ctx, sessionID, historyListLimit)
	if err != nil {
		return fmt.Errorf("failed to load session history: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintf(out, "No stored results for session %s\n", sessionID)
		return nil
	}

	fmt.Fprintf(out, "Stored results for session %s:\n\n", sessionID)
	fmt.Fprintf(out, "%-6s %-20s %-7s %-7s %s\n", "ID", "CREATED", "SCORE", "RISK", "PENALTIES")
	for _, rec := range records {
		fmt.Fprintf(out, "%-6d %-20s %-7d %-7s %d\n",
			rec.ID,
			rec.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			rec.Score.Score,
			rec.RiskLevel,
			len(rec.Score.Penalties),
		)
	}
	return nil
}

// scanComparison is the difference between two stored scan results.
type scanComparison struct {
	BaselineID   int64           `json:"baseline_id"`
	CurrentID    int64           `json:"current_id"`
	BaselineTime time.Time       `json:"baseline_time"`
	CurrentTime  time.Time       `json:"current_time"`
	BaselineRisk model.RiskLevel `json:"baseline_risk"`
	CurrentRisk  model.RiskLevel `json:"current_risk"`

	// BaselineScore and CurrentScore are the anonymity scores; Delta is
	// current minus baseline, so positive means privacy improved.
	BaselineScore int    `json:"baseline_score"`
	CurrentScore  int    `json:"current_score"`
	Delta         int    `json:"delta"`
	Direction     string `json:"direction"`

	// NewPenalties appeared since the baseline; ResolvedPenalties were
	// present in the baseline and are gone now. Matching is by penalty
	// kind, so a reworded reason is not a change.
	NewPenalties      []model.PenaltyFactor `json:"new_penalties"`
	ResolvedPenalties []model.PenaltyFactor `json:"resolved_penalties"`
}

// compareRecords builds the comparison between two scan records.
func compareRecords(baseline, current *model.ScanRecord) *scanComparison {
	cmp := &scanComparison{
		BaselineID:        baseline.ID,
		CurrentID:         current.ID,
		BaselineTime:      baseline.CreatedAt,
		CurrentTime:       current.CreatedAt,
		BaselineRisk:      baseline.RiskLevel,
		CurrentRisk:       current.RiskLevel,
		BaselineScore:     baseline.Score.Score,
		CurrentScore:      current.Score.Score,
		Delta:             current.Score.Score - baseline.Score.Score,
		Direction:         directionUnchanged,
		NewPenalties:      penaltyDiff(current.Score.Penalties, baseline.Score.Penalties),
		ResolvedPenalties: penaltyDiff(baseline.Score.Penalties, current.Score.Penalties),
	}

	switch {
	case cmp.Delta > 0:
		cmp.Direction = directionImproved
	case cmp.Delta < 0:
		cmp.Direction = directionWorsened
	}
	return cmp
}

// penaltyDiff returns the penalties in a whose kind does not appear in b.
func penaltyDiff(a, b []model.PenaltyFactor) []model.PenaltyFactor {
	present := make(map[model.PenaltyKind]bool, len(b))
	for _, p := range b {
		present[p.Kind] = true
	}

	var diff []model.PenaltyFactor
	for _, p := range a {
		if !present[p.Kind] {
			diff = append(diff, p)
		}
	}
	return diff
}

// runComparison loads both records and writes the comparison.
func runComparison(ctx context.Context, out io.Writer, db *database.ScanDB, baselineID, currentID int64, jsonOutput bool) error {
	baseline, err := db.Get(ctx, baselineID)
	if err != nil {
		return fmt.Errorf("failed to load baseline result %d: %w", baselineID, err)
	}
	current, err := db.Get(ctx, currentID)
	if err != nil {
		return fmt.Errorf("failed to load current result %d: %w", currentID, err)
	}

	cmp := compareRecords(baseline, current)

	if jsonOutput {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(cmp)
	}

	writeComparison(out, cmp)
	return nil
}

// writeComparison prints the human-readable comparison.
func writeComparison(out io.Writer, cmp *scanComparison) {
	fmt.Fprintf(out, "Comparing result %d (baseline) with result %d\n\n", cmp.BaselineID, cmp.CurrentID)
	fmt.Fprintf(out, "Baseline: %s  score %d/100 (%s risk)\n",
		cmp.BaselineTime.UTC().Format("2006-01-02 15:04:05"), cmp.BaselineScore, cmp.BaselineRisk)
	fmt.Fprintf(out, "Current:  %s  score %d/100 (%s risk)\n\n",
		cmp.CurrentTime.UTC().Format("2006-01-02 15:04:05"), cmp.CurrentScore, cmp.CurrentRisk)

	switch cmp.Direction {
	case directionImproved:
		fmt.Fprintf(out, "Privacy score improved by %d points.\n", cmp.Delta)
	case directionWorsened:
		fmt.Fprintf(out, "Privacy score worsened by %d points.\n", -cmp.Delta)
	default:
		fmt.Fprintln(out, "Privacy score unchanged.")
	}

	fmt.Fprintf(out, "\nNew penalties (%d):\n", len(cmp.NewPenalties))
	writePenaltyList(out, cmp.NewPenalties)

	fmt.Fprintf(out, "\nResolved penalties (%d):\n", len(cmp.ResolvedPenalties))
	writePenaltyList(out, cmp.ResolvedPenalties)
}

// writePenaltyList prints one line per penalty, or a placeholder.
func writePenaltyList(out io.Writer, penalties []model.PenaltyFactor) {
	if len(penalties) == 0 {
		fmt.Fprintf(out, "  %s\n", noChangesMessage)
		return
	}
	for _, p := range penalties {
		fmt.Fprintf(out, "  [-%d] %s\n", p.Weight, p.Reason)
	}
}
