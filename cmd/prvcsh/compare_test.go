package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/hydro414e13/prvcsh/internal/database"
	"github.com/hydro414e13/prvcsh/internal/model"
)

// formatID renders a database ID as a CLI argument.
func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// TestNewCompareCmd tests the compare command creation.
func TestNewCompareCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCompareCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "compare [baseline-id] [current-id]" {
			t.Errorf("expected compare use string, got %q", cmd.Use)
		}
	})

	t.Run("has flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"list", "session", "json", "db-dir"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

// TestCompareRecords tests the comparison construction.
func TestCompareRecords(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	baseline := storedRecord("session-cmp", now.Add(-time.Hour), 55)
	baseline.ID = 3
	baseline.Score.Penalties = []model.PenaltyFactor{
		{Kind: model.PenaltyNoVPN, Reason: "No VPN or proxy detected", Weight: 25},
		{Kind: model.PenaltyDoNotTrackDisabled, Reason: "Do Not Track browser setting disabled", Weight: 5},
	}

	current := storedRecord("session-cmp", now, 75)
	current.ID = 9
	current.RiskLevel = model.RiskLow
	current.Score.Penalties = []model.PenaltyFactor{
		{Kind: model.PenaltyDoNotTrackDisabled, Reason: "Do Not Track browser setting disabled", Weight: 5},
		{Kind: model.PenaltyWebRTCLeak, Reason: "WebRTC leaks local IP addresses", Weight: 20},
	}

	t.Run("improved score", func(t *testing.T) {
		t.Parallel()

		cmp := compareRecords(baseline, current)

		if cmp.BaselineID != 3 || cmp.CurrentID != 9 {
			t.Errorf("unexpected IDs: %d, %d", cmp.BaselineID, cmp.CurrentID)
		}
		if cmp.Delta != 20 {
			t.Errorf("expected delta 20, got %d", cmp.Delta)
		}
		if cmp.Direction != directionImproved {
			t.Errorf("expected direction %q, got %q", directionImproved, cmp.Direction)
		}
		if len(cmp.NewPenalties) != 1 || cmp.NewPenalties[0].Kind != model.PenaltyWebRTCLeak {
			t.Errorf("unexpected new penalties: %v", cmp.NewPenalties)
		}
		if len(cmp.ResolvedPenalties) != 1 || cmp.ResolvedPenalties[0].Kind != model.PenaltyNoVPN {
			t.Errorf("unexpected resolved penalties: %v", cmp.ResolvedPenalties)
		}
	})

	t.Run("worsened score", func(t *testing.T) {
		t.Parallel()

		cmp := compareRecords(current, baseline)
		if cmp.Delta != -20 {
			t.Errorf("expected delta -20, got %d", cmp.Delta)
		}
		if cmp.Direction != directionWorsened {
			t.Errorf("expected direction %q, got %q", directionWorsened, cmp.Direction)
		}
	})

	t.Run("unchanged score", func(t *testing.T) {
		t.Parallel()

		cmp := compareRecords(baseline, baseline)
		if cmp.Delta != 0 {
			t.Errorf("expected delta 0, got %d", cmp.Delta)
		}
		if cmp.Direction != directionUnchanged {
			t.Errorf("expected direction %q, got %q", directionUnchanged, cmp.Direction)
		}
		if len(cmp.NewPenalties) != 0 || len(cmp.ResolvedPenalties) != 0 {
			t.Error("expected no penalty changes when comparing a record to itself")
		}
	})
}

// TestPenaltyDiff tests kind-based penalty set difference.
func TestPenaltyDiff(t *testing.T) {
	t.Parallel()

	a := []model.PenaltyFactor{
		{Kind: model.PenaltyNoVPN, Weight: 25},
		{Kind: model.PenaltyCanvasFingerprint, Weight: 15},
	}
	b := []model.PenaltyFactor{
		{Kind: model.PenaltyCanvasFingerprint, Weight: 15},
	}

	diff := penaltyDiff(a, b)
	if len(diff) != 1 || diff[0].Kind != model.PenaltyNoVPN {
		t.Errorf("unexpected diff: %v", diff)
	}

	if got := penaltyDiff(nil, b); len(got) != 0 {
		t.Errorf("expected empty diff for nil input, got %v", got)
	}
	if got := penaltyDiff(a, nil); len(got) != 2 {
		t.Errorf("expected full diff against nil, got %v", got)
	}
}

// TestRunCompareCmd tests comparison against the stored history.
func TestRunCompareCmd(t *testing.T) {
	t.Parallel()

	// seedComparison stores a baseline and an improved current record.
	seedComparison := func(t *testing.T) (string, []int64) {
		t.Helper()

		dbDir := t.TempDir()
		now := time.Now().UTC()

		baseline := storedRecord("session-cmp", now.Add(-time.Hour), 55)
		current := storedRecord("session-cmp", now, 75)
		current.RiskLevel = model.RiskLow
		current.Score.Penalties = []model.PenaltyFactor{
			{Kind: model.PenaltyCanvasFingerprint, Reason: "Canvas fingerprinting possible", Weight: 15},
		}

		ids := seedDatabase(t, dbDir, baseline, current)
		return dbDir, ids
	}

	t.Run("prints comparison", func(t *testing.T) {
		t.Parallel()

		dbDir, ids := seedComparison(t)

		var buf bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"compare", "--db-dir", dbDir,
			formatID(ids[0]), formatID(ids[1])})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Privacy score improved by 20 points.") {
			t.Errorf("expected improvement summary, got %q", output)
		}
		if !strings.Contains(output, "New penalties (1):") {
			t.Errorf("expected one new penalty, got %q", output)
		}
		if !strings.Contains(output, "Canvas fingerprinting possible") {
			t.Errorf("expected new penalty reason, got %q", output)
		}
		if !strings.Contains(output, "Resolved penalties (1):") {
			t.Errorf("expected one resolved penalty, got %q", output)
		}
		if !strings.Contains(output, "No VPN or proxy detected") {
			t.Errorf("expected resolved penalty reason, got %q", output)
		}
	})

	t.Run("prints JSON comparison", func(t *testing.T) {
		t.Parallel()

		dbDir, ids := seedComparison(t)

		var buf bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"compare", "--json", "--db-dir", dbDir,
			formatID(ids[0]), formatID(ids[1])})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var cmpOut scanComparison
		if err := json.Unmarshal(buf.Bytes(), &cmpOut); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if cmpOut.BaselineID != ids[0] || cmpOut.CurrentID != ids[1] {
			t.Errorf("unexpected IDs in output: %+v", cmpOut)
		}
		if cmpOut.Delta != 20 || cmpOut.Direction != directionImproved {
			t.Errorf("unexpected delta in output: %+v", cmpOut)
		}
	})

	t.Run("lists session history", func(t *testing.T) {
		t.Parallel()

		dbDir, _ := seedComparison(t)

		var buf bytes.Buffer
		cmd := NewRootCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"compare", "--list", "--session", "session-cmp", "--db-dir", dbDir})

		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Stored results for session session-cmp") {
			t.Errorf("expected history header, got %q", output)
		}
		// Newest first: the current record's score leads.
		if !strings.Contains(output, "75") || !strings.Contains(output, "55") {
			t.Errorf("expected both scores in listing, got %q", output)
		}
	})

	t.Run("list requires session", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"compare", "--list", "--db-dir", t.TempDir()})

		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "--list requires --session") {
			t.Errorf("expected list/session error, got %v", err)
		}
	})

	t.Run("needs two result IDs", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"compare", "--db-dir", t.TempDir(), "5"})

		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "two result IDs") {
			t.Errorf("expected ID count error, got %v", err)
		}
	})

	t.Run("rejects malformed ID", func(t *testing.T) {
		t.Parallel()

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"compare", "--db-dir", t.TempDir(), "abc", "9"})

		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "invalid baseline result ID") {
			t.Errorf("expected parse error, got %v", err)
		}
	})

	t.Run("unknown ID is not found", func(t *testing.T) {
		t.Parallel()

		dbDir, ids := seedComparison(t)

		cmd := NewRootCmd()
		cmd.SetArgs([]string{"compare", "--db-dir", dbDir, formatID(ids[0]), "99999"})

		err := cmd.Execute()
		if !errors.Is(err, database.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}
