package model

import "testing"

// TestPriorityRank tests the sort ranks: high before medium before low.
func TestPriorityRank(t *testing.T) {
	t.Parallel()

	if PriorityHigh.Rank() >= PriorityMedium.Rank() {
		t.Error("expected high to rank before medium")
	}
	if PriorityMedium.Rank() >= PriorityLow.Rank() {
		t.Error("expected medium to rank before low")
	}
	if Priority("urgent").Rank() <= PriorityLow.Rank() {
		t.Error("expected unknown priority to rank last")
	}
}

// TestCategoryDisplayName tests curated headings and the capitalized
// fallback for unmapped categories.
func TestCategoryDisplayName(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		category Category
		expected string
	}{
		{CategoryConnection, "Connection Security"},
		{CategoryBrowser, "Browser Settings"},
		{CategoryFingerprinting, "Fingerprinting Protection"},
		{CategoryData, "Data Security"},
		{CategoryWeb, "Web Security"},
		{CategoryPermissions, "Browser Permissions"},
		{CategoryAuthenticity, "User Authenticity"},
		{CategoryBehavior, "Behavioral Patterns"},
		{CategoryDetection, "Detection"},
		{CategoryExtensions, "Extensions"},
		{Category("custom"), "Custom"},
		{Category(""), ""},
	}

	for _, tc := range testCases {
		t.Run(string(tc.category), func(t *testing.T) {
			t.Parallel()
			if got := tc.category.DisplayName(); got != tc.expected {
				t.Errorf("DisplayName() = %q, expected %q", got, tc.expected)
			}
		})
	}
}
