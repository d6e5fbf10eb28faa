package model

import "strings"

// Category groups recommendations for display. The values are wire strings
// consumed directly by the presentation layer.
type Category string

// Recommendation categories.
const (
	CategoryConnection     Category = "connection"
	CategoryBrowser        Category = "browser"
	CategoryFingerprinting Category = "fingerprinting"
	CategoryData           Category = "data"
	CategoryLocation       Category = "location"
	CategoryWeb            Category = "web"
	CategoryPermissions    Category = "permissions"
	CategoryAuthenticity   Category = "authenticity"
	CategoryBehavior       Category = "behavior"
	CategoryDetection      Category = "detection"
	CategoryExtensions     Category = "extensions"
)

// categoryDisplayNames maps categories to their section headings. Categories
// without an entry fall back to a capitalized form of the raw value.
var categoryDisplayNames = map[Category]string{
	CategoryConnection:     "Connection Security",
	CategoryBrowser:        "Browser Settings",
	CategoryFingerprinting: "Fingerprinting Protection",
	CategoryData:           "Data Security",
	CategoryWeb:            "Web Security",
	CategoryPermissions:    "Browser Permissions",
	CategoryAuthenticity:   "User Authenticity",
	CategoryBehavior:       "Behavioral Patterns",
}

// DisplayName returns the section heading for the category.
func (c Category) DisplayName() string {
	if name, ok := categoryDisplayNames[c]; ok {
		return name
	}
	s := string(c)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Priority orders recommendations for display.
type Priority string

// Recommendation priorities, highest first.
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank returns the sort rank of the priority: high=0, medium=1, low=2.
// Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Link is one further-reading reference attached to a recommendation.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Recommendation is one curated remediation entry. Recommendations are
// generated fresh from the persisted penalty list on every display and are
// never stored.
type Recommendation struct {
	Category    Category `json:"category"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Links       []Link   `json:"links"`
}
