package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
)

// TitleStyle is used for the heading above a result listing.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// SenderStyle highlights the sender column of a listing row.
var SenderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorBlue)

// SubjectStyle renders the subject line of a listing row.
var SubjectStyle = lipgloss.NewStyle().
	Foreground(ColorWhite)

// DateStyle renders dates and other secondary fields.
var DateStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// RuleStyle renders the separator line between listing rows.
var RuleStyle = lipgloss.NewStyle().
	Foreground(ColorSubtle)

// ErrorStyle renders fatal diagnostics on stderr.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)
