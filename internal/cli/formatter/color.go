package formatter

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/workplan/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StatusPill returns a colored indicator for a plan status.
func StatusPill(status domain.PlanStatus) string {
	switch status {
	case domain.PlanDraft:
		return StyleBlue.Render("○ DRAFT")
	case domain.PlanInReview:
		return StyleYellow.Render("● IN REVIEW")
	case domain.PlanApproved:
		return StyleGreen.Render("✔ APPROVED")
	case domain.PlanRejected:
		return StyleRed.Render("✖ REJECTED")
	default:
		return StyleDim.Render(string(status))
	}
}

// ActionPill colors an approval decision.
func ActionPill(action domain.DecisionAction) string {
	if action == domain.ActionReject {
		return StyleRed.Render(string(action))
	}
	return StyleGreen.Render(string(action))
}
