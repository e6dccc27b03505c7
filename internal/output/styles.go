package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette — named constants for the ANSI 256 colors used in the
// CLI. These are the single source of truth; never use inline
// lipgloss.Color literals.
var (
	// ColorCyan is used for identifiable nouns: template locations,
	// project names, file paths.
	ColorCyan = lipgloss.Color("14")

	// ColorGreen is used for the final success line.
	ColorGreen = lipgloss.Color("82")

	// ColorYellow is used for warnings such as project renaming.
	ColorYellow = lipgloss.Color("220")

	// ColorRed is used for removal notices in verbose mode.
	ColorRed = lipgloss.Color("196")

	// ColorDimGray is used for per-file progress chatter.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles — map pipeline concepts to visual presentation.
var (
	// StyleNoun styles identifiable nouns (paths, names, locations).
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleAction styles the bold stage announcements.
	StyleAction = lipgloss.NewStyle().Bold(true)

	// StyleWarning styles recoverable deviations from the happy path.
	StyleWarning = lipgloss.NewStyle().Foreground(ColorYellow)

	// StyleSuccess styles the completion line.
	StyleSuccess = lipgloss.NewStyle().Bold(true).Foreground(ColorGreen)

	// StyleRemoved styles filter deletions reported in verbose mode.
	StyleRemoved = lipgloss.NewStyle().Foreground(ColorRed)

	// StyleDim styles progress chatter and structural chrome.
	StyleDim = lipgloss.NewStyle().Foreground(ColorDimGray)
)

// Emoji prefixes for the status lines.
const (
	emojiWrench  = "🔧"
	emojiInfo    = "💡"
	emojiSparkle = "✨"
	emojiWarn    = "⚠️"
)
