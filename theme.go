package main

import "github.com/charmbracelet/lipgloss"

// All colors use AdaptiveColor for dark/light terminal support. Light
// values lean on ANSI 0-15 for accents and 256-color grays; ANSI 7/15
// (white) are invisible on light backgrounds and are never used there.
var (
	// Text hierarchy
	ColorTextPrimary   = ac("0", "252")
	ColorTextSecondary = ac("8", "245")
	ColorTextDim       = ac("242", "243")
	ColorTextMuted     = ac("245", "240")

	// Accents
	ColorAccent  = ac("4", "75")
	ColorError   = ac("1", "196")
	ColorSuccess = ac("2", "114")
	ColorInfo    = ac("4", "69")

	// Surfaces
	ColorBorder   = ac("250", "60")
	ColorBubbleBg = ac("254", "236")

	// Speaker identity
	ColorAgent     = ac("5", "177") // agent avatar and headers
	ColorReasoning = ac("245", "240")

	// Run/stream state
	ColorLive    = ac("2", "76")  // live-stream badge
	ColorPending = ac("3", "220") // tool call awaiting its return

	// Status bar
	ColorStatusBarBg  = ac("254", "236")
	ColorTextKeyHint  = ac("4", "75")
	ColorLiveBg       = ac("2", "28")
	ColorLiveFg       = ac("15", "255")
	ColorFetchingBg   = ac("3", "94")
	ColorFetchingFg   = ac("0", "255")
)

// Reusable styles for the text hierarchy plus common bold/accent combos.
// Safe to chain since lipgloss styles are immutable value types.
var (
	StylePrimaryBold = lipgloss.NewStyle().Bold(true).Foreground(ColorTextPrimary)
	StyleSecondary   = lipgloss.NewStyle().Foreground(ColorTextSecondary)
	StyleDim         = lipgloss.NewStyle().Foreground(ColorTextDim)
	StyleMuted       = lipgloss.NewStyle().Foreground(ColorTextMuted)
	StyleAccentBold  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	StyleErrorBold   = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	StyleAgentBold   = lipgloss.NewStyle().Bold(true).Foreground(ColorAgent)
)

// ac is a shorthand constructor for lipgloss.AdaptiveColor.
func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}
