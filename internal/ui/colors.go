package ui

import "github.com/ctrf-io/newman-reporter-ctrf-json/internal/ctrf"

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[94m" // Bright blue - more readable on dark backgrounds
	ColorGray   = "\033[90m"
	ColorBold   = "\033[1m"
)

// Colors wraps text in color codes when enabled
type Colors struct {
	enabled bool
}

// NewColors creates a new Colors instance
func NewColors(enabled bool) *Colors {
	return &Colors{enabled: enabled}
}

// Enabled reports whether color codes are emitted
func (c *Colors) Enabled() bool {
	return c.enabled
}

func (c *Colors) wrap(code, s string) string {
	if !c.enabled {
		return s
	}
	return code + s + ColorReset
}

// Red returns red colored text
func (c *Colors) Red(s string) string { return c.wrap(ColorRed, s) }

// Green returns green colored text
func (c *Colors) Green(s string) string { return c.wrap(ColorGreen, s) }

// Yellow returns yellow colored text
func (c *Colors) Yellow(s string) string { return c.wrap(ColorYellow, s) }

// Blue returns blue colored text
func (c *Colors) Blue(s string) string { return c.wrap(ColorBlue, s) }

// Gray returns gray colored text
func (c *Colors) Gray(s string) string { return c.wrap(ColorGray, s) }

// Bold returns bold text
func (c *Colors) Bold(s string) string { return c.wrap(ColorBold, s) }

// StatusColor colors text by test status
func (c *Colors) StatusColor(status ctrf.Status, text string) string {
	switch status {
	case ctrf.StatusPassed:
		return c.Green(text)
	case ctrf.StatusFailed:
		return c.Red(text)
	case ctrf.StatusSkipped:
		return c.Yellow(text)
	case ctrf.StatusPending:
		return c.Blue(text)
	case ctrf.StatusOther:
		return c.Gray(text)
	default:
		return text
	}
}

// StatusSymbol returns a colored symbol for the status
func (c *Colors) StatusSymbol(status ctrf.Status) string {
	switch status {
	case ctrf.StatusPassed:
		return c.Green("✓")
	case ctrf.StatusFailed:
		return c.Red("✗")
	case ctrf.StatusSkipped:
		return c.Yellow("⊘")
	case ctrf.StatusPending:
		return c.Blue("⋯")
	case ctrf.StatusOther:
		return c.Gray("?")
	default:
		return " "
	}
}
