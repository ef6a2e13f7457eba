// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package display

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorMode controls whether output is styled.
type ColorMode string

const (
	// ColorAuto styles output when the destination is a terminal
	// that supports color.
	ColorAuto ColorMode = "auto"

	// ColorAlways styles output with 256-color ANSI sequences.
	ColorAlways ColorMode = "always"

	// ColorNever writes plain text.
	ColorNever ColorMode = "never"
)

// ParseColorMode parses a color setting. The empty string is ColorAuto.
func ParseColorMode(text string) (ColorMode, error) {
	switch ColorMode(text) {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	}
	return "", fmt.Errorf("invalid color mode %q (expected auto, always, or never)", text)
}

// Styles holds the lipgloss styles used for each part of the output.
// When disabled every part is written unchanged.
type Styles struct {
	enabled bool

	Path      lipgloss.Style
	Heading   lipgloss.Style
	Directory lipgloss.Style
	Key       lipgloss.Style
	Value     lipgloss.Style
	Faint     lipgloss.Style
	Error     lipgloss.Style
}

// NewStyles builds styles for output written to w.
func NewStyles(w io.Writer, mode ColorMode) Styles {
	renderer := lipgloss.NewRenderer(w)
	switch mode {
	case ColorNever:
		return Styles{}
	case ColorAlways:
		renderer.SetColorProfile(termenv.ANSI256)
	default:
		if renderer.ColorProfile() == termenv.Ascii {
			return Styles{}
		}
	}

	return Styles{
		enabled:   true,
		Path:      renderer.NewStyle().Foreground(lipgloss.Color("11")),
		Heading:   renderer.NewStyle().Bold(true),
		Directory: renderer.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Key:       renderer.NewStyle().Foreground(lipgloss.Color("14")),
		Value:     renderer.NewStyle().Foreground(lipgloss.Color("10")),
		Faint:     renderer.NewStyle().Foreground(lipgloss.Color("245")),
		Error:     renderer.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Enabled reports whether the styles emit escape sequences.
func (s Styles) Enabled() bool {
	return s.enabled
}

func (s Styles) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}
