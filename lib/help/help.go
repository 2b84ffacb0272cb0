// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/cxz/crush/lib/command"
)

// DefaultWidth is the wrap column used when Options.Width is zero.
const DefaultWidth = 80

// Theme holds the colours help output uses.
type Theme struct {
	Heading lipgloss.Color
	Code    lipgloss.Color
	Faint   lipgloss.Color
	Accent  lipgloss.Color
}

// DefaultTheme suits dark and light 256-colour terminals.
var DefaultTheme = Theme{
	Heading: lipgloss.Color("75"),
	Code:    lipgloss.Color("180"),
	Faint:   lipgloss.Color("244"),
	Accent:  lipgloss.Color("212"),
}

// Options configures a Renderer.
type Options struct {
	// Width is the wrap column. Zero uses DefaultWidth.
	Width int

	// Color enables ANSI styling and code highlighting. When false the
	// output is plain text.
	Color bool

	// Theme overrides DefaultTheme when any colour is set.
	Theme Theme
}

// Renderer formats help text. A Renderer is safe for concurrent use.
type Renderer struct {
	width       int
	color       bool
	theme       Theme
	lipRenderer *lipgloss.Renderer
}

// New returns a renderer. The colour profile is fixed here rather than
// detected, so callers decide once whether their output is a terminal.
func New(options Options) *Renderer {
	width := options.Width
	if width <= 0 {
		width = DefaultWidth
	}
	theme := options.Theme
	if theme == (Theme{}) {
		theme = DefaultTheme
	}
	profile := termenv.Ascii
	if options.Color {
		profile = termenv.ANSI256
	}
	lipRenderer := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(profile))
	// NewRenderer re-detects the profile from the environment unless it
	// is set explicitly.
	lipRenderer.SetColorProfile(profile)

	return &Renderer{
		width:       width,
		color:       options.Color,
		theme:       theme,
		lipRenderer: lipRenderer,
	}
}

// Command renders the full help page of c: usage line, declared output,
// summary, the long text, and for mutating methods a note saying so.
func (r *Renderer) Command(c *command.Command) string {
	var page strings.Builder

	usage := c.Signature
	if usage == "" {
		usage = c.Name()
	}
	page.WriteString(r.style().Bold(true).Foreground(r.theme.Heading).Render(usage))
	page.WriteString("\n")
	page.WriteString(r.style().Foreground(r.theme.Faint).Render(
		fmt.Sprintf("%s -> %s", c.FullName(), c.Output)))
	page.WriteString("\n")

	if c.Short != "" {
		page.WriteString("\n")
		page.WriteString(ansi.Wrap(c.Short, r.width, wrapBreakpoints))
		page.WriteString("\n")
	}
	if long := r.Markdown(c.Long); long != "" {
		page.WriteString("\n")
		page.WriteString(long)
		page.WriteString("\n")
	}
	if c.Mutates {
		page.WriteString("\n")
		page.WriteString(r.style().Foreground(r.theme.Accent).Render("Changes the value it is called on."))
		page.WriteString("\n")
	}
	return page.String()
}

// Methods renders the method table of one value kind as an aligned
// name and summary listing.
func (r *Renderer) Methods(table *command.MethodTable) string {
	methods := table.All()
	if len(methods) == 0 {
		return ""
	}
	entries := make([]entry, len(methods))
	for index, method := range methods {
		usage := method.Signature
		if usage == "" {
			usage = method.Name()
		}
		entries[index] = entry{name: usage, summary: method.Short}
	}

	var page strings.Builder
	page.WriteString(r.style().Bold(true).Foreground(r.theme.Heading).Render(
		fmt.Sprintf("Methods of %s", table.Kind())))
	page.WriteString("\n\n")
	page.WriteString(r.listing(entries))
	return page.String()
}

// Index renders search results as an aligned listing with the matched
// characters of each name highlighted.
func (r *Renderer) Index(results []command.SearchResult) string {
	entries := make([]entry, len(results))
	for index, result := range results {
		entries[index] = entry{
			name:      result.Name,
			summary:   result.Command.Short,
			positions: result.Positions,
		}
	}
	return r.listing(entries)
}

type entry struct {
	name      string
	summary   string
	positions []int
}

// listing aligns summaries after the longest name and wraps them with
// a hanging indent.
func (r *Renderer) listing(entries []entry) string {
	nameWidth := 0
	for _, item := range entries {
		nameWidth = max(nameWidth, ansi.StringWidth(item.name))
	}
	const gap = 2
	summaryWidth := max(r.width-nameWidth-gap-2, 20)
	hanging := strings.Repeat(" ", 2+nameWidth+gap)

	var out strings.Builder
	for _, item := range entries {
		name := r.highlightPositions(item.name, item.positions)
		padding := strings.Repeat(" ", nameWidth-ansi.StringWidth(item.name)+gap)
		out.WriteString("  " + name + padding)

		summary := ansi.Wrap(item.summary, summaryWidth, wrapBreakpoints)
		out.WriteString(strings.ReplaceAll(summary, "\n", "\n"+hanging))
		out.WriteString("\n")
	}
	return out.String()
}

func (r *Renderer) highlightPositions(name string, positions []int) string {
	if len(positions) == 0 || !r.color {
		return name
	}
	matched := make(map[int]bool, len(positions))
	for _, position := range positions {
		matched[position] = true
	}
	accent := r.style().Foreground(r.theme.Accent).Bold(true)
	var out strings.Builder
	for index, character := range []rune(name) {
		if matched[index] {
			out.WriteString(accent.Render(string(character)))
		} else {
			out.WriteRune(character)
		}
	}
	return out.String()
}
