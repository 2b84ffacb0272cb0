// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package help

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// wrapBreakpoints are the characters, besides spaces, after which a
// long line may be broken.
const wrapBreakpoints = " ,.;-+|"

var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.Strikethrough),
		)
	})
	return markdownParserInstance
}

// Markdown renders input as styled terminal text wrapped to the
// renderer's width.
func (r *Renderer) Markdown(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	walker := &markdownWalker{Renderer: r, source: source}
	ast.Walk(document, walker.walk)
	return strings.TrimRight(walker.output.String(), "\n")
}

// markdownWalker holds the state of one Markdown call.
type markdownWalker struct {
	*Renderer
	source []byte

	output strings.Builder
	// inline collects the styled fragments of the current paragraph or
	// heading until the block closes and is wrapped.
	inline strings.Builder

	indent        []int
	indentWidth   int
	pendingBullet string

	boldCount          int
	italicCount        int
	strikethroughCount int

	lists []listState

	trailingNewlines int
}

type listState struct {
	ordered bool
	counter int
	tight   bool
}

func (w *markdownWalker) contentWidth() int {
	width := w.width - w.indentWidth
	if width < 10 {
		width = 10
	}
	return width
}

func (w *markdownWalker) pushIndent(width int) {
	w.indent = append(w.indent, width)
	w.indentWidth += width
}

func (w *markdownWalker) popIndent() {
	if len(w.indent) == 0 {
		return
	}
	w.indentWidth -= w.indent[len(w.indent)-1]
	w.indent = w.indent[:len(w.indent)-1]
}

func (w *markdownWalker) inTightList() bool {
	return len(w.lists) > 0 && w.lists[len(w.lists)-1].tight
}

func (w *markdownWalker) write(s string) {
	if s == "" {
		return
	}
	w.output.WriteString(s)
	trimmed := strings.TrimRight(s, "\n")
	trailing := len(s) - len(trimmed)
	if trimmed == "" {
		w.trailingNewlines += trailing
	} else {
		w.trailingNewlines = trailing
	}
}

func (w *markdownWalker) ensureNewline() {
	if w.trailingNewlines < 1 && w.output.Len() > 0 {
		w.write("\n")
	}
}

func (w *markdownWalker) ensureBlankLine() {
	if w.output.Len() == 0 {
		return
	}
	for w.trailingNewlines < 2 {
		w.write("\n")
	}
}

// indented prefixes every line of content with the current indent. The
// first line takes the pending list bullet instead, if one is set.
func (w *markdownWalker) indented(content string) string {
	padding := strings.Repeat(" ", w.indentWidth)
	lines := strings.Split(content, "\n")
	for index, line := range lines {
		prefix := padding
		if index == 0 && w.pendingBullet != "" {
			prefix = w.pendingBullet
			w.pendingBullet = ""
		}
		lines[index] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func (w *markdownWalker) flushInline() string {
	content := w.inline.String()
	w.inline.Reset()
	if content == "" {
		return ""
	}
	return w.indented(ansi.Wrap(content, w.contentWidth(), wrapBreakpoints))
}

func (w *markdownWalker) styledText(content string) string {
	if w.boldCount == 0 && w.italicCount == 0 && w.strikethroughCount == 0 {
		return content
	}
	style := w.style()
	if w.boldCount > 0 {
		style = style.Bold(true)
	}
	if w.italicCount > 0 {
		style = style.Italic(true)
	}
	if w.strikethroughCount > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

func (w *markdownWalker) highlight(code, language string) string {
	faint := w.style().Foreground(w.theme.Code)
	if language == "" || !w.color {
		return faint.Render(code)
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
		return faint.Render(code)
	}
	return buffer.String()
}

func (w *markdownWalker) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			w.inline.Reset()
			break
		}
		if flushed := w.flushInline(); flushed != "" {
			w.write(flushed)
			w.ensureNewline()
			if !w.inTightList() {
				w.ensureBlankLine()
			}
		}

	case ast.KindHeading:
		if entering {
			w.inline.Reset()
		} else {
			w.leaveHeading()
		}

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			w.renderCode(block.Lines(), string(block.Language(w.source)))
		}
		return ast.WalkSkipChildren, nil

	case ast.KindCodeBlock:
		if entering {
			w.renderCode(node.Lines(), "")
		}
		return ast.WalkSkipChildren, nil

	case ast.KindBlockquote:
		if entering {
			w.pushIndent(2)
		} else {
			w.popIndent()
			w.ensureBlankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			w.lists = append(w.lists, listState{ordered: list.IsOrdered(), counter: list.Start, tight: list.IsTight})
		} else {
			w.lists = w.lists[:len(w.lists)-1]
			if !w.inTightList() {
				w.ensureBlankLine()
			}
		}

	case ast.KindListItem:
		if entering {
			w.enterListItem()
		} else {
			w.popIndent()
			if w.inTightList() {
				w.ensureNewline()
			} else {
				w.ensureBlankLine()
			}
		}

	case ast.KindThematicBreak:
		if entering {
			w.ensureBlankLine()
			rule := w.style().Foreground(w.theme.Faint).Render(strings.Repeat("─", w.contentWidth()))
			w.write(w.indented(rule))
			w.ensureNewline()
			w.ensureBlankLine()
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			w.inline.WriteString(w.styledText(string(textNode.Segment.Value(w.source))))
			// Soft breaks become spaces so the paragraph reflows.
			if textNode.SoftLineBreak() {
				w.inline.WriteString(" ")
			}
			if textNode.HardLineBreak() {
				w.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			w.inline.WriteString(w.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		counter := &w.italicCount
		if node.(*ast.Emphasis).Level >= 2 {
			counter = &w.boldCount
		}
		if entering {
			*counter++
		} else {
			*counter--
		}

	case ast.KindCodeSpan:
		if !entering {
			break
		}
		var code strings.Builder
		for child := node.FirstChild(); child != nil; child = child.NextSibling() {
			switch inner := child.(type) {
			case *ast.Text:
				code.Write(inner.Segment.Value(w.source))
			case *ast.String:
				code.Write(inner.Value)
			}
		}
		w.inline.WriteString(w.style().Foreground(w.theme.Code).Render(code.String()))
		return ast.WalkSkipChildren, nil

	case ast.KindLink:
		if !entering {
			destination := string(node.(*ast.Link).Destination)
			if destination != "" {
				w.inline.WriteString(" " + w.style().Foreground(w.theme.Faint).Render("("+destination+")"))
			}
		}

	case ast.KindAutoLink:
		if entering {
			url := string(node.(*ast.AutoLink).URL(w.source))
			w.inline.WriteString(w.style().Foreground(w.theme.Faint).Render(url))
		}

	case ast.KindHTMLBlock, ast.KindRawHTML:
		return ast.WalkSkipChildren, nil

	case extast.KindStrikethrough:
		if entering {
			w.strikethroughCount++
		} else {
			w.strikethroughCount--
		}
	}
	return ast.WalkContinue, nil
}

func (w *markdownWalker) leaveHeading() {
	content := ansi.Strip(w.inline.String())
	w.inline.Reset()
	if content == "" {
		return
	}
	style := w.style().Bold(true).Foreground(w.theme.Heading)
	w.ensureBlankLine()
	w.write(w.indented(ansi.Wrap(style.Render(content), w.contentWidth(), wrapBreakpoints)))
	w.ensureNewline()
	w.ensureBlankLine()
}

func (w *markdownWalker) renderCode(lines *text.Segments, language string) {
	var code strings.Builder
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		code.Write(segment.Value(w.source))
	}
	highlighted := w.highlight(strings.TrimRight(code.String(), "\n"), language)

	w.ensureBlankLine()
	w.pushIndent(2)
	for _, line := range strings.Split(highlighted, "\n") {
		w.write(w.indented(line))
		w.ensureNewline()
	}
	w.popIndent()
	w.ensureBlankLine()
}

func (w *markdownWalker) enterListItem() {
	if len(w.lists) == 0 {
		return
	}
	top := &w.lists[len(w.lists)-1]
	bullet := "- "
	if top.ordered {
		bullet = fmt.Sprintf("%d. ", top.counter)
		top.counter++
	}
	w.pendingBullet = strings.Repeat(" ", w.indentWidth) + bullet
	w.pushIndent(len(bullet))
}

// style returns an empty style bound to the renderer's colour profile.
func (r *Renderer) style() lipgloss.Style {
	return r.lipRenderer.NewStyle()
}
