package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

const (
	defaultWrapWidth = 100
	listLevelIndent  = 2
)

// newMarkdownRenderer builds a renderer with a fixed style so no terminal background query is issued.
func newMarkdownRenderer(width int) *glamour.TermRenderer {
	if width <= 0 {
		width = defaultWrapWidth
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(markdownStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return renderer
}

func markdownStyle() ansi.StyleConfig {
	return ansi.StyleConfig{
		Document: ansi.StyleBlock{Margin: uintPointer(0)},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: stringPointer("39"), Bold: boolPointer(true)},
		},
		H1:        ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "# "}},
		H2:        ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "## "}},
		H3:        ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: "### "}},
		Paragraph: ansi.StyleBlock{Margin: uintPointer(0)},
		List:      ansi.StyleList{LevelIndent: listLevelIndent},
		Item:      ansi.StylePrimitive{BlockPrefix: "• "},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ". ",
		},
		Code: ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: stringPointer("203")}},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: stringPointer("244")},
				Margin:         uintPointer(1),
			},
			Chroma: &ansi.Chroma{
				Text:          ansi.StylePrimitive{Color: stringPointer("#d0d0d0")},
				Keyword:       ansi.StylePrimitive{Color: stringPointer("#00afff")},
				Name:          ansi.StylePrimitive{Color: stringPointer("#87d7ff")},
				LiteralString: ansi.StylePrimitive{Color: stringPointer("#5fd75f")},
				LiteralNumber: ansi.StylePrimitive{Color: stringPointer("#d7005f")},
				Comment:       ansi.StylePrimitive{Color: stringPointer("#626262")},
			},
		},
		Emph:   ansi.StylePrimitive{Italic: boolPointer(true)},
		Strong: ansi.StylePrimitive{Bold: boolPointer(true)},
		Link:   ansi.StylePrimitive{Color: stringPointer("39"), Underline: boolPointer(true)},
	}
}

// renderMarkdown returns content unchanged when renderer is nil or rendering fails.
func renderMarkdown(renderer *glamour.TermRenderer, content string) string {
	if renderer == nil {
		return content
	}
	rendered, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

func stringPointer(value string) *string { return &value }
func boolPointer(value bool) *bool       { return &value }
func uintPointer(value uint) *uint       { return &value }
