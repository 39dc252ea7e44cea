package format

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const markdownStyle = "dark"

func FormatMarkdown(text string) (string, error) {
	return glamour.Render(text, markdownStyle)
}

// FormatMarkdownWidth renders text wrapped to width columns. A non-positive
// width falls back to glamour's default wrapping.
func FormatMarkdownWidth(text string, width int) (string, error) {
	if width <= 0 {
		return FormatMarkdown(text)
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(markdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := renderer.Render(text)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
