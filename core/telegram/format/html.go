package format

import (
	"html"
	"strings"
)

// EscapeHTML makes user supplied text safe for Telegram's HTML parse mode.
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// Bold wraps escaped text in <b> tags.
func Bold(s string) string {
	return "<b>" + EscapeHTML(s) + "</b>"
}

// Code wraps escaped text in <code> tags.
func Code(s string) string {
	return "<code>" + EscapeHTML(s) + "</code>"
}

// Lines joins non-empty lines with a newline.
func Lines(lines ...string) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
