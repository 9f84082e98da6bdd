package web

import (
	"embed"
	"fmt"
	"strings"
)

// Pages embeds the HTML documents into the Go binary so the server ships as a
// single artifact.
//
//go:embed static
var staticFS embed.FS

// Page returns the raw HTML document with the given name.
func Page(name string) (string, error) {
	content, err := staticFS.ReadFile("static/" + name + ".html")
	if err != nil {
		return "", fmt.Errorf("web: read page %q: %w", name, err)
	}
	return string(content), nil
}

// RenderPage returns the HTML document with every {username} placeholder
// replaced by the supplied username.
func RenderPage(name, username string) (string, error) {
	content, err := Page(name)
	if err != nil {
		return "", err
	}
	return strings.ReplaceAll(content, "{username}", username), nil
}
