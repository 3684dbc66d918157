package handlers

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageTemplates holds every page keyed by file name ("login.html", ...).
// layout.html only defines the shared "header" and "footer" blocks.
var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))
