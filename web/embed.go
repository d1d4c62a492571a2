// Package web holds the embedded page templates.
package web

import "embed"

//go:embed templates/*.html
var TemplateFiles embed.FS
