// Package web embeds the HTML templates and static assets served by the
// browser surface.
package web

import "embed"

// TemplatesFS embeds HTML templates for server-side rendering.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS embeds stylesheets and other static files.
//
//go:embed static
var StaticFS embed.FS
