// Package card lays out a server status card and serializes it as SVG.
//
// Layout is a pure function from status data to a Document, a flat list of positioned
// elements. Render is the only place that produces markup. Untrusted text is escaped there,
// and upstream rich text is sanitized before it becomes SafeHTML.
package card
