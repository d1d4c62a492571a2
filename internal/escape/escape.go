// Package escape holds the output-dialect escapers. Every dynamic string that ends up in SVG
// markup or in a generated Telegram message passes through exactly one of these functions.
package escape

import (
	"regexp"
	"strings"
)

var xmlTextReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

var xmlAttrReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// XMLText escapes s for use as an XML/HTML text node.
func XMLText(s string) string {
	return xmlTextReplacer.Replace(stripControl(s))
}

// XMLAttr escapes s for use inside a quoted XML/HTML attribute value.
func XMLAttr(s string) string {
	return xmlAttrReplacer.Replace(stripControl(s))
}

// stripControl drops characters that are not allowed anywhere in XML 1.0.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20, r == 0xFFFE, r == 0xFFFF:
			return -1
		case r >= 0xD800 && r <= 0xDFFF:
			return -1
		}
		return r
	}, s)
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// HTML escapes s for Telegram's "HTML" parse mode. Escapes hold inside <b> and <code>
// entities too, so every dynamic field of a bot reply goes through here.
func HTML(s string) string {
	return htmlReplacer.Replace(s)
}

var (
	tagPattern   = regexp.MustCompile(`(?s)<(/?)([a-zA-Z][a-zA-Z0-9]*)([^>]*)>`)
	stylePattern = regexp.MustCompile(`(?i)style\s*=\s*"([^"]*)"`)
	safeStyle    = regexp.MustCompile(`^[a-zA-Z0-9#%.,:;()\s-]*$`)
)

var richTextTags = map[string]bool{
	"span": true, "b": true, "i": true, "u": true, "s": true, "br": true, "strong": true, "em": true,
}

// RichText sanitizes upstream-rendered MOTD or player-name HTML. Only formatting tags survive,
// the only attribute kept is a style made of plain CSS declarations, and all text between tags is
// re-escaped. The result can be embedded inside an XHTML container without breaking out of it.
func RichText(html string) string {
	var b strings.Builder
	last := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(html, -1) {
		b.WriteString(XMLText(unescapeEntities(html[last:m[0]])))
		last = m[1]

		closing := html[m[2]:m[3]] == "/"
		name := strings.ToLower(html[m[4]:m[5]])
		attrs := html[m[6]:m[7]]
		if !richTextTags[name] {
			continue
		}

		switch {
		case name == "br":
			b.WriteString("<br/>")
		case closing:
			b.WriteString("</" + name + ">")
		default:
			b.WriteString("<" + name)
			if sm := stylePattern.FindStringSubmatch(attrs); sm != nil {
				style := unescapeEntities(sm[1])
				if safeStyle.MatchString(style) && !strings.Contains(strings.ToLower(style), "url(") {
					b.WriteString(` style="` + XMLAttr(style) + `"`)
				}
			}
			b.WriteString(">")
		}
	}
	b.WriteString(XMLText(unescapeEntities(html[last:])))
	return balanceTags(b.String())
}

var entityReplacer = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
	"&amp;", "&",
)

func unescapeEntities(s string) string {
	return entityReplacer.Replace(s)
}

var balancePattern = regexp.MustCompile(`<(/?)([a-z]+)[^>]*?(/?)>`)

// balanceTags drops stray closing tags and closes anything left open.
func balanceTags(s string) string {
	var (
		out   strings.Builder
		stack []string
		last  int
	)
	for _, m := range balancePattern.FindAllStringSubmatchIndex(s, -1) {
		out.WriteString(s[last:m[0]])
		last = m[1]

		tag := s[m[0]:m[1]]
		name := s[m[4]:m[5]]
		switch {
		case s[m[6]:m[7]] == "/":
			out.WriteString(tag)
		case s[m[2]:m[3]] == "/":
			idx := lastIndex(stack, name)
			if idx < 0 {
				continue
			}
			for i := len(stack) - 1; i >= idx; i-- {
				out.WriteString("</" + stack[i] + ">")
			}
			stack = stack[:idx]
		default:
			stack = append(stack, name)
			out.WriteString(tag)
		}
	}
	out.WriteString(s[last:])
	for i := len(stack) - 1; i >= 0; i-- {
		out.WriteString("</" + stack[i] + ">")
	}
	return out.String()
}

func lastIndex(stack []string, name string) int {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == name {
			return i
		}
	}
	return -1
}
