package card

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pscheid92/mcmotd/internal/domain"
	"github.com/pscheid92/mcmotd/internal/escape"
)

const ContentType = "image/svg+xml"

const styleSheet = `.shadow { text-shadow: 1px 1px 2px rgba(0,0,0,0.8); }
.motd { display: block; white-space: pre-wrap; word-wrap: break-word; overflow: hidden; text-shadow: 1px 1px 2px rgba(0,0,0,1); font-family: -apple-system, Arial, sans-serif; line-height: 1.4; max-height: 85px; color: #ffffff; font-size: 16px; }
.motd span { display: inline; }
.players { font-size: 14px; line-height: 1.6; }
.players div { display: block; color: #ffffff; overflow: hidden; white-space: nowrap; font-family: -apple-system, Arial; text-shadow: 1px 1px 2px rgba(0,0,0,1); }
.players div.faded { opacity: 0.5; }`

// Render serializes a Document to SVG.
func Render(doc Document) []byte {
	var b bytes.Buffer
	w, h := strconv.Itoa(doc.Width), strconv.Itoa(doc.Height)

	fmt.Fprintf(&b, `<svg width="%s" height="%s" viewBox="0 0 %s %s" xmlns="http://www.w3.org/2000/svg">`, w, h, w, h)
	b.WriteString("<defs><style>")
	b.WriteString(styleSheet)
	b.WriteString("</style>")
	fmt.Fprintf(&b, `<clipPath id="card-mask"><rect width="%s" height="%s" rx="%s"/></clipPath>`, w, h, num(doc.Radius))

	clips := 0
	for _, e := range doc.Elements {
		if img, ok := e.(Image); ok && img.ClipRadius > 0 {
			fmt.Fprintf(&b, `<clipPath id="clip-%d"><rect width="%s" height="%s" rx="%s"/></clipPath>`, clips, num(img.W), num(img.H), num(img.ClipRadius))
			clips++
		}
	}
	b.WriteString("</defs>")

	b.WriteString(`<g clip-path="url(#card-mask)">`)
	for _, e := range doc.Elements {
		if isBackdrop(e) {
			writeElement(&b, e, -1)
		}
	}
	b.WriteString("</g>")

	clip := 0
	for _, e := range doc.Elements {
		if isBackdrop(e) {
			continue
		}
		if img, ok := e.(Image); ok && img.ClipRadius > 0 {
			writeElement(&b, e, clip)
			clip++
			continue
		}
		writeElement(&b, e, -1)
	}

	b.WriteString("</svg>")
	return b.Bytes()
}

// RenderStatus lays out and serializes in one step.
func RenderStatus(p Params) []byte {
	return Render(Layout(p))
}

// RenderUnavailable renders the card used when the status could not be resolved at all.
func RenderUnavailable(p Params) []byte {
	p.Status = domain.UnknownStatus()
	return RenderStatus(p)
}

func isBackdrop(e Element) bool {
	switch v := e.(type) {
	case Rect:
		return v.Backdrop
	case Image:
		return v.Backdrop
	}
	return false
}

func writeElement(b *bytes.Buffer, e Element, clip int) {
	switch v := e.(type) {
	case Rect:
		fmt.Fprintf(b, `<rect x="%s" y="%s" width="%s" height="%s"`, num(v.X), num(v.Y), num(v.W), num(v.H))
		if v.RX > 0 {
			fmt.Fprintf(b, ` rx="%s"`, num(v.RX))
		}
		fmt.Fprintf(b, ` fill="%s" fill-opacity="%s"/>`, escape.XMLAttr(v.Fill), num(v.FillOpacity))

	case Image:
		if clip >= 0 {
			fmt.Fprintf(b, `<g transform="translate(%s, %s)">`, num(v.X), num(v.Y))
			fmt.Fprintf(b, `<image href="%s" width="%s" height="%s" clip-path="url(#clip-%d)"/></g>`, escape.XMLAttr(v.Href), num(v.W), num(v.H), clip)
			return
		}
		fmt.Fprintf(b, `<image href="%s" x="%s" y="%s" width="%s" height="%s"`, escape.XMLAttr(v.Href), num(v.X), num(v.Y), num(v.W), num(v.H))
		if v.Cover {
			b.WriteString(` preserveAspectRatio="xMidYMid slice"`)
		}
		b.WriteString("/>")

	case Text:
		fmt.Fprintf(b, `<text x="%s" y="%s" font-family="Arial" font-size="%s" fill="%s"`, num(v.X), num(v.Y), num(v.Size), escape.XMLAttr(v.Fill))
		if v.Bold {
			b.WriteString(` font-weight="bold"`)
		}
		if v.Anchor != "" && v.Anchor != AnchorStart {
			fmt.Fprintf(b, ` text-anchor="%s"`, v.Anchor)
		}
		if v.LetterSpacing > 0 {
			fmt.Fprintf(b, ` style="letter-spacing:%spx"`, num(v.LetterSpacing))
		}
		fmt.Fprintf(b, ` class="shadow">%s</text>`, escape.XMLText(v.Content))

	case HTMLBox:
		fmt.Fprintf(b, `<foreignObject x="%s" y="%s" width="%s" height="%s">`, num(v.X), num(v.Y), num(v.W), num(v.H))
		fmt.Fprintf(b, `<div xmlns="http://www.w3.org/1999/xhtml" class="%s">`, escape.XMLAttr(v.Class))
		for _, block := range v.Blocks {
			b.WriteString("<div")
			if block.Faded {
				b.WriteString(` class="faded"`)
			}
			if block.Height > 0 {
				fmt.Fprintf(b, ` style="height:%spx"`, num(block.Height))
			}
			b.WriteString(">")
			b.WriteString(string(block.Content))
			b.WriteString("</div>")
		}
		b.WriteString("</div></foreignObject>")
	}
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
