package telegram

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jonboulle/clockwork"
)

const DefaultScreenshotURL = "https://s0.wp.com/mshots/v1/"

// MShots builds WordPress mShots URLs, a public service that renders a page to an image.
// Telegram fetches the result, so the card never has to be rasterized here.
type MShots struct {
	base  string
	clock clockwork.Clock
}

func NewMShots(base string, clock clockwork.Clock) MShots {
	if base == "" {
		base = DefaultScreenshotURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return MShots{base: base, clock: clock}
}

// URL returns the screenshot URL for pageURL at the given width.
// The timestamp keeps the service from answering with a stale capture.
func (m MShots) URL(pageURL string, width int) string {
	return fmt.Sprintf("%s%s?w=%d&t=%d", m.base, url.QueryEscape(pageURL), width, m.clock.Now().UnixMilli())
}
