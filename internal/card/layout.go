package card

import (
	_ "embed"
	"encoding/base64"
	"fmt"
	"strconv"
	"time"

	"github.com/pscheid92/mcmotd/internal/domain"
	"github.com/pscheid92/mcmotd/internal/escape"
)

const (
	Width         = 600
	BaseHeight    = 320
	RowHeight     = 24
	MinPlayerArea = 30
	DisplayCap    = 10

	cornerRadius  = 45
	margin        = 35
	iconSize      = 64
	iconRadius    = 22.5
	motdTop       = 115
	motdHeight    = 85
	playersLabelY = 230
	playersTop    = 240
	playerRowPx   = 22
	footerOffset  = 45

	colorOnline  = "#a6e3a1"
	colorOffline = "#f38ba8"
	colorPanel   = "#11111b"
	colorMuted   = "#9399b2"
	colorLabel   = "#94e2d5"
	colorFooter  = "rgba(255,255,255,0.6)"

	defaultMOTD    = "A Minecraft Server"
	defaultVersion = "Java Edition"
	noVersion      = "N/A"
	noPlayers      = "No players online"
	timeLayout     = "2006-01-02 15:04:05"
)

//go:embed placeholder.svg
var placeholderSVG []byte

// PlaceholderIcon is shown when the server reports no favicon.
var PlaceholderIcon = "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(placeholderSVG)

// Params is everything Layout needs. Now and Location only affect the footer timestamp.
type Params struct {
	Label         string
	Status        domain.ServerStatus
	BackgroundURL string
	Now           time.Time
	Location      *time.Location
}

// PlayerRows is the number of player rows the card reserves for n listed players.
func PlayerRows(n int) int {
	return max(min(n, DisplayCap), 1)
}

// Height is the card height for n listed players. It never drops below BaseHeight+MinPlayerArea
// and grows one RowHeight per row up to DisplayCap.
func Height(n int) int {
	return BaseHeight + playerArea(n)
}

func playerArea(n int) int {
	return max(PlayerRows(n)*RowHeight, MinPlayerArea)
}

// Layout positions every element of the card. It is pure: the same Params give the same Document.
func Layout(p Params) Document {
	status := p.Status.Normalize()

	listed := 0
	if status.Online {
		listed = len(status.Players)
	}
	height := Height(listed)

	doc := Document{Width: Width, Height: height, Radius: cornerRadius}
	add := func(e Element) { doc.Elements = append(doc.Elements, e) }

	if p.BackgroundURL != "" {
		add(Image{W: Width, H: float64(height), Href: p.BackgroundURL, Cover: true, Backdrop: true})
	}
	add(Rect{W: Width, H: float64(height), Fill: colorPanel, FillOpacity: 0.75, Backdrop: true})

	add(Image{X: margin, Y: margin, W: iconSize, H: iconSize, Href: iconHref(status), ClipRadius: iconRadius})
	add(Text{X: 115, Y: 60, Content: p.Label, Size: 22, Bold: true, Fill: "#ffffff"})
	add(Text{X: 115, Y: 85, Content: versionLine(status), Size: 13, Fill: colorMuted})

	add(Rect{X: 465, Y: 40, W: 105, H: 28, RX: 14, Fill: "#000000", FillOpacity: 0.5})
	pill := Text{X: 517, Y: 58, Size: 12, Bold: true, Anchor: AnchorMiddle}
	if status.Online {
		pill.Fill = colorOnline
		pill.Content = fmt.Sprintf("%d / %d", status.PlayersOnline, status.PlayersMax)
	} else {
		pill.Fill = colorOffline
		pill.Content = "OFFLINE"
	}
	add(pill)

	add(HTMLBox{
		X: margin, Y: motdTop, W: Width - 2*margin, H: motdHeight,
		Class:  "motd",
		Blocks: []HTMLBlock{{Content: motdHTML(status)}},
	})

	add(Text{X: margin, Y: playersLabelY, Content: "ONLINE PLAYERS", Size: 11, Bold: true, Fill: colorLabel, LetterSpacing: 1.5})
	add(HTMLBox{
		X: margin, Y: playersTop, W: Width - 2*margin, H: float64(playerArea(listed)),
		Class:  "players",
		Blocks: playerBlocks(status, listed),
	})

	footerY := float64(height - footerOffset)
	add(Text{X: margin, Y: footerY, Content: pingLine(status), Size: 12, Fill: colorFooter})
	add(Text{X: Width - margin, Y: footerY, Content: timestamp(p.Now, p.Location), Size: 12, Fill: colorFooter, Anchor: AnchorEnd})

	return doc
}

func iconHref(s domain.ServerStatus) string {
	if s.Online && s.Icon != "" {
		return s.Icon
	}
	return PlaceholderIcon
}

func versionLine(s domain.ServerStatus) string {
	switch {
	case !s.Online:
		return noVersion
	case s.Version == "":
		return defaultVersion
	default:
		return s.Version
	}
}

func motdHTML(s domain.ServerStatus) SafeHTML {
	switch {
	case !s.Online:
		return SafeHTML(escape.XMLText(domain.OfflineMOTD))
	case s.MOTDHTML != "":
		return SafeHTML(escape.RichText(s.MOTDHTML))
	case s.MOTDClean != "":
		return SafeHTML(escape.XMLText(s.MOTDClean))
	default:
		return SafeHTML(escape.XMLText(defaultMOTD))
	}
}

func playerBlocks(s domain.ServerStatus, listed int) []HTMLBlock {
	if listed == 0 {
		return []HTMLBlock{{Content: SafeHTML(escape.XMLText(noPlayers)), Faded: true}}
	}

	shown := s.Players
	overflow := 0
	if listed > DisplayCap {
		shown = s.Players[:DisplayCap-1]
		overflow = listed - len(shown)
	}

	blocks := make([]HTMLBlock, 0, PlayerRows(listed))
	for _, pl := range shown {
		content := SafeHTML(escape.XMLText(pl.Name))
		if pl.NameHTML != "" {
			content = SafeHTML(escape.RichText(pl.NameHTML))
		}
		blocks = append(blocks, HTMLBlock{Content: content, Height: playerRowPx})
	}
	if overflow > 0 {
		blocks = append(blocks, HTMLBlock{Content: SafeHTML(escape.XMLText("+" + strconv.Itoa(overflow) + " more")), Height: playerRowPx, Faded: true})
	}
	return blocks
}

func pingLine(s domain.ServerStatus) string {
	if s.PingMillis == nil {
		return "Ping: N/A"
	}
	return fmt.Sprintf("Ping: %dms", *s.PingMillis)
}

func timestamp(now time.Time, loc *time.Location) string {
	if now.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(timeLayout)
}
