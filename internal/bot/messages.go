package bot

import (
	"fmt"
	"strings"

	"github.com/pscheid92/mcmotd/internal/domain"
	"github.com/pscheid92/mcmotd/internal/escape"
)

// Generated replies use the HTML dialect. Custom replies keep Markdown: operators write them by hand.
const (
	ParseModeHTML     = "HTML"
	ParseModeMarkdown = "Markdown"
)

func usagePrompt(cmd string) string {
	return fmt.Sprintf("Add a server address after the command, for example: <code>%s mc.hypixel.net</code>", escape.HTML(cmd))
}

func offlineReply(address string) string {
	return fmt.Sprintf("🔴 <b>%s</b> is offline", escape.HTML(address))
}

func fetchFailedReply(address string, err error) string {
	return fmt.Sprintf("⚠️ Failed to query <b>%s</b>: %s", escape.HTML(address), escape.HTML(err.Error()))
}

// onlineCaption is used both as photo caption and as the text fallback.
func onlineCaption(address string, s domain.ServerStatus) string {
	version := s.Version
	if version == "" {
		version = "Unknown"
	}
	motd := strings.TrimSpace(s.MOTDClean)
	if motd == "" {
		motd = "No MOTD"
	}

	lines := []string{
		fmt.Sprintf("🟢 <b>%s</b> is online", escape.HTML(address)),
		fmt.Sprintf("👥 Players: <code>%d/%d</code>", s.PlayersOnline, s.PlayersMax),
		"🏷 Version: " + escape.HTML(version),
		"📝 MOTD: " + escape.HTML(motd),
	}
	return strings.Join(lines, "\n")
}
