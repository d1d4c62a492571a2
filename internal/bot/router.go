package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/pscheid92/mcmotd/internal/card"
	"github.com/pscheid92/mcmotd/internal/domain"
)

// State is a step of the command pipeline. Handle reports the terminal one.
type State string

const (
	AwaitMessage            State = "await_message"
	MatchCustom             State = "match_custom"
	ReplyCustom             State = "reply_custom"
	MatchStatusCmd          State = "match_status_cmd"
	PromptUsage             State = "prompt_usage"
	FetchStatus             State = "fetch_status"
	ReplyOffline            State = "reply_offline"
	ReplyOnlineCard         State = "reply_online_card"
	ReplyOnlineTextFallback State = "reply_online_text_fallback"
	ReplyFetchFailed        State = "reply_fetch_failed"
	Ignore                  State = "ignore"
)

// Message is one inbound chat message. Origin is the public base URL the card
// page is reachable under.
type Message struct {
	ChatID int64
	Text   string
	Origin string
}

// Relay delivers replies to the chat.
type Relay interface {
	SendMessage(ctx context.Context, token string, chatID int64, text, parseMode string) error
	SendPhoto(ctx context.Context, token string, chatID int64, photoURL, caption, parseMode string) error
}

// Screenshotter turns a page URL into an image URL the relay can fetch.
type Screenshotter interface {
	URL(pageURL string, width int) string
}

type Router struct {
	configs       domain.ConfigSource
	fetcher       domain.StatusFetcher
	relay         Relay
	shots         Screenshotter
	fallbackToken string
}

func NewRouter(configs domain.ConfigSource, fetcher domain.StatusFetcher, relay Relay, shots Screenshotter, fallbackToken string) *Router {
	return &Router{
		configs:       configs,
		fetcher:       fetcher,
		relay:         relay,
		shots:         shots,
		fallbackToken: fallbackToken,
	}
}

// Handle runs one message through the pipeline and returns the terminal state.
// A non-nil error means the reply could not be delivered.
func (r *Router) Handle(ctx context.Context, msg Message) (State, error) {
	bot := r.configs.Get(ctx).Bot()
	token := bot.ResolveToken(r.fallbackToken)
	if token == "" {
		return Ignore, domain.ErrTokenNotConfigured
	}

	state := AwaitMessage
	var (
		text    string
		address string
		status  domain.ServerStatus
		err     error
	)

	for {
		switch state {
		case AwaitMessage:
			text = strings.TrimSpace(msg.Text)
			if text == "" {
				return Ignore, nil
			}
			state = MatchCustom

		case MatchCustom:
			state = MatchStatusCmd
			for _, c := range bot.CustomCommands {
				if c.Cmd == text {
					// operator-authored Markdown, sent as is
					return ReplyCustom, r.send(ctx, token, msg.ChatID, c.Reply, ParseModeMarkdown)
				}
			}

		case MatchStatusCmd:
			cmd := bot.StatusCommand
			switch {
			case text == cmd:
				state = PromptUsage
			case strings.HasPrefix(text, cmd+" "):
				address = strings.TrimSpace(text[len(cmd)+1:])
				state = FetchStatus
				if address == "" {
					state = PromptUsage
				}
			default:
				return Ignore, nil
			}

		case PromptUsage:
			return PromptUsage, r.send(ctx, token, msg.ChatID, usagePrompt(bot.StatusCommand), ParseModeHTML)

		case FetchStatus:
			status, err = r.fetcher.Fetch(ctx, address)
			switch {
			case err != nil:
				state = ReplyFetchFailed
			case !status.Online:
				state = ReplyOffline
			default:
				state = ReplyOnlineCard
			}

		case ReplyFetchFailed:
			slog.WarnContext(ctx, "Status lookup for bot failed", "server", address, "error", err)
			return ReplyFetchFailed, r.send(ctx, token, msg.ChatID, fetchFailedReply(address, err), ParseModeHTML)

		case ReplyOffline:
			return ReplyOffline, r.send(ctx, token, msg.ChatID, offlineReply(address), ParseModeHTML)

		case ReplyOnlineCard:
			caption := onlineCaption(address, status)
			photo := r.shots.URL(cardURL(msg.Origin, address), card.Width)
			if photoErr := r.relay.SendPhoto(ctx, token, msg.ChatID, photo, caption, ParseModeHTML); photoErr != nil {
				if errors.Is(photoErr, context.Canceled) || errors.Is(photoErr, context.DeadlineExceeded) {
					return ReplyOnlineCard, fmt.Errorf("send photo: %w", photoErr)
				}
				slog.WarnContext(ctx, "Photo reply failed, falling back to text", "server", address, "error", photoErr)
				state = ReplyOnlineTextFallback
				continue
			}
			return ReplyOnlineCard, nil

		case ReplyOnlineTextFallback:
			return ReplyOnlineTextFallback, r.send(ctx, token, msg.ChatID, onlineCaption(address, status), ParseModeHTML)

		default:
			return Ignore, fmt.Errorf("unexpected router state %q", state)
		}
	}
}

func (r *Router) send(ctx context.Context, token string, chatID int64, text, parseMode string) error {
	if err := r.relay.SendMessage(ctx, token, chatID, text, parseMode); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// cardURL is the page the screenshot service renders.
func cardURL(origin, address string) string {
	return strings.TrimSuffix(origin, "/") + "/?server=" + url.QueryEscape(address)
}
