package domain

import "slices"

const DefaultStatusCommand = "/m"

// SiteConfig is the single operator-editable configuration blob.
type SiteConfig struct {
	Title              string     `json:"title,omitempty"`
	BackgroundImageURL string     `json:"bgImage,omitempty"`
	Telegram           *BotConfig `json:"telegram,omitempty"`
}

type BotConfig struct {
	Token          string          `json:"token,omitempty"`
	StatusCommand  string          `json:"statusCmd,omitempty"`
	CustomCommands []CustomCommand `json:"customCommands"`
}

type CustomCommand struct {
	Cmd   string `json:"cmd"`
	Reply string `json:"reply"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func DefaultSiteConfig() SiteConfig {
	return SiteConfig{}
}

// Bot returns the bot section with defaults applied. It never returns nil.
func (c SiteConfig) Bot() BotConfig {
	var bot BotConfig
	if c.Telegram != nil {
		bot = *c.Telegram
		bot.CustomCommands = slices.Clone(c.Telegram.CustomCommands)
	}
	if bot.StatusCommand == "" {
		bot.StatusCommand = DefaultStatusCommand
	}
	return bot
}

// Redacted returns a copy safe to hand to unauthenticated readers.
func (c SiteConfig) Redacted() SiteConfig {
	if c.Telegram == nil || c.Telegram.Token == "" {
		return c
	}
	bot := *c.Telegram
	bot.Token = MaskToken(bot.Token)
	c.Telegram = &bot
	return c
}

// MaskToken hides all but the first and last three characters.
func MaskToken(token string) string {
	if len(token) <= 6 {
		return "******"
	}
	return token[:3] + "******" + token[len(token)-3:]
}

// ResolveToken picks the bot token: the stored one wins, fallback (usually TELEGRAM_TOKEN) otherwise.
func (b BotConfig) ResolveToken(fallback string) string {
	if b.Token != "" {
		return b.Token
	}
	return fallback
}
