// Package announce posts the daily tip to a Discord channel.
package announce

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/kamilbartko1/extraliga-sub000/internal/tip"
)

const embedColor = 0x1E90FF

// Bot wraps a Discord session and the channel tips are posted to.
type Bot struct {
	session   *discordgo.Session
	channelID string
}

// NewBot creates a Discord bot. Token must be non-empty.
func NewBot(token, channelID string) (*Bot, error) {
	if token == "" {
		return nil, fmt.Errorf("discord token required")
	}
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	// Required for the gateway to stay connected and the bot to show online.
	s.Identify.Intents = discordgo.IntentsGuilds
	return &Bot{session: s, channelID: channelID}, nil
}

// Open connects the gateway session.
func (b *Bot) Open() error { return b.session.Open() }

// Close shuts down the gateway session.
func (b *Bot) Close() error { return b.session.Close() }

// TipDescription returns the embed description text for a tip (testable).
func TipDescription(t *tip.Tip) string {
	return fmt.Sprintf("**%s** (%s)\n%s\n\n🎯 **Goal probability: %d%%**\n⚡ %d goals, %d shots this season",
		t.Player, t.Team, t.Match, t.Probability, t.Goals, t.Shots)
}

// PostTip sends a rich embed with the day's goalscorer tip.
func (b *Bot) PostTip(ctx context.Context, t *tip.Tip, date string) error {
	if b.channelID == "" || t == nil {
		return nil
	}
	embed := &discordgo.MessageEmbed{
		Title:       "🏒 Tip of the day",
		Description: TipDescription(t),
		Color:       embedColor,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: date},
	}
	if t.Headshot != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: t.Headshot}
	}
	if _, err := b.session.ChannelMessageSendEmbed(b.channelID, embed); err != nil {
		return fmt.Errorf("send embed: %w", err)
	}
	slog.Info("discord tip posted", "channel", b.channelID, "player", t.Player, "date", date)
	return nil
}
