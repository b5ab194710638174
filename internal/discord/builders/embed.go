package builders

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/storycraft/roller/internal/domain/roll"
)

// Discord caps embed text; longer values are cut with an ellipsis
const (
	maxTitle       = 256
	maxDescription = 4096
	maxFieldValue  = 1024
	maxFooter      = 2048
)

// EmbedBuilder provides a fluent API for building Discord embeds
type EmbedBuilder struct {
	embed *discordgo.MessageEmbed
}

// NewEmbed creates a new embed builder
func NewEmbed() *EmbedBuilder {
	return &EmbedBuilder{
		embed: &discordgo.MessageEmbed{
			Type:   discordgo.EmbedTypeRich,
			Fields: make([]*discordgo.MessageEmbedField, 0),
		},
	}
}

// Title sets the embed title
func (b *EmbedBuilder) Title(title string) *EmbedBuilder {
	b.embed.Title = truncate(title, maxTitle)
	return b
}

// Description sets the embed description
func (b *EmbedBuilder) Description(description string) *EmbedBuilder {
	b.embed.Description = truncate(description, maxDescription)
	return b
}

// Color sets the embed color
func (b *EmbedBuilder) Color(color int) *EmbedBuilder {
	b.embed.Color = color
	return b
}

// Timestamp sets the embed timestamp
func (b *EmbedBuilder) Timestamp(timestamp time.Time) *EmbedBuilder {
	b.embed.Timestamp = timestamp.Format(time.RFC3339)
	return b
}

// Footer sets the embed footer
func (b *EmbedBuilder) Footer(text string) *EmbedBuilder {
	if text == "" {
		return b
	}
	b.embed.Footer = &discordgo.MessageEmbedFooter{Text: truncate(text, maxFooter)}
	return b
}

// Author sets the embed author
func (b *EmbedBuilder) Author(name, iconURL string) *EmbedBuilder {
	if name == "" {
		return b
	}
	b.embed.Author = &discordgo.MessageEmbedAuthor{
		Name:    name,
		IconURL: iconURL,
	}
	return b
}

// Field adds a field to the embed
func (b *EmbedBuilder) Field(name, value string, inline bool) *EmbedBuilder {
	b.embed.Fields = append(b.embed.Fields, &discordgo.MessageEmbedField{
		Name:   name,
		Value:  truncate(value, maxFieldValue),
		Inline: inline,
	})
	return b
}

// Build returns the constructed embed
func (b *EmbedBuilder) Build() *discordgo.MessageEmbed {
	return b.embed
}

// Roll embed colors
const (
	ColorRoll         = 0x7289da // Discord Blurple
	ColorCritical     = 0x2ecc71 // Green
	ColorCriticalFail = 0xe74c3c // Red
)

// RollEmbed renders a formatted roll. author is the character name, empty
// for formula rolls.
func RollEmbed(msg *roll.Message, author string, at time.Time) *discordgo.MessageEmbed {
	color := ColorRoll
	switch {
	case msg.Critical:
		color = ColorCritical
	case msg.CriticalFail:
		color = ColorCriticalFail
	}

	b := NewEmbed().
		Author(author, "").
		Title(msg.Title).
		Description(msg.DisplayText).
		Color(color).
		Footer(msg.Footer)
	for _, f := range msg.Fields {
		b.Field(f.Name, f.Value, false)
	}
	if !at.IsZero() {
		b.Timestamp(at)
	}
	return b.Build()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
