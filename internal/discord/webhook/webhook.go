// Package webhook posts formatted rolls to a Discord channel webhook
package webhook

//go:generate mockgen -destination=mocks/mock_executor.go -package=mockwebhook -source=webhook.go Executor

import (
	"context"
	"regexp"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/storycraft/roller/internal/discord/builders"
	"github.com/storycraft/roller/internal/domain/roll"
	rerr "github.com/storycraft/roller/internal/errors"
)

var webhookURLRegex = regexp.MustCompile(`^https://(?:(?:canary|ptb)\.)?discord(?:app)?\.com/api(?:/v\d+)?/webhooks/(\d+)/([\w-]+)/?$`)

// Executor is the part of *discordgo.Session the client needs
type Executor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// ParseWebhookURL splits a Discord webhook URL into its ID and token
func ParseWebhookURL(url string) (id, token string, err error) {
	m := webhookURLRegex.FindStringSubmatch(url)
	if m == nil {
		return "", "", rerr.InvalidArgumentf("not a Discord webhook URL: %q", url)
	}
	return m[1], m[2], nil
}

// Config holds configuration for the webhook client
type Config struct {
	URL       string
	Username  string
	AvatarURL string
	Executor  Executor // defaults to an unauthenticated discordgo session
	Logger    *zap.Logger
}

// Client posts roll messages to one webhook
type Client struct {
	id        string
	token     string
	username  string
	avatarURL string
	executor  Executor
	logger    *zap.Logger
}

// New creates a webhook client
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, rerr.InvalidArgument("webhook config is required")
	}
	id, token, err := ParseWebhookURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	executor := cfg.Executor
	if executor == nil {
		// webhook endpoints authenticate with the token in the URL
		session, err := discordgo.New("")
		if err != nil {
			return nil, rerr.Wrap(err, "failed to create discord session")
		}
		executor = session
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		id:        id,
		token:     token,
		username:  cfg.Username,
		avatarURL: cfg.AvatarURL,
		executor:  executor,
		logger:    logger,
	}, nil
}

// Send posts the roll as an embed, then each attachment URL as its own
// message so Discord unfurls it.
func (c *Client) Send(ctx context.Context, msg *roll.Message, author string, at time.Time) error {
	if msg == nil {
		return rerr.InvalidArgument("message is required")
	}

	_, err := c.executor.WebhookExecute(c.id, c.token, true, &discordgo.WebhookParams{
		Username:  c.username,
		AvatarURL: c.avatarURL,
		Embeds:    []*discordgo.MessageEmbed{builders.RollEmbed(msg, author, at)},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return rerr.WrapWithCode(err, rerr.CodeUnavailable, "failed to post roll to webhook")
	}

	for _, url := range msg.Attachments {
		_, err := c.executor.WebhookExecute(c.id, c.token, true, &discordgo.WebhookParams{
			Username:  c.username,
			AvatarURL: c.avatarURL,
			Content:   url,
		}, discordgo.WithContext(ctx))
		if err != nil {
			return rerr.WrapWithCode(err, rerr.CodeUnavailable, "failed to post attachment to webhook").
				WithMeta("attachment", url)
		}
	}

	c.logger.Debug("posted roll to webhook",
		zap.String("title", msg.Title),
		zap.Int("attachments", len(msg.Attachments)))
	return nil
}
