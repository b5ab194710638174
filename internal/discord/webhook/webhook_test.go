package webhook_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/storycraft/roller/internal/discord/webhook"
	mockwebhook "github.com/storycraft/roller/internal/discord/webhook/mocks"
	"github.com/storycraft/roller/internal/domain/roll"
	rerr "github.com/storycraft/roller/internal/errors"
	"github.com/storycraft/roller/internal/events"
	"github.com/storycraft/roller/internal/observability"
	"github.com/storycraft/roller/internal/repositories/feed"
)

const testURL = "https://discord.com/api/webhooks/123456789/tok-en_1"

func TestParseWebhookURL(t *testing.T) {
	tests := []struct {
		url       string
		wantID    string
		wantToken string
		wantErr   bool
	}{
		{url: testURL, wantID: "123456789", wantToken: "tok-en_1"},
		{url: "https://canary.discord.com/api/v10/webhooks/42/abc/", wantID: "42", wantToken: "abc"},
		{url: "https://discordapp.com/api/webhooks/7/xyz", wantID: "7", wantToken: "xyz"},
		{url: "https://example.com/api/webhooks/1/abc", wantErr: true},
		{url: "http://discord.com/api/webhooks/1/abc", wantErr: true},
		{url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			id, token, err := webhook.ParseWebhookURL(tt.url)
			if tt.wantErr {
				assert.True(t, rerr.IsInvalidArgument(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

type ClientTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	executor *mockwebhook.MockExecutor
	client   *webhook.Client
}

func (s *ClientTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.executor = mockwebhook.NewMockExecutor(s.ctrl)

	client, err := webhook.New(&webhook.Config{
		URL:       testURL,
		Username:  "StoryCraft",
		AvatarURL: "https://cdn.example.com/avatar.png",
		Executor:  s.executor,
	})
	s.Require().NoError(err)
	s.client = client
}

func (s *ClientTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (s *ClientTestSuite) TestSend_EmbedThenAttachments() {
	msg := &roll.Message{
		Title:       "Ataque Furtivo",
		DisplayText: "**Result: 20**",
		Fields:      []roll.Field{{Name: roll.FieldRollDetails, Value: "1d6(4)"}},
		Attachments: []string{"https://cdn.example.com/sneak.gif"},
	}

	var posted []*discordgo.WebhookParams
	capture := func(id, token string, wait bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
		s.Equal("123456789", id)
		s.Equal("tok-en_1", token)
		s.True(wait)
		posted = append(posted, data)
		return &discordgo.Message{ID: "m"}, nil
	}
	s.executor.EXPECT().
		WebhookExecute("123456789", "tok-en_1", true, gomock.Any(), gomock.Any()).
		DoAndReturn(capture).
		Times(2)

	err := s.client.Send(context.Background(), msg, "Lia", time.Now())
	s.Require().NoError(err)

	s.Require().Len(posted, 2)
	s.Equal("StoryCraft", posted[0].Username)
	s.Require().Len(posted[0].Embeds, 1)
	s.Equal("Ataque Furtivo", posted[0].Embeds[0].Title)
	s.Equal("Lia", posted[0].Embeds[0].Author.Name)
	s.Empty(posted[1].Embeds)
	s.Equal("https://cdn.example.com/sneak.gif", posted[1].Content)
}

func (s *ClientTestSuite) TestSend_FailureIsUnavailable() {
	s.executor.EXPECT().
		WebhookExecute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("HTTP 404 Not Found"))

	err := s.client.Send(context.Background(), &roll.Message{Title: "Golpe"}, "", time.Time{})

	s.Equal(rerr.CodeUnavailable, rerr.GetCode(err))
	s.ErrorContains(err, "404")
}

func (s *ClientTestSuite) TestSend_NilMessage() {
	s.True(rerr.IsInvalidArgument(s.client.Send(context.Background(), nil, "", time.Time{})))
}

func TestNew_RejectsBadURL(t *testing.T) {
	_, err := webhook.New(&webhook.Config{URL: "https://example.com"})
	assert.Error(t, err)

	_, err = webhook.New(nil)
	assert.Error(t, err)
}

type stubSender struct {
	err    error
	author string
	calls  int
}

func (s *stubSender) Send(_ context.Context, _ *roll.Message, author string, _ time.Time) error {
	s.calls++
	s.author = author
	return s.err
}

func TestNotifier_RecordsDispatchError(t *testing.T) {
	sender := &stubSender{err: errors.New("webhook down")}
	notifier := webhook.NewNotifier(sender, observability.NewMetrics(), nil)

	event := events.NewRollExecutedEvent(&feed.Entry{
		ID:            "entry-1",
		CharacterName: "Lia",
		Message:       &roll.Message{Title: "Golpe"},
	}, nil)

	require.NoError(t, notifier.HandleEvent(event))
	assert.EqualError(t, event.DispatchError, "webhook down")
	assert.Equal(t, "Lia", sender.author)
}

func TestNotifier_Sends(t *testing.T) {
	sender := &stubSender{}
	notifier := webhook.NewNotifier(sender, nil, nil)

	event := events.NewRollExecutedEvent(&feed.Entry{ID: "entry-1", Message: &roll.Message{Title: "1d20"}}, nil)

	require.NoError(t, notifier.HandleEvent(event))
	assert.NoError(t, event.DispatchError)
	assert.Equal(t, 1, sender.calls)

	// events without a message are skipped
	require.NoError(t, notifier.HandleEvent(events.NewRollExecutedEvent(&feed.Entry{}, nil)))
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, events.PriorityNotify, notifier.Priority())
}
