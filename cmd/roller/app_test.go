package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storycraft/roller/internal/config"
	rollService "github.com/storycraft/roller/internal/services/roll"
)

func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("REDIS_URL", "")
	t.Setenv("WEBHOOK_URL", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DICE_SEED", "42")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "roller version dev")
}

func TestFormulaCommand_SeededIsRepeatable(t *testing.T) {
	setTestEnv(t)

	first, err := execute(t, "formula", "2d6+3", "--author", "Mestre")
	require.NoError(t, err)
	second, err := execute(t, "formula", "2d6+3")
	require.NoError(t, err)

	assert.Contains(t, first, "**Result: ")
	assert.Equal(t, first, second)
}

func TestFormulaCommand_Invalid(t *testing.T) {
	setTestEnv(t)

	_, err := execute(t, "formula", "1/0")
	assert.Error(t, err)
}

func TestImportCommand(t *testing.T) {
	setTestEnv(t)

	path := filepath.Join(t.TempDir(), "lia.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
owner_id: player-1
name: Lia
main:
  hp: {current: 20, max: 20}
actions:
  - name: Soco
    components:
      - {type: dice, text: 1d4}
`), 0o600))

	out, err := execute(t, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "imported Lia (")
	assert.Contains(t, out, "1 actions, 0 buffs")
}

func TestBuffCommand_RejectsBadState(t *testing.T) {
	_, err := execute(t, "buff", "char-1", "Fúria", "maybe")
	assert.ErrorContains(t, err, "on or off")
}

func TestNewApp_InMemoryFallback(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{URL: "://not a url"},
		HTTP:  config.HTTPConfig{FeedLimit: 10},
		Dice:  config.DiceConfig{Seed: 7},
	}

	app, err := NewApp(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	assert.Nil(t, app.redis)
	out, err := app.provider.RollService.RollFormula(context.Background(), &rollService.RollFormulaInput{
		Formula: "1d20",
		FeedID:  "mesa",
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, out.Result.Total, 1)
	assert.LessOrEqual(t, out.Result.Total, 20)
}

func TestNewApp_BadWebhookURL(t *testing.T) {
	cfg := &config.Config{
		Webhook: config.WebhookConfig{URL: "https://example.com/hook"},
		HTTP:    config.HTTPConfig{FeedLimit: 10},
	}

	_, err := NewApp(context.Background(), cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestServe_StopsOnCancel(t *testing.T) {
	app, err := NewApp(context.Background(), &config.Config{HTTP: config.HTTPConfig{FeedLimit: 10}}, zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, app, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
