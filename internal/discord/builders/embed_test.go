package builders_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storycraft/roller/internal/discord/builders"
	"github.com/storycraft/roller/internal/domain/roll"
)

func TestRollEmbed(t *testing.T) {
	at := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	msg := &roll.Message{
		Title:       "Ataque Furtivo",
		DisplayText: "**Result: 20**",
		Fields: []roll.Field{
			{Name: roll.FieldRollDetails, Value: "Test 1d20(20)+1 + 1d6(4)"},
			{Name: roll.FieldActiveBuffs, Value: "Fúria"},
		},
		Footer:   "MP -1",
		Critical: true,
	}

	embed := builders.RollEmbed(msg, "Lia", at)

	assert.Equal(t, "Ataque Furtivo", embed.Title)
	assert.Equal(t, "**Result: 20**", embed.Description)
	assert.Equal(t, builders.ColorCritical, embed.Color)
	require.NotNil(t, embed.Author)
	assert.Equal(t, "Lia", embed.Author.Name)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "Roll Details", embed.Fields[0].Name)
	assert.Equal(t, "MP -1", embed.Footer.Text)
	assert.Equal(t, "2026-03-14T18:30:00Z", embed.Timestamp)
}

func TestRollEmbed_FormulaWithoutAuthor(t *testing.T) {
	embed := builders.RollEmbed(&roll.Message{Title: "1d20+5", CriticalFail: true}, "", time.Time{})

	assert.Nil(t, embed.Author)
	assert.Nil(t, embed.Footer)
	assert.Empty(t, embed.Timestamp)
	assert.Equal(t, builders.ColorCriticalFail, embed.Color)
}

func TestEmbedBuilder_TruncatesFieldValues(t *testing.T) {
	long := strings.Repeat("ã", 1500)

	embed := builders.NewEmbed().Field("Roll Details", long, false).Build()

	assert.Equal(t, 1024, utf8.RuneCountInString(embed.Fields[0].Value))
	assert.True(t, strings.HasSuffix(embed.Fields[0].Value, "…"))
}
