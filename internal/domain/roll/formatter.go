package roll

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/storycraft/roller/internal/dice"
	"github.com/storycraft/roller/internal/domain/character"
)

// Field names shown under a roll message
const (
	FieldRollDetails = "Roll Details"
	FieldCriticals   = "Criticals"
	FieldActiveBuffs = "Active Buffs"
	FieldExpression  = "Expression"
)

var urlRegex = regexp.MustCompile(`https?://[^\s<>"]+`)

// Field is a titled block of a formatted roll
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Message is a roll rendered for people: the feed stores it and the
// webhook turns it into an embed.
type Message struct {
	Title        string   `json:"title"`
	DisplayText  string   `json:"display_text"`
	Fields       []Field  `json:"fields"`
	Footer       string   `json:"footer,omitempty"`
	Attachments  []string `json:"attachments,omitempty"`
	Critical     bool     `json:"critical,omitempty"`
	CriticalFail bool     `json:"critical_fail,omitempty"`
}

// PlainText renders the message for manual copy when the webhook is down
func (m *Message) PlainText() string {
	var sb strings.Builder
	sb.WriteString(m.Title)
	sb.WriteString("\n")
	sb.WriteString(m.DisplayText)
	for _, f := range m.Fields {
		fmt.Fprintf(&sb, "\n%s: %s", f.Name, f.Value)
	}
	if m.Footer != "" {
		sb.WriteString("\n")
		sb.WriteString(m.Footer)
	}
	for _, a := range m.Attachments {
		sb.WriteString("\n")
		sb.WriteString(a)
	}
	return sb.String()
}

// Format renders a result. URLs in the action's discord text are pulled out
// into Attachments, which webhook consumers expect as separate messages.
func Format(result *Result, action *character.Action) *Message {
	msg := &Message{
		Title:        result.Action,
		Critical:     result.IsCritical(),
		CriticalFail: result.IsCriticalFailure(),
	}

	var lines []string
	if action != nil && action.DiscordText != "" {
		msg.Attachments = urlRegex.FindAllString(action.DiscordText, -1)
		text := strings.TrimSpace(urlRegex.ReplaceAllString(action.DiscordText, ""))
		if text != "" {
			lines = append(lines, text)
		}
	}

	if check := result.SkillCheck; check != nil {
		line := fmt.Sprintf("Test of %s: **%d** (d20:%d + Bonus:%d)", check.Skill, check.Total, check.Roll, check.Bonus)
		switch {
		case check.IsCrit:
			line += " CRITICAL!"
		case check.IsCritFail:
			line += " CRITICAL FAILURE!"
		}
		lines = append(lines, line)
	}
	lines = append(lines, fmt.Sprintf("**Result: %d**", result.Total))
	msg.DisplayText = strings.Join(lines, "\n")

	msg.Fields = append(msg.Fields, Field{Name: FieldRollDetails, Value: rollDetails(result)})
	if len(result.CriticalNotes) > 0 {
		msg.Fields = append(msg.Fields, Field{Name: FieldCriticals, Value: strings.Join(result.CriticalNotes, "\n")})
	}
	if len(result.Buffs) > 0 {
		msg.Fields = append(msg.Fields, Field{Name: FieldActiveBuffs, Value: strings.Join(result.Buffs, ", ")})
	}

	msg.Footer = footer(result.ResourceDelta)
	return msg
}

// FormatFormula renders a free-text formula roll
func FormatFormula(result *dice.FormulaResult) *Message {
	msg := &Message{
		Title:       result.Formula,
		DisplayText: fmt.Sprintf("**Result: %d**", result.Total),
	}

	details := result.Breakdown()
	if details == "" {
		details = result.Expression
	}
	msg.Fields = []Field{{Name: FieldRollDetails, Value: details}}
	if result.Expression != "" && result.Expression != details {
		msg.Fields = append(msg.Fields, Field{Name: FieldExpression, Value: result.Expression})
	}
	return msg
}

func rollDetails(result *Result) string {
	labels := make([]string, 0, len(result.Breakdown)+1)
	if check := result.SkillCheck; check != nil {
		labels = append(labels, fmt.Sprintf("Test 1d20(%d)%+d", check.Roll, check.Bonus))
	}
	for _, entry := range result.Breakdown {
		labels = append(labels, entry.Label)
	}
	if len(labels) == 0 {
		return "0"
	}
	return strings.Join(labels, " + ")
}

func footer(delta ResourceDelta) string {
	var parts []string
	if delta.Spent.HP != 0 || delta.Recovered.HP != 0 {
		parts = append(parts, fmt.Sprintf("HP %+d", delta.HP()))
	}
	if delta.Spent.MP != 0 || delta.Recovered.MP != 0 {
		parts = append(parts, fmt.Sprintf("MP %+d", delta.MP()))
	}
	return strings.Join(parts, " | ")
}
