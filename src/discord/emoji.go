package discord

import (
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
)

var customEmojiRegex = regexp.MustCompile(`^<a?:([A-Za-z0-9_~]+):([0-9]+)>$`)

// Emoji is a configured reaction emoji, either unicode or a guild custom emoji.
type Emoji struct {
	Name string
	ID   string
}

// ParseEmoji accepts "✅", "<:name:id>", "<a:name:id>" or "name:id".
func ParseEmoji(raw string) Emoji {
	raw = strings.TrimSpace(raw)
	if m := customEmojiRegex.FindStringSubmatch(raw); m != nil {
		return Emoji{Name: m[1], ID: m[2]}
	}
	if name, id, ok := strings.Cut(raw, ":"); ok && name != "" && isSnowflake(id) {
		return Emoji{Name: name, ID: id}
	}
	return Emoji{Name: raw}
}

// APIName is the form reaction endpoints expect.
func (e Emoji) APIName() string {
	if e.ID != "" {
		return e.Name + ":" + e.ID
	}
	return e.Name
}

// String renders the emoji inside message content.
func (e Emoji) String() string {
	if e.ID != "" {
		return "<:" + e.Name + ":" + e.ID + ">"
	}
	return e.Name
}

// Matches reports whether a reaction payload refers to this emoji.
func (e Emoji) Matches(other discordgo.Emoji) bool {
	if e.ID != "" || other.ID != "" {
		return e.ID == other.ID
	}
	return strings.TrimSuffix(e.Name, "\ufe0f") == strings.TrimSuffix(other.Name, "\ufe0f")
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
