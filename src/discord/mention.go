package discord

import "github.com/bwmarrin/discordgo"

func UserMention(id string) string { return "<@" + id + ">" }

func RoleMention(id string) string { return "<@&" + id + ">" }

// MentionFromOption renders a mentionable option as a user or role mention.
// The option only carries an id, so the resolved data decides which it is.
func MentionFromOption(opt *discordgo.ApplicationCommandInteractionDataOption, resolved *discordgo.ApplicationCommandInteractionDataResolved) string {
	if opt == nil {
		return ""
	}
	id, _ := opt.Value.(string)
	if id == "" {
		return ""
	}
	if resolved != nil {
		if _, ok := resolved.Roles[id]; ok {
			return RoleMention(id)
		}
	}
	return UserMention(id)
}

// Options indexes the top-level options of a slash command by name.
func Options(data discordgo.ApplicationCommandInteractionData) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(data.Options))
	for _, opt := range data.Options {
		out[opt.Name] = opt
	}
	return out
}
