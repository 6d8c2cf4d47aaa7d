package reminders

import (
	"github.com/bwmarrin/discordgo"
	"github.com/tlou-esports/te-suggestions/src/discord"
)

const (
	optionTime    = "time"
	optionMessage = "message"
	optionMention = "mention"
)

func timeOption(description string) *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        optionTime,
		Description: description,
		Required:    true,
		MinLength:   intPtr(5),
		MaxLength:   5,
	}
}

// CommandDefinitions returns the reminder slash commands. With staffOnly the
// add and delete commands default to Manage Server.
func CommandDefinitions(staffOnly bool) []*discordgo.ApplicationCommand {
	var perms *int64
	if staffOnly {
		perms = &discord.ManageGuildPermission
	}
	return []*discordgo.ApplicationCommand{
		{
			Name:                     discord.CommandAddReminder,
			Description:              "Add a daily reminder to this channel",
			DefaultMemberPermissions: perms,
			Options: []*discordgo.ApplicationCommandOption{
				timeOption("Time in HH:MM (24h format)"),
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        optionMessage,
					Description: "Reminder message",
					Required:    true,
					MaxLength:   1800,
				},
				{
					Type:        discordgo.ApplicationCommandOptionMentionable,
					Name:        optionMention,
					Description: "User or role to ping",
				},
			},
		},
		{
			Name:        discord.CommandListReminders,
			Description: "List all reminders",
		},
		{
			Name:                     discord.CommandDeleteReminder,
			Description:              "Delete the reminders set for a time",
			DefaultMemberPermissions: perms,
			Options: []*discordgo.ApplicationCommandOption{
				timeOption("Time of the reminder to delete (HH:MM)"),
			},
		},
	}
}

func intPtr(v int) *int { return &v }
