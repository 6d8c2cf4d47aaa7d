package discord

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Command names shared by modules and the CLI.
const (
	CommandSuggest         = "suggest"
	CommandApprove         = "approve"
	CommandReject          = "reject"
	CommandVotes           = "votes"
	CommandSuggestionPanel = "suggestion_panel"
	CommandAddReminder     = "add_reminder"
	CommandListReminders   = "list_reminders"
	CommandDeleteReminder  = "delete_reminder"
)

// ManageGuildPermission is used as DefaultMemberPermissions on staff commands
// so Discord hides them from members without Manage Server.
var ManageGuildPermission int64 = discordgo.PermissionManageGuild

// RegisterSlashCommands replaces the guild's commands with definitions.
func RegisterSlashCommands(s Session, appID, guildID string, definitions []*discordgo.ApplicationCommand) error {
	if guildID == "" {
		return fmt.Errorf("discord: guildID is required to register slash commands")
	}
	if appID == "" {
		return fmt.Errorf("discord: application id is required to register slash commands")
	}

	created, err := s.ApplicationCommandBulkOverwrite(appID, guildID, definitions)
	if err != nil {
		if isDuplicateCommandError(err) {
			log.Printf("discord: slash commands already registered")
			return nil
		}
		return fmt.Errorf("discord: slash command registration: %w", err)
	}

	names := make([]string, 0, len(created))
	for _, cmd := range created {
		names = append(names, "/"+cmd.Name)
	}
	log.Printf("discord: registered %d slash command(s): %s", len(created), strings.Join(names, ", "))
	return nil
}

// DeleteSlashCommands removes all registered slash commands for a guild.
func DeleteSlashCommands(s Session, appID, guildID string) error {
	if guildID == "" {
		return fmt.Errorf("discord: guildID is required to delete slash commands")
	}

	commands, err := s.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}

	for _, cmd := range commands {
		if err := s.ApplicationCommandDelete(appID, guildID, cmd.ID); err != nil {
			return err
		}
	}

	return nil
}

func isDuplicateCommandError(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			msg := strings.ToLower(restErr.Message.Message)
			if strings.Contains(msg, "already exists") {
				return true
			}
		}
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "50035") && strings.Contains(msg, "already exists")
}
