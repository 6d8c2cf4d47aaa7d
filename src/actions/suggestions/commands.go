package suggestions

import (
	"github.com/bwmarrin/discordgo"
	"github.com/tlou-esports/te-suggestions/src/discord"
	domain "github.com/tlou-esports/te-suggestions/src/suggestions"
)

// Custom ids of the panel button and the submission modal.
const (
	ButtonSuggest = "suggest_button"
	ModalSuggest  = "suggest_modal"
	InputSuggest  = "suggestion_input"
)

const (
	optionSuggestionID = "suggestion_id"
	optionReason       = "reason"
)

func idOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        optionSuggestionID,
		Description: "The suggestion ID shown in the footer",
		Required:    true,
		MinValue:    floatPtr(1),
	}
}

func reasonOption() *discordgo.ApplicationCommandOption {
	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        optionReason,
		Description: "Staff response shown with the result",
		Required:    false,
		MaxLength:   1000,
	}
}

// CommandDefinitions returns the slash commands this module handles.
func CommandDefinitions() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        discord.CommandSuggest,
			Description: "Make a suggestion for the server",
		},
		{
			Name:                     discord.CommandApprove,
			Description:              "Approve and finalise a suggestion",
			DefaultMemberPermissions: &discord.ManageGuildPermission,
			Options:                  []*discordgo.ApplicationCommandOption{idOption(), reasonOption()},
		},
		{
			Name:                     discord.CommandReject,
			Description:              "Reject and finalise a suggestion",
			DefaultMemberPermissions: &discord.ManageGuildPermission,
			Options:                  []*discordgo.ApplicationCommandOption{idOption(), reasonOption()},
		},
		{
			Name:                     discord.CommandVotes,
			Description:              "View the votes & see usernames of who voted for a suggestion",
			DefaultMemberPermissions: &discord.ManageGuildPermission,
			Options:                  []*discordgo.ApplicationCommandOption{idOption()},
		},
		{
			Name:                     discord.CommandSuggestionPanel,
			Description:              "Send the suggestion panel to the suggestions channel",
			DefaultMemberPermissions: &discord.ManageGuildPermission,
		},
	}
}

func suggestionModal(label, placeholder string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    InputSuggest,
				Label:       label,
				Style:       discordgo.TextInputParagraph,
				Placeholder: placeholder,
				Required:    true,
				MinLength:   domain.MinContentLength,
				MaxLength:   domain.MaxContentLength,
			},
		}},
	}
}

// modalValue pulls the text input out of a submitted modal.
func modalValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		var inner []discordgo.MessageComponent
		switch r := row.(type) {
		case *discordgo.ActionsRow:
			inner = r.Components
		case discordgo.ActionsRow:
			inner = r.Components
		}
		for _, c := range inner {
			switch input := c.(type) {
			case *discordgo.TextInput:
				if input.CustomID == customID {
					return input.Value
				}
			case discordgo.TextInput:
				if input.CustomID == customID {
					return input.Value
				}
			}
		}
	}
	return ""
}

func floatPtr(v float64) *float64 { return &v }
