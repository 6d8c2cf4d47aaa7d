package discord

import (
	"errors"

	"github.com/bwmarrin/discordgo"
)

// SendComplexMessageNoEmbed sends a complex message payload with sanitized embeds/content.
func SendComplexMessageNoEmbed(s Session, channelID string, msg *discordgo.MessageSend) (*discordgo.Message, error) {
	if msg == nil {
		return nil, errors.New("discord: message payload cannot be nil")
	}

	sanitizeMessageSend(msg)
	return s.ChannelMessageSendComplex(channelID, msg)
}

// SendMessageNoEmbed sends plain content after stripping URL embeds. Mentions
// in content are allowed to ping.
func SendMessageNoEmbed(s Session, channelID, content string) (*discordgo.Message, error) {
	return SendComplexMessageNoEmbed(s, channelID, &discordgo.MessageSend{
		Content: content,
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{
				discordgo.AllowedMentionTypeUsers,
				discordgo.AllowedMentionTypeRoles,
			},
		},
	})
}

// InteractionRespondNoEmbed wraps InteractionRespond ensuring the data content is sanitized.
func InteractionRespondNoEmbed(s Session, interaction *discordgo.Interaction, resp *discordgo.InteractionResponse) error {
	sanitizeInteractionResponse(resp)
	return s.InteractionRespond(interaction, resp)
}

// RespondEphemeral answers an interaction with a message only the invoker sees.
func RespondEphemeral(s Session, interaction *discordgo.Interaction, content string) error {
	return InteractionRespondNoEmbed(s, interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// RespondPublic answers an interaction with a message visible to the channel.
func RespondPublic(s Session, interaction *discordgo.Interaction, content string) error {
	return InteractionRespondNoEmbed(s, interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

// RespondEmbeds answers an interaction with embeds, optionally ephemeral.
func RespondEmbeds(s Session, interaction *discordgo.Interaction, ephemeral bool, embeds ...*discordgo.MessageEmbed) error {
	data := &discordgo.InteractionResponseData{Embeds: embeds}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return InteractionRespondNoEmbed(s, interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
}

// RespondModal opens a modal form.
func RespondModal(s Session, interaction *discordgo.Interaction, customID, title string, components ...discordgo.MessageComponent) error {
	return s.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   customID,
			Title:      title,
			Components: components,
		},
	})
}

// DeferEphemeral acknowledges an interaction that needs more than three seconds.
func DeferEphemeral(s Session, interaction *discordgo.Interaction) error {
	return s.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
}

// InteractionResponseEditNoEmbed wraps InteractionResponseEdit ensuring any content/embeds are sanitized.
func InteractionResponseEditNoEmbed(s Session, interaction *discordgo.Interaction, edit *discordgo.WebhookEdit) (*discordgo.Message, error) {
	sanitizeWebhookEdit(edit)
	return s.InteractionResponseEdit(interaction, edit)
}

// EditDeferred replaces the placeholder of a deferred response with content.
func EditDeferred(s Session, interaction *discordgo.Interaction, content string) error {
	_, err := InteractionResponseEditNoEmbed(s, interaction, &discordgo.WebhookEdit{Content: &content})
	return err
}

func sanitizeInteractionResponse(resp *discordgo.InteractionResponse) {
	if resp == nil || resp.Data == nil {
		return
	}
	if resp.Data.Content != "" {
		resp.Data.Content = WrapURLsNoEmbed(resp.Data.Content)
	}
	sanitizeEmbeds(resp.Data.Embeds)
}

func sanitizeWebhookEdit(edit *discordgo.WebhookEdit) {
	if edit == nil {
		return
	}

	if edit.Content != nil {
		cleaned := WrapURLsNoEmbed(*edit.Content)
		edit.Content = &cleaned
	}

	if edit.Embeds != nil {
		sanitizeEmbeds(*edit.Embeds)
	}
}

func sanitizeMessageSend(msg *discordgo.MessageSend) {
	if msg.Content != "" {
		msg.Content = WrapURLsNoEmbed(msg.Content)
	}
	sanitizeEmbeds(msg.Embeds)
}

func sanitizeEmbeds(embeds []*discordgo.MessageEmbed) {
	for _, embed := range embeds {
		if embed == nil {
			continue
		}

		if embed.Description != "" {
			embed.Description = WrapURLsNoEmbed(embed.Description)
		}

		for _, field := range embed.Fields {
			if field != nil && field.Value != "" {
				field.Value = WrapURLsNoEmbed(field.Value)
			}
		}
	}
}
