package reminders

import (
	"context"

	"github.com/tlou-esports/te-suggestions/src/discord"
	domain "github.com/tlou-esports/te-suggestions/src/reminders"
)

var _ domain.Sender = (*channelSender)(nil)

// channelSender posts reminders as plain messages that may ping.
type channelSender struct {
	session discord.Session
}

func (s channelSender) SendReminder(ctx context.Context, channelID, message string) error {
	_, err := discord.SendMessageNoEmbed(s.session, channelID, message)
	return err
}
