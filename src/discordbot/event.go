package discordbot

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
)

// Kind classifies queued platform events.
type Kind int

const (
	KindReady Kind = iota
	KindCommand
	KindComponent
	KindModal
	KindReactionAdd
	KindReactionRemove
	KindMessageCreate
)

func (k Kind) String() string {
	switch k {
	case KindReady:
		return "ready"
	case KindCommand:
		return "command"
	case KindComponent:
		return "component"
	case KindModal:
		return "modal"
	case KindReactionAdd:
		return "reaction_add"
	case KindReactionRemove:
		return "reaction_remove"
	case KindMessageCreate:
		return "message_create"
	}
	return "unknown"
}

// Event is one platform callback translated for the dispatcher.
type Event struct {
	ID       string
	Kind     Kind
	Received time.Time

	Ready       *discordgo.Ready
	Interaction *discordgo.Interaction
	Reaction    *discordgo.MessageReaction
	Message     *discordgo.Message
}

func newEvent(kind Kind) *Event {
	return &Event{ID: uuid.NewString(), Kind: kind, Received: time.Now()}
}

// Route is the key handlers are registered under: the command name, the
// component or modal custom id, or empty for the other kinds.
func (e *Event) Route() string {
	if e.Interaction == nil {
		return ""
	}
	switch data := e.Interaction.Data.(type) {
	case discordgo.ApplicationCommandInteractionData:
		return data.Name
	case discordgo.MessageComponentInteractionData:
		return data.CustomID
	case discordgo.ModalSubmitInteractionData:
		return data.CustomID
	}
	return ""
}

// UserID is the member who caused the event, when there is one.
func (e *Event) UserID() string {
	switch {
	case e.Reaction != nil:
		return e.Reaction.UserID
	case e.Message != nil && e.Message.Author != nil:
		return e.Message.Author.ID
	case e.Interaction != nil:
		if e.Interaction.Member != nil && e.Interaction.Member.User != nil {
			return e.Interaction.Member.User.ID
		}
		if e.Interaction.User != nil {
			return e.Interaction.User.ID
		}
	}
	return ""
}

// ChannelID is the channel the event happened in.
func (e *Event) ChannelID() string {
	switch {
	case e.Reaction != nil:
		return e.Reaction.ChannelID
	case e.Message != nil:
		return e.Message.ChannelID
	case e.Interaction != nil:
		return e.Interaction.ChannelID
	}
	return ""
}
