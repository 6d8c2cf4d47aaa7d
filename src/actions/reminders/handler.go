package reminders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/tlou-esports/te-suggestions/src/discord"
	"github.com/tlou-esports/te-suggestions/src/discordbot"
	"github.com/tlou-esports/te-suggestions/src/locales"
	domain "github.com/tlou-esports/te-suggestions/src/reminders"
)

// maxMessageLength is Discord's limit for message content.
const maxMessageLength = 2000

// Handler serves the reminder slash commands.
type Handler struct {
	Session discord.Session
	Store   *domain.Store
	Zone    string
	// StaffOnly limits add and delete to members with Manage Server.
	StaffOnly bool
}

func localizerFor(i *discordgo.Interaction) *locales.Localizer {
	return locales.NewLocalizer(string(i.Locale))
}

func stringOption(opts map[string]*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	if opt, ok := opts[name]; ok {
		return strings.TrimSpace(opt.StringValue())
	}
	return ""
}

func (h *Handler) HandleAdd(ctx context.Context, ev *discordbot.Event) error {
	i := ev.Interaction
	l := localizerFor(i)
	if h.StaffOnly && !discord.CanManageGuild(i) {
		return discord.RespondEphemeral(h.Session, i, l.T("ErrNoPermission", map[string]any{"User": discord.UserMention(discord.InvokerID(i))}))
	}

	data := i.ApplicationCommandData()
	opts := discord.Options(data)
	hhmm := stringOption(opts, optionTime)
	message := stringOption(opts, optionMessage)
	mention := discord.MentionFromOption(opts[optionMention], data.Resolved)

	if err := domain.ValidateTime(hhmm); err != nil {
		return discord.RespondEphemeral(h.Session, i, l.T("ErrReminderTime", nil))
	}

	r, err := h.Store.Add(ctx, i.GuildID, i.ChannelID, hhmm, message, mention, discord.InvokerID(i))
	if errors.Is(err, domain.ErrValidation) {
		return discord.RespondEphemeral(h.Session, i, l.T("ErrReminderMessage", nil))
	}
	if err != nil {
		return err
	}

	log.Printf("reminders: #%d added for %s in %s by %s (event %s)", r.ID, r.Time, r.ChannelID, r.CreatedBy, ev.ID)
	return discord.RespondPublic(h.Session, i, l.T("ReminderAdded", map[string]any{
		"Time": r.Time, "Zone": h.Zone, "Message": r.Message,
	}))
}

func (h *Handler) HandleList(ctx context.Context, ev *discordbot.Event) error {
	i := ev.Interaction
	l := localizerFor(i)

	list, err := h.Store.List(ctx, i.GuildID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return discord.RespondEphemeral(h.Session, i, l.T("ReminderListEmpty", nil))
	}

	lines := make([]string, 0, len(list)+1)
	lines = append(lines, l.T("ReminderListHeader", nil))
	for _, r := range list {
		lines = append(lines, l.T("ReminderListLine", map[string]any{
			"Time": r.Time, "Zone": h.Zone, "Message": r.Message,
		}))
	}
	return discord.RespondPublic(h.Session, i, discord.Truncate(strings.Join(lines, "\n"), maxMessageLength))
}

func (h *Handler) HandleDelete(ctx context.Context, ev *discordbot.Event) error {
	i := ev.Interaction
	l := localizerFor(i)
	if h.StaffOnly && !discord.CanManageGuild(i) {
		return discord.RespondEphemeral(h.Session, i, l.T("ErrNoPermission", map[string]any{"User": discord.UserMention(discord.InvokerID(i))}))
	}

	hhmm := stringOption(discord.Options(i.ApplicationCommandData()), optionTime)
	removed, err := h.Store.Remove(ctx, i.GuildID, hhmm)
	switch {
	case errors.Is(err, domain.ErrValidation):
		return discord.RespondEphemeral(h.Session, i, l.T("ErrReminderTime", nil))
	case err != nil:
		return fmt.Errorf("remove reminders at %s: %w", hhmm, err)
	case removed == 0:
		return discord.RespondEphemeral(h.Session, i, l.T("ReminderNoneAtTime", map[string]any{"Time": hhmm, "Zone": h.Zone}))
	}

	log.Printf("reminders: removed %d reminder(s) at %s in guild %s (event %s)", removed, hhmm, i.GuildID, ev.ID)
	return discord.RespondPublic(h.Session, i, l.Plural("ReminderRemoved", int(removed), map[string]any{
		"Time": hhmm, "Zone": h.Zone,
	}))
}
