package suggestions

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
	"github.com/tlou-esports/te-suggestions/src/logging"
	domain "github.com/tlou-esports/te-suggestions/src/suggestions"
)

// Handler turns dispatched events into lifecycle operations.
type Handler struct {
	Session      discord.Session
	Manager      *domain.Manager
	Platform     *Platform
	ChannelID    string
	CleanChannel bool
	ApproveEmoji discord.Emoji
	RejectEmoji  discord.Emoji
	SelfID       func() string
	StaffRoleID  string
	Configured   bool
}

func localizerFor(i *discordgo.Interaction) *locales.Localizer {
	return locales.NewLocalizer(string(i.Locale))
}

// isStaff accepts Manage Server, or the configured staff role when set.
func (h *Handler) isStaff(i *discordgo.Interaction) bool {
	if discord.CanManageGuild(i) {
		return true
	}
	return h.StaffRoleID != "" && discord.HasRole(h.Session, i.GuildID, discord.InvokerID(i), h.StaffRoleID)
}

func (h *Handler) self() string {
	if h.SelfID == nil {
		return ""
	}
	return h.SelfID()
}

// OpenModal answers /suggest and the panel button with the submission form.
func (h *Handler) OpenModal(ctx context.Context, ev *discordbot.Event) error {
	l := localizerFor(ev.Interaction)
	return discord.RespondModal(h.Session, ev.Interaction, ModalSuggest, l.T("ModalTitle", nil),
		suggestionModal(l.T("ModalInputLabel", nil), l.T("ModalInputPlaceholder", nil))...)
}

// SubmitModal stores a suggestion from the modal form. Failures never leak
// details to the member.
func (h *Handler) SubmitModal(ctx context.Context, ev *discordbot.Event) error {
	i := ev.Interaction
	l := localizerFor(i)
	user := discord.UserMention(discord.InvokerID(i))

	if !h.Configured {
		return discord.RespondEphemeral(h.Session, i, l.T("ErrNotConfigured", nil))
	}
	if err := discord.DeferEphemeral(h.Session, i); err != nil {
		return fmt.Errorf("defer modal response: %w", err)
	}

	data, _ := i.Data.(discordgo.ModalSubmitInteractionData)
	content := modalValue(data, InputSuggest)

	rec, err := h.Manager.Submit(ctx, discord.InvokerID(i), content)
	switch {
	case errors.Is(err, domain.ErrValidation):
		return discord.EditDeferred(h.Session, i, l.T("ErrSuggestionLength", map[string]any{
			"Min": domain.MinContentLength, "Max": domain.MaxContentLength,
		}))
	case err != nil:
		logging.Capture("suggestions", fmt.Errorf("submit (event %s): %w", ev.ID, err), map[string]string{"event_id": ev.ID})
		return discord.EditDeferred(h.Session, i, l.T("ErrSubmitFailed", nil))
	}

	log.Printf("suggestions: modal submission #%d stored (event %s)", rec.ID, ev.ID)
	return discord.EditDeferred(h.Session, i, l.T("SuggestionThanks", map[string]any{"User": user}))
}

func (h *Handler) HandleApprove(ctx context.Context, ev *discordbot.Event) error {
	return h.decide(ctx, ev, domain.OutcomeApprove)
}

func (h *Handler) HandleReject(ctx context.Context, ev *discordbot.Event) error {
	return h.decide(ctx, ev, domain.OutcomeReject)
}

func (h *Handler) decide(ctx context.Context, ev *discordbot.Event, outcome domain.Outcome) error {
	i := ev.Interaction
	l := localizerFor(i)
	user := discord.UserMention(discord.InvokerID(i))
	if !h.isStaff(i) {
		return discord.RespondEphemeral(h.Session, i, l.T("ErrNoPermission", map[string]any{"User": user}))
	}

	opts := discord.Options(i.ApplicationCommandData())
	var id int64
	if opt, ok := opts[optionSuggestionID]; ok {
		id = opt.IntValue()
	}
	reason := ""
	if opt, ok := opts[optionReason]; ok {
		reason = strings.TrimSpace(opt.StringValue())
	}

	if err := discord.DeferEphemeral(h.Session, i); err != nil {
		return fmt.Errorf("defer decision response: %w", err)
	}

	rec, err := h.Manager.Decide(ctx, id, outcome, discord.InvokerID(i), reason)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return discord.EditDeferred(h.Session, i, l.T("ErrInvalidSuggestionID", map[string]any{"User": user}))
	case errors.Is(err, domain.ErrAlreadyDecided):
		current, getErr := h.Manager.Get(ctx, id)
		status := "decided"
		if getErr == nil {
			status = string(current.Status)
		}
		return discord.EditDeferred(h.Session, i, l.T("ErrAlreadyDecided", map[string]any{"User": user, "ID": id, "Status": status}))
	case err != nil:
		return err
	}

	return discord.EditDeferred(h.Session, i, l.T("DecisionConfirm", map[string]any{
		"User": user, "ID": rec.ID, "Status": string(rec.Status),
	}))
}

func (h *Handler) HandleVotes(ctx context.Context, ev *discordbot.Event) error {
	i := ev.Interaction
	l := localizerFor(i)
	user := discord.UserMention(discord.InvokerID(i))
	if !h.isStaff(i) {
		return discord.RespondEphemeral(h.Session, i, l.T("ErrNoPermission", map[string]any{"User": user}))
	}

	var id int64
	if opt, ok := discord.Options(i.ApplicationCommandData())[optionSuggestionID]; ok {
		id = opt.IntValue()
	}
	rec, err := h.Manager.Votes(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return discord.RespondEphemeral(h.Session, i, l.T("ErrInvalidSuggestionID", map[string]any{"User": user}))
	}
	if err != nil {
		return err
	}
	embed := h.Platform.render.votes(l, rec, discord.InvokerID(i), h.Platform.botName())
	return discord.RespondEmbeds(h.Session, i, true, embed)
}

func (h *Handler) HandlePanel(ctx context.Context, ev *discordbot.Event) error {
	i := ev.Interaction
	l := localizerFor(i)
	user := discord.UserMention(discord.InvokerID(i))
	if !h.isStaff(i) {
		return discord.RespondEphemeral(h.Session, i, l.T("ErrNoPermission", map[string]any{"User": user}))
	}
	if !h.Configured {
		return discord.RespondEphemeral(h.Session, i, l.T("ErrNotConfigured", nil))
	}
	if err := discord.DeferEphemeral(h.Session, i); err != nil {
		return fmt.Errorf("defer panel response: %w", err)
	}
	if err := h.Manager.RefreshPanel(ctx); err != nil {
		return err
	}
	return discord.EditDeferred(h.Session, i, l.T("PanelSent", map[string]any{"User": user}))
}

// markFor maps a reaction to a vote mark, ignoring unrelated emoji.
func (h *Handler) markFor(e discordgo.Emoji) (domain.Mark, bool) {
	switch {
	case h.ApproveEmoji.Matches(e):
		return domain.MarkApprove, true
	case h.RejectEmoji.Matches(e):
		return domain.MarkReject, true
	}
	return "", false
}

func (h *Handler) voteApplies(r *discordgo.MessageReaction) (domain.Mark, bool) {
	if r == nil || r.ChannelID != h.ChannelID || r.UserID == "" {
		return "", false
	}
	if self := h.self(); self != "" && r.UserID == self {
		return "", false
	}
	return h.markFor(r.Emoji)
}

func (h *Handler) OnReactionAdd(ctx context.Context, ev *discordbot.Event) error {
	mark, ok := h.voteApplies(ev.Reaction)
	if !ok {
		return nil
	}
	return h.Manager.RegisterVote(ctx, ev.Reaction.MessageID, ev.Reaction.UserID, mark)
}

func (h *Handler) OnReactionRemove(ctx context.Context, ev *discordbot.Event) error {
	mark, ok := h.voteApplies(ev.Reaction)
	if !ok {
		return nil
	}
	return h.Manager.UnregisterVote(ctx, ev.Reaction.MessageID, ev.Reaction.UserID, mark)
}

// OnMessageCreate keeps the suggestions channel limited to bot-made posts.
func (h *Handler) OnMessageCreate(ctx context.Context, ev *discordbot.Event) error {
	m := ev.Message
	if !h.CleanChannel || m == nil || m.ChannelID != h.ChannelID || m.Author == nil {
		return nil
	}
	self := h.self()
	if self == "" || m.Author.ID == self {
		return nil
	}
	tracked, err := h.Manager.IsTracked(ctx, m.ID)
	if err != nil {
		return err
	}
	if tracked {
		return nil
	}
	if err := h.Session.ChannelMessageDelete(m.ChannelID, m.ID); err != nil && !logging.IsUnknownMessage(err) {
		return fmt.Errorf("remove stray message %s: %w", m.ID, err)
	}
	return nil
}
