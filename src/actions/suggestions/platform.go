package suggestions

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"github.com/tlou-esports/te-suggestions/src/data"
	"github.com/tlou-esports/te-suggestions/src/discord"
	"github.com/tlou-esports/te-suggestions/src/locales"
	"github.com/tlou-esports/te-suggestions/src/logging"
	domain "github.com/tlou-esports/te-suggestions/src/suggestions"
)

var _ domain.Platform = (*Platform)(nil)

// Platform renders the suggestion lifecycle into the suggestions and review channels.
type Platform struct {
	session         discord.Session
	users           *userCache
	render          renderer
	channelID       string
	reviewChannelID string
	community       string
	rdb             *redis.Client
	selfID          func() string
}

func (p *Platform) localizer() *locales.Localizer { return locales.NewLocalizer() }

func (p *Platform) botName() string {
	id := ""
	if p.selfID != nil {
		id = p.selfID()
	}
	if id == "" {
		id = "@me"
	}
	u := p.users.get(id)
	if name := u.DisplayName(); name != "" {
		return name
	}
	return p.community
}

func (p *Platform) PostSuggestion(ctx context.Context, rec *domain.Record) (string, error) {
	author := p.users.get(rec.AuthorID)
	embed := p.render.suggestion(p.localizer(), rec, author, p.botName())

	msg, err := discord.SendComplexMessageNoEmbed(p.session, p.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		return "", err
	}

	for _, emoji := range []discord.Emoji{p.render.approve, p.render.reject} {
		if err := p.session.MessageReactionAdd(p.channelID, msg.ID, emoji.APIName()); err != nil {
			log.Printf("suggestions: add %s reaction to %s: %v", emoji.Name, msg.ID, err)
		}
	}
	return msg.ID, nil
}

func (p *Platform) RetractVote(ctx context.Context, messageID, userID string, mark domain.Mark) error {
	emoji := p.render.approve
	if mark == domain.MarkReject {
		emoji = p.render.reject
	}
	return p.session.MessageReactionRemove(p.channelID, messageID, emoji.APIName(), userID)
}

func (p *Platform) DeleteMessage(ctx context.Context, messageID string) error {
	return p.deleteIgnoringMissing(messageID)
}

func (p *Platform) PostDecision(ctx context.Context, rec *domain.Record) error {
	embed := p.render.decision(p.localizer(), rec, p.botName())
	if _, err := discord.SendComplexMessageNoEmbed(p.session, p.reviewChannelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}); err != nil {
		return fmt.Errorf("post to review channel: %w", err)
	}
	p.publishDecision(ctx, rec)
	return nil
}

func (p *Platform) PostPanel(ctx context.Context) (string, error) {
	msg, err := discord.SendComplexMessageNoEmbed(p.session, p.channelID, p.render.panel(p.localizer(), p.reviewChannelID, p.community))
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (p *Platform) DeletePanel(ctx context.Context, messageID string) error {
	return p.deleteIgnoringMissing(messageID)
}

func (p *Platform) deleteIgnoringMissing(messageID string) error {
	err := p.session.ChannelMessageDelete(p.channelID, messageID)
	if err != nil && logging.IsUnknownMessage(err) {
		return nil
	}
	return err
}

func (p *Platform) publishDecision(ctx context.Context, rec *domain.Record) {
	if p.rdb == nil {
		return
	}
	payload := map[string]interface{}{
		"id":         rec.ID,
		"status":     string(rec.Status),
		"author_id":  rec.AuthorID,
		"decided_by": rec.DecidedBy,
		"approve":    rec.Votes.Count(domain.MarkApprove),
		"reject":     rec.Votes.Count(domain.MarkReject),
	}
	if rec.StaffResponse != nil {
		payload["staff_response"] = *rec.StaffResponse
	}
	if err := data.PublishMessage(ctx, p.rdb, data.StreamDecisions, payload); err != nil {
		log.Printf("suggestions: publish decision #%d: %v", rec.ID, err)
	}
}
