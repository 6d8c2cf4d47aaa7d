package suggestions

import (
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/tlou-esports/te-suggestions/src/discord"
	"github.com/tlou-esports/te-suggestions/src/locales"
	domain "github.com/tlou-esports/te-suggestions/src/suggestions"
)

const (
	colorPending  = 0xFFA500
	colorApproved = 0x00FF00
	colorRejected = 0xFF0000
	colorVotes    = 0x8F00FF
	colorPanel    = 0x00FF00
)

// maxEmbedDescription is Discord's limit for an embed description.
const maxEmbedDescription = 4096

type renderer struct {
	approve discord.Emoji
	reject  discord.Emoji
}

func footer(l *locales.Localizer, botName string, id int64) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: l.T("SuggestionFooter", map[string]any{"Bot": botName, "ID": id})}
}

func (r renderer) suggestion(l *locales.Localizer, rec *domain.Record, author *discordgo.User, botName string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Description: l.T("SuggestionEmbed", map[string]any{
			"Content": rec.Content,
			"Author":  discord.UserMention(rec.AuthorID),
		}),
		Color:     colorPending,
		Footer:    footer(l, botName, rec.ID),
		Timestamp: rec.CreatedAt.Format(time.RFC3339),
	}
	if author != nil && author.Avatar != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: author.AvatarURL("256")}
	}
	return embed
}

func (r renderer) decision(l *locales.Localizer, rec *domain.Record, botName string) *discordgo.MessageEmbed {
	color, status, verb := colorApproved, "approved", "Approved"
	if rec.Status == domain.StatusRejected {
		color, status, verb = colorRejected, "rejected", "Rejected"
	}

	desc := l.T("DecisionEmbed", map[string]any{
		"Status":       status,
		"Verb":         verb,
		"Content":      rec.Content,
		"Author":       discord.UserMention(rec.AuthorID),
		"Approve":      r.approve.String(),
		"Reject":       r.reject.String(),
		"ApproveCount": rec.Votes.Count(domain.MarkApprove),
		"RejectCount":  rec.Votes.Count(domain.MarkReject),
		"Staff":        discord.UserMention(rec.DecidedBy),
	})
	if rec.StaffResponse != nil {
		desc += l.T("DecisionStaffResponse", map[string]any{"Reason": *rec.StaffResponse})
	}

	decidedAt := time.Now().UTC()
	if rec.DecidedAt != nil {
		decidedAt = *rec.DecidedAt
	}
	return &discordgo.MessageEmbed{
		Description: discord.Truncate(desc, maxEmbedDescription),
		Color:       color,
		Footer:      footer(l, botName, rec.ID),
		Timestamp:   decidedAt.Format(time.RFC3339),
	}
}

func (r renderer) votes(l *locales.Localizer, rec *domain.Record, viewerID, botName string) *discordgo.MessageEmbed {
	list := func(mark domain.Mark) string {
		ids := rec.Votes[mark]
		if len(ids) == 0 {
			return l.T("VotesNone", nil)
		}
		lines := make([]string, 0, len(ids))
		for _, id := range ids {
			lines = append(lines, discord.UserMention(id))
		}
		return strings.Join(lines, "\n")
	}

	desc := l.T("VotesEmbed", map[string]any{
		"User":         discord.UserMention(viewerID),
		"Content":      rec.Content,
		"Author":       discord.UserMention(rec.AuthorID),
		"Approve":      r.approve.String(),
		"Reject":       r.reject.String(),
		"ApproveCount": rec.Votes.Count(domain.MarkApprove),
		"RejectCount":  rec.Votes.Count(domain.MarkReject),
		"ApproveUsers": list(domain.MarkApprove),
		"RejectUsers":  list(domain.MarkReject),
	})
	return &discordgo.MessageEmbed{
		Description: discord.Truncate(desc, maxEmbedDescription),
		Color:       colorVotes,
		Footer:      footer(l, botName, rec.ID),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

func (r renderer) panel(l *locales.Localizer, reviewChannelID, community string) *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: l.T("PanelIntro", map[string]any{
			"Approve":  r.approve.String(),
			"Reject":   r.reject.String(),
			"Reviewed": "<#" + reviewChannelID + ">",
		}),
		Embeds: []*discordgo.MessageEmbed{{
			Description: l.T("PanelEmbed", map[string]any{"Community": community}),
			Color:       colorPanel,
		}},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    l.T("PanelButton", nil),
					Style:    discordgo.SuccessButton,
					CustomID: ButtonSuggest,
				},
			}},
		},
	}
}
