package reminders

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sharedconfig "github.com/tlou-esports/te-suggestions/src/config"
	"github.com/tlou-esports/te-suggestions/src/discord"
	"github.com/tlou-esports/te-suggestions/src/discord/discordtest"
	"github.com/tlou-esports/te-suggestions/src/discordbot"
	domain "github.com/tlou-esports/te-suggestions/src/reminders"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeBot struct {
	*discordbot.Dispatcher
	session  *discordtest.Session
	commands []*discordgo.ApplicationCommand
}

func (f *fakeBot) AddCommands(defs ...*discordgo.ApplicationCommand) {
	f.commands = append(f.commands, defs...)
}
func (f *fakeBot) Session() discord.Session { return f.session }

func newTestModule(t *testing.T) (*Module, *fakeBot, *domain.Store) {
	t.Helper()
	return newTestModuleWith(t, false)
}

func newTestModuleWith(t *testing.T, staffOnly bool) (*Module, *fakeBot, *domain.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "reminders.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := domain.NewStore(db)
	require.NoError(t, store.Migrate())

	bot := &fakeBot{Dispatcher: discordbot.NewDispatcher(8), session: new(discordtest.Session)}
	cfg := &sharedconfig.RemindersConfig{Interval: time.Hour, UTCOffsetHours: 8, Dedupe: true, StaffOnly: staffOnly}
	mod, err := NewModule(cfg, bot, store)
	require.NoError(t, err)
	return mod, bot, store
}

func command(name string, perms int64, resolved *discordgo.ApplicationCommandInteractionDataResolved, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordbot.Event {
	return &discordbot.Event{ID: "ev", Kind: discordbot.KindCommand, Interaction: &discordgo.Interaction{
		ID:        "interaction",
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   "guild",
		ChannelID: "announcements",
		Member:    &discordgo.Member{User: &discordgo.User{ID: "staff"}, Permissions: perms},
		Data:      discordgo.ApplicationCommandInteractionData{Name: name, Options: opts, Resolved: resolved},
	}}
}

func str(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

func replyContaining(substr string) interface{} {
	return mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Data != nil && r.Data.Flags == discordgo.MessageFlagsEphemeral && strings.Contains(r.Data.Content, substr)
	})
}

func publicReplyContaining(substr string) interface{} {
	return mock.MatchedBy(func(r *discordgo.InteractionResponse) bool {
		return r.Data != nil && r.Data.Flags&discordgo.MessageFlagsEphemeral == 0 && strings.Contains(r.Data.Content, substr)
	})
}

func TestCommandDefinitions(t *testing.T) {
	_, bot, _ := newTestModule(t)
	require.Len(t, bot.commands, 3)
	for _, c := range bot.commands {
		assert.Nil(t, c.DefaultMemberPermissions, c.Name)
	}
}

func TestCommandDefinitionsStaffOnly(t *testing.T) {
	_, bot, _ := newTestModuleWith(t, true)
	require.Len(t, bot.commands, 3)
	for _, c := range bot.commands {
		if c.Name == discord.CommandListReminders {
			assert.Nil(t, c.DefaultMemberPermissions)
			continue
		}
		require.NotNil(t, c.DefaultMemberPermissions, c.Name)
	}
}

func TestAddReminderWithRoleMention(t *testing.T) {
	ctx := context.Background()
	_, bot, store := newTestModule(t)
	bot.session.On("InteractionRespond", mock.Anything, publicReplyContaining("Reminder added for **09:00 GMT+8**")).Return(nil).Once()

	mention := &discordgo.ApplicationCommandInteractionDataOption{Name: optionMention, Type: discordgo.ApplicationCommandOptionMentionable, Value: "role1"}
	resolved := &discordgo.ApplicationCommandInteractionDataResolved{Roles: map[string]*discordgo.Role{"role1": {ID: "role1"}}}
	bot.Dispatch(ctx, command(discord.CommandAddReminder, discordgo.PermissionManageGuild, resolved,
		str(optionTime, "09:00"), str(optionMessage, "scrims tonight"), mention))

	list, err := store.List(ctx, "guild")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "<@&role1> scrims tonight", list[0].Message)
	assert.Equal(t, "announcements", list[0].ChannelID)
	bot.session.AssertExpectations(t)
}

func TestAddReminderRejectsBadTime(t *testing.T) {
	ctx := context.Background()
	_, bot, store := newTestModule(t)
	bot.session.On("InteractionRespond", mock.Anything, replyContaining("HH:MM")).Return(nil).Once()

	bot.Dispatch(ctx, command(discord.CommandAddReminder, discordgo.PermissionManageGuild, nil,
		str(optionTime, "25:61"), str(optionMessage, "nope")))

	list, err := store.List(ctx, "guild")
	require.NoError(t, err)
	assert.Empty(t, list)
	bot.session.AssertExpectations(t)
}

func TestMemberCanAddAndDeleteReminders(t *testing.T) {
	ctx := context.Background()
	_, bot, store := newTestModule(t)
	bot.session.On("InteractionRespond", mock.Anything, publicReplyContaining("Reminder added")).Return(nil).Once()
	bot.Dispatch(ctx, command(discord.CommandAddReminder, 0, nil,
		str(optionTime, "09:00"), str(optionMessage, "hi")))

	list, err := store.List(ctx, "guild")
	require.NoError(t, err)
	require.Len(t, list, 1)

	bot.session.On("InteractionRespond", mock.Anything, publicReplyContaining("Removed reminder set for **09:00")).Return(nil).Once()
	bot.Dispatch(ctx, command(discord.CommandDeleteReminder, 0, nil, str(optionTime, "09:00")))

	list, err = store.List(ctx, "guild")
	require.NoError(t, err)
	assert.Empty(t, list)
	bot.session.AssertExpectations(t)
}

func TestStaffOnlyRemindersRequireManageServer(t *testing.T) {
	ctx := context.Background()
	_, bot, store := newTestModuleWith(t, true)
	bot.session.On("InteractionRespond", mock.Anything, replyContaining("Manage Server")).Return(nil).Twice()

	bot.Dispatch(ctx, command(discord.CommandAddReminder, 0, nil,
		str(optionTime, "09:00"), str(optionMessage, "hi")))
	bot.Dispatch(ctx, command(discord.CommandDeleteReminder, 0, nil, str(optionTime, "09:00")))

	list, err := store.List(ctx, "guild")
	require.NoError(t, err)
	assert.Empty(t, list)
	bot.session.AssertExpectations(t)
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	_, bot, store := newTestModule(t)
	for _, msg := range []string{"first", "second"} {
		_, err := store.Add(ctx, "guild", "announcements", "18:30", msg, "", "staff")
		require.NoError(t, err)
	}

	bot.session.On("InteractionRespond", mock.Anything, publicReplyContaining("• **18:30** GMT+8 → first")).Return(nil).Once()
	bot.Dispatch(ctx, command(discord.CommandListReminders, 0, nil))

	bot.session.On("InteractionRespond", mock.Anything, publicReplyContaining("Removed 2 reminders")).Return(nil).Once()
	bot.Dispatch(ctx, command(discord.CommandDeleteReminder, discordgo.PermissionManageGuild, nil, str(optionTime, "18:30")))

	bot.session.On("InteractionRespond", mock.Anything, replyContaining("No reminder is set")).Return(nil).Once()
	bot.Dispatch(ctx, command(discord.CommandDeleteReminder, discordgo.PermissionManageGuild, nil, str(optionTime, "18:30")))

	bot.session.On("InteractionRespond", mock.Anything, replyContaining("No reminders set.")).Return(nil).Once()
	bot.Dispatch(ctx, command(discord.CommandListReminders, 0, nil))

	bot.session.AssertExpectations(t)
}

func TestChannelSender(t *testing.T) {
	s := new(discordtest.Session)
	s.On("ChannelMessageSendComplex", "c1", mock.MatchedBy(func(m *discordgo.MessageSend) bool {
		return m.Content == "<@&r> go" && m.AllowedMentions != nil
	})).Return(discordtest.Message("m", "c1"), nil).Once()

	require.NoError(t, channelSender{session: s}.SendReminder(context.Background(), "c1", "<@&r> go"))
	s.AssertExpectations(t)
}

func TestStartStop(t *testing.T) {
	mod, _, _ := newTestModule(t)
	require.NoError(t, mod.Start(context.Background()))
	assert.Error(t, mod.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	mod.Stop(ctx)
	mod.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
