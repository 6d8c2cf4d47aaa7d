package discordbot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandEvent(name string) *Event {
	ev := newEvent(KindCommand)
	ev.Interaction = &discordgo.Interaction{
		Type:   discordgo.InteractionApplicationCommand,
		Data:   discordgo.ApplicationCommandInteractionData{Name: name},
		Member: &discordgo.Member{User: &discordgo.User{ID: "u1"}},
	}
	return ev
}

func TestRoute(t *testing.T) {
	assert.Equal(t, "votes", commandEvent("votes").Route())

	comp := newEvent(KindComponent)
	comp.Interaction = &discordgo.Interaction{Data: discordgo.MessageComponentInteractionData{CustomID: "suggest_button"}}
	assert.Equal(t, "suggest_button", comp.Route())

	modal := newEvent(KindModal)
	modal.Interaction = &discordgo.Interaction{Data: discordgo.ModalSubmitInteractionData{CustomID: "suggest_modal"}}
	assert.Equal(t, "suggest_modal", modal.Route())

	react := newEvent(KindReactionAdd)
	react.Reaction = &discordgo.MessageReaction{UserID: "u2", ChannelID: "c"}
	assert.Empty(t, react.Route())
	assert.Equal(t, "u2", react.UserID())
	assert.Equal(t, "c", react.ChannelID())
	assert.Equal(t, "u1", commandEvent("x").UserID())
	assert.NotEmpty(t, react.ID)
}

func TestDispatchRoutesByName(t *testing.T) {
	d := NewDispatcher(4)
	var got []string
	d.Handle(KindCommand, "approve", func(ctx context.Context, ev *Event) error {
		got = append(got, "approve")
		return nil
	})
	d.Handle(KindCommand, "reject", func(ctx context.Context, ev *Event) error {
		got = append(got, "reject")
		return nil
	})

	d.Dispatch(context.Background(), commandEvent("reject"))
	d.Dispatch(context.Background(), commandEvent("unknown"))
	d.Dispatch(context.Background(), commandEvent("approve"))
	assert.Equal(t, []string{"reject", "approve"}, got)
}

func TestDispatchFanout(t *testing.T) {
	d := NewDispatcher(4)
	calls := 0
	for i := 0; i < 2; i++ {
		d.On(KindReactionAdd, func(ctx context.Context, ev *Event) error {
			calls++
			return nil
		})
	}
	ev := newEvent(KindReactionAdd)
	ev.Reaction = &discordgo.MessageReaction{}
	d.Dispatch(context.Background(), ev)
	assert.Equal(t, 2, calls)
}

func TestDispatchErrorsAndPanics(t *testing.T) {
	d := NewDispatcher(4)
	var hooked []error
	d.OnError(func(ctx context.Context, ev *Event, err error) {
		hooked = append(hooked, err)
	})
	boom := errors.New("boom")
	d.Handle(KindCommand, "fails", func(ctx context.Context, ev *Event) error { return boom })
	d.Handle(KindCommand, "panics", func(ctx context.Context, ev *Event) error { panic("nil map") })

	d.Dispatch(context.Background(), commandEvent("fails"))
	d.Dispatch(context.Background(), commandEvent("panics"))

	require.Len(t, hooked, 2)
	assert.ErrorIs(t, hooked[0], boom)
	assert.Contains(t, hooked[1].Error(), "nil map")
}

func TestRunSequentialOrder(t *testing.T) {
	d := NewDispatcher(16)
	var (
		mu  sync.Mutex
		got []string
	)
	d.On(KindMessageCreate, func(ctx context.Context, ev *Event) error {
		mu.Lock()
		got = append(got, ev.Message.ID)
		mu.Unlock()
		return nil
	})

	for _, id := range []string{"1", "2", "3", "4"} {
		ev := newEvent(KindMessageCreate)
		ev.Message = &discordgo.Message{ID: id}
		require.True(t, d.Enqueue(ev))
	}
	d.Close()

	done := make(chan struct{})
	go func() {
		d.Run(context.Background(), 1)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not drain")
	}
	assert.Equal(t, []string{"1", "2", "3", "4"}, got)
	assert.False(t, d.Enqueue(newEvent(KindMessageCreate)))
}

func TestRunStopsOnCancel(t *testing.T) {
	d := NewDispatcher(1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx, 3)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher ignored cancellation")
	}
}
