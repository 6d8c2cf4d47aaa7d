package suggestions

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPlatform records calls the manager makes to the chat side.
type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) PostSuggestion(ctx context.Context, rec *Record) (string, error) {
	args := m.Called(ctx, rec)
	return args.String(0), args.Error(1)
}

func (m *MockPlatform) RetractVote(ctx context.Context, messageID, userID string, mark Mark) error {
	args := m.Called(ctx, messageID, userID, mark)
	return args.Error(0)
}

func (m *MockPlatform) DeleteMessage(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func (m *MockPlatform) PostDecision(ctx context.Context, rec *Record) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockPlatform) PostPanel(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockPlatform) DeletePanel(ctx context.Context, messageID string) error {
	args := m.Called(ctx, messageID)
	return args.Error(0)
}

func newTestManager(t *testing.T, opts Options) (*Manager, *MockPlatform, *FileStore) {
	t.Helper()
	store := NewFileStore(filepath.Join(t.TempDir(), "suggestions.json"))
	platform := new(MockPlatform)
	mgr := NewManager(store, platform, opts)
	mgr.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return mgr, platform, store
}

// seed stores a pending suggestion without going through the platform.
func seed(t *testing.T, store Store, id int64, messageID string) {
	t.Helper()
	require.NoError(t, store.Update(context.Background(), func(doc *Document) error {
		doc.LastID = id
		doc.Suggestions = append(doc.Suggestions, &Record{
			ID:        id,
			MessageID: messageID,
			AuthorID:  "author",
			Content:   "a perfectly fine suggestion",
			Votes:     NewVotes(),
			Status:    StatusPending,
		})
		return nil
	}))
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	mgr, platform, store := newTestManager(t, Options{})

	platform.On("PostSuggestion", mock.Anything, mock.MatchedBy(func(r *Record) bool { return r.ID == 1 })).Return("m1", nil).Once()
	platform.On("PostSuggestion", mock.Anything, mock.MatchedBy(func(r *Record) bool { return r.ID == 2 })).Return("m2", nil).Once()
	platform.On("PostPanel", mock.Anything).Return("p1", nil).Once()
	platform.On("PostPanel", mock.Anything).Return("p2", nil).Once()
	platform.On("DeletePanel", mock.Anything, "p1").Return(nil).Once()

	first, err := mgr.Submit(ctx, "u1", "0123456789")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "m1", first.MessageID)
	assert.Equal(t, StatusPending, first.Status)
	assert.Empty(t, first.Votes[MarkApprove])
	assert.Empty(t, first.Votes[MarkReject])
	assert.Nil(t, first.StaffResponse)

	second, err := mgr.Submit(ctx, "u2", "another suggestion text")
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), doc.LastID)
	assert.Len(t, doc.Suggestions, 2)
	assert.Equal(t, "p2", doc.Panel())
	platform.AssertExpectations(t)
}

func TestSubmitValidation(t *testing.T) {
	ctx := context.Background()
	mgr, platform, store := newTestManager(t, Options{})

	_, err := mgr.Submit(ctx, "u1", "012345678")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = mgr.Submit(ctx, "u1", strings.Repeat("x", MaxContentLength+1))
	assert.ErrorIs(t, err, ErrValidation)

	// Multi-byte runes count once each.
	_, err = mgr.Submit(ctx, "u1", strings.Repeat("é", 9))
	assert.ErrorIs(t, err, ErrValidation)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, doc.LastID)
	platform.AssertNotCalled(t, "PostSuggestion", mock.Anything, mock.Anything)
}

func TestSubmitKeepsContentAsWritten(t *testing.T) {
	ctx := context.Background()
	mgr, platform, store := newTestManager(t, Options{})
	platform.On("PostSuggestion", mock.Anything, mock.Anything).Return("m1", nil).Once()
	platform.On("PostPanel", mock.Anything).Return("p1", nil).Once()

	// Ten characters including the trailing space, as the modal accepted it.
	rec, err := mgr.Submit(ctx, "u1", "123456789 ")
	require.NoError(t, err)
	assert.Equal(t, "123456789 ", rec.Content)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, doc.Suggestions, 1)
	assert.Equal(t, "123456789 ", doc.Suggestions[0].Content)
	assert.Empty(t, Check(doc))
	platform.AssertExpectations(t)
}

func TestSubmitPostFailure(t *testing.T) {
	ctx := context.Background()
	mgr, platform, store := newTestManager(t, Options{})
	platform.On("PostSuggestion", mock.Anything, mock.Anything).Return("", errors.New("discord down"))

	_, err := mgr.Submit(ctx, "u1", "0123456789")
	require.Error(t, err)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Suggestions)
}

func TestRegisterVoteSwitch(t *testing.T) {
	ctx := context.Background()
	mgr, platform, store := newTestManager(t, Options{})
	seed(t, store, 1, "m1")
	platform.On("RetractVote", mock.Anything, "m1", "voter", MarkReject).Return(nil).Once()

	require.NoError(t, mgr.RegisterVote(ctx, "m1", "voter", MarkReject))
	require.NoError(t, mgr.RegisterVote(ctx, "m1", "voter", MarkApprove))

	rec, err := mgr.Votes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"voter"}, rec.Votes[MarkApprove])
	assert.Empty(t, rec.Votes[MarkReject])
	platform.AssertExpectations(t)
}

func TestRegisterVoteIdempotent(t *testing.T) {
	ctx := context.Background()
	mgr, platform, store := newTestManager(t, Options{})
	seed(t, store, 1, "m1")

	require.NoError(t, mgr.RegisterVote(ctx, "m1", "voter", MarkApprove))
	require.NoError(t, mgr.RegisterVote(ctx, "m1", "voter", MarkApprove))

	rec, err := mgr.Votes(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"voter"}, rec.Votes[MarkApprove])
	platform.AssertNotCalled(t, "RetractVote", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterVoteUntrackedMessage(t *testing.T) {
	ctx := context.Background()
	mgr, _, store := newTestManager(t, Options{})
	seed(t, store, 1, "m1")

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	require.NoError(t, mgr.RegisterVote(ctx, "other", "voter", MarkApprove))
	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApproveRejectRetract(t *testing.T) {
	ctx := context.Background()
	mgr, platform, store := newTestManager(t, Options{})
	seed(t, store, 1, "m1")
	platform.On("RetractVote", mock.Anything, "m1", "voter", MarkApprove).Return(nil).Once()

	require.NoError(t, mgr.RegisterVote(ctx, "m1", "voter", MarkApprove))
	require.NoError(t, mgr.RegisterVote(ctx, "m1", "voter", MarkReject))
	require.NoError(t, mgr.UnregisterVote(ctx, "m1", "voter", MarkReject))
	// The retracted approve reaction echoes back as a removal; it must be harmless.
	require.NoError(t, mgr.UnregisterVote(ctx, "m1", "voter", MarkApprove))

	rec, err := mgr.Votes(ctx, 1)
	require.NoError(t, err)
	assert.False(t, rec.Votes.Has(MarkApprove, "voter"))
	assert.False(t, rec.Votes.Has(MarkReject, "voter"))
	platform.AssertExpectations(t)
}

func TestDecide(t *testing.T) {
	ctx := context.Background()
	mgr, platform, store := newTestManager(t, Options{})
	seed(t, store, 1, "m1")
	require.NoError(t, mgr.RegisterVote(ctx, "m1", "a", MarkApprove))

	platform.On("DeleteMessage", mock.Anything, "m1").Return(nil).Once()
	platform.On("PostDecision", mock.Anything, mock.MatchedBy(func(r *Record) bool {
		return r.Status == StatusApproved && r.Votes.Count(MarkApprove) == 1
	})).Return(nil).Once()
	platform.On("PostPanel", mock.Anything).Return("p1", nil).Once()

	rec, err := mgr.Decide(ctx, 1, OutcomeApprove, "staff", "  good idea ")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, rec.Status)
	require.NotNil(t, rec.StaffResponse)
	assert.Equal(t, "good idea", *rec.StaffResponse)
	assert.Equal(t, "staff", rec.DecidedBy)
	require.NotNil(t, rec.DecidedAt)

	_, err = mgr.Decide(ctx, 1, OutcomeReject, "staff", "")
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	// Votes on a decided suggestion are ignored in both directions.
	require.NoError(t, mgr.RegisterVote(ctx, "m1", "late", MarkReject))
	require.NoError(t, mgr.UnregisterVote(ctx, "m1", "a", MarkApprove))
	stored, err := mgr.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, stored.Votes[MarkReject])
	assert.Equal(t, []string{"a"}, stored.Votes[MarkApprove])
	platform.AssertExpectations(t)
}

func TestDecideRedecide(t *testing.T) {
	ctx := context.Background()
	mgr, platform, store := newTestManager(t, Options{AllowRedecide: true})
	seed(t, store, 1, "m1")
	platform.On("DeleteMessage", mock.Anything, "m1").Return(errors.New("unknown message"))
	platform.On("PostDecision", mock.Anything, mock.Anything).Return(nil)
	platform.On("PostPanel", mock.Anything).Return("p", nil)

	_, err := mgr.Decide(ctx, 1, OutcomeApprove, "staff", "")
	require.NoError(t, err)
	rec, err := mgr.Decide(ctx, 1, OutcomeReject, "staff2", "changed our mind")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rec.Status)
	assert.Equal(t, "staff2", rec.DecidedBy)

	// No reason on a later decision keeps the earlier response.
	rec, err = mgr.Decide(ctx, 1, OutcomeApprove, "staff3", " ")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, rec.Status)
	require.NotNil(t, rec.StaffResponse)
	assert.Equal(t, "changed our mind", *rec.StaffResponse)
}

func TestDecideUnknownLeavesFileUntouched(t *testing.T) {
	ctx := context.Background()
	mgr, platform, store := newTestManager(t, Options{})
	seed(t, store, 1, "m1")

	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	_, err = mgr.Decide(ctx, 42, OutcomeApprove, "staff", "")
	assert.ErrorIs(t, err, ErrNotFound)

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	platform.AssertNotCalled(t, "PostDecision", mock.Anything, mock.Anything)
}

func TestVotesNotFound(t *testing.T) {
	mgr, _, _ := newTestManager(t, Options{})
	_, err := mgr.Votes(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRefreshPanelSingleSlot(t *testing.T) {
	ctx := context.Background()
	mgr, platform, store := newTestManager(t, Options{})
	platform.On("PostPanel", mock.Anything).Return("p1", nil).Once()
	platform.On("PostPanel", mock.Anything).Return("p2", nil).Once()
	platform.On("DeletePanel", mock.Anything, "p1").Return(errors.New("already gone")).Once()

	require.NoError(t, mgr.RefreshPanel(ctx))
	require.NoError(t, mgr.RefreshPanel(ctx))

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "p2", doc.Panel())

	tracked, err := mgr.IsTracked(ctx, "p2")
	require.NoError(t, err)
	assert.True(t, tracked)
	tracked, err = mgr.IsTracked(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, tracked)
	platform.AssertExpectations(t)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	mgr, platform, store := newTestManager(t, Options{})
	seed(t, store, 1, "m1")
	seed(t, store, 2, "m2")
	platform.On("DeleteMessage", mock.Anything, mock.Anything).Return(nil)
	platform.On("PostDecision", mock.Anything, mock.Anything).Return(nil)
	platform.On("PostPanel", mock.Anything).Return("p", nil)
	_, err := mgr.Decide(ctx, 2, OutcomeReject, "staff", "")
	require.NoError(t, err)

	all, err := mgr.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := mgr.List(ctx, StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(1), pending[0].ID)
}
