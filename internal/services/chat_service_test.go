package services

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jvidalgz/go-gympulse/internal/domain"
	"github.com/jvidalgz/go-gympulse/internal/repository/chatmessage"
)

type recordedEvent struct {
	Name    string
	Payload interface{}
}

// recordingNotifier stands in for the websocket hub in tests.
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) Emit(event string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{Name: event, Payload: payload})
}

func (n *recordingNotifier) names() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	names := make([]string, len(n.events))
	for i, e := range n.events {
		names[i] = e.Name
	}
	return names
}

func newChatTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.ChatMessage{}))
	return db
}

func newChatService(t *testing.T) (*ChatService, chatmessage.ChatMessageRepository, *recordingNotifier) {
	t.Helper()
	repo := chatmessage.NewChatMessageRepository(newChatTestDB(t))
	notifier := &recordingNotifier{}
	svc, err := NewChatService(repo, notifier, 30, &NoOpLogger{})
	require.NoError(t, err)
	return svc, repo, notifier
}

func TestPostMessageRejectsEmptyText(t *testing.T) {
	svc, repo, notifier := newChatService(t)
	ctx := context.Background()

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := svc.PostMessage(ctx, IncomingMessage{Text: text})
		require.ErrorIs(t, err, ErrValidation)
	}

	messages, err := repo.FindAllAscending(ctx)
	require.NoError(t, err)
	require.Empty(t, messages, "rejected submissions must not persist")
	require.Empty(t, notifier.names(), "rejected submissions must not broadcast")
}

func TestPostMessagePersistsAndBroadcasts(t *testing.T) {
	svc, repo, notifier := newChatService(t)
	ctx := context.Background()

	msg, err := svc.PostMessage(ctx, IncomingMessage{Text: "  hola  ", UserID: "5", UserName: "Marta"})
	require.NoError(t, err)
	require.Equal(t, "hola", msg.Text)
	require.Equal(t, "5", msg.UserID)
	require.NotZero(t, msg.ID)

	messages, err := repo.FindAllAscending(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	require.Equal(t, []string{EventChatMessage}, notifier.names())
}

func TestUpdateMessageAuthorization(t *testing.T) {
	svc, _, notifier := newChatService(t)
	ctx := context.Background()

	author := &domain.User{ID: 5, Role: domain.RoleMember}
	stranger := &domain.User{ID: 6, Role: domain.RoleMember}
	admin := &domain.User{ID: 7, Role: domain.RoleAdmin}

	msg, err := svc.PostMessage(ctx, IncomingMessage{
		Text:   "original",
		UserID: strconv.FormatUint(uint64(author.ID), 10),
	})
	require.NoError(t, err)

	_, err = svc.UpdateMessage(ctx, msg.ID, "hacked", stranger)
	require.ErrorIs(t, err, ErrForbidden)

	unchanged, err := svc.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	require.Equal(t, "original", unchanged.Text)

	updated, err := svc.UpdateMessage(ctx, msg.ID, "edited by author", author)
	require.NoError(t, err)
	require.Equal(t, "edited by author", updated.Text)

	updated, err = svc.UpdateMessage(ctx, msg.ID, "edited by admin", admin)
	require.NoError(t, err)
	require.Equal(t, "edited by admin", updated.Text)

	require.Contains(t, notifier.names(), EventMessageUpdated)
}

func TestAnonymousMessageOnlyAdminCanModerate(t *testing.T) {
	svc, _, _ := newChatService(t)
	ctx := context.Background()

	msg, err := svc.PostMessage(ctx, IncomingMessage{Text: "anonymous"})
	require.NoError(t, err)

	member := &domain.User{ID: 3, Role: domain.RoleMember}
	require.ErrorIs(t, svc.DeleteMessage(ctx, msg.ID, member), ErrForbidden)

	admin := &domain.User{ID: 4, Role: domain.RoleAdmin}
	require.NoError(t, svc.DeleteMessage(ctx, msg.ID, admin))
}

func TestDeleteAllBroadcastsEmptyHistory(t *testing.T) {
	svc, repo, notifier := newChatService(t)
	ctx := context.Background()

	_, err := svc.PostMessage(ctx, IncomingMessage{Text: "one"})
	require.NoError(t, err)
	_, err = svc.PostMessage(ctx, IncomingMessage{Text: "two"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAll(ctx))

	messages, err := repo.FindAllAscending(ctx)
	require.NoError(t, err)
	require.Empty(t, messages)

	names := notifier.names()
	require.Equal(t, EventChatHistory, names[len(names)-1])
}

func TestReplayHistoryPrunesExpiredMessages(t *testing.T) {
	svc, repo, _ := newChatService(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.ChatMessage{Text: "stale", CreatedAt: time.Now().AddDate(0, 0, -31)})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &domain.ChatMessage{Text: "fresh", CreatedAt: time.Now().AddDate(0, 0, -29)})
	require.NoError(t, err)

	history, err := svc.ReplayHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "fresh", history[0].Text)
}
