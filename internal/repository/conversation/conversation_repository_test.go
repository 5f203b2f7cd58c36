package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jvidalgz/go-gympulse/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.Conversation{}, &domain.ConversationCounter{}))
	return db
}

func mustCreate(t *testing.T, repo ConversationRepository, memberID, staffID uint) *domain.Conversation {
	t.Helper()
	conv, err := repo.Create(context.Background(), &domain.Conversation{
		MemberID:       memberID,
		StaffID:        staffID,
		LastActivityAt: time.Now(),
	})
	require.NoError(t, err)
	return conv
}

func TestFindByPairMatchesEitherOrder(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))
	ctx := context.Background()

	created := mustCreate(t, repo, 1, 2)

	forward, err := repo.FindByPair(ctx, 1, 2)
	require.NoError(t, err)
	reverse, err := repo.FindByPair(ctx, 2, 1)
	require.NoError(t, err)

	require.Equal(t, created.ID, forward.ID)
	require.Equal(t, created.ID, reverse.ID)

	_, err = repo.FindByPair(ctx, 1, 3)
	require.ErrorIs(t, err, ErrConversationNotFound)
}

func TestCreateInitializesBothCounters(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))

	conv := mustCreate(t, repo, 1, 2)

	require.Len(t, conv.Counters, 2)
	seen := map[uint]int{}
	for _, c := range conv.Counters {
		seen[c.UserID] = c.Unread
	}
	require.Equal(t, 0, seen[1])
	require.Equal(t, 0, seen[2])
}

func TestIncrementAndResetUnread(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))
	ctx := context.Background()

	conv := mustCreate(t, repo, 1, 2)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementUnread(ctx, conv.ID, 2))
	}
	require.NoError(t, repo.IncrementUnread(ctx, conv.ID, 1))

	loaded, err := repo.FindByID(ctx, conv.ID)
	require.NoError(t, err)
	counts := map[uint]int{}
	for _, c := range loaded.Counters {
		counts[c.UserID] = c.Unread
	}
	require.Equal(t, 3, counts[2])
	require.Equal(t, 1, counts[1])

	require.NoError(t, repo.ResetUnread(ctx, conv.ID, 2))

	loaded, err = repo.FindByID(ctx, conv.ID)
	require.NoError(t, err)
	counts = map[uint]int{}
	for _, c := range loaded.Counters {
		counts[c.UserID] = c.Unread
	}
	require.Equal(t, 0, counts[2], "reset participant goes back to zero")
	require.Equal(t, 1, counts[1], "other participant is untouched")
}

func TestIncrementInsertsMissingCounter(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))
	ctx := context.Background()

	conv := mustCreate(t, repo, 1, 2)

	// No counter row exists for user 7 yet.
	require.NoError(t, repo.IncrementUnread(ctx, conv.ID, 7))

	loaded, err := repo.FindByID(ctx, conv.ID)
	require.NoError(t, err)
	found := false
	for _, c := range loaded.Counters {
		if c.UserID == 7 {
			found = true
			require.Equal(t, 1, c.Unread)
		}
	}
	require.True(t, found)
}

func TestTotalUnreadSumsAcrossConversations(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))
	ctx := context.Background()

	first := mustCreate(t, repo, 1, 2)
	second := mustCreate(t, repo, 1, 3)

	require.NoError(t, repo.IncrementUnread(ctx, first.ID, 1))
	require.NoError(t, repo.IncrementUnread(ctx, first.ID, 1))
	require.NoError(t, repo.IncrementUnread(ctx, second.ID, 1))

	total, err := repo.TotalUnread(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)

	total, err = repo.TotalUnread(ctx, 2)
	require.NoError(t, err)
	require.EqualValues(t, 0, total)
}

func TestFindAllForUserOrdersByActivity(t *testing.T) {
	repo := NewConversationRepository(newTestDB(t))
	ctx := context.Background()

	older := mustCreate(t, repo, 1, 2)
	newer := mustCreate(t, repo, 1, 3)

	require.NoError(t, repo.TouchLastMessage(ctx, older.ID, "first", time.Now().Add(-time.Hour)))
	require.NoError(t, repo.TouchLastMessage(ctx, newer.ID, "second", time.Now()))

	convs, err := repo.FindAllForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, convs, 2)
	require.Equal(t, newer.ID, convs[0].ID)
	require.Equal(t, "second", convs[0].LastMessage)
	require.Equal(t, older.ID, convs[1].ID)
}
