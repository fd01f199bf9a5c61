package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"socialfeed/internal/database"
	"socialfeed/internal/models"
	"socialfeed/internal/notifications"
	"socialfeed/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []notifications.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event notifications.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Backend() string { return "recording" }
func (p *recordingPublisher) Close() error    { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	publisher *recordingPublisher
	users     *UserService
	posts     *PostService
	comments  *CommentService
	follows   *FollowService
	likes     *EngagementService
	feed      *FeedService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	feedRepo := repository.NewFeedRepository(db)

	pub := &recordingPublisher{}
	return &testEnv{
		db:        db,
		publisher: pub,
		users:     NewUserService(userRepo, followRepo),
		posts:     NewPostService(postRepo, pub),
		comments:  NewCommentService(commentRepo, postRepo, pub),
		follows:   NewFollowService(followRepo, userRepo, pub),
		likes:     NewEngagementService(likeRepo, postRepo, pub),
		feed:      NewFeedService(feedRepo, postRepo, userRepo),
	}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "User " + username,
		PasswordHash: "hash",
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *testEnv) post(t *testing.T, userID uint, content string) *models.Post {
	t.Helper()
	p, err := e.posts.CreatePost(context.Background(), CreatePostInput{UserID: userID, Content: content})
	require.NoError(t, err)
	return p
}

// assertAppError asserts err is an AppError with code and, when non-empty, reason.
func assertAppError(t *testing.T, err error, code, reason string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	if reason != "" {
		assert.Equal(t, reason, appErr.Reason)
	}
}
