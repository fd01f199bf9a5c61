// Package seed fills a database with fake users, posts and engagement for
// development and demos. All writes go through the repositories, so seeded
// data obeys the same rules as data created over the API.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"socialfeed/internal/middleware"
	"socialfeed/internal/models"
	"socialfeed/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "Password123!"

// Options configuration for the seeder
type Options struct {
	NumUsers        int
	PostsPerUser    int
	FollowsPerUser  int
	LikesPerPost    int
	CommentsPerPost int
	ShouldClean     bool
	// SkipBcrypt stores a placeholder hash, for fast test runs.
	SkipBcrypt bool
}

// Stats counts what a run created.
type Stats struct {
	Users    int
	Posts    int
	Follows  int
	Likes    int
	Comments int
}

// Seeder writes fake data through the repositories.
type Seeder struct {
	db       *gorm.DB
	faker    *gofakeit.Faker
	rnd      *rand.Rand
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	follows  repository.FollowRepository
	likes    repository.LikeRepository
}

// NewSeeder binds a seeder to db. A non-zero randSeed makes runs reproducible.
func NewSeeder(db *gorm.DB, randSeed int64) *Seeder {
	return &Seeder{
		db:       db,
		faker:    gofakeit.New(randSeed),
		rnd:      rand.New(rand.NewSource(randSeed)),
		users:    repository.NewUserRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		follows:  repository.NewFollowRepository(db),
		likes:    repository.NewLikeRepository(db),
	}
}

// ClearAll hard-deletes every row of every table, children first.
func (s *Seeder) ClearAll() error {
	tx := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped()
	for _, m := range []interface{}{&models.Comment{}, &models.Like{}, &models.Follow{}, &models.Post{}, &models.User{}} {
		if err := tx.Delete(m).Error; err != nil {
			return fmt.Errorf("clear %T: %w", m, err)
		}
	}
	return nil
}

// Run seeds a social mesh of users, then their posts and engagement.
func (s *Seeder) Run(ctx context.Context, opts Options) (Stats, error) {
	var stats Stats

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return stats, err
		}
	}

	users, err := s.createUsers(ctx, opts)
	if err != nil {
		return stats, err
	}
	stats.Users = len(users)

	if stats.Follows, err = s.createFollows(ctx, users, opts.FollowsPerUser); err != nil {
		return stats, err
	}

	posts, err := s.createPosts(ctx, users, opts.PostsPerUser)
	if err != nil {
		return stats, err
	}
	stats.Posts = len(posts)

	if stats.Likes, err = s.createLikes(ctx, users, posts, opts.LikesPerPost); err != nil {
		return stats, err
	}
	if stats.Comments, err = s.createComments(ctx, users, posts, opts.CommentsPerPost); err != nil {
		return stats, err
	}

	middleware.Logger.InfoContext(ctx, "Seeding complete",
		slog.Int("users", stats.Users),
		slog.Int("posts", stats.Posts),
		slog.Int("follows", stats.Follows),
		slog.Int("likes", stats.Likes),
		slog.Int("comments", stats.Comments),
	)
	return stats, nil
}

func (s *Seeder) createUsers(ctx context.Context, opts Options) ([]*models.User, error) {
	hash := "seeded-without-bcrypt"
	if !opts.SkipBcrypt {
		// one hash shared by every seeded user
		raw, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = string(raw)
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		person := s.faker.Person()
		user := &models.User{
			Username:     fmt.Sprintf("%s%d", s.faker.Username(), i),
			Email:        fmt.Sprintf("user%d.%s", i, s.faker.Email()),
			FullName:     person.FirstName + " " + person.LastName,
			PasswordHash: hash,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user %d: %w", i, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// createFollows gives each user up to n distinct followees.
func (s *Seeder) createFollows(ctx context.Context, users []*models.User, n int) (int, error) {
	created := 0
	for _, follower := range users {
		following := 0
		for _, idx := range s.rnd.Perm(len(users)) {
			if following >= n {
				break
			}
			followed := users[idx]
			if followed.ID == follower.ID {
				continue
			}
			ok, err := s.follows.Create(ctx, follower.ID, followed.ID)
			if err != nil {
				return created, err
			}
			if ok {
				following++
			}
		}
		created += following
	}
	return created, nil
}

func (s *Seeder) createPosts(ctx context.Context, users []*models.User, perUser int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, perUser*len(users))
	for _, user := range users {
		for i := 0; i < perUser; i++ {
			post := &models.Post{
				UserID:          user.ID,
				Content:         s.faker.Paragraph(1, s.faker.Number(1, 3), s.faker.Number(5, 12), "\n"),
				CommentsEnabled: s.faker.Number(1, 10) > 1,
			}
			if s.faker.Bool() {
				post.MediaURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", s.faker.UUID())
			}
			if err := s.posts.Create(ctx, post); err != nil {
				return nil, fmt.Errorf("create post: %w", err)
			}
			posts = append(posts, post)
		}
	}
	return posts, nil
}

// createLikes adds up to n likes per post. Own-post likes are rejected by the
// repository and simply not counted.
func (s *Seeder) createLikes(ctx context.Context, users []*models.User, posts []*models.Post, n int) (int, error) {
	created := 0
	for _, post := range posts {
		likes := 0
		for _, idx := range s.rnd.Perm(len(users)) {
			if likes >= n {
				break
			}
			ok, err := s.likes.Create(ctx, users[idx].ID, post.ID)
			if err != nil {
				return created, err
			}
			if ok {
				likes++
			}
		}
		created += likes
	}
	return created, nil
}

func (s *Seeder) createComments(ctx context.Context, users []*models.User, posts []*models.Post, n int) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}
	created := 0
	for _, post := range posts {
		for i := 0; i < n; i++ {
			comment := &models.Comment{
				PostID:  post.ID,
				UserID:  users[s.rnd.Intn(len(users))].ID,
				Content: s.faker.Sentence(s.faker.Number(3, 15)),
			}
			ok, err := s.comments.CreateIfAllowed(ctx, comment)
			if err != nil {
				return created, err
			}
			if !ok {
				// comments disabled on this post
				break
			}
			created++
		}
	}
	return created, nil
}
