// Command main runs the database seeder.
package main

import (
	"context"
	"flag"
	"log"

	"socialfeed/internal/config"
	"socialfeed/internal/database"
	"socialfeed/internal/middleware"
	"socialfeed/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	postsPerUser := flag.Int("posts", 4, "Posts per user")
	follows := flag.Int("follows", 10, "Follows per user")
	likes := flag.Int("likes", 5, "Likes per post")
	comments := flag.Int("comments", 2, "Comments per post")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed (0 for a random run)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logCloser := middleware.InitLogger(cfg)
	defer func() { _ = logCloser.Close() }()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// the seeder may run against production settings, where Connect skips migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	s := seed.NewSeeder(db, *randSeed)
	if _, err := s.Run(context.Background(), seed.Options{
		NumUsers:        *numUsers,
		PostsPerUser:    *postsPerUser,
		FollowsPerUser:  *follows,
		LikesPerPost:    *likes,
		CommentsPerPost: *comments,
		ShouldClean:     *shouldClean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
