// Package seed provides database seeding utilities for development and
// testing. Not intended for production use.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"quill/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// groupDefs are the fixed communities every seeded database gets. Slugs are
// stable so bookmarked group URLs survive reseeding.
var groupDefs = []models.Group{
	{Title: "Technology", Slug: "technology", Description: "Hardware, software and everything in between"},
	{Title: "Cooking", Slug: "cooking", Description: "Recipes, techniques and kitchen disasters"},
	{Title: "Travel", Slug: "travel", Description: "Trip reports and destination advice"},
	{Title: "Books", Slug: "books", Description: "What we're reading and why"},
	{Title: "Music", Slug: "music", Description: "New releases, old favorites, live shows"},
	{Title: "Science", Slug: "science", Description: "Discoveries and discussions"},
}

// Seeder populates the database with demo data.
type Seeder struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{db: db, r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// Run seeds the full dataset: users, groups, posts, comments and follows.
func (s *Seeder) Run(opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d users created", len(users))

	groups, err := s.createGroups()
	if err != nil {
		return fmt.Errorf("failed to create groups: %w", err)
	}
	log.Printf("✓ %d groups available", len(groups))

	posts, err := s.createPosts(users, groups, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	commentCount, err := s.createComments(users, posts)
	if err != nil {
		return fmt.Errorf("failed to create comments: %w", err)
	}
	log.Printf("✓ %d comments created", commentCount)

	followCount, err := s.createFollows(users)
	if err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	log.Printf("✓ %d follow edges created", followCount)

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

// ClearAll removes all seeded rows, children before parents so foreign keys
// never block the deletes.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	for _, table := range []string{"follows", "comments", "posts", "groups", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) createUsers(count int) ([]*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]*models.User, 0, count+1)

	// One well-known admin account for exercising the operator endpoints.
	admin := &models.User{
		Username:    "admin",
		DisplayName: "Site Admin",
		Password:    string(hashed),
		IsAdmin:     true,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return nil, err
	}
	users = append(users, admin)

	seen := map[string]bool{"admin": true}
	for i := 0; i < count; i++ {
		username := s.uniqueUsername(seen)
		user := &models.User{
			Username:    username,
			DisplayName: gofakeit.Name(),
			Password:    string(hashed),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) uniqueUsername(seen map[string]bool) string {
	for {
		name := strings.ToLower(gofakeit.Username())
		if len(name) > 24 {
			name = name[:24]
		}
		name = fmt.Sprintf("%s_%d", name, gofakeit.Number(10, 999))
		if !seen[name] {
			seen[name] = true
			return name
		}
	}
}

func (s *Seeder) createGroups() ([]*models.Group, error) {
	groups := make([]*models.Group, 0, len(groupDefs))
	for i := range groupDefs {
		group := groupDefs[i]
		// Keep existing groups so reseeding without -clean stays idempotent.
		if err := s.db.Where(models.Group{Slug: group.Slug}).
			FirstOrCreate(&group).Error; err != nil {
			return nil, err
		}
		groups = append(groups, &group)
	}
	return groups, nil
}

func (s *Seeder) createPosts(users []*models.User, groups []*models.Group, count int) ([]*models.Post, error) {
	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := users[s.r.Intn(len(users))]
		post := &models.Post{
			Text:   gofakeit.Paragraph(1, 3, 8, "\n"),
			UserID: author.ID,
			// Spread creation times over the last 90 days so feeds look lived-in.
			CreatedAt: time.Now().Add(-time.Duration(s.r.Intn(90*24*60)) * time.Minute),
		}

		// Roughly two thirds of posts land in a group.
		if s.r.Intn(3) > 0 {
			groupID := groups[s.r.Intn(len(groups))].ID
			post.GroupID = &groupID
		}
		if s.r.Intn(4) == 0 {
			post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/600.jpg", gofakeit.UUID())
		}

		if err := s.db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Seeder) createComments(users []*models.User, posts []*models.Post) (int, error) {
	total := 0
	for _, post := range posts {
		for i := s.r.Intn(4); i > 0; i-- {
			comment := &models.Comment{
				Text:   gofakeit.Sentence(10),
				UserID: users[s.r.Intn(len(users))].ID,
				PostID: post.ID,
			}
			if err := s.db.Create(comment).Error; err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}

func (s *Seeder) createFollows(users []*models.User) (int, error) {
	total := 0
	for _, follower := range users {
		for i := s.r.Intn(5); i > 0; i-- {
			followee := users[s.r.Intn(len(users))]
			if followee.ID == follower.ID {
				continue
			}
			edge := models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}
			// FirstOrCreate keeps the edge unique when the random pick repeats.
			if err := s.db.Where(edge).FirstOrCreate(&edge).Error; err != nil {
				return total, err
			}
			total++
		}
	}
	return total, nil
}
