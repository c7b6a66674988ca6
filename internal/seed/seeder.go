// Package seed populates the database with realistic test data.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"campuslink/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Seeder writes fake users, posts, and internship listings.
type Seeder struct {
	db *mongo.Database
}

// NewSeeder creates a seeder for the given database.
func NewSeeder(db *mongo.Database) *Seeder {
	return &Seeder{db: db}
}

var branches = []string{"COMP", "IT", "EXTC", "MECH", "CIVIL"}
var years = []string{"FE", "SE", "TE", "BE"}
var domains = []string{"web development", "machine learning", "cloud", "embedded", "cybersecurity"}

// ClearAll drops the seeded collections. Quarantine is left alone so flagged
// submissions survive reseeding.
func (s *Seeder) ClearAll(ctx context.Context) error {
	for _, name := range []string{"users", "posts", "internships"} {
		if err := s.db.Collection(name).Drop(ctx); err != nil {
			return fmt.Errorf("dropping %s: %w", name, err)
		}
	}
	return nil
}

// SeedUsers creates n users. All seeded users share the password "password123".
func (s *Seeder) SeedUsers(ctx context.Context, n int) ([]models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, n)
	docs := make([]any, 0, n)
	for i := 0; i < n; i++ {
		first := gofakeit.FirstName()
		last := gofakeit.LastName()
		u := models.User{
			FirstName:   first,
			LastName:    last,
			DisplayName: first + " " + last,
			Year:        gofakeit.RandomString(years),
			Branch:      gofakeit.RandomString(branches),
			Division:    gofakeit.RandomString([]string{"A", "B", "C"}),
			RollNumber:  fmt.Sprintf("%02d", gofakeit.Number(1, 70)),
			MoodleID:    fmt.Sprintf("%d", gofakeit.Number(21100000, 21109999)+i*10000),
			Email:       gofakeit.Email(),
			Password:    string(hash),
			AvatarURL:   gofakeit.ImageURL(128, 128),
			Bookmarks:   []string{},
		}
		users = append(users, u)
		docs = append(docs, u)
	}

	if _, err := s.db.Collection("users").InsertMany(ctx, docs); err != nil {
		return nil, fmt.Errorf("inserting users: %w", err)
	}
	log.Printf("Seeded %d users", n)
	return users, nil
}

// SeedPosts creates n posts authored by random seeded users, with comments and
// likes from other seeded users. The comment counter is set to match the
// embedded comment count.
func (s *Seeder) SeedPosts(ctx context.Context, users []models.User, n int) error {
	if len(users) == 0 {
		return fmt.Errorf("no users to author posts")
	}

	docs := make([]any, 0, n)
	for i := 0; i < n; i++ {
		author := users[gofakeit.Number(0, len(users)-1)]

		comments := make([]models.Comment, 0)
		for j := 0; j < gofakeit.Number(0, 5); j++ {
			commenter := users[gofakeit.Number(0, len(users)-1)]
			comments = append(comments, models.Comment{
				Author:    commenter.AuthorSnapshot(),
				Message:   gofakeit.Sentence(8),
				CreatedAt: gofakeit.DateRange(time.Now().AddDate(0, -1, 0), time.Now()),
			})
		}

		likes := make([]string, 0)
		seen := map[string]bool{}
		for j := 0; j < gofakeit.Number(0, 10); j++ {
			id := users[gofakeit.Number(0, len(users)-1)].MoodleID
			if !seen[id] {
				seen[id] = true
				likes = append(likes, id)
			}
		}

		docs = append(docs, models.Post{
			Title:         gofakeit.Sentence(4),
			Description:   gofakeit.Sentence(12),
			Content:       gofakeit.Paragraph(3, 4, 10, "\n\n"),
			Cover:         gofakeit.ImageURL(800, 400),
			Author:        author.AuthorSnapshot(),
			Comments:      comments,
			Likes:         likes,
			TotalComments: len(comments),
			Tags:          []string{gofakeit.BuzzWord(), gofakeit.BuzzWord()},
			Publish:       true,
			CreatedAt:     gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()),
		})
	}

	if _, err := s.db.Collection("posts").InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("inserting posts: %w", err)
	}
	log.Printf("Seeded %d posts", n)
	return nil
}

// SeedInternships creates n internship listings across the known domains.
func (s *Seeder) SeedInternships(ctx context.Context, n int) error {
	docs := make([]any, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, models.Internship{
			Domain:   gofakeit.RandomString(domains),
			Company:  gofakeit.Company(),
			Role:     gofakeit.JobTitle() + " Intern",
			Location: gofakeit.City(),
			Stipend:  fmt.Sprintf("₹%d/month", gofakeit.Number(5, 40)*1000),
			ApplyURL: gofakeit.URL(),
			PostedAt: gofakeit.DateRange(time.Now().AddDate(0, -2, 0), time.Now()),
		})
	}

	if _, err := s.db.Collection("internships").InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("inserting internships: %w", err)
	}
	log.Printf("Seeded %d internships", n)
	return nil
}
