package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"talksport/internal/config"
	"talksport/internal/db"
	"talksport/internal/model"
	"talksport/internal/repository"
)

const (
	demoName  = "John Doe"
	demoEmail = "john.doe@example.com"
)

func main() {
	log.Println("Starting seed script...")

	// Load configuration
	cfg := config.LoadSeed()

	// Connect to database
	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN, cfg.GormLogLevel)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close(gormDB) }()
	log.Println("Connected to database")

	// Run migrations to ensure schema is up to date
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	user, created, err := seedUser(ctx, userRepo, cfg.SeedPassword)
	if err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}
	if created {
		log.Printf("Created user %s (id %d)", user.Email, user.ID)
	} else {
		log.Printf("User %s already exists (id %d)", user.Email, user.ID)
	}

	posts, err := seedPosts(ctx, postRepo, user.ID, cfg.SeedPosts)
	if err != nil {
		log.Fatalf("Failed to seed posts: %v", err)
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Posts created: %d", posts)
}

// seedUser returns the demo user, creating it when missing.
func seedUser(ctx context.Context, repo repository.UserRepository, password string) (*model.User, bool, error) {
	existing, err := repo.FindByEmail(ctx, demoEmail)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("error checking user %s: %w", demoEmail, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, fmt.Errorf("error hashing password: %w", err)
	}

	user := &model.User{Name: demoName, Email: demoEmail, PasswordHash: string(hash)}
	if err := repo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("error creating user %s: %w", demoEmail, err)
	}
	return user, true, nil
}

// seedPosts appends n picture posts by authorID, one minute apart.
func seedPosts(ctx context.Context, repo repository.PostRepository, authorID uint, n int) (int, error) {
	start := time.Now().UTC().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		caption := gofakeit.Phrase()
		post := &model.Post{
			MediaType: model.MediaTypePicture,
			MediaURL:  fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
			Caption:   &caption,
			AuthorID:  authorID,
			CreatedAt: start.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Create(ctx, post); err != nil {
			return i, fmt.Errorf("error creating post %d: %w", i+1, err)
		}
	}
	return n, nil
}
