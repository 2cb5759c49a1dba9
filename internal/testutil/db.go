// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"talksport/internal/db"
	"talksport/internal/model"
)

// NewDB opens a private in-memory sqlite database with the schema migrated.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gormDB, err := db.Open(db.DriverSQLite, dsn, "silent")
	require.NoError(t, err)

	// One connection keeps the in-memory database alive for the whole test.
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() { _ = db.Close(gormDB) })
	return gormDB
}

// CreateUser inserts a user with a bcrypt hash of password.
func CreateUser(t *testing.T, gormDB *gorm.DB, password string) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{
		Name:         gofakeit.Name(),
		Email:        gofakeit.Email(),
		PasswordHash: string(hash),
	}
	require.NoError(t, gormDB.Create(user).Error)
	return user
}

// CreatePost inserts a picture post by authorID at createdAt.
func CreatePost(t *testing.T, gormDB *gorm.DB, authorID uint, createdAt time.Time) *model.Post {
	t.Helper()

	caption := gofakeit.Phrase()
	post := &model.Post{
		MediaType: model.MediaTypePicture,
		MediaURL:  gofakeit.URL(),
		Caption:   &caption,
		AuthorID:  authorID,
		CreatedAt: createdAt,
	}
	require.NoError(t, gormDB.Omit("Author", "Likes").Create(post).Error)
	return post
}
