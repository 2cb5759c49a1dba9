package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"talksport/internal/model"
	"talksport/internal/repository"
	"talksport/internal/testutil"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewUserRepository(db)

	user := &model.User{Name: gofakeit.Name(), Email: "john@x.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	byEmail, err := repo.FindByEmail(ctx, "john@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.False(t, byEmail.IsAdmin)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "john@x.com", byID.Email)

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.Create(ctx, &model.User{Name: "Dup", Email: "john@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestPostRepository_ListOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewPostRepository(db)
	author := testutil.CreateUser(t, db, "secret123")

	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	p1 := testutil.CreatePost(t, db, author.ID, t1)
	p2 := testutil.CreatePost(t, db, author.ID, t1.Add(time.Minute))
	p3 := testutil.CreatePost(t, db, author.ID, t1.Add(2*time.Minute))

	posts, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)

	assert.Equal(t, []uint{p3.ID, p2.ID, p1.ID}, []uint{posts[0].ID, posts[1].ID, posts[2].ID})
	for _, p := range posts {
		assert.Equal(t, author.ID, p.Author.ID)
		assert.Equal(t, author.Email, p.Author.Email)
	}
}

func TestPostRepository_CreateFindUpdate(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewPostRepository(db)
	author := testutil.CreateUser(t, db, "secret123")

	post := &model.Post{MediaType: model.MediaTypeVideo, MediaURL: "http://x/1.mp4", AuthorID: author.ID}
	require.NoError(t, repo.Create(ctx, post))
	require.NotZero(t, post.ID)

	found, err := repo.FindWithRelations(ctx, post.ID)
	require.NoError(t, err)
	assert.Nil(t, found.Caption)
	assert.Equal(t, author.Name, found.Author.Name)
	assert.Empty(t, found.Likes)

	caption := "goal!"
	require.NoError(t, repo.UpdateCaption(ctx, post.ID, &caption))
	found, err = repo.FindByID(ctx, post.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Caption)
	assert.Equal(t, "goal!", *found.Caption)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPostRepository_DeleteWithLikes(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	posts := repository.NewPostRepository(db)
	likes := repository.NewLikeRepository(db)

	author := testutil.CreateUser(t, db, "secret123")
	fan := testutil.CreateUser(t, db, "secret123")
	doomed := testutil.CreatePost(t, db, author.ID, time.Now())
	kept := testutil.CreatePost(t, db, author.ID, time.Now())

	require.NoError(t, likes.Create(ctx, &model.Like{UserID: fan.ID, PostID: doomed.ID}))
	require.NoError(t, likes.Create(ctx, &model.Like{UserID: author.ID, PostID: doomed.ID}))
	require.NoError(t, likes.Create(ctx, &model.Like{UserID: fan.ID, PostID: kept.ID}))

	require.NoError(t, posts.DeleteWithLikes(ctx, doomed.ID))

	_, err := posts.FindByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := likes.CountByPost(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = likes.CountByPost(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, posts.DeleteWithLikes(ctx, doomed.ID), gorm.ErrRecordNotFound)
}

func TestLikeRepository(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repository.NewLikeRepository(db)

	author := testutil.CreateUser(t, db, "secret123")
	post := testutil.CreatePost(t, db, author.ID, time.Now())

	exists, err := repo.Exists(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.Create(ctx, &model.Like{UserID: author.ID, PostID: post.ID}))

	exists, err = repo.Exists(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	err = repo.Create(ctx, &model.Like{UserID: author.ID, PostID: post.ID})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey, "a user can like a post only once")

	removed, err := repo.Delete(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	removed, err = repo.Delete(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
