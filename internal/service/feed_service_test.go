package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"talksport/internal/model"
	"talksport/internal/testutil"
)

// MockPostService is a mock implementation of PostService.
type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) ListPosts(ctx context.Context) ([]model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostService) GetPost(ctx context.Context, id uint) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) CreatePost(ctx context.Context, authorID uint, mediaType, mediaURL string, caption *string) (*model.Post, error) {
	args := m.Called(ctx, authorID, mediaType, mediaURL, caption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) UpdatePost(ctx context.Context, postID, requesterID uint, caption *string) (*model.Post, error) {
	args := m.Called(ctx, postID, requesterID, caption)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, postID, requesterID uint) error {
	args := m.Called(ctx, postID, requesterID)
	return args.Error(0)
}

func (m *MockPostService) ToggleLike(ctx context.Context, postID, userID uint) (*LikeResult, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LikeResult), args.Error(1)
}

func TestNotificationCount(t *testing.T) {
	tests := []struct {
		name     string
		posts    []model.Post
		expected int
	}{
		{name: "no posts", posts: nil, expected: 0},
		{name: "posts without likes", posts: []model.Post{{ID: 1}, {ID: 2}}, expected: 0},
		{
			name: "likes across posts",
			posts: []model.Post{
				{ID: 1, Likes: []model.Like{{UserID: 1}, {UserID: 2}}},
				{ID: 2, Likes: []model.Like{{UserID: 1}}},
				{ID: 3},
			},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NotificationCount(tt.posts))
		})
	}
}

func TestFeedService_Assemble(t *testing.T) {
	posts := []model.Post{
		{ID: 2, Likes: []model.Like{{UserID: 7, PostID: 2}, {UserID: 8, PostID: 2}}},
		{ID: 1, Likes: []model.Like{}},
	}

	tests := []struct {
		name          string
		viewerID      uint
		expectedLiked []bool
	}{
		{name: "anonymous viewer", viewerID: 0, expectedLiked: []bool{false, false}},
		{name: "viewer who liked", viewerID: 7, expectedLiked: []bool{true, false}},
		{name: "viewer who did not like", viewerID: 9, expectedLiked: []bool{false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPosts := new(MockPostService)
			mockPosts.On("ListPosts", mock.Anything).Return(posts, nil)

			feed, err := NewFeedService(mockPosts).Assemble(context.Background(), tt.viewerID)
			require.NoError(t, err)

			require.Len(t, feed.Posts, 2)
			assert.Equal(t, 2, feed.NotificationCount)
			assert.Equal(t, uint(2), feed.Posts[0].ID)
			assert.Equal(t, 2, feed.Posts[0].LikeCount)
			assert.Equal(t, 0, feed.Posts[1].LikeCount)
			for i, liked := range tt.expectedLiked {
				assert.Equal(t, liked, feed.Posts[i].IsLiked)
			}
			mockPosts.AssertExpectations(t)
		})
	}
}

func TestFeedService_Assemble_ListFailure(t *testing.T) {
	mockPosts := new(MockPostService)
	mockPosts.On("ListPosts", mock.Anything).Return(nil, errors.New("db down"))

	feed, err := NewFeedService(mockPosts).Assemble(context.Background(), 1)

	assert.Error(t, err)
	assert.Nil(t, feed)
}

func TestFeedService_Assemble_FollowsToggles(t *testing.T) {
	f := newPostFixture(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, f.db, "secret123")
	fan := testutil.CreateUser(t, f.db, "secret123")

	older, err := f.service.CreatePost(ctx, author.ID, "picture", "http://x/1.png", nil)
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	newer, err := f.service.CreatePost(ctx, author.ID, "video", "http://x/2.mp4", nil)
	require.NoError(t, err)

	_, err = f.service.ToggleLike(ctx, older.ID, fan.ID)
	require.NoError(t, err)
	_, err = f.service.ToggleLike(ctx, older.ID, author.ID)
	require.NoError(t, err)

	feeds := NewFeedService(f.service)

	feed, err := feeds.Assemble(ctx, fan.ID)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, newer.ID, feed.Posts[0].ID)
	assert.False(t, feed.Posts[0].IsLiked)
	assert.Equal(t, older.ID, feed.Posts[1].ID)
	assert.True(t, feed.Posts[1].IsLiked)
	assert.Equal(t, 2, feed.Posts[1].LikeCount)
	assert.Equal(t, 2, feed.NotificationCount)

	_, err = f.service.ToggleLike(ctx, older.ID, fan.ID)
	require.NoError(t, err)

	feed, err = feeds.Assemble(ctx, fan.ID)
	require.NoError(t, err)
	assert.False(t, feed.Posts[1].IsLiked)
	assert.Equal(t, 1, feed.NotificationCount)
}
