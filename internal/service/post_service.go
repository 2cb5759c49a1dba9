package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/gorm"

	"talksport/internal/cache"
	apperrors "talksport/internal/errors"
	"talksport/internal/model"
	"talksport/internal/repository"
	"talksport/internal/util"
)

const (
	// Cached listings are keyed by the current feed generation. Mutations bump
	// the generation, so a listing loaded before a write can only be stored
	// under a generation nobody reads any more.
	feedGenerationKey  = "feed:generation"
	feedCacheKeyPrefix = "feed:posts:"
	feedCacheTTL       = 30 * time.Second
)

// LikeAction tells which way a toggle went.
type LikeAction string

const (
	LikeCreated LikeAction = "created"
	LikeRemoved LikeAction = "removed"
)

// LikeResult describes the state after a toggle.
type LikeResult struct {
	PostID    uint       `json:"postId"`
	UserID    uint       `json:"userId"`
	Action    LikeAction `json:"action"`
	Liked     bool       `json:"liked"`
	LikeCount int64      `json:"likeCount"`
}

// PostDeleted is the payload of a post_deleted event.
type PostDeleted struct {
	PostID uint `json:"postId"`
}

// PostService handles posts and likes. Mutations are allowed only for the post's author.
type PostService interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	GetPost(ctx context.Context, id uint) (*model.Post, error)
	CreatePost(ctx context.Context, authorID uint, mediaType, mediaURL string, caption *string) (*model.Post, error)
	UpdatePost(ctx context.Context, postID, requesterID uint, caption *string) (*model.Post, error)
	DeletePost(ctx context.Context, postID, requesterID uint) error
	ToggleLike(ctx context.Context, postID, userID uint) (*LikeResult, error)
}

type postService struct {
	postRepo  repository.PostRepository
	likeRepo  repository.LikeRepository
	cache     *cache.Client
	publisher EventPublisher
	clock     util.Clock
}

// NewPostService creates a new post service. A nil publisher disables live events.
func NewPostService(
	postRepo repository.PostRepository,
	likeRepo repository.LikeRepository,
	cache *cache.Client,
	publisher EventPublisher,
	clock util.Clock,
) PostService {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if clock == nil {
		clock = util.NewRealClock()
	}
	return &postService{
		postRepo:  postRepo,
		likeRepo:  likeRepo,
		cache:     cache,
		publisher: publisher,
		clock:     clock,
	}
}

// ListPosts returns all posts newest first with author and likes attached.
func (s *postService) ListPosts(ctx context.Context) ([]model.Post, error) {
	key := s.feedCacheKey(ctx)

	var cached []model.Post
	if s.cache.GetJSON(ctx, key, &cached) {
		return normalizeLikes(cached), nil
	}

	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	posts = normalizeLikes(posts)

	s.cache.SetJSON(ctx, key, posts, feedCacheTTL)
	return posts, nil
}

// GetPost returns one post with author and likes attached.
func (s *postService) GetPost(ctx context.Context, id uint) (*model.Post, error) {
	post, err := s.postRepo.FindWithRelations(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, id)
	}
	normalizePost(post)
	return post, nil
}

// CreatePost validates and stores a new post for authorID.
func (s *postService) CreatePost(ctx context.Context, authorID uint, mediaType, mediaURL string, caption *string) (*model.Post, error) {
	kind, ok := model.ParseMediaType(mediaType)
	if !ok {
		return nil, fmt.Errorf("%w: mediaType must be PICTURE or VIDEO", apperrors.ErrValidation)
	}
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL == "" {
		return nil, fmt.Errorf("%w: mediaUrl is required", apperrors.ErrValidation)
	}
	if u, err := url.Parse(mediaURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: mediaUrl must be an absolute URL", apperrors.ErrValidation)
	}

	post := &model.Post{
		MediaType: kind,
		MediaURL:  mediaURL,
		Caption:   cleanCaption(caption),
		AuthorID:  authorID,
		CreatedAt: s.clock.NowUtc(),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	created, err := s.postRepo.FindWithRelations(ctx, post.ID)
	if err != nil {
		return nil, fmt.Errorf("reload post: %w", err)
	}
	normalizePost(created)

	s.invalidateFeed(ctx)
	s.publisher.Publish(EventPostCreated, created)
	return created, nil
}

// UpdatePost replaces the caption of a post owned by requesterID.
func (s *postService) UpdatePost(ctx context.Context, postID, requesterID uint, caption *string) (*model.Post, error) {
	if _, err := s.ownedPost(ctx, postID, requesterID); err != nil {
		return nil, err
	}

	if err := s.postRepo.UpdateCaption(ctx, postID, cleanCaption(caption)); err != nil {
		return nil, fmt.Errorf("update caption: %w", err)
	}

	updated, err := s.postRepo.FindWithRelations(ctx, postID)
	if err != nil {
		return nil, notFoundOr(err, postID)
	}
	normalizePost(updated)

	s.invalidateFeed(ctx)
	s.publisher.Publish(EventPostUpdated, updated)
	return updated, nil
}

// DeletePost removes a post owned by requesterID together with its likes.
func (s *postService) DeletePost(ctx context.Context, postID, requesterID uint) error {
	if _, err := s.ownedPost(ctx, postID, requesterID); err != nil {
		return err
	}

	if err := s.postRepo.DeleteWithLikes(ctx, postID); err != nil {
		return notFoundOr(err, postID)
	}

	s.invalidateFeed(ctx)
	s.publisher.Publish(EventPostDeleted, PostDeleted{PostID: postID})
	return nil
}

// ToggleLike removes the user's like if present, otherwise creates it.
// Two concurrent toggles for the same pair may both observe the same state.
func (s *postService) ToggleLike(ctx context.Context, postID, userID uint) (*LikeResult, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return nil, notFoundOr(err, postID)
	}

	exists, err := s.likeRepo.Exists(ctx, userID, postID)
	if err != nil {
		return nil, fmt.Errorf("check like: %w", err)
	}

	result := &LikeResult{PostID: postID, UserID: userID}
	if exists {
		if _, err := s.likeRepo.Delete(ctx, userID, postID); err != nil {
			return nil, fmt.Errorf("remove like: %w", err)
		}
		result.Action = LikeRemoved
	} else {
		err := s.likeRepo.Create(ctx, &model.Like{UserID: userID, PostID: postID, CreatedAt: s.clock.NowUtc()})
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create like: %w", err)
		}
		result.Action = LikeCreated
		result.Liked = true
	}

	count, err := s.likeRepo.CountByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	result.LikeCount = count

	s.invalidateFeed(ctx)
	s.publisher.Publish(EventLikeToggled, result)
	return result, nil
}

// ownedPost loads the post and checks that requesterID is its author.
func (s *postService) ownedPost(ctx context.Context, postID, requesterID uint) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, notFoundOr(err, postID)
	}
	if post.AuthorID != requesterID {
		return nil, apperrors.ErrForbidden
	}
	return post, nil
}

func (s *postService) feedCacheKey(ctx context.Context) string {
	generation, _ := s.cache.Get(ctx, feedGenerationKey)
	if len(generation) == 0 {
		return feedCacheKeyPrefix + "0"
	}
	return feedCacheKeyPrefix + string(generation)
}

func (s *postService) invalidateFeed(ctx context.Context) {
	_ = s.cache.Incr(ctx, feedGenerationKey)
}

func notFoundOr(err error, postID uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: post %d", apperrors.ErrNotFound, postID)
	}
	return fmt.Errorf("load post %d: %w", postID, err)
}

// cleanCaption stores blank captions as NULL.
func cleanCaption(caption *string) *string {
	if caption == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*caption)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizePost(post *model.Post) {
	if post.Likes == nil {
		post.Likes = []model.Like{}
	}
}

func normalizeLikes(posts []model.Post) []model.Post {
	if posts == nil {
		return []model.Post{}
	}
	for i := range posts {
		normalizePost(&posts[i])
	}
	return posts
}
