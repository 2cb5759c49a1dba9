package service

import (
	"context"

	"talksport/internal/model"
)

// FeedPost is a post decorated for one viewer.
type FeedPost struct {
	model.Post
	LikeCount int  `json:"likeCount"`
	IsLiked   bool `json:"isLiked"`
}

// Feed is the dashboard view of all posts.
type Feed struct {
	Posts []FeedPost `json:"posts"`
	// NotificationCount is the total number of likes across the feed.
	NotificationCount int `json:"notificationCount"`
}

// FeedService composes the dashboard feed from the post listing.
type FeedService interface {
	// Assemble builds the feed for viewerID; zero means anonymous.
	Assemble(ctx context.Context, viewerID uint) (*Feed, error)
}

type feedService struct {
	posts PostService
}

// NewFeedService creates a feed service on top of the post service.
func NewFeedService(posts PostService) FeedService {
	return &feedService{posts: posts}
}

func (s *feedService) Assemble(ctx context.Context, viewerID uint) (*Feed, error) {
	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	feed := &Feed{
		Posts:             make([]FeedPost, 0, len(posts)),
		NotificationCount: NotificationCount(posts),
	}
	for _, p := range posts {
		feed.Posts = append(feed.Posts, FeedPost{
			Post:      p,
			LikeCount: len(p.Likes),
			IsLiked:   viewerID != 0 && p.LikedBy(viewerID),
		})
	}
	return feed, nil
}

// NotificationCount sums the like-set sizes of posts.
func NotificationCount(posts []model.Post) int {
	total := 0
	for _, p := range posts {
		total += len(p.Likes)
	}
	return total
}
