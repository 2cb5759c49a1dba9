package model

import (
	"strings"
	"time"
)

// MediaType is the kind of media a post carries.
type MediaType string

const (
	MediaTypePicture MediaType = "PICTURE"
	MediaTypeVideo   MediaType = "VIDEO"
)

// ParseMediaType normalizes client input into a MediaType.
// IMAGE is accepted as an alias of PICTURE.
func ParseMediaType(s string) (MediaType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(MediaTypePicture), "IMAGE":
		return MediaTypePicture, true
	case string(MediaTypeVideo):
		return MediaTypeVideo, true
	}
	return "", false
}

// Post is a single media item in the feed.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	MediaType MediaType `json:"mediaType" gorm:"type:varchar(16);not null"`
	MediaURL  string    `json:"mediaUrl" gorm:"size:2048;not null"`
	Caption   *string   `json:"caption"`
	AuthorID  uint      `json:"authorId" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Author User   `json:"author" gorm:"foreignKey:AuthorID"`
	Likes  []Like `json:"likes" gorm:"foreignKey:PostID"`
}

// LikedBy reports whether userID is in the post's like-set.
func (p *Post) LikedBy(userID uint) bool {
	for _, l := range p.Likes {
		if l.UserID == userID {
			return true
		}
	}
	return false
}
