package model

import "time"

// Like marks a user's like on a post. The (UserID, PostID) pair is the primary key,
// so a user can like a given post at most once.
type Like struct {
	UserID    uint      `json:"userId" gorm:"primaryKey;autoIncrement:false"`
	PostID    uint      `json:"postId" gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `json:"createdAt"`
}
