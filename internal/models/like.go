package models

import "time"

// Like represents a like on a post. A row exists only while the post is liked.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    uint      `json:"postId" gorm:"not null;index;uniqueIndex:idx_post_user_like"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"createdAt"`
}

// LikeState is the outcome of a toggle.
type LikeState string

const (
	Liked   LikeState = "Liked"
	Unliked LikeState = "Unliked"
)
