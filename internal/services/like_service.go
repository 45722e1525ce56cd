package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/repositories"
)

// LikeService toggles likes on posts and comments
type LikeService struct {
	posts        repositories.PostRepository
	comments     repositories.CommentRepository
	likes        repositories.LikeRepository
	commentLikes repositories.CommentLikeRepository
	users        repositories.UserRepository
	notifier     *Notifier
}

func NewLikeService(
	posts repositories.PostRepository,
	comments repositories.CommentRepository,
	likes repositories.LikeRepository,
	commentLikes repositories.CommentLikeRepository,
	users repositories.UserRepository,
	notifier *Notifier,
) *LikeService {
	return &LikeService{
		posts:        posts,
		comments:     comments,
		likes:        likes,
		commentLikes: commentLikes,
		users:        users,
		notifier:     notifier,
	}
}

// TogglePostLike flips the actor's like on a post and notifies the owner on
// a fresh like.
func (s *LikeService) TogglePostLike(ctx context.Context, postID, actorID uint) (models.LikeState, error) {
	post, err := loadPost(ctx, s.posts, postID)
	if err != nil {
		return "", err
	}
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return "", err
	}

	liked, err := s.likes.HasUserLikedPost(ctx, postID, actorID)
	if err != nil {
		return "", apperrors.Internal("failed to read like", err)
	}
	if liked {
		// zero rows means a concurrent request already removed it
		if _, err := s.likes.DeleteLike(ctx, postID, actorID); err != nil {
			return "", apperrors.Internal("failed to remove like", err)
		}
		return models.Unliked, nil
	}

	if err := s.likes.CreateLike(ctx, &models.Like{PostID: postID, UserID: actorID}); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return models.Liked, nil
		}
		return "", apperrors.Internal("failed to add like", err)
	}

	s.notifier.Notify(ctx, NotificationEvent{
		RecipientID:     post.UserID,
		Actor:           actor,
		Kind:            models.NotificationNewLike,
		RelatedEntityID: uintPtr(post.ID),
		Message:         "liked your post",
		PostType:        postKindPtr(post.Kind),
	})
	return models.Liked, nil
}

// ToggleCommentLike is TogglePostLike for comments. The notification goes
// to the comment author and carries the post id.
func (s *LikeService) ToggleCommentLike(ctx context.Context, commentID, actorID uint) (models.LikeState, error) {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("comment not found")
		}
		return "", apperrors.Internal("failed to load comment", err)
	}
	actor, err := loadActor(ctx, s.users, actorID)
	if err != nil {
		return "", err
	}

	liked, err := s.commentLikes.HasUserLikedComment(ctx, commentID, actorID)
	if err != nil {
		return "", apperrors.Internal("failed to read comment like", err)
	}
	if liked {
		if _, err := s.commentLikes.DeleteCommentLike(ctx, commentID, actorID); err != nil {
			return "", apperrors.Internal("failed to remove comment like", err)
		}
		return models.Unliked, nil
	}

	if err := s.commentLikes.CreateCommentLike(ctx, &models.CommentLike{CommentID: commentID, UserID: actorID}); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return models.Liked, nil
		}
		return "", apperrors.Internal("failed to add comment like", err)
	}

	var postType *models.PostKind
	if post, err := s.posts.GetPostByID(ctx, comment.PostID); err == nil {
		postType = postKindPtr(post.Kind)
	}
	s.notifier.Notify(ctx, NotificationEvent{
		RecipientID:     comment.UserID,
		Actor:           actor,
		Kind:            models.NotificationNewCommentLike,
		RelatedEntityID: uintPtr(comment.ID),
		Message:         "liked your comment",
		PostType:        postType,
		Extra:           map[string]interface{}{"postId": comment.PostID},
	})
	return models.Liked, nil
}

// loadPost maps a missing post to NotFound
func loadPost(ctx context.Context, posts repositories.PostRepository, id uint) (*models.Post, error) {
	post, err := posts.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Internal("failed to load post", err)
	}
	return post, nil
}

// loadActor resolves the acting user. A token for a deleted user is
// treated as unauthenticated.
func loadActor(ctx context.Context, users repositories.UserRepository, id uint) (*models.User, error) {
	user, err := users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthenticated("user not found")
		}
		return nil, apperrors.Internal("failed to load user", err)
	}
	return user, nil
}
