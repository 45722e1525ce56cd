package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/repositories"
)

// CommentService manages comments and notifies post owners of new ones
type CommentService struct {
	comments     repositories.CommentRepository
	commentLikes repositories.CommentLikeRepository
	posts        repositories.PostRepository
	users        repositories.UserRepository
	notifier     *Notifier
}

func NewCommentService(
	comments repositories.CommentRepository,
	commentLikes repositories.CommentLikeRepository,
	posts repositories.PostRepository,
	users repositories.UserRepository,
	notifier *Notifier,
) *CommentService {
	return &CommentService{
		comments:     comments,
		commentLikes: commentLikes,
		posts:        posts,
		users:        users,
		notifier:     notifier,
	}
}

func (s *CommentService) Create(ctx context.Context, authorID, postID uint, req models.CreateCommentRequest) (*models.CommentView, error) {
	post, err := loadPost(ctx, s.posts, postID)
	if err != nil {
		return nil, err
	}
	author, err := loadActor(ctx, s.users, authorID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: post.ID, UserID: authorID, Content: req.Content}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, apperrors.Internal("failed to create comment", err)
	}

	s.notifier.Notify(ctx, NotificationEvent{
		RecipientID:     post.UserID,
		Actor:           author,
		Kind:            models.NotificationNewComment,
		RelatedEntityID: uintPtr(post.ID),
		Message:         "commented on your post",
		PostType:        postKindPtr(post.Kind),
		Extra:           map[string]interface{}{"commentId": comment.ID},
	})

	return &models.CommentView{Comment: *comment, User: author.ToCompact()}, nil
}

// List returns a post's comments, newest first, with like counts.
func (s *CommentService) List(ctx context.Context, viewerID, postID uint) ([]models.CommentView, error) {
	if _, err := loadPost(ctx, s.posts, postID); err != nil {
		return nil, err
	}
	comments, err := s.comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, apperrors.Internal("failed to list comments", err)
	}

	ids := make([]uint, 0, len(comments))
	userIDs := make([]uint, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
		userIDs = append(userIDs, c.UserID)
	}
	users, err := s.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, apperrors.Internal("failed to load comment authors", err)
	}
	counts, err := s.commentLikes.CountByComments(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to count comment likes", err)
	}
	liked, err := s.commentLikes.LikedByUser(ctx, ids, viewerID)
	if err != nil {
		return nil, apperrors.Internal("failed to read comment likes", err)
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		u := users[c.UserID]
		views = append(views, models.CommentView{
			Comment:              c,
			User:                 u.ToCompact(),
			LikeCount:            counts[c.ID],
			IsLikedByCurrentUser: liked[c.ID],
		})
	}
	return views, nil
}

func (s *CommentService) loadOwned(ctx context.Context, authorID, id uint) (*models.Comment, error) {
	comment, err := s.comments.GetCommentByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("comment not found")
		}
		return nil, apperrors.Internal("failed to load comment", err)
	}
	if comment.UserID != authorID {
		return nil, apperrors.Forbidden("you are not authorized to modify this comment")
	}
	return comment, nil
}

func (s *CommentService) Update(ctx context.Context, authorID, id uint, req models.UpdateCommentRequest) (*models.Comment, error) {
	comment, err := s.loadOwned(ctx, authorID, id)
	if err != nil {
		return nil, err
	}
	comment.Content = req.Content
	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		return nil, apperrors.Internal("failed to update comment", err)
	}
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, authorID, id uint) error {
	comment, err := s.loadOwned(ctx, authorID, id)
	if err != nil {
		return err
	}
	if err := s.comments.DeleteComment(ctx, comment.ID); err != nil {
		return apperrors.Internal("failed to delete comment", err)
	}
	return nil
}
