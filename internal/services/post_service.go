package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/repositories"
)

const (
	defaultPostLimit = 10
	maxPostLimit     = 50
)

// PostService manages posts of every kind
type PostService struct {
	posts repositories.PostRepository
	likes repositories.LikeRepository
	users repositories.UserRepository
	now   func() time.Time
}

func NewPostService(posts repositories.PostRepository, likes repositories.LikeRepository, users repositories.UserRepository) *PostService {
	return &PostService{
		posts: posts,
		likes: likes,
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a post after checking its variant payload against its kind.
func (s *PostService) Create(ctx context.Context, authorID uint, req models.CreatePostRequest) (*models.PostView, error) {
	author, err := loadActor(ctx, s.users, authorID)
	if err != nil {
		return nil, err
	}
	post := req.ToPost(authorID)
	if err := post.Validate(); err != nil {
		return nil, apperrors.Invalid(err.Error())
	}
	post.CreatedAt = s.now()

	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, apperrors.Internal("failed to create post", err)
	}
	return &models.PostView{Post: *post, Author: author.ToCompact()}, nil
}

func (s *PostService) Get(ctx context.Context, viewerID, id uint) (*models.PostView, error) {
	post, err := loadPost(ctx, s.posts, id)
	if err != nil {
		return nil, err
	}
	views, err := s.expand(ctx, viewerID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// PostQuery filters a post listing. Zero values mean no filter.
type PostQuery struct {
	Kind   models.PostKind
	UserID uint
	Skip   int
	Limit  int
}

func (s *PostService) List(ctx context.Context, viewerID uint, q PostQuery) ([]models.PostView, error) {
	if q.Limit < 1 || q.Limit > maxPostLimit {
		q.Limit = defaultPostLimit
	}
	if q.Skip < 0 {
		q.Skip = 0
	}

	var (
		posts []models.Post
		err   error
	)
	if q.UserID != 0 {
		posts, err = s.posts.GetPostsByUserID(ctx, q.UserID, q.Skip, q.Limit)
	} else {
		posts, err = s.posts.ListPosts(ctx, q.Kind, q.Skip, q.Limit)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to list posts", err)
	}
	return s.expand(ctx, viewerID, posts)
}

// Update edits a post owned by authorID. The edited post must still pass
// variant validation.
func (s *PostService) Update(ctx context.Context, authorID, id uint, req models.UpdatePostRequest) (*models.PostView, error) {
	post, err := loadPost(ctx, s.posts, id)
	if err != nil {
		return nil, err
	}
	if post.UserID != authorID {
		return nil, apperrors.Forbidden("you are not authorized to edit this post")
	}
	req.ApplyTo(post)
	if err := post.Validate(); err != nil {
		return nil, apperrors.Invalid(err.Error())
	}
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, apperrors.Internal("failed to update post", err)
	}
	views, err := s.expand(ctx, authorID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete removes a post owned by authorID together with everything
// attached to it.
func (s *PostService) Delete(ctx context.Context, authorID, id uint) error {
	post, err := loadPost(ctx, s.posts, id)
	if err != nil {
		return err
	}
	if post.UserID != authorID {
		return apperrors.Forbidden("you are not authorized to delete this post")
	}
	if err := s.posts.DeletePost(ctx, id); err != nil {
		if apperrors.Is(err, apperrors.KindNotFound) {
			return apperrors.NotFound("post not found")
		}
		return apperrors.Internal("failed to delete post", err)
	}
	return nil
}

func (s *PostService) expand(ctx context.Context, viewerID uint, posts []models.Post) ([]models.PostView, error) {
	ids := make([]uint, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.UserID)
	}
	authors, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to load authors", err)
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		count, err := s.likes.GetLikesCountByPostID(ctx, p.ID)
		if err != nil {
			return nil, apperrors.Internal("failed to count likes", err)
		}
		liked := false
		if viewerID != 0 {
			if liked, err = s.likes.HasUserLikedPost(ctx, p.ID, viewerID); err != nil {
				return nil, apperrors.Internal("failed to read like", err)
			}
		}
		author := authors[p.UserID]
		views = append(views, models.PostView{
			Post:                 p,
			Author:               author.ToCompact(),
			LikeCount:            count,
			IsLikedByCurrentUser: liked,
		})
	}
	return views, nil
}
