package repositories

import (
	"context"

	"github.com/anonto42/career-hub/backend/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations. Lookups of
// a missing post return gorm.ErrRecordNotFound from every implementation.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	ListPosts(ctx context.Context, kind models.PostKind, skip, limit int) ([]models.Post, error)
	GetPostsByUserID(ctx context.Context, userID uint, skip, limit int) ([]models.Post, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) error
}

// PostgresPostRepository stores the common post row and its variant table
type PostgresPostRepository struct {
	db *gorm.DB
}

func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost inserts the post and its variant payload in one transaction
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *PostgresPostRepository) withVariants(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Job").Preload("Internship")
}

func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.withVariants(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns newest posts first. An empty kind lists every kind.
func (r *PostgresPostRepository) ListPosts(ctx context.Context, kind models.PostKind, skip, limit int) ([]models.Post, error) {
	var posts []models.Post
	q := r.withVariants(ctx).Order("created_at DESC").Offset(skip).Limit(limit)
	if kind != "" {
		q = q.Where("kind = ?", kind)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostgresPostRepository) GetPostsByUserID(ctx context.Context, userID uint, skip, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := r.withVariants(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePost writes the content and the variant row of an existing post
func (r *PostgresPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Post{}).Where("id = ?", post.ID).Update("content", post.Content)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		switch {
		case post.Job != nil:
			post.Job.PostID = post.ID
			return tx.Save(post.Job).Error
		case post.Internship != nil:
			post.Internship.PostID = post.ID
			return tx.Save(post.Internship).Error
		}
		return nil
	})
}

// DeletePost removes the post along with its variant row, likes, comments
// and applications
func (r *PostgresPostRepository) DeletePost(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return deletePostChildren(tx, id)
	})
}

// deletePostChildren also serves the Mongo store, whose posts keep their
// likes and comments in PostgreSQL.
func deletePostChildren(tx *gorm.DB, postID uint) error {
	if err := tx.Where("post_id = ?", postID).Delete(&models.JobDetails{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.InternshipDetails{}).Error; err != nil {
		return err
	}
	if err := tx.Where("job_post_id = ? OR internship_post_id = ?", postID, postID).Delete(&models.Application{}).Error; err != nil {
		return err
	}
	if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
		return err
	}
	commentIDs := tx.Model(&models.Comment{}).Select("id").Where("post_id = ?", postID)
	if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
		return err
	}
	return tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error
}
