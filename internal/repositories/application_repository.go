package repositories

import (
	"context"

	"github.com/anonto42/career-hub/backend/internal/models"
	"gorm.io/gorm"
)

// ApplicationRepository defines the interface for job and internship applications
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *models.Application) error
	GetApplicationByID(ctx context.Context, id uint) (*models.Application, error)
	GetApplicationsByUserID(ctx context.Context, userID uint) ([]models.Application, error)
	GetApplicationsByPostID(ctx context.Context, postID uint) ([]models.Application, error)
	CountForUserAndPost(ctx context.Context, userID, postID uint) (int64, error)
	UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus) error
	DeleteApplication(ctx context.Context, id uint) error
}

type postgresApplicationRepository struct {
	db *gorm.DB
}

func NewPostgresApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &postgresApplicationRepository{db: db}
}

// CreateApplication relies on the (user, job) and (user, internship) unique
// indexes to reject a second application to the same post.
func (r *postgresApplicationRepository) CreateApplication(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *postgresApplicationRepository) GetApplicationByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	if err := r.db.WithContext(ctx).First(&app, id).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *postgresApplicationRepository) GetApplicationsByUserID(ctx context.Context, userID uint) ([]models.Application, error) {
	var apps []models.Application
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("applied_at DESC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *postgresApplicationRepository) GetApplicationsByPostID(ctx context.Context, postID uint) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Where("job_post_id = ? OR internship_post_id = ?", postID, postID).
		Order("applied_at DESC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *postgresApplicationRepository) CountForUserAndPost(ctx context.Context, userID, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Where("user_id = ? AND (job_post_id = ? OR internship_post_id = ?)", userID, postID, postID).
		Count(&count).Error
	return count, err
}

func (r *postgresApplicationRepository) UpdateStatus(ctx context.Context, id uint, status models.ApplicationStatus) error {
	res := r.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *postgresApplicationRepository) DeleteApplication(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Application{}, id).Error
}
