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

// ApplicationService handles applications to job and internship posts
type ApplicationService struct {
	applications repositories.ApplicationRepository
	posts        repositories.PostRepository
	users        repositories.UserRepository
	notifier     *Notifier
	now          func() time.Time
}

func NewApplicationService(
	applications repositories.ApplicationRepository,
	posts repositories.PostRepository,
	users repositories.UserRepository,
	notifier *Notifier,
) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		posts:        posts,
		users:        users,
		notifier:     notifier,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Apply records the applicant's application and notifies the post owner.
// A second application to the same post is a Conflict.
func (s *ApplicationService) Apply(ctx context.Context, applicantID uint, req models.ApplyRequest) (*models.ApplicationView, error) {
	post, err := loadPost(ctx, s.posts, req.PostID)
	if err != nil {
		return nil, err
	}
	if !post.Applicable() {
		return nil, apperrors.Invalid("post is neither a job nor an internship")
	}
	applicant, err := loadActor(ctx, s.users, applicantID)
	if err != nil {
		return nil, err
	}

	n, err := s.applications.CountForUserAndPost(ctx, applicantID, post.ID)
	if err != nil {
		return nil, apperrors.Internal("failed to check existing application", err)
	}
	if n > 0 {
		return nil, apperrors.Conflict("you have already applied to this post")
	}

	app := &models.Application{
		UserID:    applicantID,
		AppliedAt: s.now(),
		CVURL:     req.CVURL,
		Status:    models.ApplicationPending,
	}
	message := "applied to your job: " + post.Title()
	if post.Kind == models.PostKindJob {
		app.JobPostID = uintPtr(post.ID)
	} else {
		app.InternshipPostID = uintPtr(post.ID)
		message = "applied to your internship: " + post.Title()
	}

	if err := s.applications.CreateApplication(ctx, app); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("you have already applied to this post")
		}
		return nil, apperrors.Internal("failed to create application", err)
	}

	s.notifier.Notify(ctx, NotificationEvent{
		RecipientID:     post.UserID,
		Actor:           applicant,
		Kind:            models.NotificationNewApplication,
		RelatedEntityID: uintPtr(app.ID),
		Message:         message,
		PostType:        postKindPtr(post.Kind),
		Extra: map[string]interface{}{
			"applicationId": app.ID,
			"postTitle":     post.Title(),
		},
	})

	return &models.ApplicationView{Application: *app, Applicant: applicant.ToCompact()}, nil
}

// ListMine returns the caller's own applications.
func (s *ApplicationService) ListMine(ctx context.Context, userID uint) ([]models.ApplicationView, error) {
	apps, err := s.applications.GetApplicationsByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list applications", err)
	}
	return s.expand(ctx, apps)
}

// ListForPost returns the applications to a post. Only its owner may see them.
func (s *ApplicationService) ListForPost(ctx context.Context, ownerID, postID uint) ([]models.ApplicationView, error) {
	post, err := loadPost(ctx, s.posts, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != ownerID {
		return nil, apperrors.Forbidden("only the post owner can view its applications")
	}
	apps, err := s.applications.GetApplicationsByPostID(ctx, postID)
	if err != nil {
		return nil, apperrors.Internal("failed to list applications", err)
	}
	return s.expand(ctx, apps)
}

// Get returns an application visible to its applicant or the post owner.
func (s *ApplicationService) Get(ctx context.Context, viewerID, id uint) (*models.ApplicationView, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.UserID != viewerID {
		post, err := s.posts.GetPostByID(ctx, app.PostID())
		if err != nil || post.UserID != viewerID {
			return nil, apperrors.NotFound("application not found")
		}
	}
	views, err := s.expand(ctx, []models.Application{*app})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Delete withdraws the caller's own application.
func (s *ApplicationService) Delete(ctx context.Context, applicantID, id uint) error {
	app, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if app.UserID != applicantID {
		return apperrors.NotFound("application not found")
	}
	if err := s.applications.DeleteApplication(ctx, app.ID); err != nil {
		return apperrors.Internal("failed to delete application", err)
	}
	return nil
}

// UpdateStatus lets the owner of the target post set the status.
func (s *ApplicationService) UpdateStatus(ctx context.Context, ownerID, id uint, status models.ApplicationStatus) error {
	app, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	post, err := loadPost(ctx, s.posts, app.PostID())
	if err != nil {
		return err
	}
	if post.UserID != ownerID {
		return apperrors.Forbidden("only the post owner can update this application")
	}
	if err := s.applications.UpdateStatus(ctx, app.ID, status); err != nil {
		return apperrors.Internal("failed to update application", err)
	}
	return nil
}

func (s *ApplicationService) load(ctx context.Context, id uint) (*models.Application, error) {
	app, err := s.applications.GetApplicationByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("application not found")
		}
		return nil, apperrors.Internal("failed to load application", err)
	}
	return app, nil
}

func (s *ApplicationService) expand(ctx context.Context, apps []models.Application) ([]models.ApplicationView, error) {
	ids := make([]uint, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.UserID)
	}
	users, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, apperrors.Internal("failed to load applicants", err)
	}
	views := make([]models.ApplicationView, 0, len(apps))
	for _, a := range apps {
		u := users[a.UserID]
		views = append(views, models.ApplicationView{Application: a, Applicant: u.ToCompact()})
	}
	return views, nil
}
