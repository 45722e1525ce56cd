package models

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "Pending"
	ApplicationAccepted ApplicationStatus = "Accepted"
	ApplicationRejected ApplicationStatus = "Rejected"
)

// Application targets either a job post or an internship post, never both.
// Each target column has its own unique index with the applicant.
type Application struct {
	ID               uint              `json:"id" gorm:"primaryKey"`
	UserID           uint              `json:"userId" gorm:"not null;index;uniqueIndex:idx_application_user_job;uniqueIndex:idx_application_user_internship"`
	JobPostID        *uint             `json:"jobPostId,omitempty" gorm:"uniqueIndex:idx_application_user_job"`
	InternshipPostID *uint             `json:"internshipPostId,omitempty" gorm:"uniqueIndex:idx_application_user_internship"`
	AppliedAt        time.Time         `json:"appliedAt" gorm:"not null"`
	CVURL            string            `json:"cvUrl" gorm:"size:255"`
	Status           ApplicationStatus `json:"status" gorm:"size:10;not null;default:Pending"`
}

// PostID returns whichever post the application targets.
func (a *Application) PostID() uint {
	if a.JobPostID != nil {
		return *a.JobPostID
	}
	if a.InternshipPostID != nil {
		return *a.InternshipPostID
	}
	return 0
}

type ApplyRequest struct {
	PostID uint   `json:"postId" validate:"required"`
	CVURL  string `json:"cvUrl" validate:"omitempty,url,max=255"`
}

type UpdateApplicationStatusRequest struct {
	Status ApplicationStatus `json:"status" validate:"required,oneof=Pending Accepted Rejected"`
}

// ApplicationView is an application with its applicant expanded
type ApplicationView struct {
	Application
	Applicant UserCompact `json:"user"`
}
