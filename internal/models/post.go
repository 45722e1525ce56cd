package models

import (
	"errors"
	"time"
)

// PostKind selects which variant payload a Post carries
type PostKind string

const (
	PostKindPublic     PostKind = "Public"
	PostKindJob        PostKind = "Job"
	PostKindInternship PostKind = "Internship"
)

type InternshipType string

const (
	InternshipPFA InternshipType = "PFA"
	InternshipPFE InternshipType = "PFE"
)

// Post is the common record of every post. Job and Internship hold the
// variant payload; at most one of them is set and it must match Kind.
type Post struct {
	ID         uint               `json:"id" gorm:"primaryKey" bson:"_id"`
	UserID     uint               `json:"userId" gorm:"not null;index" bson:"user_id"`
	Content    string             `json:"content" gorm:"type:text;not null" bson:"content"`
	Kind       PostKind           `json:"postType" gorm:"size:20;not null;index;default:Public" bson:"kind"`
	Job        *JobDetails        `json:"job,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" bson:"job,omitempty"`
	Internship *InternshipDetails `json:"internship,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" bson:"internship,omitempty"`
	CreatedAt  time.Time          `json:"createdAt" bson:"created_at"`
}

// JobDetails is the Job variant of a Post, keyed by the post id.
type JobDetails struct {
	PostID     uint      `json:"-" gorm:"primaryKey;autoIncrement:false" bson:"-"`
	Title      string    `json:"title" gorm:"size:100;not null" bson:"title"`
	Location   string    `json:"location" gorm:"size:100;not null" bson:"location"`
	ExpiryDate time.Time `json:"expiryDate" bson:"expiry_date"`
	ImageURL   string    `json:"imageUrl,omitempty" gorm:"size:255" bson:"image_url,omitempty"`
}

func (JobDetails) TableName() string { return "job_posts" }

// InternshipDetails is the Internship variant of a Post.
type InternshipDetails struct {
	PostID         uint           `json:"-" gorm:"primaryKey;autoIncrement:false" bson:"-"`
	Title          string         `json:"title" gorm:"size:100;not null" bson:"title"`
	Location       string         `json:"location" gorm:"size:100;not null" bson:"location"`
	ExpiryDate     time.Time      `json:"expiryDate" bson:"expiry_date"`
	InternshipType InternshipType `json:"internshipType" gorm:"size:3;not null" bson:"internship_type"`
	ImageURL       string         `json:"imageUrl,omitempty" gorm:"size:255" bson:"image_url,omitempty"`
}

func (InternshipDetails) TableName() string { return "internship_posts" }

var (
	ErrPostVariantMismatch   = errors.New("post payload does not match its kind")
	ErrPostVariantIncomplete = errors.New("post is missing title, location or internship type")
	ErrUnknownPostKind       = errors.New("unknown post kind")
)

// Validate checks that the variant payload agrees with Kind.
func (p *Post) Validate() error {
	switch p.Kind {
	case PostKindPublic:
		if p.Job != nil || p.Internship != nil {
			return ErrPostVariantMismatch
		}
	case PostKindJob:
		if p.Job == nil || p.Internship != nil {
			return ErrPostVariantMismatch
		}
		if p.Job.Title == "" || p.Job.Location == "" {
			return ErrPostVariantIncomplete
		}
	case PostKindInternship:
		if p.Internship == nil || p.Job != nil {
			return ErrPostVariantMismatch
		}
		if p.Internship.Title == "" || p.Internship.Location == "" {
			return ErrPostVariantIncomplete
		}
		if p.Internship.InternshipType != InternshipPFA && p.Internship.InternshipType != InternshipPFE {
			return ErrPostVariantIncomplete
		}
	default:
		return ErrUnknownPostKind
	}
	return nil
}

// Title returns the job or internship title, or "" for public posts.
func (p *Post) Title() string {
	switch {
	case p.Job != nil:
		return p.Job.Title
	case p.Internship != nil:
		return p.Internship.Title
	}
	return ""
}

// Applicable reports whether users can apply to the post.
func (p *Post) Applicable() bool {
	return p.Kind == PostKindJob || p.Kind == PostKindInternship
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content        string         `json:"content" validate:"required,min=1"`
	Kind           PostKind       `json:"postType" validate:"omitempty,oneof=Public Job Internship"`
	Title          string         `json:"title" validate:"max=100"`
	Location       string         `json:"location" validate:"max=100"`
	ExpiryDate     time.Time      `json:"expiryDate"`
	InternshipType InternshipType `json:"internshipType" validate:"omitempty,oneof=PFA PFE"`
	ImageURL       string         `json:"imageUrl,omitempty" validate:"omitempty,max=255"`
}

// ToPost builds the tagged variant described by the request.
func (r *CreatePostRequest) ToPost(userID uint) *Post {
	kind := r.Kind
	if kind == "" {
		kind = PostKindPublic
	}
	post := &Post{UserID: userID, Content: r.Content, Kind: kind}
	switch kind {
	case PostKindJob:
		post.Job = &JobDetails{Title: r.Title, Location: r.Location, ExpiryDate: r.ExpiryDate, ImageURL: r.ImageURL}
	case PostKindInternship:
		post.Internship = &InternshipDetails{
			Title:          r.Title,
			Location:       r.Location,
			ExpiryDate:     r.ExpiryDate,
			InternshipType: r.InternshipType,
			ImageURL:       r.ImageURL,
		}
	}
	return post
}

// UpdatePostRequest edits a post in place. The kind cannot change; variant
// fields left empty keep their current value.
type UpdatePostRequest struct {
	Content        string         `json:"content" validate:"required,min=1"`
	Title          string         `json:"title" validate:"max=100"`
	Location       string         `json:"location" validate:"max=100"`
	ExpiryDate     time.Time      `json:"expiryDate"`
	InternshipType InternshipType `json:"internshipType" validate:"omitempty,oneof=PFA PFE"`
	ImageURL       string         `json:"imageUrl,omitempty" validate:"omitempty,max=255"`
}

// ApplyTo copies the edited fields onto p.
func (r *UpdatePostRequest) ApplyTo(p *Post) {
	p.Content = r.Content
	switch {
	case p.Job != nil:
		setIfNotEmpty(&p.Job.Title, r.Title)
		setIfNotEmpty(&p.Job.Location, r.Location)
		setIfNotEmpty(&p.Job.ImageURL, r.ImageURL)
		if !r.ExpiryDate.IsZero() {
			p.Job.ExpiryDate = r.ExpiryDate
		}
	case p.Internship != nil:
		setIfNotEmpty(&p.Internship.Title, r.Title)
		setIfNotEmpty(&p.Internship.Location, r.Location)
		setIfNotEmpty(&p.Internship.ImageURL, r.ImageURL)
		if !r.ExpiryDate.IsZero() {
			p.Internship.ExpiryDate = r.ExpiryDate
		}
		if r.InternshipType != "" {
			p.Internship.InternshipType = r.InternshipType
		}
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// PostView is a post as returned to clients
type PostView struct {
	Post
	Author               UserCompact `json:"author"`
	LikeCount            int64       `json:"likeCount"`
	IsLikedByCurrentUser bool        `json:"isLikedByCurrentUser"`
}
