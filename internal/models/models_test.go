package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anonto42/career-hub/backend/internal/models"
)

func TestConnectionStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to models.ConnectionStatus
		allowed  bool
	}{
		{models.ConnectionPending, models.ConnectionAccepted, true},
		{models.ConnectionPending, models.ConnectionDeclined, true},
		{models.ConnectionPending, models.ConnectionBlocked, true},
		{models.ConnectionAccepted, models.ConnectionBlocked, true},
		{models.ConnectionDeclined, models.ConnectionBlocked, true},
		{models.ConnectionAccepted, models.ConnectionDeclined, false},
		{models.ConnectionAccepted, models.ConnectionPending, false},
		{models.ConnectionDeclined, models.ConnectionAccepted, false},
		{models.ConnectionBlocked, models.ConnectionAccepted, false},
		{models.ConnectionBlocked, models.ConnectionPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
	assert.True(t, models.ConnectionBlocked.Terminal())
	assert.False(t, models.ConnectionPending.Terminal())
}

func TestPairKeyIgnoresDirection(t *testing.T) {
	assert.Equal(t, models.PairKeyFor(3, 10), models.PairKeyFor(10, 3))
	assert.NotEqual(t, models.PairKeyFor(1, 23), models.PairKeyFor(12, 3))

	c := &models.Connection{RequesterID: 10, ReceiverID: 3}
	assert.True(t, c.Involves(3))
	assert.False(t, c.Involves(4))
	assert.Equal(t, uint(10), c.Counterpart(3))
}

func TestPostValidate(t *testing.T) {
	job := &models.JobDetails{Title: "Go Developer", Location: "Rabat"}
	internship := &models.InternshipDetails{Title: "PFE", Location: "Rabat", InternshipType: models.InternshipPFA}

	tests := []struct {
		name string
		post models.Post
		err  error
	}{
		{"public", models.Post{Kind: models.PostKindPublic}, nil},
		{"public with payload", models.Post{Kind: models.PostKindPublic, Job: job}, models.ErrPostVariantMismatch},
		{"job", models.Post{Kind: models.PostKindJob, Job: job}, nil},
		{"job without payload", models.Post{Kind: models.PostKindJob}, models.ErrPostVariantMismatch},
		{"job with both", models.Post{Kind: models.PostKindJob, Job: job, Internship: internship}, models.ErrPostVariantMismatch},
		{"job without title", models.Post{Kind: models.PostKindJob, Job: &models.JobDetails{Location: "Rabat"}}, models.ErrPostVariantIncomplete},
		{"internship", models.Post{Kind: models.PostKindInternship, Internship: internship}, nil},
		{"internship bad type", models.Post{Kind: models.PostKindInternship, Internship: &models.InternshipDetails{Title: "PFE", Location: "Rabat", InternshipType: "XYZ"}}, models.ErrPostVariantIncomplete},
		{"unknown kind", models.Post{Kind: "Event"}, models.ErrUnknownPostKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.err, tt.post.Validate())
		})
	}
}

func TestCreatePostRequestToPost(t *testing.T) {
	req := models.CreatePostRequest{Content: "hiring", Kind: models.PostKindInternship, Title: "PFE", Location: "Fes", InternshipType: models.InternshipPFE}
	p := req.ToPost(4)
	assert.Equal(t, uint(4), p.UserID)
	assert.Nil(t, p.Job)
	if assert.NotNil(t, p.Internship) {
		assert.Equal(t, "PFE", p.Title())
	}
	assert.True(t, p.Applicable())

	public := (&models.CreatePostRequest{Content: "hello"}).ToPost(4)
	assert.Equal(t, models.PostKindPublic, public.Kind)
	assert.False(t, public.Applicable())
	assert.Empty(t, public.Title())
}

func TestNotificationEventPayloadMergesExtra(t *testing.T) {
	related := uint(9)
	kind := models.PostKindJob
	n := &models.Notification{
		ID:              1,
		Message:         "applied to your job: Go Developer",
		Kind:            models.NotificationNewApplication,
		RelatedEntityID: &related,
		SenderName:      "Karim Bennani",
		PostType:        &kind,
		Extra:           map[string]interface{}{"applicationId": uint(9), "postTitle": "Go Developer"},
	}
	payload := n.EventPayload()
	assert.Equal(t, "NewApplication", payload["type"])
	assert.Equal(t, "Job", payload["postType"])
	assert.Equal(t, "Go Developer", payload["postTitle"])
	assert.Equal(t, uint(9), payload["applicationId"])
	assert.Equal(t, false, payload["isRead"])

	n.PostType = nil
	assert.Nil(t, n.EventPayload()["postType"])
}

func TestNotificationKindValid(t *testing.T) {
	assert.True(t, models.NotificationNewCommentLike.Valid())
	assert.False(t, models.NotificationKind("Poke").Valid())
}

func TestApplicationPostID(t *testing.T) {
	id := uint(5)
	assert.Equal(t, uint(5), (&models.Application{JobPostID: &id}).PostID())
	assert.Equal(t, uint(5), (&models.Application{InternshipPostID: &id}).PostID())
	assert.Zero(t, (&models.Application{}).PostID())
}

func TestUserFullName(t *testing.T) {
	u := &models.User{FirstName: "Salma", LastName: ""}
	assert.Equal(t, "Salma", u.FullName())
	assert.Equal(t, "Salma", u.ToCompact().FullName)
}
