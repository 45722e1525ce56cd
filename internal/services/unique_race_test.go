package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
	"github.com/anonto42/career-hub/backend/internal/models"
	"github.com/anonto42/career-hub/backend/internal/repositories"
	"github.com/anonto42/career-hub/backend/internal/services"
)

// The doubles below behave as if a concurrent request inserted the same
// row between the existence check and the insert.

type lostLikeRace struct{ repositories.LikeRepository }

func (lostLikeRace) CreateLike(context.Context, *models.Like) error { return gorm.ErrDuplicatedKey }

type lostCommentLikeRace struct{ repositories.CommentLikeRepository }

func (lostCommentLikeRace) CreateCommentLike(context.Context, *models.CommentLike) error {
	return gorm.ErrDuplicatedKey
}

type lostConnectionRace struct{ repositories.ConnectionRepository }

func (lostConnectionRace) CreateConnection(context.Context, *models.Connection) error {
	return gorm.ErrDuplicatedKey
}

type lostApplicationRace struct{ repositories.ApplicationRepository }

func (lostApplicationRace) CreateApplication(context.Context, *models.Application) error {
	return gorm.ErrDuplicatedKey
}

func (f *fixture) assertNothingSentTo(t *testing.T, userID uint) {
	t.Helper()
	assert.Empty(t, f.storedNotifications(t, userID))
	assert.Empty(t, f.notifications.For(userID))
}

func TestTogglePostLike_DuplicateInsertCountsAsLiked(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, 1, "Sara", "Owner")
	liker := f.user(t, 2, "Omar", "Liker")
	post := f.publicPost(t, owner.ID)

	likes := services.NewLikeService(
		f.posts,
		repositories.NewPostgresCommentRepository(f.db),
		lostLikeRace{repositories.NewPostgresLikeRepository(f.db)},
		repositories.NewPostgresCommentLikeRepository(f.db),
		f.users,
		f.notifier,
	)

	state, err := likes.TogglePostLike(context.Background(), post.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Liked, state)
	f.assertNothingSentTo(t, owner.ID)
}

func TestToggleCommentLike_DuplicateInsertCountsAsLiked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, 1, "Sara", "Owner")
	commenter := f.user(t, 2, "Omar", "Commenter")
	liker := f.user(t, 3, "Lina", "Liker")
	post := f.publicPost(t, owner.ID)
	comment, err := f.Comments.Create(ctx, commenter.ID, post.ID, models.CreateCommentRequest{Content: "nice"})
	require.NoError(t, err)

	likes := services.NewLikeService(
		f.posts,
		repositories.NewPostgresCommentRepository(f.db),
		repositories.NewPostgresLikeRepository(f.db),
		lostCommentLikeRace{repositories.NewPostgresCommentLikeRepository(f.db)},
		f.users,
		f.notifier,
	)

	state, err := likes.ToggleCommentLike(ctx, comment.ID, liker.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Liked, state)
	f.assertNothingSentTo(t, commenter.ID)
}

func TestConnectionCreate_DuplicateInsertIsConflict(t *testing.T) {
	f := newFixture(t)
	requester := f.user(t, 1, "Sara", "Requester")
	receiver := f.user(t, 2, "Omar", "Receiver")

	connections := services.NewConnectionService(
		lostConnectionRace{repositories.NewPostgresConnectionRepository(f.db)},
		f.users,
		f.notifier,
	)

	_, err := connections.Create(context.Background(), requester.ID, receiver.ID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	f.assertNothingSentTo(t, receiver.ID)
}

func TestApply_DuplicateInsertIsConflict(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, 3, "Hind", "Recruiter")
	applicant := f.user(t, 10, "Karim", "Bennani")
	post := f.internshipPost(t, owner.ID, "Data Intern")

	applications := services.NewApplicationService(
		lostApplicationRace{repositories.NewPostgresApplicationRepository(f.db)},
		f.posts,
		f.users,
		f.notifier,
	)

	_, err := applications.Apply(context.Background(), applicant.ID, models.ApplyRequest{PostID: post.ID})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.KindConflict))
	f.assertNothingSentTo(t, owner.ID)
}
