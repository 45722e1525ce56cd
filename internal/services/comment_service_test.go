package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonto42/career-hub/backend/internal/apperrors"
	"github.com/anonto42/career-hub/backend/internal/models"
)

func TestCommentCreate_NotifiesPostOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, 1, "Sara", "Owner")
	commenter := f.user(t, 2, "Omar", "Commenter")
	post := f.publicPost(t, owner.ID)

	view, err := f.Comments.Create(ctx, commenter.ID, post.ID, models.CreateCommentRequest{Content: "nice"})
	require.NoError(t, err)
	assert.Equal(t, "Omar Commenter", view.User.FullName)

	stored := f.storedNotifications(t, owner.ID)
	require.Len(t, stored, 1)
	assert.Equal(t, models.NotificationNewComment, stored[0].Kind)
	assert.Equal(t, "commented on your post", stored[0].Message)
	require.NotNil(t, stored[0].RelatedEntityID)
	assert.Equal(t, post.ID, *stored[0].RelatedEntityID)
	assert.Equal(t, storedID(view.ID), stored[0].Extra["commentId"])

	_, err = f.Comments.Create(ctx, owner.ID, post.ID, models.CreateCommentRequest{Content: "thanks"})
	require.NoError(t, err)
	assert.Len(t, f.storedNotifications(t, owner.ID), 1, "own comment does not notify")

	_, err = f.Comments.Create(ctx, commenter.ID, 999, models.CreateCommentRequest{Content: "lost"})
	assert.True(t, apperrors.Is(err, apperrors.KindNotFound))
}

func TestCommentList_CountsLikes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, 1, "Sara", "Owner")
	commenter := f.user(t, 2, "Omar", "Commenter")
	post := f.publicPost(t, owner.ID)

	c, err := f.Comments.Create(ctx, commenter.ID, post.ID, models.CreateCommentRequest{Content: "nice"})
	require.NoError(t, err)
	_, err = f.Likes.ToggleCommentLike(ctx, c.ID, owner.ID)
	require.NoError(t, err)

	list, err := f.Comments.List(ctx, owner.ID, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].LikeCount)
	assert.True(t, list[0].IsLikedByCurrentUser)

	list, err = f.Comments.List(ctx, commenter.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, list[0].IsLikedByCurrentUser)
}

func TestCommentUpdateDelete_AuthorOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, 1, "Sara", "Owner")
	commenter := f.user(t, 2, "Omar", "Commenter")
	post := f.publicPost(t, owner.ID)

	c, err := f.Comments.Create(ctx, commenter.ID, post.ID, models.CreateCommentRequest{Content: "nice"})
	require.NoError(t, err)

	_, err = f.Comments.Update(ctx, owner.ID, c.ID, models.UpdateCommentRequest{Content: "hijack"})
	assert.True(t, apperrors.Is(err, apperrors.KindForbidden))

	updated, err := f.Comments.Update(ctx, commenter.ID, c.ID, models.UpdateCommentRequest{Content: "very nice"})
	require.NoError(t, err)
	assert.Equal(t, "very nice", updated.Content)

	assert.True(t, apperrors.Is(f.Comments.Delete(ctx, owner.ID, c.ID), apperrors.KindForbidden))
	require.NoError(t, f.Comments.Delete(ctx, commenter.ID, c.ID))
	assert.True(t, apperrors.Is(f.Comments.Delete(ctx, commenter.ID, c.ID), apperrors.KindNotFound))
}
