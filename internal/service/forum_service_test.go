package service

import (
	"context"
	"testing"

	"lms_backend/internal/repository"
	"lms_backend/internal/testutil"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForumThreadsAndReplies(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	forum := NewForumService(repository.NewForumRepository(h.db), h.enrollments)

	instructor, course, _ := testutil.CourseWithContents(t, h.db, 0)
	student := testutil.SeedUser(t, h.db, "forum_student", false)
	outsider := testutil.SeedUser(t, h.db, "forum_outsider", false)
	testutil.SeedEnrollment(t, h.db, student.ID, course.ID)

	_, err := forum.CreateThread(ctx, outsider.ID, course.ID, "Hi", "anyone?")
	assert.ErrorIs(t, err, ErrNotEnrolled)
	_, err = forum.CreateThread(ctx, student.ID, course.ID, "", "no title")
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	thread, err := forum.CreateThread(ctx, student.ID, course.ID, "Week 1", "Where are the slides?")
	require.NoError(t, err)

	_, err = forum.Reply(ctx, instructor.ID, thread.ID, "Under module 1.")
	require.NoError(t, err)
	_, err = forum.Reply(ctx, student.ID, thread.ID, "Thanks!")
	require.NoError(t, err)
	_, err = forum.Reply(ctx, outsider.ID, thread.ID, "me too")
	assert.ErrorIs(t, err, ErrNotEnrolled)

	got, err := forum.GetThread(ctx, student.ID, thread.ID)
	require.NoError(t, err)
	require.Len(t, got.Posts, 2)
	assert.Equal(t, "Under module 1.", got.Posts[0].Content)
	assert.Equal(t, instructor.ID, got.Posts[0].UserID)

	_, err = forum.GetThread(ctx, outsider.ID, thread.ID)
	assert.ErrorIs(t, err, util.ErrForbidden)
	_, err = forum.GetThread(ctx, student.ID, 9999)
	assert.ErrorIs(t, err, ErrThreadNotFound)

	threads, err := forum.ListThreads(ctx, instructor.ID, course.ID)
	require.NoError(t, err)
	assert.Len(t, threads, 1)
}
