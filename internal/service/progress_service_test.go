package service

import (
	"context"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/testutil"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	cases := []struct {
		completed, total int
		want             float64
	}{
		{0, 0, 0},
		{0, 5, 0},
		{3, 5, 60},
		{5, 5, 100},
		{1, 3, 100.0 / 3},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, Percentage(c.completed, c.total), 1e-9, "%d/%d", c.completed, c.total)
	}
}

func TestCourseProgressCountsOnlyThisCourse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, course, contents := testutil.CourseWithContents(t, h.db, 5)
	_, other, otherContents := testutil.CourseWithContents(t, h.db, 2)
	student := testutil.SeedUser(t, h.db, "alice", false)
	testutil.SeedEnrollment(t, h.db, student.ID, course.ID)
	testutil.SeedEnrollment(t, h.db, student.ID, other.ID)

	for _, c := range contents[:3] {
		_, err := h.completions.RecordCompletion(ctx, student.ID, c.ID)
		require.NoError(t, err)
	}
	for _, c := range otherContents {
		_, err := h.completions.RecordCompletion(ctx, student.ID, c.ID)
		require.NoError(t, err)
	}

	p, err := h.progress.GetCourseProgress(ctx, course.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, 3, p.Completed)
	assert.InDelta(t, 60.0, p.Percentage, 1e-9)
	assert.False(t, p.Complete())

	p, err = h.progress.GetCourseProgress(ctx, other.ID, student.ID)
	require.NoError(t, err)
	assert.True(t, p.Complete())
}

func TestCourseProgressWithoutContent(t *testing.T) {
	h := newHarness(t)

	instructor := testutil.SeedUser(t, h.db, "lecturer", true)
	course := testutil.SeedCourse(t, h.db, instructor.ID, "Empty")
	student := testutil.SeedUser(t, h.db, "bob", false)

	p, err := h.progress.GetCourseProgress(context.Background(), course.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Total)
	assert.Zero(t, p.Percentage)
	assert.False(t, p.Complete())
}

func TestCourseProgressUnknownCourse(t *testing.T) {
	h := newHarness(t)

	_, err := h.progress.GetCourseProgress(context.Background(), 4242, 1)
	assert.ErrorIs(t, err, ErrCourseNotFound)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestDeletingContentRemovesItsCompletions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	instructor, course, contents := testutil.CourseWithContents(t, h.db, 2)
	student := testutil.SeedUser(t, h.db, "carol", false)
	testutil.SeedEnrollment(t, h.db, student.ID, course.ID)

	for _, c := range contents {
		_, err := h.completions.RecordCompletion(ctx, student.ID, c.ID)
		require.NoError(t, err)
	}

	require.NoError(t, h.content.DeleteContent(ctx, instructor.ID, contents[1].ID))

	p, err := h.progress.GetCourseProgress(ctx, course.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Total)
	assert.Equal(t, 1, p.Completed)
	assert.InDelta(t, 100.0, p.Percentage, 1e-9)

	var left int64
	require.NoError(t, h.db.Model(&model.ContentCompletion{}).Where("content_id = ?", contents[1].ID).Count(&left).Error)
	assert.Zero(t, left)
}

func TestListMyProgressSkipsDeletedCourses(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	instructor, kept, contents := testutil.CourseWithContents(t, h.db, 2)
	dropped := testutil.SeedCourse(t, h.db, instructor.ID, "Retired")
	student := testutil.SeedUser(t, h.db, "dave", false)
	testutil.SeedEnrollment(t, h.db, student.ID, kept.ID)
	testutil.SeedEnrollment(t, h.db, student.ID, dropped.ID)

	_, err := h.completions.RecordCompletion(ctx, student.ID, contents[0].ID)
	require.NoError(t, err)
	require.NoError(t, h.courses.DeleteCourse(ctx, instructor.ID, dropped.ID))

	items, err := h.progress.ListMyProgress(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, kept.ID, items[0].Progress.CourseID)
	assert.Equal(t, "Go Basics", items[0].CourseTitle)
	assert.InDelta(t, 50.0, items[0].Progress.Percentage, 1e-9)
}

func TestProgressHistory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, course, contents := testutil.CourseWithContents(t, h.db, 3)
	student := testutil.SeedUser(t, h.db, "history_student", false)
	outsider := testutil.SeedUser(t, h.db, "history_outsider", false)
	testutil.SeedEnrollment(t, h.db, student.ID, course.ID)

	items, err := h.progress.History(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	for _, c := range []model.Content{contents[2], contents[0]} {
		_, err := h.completions.RecordCompletion(ctx, student.ID, c.ID)
		require.NoError(t, err)
	}

	items, err = h.progress.History(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, contents[2].ID, items[0].ContentID)
	assert.Equal(t, contents[0].ID, items[1].ContentID)
	for _, it := range items {
		assert.True(t, it.Completed)
		assert.NotNil(t, it.CompletedAt)
	}

	_, err = h.progress.History(ctx, outsider.ID, course.ID)
	assert.ErrorIs(t, err, ErrNotEnrolled)
	_, err = h.progress.History(ctx, student.ID, 9999)
	assert.ErrorIs(t, err, ErrCourseNotFound)
}
