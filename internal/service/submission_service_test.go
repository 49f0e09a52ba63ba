package service

import (
	"context"
	"strings"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/testutil"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignmentSubmitAndGrade(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := NewSubmissionService(repository.NewAssignmentRepository(h.db), h.courses, h.enrollments, h.storage)

	instructor, course, _ := testutil.CourseWithContents(t, h.db, 1)
	modules, err := h.courses.ListModules(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, modules, 1)

	student := testutil.SeedUser(t, h.db, "sub_student", false)
	outsider := testutil.SeedUser(t, h.db, "sub_outsider", false)
	testutil.SeedEnrollment(t, h.db, student.ID, course.ID)

	_, err = svc.CreateAssignment(ctx, student.ID, modules[0].ID, AssignmentInput{Title: "Essay"})
	assert.ErrorIs(t, err, util.ErrForbidden)

	a, err := svc.CreateAssignment(ctx, instructor.ID, modules[0].ID, AssignmentInput{Title: " Essay "})
	require.NoError(t, err)
	assert.Equal(t, "Essay", a.Title)
	assert.Equal(t, model.DefaultMaxScore, a.MaxScore)

	_, err = svc.Submit(ctx, outsider.ID, a.ID, "hello", nil)
	assert.ErrorIs(t, err, ErrNotEnrolled)
	_, err = svc.Submit(ctx, instructor.ID, a.ID, "hello", nil)
	assert.ErrorIs(t, err, ErrNotEnrolled, "the instructor cannot submit to their own course")
	_, err = svc.Submit(ctx, student.ID, a.ID, "   ", nil)
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	sub, err := svc.Submit(ctx, student.ID, a.ID, "", &Upload{
		Filename:    "answer.txt",
		Size:        6,
		ContentType: "text/plain",
		Reader:      strings.NewReader("answer"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sub.FileURL)
	assert.Nil(t, sub.Score)

	_, err = svc.Submit(ctx, student.ID, a.ID, "second try", nil)
	require.NoError(t, err)

	mine, err := svc.ListMine(ctx, student.ID, a.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2, "resubmissions are kept")

	_, err = svc.ListForAssignment(ctx, student.ID, a.ID)
	assert.ErrorIs(t, err, util.ErrForbidden)

	_, err = svc.Grade(ctx, instructor.ID, sub.ID, 101, "")
	assert.ErrorIs(t, err, util.ErrInvalidInput)
	_, err = svc.Grade(ctx, student.ID, sub.ID, 90, "")
	assert.ErrorIs(t, err, util.ErrForbidden)

	graded, err := svc.Grade(ctx, instructor.ID, sub.ID, 88.5, "good")
	require.NoError(t, err)
	require.NotNil(t, graded.Score)
	assert.InDelta(t, 88.5, *graded.Score, 1e-9)
	assert.NotNil(t, graded.GradedAt)

	all, err := svc.ListForAssignment(ctx, instructor.ID, a.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Grade(ctx, instructor.ID, 9999, 10, "")
	assert.ErrorIs(t, err, util.ErrNotFound)
}
