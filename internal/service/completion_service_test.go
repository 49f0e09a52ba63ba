package service

import (
	"context"
	"sync"
	"testing"

	"lms_backend/internal/model"
	"lms_backend/internal/testutil"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCompletionIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, course, contents := testutil.CourseWithContents(t, h.db, 2)
	student := testutil.SeedUser(t, h.db, "alice", false)
	testutil.SeedEnrollment(t, h.db, student.ID, course.ID)

	first, err := h.completions.RecordCompletion(ctx, student.ID, contents[0].ID)
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := h.completions.RecordCompletion(ctx, student.ID, contents[0].ID)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Completion.ID, second.Completion.ID)

	var completions, progress int64
	require.NoError(t, h.db.Model(&model.ContentCompletion{}).Count(&completions).Error)
	require.NoError(t, h.db.Model(&model.Progress{}).Count(&progress).Error)
	assert.EqualValues(t, 1, completions)
	assert.EqualValues(t, 1, progress)
}

func TestRecordCompletionRequiresEnrollment(t *testing.T) {
	h := newHarness(t)

	_, _, contents := testutil.CourseWithContents(t, h.db, 1)
	outsider := testutil.SeedUser(t, h.db, "bob", false)

	_, err := h.completions.RecordCompletion(context.Background(), outsider.ID, contents[0].ID)
	require.ErrorIs(t, err, ErrNotEnrolled)
	assert.ErrorIs(t, err, util.ErrForbidden)

	done, err := h.completions.IsCompleted(context.Background(), outsider.ID, contents[0].ID)
	require.NoError(t, err)
	assert.False(t, done)
}

func TestRecordCompletionUnknownContent(t *testing.T) {
	h := newHarness(t)
	student := testutil.SeedUser(t, h.db, "carol", false)

	_, err := h.completions.RecordCompletion(context.Background(), student.ID, 9999)
	assert.ErrorIs(t, err, util.ErrNotFound)
}

func TestRecordCompletionConcurrentRequests(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, course, contents := testutil.CourseWithContents(t, h.db, 1)
	student := testutil.SeedUser(t, h.db, "dave", false)
	testutil.SeedEnrollment(t, h.db, student.ID, course.ID)

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		errs    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := h.completions.RecordCompletion(ctx, student.ID, contents[0].ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if res.Created {
				created++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 1, created)

	var count int64
	require.NoError(t, h.db.Model(&model.ContentCompletion{}).
		Where("user_id = ? AND content_id = ?", student.ID, contents[0].ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCompletedContentIDsScopedToCourse(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, courseA, contentsA := testutil.CourseWithContents(t, h.db, 2)
	_, courseB, contentsB := testutil.CourseWithContents(t, h.db, 1)
	student := testutil.SeedUser(t, h.db, "erin", false)
	testutil.SeedEnrollment(t, h.db, student.ID, courseA.ID)
	testutil.SeedEnrollment(t, h.db, student.ID, courseB.ID)

	_, err := h.completions.RecordCompletion(ctx, student.ID, contentsA[1].ID)
	require.NoError(t, err)
	_, err = h.completions.RecordCompletion(ctx, student.ID, contentsB[0].ID)
	require.NoError(t, err)

	ids, err := h.completions.CompletedContentIDs(ctx, student.ID, courseA.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{contentsA[1].ID}, ids)
}
