package service

import (
	"context"
	"testing"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/testutil"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeQuiz(t *testing.T) {
	questions := []model.Question{
		{BaseModel: model.BaseModel{ID: 1}, CorrectAnswer: "Paris", Points: 2},
		{BaseModel: model.BaseModel{ID: 2}, CorrectAnswer: "True", Points: 1},
		{BaseModel: model.BaseModel{ID: 3}, CorrectAnswer: "42", Points: 1},
	}

	cases := []struct {
		name    string
		answers map[uint]string
		want    float64
	}{
		{"all correct", map[uint]string{1: "Paris", 2: "True", 3: "42"}, 100},
		{"case and spaces ignored", map[uint]string{1: " paris ", 2: "true"}, 75},
		{"none answered", map[uint]string{}, 0},
		{"one of three points", map[uint]string{2: "True", 1: "Rome"}, 25},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, GradeQuiz(questions, c.answers), 1e-9)
		})
	}

	assert.Zero(t, GradeQuiz(nil, map[uint]string{1: "x"}))
}

func TestBuildQuestion(t *testing.T) {
	q, err := buildQuestion(QuestionInput{Text: "Go is compiled", QuestionType: model.TrueFalse, CorrectAnswer: "true"})
	require.NoError(t, err)
	assert.Equal(t, []string{"True", "False"}, q.Options.Data())
	assert.Equal(t, "True", q.CorrectAnswer)
	assert.Equal(t, 1, q.Points)

	_, err = buildQuestion(QuestionInput{Text: "Pick", QuestionType: model.MultipleChoice, Options: []string{"a"}, CorrectAnswer: "a"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = buildQuestion(QuestionInput{Text: "Pick", QuestionType: model.MultipleChoice, Options: []string{"a", "b"}, CorrectAnswer: "c"})
	assert.ErrorIs(t, err, util.ErrInvalidInput)
}

func TestSubmitQuizAttempt(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	instructor, course, _ := testutil.CourseWithContents(t, h.db, 1)
	modules, err := h.courses.ListModules(ctx, course.ID)
	require.NoError(t, err)

	quiz, err := h.quizzes.CreateQuiz(ctx, instructor.ID, modules[0].ID, QuizInput{
		Title: "Checkpoint",
		Questions: []QuestionInput{
			{Text: "2+2", QuestionType: model.MultipleChoice, Options: []string{"3", "4"}, CorrectAnswer: "4"},
			{Text: "Go has generics", QuestionType: model.TrueFalse, CorrectAnswer: "True"},
		},
	})
	require.NoError(t, err)
	require.Len(t, quiz.Questions, 2)

	student := testutil.SeedUser(t, h.db, "alice", false)
	_, err = h.quizzes.SubmitAttempt(ctx, student.ID, quiz.ID, nil, time.Time{})
	assert.ErrorIs(t, err, ErrNotEnrolled)

	testutil.SeedEnrollment(t, h.db, student.ID, course.ID)

	view, err := h.quizzes.GetQuiz(ctx, student.ID, quiz.ID)
	require.NoError(t, err)
	for _, q := range view.Questions {
		assert.Empty(t, q.CorrectAnswer)
	}

	attempt, err := h.quizzes.SubmitAttempt(ctx, student.ID, quiz.ID, map[uint]string{
		quiz.Questions[0].ID: "4",
	}, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.InDelta(t, 50.0, attempt.Score, 1e-9)
	assert.False(t, attempt.Passed)

	attempts, err := h.quizzes.ListAttempts(ctx, student.ID, quiz.ID)
	require.NoError(t, err)
	assert.Len(t, attempts, 1)

	_, err = h.quizzes.SubmitAttempt(ctx, instructor.ID, quiz.ID, nil, time.Time{})
	assert.ErrorIs(t, err, ErrNotEnrolled)
}
