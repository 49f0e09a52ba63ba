package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

var trueFalseOptions = []string{"True", "False"}

type QuestionInput struct {
	Text          string
	QuestionType  model.QuestionType
	Options       []string
	CorrectAnswer string
	Points        int
}

type QuizInput struct {
	Title        string
	Description  string
	TimeLimit    int
	PassingScore *int
	Questions    []QuestionInput
}

type QuizService struct {
	QuizRepo    *repository.QuizRepository
	Courses     *CourseService
	Enrollments *EnrollmentService
}

func NewQuizService(quizRepo *repository.QuizRepository, courses *CourseService, enrollments *EnrollmentService) *QuizService {
	return &QuizService{QuizRepo: quizRepo, Courses: courses, Enrollments: enrollments}
}

func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func buildQuestion(in QuestionInput) (*model.Question, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: question text is required", util.ErrInvalidInput)
	}

	var options []string
	for _, o := range in.Options {
		if o = strings.TrimSpace(o); o != "" {
			options = append(options, o)
		}
	}

	switch in.QuestionType {
	case model.TrueFalse:
		if len(options) == 0 {
			options = trueFalseOptions
		}
	case model.MultipleChoice:
		if len(options) < 2 {
			return nil, fmt.Errorf("%w: multiple choice questions need at least two options", util.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("%w: unknown question type %q", util.ErrInvalidInput, in.QuestionType)
	}

	// 正确答案必须是选项之一，统一保存为选项原文
	correct := ""
	for _, o := range options {
		if normalizeAnswer(o) == normalizeAnswer(in.CorrectAnswer) {
			correct = o
			break
		}
	}
	if correct == "" {
		return nil, fmt.Errorf("%w: correct answer must be one of the options", util.ErrInvalidInput)
	}

	points := in.Points
	if points == 0 {
		points = 1
	}
	if points < 0 {
		return nil, fmt.Errorf("%w: points must be positive", util.ErrInvalidInput)
	}

	return &model.Question{
		Text:          text,
		QuestionType:  in.QuestionType,
		Options:       datatypes.NewJSONType(options),
		CorrectAnswer: correct,
		Points:        points,
	}, nil
}

func (s *QuizService) CreateQuiz(ctx context.Context, actorID, moduleID uint, in QuizInput) (*model.Quiz, error) {
	if _, err := s.Courses.RequireModuleOwner(ctx, actorID, moduleID); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: quiz title is required", util.ErrInvalidInput)
	}
	passing := model.DefaultPassingScore
	if in.PassingScore != nil {
		passing = *in.PassingScore
	}
	if passing < 0 || passing > 100 {
		return nil, fmt.Errorf("%w: passing score must be between 0 and 100", util.ErrInvalidInput)
	}
	if in.TimeLimit < 0 {
		return nil, fmt.Errorf("%w: time limit must not be negative", util.ErrInvalidInput)
	}

	quiz := &model.Quiz{
		Title:        title,
		Description:  in.Description,
		TimeLimit:    in.TimeLimit,
		PassingScore: passing,
		ModuleID:     moduleID,
	}
	for i, qi := range in.Questions {
		q, err := buildQuestion(qi)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		quiz.Questions = append(quiz.Questions, *q)
	}

	if err := s.QuizRepo.Create(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) AddQuestion(ctx context.Context, actorID, quizID uint, in QuestionInput) (*model.Question, error) {
	quiz, err := s.QuizRepo.FindByID(ctx, quizID)
	if err != nil {
		return nil, notFound(err, ErrQuizNotFound)
	}
	if _, err := s.Courses.RequireModuleOwner(ctx, actorID, quiz.ModuleID); err != nil {
		return nil, err
	}

	q, err := buildQuestion(in)
	if err != nil {
		return nil, err
	}
	q.QuizID = quizID
	if err := s.QuizRepo.AddQuestion(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// GetQuiz 学生看到的题目不含正确答案
func (s *QuizService) GetQuiz(ctx context.Context, userID, quizID uint) (*model.Quiz, error) {
	courseID, err := s.QuizRepo.CourseIDOf(ctx, quizID)
	if err != nil {
		return nil, notFound(err, ErrQuizNotFound)
	}
	owner, err := s.Enrollments.CheckAccess(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	quiz, err := s.QuizRepo.FindByID(ctx, quizID)
	if err != nil {
		return nil, notFound(err, ErrQuizNotFound)
	}
	if !owner {
		for i := range quiz.Questions {
			quiz.Questions[i].CorrectAnswer = ""
		}
	}
	return quiz, nil
}

// GradeQuiz 按分值计分，返回 0-100 的百分制得分
func GradeQuiz(questions []model.Question, answers map[uint]string) float64 {
	var earned, total int
	for _, q := range questions {
		total += q.Points
		if a, ok := answers[q.ID]; ok && normalizeAnswer(a) == normalizeAnswer(q.CorrectAnswer) {
			earned += q.Points
		}
	}
	if total == 0 {
		return 0
	}
	return math.Round(float64(earned)/float64(total)*10000) / 100
}

func (s *QuizService) SubmitAttempt(ctx context.Context, userID, quizID uint, answers map[uint]string, startedAt time.Time) (*model.QuizAttempt, error) {
	courseID, err := s.QuizRepo.CourseIDOf(ctx, quizID)
	if err != nil {
		return nil, notFound(err, ErrQuizNotFound)
	}
	owner, err := s.Enrollments.CheckAccess(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if owner {
		return nil, ErrNotEnrolled
	}

	quiz, err := s.QuizRepo.FindByID(ctx, quizID)
	if err != nil {
		return nil, notFound(err, ErrQuizNotFound)
	}

	now := time.Now()
	if startedAt.IsZero() || startedAt.After(now) {
		startedAt = now
	}
	if answers == nil {
		answers = map[uint]string{}
	}

	score := GradeQuiz(quiz.Questions, answers)
	attempt := &model.QuizAttempt{
		UserID:      userID,
		QuizID:      quizID,
		Score:       score,
		Passed:      score >= float64(quiz.PassingScore),
		Answers:     datatypes.NewJSONType(answers),
		StartedAt:   startedAt,
		CompletedAt: &now,
	}
	if err := s.QuizRepo.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}

	logger.Log.Debug("Quiz attempt graded",
		zap.Uint("userID", userID),
		zap.Uint("quizID", quizID),
		zap.Float64("score", score),
		zap.Bool("passed", attempt.Passed),
	)
	return attempt, nil
}

func (s *QuizService) ListAttempts(ctx context.Context, userID, quizID uint) ([]model.QuizAttempt, error) {
	courseID, err := s.QuizRepo.CourseIDOf(ctx, quizID)
	if err != nil {
		return nil, notFound(err, ErrQuizNotFound)
	}
	if _, err := s.Enrollments.CheckAccess(ctx, userID, courseID); err != nil {
		return nil, err
	}
	return s.QuizRepo.ListAttempts(ctx, userID, quizID)
}
