package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"climate_edu_backend/internal/config"
	"climate_edu_backend/internal/grading"
	"climate_edu_backend/internal/model"
	"climate_edu_backend/internal/repository"
	"climate_edu_backend/internal/util"
	"climate_edu_backend/pkg/logger"
	"climate_edu_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizService orchestrates quiz lifecycle and submission grading. The
// grading itself lives in internal/grading and is pure; this service owns
// the side effects around it (attempt record, badges, progress, logs).
type QuizService struct {
	QuizRepo     *repository.QuizRepository
	AttemptRepo  *repository.AttemptRepository
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	UserRepo     *repository.UserRepository
	LogRepo      *repository.LearningLogRepository
	Badges       *BadgeService
	Gen          *GenerationService
	Cfg          *config.Config
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	attemptRepo *repository.AttemptRepository,
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	userRepo *repository.UserRepository,
	logRepo *repository.LearningLogRepository,
	badges *BadgeService,
	gen *GenerationService,
	cfg *config.Config,
) *QuizService {
	return &QuizService{
		QuizRepo:     quizRepo,
		AttemptRepo:  attemptRepo,
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		UserRepo:     userRepo,
		LogRepo:      logRepo,
		Badges:       badges,
		Gen:          gen,
		Cfg:          cfg,
	}
}

type QuizRequest struct {
	CourseID            string   `json:"courseId" binding:"required"`
	Title               string   `json:"title" binding:"required"`
	Topic               string   `json:"topic" binding:"required"`
	QuestionCount       int      `json:"questionCount"`
	PassingScorePercent *float64 `json:"passingScorePercent"`
}

// CreateQuiz generates a question list for the topic and stores the quiz.
func (s *QuizService) CreateQuiz(req QuizRequest) (*model.Quiz, error) {
	if _, err := s.CourseRepo.FindByID(req.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	count := req.QuestionCount
	if count <= 0 {
		count = s.Cfg.Quiz.DefaultQuestions
	}

	questions, err := s.Gen.GenerateQuestions(req.Topic, count)
	if err != nil {
		return nil, err
	}

	passing := s.Cfg.Quiz.PassingScorePercent
	if req.PassingScorePercent != nil {
		passing = *req.PassingScorePercent
	}

	quiz := &model.Quiz{
		CourseID:            req.CourseID,
		Title:               req.Title,
		Topic:               req.Topic,
		PassingScorePercent: passing,
		Questions:           questions,
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}

	return quiz, nil
}

type RegenerateRequest struct {
	Topic         string `json:"topic" binding:"required"`
	QuestionCount int    `json:"questionCount"`
}

// RegenerateQuiz replaces the quiz's question list wholesale. Existing
// attempts keep their recorded answers; they graded against the old list.
func (s *QuizService) RegenerateQuiz(quizID string, req RegenerateRequest) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	count := req.QuestionCount
	if count <= 0 {
		count = len(quiz.Questions)
	}
	if count <= 0 {
		count = s.Cfg.Quiz.DefaultQuestions
	}

	questions, err := s.Gen.GenerateQuestions(req.Topic, count)
	if err != nil {
		return nil, err
	}

	if err := s.QuizRepo.ReplaceQuestions(quizID, questions); err != nil {
		return nil, err
	}

	quiz.Topic = req.Topic
	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}

	return s.QuizRepo.FindByID(quizID)
}

func (s *QuizService) DeleteQuiz(quizID string) error {
	return s.QuizRepo.Delete(quizID)
}

func (s *QuizService) ListByCourse(courseID string) ([]model.Quiz, error) {
	return s.QuizRepo.ListByCourse(courseID)
}

// StudentQuestion is the pre-submission view: correct answers and
// explanations are withheld until the learner has submitted.
type StudentQuestion struct {
	Position int      `json:"position"`
	Text     string   `json:"text"`
	Kind     string   `json:"kind"`
	Options  []string `json:"options,omitempty"`
}

type StudentQuiz struct {
	ID                  string            `json:"id"`
	CourseID            string            `json:"courseId"`
	Title               string            `json:"title"`
	Topic               string            `json:"topic"`
	PassingScorePercent float64           `json:"passingScorePercent"`
	BestScorePercent    float64           `json:"bestScorePercent"`
	Passed              bool              `json:"passed"`
	Questions           []StudentQuestion `json:"questions"`
}

func (s *QuizService) GetQuizForStudent(userID uint, quizID string) (*StudentQuiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	best, err := s.AttemptRepo.BestScore(userID, quizID)
	if err != nil {
		return nil, err
	}
	passed, err := s.AttemptRepo.HasPassed(userID, quizID)
	if err != nil {
		return nil, err
	}

	questions := make([]StudentQuestion, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = StudentQuestion{
			Position: q.Position,
			Text:     q.Text,
			Kind:     string(q.Kind),
			Options:  decodeOptions(q.Options),
		}
	}

	return &StudentQuiz{
		ID:                  quiz.ID,
		CourseID:            quiz.CourseID,
		Title:               quiz.Title,
		Topic:               quiz.Topic,
		PassingScorePercent: quiz.PassingScorePercent,
		BestScorePercent:    best,
		Passed:              passed,
		Questions:           questions,
	}, nil
}

// AttemptsForQuiz lists the caller's attempts on one quiz, newest first.
func (s *QuizService) AttemptsForQuiz(userID uint, quizID string) ([]model.QuizAttempt, error) {
	if _, err := s.QuizRepo.FindByID(quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return s.AttemptRepo.ListByUserAndQuiz(userID, quizID)
}

// GetQuizForTeacher returns the full quiz including answer keys.
func (s *QuizService) GetQuizForTeacher(quizID string) (*model.Quiz, []QuestionReview, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrQuizNotFound
		}
		return nil, nil, err
	}

	reviews := make([]QuestionReview, len(quiz.Questions))
	for i, q := range quiz.Questions {
		reviews[i] = QuestionReview{
			Position:      q.Position,
			Text:          q.Text,
			Kind:          string(q.Kind),
			Options:       decodeOptions(q.Options),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
		}
	}
	return quiz, reviews, nil
}

// gradingQuestions maps stored questions onto the grader's minimal view.
// Stored correct answers are always strings; the grader's coercion rules
// handle numeric strings and "true"/"false".
func gradingQuestions(questions []model.QuizQuestion) []grading.Question {
	out := make([]grading.Question, len(questions))
	for i, q := range questions {
		out[i] = grading.Question{CorrectAnswer: grading.String(q.CorrectAnswer)}
	}
	return out
}

// parseSubmission validates the "mapping of primitives" contract. Any
// shape failure is a ValidationError; per-answer weirdness is the
// grader's job and never errors.
func (s *QuizService) parseSubmission(raw map[string]interface{}) (grading.Answers, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: answers must be an object", util.ErrValidation)
	}
	answers, err := grading.ParseAnswers(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrValidation, err)
	}
	return answers, nil
}

// Preview grades a submission without persisting anything. Used by the UI
// for a pre-submit score check; correct answers are not revealed.
func (s *QuizService) Preview(quizID string, raw map[string]interface{}) (*grading.Result, error) {
	answers, err := s.parseSubmission(raw)
	if err != nil {
		return nil, err
	}

	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz has no questions", util.ErrValidation)
	}

	res := grading.Grade(gradingQuestions(quiz.Questions), answers, quiz.PassingScorePercent)
	return &res, nil
}

// QuestionReview is the post-submission view with answers revealed.
type QuestionReview struct {
	Position      int      `json:"position"`
	Text          string   `json:"text"`
	Kind          string   `json:"kind"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	Correct       bool     `json:"correct"`
}

type SubmitResult struct {
	AttemptID      string           `json:"attemptId"`
	CorrectCount   int              `json:"correctCount"`
	TotalQuestions int              `json:"totalQuestions"`
	ScorePercent   float64          `json:"scorePercent"`
	Passed         bool             `json:"passed"`
	MissedIndices  []int            `json:"missedIndices"`
	Questions      []QuestionReview `json:"questions"`
}

// Submit is the authoritative grading path: validate, grade, persist the
// attempt, then apply badge and progress side effects. Every side-effect
// write is idempotent, so a client retry of the same submission cannot
// double-grant.
func (s *QuizService) Submit(userID uint, quizID string, raw map[string]interface{}) (*SubmitResult, error) {
	answers, err := s.parseSubmission(raw)
	if err != nil {
		return nil, err
	}

	if _, err := s.UserRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if len(quiz.Questions) == 0 {
		return nil, fmt.Errorf("%w: quiz has no questions", util.ErrValidation)
	}

	res := grading.Grade(gradingQuestions(quiz.Questions), answers, quiz.PassingScorePercent)

	attempt, err := s.persistAttempt(userID, quiz, raw, res)
	if err != nil {
		return nil, err
	}

	s.applySideEffects(userID, quiz, res)

	outcome := "failed"
	if res.Passed {
		outcome = "passed"
	}
	monitoring.QuizSubmissions.WithLabelValues(outcome).Inc()

	return s.buildSubmitResult(attempt, quiz, answers, res), nil
}

func (s *QuizService) persistAttempt(userID uint, quiz *model.Quiz, raw map[string]interface{}, res grading.Result) (*model.QuizAttempt, error) {
	missed, err := json.Marshal(res.MissedIndices)
	if err != nil {
		return nil, err
	}
	submitted, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		UserID:         userID,
		QuizID:         quiz.ID,
		CorrectCount:   res.CorrectCount,
		TotalQuestions: res.TotalQuestions,
		ScorePercent:   res.ScorePercent,
		Passed:         res.Passed,
		MissedIndices:  missed,
		Answers:        submitted,
		SubmittedAt:    time.Now(),
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// applySideEffects runs the badge and progress writes that follow a graded
// attempt. Failures here are logged, not surfaced: the attempt is already
// recorded and the learner gets their result either way.
func (s *QuizService) applySideEffects(userID uint, quiz *model.Quiz, res grading.Result) {
	if res.Passed {
		if err := s.Badges.GrantQuizPass(userID, quiz); err != nil {
			logger.Log.Error("quiz pass badge grant failed", zap.Error(err), zap.Uint("userId", userID))
		}
	}

	// Exact comparison is deliberate: ScorePercent is unrounded, and a
	// full-marks attempt computes to precisely 100.
	if res.ScorePercent == 100 {
		if err := s.Badges.GrantPerfectScore(userID, quiz); err != nil {
			logger.Log.Error("perfect score badge grant failed", zap.Error(err), zap.Uint("userId", userID))
		}
	}

	if res.Passed {
		completed, err := s.ProgressRepo.Complete(userID, quiz.CourseID, time.Now())
		if err != nil {
			logger.Log.Error("course progress update failed", zap.Error(err), zap.Uint("userId", userID))
		} else if completed {
			courseName := quiz.CourseID
			course, err := s.CourseRepo.FindByID(quiz.CourseID)
			if err != nil {
				logger.Log.Error("course lookup for completion badge failed", zap.Error(err), zap.String("courseId", quiz.CourseID))
			} else {
				courseName = course.Title
				if err := s.Badges.GrantCourseCompletion(userID, course); err != nil {
					logger.Log.Error("course completion badge grant failed", zap.Error(err), zap.Uint("userId", userID))
				}
			}
			if err := s.LogRepo.Create(&model.LearningLog{
				UserID:   userID,
				Activity: "course_complete",
				Content:  "Completed course: " + courseName,
			}); err != nil {
				logger.Log.Error("learning log write failed", zap.Error(err))
			}
		}
	}

	if err := s.LogRepo.Create(&model.LearningLog{
		UserID:   userID,
		Activity: "quiz_submit",
		Content:  "Submitted quiz: " + quiz.Title,
		Score:    int(res.RoundedScore()),
	}); err != nil {
		logger.Log.Error("learning log write failed", zap.Error(err))
	}
}

func (s *QuizService) buildSubmitResult(attempt *model.QuizAttempt, quiz *model.Quiz, answers grading.Answers, res grading.Result) *SubmitResult {
	missed := make(map[int]bool, len(res.MissedIndices))
	for _, i := range res.MissedIndices {
		missed[i] = true
	}

	questions := make([]QuestionReview, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = QuestionReview{
			Position:      q.Position,
			Text:          q.Text,
			Kind:          string(q.Kind),
			Options:       decodeOptions(q.Options),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Correct:       !missed[i],
		}
	}

	return &SubmitResult{
		AttemptID:      attempt.ID,
		CorrectCount:   res.CorrectCount,
		TotalQuestions: res.TotalQuestions,
		ScorePercent:   res.RoundedScore(),
		Passed:         res.Passed,
		MissedIndices:  res.MissedIndices,
		Questions:      questions,
	}
}

func (s *QuizService) ListAttempts(userID uint, page, limit int) ([]model.QuizAttempt, int64, error) {
	return s.AttemptRepo.ListByUser(userID, page, limit)
}

// AttemptFeedback asks the generation service for a short study hint
// keyed on the topics of the attempt's missed questions.
func (s *QuizService) AttemptFeedback(userID uint, attemptID string) (string, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", util.ErrQuizNotFound
		}
		return "", err
	}
	if attempt.UserID != userID {
		return "", util.ErrPermissionDenied
	}

	quiz, err := s.QuizRepo.FindByID(attempt.QuizID)
	if err != nil {
		return "", err
	}

	var missedIdx []int
	if err := json.Unmarshal(attempt.MissedIndices, &missedIdx); err != nil {
		missedIdx = nil
	}

	topics := make([]string, 0, len(missedIdx))
	for _, i := range missedIdx {
		if i >= 0 && i < len(quiz.Questions) {
			topics = append(topics, quiz.Questions[i].Text)
		}
	}

	return s.Gen.GenerateFeedback(quiz.Title, attempt.ScorePercent, topics)
}

func decodeOptions(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var opts []string
	if err := json.Unmarshal(raw, &opts); err != nil {
		return nil
	}
	return opts
}
