package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"climate_edu_backend/internal/config"
	"climate_edu_backend/internal/model"
)

// GenerationService calls the external content-generation service over its
// OpenAI-compatible chat-completions API. Only the response shape matters
// here: a JSON array of question objects, or plain markdown text.
type GenerationService struct {
	config config.AIConfig
	client *http.Client
}

func NewGenerationService(cfg config.AIConfig) *GenerationService {
	return &GenerationService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type GenChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string           `json:"model"`
	Messages []GenChatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message GenChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *GenerationService) complete(system, prompt string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: s.config.Model,
		Messages: []GenChatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("generation API returned no choices")
}

// generatedQuestion is the wire shape the generation service returns.
// correctAnswer arrives as whatever JSON type the model emitted; it is
// canonicalized to a string before storage (option index for
// multiple_choice, lowercase "true"/"false" for true_false).
type generatedQuestion struct {
	Text          string      `json:"text"`
	Kind          string      `json:"kind"`
	Options       []string    `json:"options"`
	CorrectAnswer interface{} `json:"correctAnswer"`
	Explanation   string      `json:"explanation"`
}

const questionSystemPrompt = "You are a climate-science curriculum assistant. " +
	"Reply with a raw JSON array only, no markdown fences and no prose. " +
	"Each element: {\"text\": string, \"kind\": \"multiple_choice\"|\"true_false\", " +
	"\"options\": [string] (multiple_choice only, 4 options), " +
	"\"correctAnswer\": option index for multiple_choice or \"true\"/\"false\" for true_false, " +
	"\"explanation\": string}."

// GenerateQuestions asks the generation service for count quiz questions
// on topic and validates their shape.
func (s *GenerationService) GenerateQuestions(topic string, count int) ([]model.QuizQuestion, error) {
	prompt := fmt.Sprintf("Generate %d quiz questions about: %s. Mix multiple_choice and true_false kinds.", count, topic)

	content, err := s.complete(questionSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var generated []generatedQuestion
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &generated); err != nil {
		return nil, fmt.Errorf("generation service returned malformed questions: %w", err)
	}

	questions := make([]model.QuizQuestion, 0, len(generated))
	for i, g := range generated {
		q, err := toQuizQuestion(g, i)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("generation service returned no questions")
	}

	return questions, nil
}

func toQuizQuestion(g generatedQuestion, position int) (model.QuizQuestion, error) {
	var q model.QuizQuestion

	if strings.TrimSpace(g.Text) == "" {
		return q, fmt.Errorf("question %d: empty text", position)
	}

	kind := model.QuestionKind(g.Kind)
	correct := canonicalAnswer(g.CorrectAnswer)

	switch kind {
	case model.MultipleChoice:
		if len(g.Options) < 2 {
			return q, fmt.Errorf("question %d: multiple_choice needs at least 2 options", position)
		}
		idx, err := strconv.Atoi(correct)
		if err != nil || idx < 0 || idx >= len(g.Options) {
			return q, fmt.Errorf("question %d: correct answer %q is not a valid option index", position, correct)
		}
		opts, err := json.Marshal(g.Options)
		if err != nil {
			return q, err
		}
		q.Options = opts
	case model.TrueFalse:
		if correct != "true" && correct != "false" {
			return q, fmt.Errorf("question %d: true_false answer must be \"true\" or \"false\", got %q", position, correct)
		}
	default:
		return q, fmt.Errorf("question %d: unknown kind %q", position, g.Kind)
	}

	q.Position = position
	q.Text = g.Text
	q.Kind = kind
	q.CorrectAnswer = correct
	q.Explanation = g.Explanation
	return q, nil
}

// canonicalAnswer flattens the model's loosely-typed correctAnswer into
// the stored string form.
func canonicalAnswer(raw interface{}) string {
	switch t := raw.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(t))
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return strconv.Itoa(int(t))
	default:
		return ""
	}
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

const materialSystemPrompt = "You are a climate-science curriculum assistant. " +
	"Write clear markdown learning material for the requested course. " +
	"Use ## section headings, short paragraphs, and concrete examples. No links."

// GenerateMaterial produces markdown learning material for a course.
func (s *GenerationService) GenerateMaterial(topic, difficulty string) (string, error) {
	prompt := fmt.Sprintf("Write learning material about %q for a %s-level student.", topic, difficulty)
	return s.complete(materialSystemPrompt, prompt)
}

const feedbackSystemPrompt = "You are an encouraging climate-science tutor. " +
	"Given a student's quiz outcome, write two or three sentences of feedback " +
	"pointing at the topics behind the missed questions. No links, no markdown headings."

// GenerateFeedback produces a short post-attempt study hint.
func (s *GenerationService) GenerateFeedback(quizTitle string, scorePercent float64, missedTopics []string) (string, error) {
	prompt := fmt.Sprintf("Quiz: %s. Score: %.1f%%. Missed question topics: %s.",
		quizTitle, scorePercent, strings.Join(missedTopics, "; "))
	return s.complete(feedbackSystemPrompt, prompt)
}
