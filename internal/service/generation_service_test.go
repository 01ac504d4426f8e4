package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"climate_edu_backend/internal/config"
	"climate_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToQuizQuestionCanonicalizesAnswers(t *testing.T) {
	tests := []struct {
		name    string
		in      generatedQuestion
		want    string
		wantErr bool
	}{
		{
			name: "index as number",
			in:   generatedQuestion{Text: "q", Kind: "multiple_choice", Options: []string{"a", "b", "c"}, CorrectAnswer: float64(2)},
			want: "2",
		},
		{
			name: "index as string",
			in:   generatedQuestion{Text: "q", Kind: "multiple_choice", Options: []string{"a", "b"}, CorrectAnswer: "1"},
			want: "1",
		},
		{
			name: "boolean as bool",
			in:   generatedQuestion{Text: "q", Kind: "true_false", CorrectAnswer: true},
			want: "true",
		},
		{
			name: "boolean as padded string",
			in:   generatedQuestion{Text: "q", Kind: "true_false", CorrectAnswer: " False "},
			want: "false",
		},
		{
			name:    "index out of range",
			in:      generatedQuestion{Text: "q", Kind: "multiple_choice", Options: []string{"a", "b"}, CorrectAnswer: float64(5)},
			wantErr: true,
		},
		{
			name:    "too few options",
			in:      generatedQuestion{Text: "q", Kind: "multiple_choice", Options: []string{"a"}, CorrectAnswer: float64(0)},
			wantErr: true,
		},
		{
			name:    "bad true_false answer",
			in:      generatedQuestion{Text: "q", Kind: "true_false", CorrectAnswer: "maybe"},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			in:      generatedQuestion{Text: "q", Kind: "essay", CorrectAnswer: "x"},
			wantErr: true,
		},
		{
			name:    "empty text",
			in:      generatedQuestion{Text: "  ", Kind: "true_false", CorrectAnswer: "true"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := toQuizQuestion(tt.in, 3)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.CorrectAnswer)
			assert.Equal(t, 3, q.Position)
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `[{"a":1}]`, stripCodeFence("```json\n[{\"a\":1}]\n```"))
	assert.Equal(t, `[{"a":1}]`, stripCodeFence("```\n[{\"a\":1}]\n```"))
	assert.Equal(t, `[{"a":1}]`, stripCodeFence(`[{"a":1}]`))
}

func TestGenerateQuestionsParsesResponse(t *testing.T) {
	payload := `[
		{"text":"Which gas traps heat?","kind":"multiple_choice","options":["O2","CO2","N2","Ar"],"correctAnswer":1,"explanation":"CO2 is a greenhouse gas."},
		{"text":"Sea levels are rising.","kind":"true_false","correctAnswer":true,"explanation":""}
	]`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "```json\n" + payload + "\n```"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	gen := NewGenerationService(config.AIConfig{BaseURL: server.URL, APIKey: "test-key", Model: "test"})

	questions, err := gen.GenerateQuestions("greenhouse effect", 2)
	require.NoError(t, err)
	require.Len(t, questions, 2)

	assert.Equal(t, model.MultipleChoice, questions[0].Kind)
	assert.Equal(t, "1", questions[0].CorrectAnswer)
	assert.Equal(t, 0, questions[0].Position)

	assert.Equal(t, model.TrueFalse, questions[1].Kind)
	assert.Equal(t, "true", questions[1].CorrectAnswer)
	assert.Equal(t, 1, questions[1].Position)
}

func TestGenerateQuestionsRejectsMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "sorry, I cannot help with that"}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	gen := NewGenerationService(config.AIConfig{BaseURL: server.URL, Model: "test"})

	_, err := gen.GenerateQuestions("anything", 2)
	assert.Error(t, err)
}
