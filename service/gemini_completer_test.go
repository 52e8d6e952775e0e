package service

import (
	"testing"

	"layer-backend/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/require"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{
				genai.Text(`{"description":`),
				genai.Blob{MIMEType: "image/png", Data: []byte{1}},
				genai.Text(`"Look"}`),
			}},
		}},
	}

	text, err := responseText(resp)
	require.NoError(t, err)
	require.Equal(t, `{"description":"Look"}`, text)

	_, err = responseText(&genai.GenerateContentResponse{})
	require.ErrorIs(t, err, ErrNoCandidates)
}

func TestHistoryContents(t *testing.T) {
	got := historyContents([]models.ChatTurn{{Role: "user", Text: "hi"}, {Role: "model", Text: "hello"}})

	require.Len(t, got, 2)
	require.Equal(t, "model", got[1].Role)
	require.Equal(t, genai.Text("hello"), got[1].Parts[0])
}

func TestNewGeminiCompleterRequiresKey(t *testing.T) {
	_, err := NewGeminiCompleter(t.Context(), "", "gemini-3-flash-preview")
	require.Error(t, err)
}
