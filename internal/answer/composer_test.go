package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confchat/internal/domain"
)

type stubRetriever struct {
	results []domain.SearchResult
	err     error
}

func (s *stubRetriever) Retrieve(_ context.Context, _ string) ([]domain.SearchResult, error) {
	return s.results, s.err
}

type stubLLM struct {
	lastPrompt string
	reply      string
	err        error
}

func (s *stubLLM) Complete(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	return s.reply, s.err
}

func (s *stubLLM) Ping(_ context.Context) error { return nil }

func results(contents ...string) []domain.SearchResult {
	out := make([]domain.SearchResult, len(contents))
	for i, c := range contents {
		out[i] = domain.SearchResult{Chunk: domain.Chunk{Content: c}, Score: 1}
	}
	return out
}

func TestAnswer_GroundedReply(t *testing.T) {
	llm := &stubLLM{reply: "The summit opens in October."}
	c := NewComposer(&stubRetriever{results: results("opening chunk", "venue chunk")}, llm)

	reply := c.Answer(context.Background(), "When does the summit schedule start?")

	assert.Equal(t, "The summit opens in October.", reply.Answer)
	assert.Equal(t, LangEnglish, reply.Lang)
	assert.NotEmpty(t, reply.Suggestions)
	assert.LessOrEqual(t, len(reply.Suggestions), 5)

	// Prompt carries both chunks joined by a blank line, plus the question.
	assert.Contains(t, llm.lastPrompt, "opening chunk\n\nvenue chunk")
	assert.Contains(t, llm.lastPrompt, "When does the summit schedule start?")
	assert.Contains(t, llm.lastPrompt, "Please answer the question in English.")
}

func TestAnswer_VietnameseDetection(t *testing.T) {
	llm := &stubLLM{reply: "Trả lời."}
	c := NewComposer(&stubRetriever{results: results("ngữ cảnh")}, llm)

	reply := c.Answer(context.Background(), "Lịch trình các cuộc họp của hội nghị như thế nào?")

	assert.Equal(t, LangVietnamese, reply.Lang)
	assert.Contains(t, llm.lastPrompt, "Hãy trả lời câu hỏi bằng tiếng Việt.")
}

func TestAnswer_EmptyRetrievalProceedsWithFallbackContext(t *testing.T) {
	llm := &stubLLM{reply: "refusal"}
	c := NewComposer(&stubRetriever{}, llm)

	reply := c.Answer(context.Background(), "something entirely unrelated")

	assert.Equal(t, "refusal", reply.Answer)
	assert.Contains(t, llm.lastPrompt, noContextMessages[LangEnglish])
}

func TestAnswer_RetrievalErrorDegradesNotAborts(t *testing.T) {
	llm := &stubLLM{reply: "still answered"}
	c := NewComposer(&stubRetriever{err: errors.New("store down")}, llm)

	reply := c.Answer(context.Background(), "a question")

	assert.Equal(t, "still answered", reply.Answer)
	assert.Contains(t, llm.lastPrompt, retrievalErrorMessages[LangEnglish])
}

func TestAnswer_ModelErrorYieldsLocalizedApology(t *testing.T) {
	llm := &stubLLM{err: errors.New("model down")}
	c := NewComposer(&stubRetriever{results: results("ctx")}, llm)

	reply := c.Answer(context.Background(), "a question")

	assert.Equal(t, modelErrorAnswers[LangEnglish], reply.Answer)
	require.NotNil(t, reply.Suggestions)
	assert.Empty(t, reply.Suggestions)
}

func TestDetectLanguage(t *testing.T) {
	assert.Equal(t, LangVietnamese, DetectLanguage("Lịch trình các cuộc họp của hội nghị như thế nào?"))
	assert.Equal(t, LangEnglish, DetectLanguage("What is the schedule of the main meetings?"))
	assert.Equal(t, FallbackLang, DetectLanguage("   "))
}

func TestBuildPrompt_UnknownLanguageInstruction(t *testing.T) {
	p := BuildPrompt("ctx", "q", "fr")
	assert.Contains(t, p, "Please answer the question in English if possible.")
	assert.True(t, strings.Contains(p, refusalMessages[LangEnglish]))
}
