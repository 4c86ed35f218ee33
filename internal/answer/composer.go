// Package answer turns a user message into a grounded reply: language
// detection, context retrieval, prompt assembly, model invocation, and
// follow-up suggestions.
package answer

import (
	"context"
	"log/slog"

	"confchat/internal/domain"
)

// Retriever is the query-time lookup the composer depends on.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// Reply is the chat response body. Suggestions is always non-nil, length 0-5.
type Reply struct {
	Answer      string   `json:"answer"`
	Lang        string   `json:"lang"`
	Suggestions []string `json:"suggestions"`
}

// Composer assembles grounded answers. Read-only after construction; safe
// for concurrent use.
type Composer struct {
	retriever Retriever
	llm       domain.LLM
}

func NewComposer(retriever Retriever, llm domain.LLM) *Composer {
	return &Composer{retriever: retriever, llm: llm}
}

// Answer produces a grounded reply for a non-empty message. Business
// failures degrade to localized apologetic answers, never to errors.
func (c *Composer) Answer(ctx context.Context, message string) Reply {
	lang := DetectLanguage(message)

	var contextStr string
	results, err := c.retriever.Retrieve(ctx, message)
	switch {
	case err != nil:
		slog.Error("retrieval failed, answering with degraded context", "err", err)
		contextStr = localized(retrievalErrorMessages, lang)
	case len(results) == 0:
		slog.Warn("no relevant chunks found", "lang", lang)
		contextStr = localized(noContextMessages, lang)
	default:
		contextStr = ContextFrom(results)
	}

	prompt := BuildPrompt(contextStr, message, lang)
	text, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		slog.Error("model call failed", "err", err)
		return Reply{Answer: localized(modelErrorAnswers, lang), Lang: lang, Suggestions: []string{}}
	}

	return Reply{Answer: text, Lang: lang, Suggestions: Suggestions(message, lang)}
}
