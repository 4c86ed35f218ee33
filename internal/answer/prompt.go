package answer

import (
	"fmt"
	"strings"

	"confchat/internal/domain"
)

var languageInstructions = map[string]string{
	LangVietnamese: "Hãy trả lời câu hỏi bằng tiếng Việt.",
	LangEnglish:    "Please answer the question in English.",
}

var refusalMessages = map[string]string{
	LangVietnamese: "Tôi xin lỗi, tôi không tìm thấy thông tin cụ thể cho câu hỏi này trong dữ liệu của mình. Bạn có muốn hỏi về chủ đề khác không?",
	LangEnglish:    "I'm sorry, I could not find specific information for this question in my data. Would you like to ask about another topic?",
}

const promptTemplate = `You are a friendly, informative, multilingual assistant for a conference event.
Your task is to answer the user's question accurately and helpfully based on the provided information.

**Relevant context:**
%s

**User question:**
%s

---
**Answer guidelines:**
1. Use only the information provided in the relevant context to answer the question.
2. If the context does not contain enough information to answer, say exactly: "%s"
3. %s
4. Avoid giving information that is not in the context.
5. Keep the answer short, direct, and focused on the question.`

// ContextFrom joins retrieved chunk contents with blank lines into the
// context block of the prompt.
func ContextFrom(results []domain.SearchResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Chunk.Content)
	}
	return strings.Join(parts, "\n\n")
}

// BuildPrompt assembles the grounded prompt: fixed framing, retrieved
// context, the literal question, and the response-language instruction. The
// grounding and refusal rules live in the prompt itself; they are a contract
// with the model, not something code can enforce.
func BuildPrompt(contextStr, question, lang string) string {
	instruction, ok := languageInstructions[lang]
	if !ok {
		instruction = "Please answer the question in English if possible."
	}
	refusal := localized(refusalMessages, lang)
	return fmt.Sprintf(promptTemplate, contextStr, question, refusal, instruction)
}
