package answer

// EmptyQuestionAnswer is returned verbatim for an empty message, with
// language "unknown" and no suggestions.
const EmptyQuestionAnswer = "Please provide a question."

// NotReadyAnswers is returned when the model, embeddings, or vector store
// are not initialized. Still an HTTP success, by design.
var NotReadyAnswers = map[string]string{
	LangVietnamese: "Hệ thống chưa sẵn sàng. Vui lòng thử lại sau hoặc liên hệ quản trị viên.",
	LangEnglish:    "System not ready. Please try again later or contact the administrator.",
}

// modelErrorAnswers is returned when the model call fails.
var modelErrorAnswers = map[string]string{
	LangVietnamese: "Đã xảy ra lỗi trong quá trình xử lý câu hỏi của bạn. Vui lòng thử lại sau.",
	LangEnglish:    "An error occurred while processing your request. Please try again later.",
}

// noContextMessages stands in as context when retrieval finds nothing.
var noContextMessages = map[string]string{
	LangVietnamese: "Không tìm thấy thông tin liên quan.",
	LangEnglish:    "No relevant information found.",
}

// retrievalErrorMessages stands in as context when retrieval itself fails;
// the request still proceeds with degraded context.
var retrievalErrorMessages = map[string]string{
	LangVietnamese: "Lỗi khi truy vấn thông tin.",
	LangEnglish:    "Error while querying information.",
}

// NotReadyAnswer localizes the "system not ready" message.
func NotReadyAnswer(lang string) string {
	return localized(NotReadyAnswers, lang)
}
