package answer

import "strings"

const maxSuggestions = 5

// suggestionRule maps trigger keywords to canonical follow-up phrases. Rules
// are evaluated in order; a rule fires when any trigger appears in the
// lowercased message.
type suggestionRule struct {
	triggers []string
	phrases  []string
}

// One ordered rule list per language, covering the topic, schedule,
// location, procedure, news, and culture keyword groups.
var suggestionRules = map[string][]suggestionRule{
	LangVietnamese: {
		{
			triggers: []string{"hội nghị", "tổng quan", "giới thiệu"},
			phrases: []string{
				"Hội nghị này là gì?",
				"Tầm nhìn và chủ đề của hội nghị",
				"Các nền kinh tế thành viên",
				"Biểu tượng và chủ đề năm nay",
			},
		},
		{
			triggers: []string{"lịch", "sự kiện", "cuộc họp"},
			phrases: []string{
				"Lịch trình các cuộc họp chính",
				"Các sự kiện bên lề",
				"Cuộc họp đầu tiên diễn ra khi nào?",
			},
		},
		{
			triggers: []string{"địa điểm", "tổ chức", "nơi"},
			phrases: []string{
				"Giới thiệu về thành phố đăng cai",
				"Thông tin về các địa điểm tổ chức",
				"Khám phá các thành phố vệ tinh",
			},
		},
		{
			triggers: []string{"thủ tục", "nhập cảnh", "visa", "di chuyển"},
			phrases: []string{
				"Thông tin di chuyển đến địa điểm",
				"Thông tin thực tế (khí hậu, tiền tệ)",
				"Số điện thoại khẩn cấp",
			},
		},
		{
			triggers: []string{"tin tức", "báo chí", "mới nhất"},
			phrases: []string{
				"Đọc các thông cáo báo chí mới",
				"Tin tức về các cuộc họp gần đây",
			},
		},
		{
			triggers: []string{"văn hóa", "ẩm thực", "du lịch"},
			phrases: []string{
				"Điểm tham quan nổi bật",
				"Văn hóa và thiên nhiên địa phương",
				"Địa điểm ăn uống được gợi ý",
			},
		},
	},
	LangEnglish: {
		{
			triggers: []string{"summit", "overview", "introduction"},
			phrases: []string{
				"What is this conference about?",
				"Vision and theme of the conference",
				"Member economies",
				"This year's emblem and theme",
			},
		},
		{
			triggers: []string{"schedule", "event", "meetings"},
			phrases: []string{
				"Key meetings schedule",
				"Side events",
				"When is the first meeting?",
			},
		},
		{
			triggers: []string{"location", "where", "venue"},
			phrases: []string{
				"About the host city",
				"Venue information",
				"Explore the satellite cities",
			},
		},
		{
			triggers: []string{"procedure", "entry", "visa", "travel"},
			phrases: []string{
				"Transportation to the venue",
				"Practical information (climate, currency)",
				"Emergency phone numbers",
			},
		},
		{
			triggers: []string{"news", "press", "latest"},
			phrases: []string{
				"Read the latest press releases",
				"News about recent meetings",
			},
		},
		{
			triggers: []string{"culture", "cuisine", "tourism", "attractions"},
			phrases: []string{
				"Top attractions",
				"Local nature and culture",
				"Recommended local eateries",
			},
		},
	},
}

var generalSuggestions = map[string][]string{
	LangVietnamese: {
		"Giới thiệu về hội nghị",
		"Lịch trình các cuộc họp chính",
		"Thông tin về địa điểm tổ chức",
		"Các bài báo mới nhất",
		"Hỗ trợ nhập cảnh",
	},
	LangEnglish: {
		"Overview of the conference",
		"Key meetings schedule",
		"Venue information",
		"Latest press releases",
		"Entry support",
	},
}

// Suggestions derives up to five follow-up phrases by scanning the
// lowercased message against the language's keyword groups. Matches keep
// first-seen order with duplicates removed; when nothing matches, the
// language's general suggestions are returned.
func Suggestions(message, lang string) []string {
	rules, ok := suggestionRules[lang]
	if !ok {
		lang = FallbackLang
		rules = suggestionRules[lang]
	}
	msg := strings.ToLower(message)

	var matched []string
	for _, rule := range rules {
		for _, trigger := range rule.triggers {
			if strings.Contains(msg, trigger) {
				matched = append(matched, rule.phrases...)
				break
			}
		}
	}

	seen := make(map[string]struct{}, len(matched))
	unique := make([]string, 0, len(matched))
	for _, s := range matched {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		unique = append(unique, s)
	}

	if len(unique) == 0 {
		general := generalSuggestions[lang]
		if len(general) > maxSuggestions {
			general = general[:maxSuggestions]
		}
		return general
	}
	if len(unique) > maxSuggestions {
		unique = unique[:maxSuggestions]
	}
	return unique
}
