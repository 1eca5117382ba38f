package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CountWords counts the words of a text
// CountWords 统计文本词数
// 以空白分词统计拉丁文词数，CJK 字符单独按字计数
func CountWords(s string) int {
	count := 0
	inWord := false

	for _, r := range s {
		switch {
		case unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r):
			// CJK 字符按单字计数
			count++
			inWord = false
		case unicode.IsSpace(r):
			inWord = false
		default:
			if !inWord {
				count++
				inWord = true
			}
		}
	}
	return count
}

// MakeExcerpt derives a plain text excerpt from content
// MakeExcerpt 从内容派生纯文本摘要
// maxRunes: 摘要最大字符数，超出截断并追加省略号
func MakeExcerpt(content string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}

	// 压缩连续空白为单个空格
	excerpt := strings.Join(strings.Fields(content), " ")

	if utf8.RuneCountInString(excerpt) <= maxRunes {
		return excerpt
	}

	runes := []rune(excerpt)
	return string(runes[:maxRunes]) + "..."
}

// NormalizeTags trims, de-duplicates and drops empty tag names, keeping input order
// NormalizeTags 去除首尾空白并去重，保持原有顺序
func NormalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		result = append(result, tag)
	}
	return result
}

// EstimateReadingTime estimates reading time in minutes, minimum 1 for non-empty content
// EstimateReadingTime 估算阅读时长（分钟），非空内容最少 1 分钟
func EstimateReadingTime(wordCount, wordsPerMinute int) int {
	if wordCount <= 0 {
		return 0
	}
	if wordsPerMinute <= 0 {
		wordsPerMinute = 200
	}
	minutes := (wordCount + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
