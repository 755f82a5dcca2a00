package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// WrapText 将文本按指定宽度自动换行
// 参数:
//   - textStr: 要换行的文本
//   - font: 字体
//   - maxWidth: 最大宽度（像素）
//
// 返回:
//   - []string: 换行后的文本数组（每个元素为一行）
func WrapText(textStr string, font *text.GoTextFace, maxWidth float64) []string {
	if font == nil {
		return []string{textStr}
	}
	return WrapWords(textStr, maxWidth, func(s string) float64 {
		w, _ := text.Measure(s, font, 0)
		return w
	})
}

// WrapWords 按单词换行，measure 返回一段文本的宽度
//
// 换行规则:
//   - 在空白处断行，多个空白合并为一个空格
//   - 单个单词超过最大宽度时按字符强制断行
func WrapWords(textStr string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(textStr)
	if len(words) == 0 || maxWidth <= 0 {
		return []string{textStr}
	}

	var lines []string
	current := ""
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = ""
		if measure(word) <= maxWidth {
			current = word
			continue
		}
		// 超长单词
		for len(word) > 0 {
			r, size := utf8.DecodeRuneInString(word)
			ch := string(r)
			if current != "" && measure(current+ch) > maxWidth {
				lines = append(lines, current)
				current = ""
			}
			current += ch
			word = word[size:]
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
