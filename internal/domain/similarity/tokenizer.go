// Package similarity 实现基于 TF-IDF 与余弦相似度的讨论相似度索引
package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// stopWords 固定停用词表（英文单词 + 中文双字词）
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"to": {}, "of": {}, "in": {}, "on": {}, "for": {}, "with": {}, "an": {}, "as": {},
	"at": {}, "by": {}, "or": {}, "not": {}, "but": {}, "from": {}, "this": {}, "that": {},
	"it": {}, "its": {}, "we": {}, "you": {}, "they": {}, "he": {}, "she": {}, "our": {},
	"your": {}, "their": {}, "will": {}, "would": {}, "should": {}, "can": {}, "could": {},
	"do": {}, "does": {}, "did": {}, "have": {}, "has": {}, "had": {}, "so": {}, "if": {},
	"then": {}, "than": {}, "there": {}, "what": {}, "which": {}, "who": {}, "how": {},
	"why": {}, "when": {}, "all": {}, "any": {}, "some": {}, "no": {}, "yes": {}, "about": {},
	"我们": {}, "你们": {}, "他们": {}, "这个": {}, "那个": {}, "一个": {}, "什么": {},
	"因为": {}, "所以": {}, "但是": {}, "如果": {}, "就是": {}, "可以": {}, "没有": {},
	"不是": {}, "这样": {}, "还是": {}, "以及": {}, "或者": {}, "然后": {}, "已经": {},
	"自己": {}, "觉得": {}, "认为": {}, "这些": {}, "那些": {}, "的是": {},
}

// IsStopWord 是否为停用词
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// Tokenize 分词
//
// 转小写，非字母数字（CJK 视为字母）替换为空白后按空白切分；
// 连续的 CJK 字符展开为重叠双字（bigram）；丢弃单字符 token 和停用词。
func Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	var tokens []string
	for _, field := range strings.Fields(cleaned) {
		for _, tok := range segment(field) {
			if utf8.RuneCountInString(tok) < 2 || IsStopWord(tok) {
				continue
			}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// segment 将字段切成 CJK 段和非 CJK 段，CJK 段展开为 bigram
func segment(field string) []string {
	var out []string
	runes := []rune(field)
	start := 0
	for start < len(runes) {
		cjk := isCJK(runes[start])
		end := start + 1
		for end < len(runes) && isCJK(runes[end]) == cjk {
			end++
		}
		run := runes[start:end]
		if cjk {
			out = append(out, bigrams(run)...)
		} else {
			out = append(out, string(run))
		}
		start = end
	}
	return out
}

func bigrams(run []rune) []string {
	if len(run) < 2 {
		return []string{string(run)}
	}
	out := make([]string, 0, len(run)-1)
	for i := 0; i+1 < len(run); i++ {
		out = append(out, string(run[i:i+2]))
	}
	return out
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
