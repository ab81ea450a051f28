package versioning

import (
	"bytes"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// LineChangeType 行变化类型
type LineChangeType string

const (
	LineUnchanged LineChangeType = "unchanged"
	LineAdded     LineChangeType = "added"
	LineRemoved   LineChangeType = "removed"
)

// LineChange 行级差异中的一行
type LineChange struct {
	Type    LineChangeType `json:"type"`
	Line    string         `json:"line"`
	OldLine int            `json:"oldLine,omitempty"` // 旧文本中的行号（从 1 开始）
	NewLine int            `json:"newLine,omitempty"` // 新文本中的行号（从 1 开始）
}

// GetTextDiff 按行比较两段文本
//
// 这是按位置的双指针比较，不是 LCS：两侧当前行相同则一起前进，
// 否则旧侧记为删除、新侧记为新增并各自前进。中间插入一行会让后续所有行
// 都变成删除+新增对，调用方依赖这一语义，改为 LCS 前需要单独评估。
func GetTextDiff(text1, text2 string) []LineChange {
	a := splitLines(text1)
	b := splitLines(text2)

	changes := make([]LineChange, 0, max(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		if i < len(a) && j < len(b) && a[i] == b[j] {
			changes = append(changes, LineChange{Type: LineUnchanged, Line: a[i], OldLine: i + 1, NewLine: j + 1})
			i++
			j++
			continue
		}
		if i < len(a) {
			changes = append(changes, LineChange{Type: LineRemoved, Line: a[i], OldLine: i + 1})
			i++
		}
		if j < len(b) {
			changes = append(changes, LineChange{Type: LineAdded, Line: b[j], NewLine: j + 1})
			j++
		}
	}
	return changes
}

// HasChanges 行级差异中是否存在新增或删除
func HasChanges(changes []LineChange) bool {
	for _, c := range changes {
		if c.Type != LineUnchanged {
			return true
		}
	}
	return false
}

// FormatUnified 将行级差异渲染为统一 diff 格式的单个 hunk
func FormatUnified(changes []LineChange) (string, error) {
	if len(changes) == 0 {
		return "", nil
	}

	var body bytes.Buffer
	hunk := &diff.Hunk{OrigStartLine: 1, NewStartLine: 1}
	for _, c := range changes {
		switch c.Type {
		case LineUnchanged:
			body.WriteByte(' ')
			hunk.OrigLines++
			hunk.NewLines++
		case LineRemoved:
			body.WriteByte('-')
			hunk.OrigLines++
		case LineAdded:
			body.WriteByte('+')
			hunk.NewLines++
		}
		body.WriteString(c.Line)
		body.WriteByte('\n')
	}
	hunk.Body = body.Bytes()

	out, err := diff.PrintHunks([]*diff.Hunk{hunk})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
