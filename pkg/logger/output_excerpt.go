package logger

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// Excerpt 回显的首尾若干行
type Excerpt struct {
	Total int      `json:"total"`
	Head  []string `json:"head"`
	Tail  []string `json:"tail"`
}

// ExcerptOutput 截取回显首尾各 maxLines 行，行数不超过 maxLines 时 Tail 为空
func ExcerptOutput(output string, maxLines int) Excerpt {
	if maxLines <= 0 {
		maxLines = 5
	}
	if output == "" {
		return Excerpt{}
	}
	output = strings.ReplaceAll(output, "\r\n", "\n")
	output = strings.ReplaceAll(output, "\r", "\n")
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	ex := Excerpt{Total: len(lines)}
	if len(lines) <= maxLines {
		ex.Head = lines
		return ex
	}
	ex.Head = append([]string(nil), lines[:maxLines]...)
	start := len(lines) - maxLines
	if start < maxLines {
		start = maxLines
	}
	ex.Tail = append([]string(nil), lines[start:]...)
	return ex
}

// String 单行形式，便于写入日志
func (e Excerpt) String() string {
	var parts []string
	if len(e.Head) > 0 {
		parts = append(parts, "head-lines: ["+strings.Join(e.Head, " ⟩ ")+"]")
	}
	if len(e.Tail) > 0 {
		parts = append(parts, "tail-lines: ["+strings.Join(e.Tail, " ⟩ ")+"]")
	}
	return strings.Join(parts, ", ")
}

// DebugCommandOutput 在 debug 级别记录待解析回显的首尾行
func DebugCommandOutput(command string, output string, maxLines int) {
	if GetLogger().Level < logrus.DebugLevel {
		return
	}
	ex := ExcerptOutput(output, maxLines)
	if ex.Total == 0 {
		return
	}
	WithFields(logrus.Fields{"command": command, "lines": ex.Total}).Debugf("Parse input: %s", ex)
}
