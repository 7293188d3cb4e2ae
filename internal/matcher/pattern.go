// Package matcher 判断字面命令是否满足模板命令（字面 token + {占位符} token）
package matcher

import (
	"strings"
)

// Token 模板中的单个 token
type Token struct {
	Text        string
	Placeholder bool
}

// Pattern 模板命令，例如 "show ip ospf neighbor {interface}"
type Pattern struct {
	raw    string
	tokens []Token
}

// IsPlaceholder 判断 token 是否为占位符（形如 {name}）
func IsPlaceholder(tok string) bool {
	return len(tok) >= 2 && strings.HasPrefix(tok, "{") && strings.HasSuffix(tok, "}")
}

// Parse 按空白切分模板命令
func Parse(raw string) Pattern {
	fields := strings.Fields(raw)
	p := Pattern{raw: strings.Join(fields, " "), tokens: make([]Token, len(fields))}
	for i, f := range fields {
		p.tokens[i] = Token{Text: f, Placeholder: IsPlaceholder(f)}
	}
	return p
}

// String 规范化后的模板文本
func (p Pattern) String() string { return p.raw }

// Len token 数量
func (p Pattern) Len() int { return len(p.tokens) }

// Tokens 返回 token 副本
func (p Pattern) Tokens() []Token { return append([]Token(nil), p.tokens...) }

// Literals 字面 token 数量，数值越大越具体
func (p Pattern) Literals() int {
	n := 0
	for _, t := range p.tokens {
		if !t.Placeholder {
			n++
		}
	}
	return n
}

// HasPlaceholder 是否包含占位符
func (p Pattern) HasPlaceholder() bool { return p.Literals() < len(p.tokens) }

// Match 逐 token 比较：数量必须相同，占位符匹配任意 token，字面 token 需完全相等
func (p Pattern) Match(command string) bool {
	return p.matchFields(strings.Fields(command))
}

func (p Pattern) matchFields(fields []string) bool {
	if len(fields) != len(p.tokens) || len(fields) == 0 {
		return false
	}
	for i, t := range p.tokens {
		if t.Placeholder {
			continue
		}
		if strings.TrimSpace(fields[i]) != t.Text {
			return false
		}
	}
	return true
}

// Matches 便捷函数
func Matches(pattern, command string) bool {
	return Parse(pattern).Match(command)
}

// Normalize 合并命令中的连续空白
func Normalize(command string) string {
	return strings.Join(strings.Fields(command), " ")
}

// Overlaps 判断两个模板是否可能同时匹配同一条命令
func Overlaps(a, b Pattern) bool {
	if a.Len() != b.Len() || a.Len() == 0 {
		return false
	}
	for i := range a.tokens {
		ta, tb := a.tokens[i], b.tokens[i]
		if ta.Placeholder || tb.Placeholder {
			continue
		}
		if ta.Text != tb.Text {
			return false
		}
	}
	return true
}

// Set 一组模板命令
type Set []Pattern

// NewSet 由模板文本构造集合
func NewSet(raws ...string) Set {
	s := make(Set, 0, len(raws))
	for _, r := range raws {
		if p := Parse(r); p.Len() > 0 {
			s = append(s, p)
		}
	}
	return s
}

// Strings 模板文本列表
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.String()
	}
	return out
}

// Match 先做整串相等的快速判断，再逐个模板匹配
func (s Set) Match(command string) bool {
	_, _, ok := s.Best(command)
	return ok
}

// Best 返回最具体的匹配模板及其字面 token 数
func (s Set) Best(command string) (Pattern, int, bool) {
	norm := Normalize(command)
	for _, p := range s {
		if p.raw == norm {
			return p, p.Literals(), true
		}
	}
	fields := strings.Fields(norm)
	var (
		best  Pattern
		score = -1
	)
	for _, p := range s {
		if !p.matchFields(fields) {
			continue
		}
		if l := p.Literals(); l > score {
			best, score = p, l
		}
	}
	if score < 0 {
		return Pattern{}, 0, false
	}
	return best, score, true
}
