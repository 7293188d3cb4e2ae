package tabular

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	json "github.com/goccy/go-json"
)

// ErrInvalidSchema 表格定义无效（缺少表头/标签字段或正则无法编译）
var ErrInvalidSchema = errors.New("invalid tabular schema")

// Schema 表格解析定义
// HeaderFields 为表头字段（允许正则片段），LabelFields 为行字段名称，首个字段作为行键
// Terminator 为结束行正则，空串时首个非数据行即结束
type Schema struct {
	RightJustified bool     `json:"right_justified"`
	HeaderFields   []string `json:"header_fields"`
	LabelFields    []string `json:"label_fields"`
	Terminator     string   `json:"terminator"`
}

// Row 单行数据，字段顺序与 LabelFields 一致
type Row struct {
	fields []string
	values map[string]string
}

func newRow(fields []string, values []string) *Row {
	r := &Row{fields: fields, values: make(map[string]string, len(fields))}
	for i, f := range fields {
		r.values[f] = strings.TrimSpace(values[i])
	}
	return r
}

// Get 获取字段值
func (r *Row) Get(field string) string { return r.values[field] }

// Fields 返回字段名称（有序）
func (r *Row) Fields() []string { return append([]string(nil), r.fields...) }

// Map 转换为普通 map
func (r *Row) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

func (r *Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKV(&buf, f, r.values[f]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Table 表格解析结果：行键 -> 行，保持源文本中的出现顺序
// 重复行键覆盖旧值但保留首次出现的位置
type Table struct {
	keys []string
	rows map[string]*Row
}

// NewTable 创建空表
func NewTable() *Table {
	return &Table{rows: make(map[string]*Row)}
}

func (t *Table) put(key string, row *Row) {
	if _, ok := t.rows[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.rows[key] = row
}

// Len 行数
func (t *Table) Len() int { return len(t.keys) }

// Keys 行键（有序）
func (t *Table) Keys() []string { return append([]string(nil), t.keys...) }

// Row 按行键获取
func (t *Table) Row(key string) (*Row, bool) {
	r, ok := t.rows[key]
	return r, ok
}

// Map 转换为普通嵌套 map（丢失顺序）
func (t *Table) Map() map[string]map[string]string {
	out := make(map[string]map[string]string, len(t.rows))
	for k, r := range t.rows {
		out[k] = r.Map()
	}
	return out
}

func (t *Table) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		rb, err := t.rows[k].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(rb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKV(buf *bytes.Buffer, k, v string) error {
	kb, err := json.Marshal(k)
	if err != nil {
		return err
	}
	vb, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(kb)
	buf.WriteByte(':')
	buf.Write(vb)
	return nil
}

// compiled 编译后的表格正则
type compiled struct {
	header     *regexp.Regexp
	row        *regexp.Regexp
	terminator *regexp.Regexp
	labels     []string
}

func compile(s Schema) (*compiled, error) {
	if len(s.HeaderFields) == 0 {
		return nil, fmt.Errorf("%w: no header fields", ErrInvalidSchema)
	}
	if len(s.LabelFields) == 0 {
		return nil, fmt.Errorf("%w: no label fields", ErrInvalidSchema)
	}

	// 表头：字段之间至少一个空白，只锚定行首以容忍行尾多余内容
	var hb strings.Builder
	hb.WriteString(`^\s*`)
	for i, h := range s.HeaderFields {
		if i > 0 {
			hb.WriteString(`\s+`)
		}
		hb.WriteString(strings.TrimSpace(h))
	}
	header, err := regexp.Compile(hb.String())
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrInvalidSchema, err)
	}

	// 数据行：首列允许 "*" 标记，其余列为非空白串，整行锚定
	var rb strings.Builder
	rb.WriteString(`^(\*?\s*\S+)`)
	for range s.LabelFields[1:] {
		rb.WriteString(`\s+(\S+)`)
	}
	rb.WriteString(`\s*$`)
	row := regexp.MustCompile(rb.String())

	// 与表头一致，仅在行首匹配；空串匹配任意行，首个非数据行即结束
	term, err := regexp.Compile(`^(?:` + s.Terminator + `)`)
	if err != nil {
		return nil, fmt.Errorf("%w: terminator: %v", ErrInvalidSchema, err)
	}

	labels := make([]string, len(s.LabelFields))
	for i, l := range s.LabelFields {
		labels[i] = strings.TrimSpace(l)
	}
	return &compiled{header: header, row: row, terminator: term, labels: labels}, nil
}

// Extract 按表格定义解析文本
// 未找到表头返回空表；未遇到结束符时返回已解析的行
func Extract(s Schema, text string) (*Table, error) {
	c, err := compile(s)
	if err != nil {
		return nil, err
	}

	table := NewTable()
	inTable := false
	for _, line := range splitLines(text) {
		if !inTable {
			if c.header.MatchString(line) {
				inTable = true
			}
			continue
		}
		if s.RightJustified {
			line = strings.TrimLeftFunc(line, unicode.IsSpace)
		}
		if m := c.row.FindStringSubmatch(line); m != nil {
			r := newRow(c.labels, m[1:])
			table.put(r.Get(c.labels[0]), r)
			continue
		}
		if c.terminator.MatchString(line) {
			break
		}
	}
	return table, nil
}

// FillTabular 按位置参数解析表格，供解析例程直接调用
func FillTabular(rightJustified bool, headerFields, labelFields []string, terminator string, output string) (*Table, error) {
	return Extract(Schema{
		RightJustified: rightJustified,
		HeaderFields:   headerFields,
		LabelFields:    labelFields,
		Terminator:     terminator,
	}, output)
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}
