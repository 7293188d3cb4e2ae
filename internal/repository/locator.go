package repository

import (
	"go/ast"
	goparser "go/parser"
	"go/token"
	"regexp"
	"strconv"
	"strings"

	"github.com/sshcollectorpro/cliparser/addone/parser"
	"github.com/sshcollectorpro/cliparser/internal/matcher"
)

// Definition 从定义源文件中定位到的解析例程
type Definition struct {
	Name     string   `json:"name"`
	Schema   string   `json:"schema"`
	Patterns []string `json:"patterns"`
	Source   string   `json:"-"`
	Artifact Artifact `json:"artifact"`
}

// Specificity 命令在该定义下的最佳匹配字面 token 数，不匹配返回 -1
func (d *Definition) Specificity(command string) int {
	if _, score, ok := matcher.NewSet(d.Patterns...).Best(command); ok {
		return score
	}
	return -1
}

var (
	// type ShowSwitch struct{ ShowSwitchSchema }
	introRe = regexp.MustCompile(`^type\s+(\w+)\s+struct\s*\{\s*(\w+Schema)\s*\}\s*$`)
	// func (p *ShowSwitch) CLICommand() []string {
	patternDeclRe = regexp.MustCompile(`^func\s+\(\s*\w*\s*\*?\s*(\w+)\s*\)\s+CLICommand\(\)\s+(?:\[\]string|string)\s*\{`)
	// Go 字符串字面量（解释型与原生）
	stringLitRe = regexp.MustCompile("\"(?:[^\"\\\\\\n]|\\\\.)*\"|`[^`]*`")
)

// verbLiteralRe 匹配以命令动词开头的字符串字面量
func (r *Repository) verbLiteralRe() *regexp.Regexp {
	verbs := make([]string, len(r.verbs))
	for i, v := range r.verbs {
		verbs[i] = regexp.QuoteMeta(v)
	}
	alt := strings.Join(verbs, "|")
	return regexp.MustCompile("\"((?:" + alt + `)\b[^"\n]*)"` + "|`((?:" + alt + ")\\b[^`]*)`")
}

// commandLiterals 粗略提取文件中所有命令形态的字符串
func (r *Repository) commandLiterals(text string) []string {
	var out []string
	for _, m := range r.verbLiteralRe().FindAllStringSubmatch(text, -1) {
		lit := m[1]
		if lit == "" {
			lit = m[2]
		}
		out = append(out, lit)
	}
	return out
}

// qualifies 命令与文件中的某个命令字面量完全相同，或按模板匹配
func (r *Repository) qualifies(command string, a Artifact) (bool, error) {
	text, err := a.Text()
	if err != nil {
		return false, err
	}
	norm := matcher.Normalize(command)
	for _, lit := range r.commandLiterals(text) {
		if matcher.Normalize(lit) == norm || matcher.Matches(lit, command) {
			return true, nil
		}
	}
	return false, nil
}

// Find 返回第一个可能包含该命令定义的候选文件（预过滤）
func (r *Repository) Find(command string, candidates []Artifact) (*Artifact, error) {
	for i := range candidates {
		ok, err := r.qualifies(command, candidates[i])
		if err != nil {
			return nil, err
		}
		if ok {
			a := candidates[i]
			return &a, nil
		}
	}
	return nil, nil
}

// FindAll 返回所有可能包含该命令定义的候选文件（扫描顺序）
func (r *Repository) FindAll(command string, candidates []Artifact) ([]Artifact, error) {
	var out []Artifact
	for _, a := range candidates {
		ok, err := r.qualifies(command, a)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Extract 在文件中定位首个声明了匹配命令的定义，没有时返回 nil
func (r *Repository) Extract(command string, a Artifact) (*Definition, error) {
	defs, err := r.extractAll(command, a)
	if err != nil || len(defs) == 0 {
		return nil, err
	}
	return defs[0], nil
}

// extractAll 文件中所有匹配命令的定义（出现顺序）
func (r *Repository) extractAll(command string, a Artifact) ([]*Definition, error) {
	text, err := a.Text()
	if err != nil {
		return nil, err
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var (
		src     *sourceFile
		out     []*Definition
		name    string
		schema  string
		decl    strings.Builder
		inDecl  bool
		depth   int
		lines   = strings.Split(text, "\n")
		matched = map[string]bool{}
	)
	for _, line := range lines {
		if inDecl {
			decl.WriteString("\n")
			decl.WriteString(line)
			depth += braceDelta(line)
			if depth > 0 {
				continue
			}
			inDecl = false
		} else {
			if m := introRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
				name, schema = m[1], m[2]
				continue
			}
			m := patternDeclRe.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil || m[1] != name || name == "" {
				continue
			}
			decl.Reset()
			decl.WriteString(line)
			depth = braceDelta(line)
			if depth > 0 {
				inDecl = true
				continue
			}
		}

		// 声明完整：求值并匹配
		patterns := evalLiterals(decl.String())
		if matched[name] || !matcher.NewSet(patterns...).Match(command) {
			continue
		}
		if src == nil {
			if src, err = parseSource(text); err != nil {
				return nil, parser.NewResolveError(parser.ErrAdaptation, command, a.Platform, "%s: %v", a.Name, err)
			}
		}
		body := src.captureBody(name, schema)
		if body == "" {
			continue
		}
		matched[name] = true
		out = append(out, &Definition{
			Name:     name,
			Schema:   schema,
			Patterns: patterns,
			Source:   body,
			Artifact: a,
		})
	}
	return out, nil
}

// braceDelta 统计一行中未处于字符串内的花括号增量
func braceDelta(line string) int {
	line = stringLitRe.ReplaceAllString(line, `""`)
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	return strings.Count(line, "{") - strings.Count(line, "}")
}

// evalLiterals 取出声明中的全部字符串字面量
func evalLiterals(decl string) []string {
	var out []string
	for _, lit := range stringLitRe.FindAllString(decl, -1) {
		s, err := strconv.Unquote(lit)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

// sourceFile 已做语法解析的定义文件
type sourceFile struct {
	text string
	tf   *token.File
	file *ast.File
}

func parseSource(text string) (*sourceFile, error) {
	fset := token.NewFileSet()
	f, err := goparser.ParseFile(fset, "", text, goparser.ParseComments)
	if err != nil {
		return nil, err
	}
	return &sourceFile{text: text, tf: fset.File(f.Pos()), file: f}, nil
}

func (s *sourceFile) offset(p token.Pos) int { return s.tf.Offset(p) }

// introOf 识别 type X struct{ XSchema } 形式的引入声明
func introOf(gd *ast.GenDecl) (name, schema string, ok bool) {
	if gd.Tok != token.TYPE || gd.Lparen.IsValid() || len(gd.Specs) != 1 {
		return "", "", false
	}
	ts, ok := gd.Specs[0].(*ast.TypeSpec)
	if !ok {
		return "", "", false
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok || st.Fields == nil || len(st.Fields.List) != 1 || len(st.Fields.List[0].Names) != 0 {
		return "", "", false
	}
	id, ok := st.Fields.List[0].Type.(*ast.Ident)
	if !ok || !strings.HasSuffix(id.Name, "Schema") {
		return "", "", false
	}
	return ts.Name.Name, id.Name, true
}

// receiverOf 方法接收者的类型名
func receiverOf(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return ""
	}
	t := fd.Recv.List[0].Type
	if star, ok := t.(*ast.StarExpr); ok {
		t = star.X
	}
	if id, ok := t.(*ast.Ident); ok {
		return id.Name
	}
	return ""
}

// captureBody 从定义引入声明截取到下一个类型声明（含其文档注释）或文件结尾，
// 区间外以该类型为接收者的方法追加在后
func (s *sourceFile) captureBody(name, schema string) string {
	start, end := -1, len(s.text)
	for _, d := range s.file.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		if start < 0 {
			if n, sc, ok := introOf(gd); ok && n == name && sc == schema {
				start = s.offset(gd.Pos())
			}
			continue
		}
		end = s.offset(gd.Pos())
		if gd.Doc != nil {
			end = s.offset(gd.Doc.Pos())
		}
		break
	}
	if start < 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(strings.TrimRight(s.text[start:end], " \t\n"))
	b.WriteString("\n")
	for _, d := range s.file.Decls {
		fd, ok := d.(*ast.FuncDecl)
		if !ok || receiverOf(fd) != name {
			continue
		}
		if off := s.offset(fd.Pos()); off >= start && off < end {
			continue
		}
		from := s.offset(fd.Pos())
		if fd.Doc != nil {
			from = s.offset(fd.Doc.Pos())
		}
		b.WriteString("\n")
		b.WriteString(s.text[from:s.offset(fd.End())])
		b.WriteString("\n")
	}
	return b.String()
}
