package repository

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/sshcollectorpro/cliparser/addone/parser"
	"github.com/sshcollectorpro/cliparser/pkg/tabular"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

const tabularImport = "github.com/sshcollectorpro/cliparser/pkg/tabular"

// tabularSymbols 暴露给解释器的表格解析符号
var tabularSymbols = interp.Exports{
	tabularImport + "/tabular": {
		"FillTabular":      reflect.ValueOf(tabular.FillTabular),
		"Extract":          reflect.ValueOf(tabular.Extract),
		"NewTable":         reflect.ValueOf(tabular.NewTable),
		"ErrInvalidSchema": reflect.ValueOf(&tabular.ErrInvalidSchema).Elem(),
		"Schema":           reflect.ValueOf((*tabular.Schema)(nil)),
		"Table":            reflect.ValueOf((*tabular.Table)(nil)),
		"Row":              reflect.ValueOf((*tabular.Row)(nil)),
	},
}

// 定义中允许使用的标准库包（按标识符出现情况自动导入）
var allowedPackages = map[string]string{
	"strings": "strings",
	"strconv": "strconv",
	"regexp":  "regexp",
	"fmt":     "fmt",
	"sort":    "sort",
	"errors":  "errors",
	"unicode": "unicode",
	"time":    "time",
	"math":    "math",
}

// Runtime 解释执行已适配定义
type Runtime struct {
	packages map[string]string
}

// NewRuntime 创建解释运行时
func NewRuntime() *Runtime {
	return &Runtime{packages: allowedPackages}
}

// Program 生成可供解释器执行的完整程序
func (rt *Runtime) Program(a *Adapted) string {
	var imports []string
	for ident, path := range rt.packages {
		if regexp.MustCompile(`\b` + ident + `\.`).MatchString(a.Source) {
			imports = append(imports, path)
		}
	}
	sort.Strings(imports)

	var b strings.Builder
	b.WriteString("package main\n\nimport (\n")
	for _, p := range imports {
		fmt.Fprintf(&b, "\t%q\n", p)
	}
	fmt.Fprintf(&b, "\n\t%q\n)\n\n", tabularImport)
	b.WriteString("var FillTabular = tabular.FillTabular\n\n")
	b.WriteString(a.Source)
	fmt.Fprintf(&b, "\nfunc RunRoutine(output string) (interface{}, error) {\n\tres, err := (&%s{}).CLI(output)\n\treturn res, err\n}\n", a.Name)
	return b.String()
}

// Instantiate 解释执行适配后的定义，返回可调用的例程
func (rt *Runtime) Instantiate(a *Adapted) (parser.Routine, error) {
	fail := func(format string, args ...interface{}) error {
		return parser.NewResolveError(parser.ErrAdaptation, strings.Join(a.Patterns, "|"), a.Artifact.Platform,
			"%s: "+format, append([]interface{}{a.Name}, args...)...)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fail("load stdlib: %v", err)
	}
	if err := i.Use(tabularSymbols); err != nil {
		return nil, fail("load tabular: %v", err)
	}
	if _, err := i.Eval(rt.Program(a)); err != nil {
		return nil, fail("evaluate: %v", err)
	}
	v, err := i.Eval("main.RunRoutine")
	if err != nil {
		return nil, fail("entry point: %v", err)
	}
	run, ok := v.Interface().(func(string) (interface{}, error))
	if !ok {
		return nil, fail("entry point has unexpected signature %s", v.Type())
	}
	return &interpreted{name: a.Name, patterns: append([]string(nil), a.Patterns...), run: run}, nil
}

// interpreted 解释器中的例程，调用串行化
type interpreted struct {
	mu       sync.Mutex
	name     string
	patterns []string
	run      func(string) (interface{}, error)
}

func (r *interpreted) Name() string { return r.name }

func (r *interpreted) Patterns() []string { return append([]string(nil), r.patterns...) }

func (r *interpreted) Run(output string) (interface{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run(output)
}
