package parser

// Routine 单条命令的解析例程
// Patterns 返回可处理的模板命令（支持 {占位符}），Run 将回显解析为结构化数据
type Routine interface {
	Name() string
	Patterns() []string
	Run(output string) (interface{}, error)
}

// Func 以函数形式实现 Routine，便于平台包按文件声明例程
type Func struct {
	RoutineName string
	Commands    []string
	Parse       func(output string) (interface{}, error)
}

func (f *Func) Name() string { return f.RoutineName }

func (f *Func) Patterns() []string { return append([]string(nil), f.Commands...) }

func (f *Func) Run(output string) (interface{}, error) { return f.Parse(output) }

// Result 常用的结构化结果类型
type Result = map[string]interface{}
