package huawei_s

import (
	"github.com/sshcollectorpro/cliparser/addone/parser"
)

// Platform 华为 S 系列交换机
const Platform = "huawei_s"

// Routines 返回华为 S 系列内置解析例程
func Routines() []parser.Routine {
	return []parser.Routine{
		&parser.Func{RoutineName: "DisplayVersion", Commands: []string{"display version"}, Parse: parseDisplayVersion},
		&parser.Func{
			RoutineName: "DisplayInterfaceBrief",
			Commands:    []string{"display interface brief"},
			Parse:       parseDisplayInterfaceBrief,
		},
	}
}

func init() {
	for _, rt := range Routines() {
		parser.Register(Platform, rt)
	}
}
