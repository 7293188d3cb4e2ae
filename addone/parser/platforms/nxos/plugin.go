package nxos

import (
	"github.com/sshcollectorpro/cliparser/addone/parser"
)

// Platform 平台标识（引擎默认平台）
const Platform = "nxos"

// Routines 返回 nxos 平台内置的解析例程
func Routines() []parser.Routine {
	return []parser.Routine{
		&parser.Func{RoutineName: "ShowVersion", Commands: []string{"show version"}, Parse: parseShowVersion},
		&parser.Func{
			RoutineName: "ShowInterfaceBrief",
			Commands:    []string{"show interface brief", "show interface {interface} brief"},
			Parse:       parseShowInterfaceBrief,
		},
	}
}

func init() {
	for _, rt := range Routines() {
		parser.Register(Platform, rt)
	}
}
