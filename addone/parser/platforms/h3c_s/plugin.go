package h3c_s

import (
	"github.com/sshcollectorpro/cliparser/addone/parser"
)

// Platform H3C S 系列交换机
const Platform = "h3c_s"

func Routines() []parser.Routine {
	return []parser.Routine{
		&parser.Func{RoutineName: "DisplayVersion", Commands: []string{"display version"}, Parse: parseDisplayVersion},
	}
}

func init() {
	for _, rt := range Routines() {
		parser.Register(Platform, rt)
	}
}
