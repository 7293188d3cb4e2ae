package iosxe

import (
	"github.com/sshcollectorpro/cliparser/addone/parser"
)

// Platform 平台标识
const Platform = "iosxe"

// Routines 返回 iosxe 平台内置的解析例程
func Routines() []parser.Routine {
	return []parser.Routine{
		&parser.Func{
			RoutineName: "ShowIpOspfNeighbor",
			Commands:    []string{"show ip ospf neighbor", "show ip ospf neighbor {interface}"},
			Parse:       parseShowIpOspfNeighbor,
		},
		&parser.Func{
			RoutineName: "ShowIpInterfaceBrief",
			Commands:    []string{"show ip interface brief", "show ip interface brief {interface}"},
			Parse:       parseShowIpInterfaceBrief,
		},
		&parser.Func{
			RoutineName: "ShowVersion",
			Commands:    []string{"show version"},
			Parse:       parseShowVersion,
		},
	}
}

func init() {
	for _, rt := range Routines() {
		parser.Register(Platform, rt)
	}
}
