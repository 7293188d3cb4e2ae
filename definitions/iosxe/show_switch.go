//go:build ignore

package iosxe

import (
	parsergen "github.com/sshcollectorpro/cliparser/pkg/tabular"
)

// ShowSwitchSchema 运行时提供设备句柄
type ShowSwitchSchema struct {
	Device interface{ Execute(command string) string }
}

// ShowSwitch 堆叠成员表，Switch# 列右对齐，活动成员带 * 标记
//
//	Switch#   Role    Mac Address     Priority Version  State
//	-------------------------------------------------------------
//	*1       Active   0045.1d25.5e00     15     V02     Ready
//	 2       Standby  00b6.7030.b780     14     V02     Ready
type ShowSwitch struct{ ShowSwitchSchema }

func (p *ShowSwitch) CLICommand() []string {
	return []string{
		"show switch",
	}
}

func (p *ShowSwitch) CLI(output string) (interface{}, error) {
	var out string
	if output == "" {
		out = p.Device.Execute(p.CLICommand()[0])
	} else {
		out = output
	}

	header := []string{"Switch#", "Role", "Mac Address", "Priority", "Version", "State"}
	labels := []string{"switch_num", "role", "mac_address", "priority", "hw_version", "state"}
	table, err := parsergen.FillTabular(true, header, labels, `\s*$`, out)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"switch": table}, nil
}
