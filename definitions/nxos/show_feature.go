//go:build ignore

package nxos

import (
	"strings"
)

// ShowFeatureSchema 运行时提供设备句柄
type ShowFeatureSchema struct {
	Device interface{ Execute(command string) string }
}

// ShowFeature 特性开关状态，同一特性可能有多个实例
type ShowFeature struct{ ShowFeatureSchema }

func (p *ShowFeature) CLICommand() string { return "show feature" }

func (p *ShowFeature) CLI(output string) (interface{}, error) {
	var out string
	if output == "" {
		out = p.Device.Execute(p.CLICommand())
	} else {
		out = output
	}

	features := map[string]interface{}{}
	inTable := false
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if !inTable {
			inTable = len(fields) > 0 && strings.HasPrefix(fields[0], "----")
			continue
		}
		if len(fields) != 3 {
			continue
		}
		name, instance, state := fields[0], fields[1], fields[2]
		entry, ok := features[name].(map[string]interface{})
		if !ok {
			entry = map[string]interface{}{"instance": map[string]interface{}{}}
			features[name] = entry
		}
		entry["instance"].(map[string]interface{})[instance] = map[string]interface{}{"state": state}
	}
	return map[string]interface{}{"feature": features}, nil
}
