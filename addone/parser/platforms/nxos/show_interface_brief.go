package nxos

import (
	"regexp"
	"strings"

	"github.com/sshcollectorpro/cliparser/addone/parser"
	"github.com/sshcollectorpro/cliparser/pkg/tabular"
)

// 以太网口的 Reason 列可能包含空格，使用正则；管理口表格列固定，交给 FillTabular
var ethBriefRe = regexp.MustCompile(`^((?:Eth|Po|Lo|Vlan|Tunnel)\d\S*)\s+(\S+)\s+(\S+)\s+(\S+)\s+(\S+)\s+(.*?)\s+(\S+)\s+(\S+)\s*$`)

var (
	mgmtHeader = []string{"Port", "VRF", "Status", "IP Address", "Speed", "MTU"}
	mgmtLabels = []string{"port", "vrf", "status", "ip_address", "speed", "mtu"}
)

func parseShowInterfaceBrief(output string) (interface{}, error) {
	interfaces := parser.Result{}

	mgmt, err := tabular.FillTabular(false, mgmtHeader, mgmtLabels, `\s*$`, output)
	if err != nil {
		return nil, err
	}
	for _, k := range mgmt.Keys() {
		row, _ := mgmt.Row(k)
		interfaces[k] = map[string]string{
			"vrf":        row.Get("vrf"),
			"status":     row.Get("status"),
			"ip_address": row.Get("ip_address"),
			"speed":      row.Get("speed"),
			"mtu":        row.Get("mtu"),
		}
	}

	for _, ln := range strings.Split(strings.ReplaceAll(output, "\r", ""), "\n") {
		m := ethBriefRe.FindStringSubmatch(strings.TrimSpace(ln))
		if m == nil {
			continue
		}
		interfaces[m[1]] = map[string]string{
			"vlan":         m[2],
			"type":         m[3],
			"mode":         m[4],
			"status":       m[5],
			"reason":       m[6],
			"speed":        m[7],
			"port_channel": m[8],
		}
	}
	return parser.Result{"interface": interfaces}, nil
}
