package iosxe

import (
	"regexp"
	"strings"

	"github.com/sshcollectorpro/cliparser/addone/parser"
)

// Status 列可能为 "administratively down"，无法按固定列切分，单独用正则
var ipIntBriefRe = regexp.MustCompile(`^(\S+)\s+(\S+)\s+(YES|NO)\s+(\S+)\s+(up|down|administratively down|deleted)\s+(up|down)\s*$`)

func parseShowIpInterfaceBrief(output string) (interface{}, error) {
	interfaces := parser.Result{}
	for _, ln := range strings.Split(strings.ReplaceAll(output, "\r", ""), "\n") {
		m := ipIntBriefRe.FindStringSubmatch(strings.TrimSpace(ln))
		if m == nil {
			continue
		}
		interfaces[m[1]] = map[string]string{
			"ip_address":      m[2],
			"interface_is_ok": m[3],
			"method":          m[4],
			"status":          m[5],
			"protocol":        m[6],
		}
	}
	return parser.Result{"interface": interfaces}, nil
}
