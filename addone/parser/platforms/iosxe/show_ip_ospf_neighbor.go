package iosxe

import (
	"regexp"

	"github.com/sshcollectorpro/cliparser/pkg/tabular"
)

var ospfNeighborFields = []string{"Neighbor ID", "Pri", "State", "Dead Time", "Address", "Interface"}

// 点对点邻居没有 DR 角色，State 列形如 "FULL/  -"，合并为单个 token
var ospfStateGapRe = regexp.MustCompile(`([A-Z0-9]+)/\s+-(\s)`)

// show ip ospf neighbor 回显：按 Neighbor ID 组织
//
//	Neighbor ID     Pri   State           Dead Time   Address         Interface
//	10.100.128.205    1   FULL/BDR        00:00:33    10.100.128.205  GigabitEthernet0/0/1
func parseShowIpOspfNeighbor(output string) (interface{}, error) {
	output = ospfStateGapRe.ReplaceAllString(output, "$1/-$2")
	table, err := tabular.FillTabular(false, ospfNeighborFields, ospfNeighborFields, `\s*$`, output)
	if err != nil {
		return nil, err
	}
	return table, nil
}
