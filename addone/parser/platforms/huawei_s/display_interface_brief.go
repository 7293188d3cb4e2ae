package huawei_s

import (
	"github.com/sshcollectorpro/cliparser/pkg/tabular"
)

var (
	briefHeader = []string{"Interface", "PHY", "Protocol", "InUti", "OutUti", "inErrors", "outErrors"}
	briefLabels = []string{"interface", "phy", "protocol", "in_uti", "out_uti", "in_errors", "out_errors"}
)

// display interface brief：表头之前的图例行被忽略，空行结束
func parseDisplayInterfaceBrief(output string) (interface{}, error) {
	table, err := tabular.FillTabular(false, briefHeader, briefLabels, `\s*$`, output)
	if err != nil {
		return nil, err
	}
	return table, nil
}
