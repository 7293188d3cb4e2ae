package huawei_s

import (
	"regexp"
	"strings"

	"github.com/sshcollectorpro/cliparser/addone/parser"
)

var (
	vrpVersionRe = regexp.MustCompile(`^VRP \(R\) software, Version (\S+)\s+\((\S+)\s+(\S+)\)`)
	uptimeRe     = regexp.MustCompile(`^(?:HUAWEI|Huawei)\s+(\S+).*? uptime is (.+)$`)
	patchRe      = regexp.MustCompile(`^Patch Version\s*:?\s*(\S+)`)
)

// display version：VRP 版本、型号、运行时间
func parseDisplayVersion(output string) (interface{}, error) {
	ver := map[string]string{}
	for _, ln := range strings.Split(strings.ReplaceAll(output, "\r", ""), "\n") {
		ln = strings.TrimSpace(ln)
		if m := vrpVersionRe.FindStringSubmatch(ln); m != nil {
			ver["vrp_version"] = m[1]
			ver["product"] = m[2]
			ver["software_version"] = m[3]
			continue
		}
		if m := uptimeRe.FindStringSubmatch(ln); m != nil {
			ver["model"] = m[1]
			ver["uptime"] = m[2]
			continue
		}
		if m := patchRe.FindStringSubmatch(ln); m != nil {
			ver["patch_version"] = m[1]
		}
	}
	return parser.Result{"version": ver}, nil
}
