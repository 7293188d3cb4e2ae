package h3c_s

import (
	"regexp"
	"strings"

	"github.com/sshcollectorpro/cliparser/addone/parser"
)

var (
	comwareRe      = regexp.MustCompile(`^H3C Comware (?:Platform )?Software, Version ([^,\s]+)(?:, Release (\S+))?`)
	uptimeRe       = regexp.MustCompile(`^H3C (\S+) uptime is (.+)$`)
	rebootReasonRe = regexp.MustCompile(`^Last reboot reason\s*:\s*(.+)$`)
	bootImageRe    = regexp.MustCompile(`^Boot image:\s*(\S+)`)
	systemImageRe  = regexp.MustCompile(`^System image:\s*(\S+)`)
)

// display version：Comware 版本、型号、运行时间
func parseDisplayVersion(output string) (interface{}, error) {
	ver := map[string]string{}
	for _, ln := range strings.Split(strings.ReplaceAll(output, "\r", ""), "\n") {
		ln = strings.TrimSpace(ln)
		switch {
		case comwareRe.MatchString(ln):
			m := comwareRe.FindStringSubmatch(ln)
			ver["comware_version"] = m[1]
			if m[2] != "" {
				ver["release"] = m[2]
			}
		case uptimeRe.MatchString(ln):
			m := uptimeRe.FindStringSubmatch(ln)
			ver["model"] = m[1]
			ver["uptime"] = m[2]
		case rebootReasonRe.MatchString(ln):
			ver["last_reboot_reason"] = rebootReasonRe.FindStringSubmatch(ln)[1]
		case bootImageRe.MatchString(ln):
			ver["boot_image"] = bootImageRe.FindStringSubmatch(ln)[1]
		case systemImageRe.MatchString(ln):
			ver["system_image"] = systemImageRe.FindStringSubmatch(ln)[1]
		}
	}
	return parser.Result{"version": ver}, nil
}
