package iosxe

import (
	"regexp"
	"strings"

	"github.com/sshcollectorpro/cliparser/addone/parser"
)

var versionRules = []struct {
	key string
	re  *regexp.Regexp
}{
	{"version", regexp.MustCompile(`^Cisco IOS XE Software, Version\s+(\S+)`)},
	{"image_id", regexp.MustCompile(`^Cisco IOS Software \[\S+\],.*\((\S+)\), Version`)},
	{"rom", regexp.MustCompile(`^ROM:\s+(.+)$`)},
	{"hostname", regexp.MustCompile(`^(\S+) uptime is .+$`)},
	{"uptime", regexp.MustCompile(`^\S+ uptime is (.+)$`)},
	{"system_image", regexp.MustCompile(`^System image file is "([^"]+)"`)},
	{"last_reload_reason", regexp.MustCompile(`^Last reload reason:\s*(.+)$`)},
	{"chassis", regexp.MustCompile(`^cisco (\S+) .*processor`)},
	{"processor_board_id", regexp.MustCompile(`^Processor board ID (\S+)`)},
	{"curr_config_register", regexp.MustCompile(`^Configuration register is (\S+)`)},
}

// show version：逐行匹配，首个命中生效
func parseShowVersion(output string) (interface{}, error) {
	ver := map[string]string{}
	for _, ln := range strings.Split(strings.ReplaceAll(output, "\r", ""), "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		for _, r := range versionRules {
			if _, ok := ver[r.key]; ok {
				continue
			}
			if m := r.re.FindStringSubmatch(ln); m != nil {
				ver[r.key] = strings.TrimSpace(m[1])
			}
		}
	}
	return parser.Result{"version": ver}, nil
}
