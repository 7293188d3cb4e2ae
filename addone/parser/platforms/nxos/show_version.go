package nxos

import (
	"regexp"
	"strings"

	"github.com/sshcollectorpro/cliparser/addone/parser"
)

var (
	nxosVersionRe  = regexp.MustCompile(`^NXOS: version\s+(\S+)`)
	biosVersionRe  = regexp.MustCompile(`^BIOS: version\s+(\S+)`)
	imageFileRe    = regexp.MustCompile(`^NXOS image file is:\s+(\S+)`)
	chassisRe      = regexp.MustCompile(`^cisco (.+?) [Cc]hassis`)
	deviceNameRe   = regexp.MustCompile(`^Device name:\s+(\S+)`)
	boardIDRe      = regexp.MustCompile(`^Processor Board ID\s+(\S+)`)
	kernelUptimeRe = regexp.MustCompile(`^Kernel uptime is (\d+) day\(s\), (\d+) hour\(s\), (\d+) minute\(s\), (\d+) second\(s\)`)
	memoryRe       = regexp.MustCompile(`with (\d+) kB of memory`)
	resetReasonRe  = regexp.MustCompile(`^Reason:\s+(.+)$`)
)

// show version：平台、软件、硬件与运行时间
func parseShowVersion(output string) (interface{}, error) {
	software := map[string]string{}
	hardware := map[string]string{}
	platform := parser.Result{"name": "Nexus", "os": "NX-OS"}

	for _, ln := range strings.Split(strings.ReplaceAll(output, "\r", ""), "\n") {
		ln = strings.TrimSpace(ln)
		switch {
		case ln == "":
			continue
		case nxosVersionRe.MatchString(ln):
			software["system_version"] = nxosVersionRe.FindStringSubmatch(ln)[1]
		case biosVersionRe.MatchString(ln):
			software["bios_version"] = biosVersionRe.FindStringSubmatch(ln)[1]
		case imageFileRe.MatchString(ln):
			software["system_image_file"] = imageFileRe.FindStringSubmatch(ln)[1]
		case chassisRe.MatchString(ln):
			hardware["chassis"] = chassisRe.FindStringSubmatch(ln)[1]
		case deviceNameRe.MatchString(ln):
			hardware["device_name"] = deviceNameRe.FindStringSubmatch(ln)[1]
		case boardIDRe.MatchString(ln):
			hardware["processor_board_id"] = boardIDRe.FindStringSubmatch(ln)[1]
		case kernelUptimeRe.MatchString(ln):
			m := kernelUptimeRe.FindStringSubmatch(ln)
			platform["kernel_uptime"] = map[string]string{"days": m[1], "hours": m[2], "minutes": m[3], "seconds": m[4]}
		case resetReasonRe.MatchString(ln):
			platform["reset_reason"] = resetReasonRe.FindStringSubmatch(ln)[1]
		}
		if m := memoryRe.FindStringSubmatch(ln); m != nil {
			hardware["memory_kb"] = m[1]
		}
	}

	platform["software"] = software
	platform["hardware"] = hardware
	return parser.Result{"platform": platform}, nil
}
