package iosxe

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/sshcollectorpro/cliparser/addone/parser"
	"github.com/sshcollectorpro/cliparser/pkg/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ospfNeighborOutput = `Neighbor ID     Pri   State           Dead Time   Address         Interface
10.100.128.205    1   FULL/BDR        00:00:33    10.100.128.205  GigabitEthernet0/0/1
10.100.128.206    1   FULL/DR         00:00:38    10.100.128.206  GigabitEthernet0/0/2
10.100.128.207    0   FULL/DROTHER    00:00:31    10.100.128.207  Tunnel100
`

func TestRoutinesRegistered(t *testing.T) {
	rt, err := parser.Default.Resolve("show ip ospf neighbor GigabitEthernet0/0/1", Platform)
	require.NoError(t, err)
	assert.Equal(t, "ShowIpOspfNeighbor", rt.Name())

	rt, err = parser.Default.Resolve("show version", Platform)
	require.NoError(t, err)
	assert.Equal(t, "ShowVersion", rt.Name())
}

func TestShowIpOspfNeighbor(t *testing.T) {
	res, err := parseShowIpOspfNeighbor(ospfNeighborOutput)
	require.NoError(t, err)
	table, ok := res.(*tabular.Table)
	require.True(t, ok)
	require.Equal(t, 3, table.Len())

	row, ok := table.Row("10.100.128.205")
	require.True(t, ok)
	assert.Equal(t, "1", row.Get("Pri"))
	assert.Equal(t, "FULL/BDR", row.Get("State"))
	assert.Equal(t, "00:00:33", row.Get("Dead Time"))
	assert.Equal(t, "10.100.128.205", row.Get("Address"))
	assert.Equal(t, "GigabitEthernet0/0/1", row.Get("Interface"))

	b, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"10.100.128.207":{"Neighbor ID":"10.100.128.207","Pri":"0","State":"FULL/DROTHER"`)
}

func TestShowIpOspfNeighbor_PointToPoint(t *testing.T) {
	out := `Neighbor ID     Pri   State           Dead Time   Address         Interface
10.100.128.205    0   FULL/  -        00:00:31    10.100.132.142  TenGigabitEthernet0/1/3
10.100.128.207    0   FULL/  -        00:00:38    10.100.132.150  TenGigabitEthernet0/1/1
10.100.128.206    0   FULL/  -        00:00:37    10.100.132.146  TenGigabitEthernet0/1/0`
	res, err := parseShowIpOspfNeighbor(out)
	require.NoError(t, err)
	table := res.(*tabular.Table)
	assert.Equal(t, []string{"10.100.128.205", "10.100.128.207", "10.100.128.206"}, table.Keys())

	row, _ := table.Row("10.100.128.206")
	assert.Equal(t, "FULL/-", row.Get("State"))
	assert.Equal(t, "TenGigabitEthernet0/1/0", row.Get("Interface"))
}

func TestShowIpInterfaceBrief(t *testing.T) {
	out := `Interface              IP-Address      OK? Method Status                Protocol
GigabitEthernet0/0/0   10.1.1.1        YES NVRAM  up                    up
GigabitEthernet0/0/1   unassigned      YES NVRAM  administratively down down
Loopback0              192.168.0.1     YES manual up                    up
`
	res, err := parseShowIpInterfaceBrief(out)
	require.NoError(t, err)
	intf := res.(parser.Result)["interface"].(parser.Result)
	require.Len(t, intf, 3)
	assert.Equal(t, "administratively down", intf["GigabitEthernet0/0/1"].(map[string]string)["status"])
	assert.Equal(t, "manual", intf["Loopback0"].(map[string]string)["method"])
}

func TestShowVersion(t *testing.T) {
	out := `Cisco IOS XE Software, Version 16.12.05
Cisco IOS Software [Gibraltar], ASR1000 Software (X86_64_LINUX_IOSD-UNIVERSALK9-M), Version 16.12.5, RELEASE SOFTWARE (fc3)
ROM: 16.9(4r)

al-oxdc-aar01 uptime is 1 year, 8 weeks, 21 hours, 39 minutes
Uptime for this control processor is 1 year, 8 weeks, 21 hours, 42 minutes
System image file is "bootflash:packages.conf"
Last reload reason: Image Install

cisco ASR1002-HX (2KH) processor (revision 2KH) with 3765187K/6147K bytes of memory.
Processor board ID FXS2315Q3C4
Configuration register is 0x2102
`
	res, err := parseShowVersion(out)
	require.NoError(t, err)
	ver := res.(parser.Result)["version"].(map[string]string)
	assert.Equal(t, "16.12.05", ver["version"])
	assert.Equal(t, "X86_64_LINUX_IOSD-UNIVERSALK9-M", ver["image_id"])
	assert.Equal(t, "al-oxdc-aar01", ver["hostname"])
	assert.Equal(t, "1 year, 8 weeks, 21 hours, 39 minutes", ver["uptime"])
	assert.Equal(t, "bootflash:packages.conf", ver["system_image"])
	assert.Equal(t, "ASR1002-HX", ver["chassis"])
	assert.Equal(t, "FXS2315Q3C4", ver["processor_board_id"])
	assert.Equal(t, "0x2102", ver["curr_config_register"])
}
