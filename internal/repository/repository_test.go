package repository

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/sshcollectorpro/cliparser/addone/parser"
	"github.com/sshcollectorpro/cliparser/pkg/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vlanDefinition = `//go:build ignore

package iosxe

import (
	parsergen "github.com/sshcollectorpro/cliparser/pkg/tabular"
)

type ShowVlanBriefSchema struct {
	Device interface{ Execute(command string) string }
}

// ShowVlanBrief vlan 列表
type ShowVlanBrief struct{ ShowVlanBriefSchema }

func (p *ShowVlanBrief) CLICommand() []string {
	return []string{
		"show vlan brief", // 全部
		"show vlan id {id}",
	}
}

func (p *ShowVlanBrief) CLI(output string) (interface{}, error) {
	var out string
	if output == "" {
		out = p.Device.Execute(p.CLICommand()[0])
	} else {
		out = output
	}

	table, err := parsergen.FillTabular(false, []string{"VLAN", "Name", "Status"}, []string{"vlan_id", "name", "status"}, ` + "`-+`" + `, out)
	if err != nil {
		return nil, err
	}
	return table, nil
}

// ShowVlanSummarySchema 运行时提供设备句柄
type ShowVlanSummarySchema struct{}

type ShowVlanSummary struct{ ShowVlanSummarySchema }

func (p *ShowVlanSummary) CLICommand() string { return "show vlan summary" }

func (p *ShowVlanSummary) CLI(output string) (interface{}, error) {
	var out string
	if output == "" {
		out = p.Device.Execute(p.CLICommand())
	} else {
		out = output
	}

	n := strings.Count(out, "\n")
	return map[string]interface{}{"lines": strconv.Itoa(n)}, nil
}
`

const vlanOutput = `VLAN Name                             Status
1    default                          active
10   users                            active
20   voice                            suspended
----
99   ignored                          active
`

func memRepo(t *testing.T, files map[string]string) *Repository {
	t.Helper()
	fs := afero.NewMemMapFs()
	for p, content := range files {
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0o644))
	}
	return New(fs, Options{Root: "defs"})
}

func TestScan(t *testing.T) {
	repo := memRepo(t, map[string]string{
		"defs/iosxe/show_vlan.go":       vlanDefinition,
		"defs/iosxe/ping_vrf.go":        "package iosxe\n",
		"defs/iosxe/helpers.go":         "package iosxe\n",
		"defs/iosxe/show_vlan_test.go":  "package iosxe\n",
		"defs/iosxe/display_intf.go":    "package iosxe\n",
		"defs/iosxe/show_vlan.go.orig":  "",
		"defs/nxos/README.md":           "",
		"defs/eos/show_version/stub.go": "",
	})

	arts, err := repo.Scan("IOSXE")
	require.NoError(t, err)
	var names []string
	for _, a := range arts {
		names = append(names, a.Name)
		assert.Equal(t, "iosxe", a.Platform)
	}
	assert.Equal(t, []string{"display_intf.go", "ping_vrf.go", "show_vlan.go"}, names)

	for _, p := range []string{"nxos", "eos", "junos", ""} {
		_, err = repo.Scan(p)
		assert.ErrorIs(t, err, parser.ErrRepositoryNotFound, p)
	}

	platforms, err := repo.Platforms()
	require.NoError(t, err)
	assert.Equal(t, []string{"eos", "iosxe", "nxos"}, platforms)
}

func TestFind(t *testing.T) {
	repo := memRepo(t, map[string]string{
		"defs/iosxe/show_a.go":    `package iosxe; var _ = "show clock"`,
		"defs/iosxe/show_vlan.go": vlanDefinition,
	})
	arts, err := repo.Scan("iosxe")
	require.NoError(t, err)

	a, err := repo.Find("show vlan id 10", arts)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "show_vlan.go", a.Name)

	a, err = repo.Find("show  clock", arts)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "show_a.go", a.Name)

	a, err = repo.Find("show vlan id", arts)
	require.NoError(t, err)
	assert.Nil(t, a)
}

func TestExtract(t *testing.T) {
	repo := memRepo(t, map[string]string{"defs/iosxe/show_vlan.go": vlanDefinition})
	arts, err := repo.Scan("iosxe")
	require.NoError(t, err)

	def, err := repo.Extract("show vlan id 20", arts[0])
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "ShowVlanBrief", def.Name)
	assert.Equal(t, "ShowVlanBriefSchema", def.Schema)
	assert.Equal(t, []string{"show vlan brief", "show vlan id {id}"}, def.Patterns)
	assert.Contains(t, def.Source, "type ShowVlanBrief struct{ ShowVlanBriefSchema }")
	assert.Contains(t, def.Source, "\treturn table, nil\n}")
	assert.NotContains(t, def.Source, "ShowVlanSummary")

	def, err = repo.Extract("show vlan summary", arts[0])
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "ShowVlanSummary", def.Name)
	assert.Equal(t, []string{"show vlan summary"}, def.Patterns)
	assert.True(t, len(def.Source) > 0)

	def, err = repo.Extract("show vlan", arts[0])
	require.NoError(t, err)
	assert.Nil(t, def)
}

const clockDefinition = `//go:build ignore

package nxos

import (
	"strings"
)

// ShowClockSchema 时钟
type ShowClockSchema struct {
	Device interface{ Execute(command string) string }
}

// ShowClock 设备时钟
type ShowClock struct{ ShowClockSchema }

// CLICommand 返回支持的命令
func (p *ShowClock) CLICommand() []string {
	return []string{"show clock"}
}

// CLI 解析 show clock 回显
func (p *ShowClock) CLI(output string) (interface{}, error) {
	var out string
	if output == "" {
		out = p.Device.Execute("show clock")
	} else {
		out = output
	}

	// 首行为时间，其余忽略
	line := firstLine(out)
	return map[string]interface{}{
		"time":   strings.TrimPrefix(line, "*"),
		"source": p.source(out),
	}, nil
}

// firstLine 第一条非空行
func firstLine(s string) string {
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}

// ShowClockDetailSchema 下一个定义的 schema
type ShowClockDetailSchema struct{}

// source 时间来源
func (p *ShowClock) source(s string) string {
	if i := strings.Index(s, "Time source is "); i >= 0 {
		return strings.TrimSpace(s[i+len("Time source is "):])
	}
	return ""
}
`

func TestExtract_DocCommentsAndHelpers(t *testing.T) {
	repo := memRepo(t, map[string]string{"defs/nxos/show_clock.go": clockDefinition})
	arts, err := repo.Scan("nxos")
	require.NoError(t, err)

	def, err := repo.Extract("show clock", arts[0])
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, "ShowClock", def.Name)
	assert.Contains(t, def.Source, "// CLI 解析 show clock 回显")
	assert.Contains(t, def.Source, "func firstLine(s string) string {")
	assert.Contains(t, def.Source, "func (p *ShowClock) source(s string) string {")
	assert.NotContains(t, def.Source, "ShowClockDetailSchema")
	assert.NotContains(t, def.Source, "ShowClockSchema struct {")

	rt, err := repo.Resolve("show clock", "nxos")
	require.NoError(t, err)
	res, err := rt.Run("*10:21:07.541 UTC Fri Oct 16 2026\nTime source is NTP\n")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{
		"time":   "10:21:07.541 UTC Fri Oct 16 2026",
		"source": "NTP",
	}, res)
}

func TestExtract_SyntaxError(t *testing.T) {
	repo := memRepo(t, map[string]string{
		"defs/nxos/show_clock.go": "package nxos\n\ntype ShowClock struct{ ShowClockSchema }\n\nfunc (p *ShowClock) CLICommand() string { return \"show clock\" }\n\nfunc (p *ShowClock) CLI(output string) (interface{}, error) {\n\treturn output,\n",
	})
	_, err := repo.Resolve("show clock", "nxos")
	assert.ErrorIs(t, err, parser.ErrAdaptation)
}

func TestAdapt(t *testing.T) {
	repo := memRepo(t, map[string]string{"defs/iosxe/show_vlan.go": vlanDefinition})
	arts, _ := repo.Scan("iosxe")
	def, err := repo.Extract("show vlan brief", arts[0])
	require.NoError(t, err)

	ad, err := Adapt(def)
	require.NoError(t, err)
	assert.Contains(t, ad.Source, "type ShowVlanBrief struct{}")
	assert.Contains(t, ad.Source, "out := output")
	assert.Contains(t, ad.Source, "FillTabular(false,")
	assert.NotContains(t, ad.Source, "parsergen.")
	assert.NotContains(t, ad.Source, "Device.Execute")

	broken := *def
	broken.Source = "type ShowVlanBrief struct{}\n"
	_, err = Adapt(&broken)
	assert.ErrorIs(t, err, parser.ErrAdaptation)

	broken = *def
	broken.Source = "type ShowVlanBrief struct{ ShowVlanBriefSchema }\nfunc (p *ShowVlanBrief) CLI(output string) (interface{}, error) {\n\treturn nil, nil\n}\n"
	_, err = Adapt(&broken)
	assert.ErrorIs(t, err, parser.ErrAdaptation)

	var re *parser.ResolveError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "iosxe", re.Platform)
}

func TestResolve_Interpreted(t *testing.T) {
	repo := memRepo(t, map[string]string{"defs/iosxe/show_vlan.go": vlanDefinition})

	rt, err := repo.Resolve("show vlan brief", "iosxe")
	require.NoError(t, err)
	assert.Equal(t, "ShowVlanBrief", rt.Name())
	assert.Equal(t, []string{"show vlan brief", "show vlan id {id}"}, rt.Patterns())

	res, err := rt.Run(vlanOutput)
	require.NoError(t, err)
	table, ok := res.(*tabular.Table)
	require.True(t, ok)
	assert.Equal(t, []string{"1", "10", "20"}, table.Keys())
	row, _ := table.Row("20")
	assert.Equal(t, "suspended", row.Get("status"))

	rt, err = repo.Resolve("show vlan summary", "iosxe")
	require.NoError(t, err)
	res, err = rt.Run("a\nb\n")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"lines": "2"}, res)
}

func TestResolve_Errors(t *testing.T) {
	repo := memRepo(t, map[string]string{"defs/iosxe/show_vlan.go": vlanDefinition})

	_, err := repo.Resolve("show vlan", "iosxe")
	assert.ErrorIs(t, err, parser.ErrDefinitionNotFound)

	_, err = repo.Resolve("show vlan brief", "nxos")
	assert.ErrorIs(t, err, parser.ErrRepositoryNotFound)
}

func TestLocate_Ambiguous(t *testing.T) {
	dup := `package iosxe

type ShowVlanOther struct{ ShowVlanOtherSchema }

func (p *ShowVlanOther) CLICommand() string { return "show vlan id {vlan}" }

func (p *ShowVlanOther) CLI(output string) (interface{}, error) {
	var out string
	if output == "" {
		out = p.Device.Execute(p.CLICommand())
	} else {
		out = output
	}
	return out, nil
}
`
	repo := memRepo(t, map[string]string{
		"defs/iosxe/show_vlan.go":       vlanDefinition,
		"defs/iosxe/show_vlan_other.go": dup,
	})

	_, err := repo.Locate("show vlan id 10", "iosxe")
	assert.ErrorIs(t, err, parser.ErrAmbiguousPattern)

	// 字面量更多的模板优先，不构成歧义
	def, err := repo.Locate("show vlan brief", "iosxe")
	require.NoError(t, err)
	assert.Equal(t, "ShowVlanBrief", def.Name)
}

func TestShippedDefinitions(t *testing.T) {
	repo := New(afero.NewOsFs(), Options{Root: "../../definitions"})

	rt, err := repo.Resolve("show switch", "iosxe")
	require.NoError(t, err)
	res, err := rt.Run(`Switch/Stack Mac Address : 0045.1d25.5e00 - Local Mac Address
Mac persistency wait time: Indefinite
                                             H/W   Current
Switch#   Role    Mac Address     Priority Version  State
-------------------------------------------------------------
*1       Active   0045.1d25.5e00     15     V02     Ready
 2       Standby  00b6.7030.b780     14     V02     Ready

`)
	require.NoError(t, err)
	table := res.(map[string]interface{})["switch"].(*tabular.Table)
	assert.Equal(t, []string{"*1", "2"}, table.Keys())
	row, _ := table.Row("2")
	assert.Equal(t, "Standby", row.Get("role"))
	assert.Equal(t, "00b6.7030.b780", row.Get("mac_address"))

	rt, err = repo.Resolve("show feature", "nxos")
	require.NoError(t, err)
	res, err = rt.Run(`Feature Name          Instance  State
--------------------  --------  --------
bash-shell             1         disabled
bgp                    1         enabled
ospf                   1         enabled
ospf                   2         disabled
`)
	require.NoError(t, err)
	features := res.(map[string]interface{})["feature"].(map[string]interface{})
	assert.Len(t, features, 3)
	ospf := features["ospf"].(map[string]interface{})["instance"].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"state": "disabled"}, ospf["2"])
}
