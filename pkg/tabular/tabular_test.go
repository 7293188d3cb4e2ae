package tabular

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ospfSchema = Schema{
	HeaderFields: []string{"Neighbor ID", "Pri", "State", "Dead Time", "Address", "Interface"},
	LabelFields:  []string{"Neighbor ID", "Pri", "State", "Dead Time", "Address", "Interface"},
	Terminator:   `\s*$`,
}

const ospfOutput = `
Neighbor ID     Pri   State           Dead Time   Address         Interface
10.100.128.205    1   FULL/BDR        00:00:33    10.100.128.205  GigabitEthernet0/0/1
10.100.128.206    1   FULL/DR         00:00:38    10.100.128.206  GigabitEthernet0/0/2
10.100.128.207    0   FULL/  -        00:00:31    10.100.128.207  Tunnel100

Router#`

func TestExtract_RowsKeyedByFirstField(t *testing.T) {
	out := `Neighbor ID     Pri   State           Dead Time   Address         Interface
10.100.128.205    1   FULL/BDR        00:00:33    10.100.128.205  GigabitEthernet0/0/1
10.100.128.206    1   FULL/DR         00:00:38    10.100.128.206  GigabitEthernet0/0/2
10.100.128.207    0   FULL/DROTHER    00:00:31    10.100.128.207  Tunnel100

`
	table, err := Extract(ospfSchema, out)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())
	assert.Equal(t, []string{"10.100.128.205", "10.100.128.206", "10.100.128.207"}, table.Keys())

	row, ok := table.Row("10.100.128.206")
	require.True(t, ok)
	assert.Equal(t, "1", row.Get("Pri"))
	assert.Equal(t, "FULL/DR", row.Get("State"))
	assert.Equal(t, "00:00:38", row.Get("Dead Time"))
	assert.Equal(t, "10.100.128.206", row.Get("Address"))
	assert.Equal(t, "GigabitEthernet0/0/2", row.Get("Interface"))
}

func TestExtract_SkipsMalformedRows(t *testing.T) {
	// "FULL/  -" 多出一列，不匹配整行正则
	table, err := Extract(ospfSchema, ospfOutput)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.100.128.205", "10.100.128.206"}, table.Keys())
}

func TestExtract_TerminatorStopsScan(t *testing.T) {
	out := `Port   Name     Status
Gi1    uplink   up
Gi2    access   down
Total: 2
Gi3    spare    up`
	table, err := Extract(Schema{
		HeaderFields: []string{"Port", "Name", "Status"},
		LabelFields:  []string{"port", "name", "status"},
		Terminator:   `Total:`,
	}, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gi1", "Gi2"}, table.Keys())
}

func TestExtract_MissingTerminatorKeepsRows(t *testing.T) {
	out := "Port   Name     Status\nGi1    uplink   up\nGi2    access   down"
	table, err := Extract(Schema{
		HeaderFields: []string{"Port", "Name", "Status"},
		LabelFields:  []string{"port", "name", "status"},
		Terminator:   `^-+$`,
	}, out)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestExtract_EmptyTerminatorEndsAtFirstNonRow(t *testing.T) {
	out := "A  B\n1  x\nsummary line here now\n2  y\n"
	table, err := Extract(Schema{HeaderFields: []string{"A", "B"}, LabelFields: []string{"a", "b"}}, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, table.Keys())
}

func TestExtract_NoHeaderIsEmpty(t *testing.T) {
	table, err := Extract(ospfSchema, "Gi1 uplink up\nGi2 access down\n")
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestExtract_HeaderLineIsNotARow(t *testing.T) {
	out := "A  B\nA  B\nx  y\n"
	table, err := Extract(Schema{HeaderFields: []string{"A", "B"}, LabelFields: []string{"a", "b"}}, out)
	require.NoError(t, err)
	// 第二行 "A B" 已在表内，按数据行处理
	assert.Equal(t, []string{"A", "x"}, table.Keys())
}

func TestExtract_DuplicateKeyLastWins(t *testing.T) {
	out := "Feature   State\nbgp   disabled\nospf  enabled\nbgp   enabled\n"
	table, err := Extract(Schema{
		HeaderFields: []string{"Feature", "State"},
		LabelFields:  []string{"feature", "state"},
	}, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"bgp", "ospf"}, table.Keys())
	row, _ := table.Row("bgp")
	assert.Equal(t, "enabled", row.Get("state"))
}

func TestExtract_RightJustified(t *testing.T) {
	out := `                                             H/W   Current
Switch#   Role    Mac Address     Priority Version  State
-------------------------------------------------------------
*1       Active   0057.d2ff.e71b     15     V04     Ready
          2      Standby  0057.d2ff.e04b     14     V03     Ready
`
	schema := Schema{
		RightJustified: true,
		HeaderFields:   []string{"Switch#", "Role", "Mac Address", "Priority", "Version", "State"},
		LabelFields:    []string{"switch_num", "role", "mac_address", "priority", "hw_ver", "state"},
		Terminator:     `^\s*$`,
	}
	table, err := Extract(schema, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"*1", "2"}, table.Keys())
	row, _ := table.Row("2")
	assert.Equal(t, "Standby", row.Get("role"))
	assert.Equal(t, "V03", row.Get("hw_ver"))
}

func TestExtract_RightJustifiedFlag(t *testing.T) {
	out := "Port   Status\nGi1    up\n   Total: 2 ports\nGi9    down\n"
	schema := Schema{
		HeaderFields: []string{"Port", "Status"},
		LabelFields:  []string{"port", "status"},
		Terminator:   `Total:`,
	}

	// 行首缩进时结束符不匹配，扫描继续
	table, err := Extract(schema, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gi1", "Gi9"}, table.Keys())

	schema.RightJustified = true
	table, err = Extract(schema, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gi1"}, table.Keys())

	// 左对齐文本开启右对齐结果不变
	left := "Port   Status\nGi1    up\nGi2    down\n"
	on, err := Extract(schema, left)
	require.NoError(t, err)
	schema.RightJustified = false
	off, err := Extract(schema, left)
	require.NoError(t, err)
	assert.Equal(t, off.Keys(), on.Keys())
	assert.Equal(t, []string{"Gi1", "Gi2"}, on.Keys())
}

func TestExtract_CRLF(t *testing.T) {
	out := "Port   Status\r\nGi1    up\r\nGi2    down\r\n"
	table, err := Extract(Schema{HeaderFields: []string{"Port", "Status"}, LabelFields: []string{"port", "status"}}, out)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gi1", "Gi2"}, table.Keys())
}

func TestExtract_InvalidSchema(t *testing.T) {
	_, err := Extract(Schema{LabelFields: []string{"a"}}, "")
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = Extract(Schema{HeaderFields: []string{"A"}}, "")
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = Extract(Schema{HeaderFields: []string{"A"}, LabelFields: []string{"a"}, Terminator: "("}, "")
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestTable_MarshalJSONKeepsOrder(t *testing.T) {
	out := "Port   Status\nGi9    up\nGi1    down\n"
	table, err := FillTabular(false, []string{"Port", "Status"}, []string{"port", "status"}, "", out)
	require.NoError(t, err)

	b, err := json.Marshal(map[string]interface{}{"interfaces": table})
	require.NoError(t, err)
	assert.Equal(t, `{"interfaces":{"Gi9":{"port":"Gi9","status":"up"},"Gi1":{"port":"Gi1","status":"down"}}}`, string(b))
}
