package codec

import (
	"bytes"
	"testing"

	"github.com/sshcollectorpro/cliparser/pkg/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const neighbors = `Neighbor ID     Pri   State
10.0.0.2          1   FULL/DR
10.0.0.1          1   FULL/BDR
`

func sampleTable(t *testing.T) *tabular.Table {
	t.Helper()
	fields := []string{"Neighbor ID", "Pri", "State"}
	table, err := tabular.FillTabular(false, fields, fields, `\s*$`, neighbors)
	require.NoError(t, err)
	return table
}

func TestNormalizeFormat(t *testing.T) {
	f, err := NormalizeFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = NormalizeFormat(" CBOR ")
	require.NoError(t, err)
	assert.Equal(t, FormatCBOR, f)

	_, err = NormalizeFormat("xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.Equal(t, "application/cbor", ContentType("cbor"))
}

func TestMarshalJSON_KeepsRowOrder(t *testing.T) {
	b, err := Marshal(FormatJSON, map[string]interface{}{"neighbors": sampleTable(t)})
	require.NoError(t, err)
	assert.Equal(t,
		`{"neighbors":{"10.0.0.2":{"Neighbor ID":"10.0.0.2","Pri":"1","State":"FULL/DR"},"10.0.0.1":{"Neighbor ID":"10.0.0.1","Pri":"1","State":"FULL/BDR"}}}`,
		string(b))
}

func TestMarshalCBOR(t *testing.T) {
	v := map[string]interface{}{"neighbors": sampleTable(t), "count": "2"}

	first, err := Marshal(FormatCBOR, v)
	require.NoError(t, err)
	second, err := Marshal(FormatCBOR, v)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "deterministic encoding")

	var decoded map[string]interface{}
	require.NoError(t, UnmarshalCBOR(first, &decoded))
	assert.Equal(t, "2", decoded["count"])
	rows := decoded["neighbors"].(map[string]interface{})
	require.Len(t, rows, 2)
	assert.Equal(t, "FULL/BDR", rows["10.0.0.1"].(map[string]interface{})["State"])
}

func TestMarshalCBOR_NestedTables(t *testing.T) {
	var nilTable *tabular.Table
	v := map[string]interface{}{
		"list":  []*tabular.Table{sampleTable(t)},
		"byVrf": map[string]*tabular.Table{"default": sampleTable(t)},
		"empty": nilTable,
	}
	b, err := Marshal(FormatCBOR, v)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, UnmarshalCBOR(b, &decoded))
	assert.Nil(t, decoded["empty"])

	first := decoded["list"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "FULL/DR", first["10.0.0.2"].(map[string]interface{})["State"])
	vrf := decoded["byVrf"].(map[string]interface{})["default"].(map[string]interface{})
	assert.Len(t, vrf, 2)
}
