package tabular

import (
	"github.com/fxamacker/cbor/v2"
)

// cborEnc 核心确定性编码，CBOR 中表格以键排序的 map 表示
var cborEnc cbor.EncMode

func init() {
	var err error
	cborEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("tabular: cbor encoder init failed: " + err.Error())
	}
}

// cborNull CBOR 的 null
var cborNull = []byte{0xf6}

func (r *Row) MarshalCBOR() ([]byte, error) {
	if r == nil {
		return cborNull, nil
	}
	return cborEnc.Marshal(r.Map())
}

func (t *Table) MarshalCBOR() ([]byte, error) {
	if t == nil {
		return cborNull, nil
	}
	return cborEnc.Marshal(t.Map())
}
