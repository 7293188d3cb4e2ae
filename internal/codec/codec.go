// Package codec 解析结果的序列化：对外 JSON（保持表格行序），紧凑场景 CBOR（确定性编码）
package codec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fxamacker/cbor/v2"
	json "github.com/goccy/go-json"
)

const (
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// ErrUnsupportedFormat 不支持的输出格式
var ErrUnsupportedFormat = errors.New("unsupported output format")

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	// 核心确定性编码：map 键排序，同一数据总是得到相同字节
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: cbor encoder init failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: cbor decoder init failed: " + err.Error())
	}
}

// NormalizeFormat 规范化格式名，空值为 json
func NormalizeFormat(format string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCBOR:
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// ContentType HTTP 响应类型
func ContentType(format string) string {
	if f, _ := NormalizeFormat(format); f == FormatCBOR {
		return "application/cbor"
	}
	return "application/json; charset=utf-8"
}

// Marshal 按格式编码
func Marshal(format string, v interface{}) ([]byte, error) {
	f, err := NormalizeFormat(format)
	if err != nil {
		return nil, err
	}
	if f == FormatCBOR {
		return MarshalCBOR(v)
	}
	return MarshalJSON(v)
}

// MarshalJSON 表格按源文本顺序输出
func MarshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// MarshalCBOR 确定性编码，表格与行自带 CBOR 编码
func MarshalCBOR(v interface{}) ([]byte, error) {
	return encMode.Marshal(v)
}

// UnmarshalCBOR 解码 CBOR，map 默认解为 map[string]interface{}
func UnmarshalCBOR(data []byte, v interface{}) error {
	return decMode.Unmarshal(data, v)
}
