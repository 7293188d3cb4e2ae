package util

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// legacyEncodings 设备回显常见的非 UTF-8 编码，按尝试顺序排列
var legacyEncodings = []encoding.Encoding{
	simplifiedchinese.GB18030,
	simplifiedchinese.GBK,
	traditionalchinese.Big5,
	charmap.Windows1252,
	charmap.ISO8859_1,
}

var (
	// ANSI CSI 控制序列，如颜色与光标移动
	ansiCSIRe = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	// 分页提示：Cisco " --More-- "、Huawei/H3C "  ---- More ----"
	pagerRe = regexp.MustCompile(`[ \t]*-{2,}[ \t]*More[ \t]*-{2,}[ \t]*`)
)

// EnsureUTF8Bytes 非 UTF-8 字节按常见编码解码，均失败时原样返回
func EnsureUTF8Bytes(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	if utf8.Valid(b) {
		return string(b)
	}
	for _, enc := range legacyEncodings {
		if s, ok := tryDecode(enc, b); ok {
			return s
		}
	}
	return string(b)
}

// EnsureUTF8 同 EnsureUTF8Bytes
func EnsureUTF8(s string) string {
	return EnsureUTF8Bytes([]byte(s))
}

func tryDecode(enc encoding.Encoding, b []byte) (string, bool) {
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(b), enc.NewDecoder()))
	if err != nil || !utf8.Valid(decoded) {
		return "", false
	}
	return string(decoded), true
}

// NormalizeOutput 规范化交互式采集的回显：
// 转为 UTF-8，去掉 ANSI 控制序列、分页提示、退格与 NUL，行尾统一为 \n
// 列对齐依赖的行内空白保持不变
func NormalizeOutput(s string) string {
	if s == "" {
		return s
	}
	s = EnsureUTF8(s)
	if strings.ContainsRune(s, '\x1b') {
		s = ansiCSIRe.ReplaceAllString(s, "")
	}
	if strings.Contains(s, "More") {
		s = pagerRe.ReplaceAllString(s, "")
	}
	s = strings.NewReplacer("\x08", "", "\x00", "", "\r\n", "\n", "\r", "\n").Replace(s)
	return s
}
