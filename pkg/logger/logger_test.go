package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExcerptOutput(t *testing.T) {
	ex := ExcerptOutput("a\r\nb\r\nc\n", 5)
	assert.Equal(t, 3, ex.Total)
	assert.Equal(t, []string{"a", "b", "c"}, ex.Head)
	assert.Empty(t, ex.Tail)

	ex = ExcerptOutput("1\n2\n3\n4\n5\n6\n7", 2)
	assert.Equal(t, 7, ex.Total)
	assert.Equal(t, []string{"1", "2"}, ex.Head)
	assert.Equal(t, []string{"6", "7"}, ex.Tail)
	assert.Equal(t, "head-lines: [1 ⟩ 2], tail-lines: [6 ⟩ 7]", ex.String())

	// 首尾不重叠
	ex = ExcerptOutput("1\n2\n3", 2)
	assert.Equal(t, []string{"3"}, ex.Tail)

	assert.Equal(t, Excerpt{}, ExcerptOutput("", 3))
}

func TestInitAndSetLevel(t *testing.T) {
	require.NoError(t, Init(Config{Level: "warn", Format: "json", Output: "console"}))
	assert.Equal(t, logrus.WarnLevel, GetLogger().Level)

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, GetLogger().Level)
	assert.Error(t, SetLevel("loud"))

	assert.Error(t, Init(Config{Output: "file"}))
	assert.Error(t, Init(Config{Output: "syslog"}))
	require.NoError(t, Init(Config{Output: "file", FilePath: filepath.Join(t.TempDir(), "logs", "app.log")}))
}

func TestDebugCommandOutput(t *testing.T) {
	require.NoError(t, Init(Config{Level: "debug"}))
	var buf bytes.Buffer
	GetLogger().SetOutput(&buf)

	DebugCommandOutput("show version", "line1\nline2\n", 5)
	assert.Contains(t, buf.String(), "Parse input: head-lines: [line1 ⟩ line2]")
	assert.Contains(t, buf.String(), "command=\"show version\"")

	buf.Reset()
	require.NoError(t, SetLevel("info"))
	DebugCommandOutput("show version", "line1", 5)
	assert.Empty(t, buf.String())
}
