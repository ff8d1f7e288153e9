package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"auto", "json", "table"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, Format(name), f)
	}
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)

	_, err = ParseFormat("yaml")
	assert.Error(t, err)
}

func TestPrinter_AutoFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(FormatAuto, &buf)
	assert.False(t, p.IsTable())

	require.NoError(t, p.Print(map[string]string{"id": "abc"}, []string{"字段", "值"}, [][]string{{"id", "abc"}}))
	var out map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "abc", out["id"])

	p.Success("不会输出")
	assert.NotContains(t, buf.String(), "不会输出")
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(FormatTable, &buf)
	require.True(t, p.IsTable())
	require.NoError(t, p.Print(nil, []string{"类型", "编码"}, [][]string{{"ed25519", "2"}}))
	assert.Contains(t, buf.String(), "ed25519")
}
