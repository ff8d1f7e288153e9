package hash

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSHA256(t *testing.T) {
	hashService := NewHashService()

	testCases := []struct {
		name     string
		input    []byte
		expected string
	}{
		{"空数据", []byte{}, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", []byte("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := hashService.SHA256(tc.input)
			if hex.EncodeToString(result) != tc.expected {
				t.Errorf("SHA256(%q) = %x, 期望 %s", tc.input, result, tc.expected)
			}
		})
	}
}

func TestSHA384(t *testing.T) {
	hashService := NewHashService()
	result := hashService.SHA384([]byte("abc"))
	if len(result) != DeepHashSize {
		t.Fatalf("SHA384 长度 = %d, 期望 %d", len(result), DeepHashSize)
	}
	expected := "cb00753f45a35e8bb5a03d699ac65007272c32ab0eded1631a8b605a43ff5bed8086072ba1e7cc2358baeca134c825a7"
	if hex.EncodeToString(result) != expected {
		t.Errorf("SHA384(abc) = %x", result)
	}
}

func TestKeccak256(t *testing.T) {
	hashService := NewHashService()
	result := hashService.Keccak256(nil)
	expected := "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"
	if hex.EncodeToString(result) != expected {
		t.Errorf("Keccak256(空) = %x, 期望 %s", result, expected)
	}
}

func TestConstantTimeCompare(t *testing.T) {
	a := []byte{1, 2, 3}
	if !ConstantTimeCompare(a, []byte{1, 2, 3}) {
		t.Error("相同哈希比较应返回 true")
	}
	if ConstantTimeCompare(a, []byte{1, 2, 4}) {
		t.Error("不同哈希比较应返回 false")
	}
	if ConstantTimeCompare(a, []byte{1, 2}) {
		t.Error("长度不同应返回 false")
	}
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestDeepHash(t *testing.T) {
	cases := []struct {
		name     string
		chunk    Chunk
		expected string
	}{
		{"空字节串", Blob{}, "fbf00cc444f5fea9dc3bedf62a13fba8ae87e7445fc910567a23bec4eb82fadb1143c433069314d8362983dc3c2e4a38"},
		{"hello", Blob("hello"), "33ab2407a6c328c0bc1bbe5971f49af5c1908985f83c3d2bd89a9e221dd8b068dc61ce968ba3f9ab12d5361ba3944382"},
		{"空列表", List{}, "a69e7d37fdc7f040a9ec16aae84de24fab4a653dac4de0bd247e36bab9fe45d9289c5a04a893c95285812f5cefc9707a"},
		{"嵌套列表", List{Blob("a"), List{Blob("b"), Blob("c")}}, "30bce0a753c170f214f57dd0244bc29c76526aea405cd8bff8af8301a7d10424e1c57f63ab4d55070b99f48f72a8c2e7"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DeepHash(tc.chunk)
			require.NoError(t, err)
			assert.Equal(t, mustHex(t, tc.expected), got)
		})
	}
}

func TestDeepHash_StreamMatchesBlob(t *testing.T) {
	payload := bytes.Repeat([]byte("data item payload "), 10000)

	blob, err := DeepHash(Blob(payload))
	require.NoError(t, err)

	t.Run("默认缓冲", func(t *testing.T) {
		got, err := DeepHash(Stream{Reader: bytes.NewReader(payload)})
		require.NoError(t, err)
		assert.Equal(t, blob, got)
	})

	t.Run("逐字节读取", func(t *testing.T) {
		got, err := DeepHash(Stream{Reader: iotest.OneByteReader(bytes.NewReader(payload)), BufferSize: 7})
		require.NoError(t, err)
		assert.Equal(t, blob, got)
	})

	t.Run("列表中的流", func(t *testing.T) {
		want, err := DeepHash(List{Blob("x"), Blob(payload)})
		require.NoError(t, err)
		got, err := DeepHash(List{Blob("x"), Stream{Reader: strings.NewReader(string(payload))}})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestDeepHash_Errors(t *testing.T) {
	_, err := DeepHash(nil)
	assert.ErrorIs(t, err, ErrNilChunk)

	_, err = DeepHash(Stream{})
	assert.ErrorIs(t, err, ErrNilChunk)

	readErr := errors.New("磁盘读取失败")
	_, err = DeepHash(List{Blob("a"), Stream{Reader: iotest.ErrReader(readErr)}})
	assert.ErrorIs(t, err, readErr)
}
