package dataitem

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/dataitem/pkg/types"
)

func TestCreateFileData_SignAndVerify(t *testing.T) {
	signer, _ := newEd25519Signer(t)
	path := filepath.Join(t.TempDir(), "item.bin")
	payload := strings.Repeat("file backed payload ", 1000)

	item, err := CreateFileData(path, strings.NewReader(payload), signer, sampleOptions(), WithBufferSize(7))
	require.NoError(t, err)
	assert.Equal(t, types.ItemKindFileBacked, item.Kind())

	signed, err := item.IsSigned()
	require.NoError(t, err)
	assert.False(t, signed)

	id, err := item.Sign(signer)
	require.NoError(t, err)

	ok, err := item.IsValid()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyFile(path)
	require.NoError(t, err)
	assert.True(t, ok)

	rawID, err := item.RawID()
	require.NoError(t, err)
	assert.Equal(t, id, rawID)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "临时文件应已重命名")
}

func TestFileDataItem_ParityWithMemory(t *testing.T) {
	for _, signer := range allSigners(t) {
		signer := signer
		t.Run(signer.Type().String(), func(t *testing.T) {
			mem, err := CreateData([]byte("parity "+signer.Type().String()), signer, sampleOptions())
			require.NoError(t, err)
			_, err = mem.Sign(signer)
			require.NoError(t, err)

			file, err := FromDataItem(mem, filepath.Join(t.TempDir(), "item"+FileExtension), WithBufferSize(5))
			require.NoError(t, err)

			fields := []struct {
				name string
				mem  func() ([]byte, error)
				file func() ([]byte, error)
			}{
				{"signature", mem.RawSignature, file.RawSignature},
				{"owner", mem.RawOwner, file.RawOwner},
				{"target", mem.RawTarget, file.RawTarget},
				{"anchor", mem.RawAnchor, file.RawAnchor},
				{"tags", mem.RawTags, file.RawTags},
				{"data", mem.RawData, file.RawData},
				{"id", mem.RawID, file.RawID},
				{"signatureData", mem.SignatureData, file.SignatureData},
			}
			for _, f := range fields {
				expected, err := f.mem()
				require.NoError(t, err, f.name)
				actual, err := f.file()
				require.NoError(t, err, f.name)
				assert.Equal(t, expected, actual, f.name)
			}

			memTags, err := mem.Tags()
			require.NoError(t, err)
			fileTags, err := file.Tags()
			require.NoError(t, err)
			assert.Equal(t, memTags, fileTags)

			strFields := []struct {
				name string
				mem  func() (string, error)
				file func() (string, error)
			}{
				{"signature", mem.Signature, file.Signature},
				{"owner", mem.Owner, file.Owner},
				{"target", mem.Target, file.Target},
				{"anchor", mem.Anchor, file.Anchor},
				{"data", mem.Data, file.Data},
				{"id", mem.ID, file.ID},
			}
			for _, f := range strFields {
				expected, err := f.mem()
				require.NoError(t, err, f.name)
				actual, err := f.file()
				require.NoError(t, err, f.name)
				assert.Equal(t, expected, actual, f.name)
			}

			intFields := []struct {
				name string
				mem  func() (int64, error)
				file func() (int64, error)
			}{
				{"dataStart", mem.DataStart, file.DataStart},
				{"dataSize", mem.DataSize, file.DataSize},
				{"size", mem.Size, file.Size},
			}
			for _, f := range intFields {
				expected, err := f.mem()
				require.NoError(t, err, f.name)
				actual, err := f.file()
				require.NoError(t, err, f.name)
				assert.Equal(t, expected, actual, f.name)
			}

			memSigLen, err := mem.SignatureLength()
			require.NoError(t, err)
			fileSigLen, err := file.SignatureLength()
			require.NoError(t, err)
			assert.Equal(t, memSigLen, fileSigLen)
			assert.Equal(t, signer.SignatureLength(), fileSigLen)

			memOwnerLen, err := mem.OwnerLength()
			require.NoError(t, err)
			fileOwnerLen, err := file.OwnerLength()
			require.NoError(t, err)
			assert.Equal(t, memOwnerLen, fileOwnerLen)
			assert.Equal(t, signer.OwnerLength(), fileOwnerLen)

			memB64Tags, err := mem.TagsB64URL()
			require.NoError(t, err)
			fileB64Tags, err := file.TagsB64URL()
			require.NoError(t, err)
			assert.Equal(t, memB64Tags, fileB64Tags)

			ok, err := file.IsValid()
			require.NoError(t, err)
			assert.True(t, ok)

			loaded, err := Load(file.Path())
			require.NoError(t, err)
			assert.Equal(t, mem.Bytes(), loaded.Bytes())
		})
	}
}

func TestFileDataItem_SignMatchesMemory(t *testing.T) {
	signer, _ := newEd25519Signer(t)
	mem, err := CreateData([]byte("same bytes"), signer, sampleOptions())
	require.NoError(t, err)

	file, err := FromDataItem(mem, filepath.Join(t.TempDir(), "unsigned"+FileExtension))
	require.NoError(t, err)

	memID, err := mem.Sign(signer)
	require.NoError(t, err)
	fileID, err := file.Sign(signer)
	require.NoError(t, err)
	assert.Equal(t, memID, fileID)

	onDisk, err := os.ReadFile(file.Path())
	require.NoError(t, err)
	assert.Equal(t, mem.Bytes(), onDisk)
}

func TestFileDataItem_Tampered(t *testing.T) {
	signer, _ := newEd25519Signer(t)
	path := filepath.Join(t.TempDir(), "tampered"+FileExtension)
	item, err := CreateFileData(path, bytes.NewReader([]byte("original")), signer, nil)
	require.NoError(t, err)
	_, err = item.Sign(signer)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	ok, err := VerifyFile(path)
	require.NoError(t, err)
	assert.False(t, ok)

	// 每次访问都读取文件当前内容
	data, err := item.RawData()
	require.NoError(t, err)
	assert.Equal(t, raw[len(raw)-len("original"):], data)
}

func TestFileDataItem_IOErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing"+FileExtension)

	_, err := VerifyFile(missing)
	assert.ErrorIs(t, err, types.ErrIO)
	assert.ErrorIs(t, err, os.ErrNotExist)

	item := NewFileDataItem(missing)
	_, err = item.RawOwner()
	assert.ErrorIs(t, err, types.ErrIO)
	_, err = item.Size()
	assert.ErrorIs(t, err, types.ErrIO)
	ok, err := item.IsValid()
	assert.ErrorIs(t, err, types.ErrIO)
	assert.False(t, ok)

	_, err = Load(missing)
	assert.ErrorIs(t, err, types.ErrIO)

	signer, _ := newEd25519Signer(t)
	_, err = CreateFileData(filepath.Join(missing, "nested"), nil, signer, nil)
	assert.ErrorIs(t, err, types.ErrIO)
}

func TestFileDataItem_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short"+FileExtension)
	require.NoError(t, os.WriteFile(path, []byte{0x02, 0x00, 1, 2, 3}, 0o644))

	item := NewFileDataItem(path)
	_, err := item.RawOwner()
	assert.ErrorIs(t, err, types.ErrFormat)

	ok, err := item.IsValid()
	require.NoError(t, err)
	assert.False(t, ok)

	signer, _ := newEd25519Signer(t)
	_, err = item.Sign(signer)
	assert.ErrorIs(t, err, types.ErrFormat)
}

func TestFileDataItem_DataReader(t *testing.T) {
	signer, _ := newEd25519Signer(t)
	payload := bytes.Repeat([]byte{1, 2, 3, 4}, 4096)
	item, err := CreateFileDataInDir(t.TempDir(), bytes.NewReader(payload), signer, sampleOptions())
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(item.Path(), FileExtension))

	rc, err := item.DataReader()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, payload, data)

	size, err := item.Size()
	require.NoError(t, err)
	head, err := buildHeader(signer, sampleOptions())
	require.NoError(t, err)
	assert.Equal(t, int64(len(head)+len(payload)), size)
}

func TestFileDataItem_SetSignature(t *testing.T) {
	signer, priv := newEd25519Signer(t)
	item, err := CreateFileDataInDir(t.TempDir(), strings.NewReader("detached"), signer, nil)
	require.NoError(t, err)

	_, err = item.RawID()
	assert.ErrorIs(t, err, types.ErrNotSigned)

	message, err := item.SignatureData()
	require.NoError(t, err)

	assert.ErrorIs(t, item.SetSignature([]byte{1}), types.ErrSignerMismatch)
	require.NoError(t, item.SetSignature(ed25519.Sign(priv, message)))

	ok, err := item.IsValid()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFileDataItem_MoveTo(t *testing.T) {
	signer, _ := newEd25519Signer(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "src"+FileExtension)
	item, err := CreateFileData(src, strings.NewReader("move me"), signer, sampleOptions())
	require.NoError(t, err)
	id, err := item.Sign(signer)
	require.NoError(t, err)

	t.Run("重命名", func(t *testing.T) {
		dst := filepath.Join(dir, "dst"+FileExtension)
		moved, err := item.MoveTo(dst)
		require.NoError(t, err)
		assert.Equal(t, dst, moved.Path())
		assert.NoFileExists(t, src)

		size, err := moved.Size()
		require.NoError(t, err)
		assert.Positive(t, size)
		movedID, err := moved.RawID()
		require.NoError(t, err)
		assert.Equal(t, id, movedID)
		ok, err := moved.IsValid()
		require.NoError(t, err)
		assert.True(t, ok)

		item = moved
	})

	t.Run("跨文件系统时复制", func(t *testing.T) {
		orig := rename
		rename = func(oldpath, newpath string) error {
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: errors.New("invalid cross-device link")}
		}
		t.Cleanup(func() { rename = orig })

		from := item.Path()
		dst := filepath.Join(dir, "copied"+FileExtension)
		moved, err := item.MoveTo(dst)
		require.NoError(t, err)
		assert.NoFileExists(t, from)

		ok, err := VerifyFile(dst)
		require.NoError(t, err)
		assert.True(t, ok)
		movedID, err := moved.RawID()
		require.NoError(t, err)
		assert.Equal(t, id, movedID)
	})

	t.Run("源文件不存在", func(t *testing.T) {
		missing := NewFileDataItem(filepath.Join(t.TempDir(), "missing"+FileExtension))
		_, err := missing.MoveTo(filepath.Join(t.TempDir(), "dst"+FileExtension))
		assert.ErrorIs(t, err, types.ErrIO)
	})
}
