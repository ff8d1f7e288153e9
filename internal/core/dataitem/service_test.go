package dataitem

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	appconfig "github.com/weisyn/dataitem/internal/config"
	cryptomodule "github.com/weisyn/dataitem/internal/core/infrastructure/crypto"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/signature"
	logmodule "github.com/weisyn/dataitem/internal/core/infrastructure/log"
	configiface "github.com/weisyn/dataitem/pkg/interfaces/config"
	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

// newTestService 通过 fx 组装配置、日志、加密与数据项模块
func newTestService(t *testing.T, cfg *types.AppConfig) *Service {
	t.Helper()
	var service *Service
	app := fxtest.New(t,
		fx.NopLogger,
		fx.Provide(func() configiface.AppOptions { return appconfig.NewAppOptions(cfg) }),
		appconfig.Module(),
		logmodule.Module(),
		cryptomodule.Module(),
		Module(),
		fx.Populate(&service),
	)
	app.RequireStart()
	t.Cleanup(app.RequireStop)
	require.NotNil(t, service)
	return service
}

func TestModule_Wiring(t *testing.T) {
	service := newTestService(t, nil)
	assert.Len(t, service.Descriptors(), 8)
	assert.Equal(t, int64(64<<20), service.options.FileThresholdBytes)
}

func TestService_CreateChoosesKind(t *testing.T) {
	dir := t.TempDir()
	service := newTestService(t, &types.AppConfig{
		Log: &types.UserLogConfig{Level: types.StringPtr("error")},
		DataItem: &types.UserDataItemConfig{
			FileThresholdBytes: types.Int64Ptr(16),
			TempDir:            types.StringPtr(dir),
			StreamBufferSize:   types.IntPtr(8 << 10),
		},
	})
	signer, _ := newEd25519Signer(t)
	ctx := context.Background()

	t.Run("小载荷使用内存", func(t *testing.T) {
		item, err := service.Create(ctx, bytes.NewReader([]byte("small")), 5, signer, sampleOptions())
		require.NoError(t, err)
		assert.Equal(t, types.ItemKindInMemory, item.Kind())

		id, err := service.Sign(ctx, item, signer)
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		ok, err := service.Verify(ctx, item)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("大载荷使用文件", func(t *testing.T) {
		payload := bytes.Repeat([]byte("x"), 100)
		item, err := service.Create(ctx, bytes.NewReader(payload), int64(len(payload)), signer, nil)
		require.NoError(t, err)
		require.Equal(t, types.ItemKindFileBacked, item.Kind())
		assert.Equal(t, dir, filepath.Dir(item.(*FileDataItem).Path()))

		_, err = service.Sign(ctx, item, signer)
		require.NoError(t, err)
		ok, err := service.Verify(ctx, service.Open(item.(*FileDataItem).Path()))
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("未知长度使用文件", func(t *testing.T) {
		item, err := service.Create(ctx, bytes.NewReader([]byte("abc")), UnknownSize, signer, nil)
		require.NoError(t, err)
		assert.Equal(t, types.ItemKindFileBacked, item.Kind())
	})

	t.Run("载荷长度不符", func(t *testing.T) {
		_, err := service.Create(ctx, bytes.NewReader([]byte("abc")), 10, signer, nil)
		assert.ErrorIs(t, err, types.ErrFormat)
	})

	t.Run("已取消的上下文", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := service.Create(cancelled, bytes.NewReader(nil), 0, signer, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestService_LoadSigner(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "ed25519.key")
	require.NoError(t, os.WriteFile(keyPath, []byte(hex.EncodeToString(testSeed(1))), 0o600))

	service := newTestService(t, &types.AppConfig{
		Signer: &types.UserSignerConfig{
			SignatureType: types.StringPtr("ed25519"),
			KeyPath:       types.StringPtr(keyPath),
		},
	})

	signer, err := service.DefaultSigner()
	require.NoError(t, err)
	expected, _ := newEd25519Signer(t)
	assert.Equal(t, types.SignatureTypeED25519, signer.Type())
	assert.Equal(t, expected.PublicKey(), signer.PublicKey())

	_, err = service.LoadSigner("ed25519", "")
	assert.ErrorIs(t, err, ErrNoKeyPath)

	_, err = service.LoadSigner("unknown", keyPath)
	assert.ErrorIs(t, err, types.ErrUnsupportedSignatureType)

	_, err = service.LoadSigner("ed25519", filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, types.ErrIO)
}

func TestService_Persist(t *testing.T) {
	dir := t.TempDir()
	service := newTestService(t, &types.AppConfig{
		Log: &types.UserLogConfig{Level: types.StringPtr("error")},
		DataItem: &types.UserDataItemConfig{
			FileThresholdBytes: types.Int64Ptr(4),
			TempDir:            types.StringPtr(dir),
		},
	})
	signer, _ := newEd25519Signer(t)
	ctx := context.Background()
	outDir := t.TempDir()

	for _, payload := range []string{"abc", "file backed payload"} {
		item, err := service.Create(ctx, strings.NewReader(payload), int64(len(payload)), signer, sampleOptions())
		require.NoError(t, err)
		id, err := service.Sign(ctx, item, signer)
		require.NoError(t, err)

		out := filepath.Join(outDir, item.Kind().String()+FileExtension)
		written, err := service.Persist(ctx, item, out)
		require.NoError(t, err, item.Kind().String())
		assert.Equal(t, out, written.Path())

		size, err := written.Size()
		require.NoError(t, err)
		dataSize, err := written.DataSize()
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), dataSize)
		assert.Greater(t, size, dataSize)

		writtenID, err := written.ID()
		require.NoError(t, err)
		assert.Equal(t, id, writtenID)
		ok, err := service.Verify(ctx, written)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "临时目录中的文件数据项应已移走")
}

func TestService_UsesInjectedRegistry(t *testing.T) {
	signer, _ := newEd25519Signer(t)
	item, err := CreateData([]byte("registry"), signer, nil)
	require.NoError(t, err)
	_, err = item.Sign(signer)
	require.NoError(t, err)
	ctx := context.Background()

	calls := 0
	reg, err := signature.NewRegistry(signature.Descriptor{
		Type:            types.SignatureTypeED25519,
		SignatureLength: 64,
		OwnerLength:     32,
		Verifier: crypto.VerifierFunc(func(_, _, _ []byte) bool {
			calls++
			return false
		}),
	})
	require.NoError(t, err)
	service := NewService(nil, nil, nil, reg, nil, nil)

	ok, err := service.Verify(ctx, item)
	require.NoError(t, err)
	assert.False(t, ok, "应使用注入注册表的验证器")
	assert.Equal(t, 1, calls)

	path := filepath.Join(t.TempDir(), "item"+FileExtension)
	file, err := FromDataItem(item, path)
	require.NoError(t, err)
	ok, err = service.Verify(ctx, file)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, calls)

	eth, err := signature.NewEthereumSigner(newSecpKey(t))
	require.NoError(t, err)
	ethItem, err := CreateData(nil, eth, nil)
	require.NoError(t, err)
	_, err = service.Sign(ctx, ethItem, eth)
	assert.ErrorIs(t, err, types.ErrUnsupportedSignatureType)
	ok, err = service.Verify(ctx, ethItem)
	require.NoError(t, err)
	assert.False(t, ok, "未注册类型应验证失败")
}

func TestService_OwnerAddress(t *testing.T) {
	service := NewService(nil, nil, nil, nil, nil, nil)

	secp := newSecpKey(t)
	eth, err := signature.NewEthereumSigner(secp)
	require.NoError(t, err)
	typed, err := signature.NewTypedEthereumSigner(secp)
	require.NoError(t, err)

	address := service.OwnerAddress(types.SignatureTypeEthereum, eth.PublicKey())
	assert.Equal(t, typed.Address(), strings.ToLower(address), "ethereum 地址应与 typedEthereum owner 一致")
	assert.Equal(t, address, service.OwnerAddress(types.SignatureTypeKyve, eth.PublicKey()))
	assert.Equal(t, typed.Address(), service.OwnerAddress(types.SignatureTypeTypedEthereum, typed.PublicKey()))

	sol, err := signature.NewSolanaSigner(ed25519.NewKeyFromSeed(testSeed(2)))
	require.NoError(t, err)
	assert.Equal(t, base58.Encode(sol.PublicKey()), service.OwnerAddress(types.SignatureTypeSolana, sol.PublicKey()))

	assert.Empty(t, service.OwnerAddress(types.SignatureTypeED25519, sol.PublicKey()))
	assert.Empty(t, service.OwnerAddress(types.SignatureTypeEthereum, []byte{1, 2}))
}
