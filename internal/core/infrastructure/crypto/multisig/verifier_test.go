package multisig

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptointf "github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
)

// echoVerifier 签名等于 公钥||消息 时通过
var echoVerifier = cryptointf.VerifierFunc(func(pub, msg, sig []byte) bool {
	return bytes.Equal(sig, append(append([]byte(nil), pub...), msg...))
})

func entry(index uint32, pub, msg []byte) cryptointf.MultiSignatureEntry {
	return cryptointf.MultiSignatureEntry{
		KeyIndex:  index,
		Signature: append(append([]byte(nil), pub...), msg...),
	}
}

func TestVerifyMultiSignature(t *testing.T) {
	msg := []byte("message")
	keys := []cryptointf.PublicKey{{Value: []byte("k0")}, {Value: []byte("k1")}, {Value: []byte("k2")}}
	v := NewMultiSignatureVerifier(echoVerifier)

	t.Run("满足门限", func(t *testing.T) {
		ok, err := v.VerifyMultiSignature(msg, []cryptointf.MultiSignatureEntry{
			entry(0, keys[0].Value, msg),
			entry(2, keys[2].Value, msg),
		}, keys, 2)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("签名数量不足", func(t *testing.T) {
		ok, err := v.VerifyMultiSignature(msg, []cryptointf.MultiSignatureEntry{
			entry(1, keys[1].Value, msg),
		}, keys, 2)
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("索引越界", func(t *testing.T) {
		ok, err := v.VerifyMultiSignature(msg, []cryptointf.MultiSignatureEntry{
			entry(3, []byte("k3"), msg),
		}, keys, 1)
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("重复索引", func(t *testing.T) {
		ok, err := v.VerifyMultiSignature(msg, []cryptointf.MultiSignatureEntry{
			entry(1, keys[1].Value, msg),
			entry(1, keys[1].Value, msg),
		}, keys, 2)
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("单个签名无效", func(t *testing.T) {
		ok, err := v.VerifyMultiSignature(msg, []cryptointf.MultiSignatureEntry{
			entry(0, keys[0].Value, msg),
			entry(1, keys[0].Value, msg),
		}, keys, 1)
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("缺少验证器", func(t *testing.T) {
		ok, err := NewMultiSignatureVerifier(nil).VerifyMultiSignature(msg, nil, keys, 0)
		assert.ErrorIs(t, err, ErrNilVerifier)
		assert.False(t, ok)
	})
}
