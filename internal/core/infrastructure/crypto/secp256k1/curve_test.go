package secp256k1

import (
	"crypto/sha256"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurve_SignRecoverVerify(t *testing.T) {
	curve := NewCurve()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)

	hash := sha256.Sum256([]byte("secp256k1 测试消息"))
	sig, err := curve.Sign(priv, hash[:])
	require.NoError(t, err)
	require.Len(t, sig, SignatureLength)
	assert.Contains(t, []byte{27, 28}, sig[64])

	t.Run("恢复公钥", func(t *testing.T) {
		pub, err := curve.RecoverPubkey(hash[:], sig)
		require.NoError(t, err)
		assert.Equal(t, priv.PubKey().SerializeUncompressed(), pub)

		// v 为 0/1 的形式同样可以恢复
		alt := append([]byte(nil), sig...)
		alt[64] -= 27
		pub2, err := curve.RecoverPubkey(hash[:], alt)
		require.NoError(t, err)
		assert.Equal(t, pub, pub2)
	})

	t.Run("验证签名", func(t *testing.T) {
		pub := priv.PubKey().SerializeUncompressed()
		assert.True(t, curve.VerifySignature(pub, hash[:], sig))
		assert.True(t, curve.VerifySignature(pub, hash[:], sig[:64]))
		assert.True(t, curve.VerifySignature(priv.PubKey().SerializeCompressed(), hash[:], sig))
	})

	t.Run("篡改后验证失败", func(t *testing.T) {
		pub := priv.PubKey().SerializeUncompressed()
		tampered := append([]byte(nil), sig...)
		tampered[10] ^= 0xff
		assert.False(t, curve.VerifySignature(pub, hash[:], tampered))

		other := sha256.Sum256([]byte("其他消息"))
		assert.False(t, curve.VerifySignature(pub, other[:], sig))
	})
}

func TestCurve_InvalidInput(t *testing.T) {
	curve := NewCurve()
	hash := make([]byte, HashLength)

	_, err := curve.RecoverPubkey(hash, make([]byte, 64))
	var lenErr *ErrInvalidSignatureLength
	assert.ErrorAs(t, err, &lenErr)

	_, err = curve.RecoverPubkey(hash[:31], make([]byte, 65))
	var hashErr *ErrInvalidHashLength
	assert.ErrorAs(t, err, &hashErr)

	bad := make([]byte, 65)
	bad[64] = 5
	_, err = curve.RecoverPubkey(hash, bad)
	var recErr *ErrRecoverPubkeyFailed
	assert.ErrorAs(t, err, &recErr)

	assert.False(t, curve.VerifySignature([]byte{1, 2, 3}, hash, make([]byte, 64)))
	assert.False(t, curve.VerifySignature(nil, hash, make([]byte, 63)))
}
