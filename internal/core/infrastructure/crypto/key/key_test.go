package key

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/signature"
	"github.com/weisyn/dataitem/pkg/types"
)

func TestParse_Ed25519(t *testing.T) {
	loader := NewLoader()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	cases := []struct {
		name  string
		input string
	}{
		{"32字节种子", hex.EncodeToString(priv.Seed())},
		{"64字节私钥", hex.EncodeToString(priv)},
		{"0x前缀与换行", "0x" + hex.EncodeToString(priv.Seed()) + "\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signer, err := loader.Parse(types.SignatureTypeED25519, []byte(tc.input))
			require.NoError(t, err)
			assert.Equal(t, types.SignatureTypeED25519, signer.Type())
			assert.Equal(t, []byte(pub), signer.PublicKey())
		})
	}

	signer, err := loader.Parse(types.SignatureTypeInjectedAptos, []byte(hex.EncodeToString(priv.Seed())))
	require.NoError(t, err)
	assert.Equal(t, types.SignatureTypeInjectedAptos, signer.Type())

	t.Run("公钥部分不匹配", func(t *testing.T) {
		bad := append([]byte(nil), priv...)
		bad[63] ^= 0x01
		_, err := loader.Parse(types.SignatureTypeED25519, []byte(hex.EncodeToString(bad)))
		assert.ErrorIs(t, err, ErrInvalidPrivateKey)
	})
}

func TestParse_Solana(t *testing.T) {
	loader := NewLoader()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	t.Run("base58", func(t *testing.T) {
		signer, err := loader.Parse(types.SignatureTypeSolana, []byte(base58.Encode(priv)))
		require.NoError(t, err)
		assert.Equal(t, types.SignatureTypeSolana, signer.Type())
		assert.Equal(t, []byte(pub), signer.PublicKey())
	})

	t.Run("JSON数组", func(t *testing.T) {
		ints := make([]int, len(priv))
		for i, b := range priv {
			ints[i] = int(b)
		}
		data, err := json.Marshal(ints)
		require.NoError(t, err)

		signer, err := loader.Parse(types.SignatureTypeSolana, data)
		require.NoError(t, err)
		assert.Equal(t, []byte(pub), signer.PublicKey())
	})

	t.Run("字节越界", func(t *testing.T) {
		_, err := loader.Parse(types.SignatureTypeSolana, []byte("[1, 256]"))
		assert.ErrorIs(t, err, ErrInvalidPrivateKey)
	})

	t.Run("非法base58", func(t *testing.T) {
		_, err := loader.Parse(types.SignatureTypeSolana, []byte("0OIl"))
		assert.ErrorIs(t, err, ErrInvalidPrivateKey)
	})
}

func TestParse_Secp256k1(t *testing.T) {
	loader := NewLoader()
	priv, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	encoded := "0x" + hex.EncodeToString(priv.Serialize())

	for _, sigType := range []types.SignatureType{
		types.SignatureTypeEthereum,
		types.SignatureTypeKyve,
		types.SignatureTypeTypedEthereum,
	} {
		t.Run(sigType.String(), func(t *testing.T) {
			signer, err := loader.Parse(sigType, []byte(encoded))
			require.NoError(t, err)
			assert.Equal(t, sigType, signer.Type())
		})
	}

	eth, err := loader.Parse(types.SignatureTypeEthereum, []byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, priv.PubKey().SerializeUncompressed(), eth.PublicKey())

	_, err = loader.Parse(types.SignatureTypeEthereum, []byte(strings.Repeat("00", 32)))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey, "零私钥")

	_, err = loader.Parse(types.SignatureTypeEthereum, []byte("abcd"))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey, "长度错误")

	_, err = loader.Parse(types.SignatureTypeEthereum, []byte("zz"))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey, "非十六进制")
}

func TestParse_Arweave(t *testing.T) {
	loader := NewLoader()
	key, err := rsa.GenerateKey(rand.Reader, 4096)
	require.NoError(t, err)
	owner := key.N.FillBytes(make([]byte, signature.ArweaveOwnerLength))

	t.Run("PKCS1", func(t *testing.T) {
		data := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
		signer, err := loader.Parse(types.SignatureTypeArweave, data)
		require.NoError(t, err)
		assert.Equal(t, owner, signer.PublicKey())
	})

	t.Run("PKCS8", func(t *testing.T) {
		der, err := x509.MarshalPKCS8PrivateKey(key)
		require.NoError(t, err)
		data := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
		signer, err := loader.Parse(types.SignatureTypeArweave, data)
		require.NoError(t, err)
		assert.Equal(t, owner, signer.PublicKey())
	})

	t.Run("JWK", func(t *testing.T) {
		enc := func(b []byte) string { return base64.RawURLEncoding.EncodeToString(b) }
		jwkJSON := fmt.Sprintf(`{"kty":"RSA","n":%q,"e":"AQAB","d":%q,"p":%q,"q":%q}`,
			enc(key.N.Bytes()), enc(key.D.Bytes()), enc(key.Primes[0].Bytes()), enc(key.Primes[1].Bytes()))

		signer, err := loader.Parse(types.SignatureTypeArweave, []byte(jwkJSON))
		require.NoError(t, err)
		assert.Equal(t, owner, signer.PublicKey())

		msg := []byte("jwk message")
		sig, err := signer.Sign(msg)
		require.NoError(t, err)
		assert.True(t, signature.VerifyArweave(owner, msg, sig))
	})

	t.Run("不支持的格式", func(t *testing.T) {
		_, err := loader.Parse(types.SignatureTypeArweave, []byte("not a key"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)

		_, err = loader.Parse(types.SignatureTypeArweave, []byte(`{"kty":"EC"}`))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestParse_MultiAptos(t *testing.T) {
	loader := NewLoader()

	type slot struct {
		PublicKey  string `json:"public_key"`
		PrivateKey string `json:"private_key,omitempty"`
	}
	var slots []slot
	for i := 0; i < 3; i++ {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		s := slot{PublicKey: hex.EncodeToString(pub)}
		if i != 1 {
			s.PrivateKey = hex.EncodeToString(priv.Seed())
		}
		slots = append(slots, s)
	}
	data, err := json.Marshal(map[string]interface{}{"threshold": 2, "slots": slots})
	require.NoError(t, err)

	signer, err := loader.Parse(types.SignatureTypeMultiAptos, data)
	require.NoError(t, err)
	assert.Equal(t, types.SignatureTypeMultiAptos, signer.Type())

	msg := []byte("multi")
	sig, err := signer.Sign(msg)
	require.NoError(t, err)
	assert.True(t, signature.VerifyMultiAptos(signer.PublicKey(), msg, sig))

	_, err = loader.Parse(types.SignatureTypeMultiAptos, []byte("{"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadFile(t *testing.T) {
	loader := NewLoader()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ed25519.key")
	require.NoError(t, os.WriteFile(path, []byte(hex.EncodeToString(priv.Seed())), 0600))

	signer, err := loader.LoadFile(types.SignatureTypeED25519, path)
	require.NoError(t, err)
	assert.Equal(t, []byte(priv.Public().(ed25519.PublicKey)), signer.PublicKey())

	_, err = loader.LoadFile(types.SignatureTypeED25519, filepath.Join(t.TempDir(), "missing.key"))
	assert.ErrorIs(t, err, types.ErrIO)
}

func TestParse_Invalid(t *testing.T) {
	loader := NewLoader()

	_, err := loader.Parse(types.SignatureTypeED25519, []byte("  \n"))
	assert.ErrorIs(t, err, ErrInvalidPrivateKey)

	_, err = loader.Parse(types.SignatureType(42), []byte("00"))
	assert.ErrorIs(t, err, types.ErrUnsupportedSignatureType)
}

func TestSecureWipe(t *testing.T) {
	data := []byte{1, 2, 3}
	SecureWipe(data)
	assert.Equal(t, []byte{0, 0, 0}, data)
}
