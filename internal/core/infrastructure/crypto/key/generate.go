package key

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/mr-tron/base58"

	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/signature"
	"github.com/weisyn/dataitem/pkg/types"
)

// 生成 multiAptos 密钥时的默认布局
const (
	DefaultMultiAptosSlots     = 3
	DefaultMultiAptosThreshold = 2
)

// Generate 生成指定签名类型的新私钥，编码为 Parse 可读取的格式
func Generate(sigType types.SignatureType) ([]byte, error) {
	switch sigType {
	case types.SignatureTypeArweave:
		key, err := rsa.GenerateKey(rand.Reader, signature.ArweaveOwnerLength*8)
		if err != nil {
			return nil, fmt.Errorf("生成 RSA 密钥失败: %w", err)
		}
		der, err := x509.MarshalPKCS8PrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("编码 RSA 密钥失败: %w", err)
		}
		return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil

	case types.SignatureTypeED25519, types.SignatureTypeInjectedAptos:
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		return []byte(hex.EncodeToString(priv.Seed())), nil

	case types.SignatureTypeSolana:
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		return []byte(base58.Encode(priv)), nil

	case types.SignatureTypeEthereum, types.SignatureTypeKyve, types.SignatureTypeTypedEthereum:
		priv, err := btcec.NewPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("生成 secp256k1 密钥失败: %w", err)
		}
		return []byte(hex.EncodeToString(priv.Serialize())), nil

	case types.SignatureTypeMultiAptos:
		return generateMultiAptos(DefaultMultiAptosSlots, DefaultMultiAptosThreshold)

	default:
		return nil, fmt.Errorf("%w: %d", types.ErrUnsupportedSignatureType, uint16(sigType))
	}
}

func generateMultiAptos(slots int, threshold uint8) ([]byte, error) {
	var f multiAptosFile
	f.Threshold = threshold
	for i := 0; i < slots; i++ {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		f.Slots = append(f.Slots, multiAptosSlotFile{
			PublicKey:  hex.EncodeToString(pub),
			PrivateKey: hex.EncodeToString(priv.Seed()),
		})
	}
	return json.MarshalIndent(f, "", "  ")
}
