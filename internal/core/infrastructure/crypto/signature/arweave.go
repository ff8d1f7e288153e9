package signature

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"math/big"

	cryptointf "github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

const (
	// ArweaveSignatureLength RSA-4096 签名长度
	ArweaveSignatureLength = 512
	// ArweaveOwnerLength RSA-4096 模数长度
	ArweaveOwnerLength = 512
	// ArweavePublicExponent Arweave 钱包固定公钥指数
	ArweavePublicExponent = 65537
)

// ArweaveSigner RSA-PSS 签名器
//
// owner 为大端模数 n，公钥指数固定为 65537
type ArweaveSigner struct {
	key   *rsa.PrivateKey
	owner []byte
}

var _ cryptointf.Signer = (*ArweaveSigner)(nil)

// NewArweaveSigner 创建 Arweave 签名器
func NewArweaveSigner(key *rsa.PrivateKey) (*ArweaveSigner, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: 私钥为空", types.ErrInvalidKeyLength)
	}
	if key.E != ArweavePublicExponent {
		return nil, fmt.Errorf("不支持的RSA公钥指数: %d", key.E)
	}
	if key.N.BitLen() != ArweaveOwnerLength*8 {
		return nil, &types.LengthError{
			Field:    "rsa modulus",
			Expected: ArweaveOwnerLength,
			Got:      (key.N.BitLen() + 7) / 8,
			Kind:     types.ErrInvalidKeyLength,
		}
	}
	return &ArweaveSigner{
		key:   key,
		owner: key.N.FillBytes(make([]byte, ArweaveOwnerLength)),
	}, nil
}

// Type 签名类型
func (s *ArweaveSigner) Type() types.SignatureType { return types.SignatureTypeArweave }

// PublicKey 模数 n 的大端字节
func (s *ArweaveSigner) PublicKey() []byte { return append([]byte(nil), s.owner...) }

// SignatureLength 签名长度
func (s *ArweaveSigner) SignatureLength() int { return ArweaveSignatureLength }

// OwnerLength 公钥长度
func (s *ArweaveSigner) OwnerLength() int { return ArweaveOwnerLength }

// Sign 对消息的 SHA-256 摘要做 PSS 签名
func (s *ArweaveSigner) Sign(message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)
	sig, err := rsa.SignPSS(rand.Reader, s.key, crypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
	})
	if err != nil {
		return nil, fmt.Errorf("arweave 签名失败: %w", err)
	}
	return sig, nil
}

// VerifyArweave 验证 RSA-PSS 签名，盐长度自动识别
func VerifyArweave(publicKey, message, signature []byte) bool {
	if len(publicKey) != ArweaveOwnerLength || len(signature) != ArweaveSignatureLength {
		return false
	}
	pub := &rsa.PublicKey{
		N: new(big.Int).SetBytes(publicKey),
		E: ArweavePublicExponent,
	}
	if pub.N.Sign() == 0 {
		return false
	}
	digest := sha256.Sum256(message)
	err := rsa.VerifyPSS(pub, crypto.SHA256, digest[:], signature, &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthAuto,
	})
	return err == nil
}
