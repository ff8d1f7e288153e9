package signature

import (
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/accounts"

	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/hash"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/secp256k1"
	cryptointf "github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

const (
	// EthereumSignatureLength r(32) + s(32) + v(1)
	EthereumSignatureLength = secp256k1.SignatureLength
	// EthereumOwnerLength 未压缩公钥长度
	EthereumOwnerLength = secp256k1.PublicKeyLength
)

// v 字节只接受以太坊形式
const (
	recoveryIDLow  = 27
	recoveryIDHigh = 28
)

var (
	// curve secp256k1 曲线封装，无状态
	curve = secp256k1.NewCurve()
	// hasher Keccak-256 摘要
	hasher = hash.NewHashService()
)

// EthereumSigner 以太坊个人消息签名器
//
// 签名对象为 keccak256("\x19Ethereum Signed Message:\n" + len + message)
type EthereumSigner struct {
	sigType types.SignatureType
	key     *btcec.PrivateKey
	owner   []byte
}

var _ cryptointf.Signer = (*EthereumSigner)(nil)

// NewEthereumSigner 创建以太坊签名器
func NewEthereumSigner(key *btcec.PrivateKey) (*EthereumSigner, error) {
	return newEthereumSigner(types.SignatureTypeEthereum, key)
}

// NewKyveSigner 创建 KYVE 签名器（与以太坊规则相同，类型编码不同）
func NewKyveSigner(key *btcec.PrivateKey) (*EthereumSigner, error) {
	return newEthereumSigner(types.SignatureTypeKyve, key)
}

func newEthereumSigner(sigType types.SignatureType, key *btcec.PrivateKey) (*EthereumSigner, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: 私钥为空", types.ErrInvalidKeyLength)
	}
	return &EthereumSigner{
		sigType: sigType,
		key:     key,
		owner:   key.PubKey().SerializeUncompressed(),
	}, nil
}

// Type 签名类型
func (s *EthereumSigner) Type() types.SignatureType { return s.sigType }

// PublicKey 65字节未压缩公钥
func (s *EthereumSigner) PublicKey() []byte { return append([]byte(nil), s.owner...) }

// SignatureLength 签名长度
func (s *EthereumSigner) SignatureLength() int { return EthereumSignatureLength }

// OwnerLength 公钥长度
func (s *EthereumSigner) OwnerLength() int { return EthereumOwnerLength }

// Sign 生成 r‖s‖v 签名
func (s *EthereumSigner) Sign(message []byte) ([]byte, error) {
	sig, err := curve.Sign(s.key, accounts.TextHash(message))
	if err != nil {
		return nil, fmt.Errorf("ethereum 签名失败: %w", err)
	}
	return sig, nil
}

// VerifyEthereum 验证以太坊个人消息签名
//
// r‖s 必须对 owner 验证通过（低位 s），v 必须为 27/28 且恢复出的公钥等于 owner
func VerifyEthereum(publicKey, message, signature []byte) bool {
	if len(publicKey) != EthereumOwnerLength || len(signature) != EthereumSignatureLength {
		return false
	}
	if !validRecoveryID(signature[64]) {
		return false
	}
	digest := accounts.TextHash(message)
	if !curve.VerifySignature(publicKey, digest, signature[:64]) {
		return false
	}
	recovered, err := curve.RecoverPubkey(digest, signature)
	if err != nil {
		return false
	}
	return hash.ConstantTimeCompare(recovered, publicKey)
}

func validRecoveryID(v byte) bool {
	return v == recoveryIDLow || v == recoveryIDHigh
}
