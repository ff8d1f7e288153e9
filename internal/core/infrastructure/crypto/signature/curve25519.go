package signature

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"

	cryptointf "github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

const (
	ed25519SignatureLength = ed25519.SignatureSize
	ed25519OwnerLength     = ed25519.PublicKeySize

	// aptosNonce 注入式 Aptos 钱包签名使用的固定 nonce
	aptosNonce = "bundlr"
)

// curve25519Signer Ed25519 系签名器的公共实现
//
// 各变体只在签名前的消息格式化上不同
type curve25519Signer struct {
	sigType types.SignatureType
	key     ed25519.PrivateKey
	format  func(message []byte) []byte
}

func newCurve25519Signer(sigType types.SignatureType, key ed25519.PrivateKey, format func([]byte) []byte) (curve25519Signer, error) {
	if len(key) != ed25519.PrivateKeySize {
		return curve25519Signer{}, &types.LengthError{
			Field:    "ed25519 private key",
			Expected: ed25519.PrivateKeySize,
			Got:      len(key),
			Kind:     types.ErrInvalidKeyLength,
		}
	}
	return curve25519Signer{sigType: sigType, key: key, format: format}, nil
}

// Type 签名类型
func (s *curve25519Signer) Type() types.SignatureType { return s.sigType }

// PublicKey 32字节 Ed25519 公钥
func (s *curve25519Signer) PublicKey() []byte {
	return append([]byte(nil), s.key.Public().(ed25519.PublicKey)...)
}

// SignatureLength 签名长度
func (s *curve25519Signer) SignatureLength() int { return ed25519SignatureLength }

// OwnerLength 公钥长度
func (s *curve25519Signer) OwnerLength() int { return ed25519OwnerLength }

// Sign 对格式化后的消息签名
func (s *curve25519Signer) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.key, s.format(message)), nil
}

// Ed25519Signer 原始消息 Ed25519 签名器
type Ed25519Signer struct{ curve25519Signer }

// SolanaSigner 对消息十六进制文本签名
type SolanaSigner struct{ curve25519Signer }

// AptosSigner 注入式 Aptos 钱包消息格式签名
type AptosSigner struct{ curve25519Signer }

var (
	_ cryptointf.Signer = (*Ed25519Signer)(nil)
	_ cryptointf.Signer = (*SolanaSigner)(nil)
	_ cryptointf.Signer = (*AptosSigner)(nil)
)

// NewEd25519Signer 创建 Ed25519 签名器
func NewEd25519Signer(key ed25519.PrivateKey) (*Ed25519Signer, error) {
	base, err := newCurve25519Signer(types.SignatureTypeED25519, key, rawMessage)
	if err != nil {
		return nil, err
	}
	return &Ed25519Signer{base}, nil
}

// NewSolanaSigner 创建 Solana 签名器
func NewSolanaSigner(key ed25519.PrivateKey) (*SolanaSigner, error) {
	base, err := newCurve25519Signer(types.SignatureTypeSolana, key, solanaMessage)
	if err != nil {
		return nil, err
	}
	return &SolanaSigner{base}, nil
}

// NewAptosSigner 创建注入式 Aptos 签名器
func NewAptosSigner(key ed25519.PrivateKey) (*AptosSigner, error) {
	base, err := newCurve25519Signer(types.SignatureTypeInjectedAptos, key, AptosMessage)
	if err != nil {
		return nil, err
	}
	return &AptosSigner{base}, nil
}

func rawMessage(message []byte) []byte { return message }

func solanaMessage(message []byte) []byte {
	return []byte(hex.EncodeToString(message))
}

// AptosMessage 构造 Aptos 钱包签名消息
//
//	APTOS
//	message: <hex>
//	nonce: bundlr
func AptosMessage(message []byte) []byte {
	return []byte(fmt.Sprintf("APTOS\nmessage: %s\nnonce: %s", hex.EncodeToString(message), aptosNonce))
}

func verifyCurve25519(publicKey, message, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize || len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}

// VerifyEd25519 验证 Ed25519 签名
func VerifyEd25519(publicKey, message, signature []byte) bool {
	return verifyCurve25519(publicKey, message, signature)
}

// VerifySolana 验证对消息十六进制文本的签名
func VerifySolana(publicKey, message, signature []byte) bool {
	return verifyCurve25519(publicKey, solanaMessage(message), signature)
}

// VerifyAptos 验证 Aptos 格式消息的签名
func VerifyAptos(publicKey, message, signature []byte) bool {
	return verifyCurve25519(publicKey, AptosMessage(message), signature)
}
