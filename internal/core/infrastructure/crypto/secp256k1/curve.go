// Package secp256k1 提供 secp256k1 椭圆曲线封装
//
// 🎯 **设计目的**：
// 封装 btcd/btcec 的 secp256k1 实现，为以太坊类签名提供
// 可恢复签名（r‖s‖v）的生成、恢复与验证。
package secp256k1

import (
	"crypto/elliptic"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

const (
	// HashLength 消息哈希长度
	HashLength = 32
	// SignatureLength 可恢复签名长度 r(32) + s(32) + v(1)
	SignatureLength = 65
	// PublicKeyLength 未压缩公钥长度（0x04 前缀）
	PublicKeyLength = 65

	// recoveryOffset 以太坊 v 值偏移
	recoveryOffset = 27
)

// Curve 封装 secp256k1 椭圆曲线
type Curve struct{}

// NewCurve 创建新的 secp256k1 曲线实例
func NewCurve() *Curve {
	return &Curve{}
}

// S256 返回 secp256k1 椭圆曲线实例
func (c *Curve) S256() elliptic.Curve {
	return btcec.S256()
}

// Sign 对32字节哈希生成可恢复签名
//
// 返回格式 r(32) + s(32) + v(1)，v ∈ {27, 28}，s 总是低位形式
func (c *Curve) Sign(privKey *btcec.PrivateKey, hash []byte) ([]byte, error) {
	if len(hash) != HashLength {
		return nil, &ErrInvalidHashLength{Expected: HashLength, Got: len(hash)}
	}
	if privKey == nil {
		return nil, fmt.Errorf("私钥不能为空")
	}

	// SignCompact 输出 header(27+recID) + r + s
	compact := ecdsa.SignCompact(privKey, hash, false)

	sig := make([]byte, SignatureLength)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return sig, nil
}

// RecoverPubkey 从签名恢复公钥
//
// 参数：
//   - hash: 消息哈希（32字节）
//   - signature: 65字节签名 r+s+v，v 可以是 0/1 或 27/28
//
// 返回：
//   - []byte: 未压缩公钥（65字节）
//   - error: 恢复失败时的错误
func (c *Curve) RecoverPubkey(hash, signature []byte) ([]byte, error) {
	if len(signature) != SignatureLength {
		return nil, &ErrInvalidSignatureLength{Expected: SignatureLength, Got: len(signature)}
	}
	if len(hash) != HashLength {
		return nil, &ErrInvalidHashLength{Expected: HashLength, Got: len(hash)}
	}

	v := signature[64]
	if v >= recoveryOffset {
		v -= recoveryOffset
	}
	if v > 1 {
		return nil, &ErrRecoverPubkeyFailed{Err: fmt.Errorf("invalid recovery id: %d", signature[64])}
	}

	compact := make([]byte, SignatureLength)
	compact[0] = recoveryOffset + v
	copy(compact[1:], signature[:64])

	pubKey, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, &ErrRecoverPubkeyFailed{Err: err}
	}
	return pubKey.SerializeUncompressed(), nil
}

// VerifySignature 验证 secp256k1 签名
//
// 参数：
//   - pubKey: 公钥（33字节压缩或65字节未压缩）
//   - hash: 消息哈希（32字节）
//   - signature: 签名（64字节 r+s 或 65字节 r+s+v，v 被忽略）
//
// 高位 s（可延展签名）视为无效
func (c *Curve) VerifySignature(pubKey, hash, signature []byte) bool {
	if len(hash) != HashLength {
		return false
	}
	if len(signature) != 64 && len(signature) != SignatureLength {
		return false
	}

	pubKeyObj, err := btcec.ParsePubKey(pubKey)
	if err != nil {
		return false
	}

	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(signature[:32]); overflow || r.IsZero() {
		return false
	}
	if overflow := s.SetByteSlice(signature[32:64]); overflow || s.IsZero() {
		return false
	}
	if s.IsOverHalfOrder() {
		return false
	}

	return ecdsa.NewSignature(&r, &s).Verify(hash, pubKeyObj)
}

// 错误类型定义

// ErrInvalidSignatureLength 签名长度无效
type ErrInvalidSignatureLength struct {
	Expected int
	Got      int
}

func (e *ErrInvalidSignatureLength) Error() string {
	return fmt.Sprintf("无效的签名长度: 期望 %d 字节，实际 %d 字节", e.Expected, e.Got)
}

// ErrInvalidHashLength 哈希长度无效
type ErrInvalidHashLength struct {
	Expected int
	Got      int
}

func (e *ErrInvalidHashLength) Error() string {
	return fmt.Sprintf("无效的哈希长度: 期望 %d 字节，实际 %d 字节", e.Expected, e.Got)
}

// ErrRecoverPubkeyFailed 公钥恢复失败
type ErrRecoverPubkeyFailed struct {
	Err error
}

func (e *ErrRecoverPubkeyFailed) Error() string {
	return fmt.Sprintf("公钥恢复失败: %v", e.Err)
}

func (e *ErrRecoverPubkeyFailed) Unwrap() error {
	return e.Err
}
