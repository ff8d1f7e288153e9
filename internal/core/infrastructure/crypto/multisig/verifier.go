// Package multisig 提供多重签名验证实现
//
// 🎯 **职责**：实现MultiSignatureVerifier接口，提供M-of-N多重签名验证能力
//
// **设计原则**：
// - 专注于密码学验证，不涉及信封格式
// - 依赖单签名 Verifier 逐个验证
package multisig

import (
	"errors"
	"fmt"

	cryptointf "github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
)

// ErrNilVerifier 未提供单签名验证器
var ErrNilVerifier = errors.New("multisig: nil verifier")

// MultiSignatureVerifierImpl MultiSignatureVerifier接口的实现
type MultiSignatureVerifierImpl struct {
	verifier cryptointf.Verifier
}

// NewMultiSignatureVerifier 创建新的多重签名验证器
//
// 参数：
//   - verifier: 单签名验证器，所有公钥使用同一算法
func NewMultiSignatureVerifier(verifier cryptointf.Verifier) *MultiSignatureVerifierImpl {
	return &MultiSignatureVerifierImpl{
		verifier: verifier,
	}
}

// VerifyMultiSignature 验证M-of-N多重签名
//
// **验证流程**：
// 1. 验证签名数量
// 2. 验证索引有效性和唯一性
// 3. 逐个验证签名，任一失败即整体失败
//
// 返回的 error 说明失败原因，bool 为 false 时 error 总是非空
func (v *MultiSignatureVerifierImpl) VerifyMultiSignature(
	message []byte,
	signatures []cryptointf.MultiSignatureEntry,
	publicKeys []cryptointf.PublicKey,
	requiredSignatures uint32,
) (bool, error) {
	if v.verifier == nil {
		return false, ErrNilVerifier
	}

	// 1. 验证签名数量
	if uint32(len(signatures)) < requiredSignatures {
		return false, fmt.Errorf(
			"签名数量不足: 需要 %d 个，实际 %d 个",
			requiredSignatures, len(signatures),
		)
	}

	// 2. 验证索引有效性和唯一性
	usedIndices := make(map[uint32]bool, len(signatures))
	for i, sig := range signatures {
		keyIndex := sig.KeyIndex

		if keyIndex >= uint32(len(publicKeys)) {
			return false, fmt.Errorf(
				"无效的key_index: signatures[%d].key_index=%d >= 公钥数量=%d",
				i, keyIndex, len(publicKeys),
			)
		}

		if usedIndices[keyIndex] {
			return false, fmt.Errorf(
				"重复的key_index: signatures[%d].key_index=%d 已被使用",
				i, keyIndex,
			)
		}
		usedIndices[keyIndex] = true
	}

	// 3. 逐个验证签名
	for i, sig := range signatures {
		pubKey := publicKeys[sig.KeyIndex]
		if !v.verifier.Verify(pubKey.Value, message, sig.Signature) {
			return false, fmt.Errorf(
				"签名验证失败: signatures[%d] (key_index=%d) 验证不通过",
				i, sig.KeyIndex,
			)
		}
	}

	return true, nil
}

// 编译期检查：确保实现了接口
var _ cryptointf.MultiSignatureVerifier = (*MultiSignatureVerifierImpl)(nil)
