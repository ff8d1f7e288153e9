// Package crypto 提供多重签名接口定义
//
// ✍️ **多重签名服务 (Multi-Signature Service)**
//
// 本文件定义了M-of-N多重签名验证接口，专注于：
// - M-of-N多重签名验证：验证多个签名是否满足最低要求
// - 签名索引验证：确保签名与公钥的对应关系正确
//
// 🔗 **组件关系**
// - MultiSignatureVerifier：被 multiAptos 签名类型的验证器使用
// - 与 Verifier：依赖单签名验证器逐个验证
package crypto

// MultiSignatureEntry 多重签名条目
//
// 表示单个签名及其在公钥列表中的位置
type MultiSignatureEntry struct {
	// KeyIndex 在PublicKeys中的索引
	// 范围：[0, len(PublicKeys)-1]
	KeyIndex uint32

	// Signature 签名数据
	Signature []byte
}

// PublicKey 公钥数据
type PublicKey struct {
	// Value 公钥字节数据
	Value []byte
}

// MultiSignatureVerifier M-of-N多重签名验证器接口
//
// **验证规则**：
// 1. 签名数量：len(signatures) >= requiredSignatures
// 2. 索引有效性：每个signature的KeyIndex < len(publicKeys)
// 3. 索引唯一性：signatures中的KeyIndex不重复
// 4. 签名有效性：每个signature对message的签名验证通过
type MultiSignatureVerifier interface {
	VerifyMultiSignature(
		message []byte,
		signatures []MultiSignatureEntry,
		publicKeys []PublicKey,
		requiredSignatures uint32,
	) (bool, error)
}
