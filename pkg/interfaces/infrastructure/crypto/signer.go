// Package crypto 提供数据项签名能力的接口定义
//
// ✍️ **签名能力契约 (Signer / Verifier Capability)**
//
// 本文件定义了数据项信封使用的签名与验证接口：
// - Signer：持有私钥的一方，声明签名类型、长度并对消息签名
// - Verifier：无状态验证器，按签名类型注册到签名注册表
//
// 🎯 **设计原则**
// - 按签名类型编码分发：新增算法只需注册新条目
// - 长度一致：Signer 声明的长度必须与注册表条目一致
// - 算法隔离：具体密码学运算由各算法实现，信封只负责消息构造和分发
package crypto

import "github.com/weisyn/dataitem/pkg/types"

// Signer 数据项签名器
//
// 消息是深度哈希的结果（48字节），各实现按自身规则再做消息格式化。
type Signer interface {
	// Type 签名类型编码
	Type() types.SignatureType

	// PublicKey 写入信封 owner 字段的公钥字节（长度 = OwnerLength）
	PublicKey() []byte

	// SignatureLength 签名字节长度
	SignatureLength() int

	// OwnerLength 公钥字节长度
	OwnerLength() int

	// Sign 对消息签名
	//
	// 返回：
	//   - []byte: 长度为 SignatureLength 的签名
	//   - error: 签名失败时的错误
	Sign(message []byte) ([]byte, error)
}

// Verifier 数据项签名验证器
//
// 实现必须是无状态的，可被多个 goroutine 并发调用。
// 任何格式错误（公钥/签名长度不符、无法解析）都返回 false。
type Verifier interface {
	Verify(publicKey, message, signature []byte) bool
}

// VerifierFunc 将普通函数适配为 Verifier
type VerifierFunc func(publicKey, message, signature []byte) bool

// Verify 实现 Verifier 接口
func (f VerifierFunc) Verify(publicKey, message, signature []byte) bool {
	return f(publicKey, message, signature)
}
