// Package crypto 提供哈希服务接口定义
package crypto

// HashManager 定义数据项使用的摘要算法
type HashManager interface {
	// SHA256 计算SHA-256哈希（数据项 id）
	SHA256(data []byte) []byte

	// SHA384 计算SHA-384哈希（深度哈希的基础摘要）
	SHA384(data []byte) []byte

	// Keccak256 计算Keccak-256哈希（以太坊消息）
	Keccak256(data []byte) []byte
}
