// Package hash 提供数据项使用的摘要算法
//
// 📝 **哈希服务 (Hash Service)**
//
// - SHA-256：数据项 id = SHA-256(signature)
// - SHA-384：深度哈希的基础摘要
// - Keccak-256：以太坊地址与消息
package hash

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"

	cryptointf "github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"golang.org/x/crypto/sha3"
)

// 确保HashService实现了cryptointf.HashManager接口
var _ cryptointf.HashManager = (*HashService)(nil)

// HashService 提供哈希计算功能
//
// 无状态，可被多个 goroutine 并发使用
type HashService struct{}

// NewHashService 创建新的哈希服务
func NewHashService() *HashService {
	return &HashService{}
}

// SHA256 计算SHA-256哈希
//
// 参数:
//   - data: 要计算哈希的数据
//
// 返回:
//   - []byte: 32字节的SHA-256哈希结果
func (s *HashService) SHA256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// SHA384 计算SHA-384哈希
//
// 返回48字节摘要
func (s *HashService) SHA384(data []byte) []byte {
	sum := sha512.Sum384(data)
	return sum[:]
}

// Keccak256 计算Keccak-256哈希
func (s *HashService) Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// ConstantTimeCompare 以恒定时间比较两个哈希
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
