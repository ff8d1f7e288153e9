// Package types provides data item envelope type definitions.
package types

import "fmt"

// SignatureType 签名类型编码（信封头部前2字节，小端序）
//
// 签名类型决定签名长度、公钥长度以及验证时使用的验证器，
// 具体长度由签名注册表给出。
type SignatureType uint16

const (
	SignatureTypeArweave       SignatureType = 1   // RSA-4096 PSS
	SignatureTypeED25519       SignatureType = 2   // Ed25519
	SignatureTypeEthereum      SignatureType = 3   // secp256k1 个人消息签名
	SignatureTypeSolana        SignatureType = 4   // Ed25519（十六进制消息）
	SignatureTypeInjectedAptos SignatureType = 5   // Ed25519（Aptos 消息格式）
	SignatureTypeMultiAptos    SignatureType = 6   // Ed25519 多签（最多32个）
	SignatureTypeTypedEthereum SignatureType = 7   // EIP-712 结构化签名
	SignatureTypeKyve          SignatureType = 101 // secp256k1（同 Ethereum 规则）
)

// String 返回签名类型名称
func (t SignatureType) String() string {
	switch t {
	case SignatureTypeArweave:
		return "arweave"
	case SignatureTypeED25519:
		return "ed25519"
	case SignatureTypeEthereum:
		return "ethereum"
	case SignatureTypeSolana:
		return "solana"
	case SignatureTypeInjectedAptos:
		return "injectedAptos"
	case SignatureTypeMultiAptos:
		return "multiAptos"
	case SignatureTypeTypedEthereum:
		return "typedEthereum"
	case SignatureTypeKyve:
		return "kyve"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(t))
	}
}

// ParseSignatureType 根据名称解析签名类型
func ParseSignatureType(name string) (SignatureType, error) {
	for _, t := range []SignatureType{
		SignatureTypeArweave,
		SignatureTypeED25519,
		SignatureTypeEthereum,
		SignatureTypeSolana,
		SignatureTypeInjectedAptos,
		SignatureTypeMultiAptos,
		SignatureTypeTypedEthereum,
		SignatureTypeKyve,
	} {
		if t.String() == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedSignatureType, name)
}
