// Package signature 提供数据项签名类型注册表及各算法的签名器/验证器
//
// 📝 **签名注册表 (Signature Registry)**
//
// 按信封头部的签名类型编码分发：
// - 签名长度、公钥长度是签名类型的纯函数
// - 每个类型注册一个无状态 Verifier
// - 默认注册表在 init 时构建，之后只读
//
// 🔗 **支持的签名类型**
//
//	1 arweave        512 / 512   RSA-PSS SHA-256
//	2 ed25519         64 / 32    Ed25519
//	3 ethereum        65 / 65    secp256k1 个人消息
//	4 solana          64 / 32    Ed25519（十六进制消息）
//	5 injectedAptos   64 / 32    Ed25519（APTOS 消息格式）
//	6 multiAptos    2052 / 1025  32 槽位 Ed25519 + 位图
//	7 typedEthereum   65 / 42    EIP-712
//	101 kyve          65 / 65    同 ethereum
package signature

import (
	"fmt"
	"sort"

	cryptointf "github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

// Descriptor 签名类型描述
type Descriptor struct {
	Type            types.SignatureType
	SignatureLength int
	OwnerLength     int
	Verifier        cryptointf.Verifier
}

// Name 签名类型名称
func (d Descriptor) Name() string {
	return d.Type.String()
}

// Registry 签名类型注册表
//
// 构建后只读，可被并发读取
type Registry struct {
	entries map[types.SignatureType]Descriptor
	order   []types.SignatureType
}

// NewRegistry 根据描述列表构建注册表
//
// 重复的类型编码、非正长度或缺少验证器都会返回错误
func NewRegistry(descriptors ...Descriptor) (*Registry, error) {
	r := &Registry{
		entries: make(map[types.SignatureType]Descriptor, len(descriptors)),
		order:   make([]types.SignatureType, 0, len(descriptors)),
	}
	for _, d := range descriptors {
		if _, exists := r.entries[d.Type]; exists {
			return nil, fmt.Errorf("签名类型 %d 重复注册", d.Type)
		}
		if d.SignatureLength <= 0 || d.OwnerLength <= 0 {
			return nil, fmt.Errorf("签名类型 %d 长度无效: signature=%d owner=%d",
				d.Type, d.SignatureLength, d.OwnerLength)
		}
		if d.Verifier == nil {
			return nil, fmt.Errorf("签名类型 %d 缺少验证器", d.Type)
		}
		r.entries[d.Type] = d
		r.order = append(r.order, d.Type)
	}
	sort.Slice(r.order, func(i, j int) bool { return r.order[i] < r.order[j] })
	return r, nil
}

// Lookup 查找签名类型描述
func (r *Registry) Lookup(sigType types.SignatureType) (Descriptor, error) {
	d, ok := r.entries[sigType]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %d", types.ErrUnsupportedSignatureType, uint16(sigType))
	}
	return d, nil
}

// VerifierFor 返回签名类型对应的验证器
func (r *Registry) VerifierFor(sigType types.SignatureType) (cryptointf.Verifier, bool) {
	d, ok := r.entries[sigType]
	if !ok {
		return nil, false
	}
	return d.Verifier, true
}

// Types 按编码升序返回已注册的签名类型
func (r *Registry) Types() []types.SignatureType {
	out := make([]types.SignatureType, len(r.order))
	copy(out, r.order)
	return out
}

// Descriptors 按编码升序返回全部描述
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.entries[t])
	}
	return out
}

var defaultRegistry *Registry

func init() {
	r, err := NewRegistry(
		Descriptor{Type: types.SignatureTypeArweave, SignatureLength: ArweaveSignatureLength, OwnerLength: ArweaveOwnerLength, Verifier: cryptointf.VerifierFunc(VerifyArweave)},
		Descriptor{Type: types.SignatureTypeED25519, SignatureLength: ed25519SignatureLength, OwnerLength: ed25519OwnerLength, Verifier: cryptointf.VerifierFunc(VerifyEd25519)},
		Descriptor{Type: types.SignatureTypeEthereum, SignatureLength: EthereumSignatureLength, OwnerLength: EthereumOwnerLength, Verifier: cryptointf.VerifierFunc(VerifyEthereum)},
		Descriptor{Type: types.SignatureTypeSolana, SignatureLength: ed25519SignatureLength, OwnerLength: ed25519OwnerLength, Verifier: cryptointf.VerifierFunc(VerifySolana)},
		Descriptor{Type: types.SignatureTypeInjectedAptos, SignatureLength: ed25519SignatureLength, OwnerLength: ed25519OwnerLength, Verifier: cryptointf.VerifierFunc(VerifyAptos)},
		Descriptor{Type: types.SignatureTypeMultiAptos, SignatureLength: MultiAptosSignatureLength, OwnerLength: MultiAptosOwnerLength, Verifier: cryptointf.VerifierFunc(VerifyMultiAptos)},
		Descriptor{Type: types.SignatureTypeTypedEthereum, SignatureLength: EthereumSignatureLength, OwnerLength: TypedEthereumOwnerLength, Verifier: cryptointf.VerifierFunc(VerifyTypedEthereum)},
		Descriptor{Type: types.SignatureTypeKyve, SignatureLength: EthereumSignatureLength, OwnerLength: EthereumOwnerLength, Verifier: cryptointf.VerifierFunc(VerifyEthereum)},
	)
	if err != nil {
		panic(fmt.Sprintf("构建默认签名注册表失败: %v", err))
	}
	defaultRegistry = r
}

// Default 返回进程级默认注册表
func Default() *Registry {
	return defaultRegistry
}

// Lookup 在默认注册表中查找签名类型
func Lookup(sigType types.SignatureType) (Descriptor, error) {
	return defaultRegistry.Lookup(sigType)
}

// VerifierFor 在默认注册表中查找验证器
func VerifierFor(sigType types.SignatureType) (cryptointf.Verifier, bool) {
	return defaultRegistry.VerifierFor(sigType)
}
