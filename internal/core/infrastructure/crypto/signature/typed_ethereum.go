package signature

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	cryptointf "github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

// TypedEthereumOwnerLength "0x" + 40 位十六进制地址
const TypedEthereumOwnerLength = 2 + 2*common.AddressLength

// EIP-712 域与类型定义
const (
	typedDataDomainName    = "Bundlr"
	typedDataDomainVersion = "1"
	typedDataPrimaryType   = "Bundlr"
	typedDataHashField     = "Transaction hash"
	typedDataAddressField  = "address"
)

var typedDataTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
	},
	typedDataPrimaryType: {
		{Name: typedDataHashField, Type: "bytes"},
		{Name: typedDataAddressField, Type: "address"},
	},
}

// TypedDataHash 计算消息的 EIP-712 摘要
//
// address 为签名者地址（0x 开头的十六进制）
func TypedDataHash(message []byte, address string) ([]byte, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("无效的以太坊地址: %q", address)
	}
	typedData := apitypes.TypedData{
		Types:       typedDataTypes,
		PrimaryType: typedDataPrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:    typedDataDomainName,
			Version: typedDataDomainVersion,
		},
		Message: apitypes.TypedDataMessage{
			typedDataHashField:    message,
			typedDataAddressField: address,
		},
	}
	hash, _, err := apitypes.TypedDataAndHash(typedData)
	if err != nil {
		return nil, fmt.Errorf("计算 EIP-712 摘要失败: %w", err)
	}
	return hash, nil
}

// TypedEthereumSigner EIP-712 结构化数据签名器
//
// owner 为小写 ASCII 地址
type TypedEthereumSigner struct {
	key     *btcec.PrivateKey
	address string
}

var _ cryptointf.Signer = (*TypedEthereumSigner)(nil)

// NewTypedEthereumSigner 创建 EIP-712 签名器
func NewTypedEthereumSigner(key *btcec.PrivateKey) (*TypedEthereumSigner, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: 私钥为空", types.ErrInvalidKeyLength)
	}
	return &TypedEthereumSigner{
		key:     key,
		address: addressFromPublicKey(key.PubKey().SerializeUncompressed()),
	}, nil
}

// addressFromPublicKey keccak256(X‖Y) 的后20字节，小写十六进制
func addressFromPublicKey(uncompressed []byte) string {
	addr := common.BytesToAddress(hasher.Keccak256(uncompressed[1:])[12:])
	return strings.ToLower(addr.Hex())
}

// Type 签名类型
func (s *TypedEthereumSigner) Type() types.SignatureType { return types.SignatureTypeTypedEthereum }

// PublicKey ASCII 地址字节
func (s *TypedEthereumSigner) PublicKey() []byte { return []byte(s.address) }

// Address 小写地址
func (s *TypedEthereumSigner) Address() string { return s.address }

// SignatureLength 签名长度
func (s *TypedEthereumSigner) SignatureLength() int { return EthereumSignatureLength }

// OwnerLength 公钥长度
func (s *TypedEthereumSigner) OwnerLength() int { return TypedEthereumOwnerLength }

// Sign 对 EIP-712 摘要生成 r‖s‖v 签名
func (s *TypedEthereumSigner) Sign(message []byte) ([]byte, error) {
	hash, err := TypedDataHash(message, s.address)
	if err != nil {
		return nil, err
	}
	sig, err := curve.Sign(s.key, hash)
	if err != nil {
		return nil, fmt.Errorf("typedEthereum 签名失败: %w", err)
	}
	return sig, nil
}

// VerifyTypedEthereum 从签名恢复地址并与 owner 比较（忽略大小写）
//
// v 必须为 27/28，s 必须为低位形式
func VerifyTypedEthereum(publicKey, message, signature []byte) bool {
	if len(publicKey) != TypedEthereumOwnerLength || len(signature) != EthereumSignatureLength {
		return false
	}
	if !validRecoveryID(signature[64]) {
		return false
	}
	address := string(publicKey)
	digest, err := TypedDataHash(message, address)
	if err != nil {
		return false
	}

	recovered, err := curve.RecoverPubkey(digest, signature)
	if err != nil {
		return false
	}
	if !curve.VerifySignature(recovered, digest, signature[:64]) {
		return false
	}
	return strings.EqualFold(addressFromPublicKey(recovered), address)
}
