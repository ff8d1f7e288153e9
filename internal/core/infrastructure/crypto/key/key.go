// Package key 从密钥文件加载数据项签名器
//
// 🔑 **密钥加载 (Key Loading)**
//
// 解析已有的密钥材料，或按同样的格式生成新密钥（Generate）；不做派生与钱包管理。
//
// 支持的格式：
//   - arweave:                 JWK（JSON）或 PEM（PKCS#1 / PKCS#8）
//   - ed25519 / injectedAptos: 十六进制 32 字节种子或 64 字节私钥
//   - solana:                  base58 64 字节私钥，或 JSON 数字数组（solana-keygen 格式）
//   - ethereum / kyve / typedEthereum: 十六进制 32 字节 secp256k1 私钥
//   - multiAptos:              JSON {"threshold": n, "slots": [{"public_key": hex, "private_key": hex}]}
package key

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/mr-tron/base58"

	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/signature"
	cryptointf "github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

// 错误定义
var (
	ErrInvalidPrivateKey = errors.New("无效的私钥")
	ErrUnsupportedFormat = errors.New("不支持的密钥格式")
)

// Loader 密钥加载器
type Loader struct{}

// NewLoader 创建密钥加载器
func NewLoader() *Loader {
	return &Loader{}
}

// LoadFile 从文件加载指定签名类型的签名器
func (l *Loader) LoadFile(sigType types.SignatureType, path string) (cryptointf.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.IOError{Op: "read key", Path: path, Err: err}
	}
	defer SecureWipe(data)

	signer, err := l.Parse(sigType, data)
	if err != nil {
		return nil, fmt.Errorf("加载密钥文件 %s 失败: %w", path, err)
	}
	return signer, nil
}

// Parse 解析密钥材料并创建签名器
func (l *Loader) Parse(sigType types.SignatureType, data []byte) (cryptointf.Signer, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: 密钥内容为空", ErrInvalidPrivateKey)
	}

	var (
		signer cryptointf.Signer
		err    error
	)
	switch sigType {
	case types.SignatureTypeArweave:
		signer, err = loadArweave(data)
	case types.SignatureTypeED25519, types.SignatureTypeInjectedAptos:
		signer, err = loadEd25519(sigType, data)
	case types.SignatureTypeSolana:
		signer, err = loadSolana(data)
	case types.SignatureTypeEthereum, types.SignatureTypeKyve, types.SignatureTypeTypedEthereum:
		signer, err = loadSecp256k1(sigType, data)
	case types.SignatureTypeMultiAptos:
		signer, err = parseMultiAptos(data)
	default:
		return nil, fmt.Errorf("%w: %d", types.ErrUnsupportedSignatureType, uint16(sigType))
	}
	if err != nil {
		return nil, err
	}
	return signer, nil
}

func loadArweave(data []byte) (cryptointf.Signer, error) {
	key, err := parseRSAKey(data)
	if err != nil {
		return nil, err
	}
	signer, err := signature.NewArweaveSigner(key)
	if err != nil {
		return nil, err
	}
	return signer, nil
}

func loadEd25519(sigType types.SignatureType, data []byte) (cryptointf.Signer, error) {
	key, err := parseEd25519Hex(data)
	if err != nil {
		return nil, err
	}
	if sigType == types.SignatureTypeInjectedAptos {
		signer, err := signature.NewAptosSigner(key)
		if err != nil {
			return nil, err
		}
		return signer, nil
	}
	signer, err := signature.NewEd25519Signer(key)
	if err != nil {
		return nil, err
	}
	return signer, nil
}

func loadSolana(data []byte) (cryptointf.Signer, error) {
	key, err := parseSolanaKey(data)
	if err != nil {
		return nil, err
	}
	signer, err := signature.NewSolanaSigner(key)
	if err != nil {
		return nil, err
	}
	return signer, nil
}

func loadSecp256k1(sigType types.SignatureType, data []byte) (cryptointf.Signer, error) {
	raw, err := DecodeHex(string(data))
	if err != nil {
		return nil, err
	}
	defer SecureWipe(raw)
	if len(raw) != secp256k1.PrivKeyBytesLen {
		return nil, fmt.Errorf("%w: secp256k1 私钥应为 %d 字节，实际 %d 字节",
			ErrInvalidPrivateKey, secp256k1.PrivKeyBytesLen, len(raw))
	}
	key := secp256k1.PrivKeyFromBytes(raw)
	if key.Key.IsZero() {
		return nil, fmt.Errorf("%w: secp256k1 私钥为零", ErrInvalidPrivateKey)
	}

	switch sigType {
	case types.SignatureTypeTypedEthereum:
		signer, err := signature.NewTypedEthereumSigner(key)
		if err != nil {
			return nil, err
		}
		return signer, nil
	case types.SignatureTypeKyve:
		signer, err := signature.NewKyveSigner(key)
		if err != nil {
			return nil, err
		}
		return signer, nil
	default:
		signer, err := signature.NewEthereumSigner(key)
		if err != nil {
			return nil, err
		}
		return signer, nil
	}
}

// DecodeHex 解码十六进制字符串，允许 0x 前缀
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: 十六进制解码失败: %v", ErrInvalidPrivateKey, err)
	}
	return raw, nil
}

func parseEd25519Hex(data []byte) (ed25519.PrivateKey, error) {
	raw, err := DecodeHex(string(data))
	if err != nil {
		return nil, err
	}
	return ed25519FromBytes(raw)
}

// ed25519FromBytes 接受 32 字节种子或 64 字节私钥
func ed25519FromBytes(raw []byte) (ed25519.PrivateKey, error) {
	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		key := ed25519.NewKeyFromSeed(raw[:ed25519.SeedSize])
		if !bytes.Equal(key[ed25519.SeedSize:], raw[ed25519.SeedSize:]) {
			return nil, fmt.Errorf("%w: ed25519 私钥中的公钥部分不匹配", ErrInvalidPrivateKey)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: ed25519 私钥应为 %d 或 %d 字节，实际 %d 字节",
			ErrInvalidPrivateKey, ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
	}
}

func parseSolanaKey(data []byte) (ed25519.PrivateKey, error) {
	// solana-keygen 输出 JSON 数字数组
	if data[0] == '[' {
		var (
			numbers []byte
			ints    []int
		)
		if err := json.Unmarshal(data, &ints); err != nil {
			return nil, fmt.Errorf("%w: solana 密钥 JSON 解析失败: %v", ErrInvalidPrivateKey, err)
		}
		for _, n := range ints {
			if n < 0 || n > 255 {
				return nil, fmt.Errorf("%w: solana 密钥字节越界: %d", ErrInvalidPrivateKey, n)
			}
			numbers = append(numbers, byte(n))
		}
		return ed25519FromBytes(numbers)
	}

	raw, err := base58.Decode(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: base58 解码失败: %v", ErrInvalidPrivateKey, err)
	}
	return ed25519FromBytes(raw)
}

// jwk Arweave 钱包 JWK
type jwk struct {
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
	D   string `json:"d"`
	P   string `json:"p"`
	Q   string `json:"q"`
}

func parseRSAKey(data []byte) (*rsa.PrivateKey, error) {
	if data[0] == '{' {
		return parseJWK(data)
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: arweave 密钥应为 JWK 或 PEM", ErrUnsupportedFormat)
	}
	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
		}
		return key, nil
	case "PRIVATE KEY":
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: PKCS#8 密钥不是 RSA 私钥", ErrInvalidPrivateKey)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: PEM 类型 %q", ErrUnsupportedFormat, block.Type)
	}
}

func parseJWK(data []byte) (*rsa.PrivateKey, error) {
	var k jwk
	if err := json.Unmarshal(data, &k); err != nil {
		return nil, fmt.Errorf("%w: JWK 解析失败: %v", ErrInvalidPrivateKey, err)
	}
	if k.Kty != "RSA" {
		return nil, fmt.Errorf("%w: JWK kty=%q", ErrUnsupportedFormat, k.Kty)
	}

	fields := map[string]string{"n": k.N, "e": k.E, "d": k.D, "p": k.P, "q": k.Q}
	values := make(map[string]*big.Int, len(fields))
	for name, encoded := range fields {
		raw, err := base64.RawURLEncoding.DecodeString(encoded)
		if err != nil || len(raw) == 0 {
			return nil, fmt.Errorf("%w: JWK 字段 %s 无效", ErrInvalidPrivateKey, name)
		}
		values[name] = new(big.Int).SetBytes(raw)
	}
	if !values["e"].IsInt64() {
		return nil, fmt.Errorf("%w: JWK 公钥指数过大", ErrInvalidPrivateKey)
	}

	key := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: values["n"], E: int(values["e"].Int64())},
		D:         values["d"],
		Primes:    []*big.Int{values["p"], values["q"]},
	}
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	key.Precompute()
	return key, nil
}

// multiAptosFile 多签密钥文件
type multiAptosFile struct {
	Threshold uint8                `json:"threshold"`
	Slots     []multiAptosSlotFile `json:"slots"`
}

type multiAptosSlotFile struct {
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key,omitempty"`
}

func parseMultiAptos(data []byte) (cryptointf.Signer, error) {
	var f multiAptosFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: multiAptos 密钥文件解析失败: %v", ErrUnsupportedFormat, err)
	}

	slots := make([]signature.MultiAptosSlot, len(f.Slots))
	for i, s := range f.Slots {
		pub, err := DecodeHex(s.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("槽位 %d 公钥: %w", i, err)
		}
		slots[i].PublicKey = pub
		if s.PrivateKey != "" {
			priv, err := parseEd25519Hex([]byte(s.PrivateKey))
			if err != nil {
				return nil, fmt.Errorf("槽位 %d 私钥: %w", i, err)
			}
			slots[i].PrivateKey = priv
		}
	}
	signer, err := signature.NewMultiAptosSigner(slots, f.Threshold)
	if err != nil {
		return nil, err
	}
	return signer, nil
}

// SecureWipe 清除内存中的敏感数据
func SecureWipe(data []byte) {
	for i := range data {
		data[i] = 0
	}
}
