package signature

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/multisig"
	cryptointf "github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

const (
	// MultiAptosSlots 多签槽位数
	MultiAptosSlots = 32
	// multiAptosBitmapLength 槽位位图长度
	multiAptosBitmapLength = MultiAptosSlots / 8

	// MultiAptosSignatureLength 32×64 签名 + 4 字节位图
	MultiAptosSignatureLength = MultiAptosSlots*ed25519SignatureLength + multiAptosBitmapLength
	// MultiAptosOwnerLength 32×32 公钥 + 1 字节门限
	MultiAptosOwnerLength = MultiAptosSlots*ed25519OwnerLength + 1
)

// multiAptosVerifier 各槽位按 Aptos 消息格式验证
var multiAptosVerifier = multisig.NewMultiSignatureVerifier(cryptointf.VerifierFunc(VerifyAptos))

// MultiAptosSlot 多签槽位
//
// PrivateKey 为空表示本签名器不持有该槽位私钥
type MultiAptosSlot struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey
}

// MultiAptosSigner Aptos 多签签名器
//
// 持有的每个槽位私钥都会参与签名，位图第 i 位对应槽位 i（每字节高位在前）
type MultiAptosSigner struct {
	slots     []MultiAptosSlot
	threshold uint8
	owner     []byte
}

var _ cryptointf.Signer = (*MultiAptosSigner)(nil)

// NewMultiAptosSigner 创建 Aptos 多签签名器
func NewMultiAptosSigner(slots []MultiAptosSlot, threshold uint8) (*MultiAptosSigner, error) {
	if len(slots) == 0 || len(slots) > MultiAptosSlots {
		return nil, fmt.Errorf("多签槽位数无效: %d（允许 1-%d）", len(slots), MultiAptosSlots)
	}
	if threshold == 0 || int(threshold) > len(slots) {
		return nil, fmt.Errorf("多签门限无效: %d（槽位数 %d）", threshold, len(slots))
	}

	owner := make([]byte, MultiAptosOwnerLength)
	held := 0
	for i, slot := range slots {
		if len(slot.PublicKey) != ed25519.PublicKeySize {
			return nil, &types.LengthError{
				Field:    fmt.Sprintf("multiAptos slot %d public key", i),
				Expected: ed25519.PublicKeySize,
				Got:      len(slot.PublicKey),
				Kind:     types.ErrInvalidKeyLength,
			}
		}
		if slot.PrivateKey != nil {
			if len(slot.PrivateKey) != ed25519.PrivateKeySize {
				return nil, &types.LengthError{
					Field:    fmt.Sprintf("multiAptos slot %d private key", i),
					Expected: ed25519.PrivateKeySize,
					Got:      len(slot.PrivateKey),
					Kind:     types.ErrInvalidKeyLength,
				}
			}
			if !bytes.Equal(slot.PrivateKey.Public().(ed25519.PublicKey), slot.PublicKey) {
				return nil, fmt.Errorf("多签槽位 %d 私钥与公钥不匹配", i)
			}
			held++
		}
		copy(owner[i*ed25519OwnerLength:], slot.PublicKey)
	}
	if held < int(threshold) {
		return nil, fmt.Errorf("持有私钥数 %d 低于门限 %d", held, threshold)
	}
	owner[MultiAptosOwnerLength-1] = threshold

	return &MultiAptosSigner{
		slots:     append([]MultiAptosSlot(nil), slots...),
		threshold: threshold,
		owner:     owner,
	}, nil
}

// Type 签名类型
func (s *MultiAptosSigner) Type() types.SignatureType { return types.SignatureTypeMultiAptos }

// PublicKey 32 个槽位公钥 + 门限
func (s *MultiAptosSigner) PublicKey() []byte { return append([]byte(nil), s.owner...) }

// SignatureLength 签名长度
func (s *MultiAptosSigner) SignatureLength() int { return MultiAptosSignatureLength }

// OwnerLength 公钥长度
func (s *MultiAptosSigner) OwnerLength() int { return MultiAptosOwnerLength }

// Threshold 门限
func (s *MultiAptosSigner) Threshold() uint8 { return s.threshold }

// Sign 用持有的每个槽位私钥签名 Aptos 格式消息
func (s *MultiAptosSigner) Sign(message []byte) ([]byte, error) {
	formatted := AptosMessage(message)
	sig := make([]byte, MultiAptosSignatureLength)
	bitmap := sig[MultiAptosSlots*ed25519SignatureLength:]
	for i, slot := range s.slots {
		if slot.PrivateKey == nil {
			continue
		}
		copy(sig[i*ed25519SignatureLength:], ed25519.Sign(slot.PrivateKey, formatted))
		bitmap[i/8] |= 128 >> (i % 8)
	}
	return sig, nil
}

// VerifyMultiAptos 验证 Aptos 多签
//
// 位图选中的每个槽位都必须验证通过，且选中数不低于门限；
// 未选中槽位的签名区域必须全零。门限为 0 时至少需要一个签名。
func VerifyMultiAptos(publicKey, message, signature []byte) bool {
	if len(publicKey) != MultiAptosOwnerLength || len(signature) != MultiAptosSignatureLength {
		return false
	}

	keys := make([]cryptointf.PublicKey, MultiAptosSlots)
	for i := range keys {
		keys[i] = cryptointf.PublicKey{Value: publicKey[i*ed25519OwnerLength : (i+1)*ed25519OwnerLength]}
	}

	bitmap := signature[MultiAptosSlots*ed25519SignatureLength:]
	var entries []cryptointf.MultiSignatureEntry
	for i := 0; i < MultiAptosSlots; i++ {
		slot := signature[i*ed25519SignatureLength : (i+1)*ed25519SignatureLength]
		if bitmap[i/8]&(128>>(i%8)) == 0 {
			if !allZero(slot) {
				return false
			}
			continue
		}
		entries = append(entries, cryptointf.MultiSignatureEntry{
			KeyIndex:  uint32(i),
			Signature: slot,
		})
	}

	required := uint32(publicKey[MultiAptosOwnerLength-1])
	if required == 0 {
		required = 1
	}
	ok, err := multiAptosVerifier.VerifyMultiSignature(message, entries, keys, required)
	return err == nil && ok
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
