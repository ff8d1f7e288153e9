package dataitem

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/weisyn/dataitem/internal/core/dataitem/tags"
	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

// ErrNilSigner 未提供签名器
var ErrNilSigner = errors.New("签名器不能为空")

// CreateOptions 构建数据项的可选字段
type CreateOptions struct {
	// Target 32字节目标地址，为空表示不设置
	Target []byte
	// Anchor 32字节防重放随机数，为空表示不设置
	Anchor []byte
	// Tags 有序标签列表
	Tags []types.Tag
}

// buildHeader 构建载荷之前的全部字节，签名区域置零
//
// 签名类型和 owner 取自签名器
func buildHeader(signer crypto.Signer, opts *CreateOptions) ([]byte, error) {
	if signer == nil {
		return nil, ErrNilSigner
	}
	if opts == nil {
		opts = &CreateOptions{}
	}

	desc, err := registry.Lookup(signer.Type())
	if err != nil {
		return nil, err
	}
	owner := signer.PublicKey()
	if len(owner) != desc.OwnerLength {
		return nil, &types.LengthError{
			Field:    "owner",
			Expected: desc.OwnerLength,
			Got:      len(owner),
			Kind:     types.ErrInvalidKeyLength,
		}
	}
	if err := checkOptional("target", opts.Target, TargetLength); err != nil {
		return nil, err
	}
	if err := checkOptional("anchor", opts.Anchor, AnchorLength); err != nil {
		return nil, err
	}

	rawTags, err := tags.Serialize(opts.Tags)
	if err != nil {
		return nil, err
	}
	if len(rawTags) > MaxTagBytes {
		return nil, fmt.Errorf("%w: 标签编码 %d 字节超过上限 %d", types.ErrFormat, len(rawTags), MaxTagBytes)
	}

	size := signatureTypeSize + desc.SignatureLength + desc.OwnerLength +
		1 + len(opts.Target) + 1 + len(opts.Anchor) + 2*countFieldSize + len(rawTags)
	out := make([]byte, 0, size)

	out = binary.LittleEndian.AppendUint16(out, uint16(desc.Type))
	out = append(out, make([]byte, desc.SignatureLength)...)
	out = append(out, owner...)
	out = appendOptional(out, opts.Target)
	out = appendOptional(out, opts.Anchor)
	out = binary.LittleEndian.AppendUint64(out, uint64(len(opts.Tags)))
	out = binary.LittleEndian.AppendUint64(out, uint64(len(rawTags)))
	out = append(out, rawTags...)
	return out, nil
}

func checkOptional(field string, value []byte, length int) error {
	if len(value) == 0 || len(value) == length {
		return nil
	}
	return &types.LengthError{Field: field, Expected: length, Got: len(value), Kind: types.ErrFormat}
}

func appendOptional(dst, value []byte) []byte {
	if len(value) == 0 {
		return append(dst, 0)
	}
	dst = append(dst, presentFlag)
	return append(dst, value...)
}

// CreateData 构建未签名的内存数据项
//
// 签名区域置零，调用 Sign 后才有 id
func CreateData(data []byte, signer crypto.Signer, opts *CreateOptions) (*DataItem, error) {
	head, err := buildHeader(signer, opts)
	if err != nil {
		return nil, err
	}
	raw := make([]byte, len(head)+len(data))
	copy(raw, head)
	copy(raw[len(head):], data)
	return New(raw), nil
}
