package dataitem

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/weisyn/dataitem/internal/core/dataitem/tags"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/hash"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/signature"
	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

// 签名消息固定前缀
const (
	signingTag     = "dataitem"
	signingVersion = "1"
)

// signatureData 计算签名消息
//
// 深度哈希输入依次为 "dataitem"、"1"、签名类型十进制、owner、target、
// anchor、标签编码字节、载荷；载荷由调用方以 Blob 或 Stream 提供
func signatureData(r io.ReaderAt, h *header, data hash.Chunk) ([]byte, error) {
	owner, err := h.readOwner(r)
	if err != nil {
		return nil, err
	}
	target, err := h.readTarget(r)
	if err != nil {
		return nil, err
	}
	anchor, err := h.readAnchor(r)
	if err != nil {
		return nil, err
	}
	rawTags, err := h.readTags(r)
	if err != nil {
		return nil, err
	}

	message, err := hash.DeepHash(hash.List{
		hash.Blob(signingTag),
		hash.Blob(signingVersion),
		hash.Blob(strconv.FormatUint(uint64(h.sigType), 10)),
		hash.Blob(owner),
		hash.Blob(target),
		hash.Blob(anchor),
		hash.Blob(rawTags),
		data,
	})
	if err != nil {
		return nil, &types.IOError{Op: "hash", Path: readerName(r), Err: err}
	}
	return message, nil
}

// streamData 以流的方式提供载荷
func streamData(r io.ReaderAt, h *header, bufferSize int) hash.Chunk {
	return hash.Stream{
		Reader:     io.NewSectionReader(r, h.dataStart, h.dataLength()),
		BufferSize: bufferSize,
	}
}

// hasher id 摘要
var hasher crypto.HashManager = hash.NewHashService()

// computeID id = SHA-256(signature)
func computeID(sig []byte) []byte {
	return hasher.SHA256(sig)
}

// checkSignature 校验签名器返回的签名长度
func checkSignature(h *header, sig []byte) error {
	if len(sig) != h.desc.SignatureLength {
		return &types.LengthError{
			Field:    "signature",
			Expected: h.desc.SignatureLength,
			Got:      len(sig),
			Kind:     types.ErrSignerMismatch,
		}
	}
	return nil
}

// checkSigner 签名器声明的类型必须与头部一致
func checkSigner(h *header, signerType types.SignatureType) error {
	if signerType != h.sigType {
		return fmt.Errorf("%w: 签名器类型 %s，数据项类型 %s", types.ErrSignerMismatch, signerType, h.sigType)
	}
	return nil
}

// verify 按验证流程检查信封
//
// reg 决定接受的签名类型及其验证器。
// 格式问题返回 false；只有 types.ErrIO 类错误会返回
func verify(reg *signature.Registry, r io.ReaderAt, size int64, data func(h *header) hash.Chunk) (bool, error) {
	if size < MinBinarySize {
		return false, nil
	}

	h, err := parseHeaderWith(reg, r, size)
	if err != nil {
		return false, ioOnly(err)
	}
	if h.numberOfTagBytes > MaxTagBytes {
		return false, nil
	}

	if h.numberOfTags > 0 {
		raw, err := h.readTags(r)
		if err != nil {
			return false, ioOnly(err)
		}
		list, err := tags.Deserialize(raw)
		if err != nil || uint64(len(list)) != h.numberOfTags {
			return false, nil
		}
	}

	message, err := signatureData(r, h, data(h))
	if err != nil {
		return false, ioOnly(err)
	}

	owner, err := h.readOwner(r)
	if err != nil {
		return false, ioOnly(err)
	}
	sig, err := h.readSignature(r)
	if err != nil {
		return false, ioOnly(err)
	}
	return h.desc.Verifier.Verify(owner, message, sig), nil
}

func ioOnly(err error) error {
	if errors.Is(err, types.ErrIO) {
		return err
	}
	return nil
}
