package dataitem

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/weisyn/dataitem/internal/core/dataitem/tags"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/signature"
	"github.com/weisyn/dataitem/pkg/types"
)

// 信封布局常量
const (
	// MinBinarySize 信封最小字节数，验证前的快速检查
	MinBinarySize = 80
	// MaxTagBytes 标签编码最大字节数
	MaxTagBytes = 4096
	// TargetLength target 字段长度
	TargetLength = 32
	// AnchorLength anchor 字段长度
	AnchorLength = 32

	signatureTypeSize = 2
	signatureOffset   = signatureTypeSize
	countFieldSize    = 8
	presentFlag       = 1
)

// registry 信封使用的签名类型注册表
var registry = signature.Default()

// header 解析后的信封头部偏移
//
// 所有偏移都是相对信封起始的绝对位置
type header struct {
	sigType          types.SignatureType
	desc             signature.Descriptor
	size             int64
	targetStart      int64 // target 标志字节
	hasTarget        bool
	anchorStart      int64 // anchor 标志字节
	hasAnchor        bool
	tagsStart        int64 // numberOfTags 字段
	numberOfTags     uint64
	numberOfTagBytes uint64
	dataStart        int64
}

func (h *header) ownerStart() int64 {
	return signatureOffset + int64(h.desc.SignatureLength)
}

func (h *header) dataLength() int64 {
	return h.size - h.dataStart
}

// readAt 从绝对偏移读取 n 字节
//
// 越界或读取不足归类为 types.ErrFormat，其余读取错误归类为 types.ErrIO
func readAt(r io.ReaderAt, size, off int64, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+int64(n) > size {
		return nil, fmt.Errorf("%w: 偏移 %d 读取 %d 字节超出信封长度 %d", types.ErrFormat, off, n, size)
	}
	buf := make([]byte, n)
	if n == 0 {
		return buf, nil
	}
	k, err := r.ReadAt(buf, off)
	if k == n {
		return buf, nil
	}
	if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w: 偏移 %d 只读到 %d/%d 字节", types.ErrFormat, off, k, n)
	}
	return nil, &types.IOError{Op: "read", Path: readerName(r), Err: err}
}

func readerName(r io.ReaderAt) string {
	if named, ok := r.(interface{ Name() string }); ok {
		return named.Name()
	}
	return "<memory>"
}

// readSignatureType 读取前2字节并查找默认注册表
func readSignatureType(r io.ReaderAt, size int64) (signature.Descriptor, error) {
	return lookupSignatureType(registry, r, size)
}

func lookupSignatureType(reg *signature.Registry, r io.ReaderAt, size int64) (signature.Descriptor, error) {
	raw, err := readAt(r, size, 0, signatureTypeSize)
	if err != nil {
		return signature.Descriptor{}, err
	}
	return reg.Lookup(types.SignatureType(binary.LittleEndian.Uint16(raw)))
}

// parseHeader 按默认注册表解析完整头部
func parseHeader(r io.ReaderAt, size int64) (*header, error) {
	return parseHeaderWith(registry, r, size)
}

// parseHeaderWith 按给定注册表解析完整头部
func parseHeaderWith(reg *signature.Registry, r io.ReaderAt, size int64) (*header, error) {
	desc, err := lookupSignatureType(reg, r, size)
	if err != nil {
		return nil, err
	}

	h := &header{sigType: desc.Type, desc: desc, size: size}
	h.targetStart = h.ownerStart() + int64(desc.OwnerLength)

	flag, err := readAt(r, size, h.targetStart, 1)
	if err != nil {
		return nil, err
	}
	h.hasTarget = flag[0] == presentFlag
	h.anchorStart = h.targetStart + 1
	if h.hasTarget {
		h.anchorStart += TargetLength
	}

	flag, err = readAt(r, size, h.anchorStart, 1)
	if err != nil {
		return nil, err
	}
	h.hasAnchor = flag[0] == presentFlag
	h.tagsStart = h.anchorStart + 1
	if h.hasAnchor {
		h.tagsStart += AnchorLength
	}

	counts, err := readAt(r, size, h.tagsStart, 2*countFieldSize)
	if err != nil {
		return nil, err
	}
	h.numberOfTags = binary.LittleEndian.Uint64(counts[:countFieldSize])
	h.numberOfTagBytes = binary.LittleEndian.Uint64(counts[countFieldSize:])

	tagBytesStart := h.tagsStart + 2*countFieldSize
	if h.numberOfTagBytes > uint64(size-tagBytesStart) {
		return nil, fmt.Errorf("%w: 标签字节数 %d 超出信封剩余 %d 字节",
			types.ErrFormat, h.numberOfTagBytes, size-tagBytesStart)
	}
	h.dataStart = tagBytesStart + int64(h.numberOfTagBytes)
	return h, nil
}

func (h *header) readSignature(r io.ReaderAt) ([]byte, error) {
	return readAt(r, h.size, signatureOffset, h.desc.SignatureLength)
}

func (h *header) readOwner(r io.ReaderAt) ([]byte, error) {
	return readAt(r, h.size, h.ownerStart(), h.desc.OwnerLength)
}

func (h *header) readTarget(r io.ReaderAt) ([]byte, error) {
	if !h.hasTarget {
		return []byte{}, nil
	}
	return readAt(r, h.size, h.targetStart+1, TargetLength)
}

func (h *header) readAnchor(r io.ReaderAt) ([]byte, error) {
	if !h.hasAnchor {
		return []byte{}, nil
	}
	return readAt(r, h.size, h.anchorStart+1, AnchorLength)
}

func (h *header) readTags(r io.ReaderAt) ([]byte, error) {
	return readAt(r, h.size, h.tagsStart+2*countFieldSize, int(h.numberOfTagBytes))
}

// decodeTags 解码标签；numberOfTags 为 0 时返回空列表
func (h *header) decodeTags(r io.ReaderAt) ([]types.Tag, error) {
	if h.numberOfTags == 0 {
		return []types.Tag{}, nil
	}
	raw, err := h.readTags(r)
	if err != nil {
		return nil, err
	}
	return tags.Deserialize(raw)
}

// isZero 签名区域全零表示未签名
func isZero(b []byte) bool {
	for _, c := range b {
		if c != 0 {
			return false
		}
	}
	return true
}
