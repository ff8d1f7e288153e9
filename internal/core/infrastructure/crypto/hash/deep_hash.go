package hash

import (
	"crypto/sha512"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// DeepHashSize 深度哈希输出长度（SHA-384）
const DeepHashSize = sha512.Size384

// defaultStreamBuffer 流式哈希默认读缓冲
const defaultStreamBuffer = 64 << 10

// ErrNilChunk 深度哈希输入为空
var ErrNilChunk = errors.New("deep hash: nil chunk")

// Chunk 深度哈希的输入节点
//
// 只有三种形态：Blob（字节串）、List（有序子节点）、Stream（按序读取的字节流）
type Chunk interface {
	isChunk()
}

// Blob 字节串节点
type Blob []byte

// List 有序子节点列表
type List []Chunk

// Stream 流节点，内容按读取顺序计入，长度由读取过程统计
type Stream struct {
	Reader     io.Reader
	BufferSize int // 读缓冲大小，<=0 时使用默认值
}

func (Blob) isChunk()   {}
func (List) isChunk()   {}
func (Stream) isChunk() {}

// DeepHash 计算结构化输入的深度哈希
//
// 规则：
//   - Blob:   SHA384( SHA384("blob" + len) || SHA384(data) )
//   - List:   acc = SHA384("list" + count)；对每个子节点 acc = SHA384(acc || DeepHash(child))
//   - Stream: 与 Blob 相同，长度为实际读取的字节数
//
// len 与 count 都是十进制 ASCII。只有 Stream 读取失败时才返回错误。
func DeepHash(chunk Chunk) ([]byte, error) {
	switch c := chunk.(type) {
	case Blob:
		return blobHash([]byte(c)), nil
	case List:
		return listHash(c)
	case Stream:
		return streamHash(c)
	case nil:
		return nil, ErrNilChunk
	default:
		return nil, fmt.Errorf("deep hash: unsupported chunk %T", chunk)
	}
}

func blobHash(data []byte) []byte {
	dataHash := sha512.Sum384(data)
	return blobTag(int64(len(data)), dataHash[:])
}

// blobTag 合并长度标签和数据摘要
func blobTag(length int64, dataHash []byte) []byte {
	tag := sha512.Sum384([]byte("blob" + strconv.FormatInt(length, 10)))
	sum := sha512.Sum384(append(tag[:], dataHash...))
	return sum[:]
}

func listHash(list List) ([]byte, error) {
	acc := sha512.Sum384([]byte("list" + strconv.Itoa(len(list))))
	pair := make([]byte, 0, 2*DeepHashSize)
	for i, child := range list {
		childHash, err := DeepHash(child)
		if err != nil {
			return nil, fmt.Errorf("deep hash: list element %d: %w", i, err)
		}
		pair = append(pair[:0], acc[:]...)
		pair = append(pair, childHash...)
		acc = sha512.Sum384(pair)
	}
	return acc[:], nil
}

func streamHash(s Stream) ([]byte, error) {
	if s.Reader == nil {
		return nil, ErrNilChunk
	}
	size := s.BufferSize
	if size <= 0 {
		size = defaultStreamBuffer
	}

	h := sha512.New384()
	n, err := io.CopyBuffer(h, s.Reader, make([]byte, size))
	if err != nil {
		return nil, fmt.Errorf("deep hash: read stream: %w", err)
	}
	return blobTag(n, h.Sum(nil)), nil
}
