// Package tags 实现数据项标签的紧凑二进制编码
//
// 编码与 Avro 的 array<record{name: string, value: string}> 二进制格式一致：
//
//	count | (len name len value)* | 0
//
// 整数使用 zigzag + 7 位分组变长编码。空标签列表编码为零长度字节串，
// 不输出任何块标记（信封头部单独记录标签数量）。
package tags

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/weisyn/dataitem/pkg/types"
)

// MaxVarintLen 64 位变长整数最大字节数
const MaxVarintLen = 10

// TagShape 标签期望结构，出现在所有输入校验错误中
const TagShape = "{ name: string, value: string }[]"

// 宽松输入校验错误，均同时归类为 types.ErrFormat
var (
	ErrTagNameMissing  = errors.New("标签缺少 name")
	ErrTagNameType     = errors.New("标签 name 不是字符串")
	ErrTagValueMissing = errors.New("标签缺少 value")
	ErrTagValueType    = errors.New("标签 value 不是字符串")
)

// EncodeLong zigzag 变长编码
func EncodeLong(n int64) []byte {
	return appendLong(make([]byte, 0, MaxVarintLen), n)
}

func appendLong(dst []byte, n int64) []byte {
	z := uint64((n << 1) ^ (n >> 63))
	for z >= 0x80 {
		dst = append(dst, byte(z)|0x80)
		z >>= 7
	}
	return append(dst, byte(z))
}

// DecodeLong 解码 zigzag 变长整数
//
// 返回值和消耗的字节数；截断或超过 10 字节时返回 types.ErrFormat
func DecodeLong(b []byte) (int64, int, error) {
	var (
		z     uint64
		shift uint
	)
	for i := 0; i < len(b); i++ {
		if i >= MaxVarintLen {
			return 0, 0, fmt.Errorf("%w: 变长整数超过 %d 字节", types.ErrFormat, MaxVarintLen)
		}
		c := b[i]
		z |= uint64(c&0x7f) << shift
		if c&0x80 == 0 {
			return int64(z>>1) ^ -int64(z&1), i + 1, nil
		}
		shift += 7
	}
	return 0, 0, fmt.Errorf("%w: 变长整数被截断", types.ErrFormat)
}

// Serialize 编码标签列表
//
// 空列表返回零长度结果；name/value 必须是合法 UTF-8
func Serialize(list []types.Tag) ([]byte, error) {
	if len(list) == 0 {
		return []byte{}, nil
	}

	size := MaxVarintLen + 1
	for _, tag := range list {
		size += 2*MaxVarintLen + len(tag.Name) + len(tag.Value)
	}
	out := appendLong(make([]byte, 0, size), int64(len(list)))
	for i, tag := range list {
		if !utf8.ValidString(tag.Name) || !utf8.ValidString(tag.Value) {
			return nil, fmt.Errorf("%w: 第 %d 个标签不是合法 UTF-8", types.ErrFormat, i)
		}
		out = appendString(out, tag.Name)
		out = appendString(out, tag.Value)
	}
	return append(out, 0), nil
}

func appendString(dst []byte, s string) []byte {
	dst = appendLong(dst, int64(len(s)))
	return append(dst, s...)
}

// Deserialize 解码标签列表
//
// 零长度输入返回空列表。支持多个块以及带字节长度的负计数块。
// 任何截断、越界长度、过长变长整数或终止符后的多余字节都返回 types.ErrFormat，
// 不返回部分结果。
func Deserialize(b []byte) ([]types.Tag, error) {
	if len(b) == 0 {
		return []types.Tag{}, nil
	}

	r := reader{buf: b}
	var list []types.Tag
	for {
		count, err := r.long()
		if err != nil {
			return nil, err
		}
		if count == 0 {
			break
		}
		if count < 0 {
			// 负计数后跟块字节长度
			if _, err := r.long(); err != nil {
				return nil, err
			}
			count = -count
		}
		// 每个标签至少占 2 字节
		if count < 0 || count > int64(r.remaining()/2) {
			return nil, fmt.Errorf("%w: 标签数量 %d 超出剩余字节", types.ErrFormat, count)
		}
		if list == nil {
			list = make([]types.Tag, 0, count)
		}
		for i := int64(0); i < count; i++ {
			name, err := r.str()
			if err != nil {
				return nil, err
			}
			value, err := r.str()
			if err != nil {
				return nil, err
			}
			list = append(list, types.Tag{Name: name, Value: value})
		}
	}

	if r.remaining() != 0 {
		return nil, fmt.Errorf("%w: 标签编码后有 %d 个多余字节", types.ErrFormat, r.remaining())
	}
	if list == nil {
		list = []types.Tag{}
	}
	return list, nil
}

// reader 顺序读取编码字节
type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int { return len(r.buf) - r.off }

func (r *reader) long() (int64, error) {
	v, n, err := DecodeLong(r.buf[r.off:])
	if err != nil {
		return 0, err
	}
	r.off += n
	return v, nil
}

func (r *reader) str() (string, error) {
	n, err := r.long()
	if err != nil {
		return "", err
	}
	if n < 0 || n > int64(r.remaining()) {
		return "", fmt.Errorf("%w: 字符串长度 %d 超出剩余 %d 字节", types.ErrFormat, n, r.remaining())
	}
	s := string(r.buf[r.off : r.off+int(n)])
	r.off += int(n)
	return s, nil
}

// FromLoose 校验松散类型的标签输入（例如 JSON 解码结果）
//
// 缺少 name、name 非字符串、缺少 value、value 非字符串分别返回不同的错误，
// 均可用 errors.Is(err, types.ErrFormat) 判断
func FromLoose(list []map[string]any) ([]types.Tag, error) {
	out := make([]types.Tag, 0, len(list))
	for i, item := range list {
		rawName, ok := item["name"]
		if !ok || rawName == nil {
			return nil, looseError(ErrTagNameMissing, i)
		}
		name, ok := rawName.(string)
		if !ok {
			return nil, looseError(ErrTagNameType, i)
		}
		rawValue, ok := item["value"]
		if !ok || rawValue == nil {
			return nil, looseError(ErrTagValueMissing, i)
		}
		value, ok := rawValue.(string)
		if !ok {
			return nil, looseError(ErrTagValueType, i)
		}
		out = append(out, types.Tag{Name: name, Value: value})
	}
	return out, nil
}

func looseError(kind error, index int) error {
	return fmt.Errorf("%w: %w（第 %d 个标签），期望 %s", types.ErrFormat, kind, index, TagShape)
}

// SerializeLoose 校验并编码松散类型的标签输入
func SerializeLoose(list []map[string]any) ([]byte, error) {
	tagList, err := FromLoose(list)
	if err != nil {
		return nil, err
	}
	return Serialize(tagList)
}
