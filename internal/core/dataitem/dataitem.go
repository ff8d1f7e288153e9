// Package dataitem 实现签名数据项信封
//
// 📦 **数据项 (Data Item)**
//
// - DataItem：整个信封位于内存字节切片中
// - FileDataItem：信封位于文件中，每次访问按偏移读取
// - CreateData / CreateFileData：构建未签名信封
// - Verify / VerifyFile：验证信封签名
//
// 两种承载方式共用同一套头部解析（io.ReaderAt）与签名消息构造。
package dataitem

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"sync"

	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/hash"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/signature"
	itemintf "github.com/weisyn/dataitem/pkg/interfaces/dataitem"
	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

// b64 数据项字符串字段统一使用无填充 base64url
var b64 = base64.RawURLEncoding

// DataItem 内存数据项
//
// 持有信封字节切片的所有权，调用方传入后不应再修改。
// 签名区域与 owner 的写入受互斥锁保护，并发读取不会看到写了一半的签名。
type DataItem struct {
	mu     sync.RWMutex
	binary []byte
	id     []byte
}

var _ itemintf.Item = (*DataItem)(nil)

// New 包装信封字节，不做校验
func New(binary []byte) *DataItem {
	return &DataItem{binary: binary}
}

func (d *DataItem) reader() *bytes.Reader {
	return bytes.NewReader(d.binary)
}

func (d *DataItem) size() int64 {
	return int64(len(d.binary))
}

func (d *DataItem) header() (*header, error) {
	return parseHeader(d.reader(), d.size())
}

// Kind 承载方式
func (d *DataItem) Kind() types.ItemKind { return types.ItemKindInMemory }

// SignatureType 签名类型
func (d *DataItem) SignatureType() (types.SignatureType, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	desc, err := readSignatureType(d.reader(), d.size())
	if err != nil {
		return 0, err
	}
	return desc.Type, nil
}

// SignatureLength 签名长度
func (d *DataItem) SignatureLength() (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	desc, err := readSignatureType(d.reader(), d.size())
	if err != nil {
		return 0, err
	}
	return desc.SignatureLength, nil
}

// OwnerLength 公钥长度
func (d *DataItem) OwnerLength() (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	desc, err := readSignatureType(d.reader(), d.size())
	if err != nil {
		return 0, err
	}
	return desc.OwnerLength, nil
}

// field 在读锁下解析头部并读取一个字段
func (d *DataItem) field(read func(h *header, r io.ReaderAt) ([]byte, error)) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, err := d.header()
	if err != nil {
		return nil, err
	}
	return read(h, d.reader())
}

func encodeField(raw []byte, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return b64.EncodeToString(raw), nil
}

// RawSignature 签名字节
func (d *DataItem) RawSignature() ([]byte, error) {
	return d.field((*header).readSignature)
}

// Signature base64url 签名
func (d *DataItem) Signature() (string, error) {
	return encodeField(d.RawSignature())
}

// RawOwner 公钥字节
func (d *DataItem) RawOwner() ([]byte, error) {
	return d.field((*header).readOwner)
}

// Owner base64url 公钥
func (d *DataItem) Owner() (string, error) {
	return encodeField(d.RawOwner())
}

// SetRawOwner 替换 owner
//
// 长度必须与签名类型一致；已签名的数据项不允许修改
func (d *DataItem) SetRawOwner(owner []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	h, err := d.header()
	if err != nil {
		return err
	}
	sig, err := h.readSignature(d.reader())
	if err != nil {
		return err
	}
	if !isZero(sig) {
		return types.ErrAlreadySigned
	}
	if len(owner) != h.desc.OwnerLength {
		return &types.LengthError{
			Field:    "owner",
			Expected: h.desc.OwnerLength,
			Got:      len(owner),
			Kind:     types.ErrInvalidKeyLength,
		}
	}
	copy(d.binary[h.ownerStart():], owner)
	return nil
}

// RawTarget 目标地址，未设置时为空
func (d *DataItem) RawTarget() ([]byte, error) {
	return d.field((*header).readTarget)
}

// Target base64url 目标地址
func (d *DataItem) Target() (string, error) {
	return encodeField(d.RawTarget())
}

// RawAnchor 防重放随机数，未设置时为空
func (d *DataItem) RawAnchor() ([]byte, error) {
	return d.field((*header).readAnchor)
}

// Anchor base64url 防重放随机数
func (d *DataItem) Anchor() (string, error) {
	return encodeField(d.RawAnchor())
}

// RawTags 标签编码字节
func (d *DataItem) RawTags() ([]byte, error) {
	return d.field((*header).readTags)
}

// Tags 解码后的标签
func (d *DataItem) Tags() ([]types.Tag, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, err := d.header()
	if err != nil {
		return nil, err
	}
	return h.decodeTags(d.reader())
}

// TagsB64URL name/value 均为 base64url 的标签
func (d *DataItem) TagsB64URL() ([]types.Tag, error) {
	list, err := d.Tags()
	if err != nil {
		return nil, err
	}
	return encodeTags(list), nil
}

func encodeTags(list []types.Tag) []types.Tag {
	out := make([]types.Tag, len(list))
	for i, tag := range list {
		out[i] = types.Tag{
			Name:  b64.EncodeToString([]byte(tag.Name)),
			Value: b64.EncodeToString([]byte(tag.Value)),
		}
	}
	return out
}

// DataStart 载荷起始偏移
func (d *DataItem) DataStart() (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, err := d.header()
	if err != nil {
		return 0, err
	}
	return h.dataStart, nil
}

// DataSize 载荷字节数
func (d *DataItem) DataSize() (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	h, err := d.header()
	if err != nil {
		return 0, err
	}
	return h.dataLength(), nil
}

// RawData 载荷字节
func (d *DataItem) RawData() ([]byte, error) {
	return d.field(func(h *header, r io.ReaderAt) ([]byte, error) {
		return readAt(r, h.size, h.dataStart, int(h.dataLength()))
	})
}

// Data base64url 载荷
func (d *DataItem) Data() (string, error) {
	return encodeField(d.RawData())
}

// DataReader 载荷读取流
func (d *DataItem) DataReader() (io.ReadCloser, error) {
	data, err := d.RawData()
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Size 信封字节数
func (d *DataItem) Size() (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.size(), nil
}

// Bytes 信封字节副本
func (d *DataItem) Bytes() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]byte(nil), d.binary...)
}

// RawID SHA-256(signature)
func (d *DataItem) RawID() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.id != nil {
		return append([]byte(nil), d.id...), nil
	}
	h, err := d.header()
	if err != nil {
		return nil, err
	}
	sig, err := h.readSignature(d.reader())
	if err != nil {
		return nil, err
	}
	if isZero(sig) {
		return nil, types.ErrNotSigned
	}
	return computeID(sig), nil
}

// ID base64url id
func (d *DataItem) ID() (string, error) {
	return encodeField(d.RawID())
}

// IsSigned 签名区域是否已写入
func (d *DataItem) IsSigned() (bool, error) {
	sig, err := d.RawSignature()
	if err != nil {
		return false, err
	}
	return !isZero(sig), nil
}

// SignatureData 计算签名消息
func (d *DataItem) SignatureData() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.signatureDataLocked()
}

func (d *DataItem) signatureDataLocked() ([]byte, error) {
	h, err := d.header()
	if err != nil {
		return nil, err
	}
	return signatureData(d.reader(), h, hash.Blob(d.binary[h.dataStart:]))
}

// Sign 签名并写入签名区域，返回 id
//
// 签名器类型必须与头部签名类型一致，返回的签名长度必须与注册表一致
func (d *DataItem) Sign(signer crypto.Signer) ([]byte, error) {
	if signer == nil {
		return nil, ErrNilSigner
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.header()
	if err != nil {
		return nil, err
	}
	if err := checkSigner(h, signer.Type()); err != nil {
		return nil, err
	}
	message, err := d.signatureDataLocked()
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(message)
	if err != nil {
		return nil, err
	}
	if err := checkSignature(h, sig); err != nil {
		return nil, err
	}

	copy(d.binary[signatureOffset:], sig)
	d.id = computeID(sig)
	return append([]byte(nil), d.id...), nil
}

// SetSignature 写入外部计算的签名（配合 SignatureData 做分离签名）
func (d *DataItem) SetSignature(sig []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.header()
	if err != nil {
		return err
	}
	if err := checkSignature(h, sig); err != nil {
		return err
	}
	copy(d.binary[signatureOffset:], sig)
	d.id = computeID(sig)
	return nil
}

// IsValid 验证签名
func (d *DataItem) IsValid() (bool, error) {
	return d.isValidWith(registry), nil
}

func (d *DataItem) isValidWith(reg *signature.Registry) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return verifyBinary(reg, d.binary)
}

// Verify 验证信封字节
//
// 任何格式问题都返回 false，不会 panic
func Verify(binary []byte) bool {
	return verifyBinary(registry, binary)
}

func verifyBinary(reg *signature.Registry, binary []byte) bool {
	ok, _ := verify(reg, bytes.NewReader(binary), int64(len(binary)), func(h *header) hash.Chunk {
		return hash.Blob(binary[h.dataStart:])
	})
	return ok
}

// itemJSON 数据项 JSON 表示
type itemJSON struct {
	ID            string      `json:"id,omitempty"`
	SignatureType uint16      `json:"signature_type"`
	Signature     string      `json:"signature"`
	Owner         string      `json:"owner"`
	Target        string      `json:"target"`
	Anchor        string      `json:"anchor"`
	Tags          []types.Tag `json:"tags"`
	Data          string      `json:"data"`
}

// MarshalJSON 字段均为 base64url，标签 name/value 同样编码
func (d *DataItem) MarshalJSON() ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	r := d.reader()
	h, err := d.header()
	if err != nil {
		return nil, err
	}
	sig, err := h.readSignature(r)
	if err != nil {
		return nil, err
	}
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
	list, err := h.decodeTags(r)
	if err != nil {
		return nil, err
	}

	out := itemJSON{
		SignatureType: uint16(h.sigType),
		Signature:     b64.EncodeToString(sig),
		Owner:         b64.EncodeToString(owner),
		Target:        b64.EncodeToString(target),
		Anchor:        b64.EncodeToString(anchor),
		Tags:          encodeTags(list),
		Data:          b64.EncodeToString(d.binary[h.dataStart:]),
	}
	if !isZero(sig) {
		out.ID = b64.EncodeToString(computeID(sig))
	}
	return json.Marshal(out)
}
