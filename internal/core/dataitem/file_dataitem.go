package dataitem

import (
	"io"
	"os"
	"sync"

	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/hash"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/signature"
	itemintf "github.com/weisyn/dataitem/pkg/interfaces/dataitem"
	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

// DefaultBufferSize 文件数据项流式哈希默认读缓冲
const DefaultBufferSize = 256 << 10

// FileDataItem 文件承载的数据项
//
// 只持有路径；每次访问各自打开文件、按偏移读取、返回前关闭，
// 访问之间文件被修改时每次访问都反映当时的内容。
// 同一实例上的 Sign / SetSignature 互斥，读取与写入不交错。
type FileDataItem struct {
	path       string
	bufferSize int

	mu sync.RWMutex
	id []byte
}

var _ itemintf.Item = (*FileDataItem)(nil)

// FileOption 文件数据项选项
type FileOption func(*FileDataItem)

// WithBufferSize 设置流式哈希读缓冲大小
func WithBufferSize(n int) FileOption {
	return func(f *FileDataItem) {
		if n > 0 {
			f.bufferSize = n
		}
	}
}

// NewFileDataItem 包装已有信封文件，不做校验
func NewFileDataItem(path string, opts ...FileOption) *FileDataItem {
	f := &FileDataItem{path: path, bufferSize: DefaultBufferSize}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path 文件路径
func (f *FileDataItem) Path() string { return f.path }

// Kind 承载方式
func (f *FileDataItem) Kind() types.ItemKind { return types.ItemKindFileBacked }

// open 打开文件并取得当前长度
func (f *FileDataItem) open(flag int) (*os.File, int64, error) {
	file, err := os.OpenFile(f.path, flag, 0)
	if err != nil {
		return nil, 0, &types.IOError{Op: "open", Path: f.path, Err: err}
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, &types.IOError{Op: "stat", Path: f.path, Err: err}
	}
	return file, info.Size(), nil
}

// field 只读打开文件、解析头部并读取一个字段
func (f *FileDataItem) field(read func(h *header, r io.ReaderAt) ([]byte, error)) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	file, size, err := f.open(os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	h, err := parseHeader(file, size)
	if err != nil {
		return nil, err
	}
	return read(h, file)
}

// SignatureType 签名类型
func (f *FileDataItem) SignatureType() (types.SignatureType, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	file, size, err := f.open(os.O_RDONLY)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	desc, err := readSignatureType(file, size)
	if err != nil {
		return 0, err
	}
	return desc.Type, nil
}

// SignatureLength 签名长度
func (f *FileDataItem) SignatureLength() (int, error) {
	desc, err := f.descriptor()
	if err != nil {
		return 0, err
	}
	return desc.SignatureLength, nil
}

// OwnerLength 公钥长度
func (f *FileDataItem) OwnerLength() (int, error) {
	desc, err := f.descriptor()
	if err != nil {
		return 0, err
	}
	return desc.OwnerLength, nil
}

func (f *FileDataItem) descriptor() (signature.Descriptor, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	file, size, err := f.open(os.O_RDONLY)
	if err != nil {
		return signature.Descriptor{}, err
	}
	defer file.Close()
	return readSignatureType(file, size)
}

// RawSignature 签名字节
func (f *FileDataItem) RawSignature() ([]byte, error) {
	return f.field((*header).readSignature)
}

// Signature base64url 签名
func (f *FileDataItem) Signature() (string, error) {
	return encodeField(f.RawSignature())
}

// RawOwner 公钥字节
func (f *FileDataItem) RawOwner() ([]byte, error) {
	return f.field((*header).readOwner)
}

// Owner base64url 公钥
func (f *FileDataItem) Owner() (string, error) {
	return encodeField(f.RawOwner())
}

// RawTarget 目标地址，未设置时为空
func (f *FileDataItem) RawTarget() ([]byte, error) {
	return f.field((*header).readTarget)
}

// Target base64url 目标地址
func (f *FileDataItem) Target() (string, error) {
	return encodeField(f.RawTarget())
}

// RawAnchor 防重放随机数，未设置时为空
func (f *FileDataItem) RawAnchor() ([]byte, error) {
	return f.field((*header).readAnchor)
}

// Anchor base64url 防重放随机数
func (f *FileDataItem) Anchor() (string, error) {
	return encodeField(f.RawAnchor())
}

// RawTags 标签编码字节
func (f *FileDataItem) RawTags() ([]byte, error) {
	return f.field((*header).readTags)
}

// Tags 解码后的标签
func (f *FileDataItem) Tags() ([]types.Tag, error) {
	var list []types.Tag
	_, err := f.field(func(h *header, r io.ReaderAt) ([]byte, error) {
		var err error
		list, err = h.decodeTags(r)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// TagsB64URL name/value 均为 base64url 的标签
func (f *FileDataItem) TagsB64URL() ([]types.Tag, error) {
	list, err := f.Tags()
	if err != nil {
		return nil, err
	}
	return encodeTags(list), nil
}

// DataStart 载荷起始偏移
func (f *FileDataItem) DataStart() (int64, error) {
	var start int64
	_, err := f.field(func(h *header, _ io.ReaderAt) ([]byte, error) {
		start = h.dataStart
		return nil, nil
	})
	if err != nil {
		return 0, err
	}
	return start, nil
}

// DataSize 载荷字节数
func (f *FileDataItem) DataSize() (int64, error) {
	var n int64
	_, err := f.field(func(h *header, _ io.ReaderAt) ([]byte, error) {
		n = h.dataLength()
		return nil, nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// RawData 载荷字节，整体读入内存
func (f *FileDataItem) RawData() ([]byte, error) {
	return f.field(func(h *header, r io.ReaderAt) ([]byte, error) {
		return readAt(r, h.size, h.dataStart, int(h.dataLength()))
	})
}

// Data base64url 载荷
func (f *FileDataItem) Data() (string, error) {
	return encodeField(f.RawData())
}

// fileSection 关闭时同时关闭底层文件
type fileSection struct {
	*io.SectionReader
	file *os.File
}

func (s *fileSection) Close() error {
	return s.file.Close()
}

// DataReader 载荷读取流，调用方负责关闭
func (f *FileDataItem) DataReader() (io.ReadCloser, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	file, size, err := f.open(os.O_RDONLY)
	if err != nil {
		return nil, err
	}
	h, err := parseHeader(file, size)
	if err != nil {
		file.Close()
		return nil, err
	}
	return &fileSection{
		SectionReader: io.NewSectionReader(file, h.dataStart, h.dataLength()),
		file:          file,
	}, nil
}

// Size 文件当前长度
func (f *FileDataItem) Size() (int64, error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0, &types.IOError{Op: "stat", Path: f.path, Err: err}
	}
	return info.Size(), nil
}

// RawID SHA-256(signature)
func (f *FileDataItem) RawID() ([]byte, error) {
	f.mu.RLock()
	cached := f.id
	f.mu.RUnlock()
	if cached != nil {
		return append([]byte(nil), cached...), nil
	}

	sig, err := f.RawSignature()
	if err != nil {
		return nil, err
	}
	if isZero(sig) {
		return nil, types.ErrNotSigned
	}
	return computeID(sig), nil
}

// ID base64url id
func (f *FileDataItem) ID() (string, error) {
	return encodeField(f.RawID())
}

// IsSigned 签名区域是否已写入
func (f *FileDataItem) IsSigned() (bool, error) {
	sig, err := f.RawSignature()
	if err != nil {
		return false, err
	}
	return !isZero(sig), nil
}

// SignatureData 流式计算签名消息
func (f *FileDataItem) SignatureData() ([]byte, error) {
	return f.field(func(h *header, r io.ReaderAt) ([]byte, error) {
		return signatureData(r, h, streamData(r, h, f.bufferSize))
	})
}

// Sign 流式计算签名消息，签名后写回偏移 2 处，返回 id
func (f *FileDataItem) Sign(signer crypto.Signer) ([]byte, error) {
	if signer == nil {
		return nil, ErrNilSigner
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var id []byte
	err := f.write(func(file *os.File, h *header) ([]byte, error) {
		if err := checkSigner(h, signer.Type()); err != nil {
			return nil, err
		}
		message, err := signatureData(file, h, streamData(file, h, f.bufferSize))
		if err != nil {
			return nil, err
		}
		sig, err := signer.Sign(message)
		if err != nil {
			return nil, err
		}
		id = computeID(sig)
		return sig, nil
	})
	if err != nil {
		return nil, err
	}
	f.id = id
	return append([]byte(nil), id...), nil
}

// SetSignature 写入外部计算的签名
func (f *FileDataItem) SetSignature(sig []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := f.write(func(*os.File, *header) ([]byte, error) {
		return sig, nil
	})
	if err != nil {
		return err
	}
	f.id = computeID(sig)
	return nil
}

// write 读写打开文件，把 produce 返回的签名写入签名区域
func (f *FileDataItem) write(produce func(file *os.File, h *header) ([]byte, error)) (err error) {
	file, size, err := f.open(os.O_RDWR)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = &types.IOError{Op: "close", Path: f.path, Err: cerr}
		}
	}()

	h, err := parseHeader(file, size)
	if err != nil {
		return err
	}
	sig, err := produce(file, h)
	if err != nil {
		return err
	}
	if err := checkSignature(h, sig); err != nil {
		return err
	}
	if _, err := file.WriteAt(sig, signatureOffset); err != nil {
		return &types.IOError{Op: "write", Path: f.path, Err: err}
	}
	if err := file.Sync(); err != nil {
		return &types.IOError{Op: "sync", Path: f.path, Err: err}
	}
	return nil
}

// IsValid 流式验证签名
func (f *FileDataItem) IsValid() (bool, error) {
	return f.isValidWith(registry)
}

func (f *FileDataItem) isValidWith(reg *signature.Registry) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return verifyFile(reg, f.path, f.bufferSize)
}

// VerifyFile 验证信封文件
//
// 格式问题返回 false；打开或读取失败返回 types.ErrIO 类错误
func VerifyFile(path string) (bool, error) {
	return verifyFile(registry, path, DefaultBufferSize)
}

func verifyFile(reg *signature.Registry, path string, bufferSize int) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, &types.IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return false, &types.IOError{Op: "stat", Path: path, Err: err}
	}
	return verify(reg, file, info.Size(), func(h *header) hash.Chunk {
		return streamData(file, h, bufferSize)
	})
}

// Load 把信封文件整体读入内存数据项
func Load(path string) (*DataItem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.IOError{Op: "read", Path: path, Err: err}
	}
	return New(raw), nil
}

// FromDataItem 把内存数据项写入文件，返回文件数据项
func FromDataItem(item *DataItem, path string, opts ...FileOption) (*FileDataItem, error) {
	raw := item.Bytes()
	err := writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return NewFileDataItem(path, opts...), nil
}
