package dataitem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"

	dataitemconfig "github.com/weisyn/dataitem/internal/config/dataitem"
	signerconfig "github.com/weisyn/dataitem/internal/config/signer"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/hash"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/key"
	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/signature"
	logimpl "github.com/weisyn/dataitem/internal/core/infrastructure/log"
	itemintf "github.com/weisyn/dataitem/pkg/interfaces/dataitem"
	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/dataitem/pkg/types"
)

// UnknownSize 载荷长度未知，总是使用文件承载
const UnknownSize int64 = -1

// ErrNoKeyPath 配置中未指定私钥文件
var ErrNoKeyPath = errors.New("未配置私钥文件路径")

// Service 数据项服务
//
// 按配置的阈值在内存与文件承载之间选择，并从配置加载默认签名器
type Service struct {
	logger        log.Logger
	options       *dataitemconfig.DataItemOptions
	signerOptions *signerconfig.SignerOptions
	registry      *signature.Registry
	hashes        crypto.HashManager
	keys          *key.Loader
}

// NewService 创建数据项服务
func NewService(
	logger log.Logger,
	options *dataitemconfig.DataItemOptions,
	signerOptions *signerconfig.SignerOptions,
	registry *signature.Registry,
	hashes crypto.HashManager,
	keys *key.Loader,
) *Service {
	if logger == nil {
		logger = logimpl.NewNop()
	}
	if options == nil {
		options = dataitemconfig.New(nil).GetOptions()
	}
	if signerOptions == nil {
		signerOptions = signerconfig.New(nil).GetOptions()
	}
	if registry == nil {
		registry = signature.Default()
	}
	if hashes == nil {
		hashes = hash.NewHashService()
	}
	if keys == nil {
		keys = key.NewLoader()
	}
	return &Service{
		logger:        logger,
		options:       options,
		signerOptions: signerOptions,
		registry:      registry,
		hashes:        hashes,
		keys:          keys,
	}
}

// Create 构建未签名数据项
//
// size 不超过 FileThresholdBytes 时返回 *DataItem，否则（含 UnknownSize）
// 在 TempDir 下返回 *FileDataItem
func (s *Service) Create(ctx context.Context, data io.Reader, size int64, signer crypto.Signer, opts *CreateOptions) (itemintf.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if data == nil {
		data = bytes.NewReader(nil)
	}
	data = &contextReader{ctx: ctx, r: data}

	if size >= 0 && size <= s.options.FileThresholdBytes {
		payload, err := io.ReadAll(io.LimitReader(data, size+1))
		if err != nil {
			return nil, &types.IOError{Op: "read", Path: "<payload>", Err: err}
		}
		if int64(len(payload)) != size {
			return nil, fmt.Errorf("%w: 载荷声明 %d 字节，实际读到 %d 字节", types.ErrFormat, size, len(payload))
		}
		item, err := CreateData(payload, signer, opts)
		if err != nil {
			return nil, err
		}
		s.logger.Debugf("创建内存数据项，载荷 %d 字节", size)
		return item, nil
	}

	item, err := CreateFileDataInDir(s.options.ResolveTempDir(), data, signer, opts, WithBufferSize(s.options.StreamBufferSize))
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("创建文件数据项 %s", item.Path())
	return item, nil
}

// Persist 把构建结果写到 out，返回位于 out 的文件数据项
//
// 内存数据项原子写入；文件数据项移动（跨文件系统时复制）
func (s *Service) Persist(ctx context.Context, item itemintf.Item, out string) (*FileDataItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		persisted *FileDataItem
		err       error
	)
	switch it := item.(type) {
	case *DataItem:
		persisted, err = FromDataItem(it, out, WithBufferSize(s.options.StreamBufferSize))
	case *FileDataItem:
		persisted, err = it.MoveTo(out)
	default:
		return nil, fmt.Errorf("未知数据项类型 %T", item)
	}
	if err != nil {
		s.logger.Warnf("数据项写入 %s 失败: %v", out, err)
		return nil, err
	}
	s.logger.Debugf("数据项已写入 %s kind=%s", out, item.Kind())
	return persisted, nil
}

// Open 打开已有信封文件
func (s *Service) Open(path string) *FileDataItem {
	return NewFileDataItem(path, WithBufferSize(s.options.StreamBufferSize))
}

// Sign 签名数据项并返回 base64url id
//
// 签名器类型必须在服务的注册表中
func (s *Service) Sign(ctx context.Context, item itemintf.Item, signer crypto.Signer) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if signer == nil {
		return "", ErrNilSigner
	}
	if _, err := s.registry.Lookup(signer.Type()); err != nil {
		return "", err
	}
	id, err := item.Sign(signer)
	if err != nil {
		s.logger.Warnf("数据项签名失败: %v", err)
		return "", err
	}
	encoded := b64.EncodeToString(id)
	s.logger.Infof("数据项已签名 id=%s type=%s", encoded, signer.Type())
	return encoded, nil
}

// Verify 按服务的注册表验证数据项
func (s *Service) Verify(ctx context.Context, item itemintf.Item) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	var (
		ok  bool
		err error
	)
	switch it := item.(type) {
	case *DataItem:
		ok = it.isValidWith(s.registry)
	case *FileDataItem:
		ok, err = it.isValidWith(s.registry)
	default:
		ok, err = item.IsValid()
	}
	if err != nil {
		s.logger.Errorf("数据项验证读取失败: %v", err)
		return false, err
	}
	if !ok {
		s.logger.Debugf("数据项验证未通过 kind=%s", item.Kind())
	}
	return ok, nil
}

// Descriptors 已注册签名类型
func (s *Service) Descriptors() []signature.Descriptor {
	return s.registry.Descriptors()
}

// OwnerAddress 按签名类型推导 owner 对应的地址
//
// solana 为 base58 公钥；ethereum/kyve 为 keccak256(X‖Y) 后20字节；
// typedEthereum 的 owner 即地址。其他类型返回空串
func (s *Service) OwnerAddress(sigType types.SignatureType, owner []byte) string {
	switch sigType {
	case types.SignatureTypeSolana:
		return base58.Encode(owner)
	case types.SignatureTypeEthereum, types.SignatureTypeKyve:
		if len(owner) != signature.EthereumOwnerLength {
			return ""
		}
		return common.BytesToAddress(s.hashes.Keccak256(owner[1:])[12:]).Hex()
	case types.SignatureTypeTypedEthereum:
		return string(owner)
	default:
		return ""
	}
}

// LoadSigner 按签名类型名称从文件加载签名器
func (s *Service) LoadSigner(typeName, path string) (crypto.Signer, error) {
	sigType, err := types.ParseSignatureType(typeName)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return nil, ErrNoKeyPath
	}
	signer, err := s.keys.LoadFile(sigType, path)
	if err != nil {
		return nil, err
	}
	s.logger.Debugf("已加载签名器 type=%s", sigType)
	return signer, nil
}

// ConfiguredSignatureType 配置的签名类型名称
func (s *Service) ConfiguredSignatureType() string {
	return s.signerOptions.SignatureType
}

// ConfiguredKeyPath 配置的私钥文件路径
func (s *Service) ConfiguredKeyPath() string {
	return s.signerOptions.KeyPath
}

// DefaultSigner 按配置加载签名器
func (s *Service) DefaultSigner() (crypto.Signer, error) {
	return s.LoadSigner(s.signerOptions.SignatureType, s.signerOptions.KeyPath)
}

// contextReader 每次读取前检查 ctx
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
