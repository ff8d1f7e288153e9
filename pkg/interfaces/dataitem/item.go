// Package dataitem 定义数据项的公共接口
//
// 📦 **数据项 (Data Item)**
//
// 同一种二进制信封有两种承载方式：
//   - 内存数据项：整个信封位于一个字节切片中
//   - 文件数据项：只持有文件路径，每次访问按偏移读取
//
// 两种承载方式对相同字节返回相同的字段值和相同的验证结果。
//
// 🔗 **信封布局**（整数均为小端序）
//
//	signatureType  2
//	signature      signatureLength(type)
//	owner          ownerLength(type)
//	target         1 (+32)
//	anchor         1 (+32)
//	numberOfTags   8
//	numberOfBytes  8
//	tags           numberOfBytes
//	data           剩余全部字节
package dataitem

import (
	"io"

	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

// Item 数据项统一访问接口
//
// 所有访问器在签名类型未注册时返回 types.ErrUnsupportedSignatureType，
// 头部越界时返回 types.ErrFormat，文件数据项的读写失败归类为 types.ErrIO。
type Item interface {
	// Kind 承载方式
	Kind() types.ItemKind

	SignatureType() (types.SignatureType, error)
	RawSignature() ([]byte, error)
	RawOwner() ([]byte, error)
	// RawTarget 未设置时返回空切片
	RawTarget() ([]byte, error)
	// RawAnchor 未设置时返回空切片
	RawAnchor() ([]byte, error)
	// RawTags 标签编码字节（长度取自头部 numberOfTagBytes）
	RawTags() ([]byte, error)
	Tags() ([]types.Tag, error)
	RawData() ([]byte, error)
	// DataReader 以流的方式读取载荷，调用方负责关闭
	DataReader() (io.ReadCloser, error)
	// Size 信封总字节数
	Size() (int64, error)

	// RawID SHA-256(signature)，未签名时返回 types.ErrNotSigned
	RawID() ([]byte, error)
	// IsSigned 签名区域已写入（非全零）
	IsSigned() (bool, error)

	// SignatureData 计算签名消息（深度哈希）
	SignatureData() ([]byte, error)
	// Sign 签名并写回签名区域，返回 id
	Sign(signer crypto.Signer) ([]byte, error)
	// SetSignature 写入外部计算的签名
	SetSignature(signature []byte) error
	// IsValid 验证签名；格式问题返回 false，只有读写失败返回 error
	IsValid() (bool, error)
}
