package types

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// 数据项错误分类
//
// 调用方使用 errors.Is 判断类别；具体上下文通过 %w 包装附加。
var (
	// ErrFormat 头部、标签载荷格式错误或缓冲区过短
	ErrFormat = errors.New("数据项格式错误")
	// ErrUnsupportedSignatureType 未注册的签名类型
	ErrUnsupportedSignatureType = errors.New("不支持的签名类型")
	// ErrIO 文件打开/读取/写入失败
	ErrIO = errors.New("数据项文件读写失败")
	// ErrNotSigned 需要 id/签名 的操作作用于未签名的数据项
	ErrNotSigned = errors.New("数据项尚未签名")
	// ErrInvalidKeyLength 公钥长度与签名类型不符
	ErrInvalidKeyLength = errors.New("无效的公钥长度")
	// ErrSignerMismatch 签名器与数据项声明的签名类型或长度不一致
	ErrSignerMismatch = errors.New("签名器与数据项不匹配")
	// ErrAlreadySigned 签名后尝试修改只写一次的头部字段
	ErrAlreadySigned = errors.New("数据项已签名，头部字段不可修改")
)

// LengthError 字段长度不符合期望
type LengthError struct {
	Field    string
	Expected int
	Got      int
	Kind     error // 错误类别（ErrFormat / ErrInvalidKeyLength / ErrSignerMismatch）
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("%s 长度错误: 期望 %d 字节，实际 %d 字节", e.Field, e.Expected, e.Got)
}

// Unwrap 返回错误类别，便于 errors.Is 判断
func (e *LengthError) Unwrap() error {
	return e.Kind
}

// IOError 包装底层文件错误，同时归类为 ErrIO
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error 底层错误已带路径（*fs.PathError / *os.LinkError）时不再重复
func (e *IOError) Error() string {
	var pathErr *fs.PathError
	if errors.As(e.Err, &pathErr) && pathErr.Path == e.Path {
		return e.Err.Error()
	}
	var linkErr *os.LinkError
	if errors.As(e.Err, &linkErr) && (linkErr.Old == e.Path || linkErr.New == e.Path) {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap 同时暴露 ErrIO 与底层错误
func (e *IOError) Unwrap() []error {
	return []error{ErrIO, e.Err}
}
