package dataitem

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/dataitem/pkg/types"
)

// FileExtension 文件数据项扩展名
const FileExtension = ".item"

// CreateFileData 构建未签名的文件数据项
//
// 先写入同目录临时文件，完整写入后再重命名到 path；
// 载荷从 data 流式复制，不整体读入内存
func CreateFileData(path string, data io.Reader, signer crypto.Signer, opts *CreateOptions, fileOpts ...FileOption) (*FileDataItem, error) {
	head, err := buildHeader(signer, opts)
	if err != nil {
		return nil, err
	}

	err = writeFileAtomic(path, func(w io.Writer) error {
		if _, err := w.Write(head); err != nil {
			return err
		}
		if data == nil {
			return nil
		}
		_, err := io.Copy(w, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	return NewFileDataItem(path, fileOpts...), nil
}

// CreateFileDataInDir 在目录下以随机文件名构建文件数据项
func CreateFileDataInDir(dir string, data io.Reader, signer crypto.Signer, opts *CreateOptions, fileOpts ...FileOption) (*FileDataItem, error) {
	path := filepath.Join(dir, uuid.NewString()+FileExtension)
	return CreateFileData(path, data, signer, opts, fileOpts...)
}

// rename 重命名文件，测试中可替换以模拟跨文件系统
var rename = os.Rename

// MoveTo 把文件数据项移动到 path，返回位于 path 的数据项
//
// 优先重命名；重命名失败（如跨文件系统）时复制到 path 再删除原文件
func (f *FileDataItem) MoveTo(path string) (*FileDataItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := rename(f.path, path); err != nil {
		if err := copyFile(f.path, path); err != nil {
			return nil, err
		}
		if err := os.Remove(f.path); err != nil {
			return nil, &types.IOError{Op: "remove", Path: f.path, Err: err}
		}
	}
	return &FileDataItem{
		path:       path,
		bufferSize: f.bufferSize,
		id:         append([]byte(nil), f.id...),
	}, nil
}

// copyFile 以原子写入的方式复制文件
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return &types.IOError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()
	return writeFileAtomic(dst, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

// writeFileAtomic 写临时文件后重命名，失败时删除临时文件
func writeFileAtomic(path string, write func(w io.Writer) error) (err error) {
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp-"+uuid.NewString())
	file, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return &types.IOError{Op: "create", Path: tmp, Err: err}
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(tmp)
		}
	}()

	if err := write(file); err != nil {
		return &types.IOError{Op: "write", Path: tmp, Err: err}
	}
	if err := file.Sync(); err != nil {
		return &types.IOError{Op: "sync", Path: tmp, Err: err}
	}
	if err := file.Close(); err != nil {
		return &types.IOError{Op: "close", Path: tmp, Err: err}
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return &types.IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
