package main

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weisyn/dataitem/internal/core/dataitem"
	"github.com/weisyn/dataitem/internal/core/dataitem/tags"
	"github.com/weisyn/dataitem/pkg/types"
)

var createFlags struct {
	signer   signerFlags
	Out      string
	Target   string
	Anchor   string
	Tags     []string
	TagsJSON string
	Unsigned bool
}

// createCmd 构建数据项
var createCmd = &cobra.Command{
	Use:   "create <data-file|->",
	Short: "构建并签名数据项",
	Long: `从文件或标准输入（-）读取载荷，构建数据项并写入 --out。

target/anchor 接受 64 位十六进制或 base64url；标签使用 --tag name=value（可重复），
或 --tags-json 指定 [{"name": "...", "value": "..."}] 格式的文件。`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := createFlags.signer.load()
		if err != nil {
			return err
		}
		opts, err := buildCreateOptions()
		if err != nil {
			return err
		}

		payload, size, err := openPayload(args[0])
		if err != nil {
			return err
		}
		defer payload.Close()

		item, err := service.Create(rootCtx, payload, size, signer, opts)
		if err != nil {
			return err
		}
		persisted := false
		defer func() {
			if f, ok := item.(*dataitem.FileDataItem); ok && !persisted {
				os.Remove(f.Path())
			}
		}()

		result := itemResult{Path: createFlags.Out}
		if !createFlags.Unsigned {
			if result.ID, err = service.Sign(rootCtx, item, signer); err != nil {
				return err
			}
		}
		written, err := service.Persist(rootCtx, item, createFlags.Out)
		if err != nil {
			return err
		}
		persisted = true
		if result.Size, err = written.Size(); err != nil {
			return err
		}
		result.Kind = item.Kind().String()
		result.SignatureType = signer.Type().String()

		printer.Success("数据项已写入 %s", createFlags.Out)
		return printer.Print(result, []string{"字段", "值"}, result.rows())
	},
}

// itemResult create/sign 的输出
type itemResult struct {
	ID            string `json:"id,omitempty"`
	Path          string `json:"path"`
	Kind          string `json:"kind,omitempty"`
	SignatureType string `json:"signature_type"`
	Size          int64  `json:"size"`
}

func (r itemResult) rows() [][]string {
	id := r.ID
	if id == "" {
		id = "（未签名）"
	}
	return [][]string{
		{"id", id},
		{"path", r.Path},
		{"signature_type", r.SignatureType},
		{"size", fmt.Sprint(r.Size)},
	}
}

func init() {
	createFlags.signer.register(createCmd)
	createCmd.Flags().StringVar(&createFlags.Out, "out", "", "输出文件路径")
	createCmd.Flags().StringVar(&createFlags.Target, "target", "", "32 字节目标地址")
	createCmd.Flags().StringVar(&createFlags.Anchor, "anchor", "", "32 字节防重放随机数")
	createCmd.Flags().StringArrayVar(&createFlags.Tags, "tag", nil, "标签 name=value，可重复")
	createCmd.Flags().StringVar(&createFlags.TagsJSON, "tags-json", "", "标签 JSON 文件")
	createCmd.Flags().BoolVar(&createFlags.Unsigned, "unsigned", false, "只构建不签名")
	_ = createCmd.MarkFlagRequired("out")
}

func buildCreateOptions() (*dataitem.CreateOptions, error) {
	opts := &dataitem.CreateOptions{}
	var err error
	if opts.Target, err = decodeField("target", createFlags.Target, dataitem.TargetLength); err != nil {
		return nil, err
	}
	if opts.Anchor, err = decodeField("anchor", createFlags.Anchor, dataitem.AnchorLength); err != nil {
		return nil, err
	}

	if createFlags.TagsJSON != "" {
		raw, err := os.ReadFile(createFlags.TagsJSON)
		if err != nil {
			return nil, &types.IOError{Op: "read", Path: createFlags.TagsJSON, Err: err}
		}
		var loose []map[string]any
		if err := json.Unmarshal(raw, &loose); err != nil {
			return nil, fmt.Errorf("%w: 标签 JSON 解析失败: %v", types.ErrFormat, err)
		}
		if opts.Tags, err = tags.FromLoose(loose); err != nil {
			return nil, err
		}
	}
	for _, pair := range createFlags.Tags {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("%w: 标签 %q 应为 name=value", types.ErrFormat, pair)
		}
		opts.Tags = append(opts.Tags, types.Tag{Name: name, Value: value})
	}
	return opts, nil
}

// decodeField 按长度区分十六进制与 base64url
func decodeField(name, value string, length int) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	var (
		raw []byte
		err error
	)
	trimmed := strings.TrimPrefix(value, "0x")
	if len(trimmed) == 2*length {
		raw, err = hex.DecodeString(trimmed)
	} else {
		raw, err = base64.RawURLEncoding.DecodeString(value)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s 解码失败: %v", types.ErrFormat, name, err)
	}
	if len(raw) != length {
		return nil, &types.LengthError{Field: name, Expected: length, Got: len(raw), Kind: types.ErrFormat}
	}
	return raw, nil
}

// openPayload 打开载荷；标准输入长度未知
func openPayload(path string) (io.ReadCloser, int64, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), dataitem.UnknownSize, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, &types.IOError{Op: "open", Path: path, Err: err}
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, &types.IOError{Op: "stat", Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return file, dataitem.UnknownSize, nil
	}
	return file, info.Size(), nil
}
