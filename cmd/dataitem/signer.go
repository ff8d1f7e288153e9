package main

import (
	"github.com/spf13/cobra"

	"github.com/weisyn/dataitem/pkg/interfaces/infrastructure/crypto"
)

// signerFlags 签名器选择，未指定时使用配置文件中的 signer
type signerFlags struct {
	Type    string
	KeyPath string
}

func (f *signerFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Type, "type", "t", "", "签名类型（见 types 子命令）")
	cmd.Flags().StringVarP(&f.KeyPath, "key", "k", "", "私钥文件路径")
}

func (f *signerFlags) load() (crypto.Signer, error) {
	if f.Type == "" && f.KeyPath == "" {
		return service.DefaultSigner()
	}
	typeName := f.Type
	if typeName == "" {
		typeName = service.ConfiguredSignatureType()
	}
	keyPath := f.KeyPath
	if keyPath == "" {
		keyPath = service.ConfiguredKeyPath()
	}
	return service.LoadSigner(typeName, keyPath)
}
