package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/weisyn/dataitem/internal/core/infrastructure/crypto/key"
	"github.com/weisyn/dataitem/pkg/types"
)

var keygenFlags struct {
	Type string
	Out  string
}

// keygenCmd 生成私钥文件
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "生成签名私钥文件",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sigType, err := types.ParseSignatureType(keygenFlags.Type)
		if err != nil {
			return err
		}
		material, err := key.Generate(sigType)
		if err != nil {
			return err
		}
		defer key.SecureWipe(material)

		if err := os.WriteFile(keygenFlags.Out, material, 0o600); err != nil {
			return &types.IOError{Op: "write", Path: keygenFlags.Out, Err: err}
		}

		signer, err := service.LoadSigner(keygenFlags.Type, keygenFlags.Out)
		if err != nil {
			return err
		}
		printer.Success("已生成 %s 私钥 %s", sigType, keygenFlags.Out)
		result := map[string]any{
			"path":           keygenFlags.Out,
			"signature_type": sigType.String(),
			"owner_length":   len(signer.PublicKey()),
		}
		return printer.Print(result, nil, [][]string{
			{"path", keygenFlags.Out},
			{"signature_type", sigType.String()},
		})
	},
}

func init() {
	keygenCmd.Flags().StringVarP(&keygenFlags.Type, "type", "t", "ed25519", "签名类型")
	keygenCmd.Flags().StringVar(&keygenFlags.Out, "out", "", "私钥输出路径")
	_ = keygenCmd.MarkFlagRequired("out")
}
