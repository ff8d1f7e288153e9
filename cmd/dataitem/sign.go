package main

import (
	"github.com/spf13/cobra"
)

var signFlags signerFlags

// signCmd 对已有数据项签名
var signCmd = &cobra.Command{
	Use:   "sign <item-file>",
	Short: "对数据项文件签名（原地写入签名）",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		signer, err := signFlags.load()
		if err != nil {
			return err
		}
		item := service.Open(args[0])
		id, err := service.Sign(rootCtx, item, signer)
		if err != nil {
			return err
		}
		size, err := item.Size()
		if err != nil {
			return err
		}

		result := itemResult{
			ID:            id,
			Path:          item.Path(),
			SignatureType: signer.Type().String(),
			Size:          size,
		}
		printer.Success("签名完成")
		return printer.Print(result, []string{"字段", "值"}, result.rows())
	},
}

func init() {
	signFlags.register(signCmd)
}
