package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type typeView struct {
	Name            string `json:"name"`
	Code            uint16 `json:"code"`
	SignatureLength int    `json:"signature_length"`
	OwnerLength     int    `json:"owner_length"`
}

// typesCmd 列出签名类型
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "列出支持的签名类型",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		descriptors := service.Descriptors()
		views := make([]typeView, 0, len(descriptors))
		rows := make([][]string, 0, len(descriptors))
		for _, d := range descriptors {
			v := typeView{
				Name:            d.Name(),
				Code:            uint16(d.Type),
				SignatureLength: d.SignatureLength,
				OwnerLength:     d.OwnerLength,
			}
			views = append(views, v)
			rows = append(rows, []string{
				v.Name,
				fmt.Sprint(v.Code),
				fmt.Sprint(v.SignatureLength),
				fmt.Sprint(v.OwnerLength),
			})
		}
		return printer.Print(views, []string{"类型", "编码", "签名长度", "公钥长度"}, rows)
	},
}
