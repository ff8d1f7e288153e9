package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errInvalidItems 至少一个数据项未通过验证
var errInvalidItems = errors.New("存在未通过验证的数据项")

type verifyResult struct {
	Path  string `json:"path"`
	ID    string `json:"id,omitempty"`
	Valid bool   `json:"valid"`
}

// verifyCmd 验证数据项
var verifyCmd = &cobra.Command{
	Use:   "verify <item-file>...",
	Short: "验证数据项签名",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := make([]verifyResult, 0, len(args))
		rows := make([][]string, 0, len(args))
		invalid := 0

		for _, path := range args {
			item := service.Open(path)
			ok, err := service.Verify(rootCtx, item)
			if err != nil {
				return err
			}
			r := verifyResult{Path: path, Valid: ok}
			if ok {
				r.ID, _ = item.ID()
			} else {
				invalid++
			}
			results = append(results, r)
			rows = append(rows, []string{path, r.ID, fmt.Sprint(ok)})
		}

		if err := printer.Print(results, []string{"文件", "id", "有效"}, rows); err != nil {
			return err
		}
		if invalid > 0 {
			printer.Warning("%d/%d 个数据项未通过验证", invalid, len(args))
			return errInvalidItems
		}
		printer.Success("全部 %d 个数据项验证通过", len(args))
		return nil
	},
}
