// Package output 提供命令行输出格式化
//
// 终端下使用 pterm 渲染表格与提示，管道或 --output json 时输出 JSON。
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"golang.org/x/term"
)

// Format 输出格式
type Format string

const (
	FormatAuto  Format = "auto"
	FormatJSON  Format = "json"
	FormatTable Format = "table"
)

// ParseFormat 解析输出格式名称
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatAuto, FormatJSON, FormatTable:
		return Format(name), nil
	case "":
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("未知输出格式 %q（可选 auto|json|table）", name)
	}
}

// Printer 命令输出
type Printer struct {
	w     io.Writer
	table bool
}

// NewPrinter 创建输出器
//
// FormatAuto 在 w 为终端时使用表格，否则使用 JSON
func NewPrinter(format Format, w io.Writer) *Printer {
	table := format == FormatTable
	if format == FormatAuto {
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			table = true
		}
	}
	return &Printer{w: w, table: table}
}

// IsTable 是否以表格渲染
func (p *Printer) IsTable() bool { return p.table }

// Print 表格模式下渲染 rows，否则输出 v 的 JSON
func (p *Printer) Print(v any, header []string, rows [][]string) error {
	if !p.table {
		return p.JSON(v)
	}
	data := rows
	hasHeader := len(header) > 0
	if hasHeader {
		data = append([][]string{header}, rows...)
	}
	return pterm.DefaultTable.
		WithHasHeader(hasHeader).
		WithHeaderRowSeparator("-").
		WithData(data).
		WithWriter(p.w).
		Render()
}

// JSON 以缩进 JSON 输出
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Success 成功提示（仅表格模式）
func (p *Printer) Success(format string, args ...any) {
	if p.table {
		pterm.Success.WithWriter(p.w).Printfln(format, args...)
	}
}

// Warning 警告提示（仅表格模式）
func (p *Printer) Warning(format string, args ...any) {
	if p.table {
		pterm.Warning.WithWriter(p.w).Printfln(format, args...)
	}
}
