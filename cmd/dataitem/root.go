package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	appconfig "github.com/weisyn/dataitem/internal/config"
	"github.com/weisyn/dataitem/internal/cli/output"
	"github.com/weisyn/dataitem/internal/core/dataitem"
	cryptomodule "github.com/weisyn/dataitem/internal/core/infrastructure/crypto"
	logmodule "github.com/weisyn/dataitem/internal/core/infrastructure/log"
	configiface "github.com/weisyn/dataitem/pkg/interfaces/config"
	"github.com/weisyn/dataitem/pkg/types"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigPath   string // 配置文件
	OutputFormat string // 输出格式
	LogLevel     string // 覆盖配置中的日志级别
}

var (
	globalFlags GlobalFlags
	printer     *output.Printer
	service     *dataitem.Service
	app         *fx.App
	rootCtx     context.Context
	stopSignals context.CancelFunc
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "dataitem",
	Short: "签名数据项工具",
	Long: `dataitem - 二进制签名数据项信封工具

支持的操作:
- create   构建并签名数据项
- sign     对已有的未签名数据项签名
- verify   验证数据项签名
- inspect  查看数据项字段
- types    列出支持的签名类型
- keygen   生成签名私钥文件`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(globalFlags.OutputFormat)
		if err != nil {
			return err
		}
		printer = output.NewPrinter(format, os.Stdout)

		appConfig, err := appconfig.LoadAppConfig(globalFlags.ConfigPath)
		if err != nil {
			return err
		}
		if globalFlags.LogLevel != "" {
			if appConfig.Log == nil {
				appConfig.Log = &types.UserLogConfig{}
			}
			appConfig.Log.Level = types.StringPtr(globalFlags.LogLevel)
		}

		rootCtx, stopSignals = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

		app = fx.New(
			fx.NopLogger,
			fx.Provide(func() configiface.AppOptions { return appconfig.NewAppOptions(appConfig) }),
			appconfig.Module(),
			logmodule.Module(),
			cryptomodule.Module(),
			dataitem.Module(),
			fx.Populate(&service),
		)
		if err := app.Start(rootCtx); err != nil {
			return fmt.Errorf("初始化失败: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdown()
	},
}

func shutdown() error {
	if stopSignals != nil {
		stopSignals()
	}
	if app == nil {
		return nil
	}
	err := app.Stop(context.Background())
	app = nil
	return err
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		_ = shutdown()
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalFlags.ConfigPath, "config", "c", "", "JSON 配置文件路径")
	rootCmd.PersistentFlags().StringVarP(&globalFlags.OutputFormat, "output", "o", "auto", "输出格式: auto|json|table")
	rootCmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "", "日志级别: debug|info|warn|error")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(keygenCmd)
}
