// crmctl 运维命令行：生成/清空测试数据、补齐内置元数据
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fisker/crm-backend/internal/app"
	"github.com/fisker/crm-backend/internal/model"
	"github.com/fisker/crm-backend/internal/service"
	"github.com/fisker/crm-backend/pkg/database"
	"github.com/fisker/crm-backend/pkg/logger"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "crmctl",
		Short:         "CRM maintenance commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default: $CRM_CONFIG or config/config.yaml)")
	root.AddCommand(newGenerateCmd(), newWipeCmd(), newSeedCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// withApp 初始化应用并在结束后关闭数据库连接
func withApp(fn func(*app.App) error) error {
	application, err := app.Initialize(configPath)
	if err != nil {
		return err
	}
	defer func() {
		database.Close()
		logger.Sync()
	}()
	return fn(application)
}

// password 未通过参数指定时使用配置中的明文口令
func password(flag string, application *app.App) string {
	if flag != "" {
		return flag
	}
	return application.Config.TestData.Password
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newGenerateCmd() *cobra.Command {
	var (
		pw  string
		req model.GenerateTestDataRequest
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic accounts, contacts and opportunities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(application *app.App) error {
				req.Password = password(pw, application)
				resp, err := application.Services.TestData.Generate(cmd.Context(), req)
				if err != nil {
					var partial *service.TestDataPartialError
					if errors.As(err, &partial) {
						_ = printJSON(partial.Stats)
					}
					return err
				}
				return printJSON(resp)
			})
		},
	}
	cmd.Flags().StringVar(&pw, "password", "", "test data password (default: test_data.password)")
	cmd.Flags().IntVar(&req.Accounts, "accounts", 0, "number of accounts (default 100000, max 500000)")
	cmd.Flags().IntVar(&req.Contacts, "contacts", 0, "number of contacts (default 200000, max 1000000)")
	cmd.Flags().IntVar(&req.Opportunities, "opportunities", 0, "number of opportunities (default 1000000, max 5000000)")
	return cmd
}

func newWipeCmd() *cobra.Command {
	var pw string
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete all accounts, contacts and opportunities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(application *app.App) error {
				resp, err := application.Services.TestData.Wipe(cmd.Context(), model.WipeTestDataRequest{Password: password(pw, application)})
				if err != nil {
					return err
				}
				return printJSON(resp)
			})
		},
	}
	cmd.Flags().StringVar(&pw, "password", "", "test data password (default: test_data.password)")
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert missing built-in field definitions and default layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(application *app.App) error {
				if err := database.SeedBuiltins(database.DB); err != nil {
					return err
				}
				for _, objectType := range model.ObjectTypes {
					application.Services.Resolver.Invalidate(cmd.Context(), objectType)
				}
				fmt.Println("Built-in metadata is up to date")
				return nil
			})
		},
	}
}
