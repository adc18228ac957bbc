package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/notekeeper/internal/config"
	"github.com/notekeeper/internal/db"
	"github.com/notekeeper/internal/metrics"
	"github.com/notekeeper/internal/router"
	"github.com/spf13/cobra"
)

var cfg config.AppConfig

var rootCmd = &cobra.Command{
	Use:   "notekeeper",
	Short: "Personal note-taking web service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if path, _ := cmd.Flags().GetString("db"); path != "" {
			cfg.DatabasePath = path
		}

		// 初始化数据库
		if err := db.Init(cfg.DatabasePath); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gin.SetMode(cfg.GinMode)

		created, err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword)
		if err != nil {
			return fmt.Errorf("failed to ensure bootstrap user: %w", err)
		}
		if created {
			log.Printf("created bootstrap user %q", cfg.SuperRootUserName)
		}

		// 设置并运行 Gin 服务器
		r := router.SetupRouter(cfg.SessionSecret, db.DB, metrics.New())
		log.Printf("notekeeper listening on %s", cfg.ListenAddr)
		if err := r.Run(cfg.ListenAddr); err != nil {
			return fmt.Errorf("failed to run server: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "database path (overrides DATABASE_PATH)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(createUserCmd)
}
