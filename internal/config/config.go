package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr        string
	Port              string
	DatabasePath      string
	SessionSecret     string
	GinMode           string
	SuperRootUserName string
	SuperRootPassword string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
// A .env file in the working directory is applied first when present;
// variables already set in the environment take precedence.
func Load() AppConfig {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: failed to read .env: %v", err)
	}

	port := getenv("PORT", "8080")

	return AppConfig{
		ListenAddr:        getenv("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		Port:              port,
		DatabasePath:      getenv("DATABASE_PATH", "notekeeper.db"),
		SessionSecret:     getenv("SESSION_SECRET", "notekeeper-dev-secret"),
		GinMode:           getenv("GIN_MODE", "release"),
		SuperRootUserName: getenv("SUPER_ROOT_USER_NAME", ""),
		SuperRootPassword: getenv("SUPER_ROOT_PASSWORD", ""),
	}
}

func getenv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
