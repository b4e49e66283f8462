package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config 应用配置
type Config struct {
	Port         int      `toml:"port"`
	Debug        bool     `toml:"debug"`
	MongoURI     string   `toml:"mongo_uri"` // 为空时不启用操作日志持久化
	MongoDB      string   `toml:"mongo_db"`
	JWTKey       string   `toml:"jwt_key"`
	AuthRequired bool     `toml:"auth_required"`
	AllowOrigins []string `toml:"allow_origins"` // 为空时允许任意来源
	MaxUploadMB  int64    `toml:"max_upload_mb"`

	LogRetentionDays int `toml:"log_retention_days"` // 操作日志保留天数，0 表示不清理

	MappingSheetName     string `toml:"mapping_sheet_name"`
	RegulationsSheetName string `toml:"regulations_sheet_name"`
	TopN                 int    `toml:"top_n"`
	SpendYears           []int  `toml:"spend_years"`
	CoercionPolicy       string `toml:"coercion_policy"` // skip | report
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Port:                 3001,
		Debug:                false,
		MongoDB:              "supplier_kpi",
		JWTKey:               "your-secret-key", // 实际环境应替换为安全密钥
		MaxUploadMB:          20,
		LogRetentionDays:     90,
		MappingSheetName:     "Mapping Corrugates",
		RegulationsSheetName: "Global_Packaging_Regulations",
		TopN:                 10,
		SpendYears:           []int{2023, 2024},
		CoercionPolicy:       "skip",
	}
}

// LoadConfig 加载配置：默认值 -> config.toml -> 环境变量
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	path := getEnv("CONFIG_FILE", "config.toml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// 配置文件不存在，使用默认配置
	default:
		return nil, err
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv 环境变量覆盖配置文件
func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("无效的 PORT: %w", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.Debug = v == "debug"
	}
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDB = getEnv("MONGO_DB", cfg.MongoDB)
	cfg.JWTKey = getEnv("JWT_KEY", cfg.JWTKey)
	if v := os.Getenv("AUTH_REQUIRED"); v != "" {
		required, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("无效的 AUTH_REQUIRED: %w", err)
		}
		cfg.AuthRequired = required
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.AllowOrigins = splitList(v)
	}
	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		mb, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("无效的 MAX_UPLOAD_MB: %w", err)
		}
		cfg.MaxUploadMB = mb
	}
	if v := os.Getenv("LOG_RETENTION_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("无效的 LOG_RETENTION_DAYS: %w", err)
		}
		cfg.LogRetentionDays = days
	}
	cfg.MappingSheetName = getEnv("MAPPING_SHEET_NAME", cfg.MappingSheetName)
	cfg.RegulationsSheetName = getEnv("REGULATIONS_SHEET_NAME", cfg.RegulationsSheetName)
	if v := os.Getenv("TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("无效的 TOP_N: %w", err)
		}
		cfg.TopN = n
	}
	if v := os.Getenv("SPEND_YEARS"); v != "" {
		years := make([]int, 0)
		for _, s := range splitList(v) {
			year, err := strconv.Atoi(s)
			if err != nil {
				return fmt.Errorf("无效的 SPEND_YEARS: %w", err)
			}
			years = append(years, year)
		}
		cfg.SpendYears = years
	}
	cfg.CoercionPolicy = getEnv("COERCION_POLICY", cfg.CoercionPolicy)
	return nil
}

// MaxUploadBytes 上传文件大小上限
func (c *Config) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return 0
	}
	return c.MaxUploadMB << 20
}

// MongoEnabled 是否配置了MongoDB
func (c *Config) MongoEnabled() bool {
	return c.MongoURI != ""
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
