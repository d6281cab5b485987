package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 全局配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Mongo  MongoConfig  `yaml:"mongo"`
	Auth   AuthConfig   `yaml:"auth"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig HTTP Server 配置
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"`
}

// GetAddr 获取 HTTP Server 监听地址
func (s *ServerConfig) GetAddr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// MongoConfig MongoDB 配置
type MongoConfig struct {
	URI            string `yaml:"uri"`
	Database       string `yaml:"database"`
	MaxPoolSize    uint64 `yaml:"max_pool_size"`
	ConnectTimeout int    `yaml:"connect_timeout"` // 秒
}

// GetConnectTimeout 获取连接超时时间
func (m *MongoConfig) GetConnectTimeout() time.Duration {
	if m.ConnectTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.ConnectTimeout) * time.Second
}

// AuthConfig 认证配置
type AuthConfig struct {
	// Secret Token签名密钥，通常由环境变量 SECRET_KEY 注入
	Secret string `yaml:"secret"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `yaml:"level"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

var globalConfig *Config

// Load 加载配置文件，并应用环境变量覆盖
//
// 支持的环境变量（优先级高于配置文件）：
//   - MONGO_URI  数据库连接字符串
//   - SECRET_KEY Token签名密钥
//   - PORT       HTTP监听端口
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	applyEnvOverrides(&config)

	globalConfig = &config
	return &config, nil
}

// applyEnvOverrides 应用环境变量覆盖
func applyEnvOverrides(config *Config) {
	if uri := os.Getenv("MONGO_URI"); uri != "" {
		config.Mongo.URI = uri
	}
	if secret := os.Getenv("SECRET_KEY"); secret != "" {
		config.Auth.Secret = secret
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
}

// Get 获取全局配置
func Get() *Config {
	if globalConfig == nil {
		panic("配置未初始化，请先调用 Load()")
	}
	return globalConfig
}
