package config

import (
	"os"
	"testing"
	"time"
)

// TestLoad 测试加载配置文件
func TestLoad(t *testing.T) {
	cfg, err := Load("config.yaml")
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	// 验证服务器配置
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host 期望 '0.0.0.0', 实际 '%s'", cfg.Server.Host)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port 期望 5000, 实际 %d", cfg.Server.Port)
	}

	// 验证Mongo配置
	if cfg.Mongo.Database != "userhub" {
		t.Errorf("Mongo.Database 期望 'userhub', 实际 '%s'", cfg.Mongo.Database)
	}
	if cfg.Mongo.MaxPoolSize != 100 {
		t.Errorf("Mongo.MaxPoolSize 期望 100, 实际 %d", cfg.Mongo.MaxPoolSize)
	}

	// 验证日志配置
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level 期望 'debug', 实际 '%s'", cfg.Log.Level)
	}
}

// TestLoadFileNotExist 测试加载不存在的配置文件
func TestLoadFileNotExist(t *testing.T) {
	_, err := Load("not_exist.yaml")
	if err == nil {
		t.Error("期望返回错误，但没有返回")
	}
}

// TestLoadInvalidYAML 测试加载无效的YAML文件
func TestLoadInvalidYAML(t *testing.T) {
	invalidYAML := `
server:
  host: "localhost"
  port: invalid_port  # 这是无效的
`
	tmpFile, err := os.CreateTemp("", "invalid_*.yaml")
	if err != nil {
		t.Fatalf("创建临时文件失败: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(invalidYAML); err != nil {
		t.Fatalf("写入临时文件失败: %v", err)
	}
	tmpFile.Close()

	_, err = Load(tmpFile.Name())
	if err == nil {
		t.Error("期望返回错误，但没有返回")
	}
}

// TestEnvOverrides 测试环境变量覆盖配置文件
func TestEnvOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://override:27017")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("PORT", "9000")

	cfg, err := Load("config.yaml")
	if err != nil {
		t.Fatalf("加载配置失败: %v", err)
	}

	if cfg.Mongo.URI != "mongodb://override:27017" {
		t.Errorf("Mongo.URI 期望被 MONGO_URI 覆盖, 实际 '%s'", cfg.Mongo.URI)
	}
	if cfg.Auth.Secret != "env-secret" {
		t.Errorf("Auth.Secret 期望被 SECRET_KEY 覆盖, 实际 '%s'", cfg.Auth.Secret)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port 期望被 PORT 覆盖为 9000, 实际 %d", cfg.Server.Port)
	}
}

// TestServerGetAddr 测试获取监听地址
func TestServerGetAddr(t *testing.T) {
	serverConfig := ServerConfig{
		Host: "127.0.0.1",
		Port: 5000,
	}

	expectedAddr := "127.0.0.1:5000"
	actualAddr := serverConfig.GetAddr()

	if actualAddr != expectedAddr {
		t.Errorf("监听地址不匹配\n期望: %s\n实际: %s", expectedAddr, actualAddr)
	}
}

// TestMongoGetConnectTimeout 测试获取Mongo连接超时
func TestMongoGetConnectTimeout(t *testing.T) {
	mongoConfig := MongoConfig{ConnectTimeout: 5}
	if mongoConfig.GetConnectTimeout() != 5*time.Second {
		t.Errorf("ConnectTimeout 期望 5s, 实际 %v", mongoConfig.GetConnectTimeout())
	}

	// 未配置时使用默认值
	mongoConfig = MongoConfig{}
	if mongoConfig.GetConnectTimeout() != 10*time.Second {
		t.Errorf("ConnectTimeout 默认值期望 10s, 实际 %v", mongoConfig.GetConnectTimeout())
	}
}

// TestGetGlobalConfig 测试全局配置
func TestGetGlobalConfig(t *testing.T) {
	// 重置全局配置
	globalConfig = nil

	// 测试未初始化时获取配置应该panic
	defer func() {
		if r := recover(); r == nil {
			t.Error("期望panic，但没有发生")
		}
	}()

	Get()
}
