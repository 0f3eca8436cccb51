package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	// 保存原始环境变量
	originalEnvs := make(map[string]string)
	envKeys := []string{
		"CHATTFLOW_SERVER_HOST",
		"CHATTFLOW_SERVER_PORT",
		"CHATTFLOW_CORS_ALLOWED_ORIGINS",
		"CHATTFLOW_LOG_LEVEL",
		"CHATTFLOW_LOG_DEVELOPMENT",
		"CHATTFLOW_GATEWAY_BASE_URL",
		"CHATTFLOW_GATEWAY_TIMEOUT",
		"CHATTFLOW_GATEWAY_RATE_LIMIT",
		"CHATTFLOW_GATEWAY_BROADCAST_FROM",
		"CHATTFLOW_GATEWAY_DIRECT_FROM",
		"CHATTFLOW_BROADCAST_WORKERS",
		"CHATTFLOW_REDIS_ENABLED",
	}

	for _, key := range envKeys {
		originalEnvs[key] = os.Getenv(key)
	}

	// 测试后恢复环境变量
	defer func() {
		for key, value := range originalEnvs {
			if value == "" {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, value)
			}
		}
	}()

	t.Run("加载默认配置成功", func(t *testing.T) {
		// 清除所有环境变量
		for _, key := range envKeys {
			os.Unsetenv(key)
		}

		// 设置必需的网关地址
		os.Setenv("CHATTFLOW_GATEWAY_BASE_URL", "http://gateway.local:4000")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.NotNil(t, cfg)

		// 验证默认值
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.False(t, cfg.Log.Development)
		assert.Equal(t, "", cfg.Database.Type)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.Address)
		assert.Equal(t, "http://gateway.local:4000", cfg.Gateway.BaseURL)
		assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
		assert.Equal(t, 0, cfg.Gateway.RateLimit)
		assert.Equal(t, "support@chattflow.com", cfg.Gateway.BroadcastFrom)
		assert.Equal(t, "business@chattflow.com", cfg.Gateway.DirectFrom)
		assert.Equal(t, 8, cfg.Broadcast.Workers)
	})

	t.Run("加载自定义配置成功", func(t *testing.T) {
		os.Setenv("CHATTFLOW_GATEWAY_BASE_URL", "https://mail.example.com/")
		os.Setenv("CHATTFLOW_SERVER_HOST", "127.0.0.1")
		os.Setenv("CHATTFLOW_SERVER_PORT", "9090")
		os.Setenv("CHATTFLOW_CORS_ALLOWED_ORIGINS", "https://admin.example.com, https://app.example.com")
		os.Setenv("CHATTFLOW_LOG_LEVEL", "debug")
		os.Setenv("CHATTFLOW_GATEWAY_TIMEOUT", "5s")
		os.Setenv("CHATTFLOW_GATEWAY_RATE_LIMIT", "50")
		os.Setenv("CHATTFLOW_GATEWAY_BROADCAST_FROM", "news@example.com")
		os.Setenv("CHATTFLOW_BROADCAST_WORKERS", "16")
		os.Setenv("CHATTFLOW_REDIS_ENABLED", "true")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, "127.0.0.1", cfg.Server.Host)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, []string{"https://admin.example.com", "https://app.example.com"}, cfg.CORS.AllowedOrigins)
		assert.Equal(t, "debug", cfg.Log.Level)
		// 末尾斜杠被归一化去除
		assert.Equal(t, "https://mail.example.com", cfg.Gateway.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
		assert.Equal(t, 50, cfg.Gateway.RateLimit)
		assert.Equal(t, "news@example.com", cfg.Gateway.BroadcastFrom)
		assert.Equal(t, 16, cfg.Broadcast.Workers)
		assert.True(t, cfg.Redis.Enabled)
	})

	t.Run("缺少网关地址时返回错误", func(t *testing.T) {
		for _, key := range envKeys {
			os.Unsetenv(key)
		}

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "gateway.base_url")
	})

	t.Run("非法网关超时返回错误", func(t *testing.T) {
		os.Setenv("CHATTFLOW_GATEWAY_BASE_URL", "http://gateway.local:4000")
		os.Setenv("CHATTFLOW_GATEWAY_TIMEOUT", "not-a-duration")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)

		os.Unsetenv("CHATTFLOW_GATEWAY_TIMEOUT")
	})
}
