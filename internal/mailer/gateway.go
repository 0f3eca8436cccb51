package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrGatewaySend 外部网关发送失败
var ErrGatewaySend = errors.New("gateway send failed")

// Message 发往邮件网关的单条消息
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
	From    string `json:"from"`
}

// Sender 邮件发送端抽象，便于测试替换网关。
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// GatewayConfig 邮件网关客户端配置
type GatewayConfig struct {
	BaseURL    string        // 网关基础地址
	Timeout    time.Duration // 单次请求超时
	RateLimit  int           // 每秒最大发送数，<=0 表示不限速
	RateBurst  int           // 突发额度，默认与 RateLimit 相同
}

// GatewayClient 外部邮件网关的 HTTP 客户端
//
// 网关被视为不透明协作方：每个收件人一次
// POST {base}/email/send-email-job，非 2xx 即为该收件人发送失败。
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

// NewGatewayClient 创建邮件网关客户端。
func NewGatewayClient(cfg GatewayConfig, log *zap.Logger) *GatewayClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = cfg.RateLimit
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &GatewayClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		log:        log,
	}
}

// Send 发送单条消息。
//
// 配置了限速时会先等待令牌；上下文取消与网络错误、非 2xx 响应
// 均包装为 ErrGatewaySend 返回。
func (c *GatewayClient) Send(ctx context.Context, msg Message) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrGatewaySend, err)
		}
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", ErrGatewaySend, err)
	}

	url := c.baseURL + "/email/send-email-job"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrGatewaySend, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("gateway request failed",
			zap.String("to", msg.To),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrGatewaySend, err)
	}
	defer resp.Body.Close()

	// 消费响应体以复用连接
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("gateway rejected send",
			zap.String("to", msg.To),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", time.Since(start)),
		)
		return fmt.Errorf("%w: unexpected status %d", ErrGatewaySend, resp.StatusCode)
	}

	c.log.Debug("gateway send ok",
		zap.String("to", msg.To),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}
