// Package analytics 可选的匿名埋点上报
// 上报目标为 Supabase PostgREST，未配置时所有调用为静默 no-op
package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2ta/recall/pkg/logger"

	"go.uber.org/zap"
)

const (
	// EventWaitlistSignup 候补名单注册事件，额外落一张专用表便于导出
	EventWaitlistSignup = "waitlist_signup"
)

// Config 上报配置，URL 为空表示禁用
type Config struct {
	URL     string
	AnonKey string
	Timeout time.Duration
}

// Client 埋点客户端，所有失败都被吞掉，只记录诊断日志
type Client struct {
	cfg        Config
	deviceID   string
	httpClient *http.Client
	logger     *zap.Logger
}

// Event 单条埋点事件
type Event struct {
	EventName string         `json:"event_name"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp string         `json:"timestamp"`
	DeviceID  string         `json:"device_id"`
}

type waitlistRecord struct {
	Email    string `json:"email"`
	Feature  string `json:"feature"`
	DeviceID string `json:"device_id"`
}

func NewClient(cfg Config, deviceID string, lg *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if deviceID == "" {
		deviceID = "unknown"
	}
	return &Client{
		cfg:        cfg,
		deviceID:   deviceID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     lg,
	}
}

// IsConfigured 是否配置了上报地址
func (c *Client) IsConfigured() bool {
	return c.cfg.URL != "" && c.cfg.AnonKey != ""
}

// TrackEvent 上报一条事件，永不返回错误
func (c *Client) TrackEvent(ctx context.Context, eventName string, metadata map[string]any) {
	if metadata == nil {
		metadata = map[string]any{}
	}

	c.logger.Debug("analytics event",
		zap.String(logger.FieldEvent, eventName),
		zap.Any("metadata", metadata))

	if !c.IsConfigured() {
		return
	}

	event := Event{
		EventName: eventName,
		Metadata:  metadata,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DeviceID:  c.deviceID,
	}
	if err := c.insert(ctx, "analytics_events", []Event{event}); err != nil {
		c.logger.Debug("analytics insert failed",
			zap.String(logger.FieldEvent, eventName),
			zap.Error(err))
		return
	}

	if eventName == EventWaitlistSignup {
		record := waitlistRecord{DeviceID: c.deviceID}
		if email, ok := metadata["email"].(string); ok {
			record.Email = email
		}
		if feature, ok := metadata["feature"].(string); ok {
			record.Feature = feature
		}
		if err := c.insert(ctx, "waitlist", []waitlistRecord{record}); err != nil {
			c.logger.Debug("waitlist insert failed", zap.Error(err))
		}
	}
}

func (c *Client) insert(ctx context.Context, table string, rows any) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/rest/v1/%s", c.cfg.URL, table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.cfg.AnonKey)
	req.Header.Set("Authorization", "Bearer "+c.cfg.AnonKey)
	req.Header.Set("Prefer", "return=minimal")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("analytics: unexpected status %d", resp.StatusCode)
	}
	return nil
}
