// Package notifier 向本机通知代理推送提醒
// 通知代理（托盘程序或浏览器端）暴露一个本地 webhook，收到 POST 后弹出系统通知
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Config 通知代理配置，URL 为空表示本机没有可用的通知通道
type Config struct {
	URL     string
	Secret  string
	Timeout time.Duration
}

// Notification 一条本地通知
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
}

// Notifier 通知发送器
type Notifier struct {
	cfg        Config
	httpClient *http.Client
}

var ErrNotConfigured = errors.New("notifier: webhook url not configured")

func New(cfg Config) *Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Notifier{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// IsConfigured 是否配置了通知通道
func (n *Notifier) IsConfigured() bool {
	return n.cfg.URL != ""
}

// Notify 推送一条通知
// 单条通知失败不致命，调用方记录日志后继续
func (n *Notifier) Notify(ctx context.Context, notification Notification) error {
	if !n.IsConfigured() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if n.cfg.Secret != "" {
		req.Header.Set("X-Recall-Secret", n.cfg.Secret)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notifier: unexpected status %d", resp.StatusCode)
	}
	return nil
}
