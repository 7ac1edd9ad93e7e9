package domain

import "github.com/pkg/errors"

var (
	// ErrNothingToExport 选定时间段内没有任何日志
	ErrNothingToExport = errors.New("no logs in selected period")
	// ErrNothingToReport 选定时间段内没有可供生成报告的日志
	ErrNothingToReport = errors.New("no logs to report on")
)
