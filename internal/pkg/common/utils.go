package common

import (
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// InPeriod 判斷 ISO 日期（YYYY-MM-DD）是否落在 [start, end] 內
// 空的 start/end 代表該側不設限；ISO 日期字串的字典序即日曆順序
func InPeriod(date, start, end string) bool {
	if start != "" && date < start {
		return false
	}
	if end != "" && date > end {
		return false
	}
	return true
}
