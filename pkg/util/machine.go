package util

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
)

// GetDeviceID 获取匿名设备标识
// 优先使用 machineid 库（按应用加盐），失败则退化为随机 UUID
// 不做缓存，App 容器在启动时取一次并持有
func GetDeviceID(appID string) string {
	if id, err := machineid.ProtectedID(appID); err == nil && id != "" {
		return id
	}
	return uuid.New().String()
}
