package game

import (
	"log"

	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/neonpulse/pkg/utils"
)

// AppName gdata 存储使用的应用名
const AppName = "neonpulse"

// OpenStorage 打开跨平台存储
//
// 失败时返回 nil，设置与会话历史进入仅内存的降级模式。
func OpenStorage(appName string) *gdata.Manager {
	dir, err := utils.EnsureStorageDir(appName)
	if err != nil {
		log.Printf("[Storage] Warning: %v (storage disabled)", err)
		return nil
	}
	if dir != "" {
		log.Printf("[Storage] Using %s", dir)
	}
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[Storage] Warning: Failed to open gdata: %v (storage disabled)", err)
		return nil
	}
	log.Printf("[Storage] Opened storage for %s", appName)
	return m
}
