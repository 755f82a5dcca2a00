package utils

import "os"

// MobileEmulateEnv 设为 "1" 时桌面端按移动端的提示与布局运行（本地调试用）
const MobileEmulateEnv = "NEONPULSE_MOBILE_EMULATE"

// IsMobile 是否按移动端运行：-tags mobile 构建，或设置了 MobileEmulateEnv
func IsMobile() bool {
	return mobileBuild || os.Getenv(MobileEmulateEnv) == "1"
}
