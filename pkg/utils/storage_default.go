//go:build !android

package utils

// EnsureStorageDir 桌面端由 gdata 自行创建目录，返回空路径
func EnsureStorageDir(appName string) (string, error) {
	return "", nil
}
