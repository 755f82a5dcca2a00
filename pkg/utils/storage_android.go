//go:build android

package utils

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
)

// EnsureStorageDir 在 gdata 打开前准备应用私有目录 /data/data/{package}/{appName}
//
// gdata 不会预先创建该目录；这里顺便写入一个探测文件确认可写，返回目录路径。
func EnsureStorageDir(appName string) (string, error) {
	pkg, err := androidPackage()
	if err != nil {
		return "", fmt.Errorf("failed to detect Android package: %w", err)
	}

	dir := filepath.Join("/data/data", pkg, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage dir %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return "", fmt.Errorf("storage dir %s is not writable: %w", dir, err)
	}
	_ = os.Remove(probe)
	return dir, nil
}

// androidPackage 从 /proc/self/cmdline 读取进程名，即应用包名
func androidPackage() (string, error) {
	data, err := os.ReadFile("/proc/self/cmdline")
	if err != nil {
		return "", err
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	name := string(bytes.TrimSpace(data))
	if name == "" {
		return "", fmt.Errorf("empty /proc/self/cmdline")
	}
	return name, nil
}
