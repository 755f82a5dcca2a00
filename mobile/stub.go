//go:build !mobile

// Package mobile 是 ebitenmobile 绑定入口，真正的初始化在 mobile.go（-tags mobile）。
package mobile

// Dummy 让包在桌面构建时也有导出符号
func Dummy() {}
