package game

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// EncodeRGBA 把 ReadPixels 得到的 RGBA 像素编码为 PNG
func EncodeRGBA(w io.Writer, pix []byte, width, height int) error {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return fmt.Errorf("pixel buffer size %d does not match %dx%d", len(pix), width, height)
	}
	img := &image.RGBA{Pix: pix, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SnapshotName 按时间生成文件名
func SnapshotName(t time.Time) string {
	return "neonpulse-" + t.Format("20060102-150405.000") + ".png"
}

// SaveSnapshot 把画布保存为 PNG，返回文件路径
//
// 必须在 Draw 中调用，ReadPixels 在 Update 中不可用。
func SaveSnapshot(img *ebiten.Image, dir string, t time.Time) (string, error) {
	b := img.Bounds()
	pix := make([]byte, 4*b.Dx()*b.Dy())
	img.ReadPixels(pix)

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	path := filepath.Join(dir, SnapshotName(t))
	if err := WriteSnapshot(path, pix, b.Dx(), b.Dy()); err != nil {
		return "", err
	}
	log.Printf("[Snapshot] Saved %s", path)
	return path, nil
}

// WriteSnapshot 把 RGBA 像素编码为 PNG 写入 path
//
// 编码或关闭文件失败时删除写了一半的文件并返回错误。
func WriteSnapshot(path string, pix []byte, width, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := EncodeRGBA(f, pix, width, height); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close snapshot %s: %w", path, err)
	}
	return nil
}
