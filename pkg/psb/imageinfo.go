package psb

import (
	"bytes"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// ErrNotEncodedImage はペイロードが既知の画像形式ではないことを示します
var ErrNotEncodedImage = errors.New("ペイロードは既知の画像形式ではありません")

// DecodeConfig はペイロードがPNG/JPEG/BMPの場合にその形式と寸法を返します
//
// ピクセルはデコードしません。
func (m *ImageMetadata) DecodeConfig() (image.Config, string, error) {
	data := m.Data()
	if len(data) == 0 {
		return image.Config{}, "", ErrNotEncodedImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return image.Config{}, "", ErrNotEncodedImage
		}
		return image.Config{}, "", err
	}
	return cfg, format, nil
}

// Size は幅と高さを返します
//
// メタデータに寸法が無い場合はペイロードのヘッダーから読み取ります。
func (m *ImageMetadata) Size() (width, height int) {
	if m.Width > 0 && m.Height > 0 {
		return m.Width, m.Height
	}
	cfg, _, err := m.DecodeConfig()
	if err != nil {
		return m.Width, m.Height
	}
	return cfg.Width, cfg.Height
}
