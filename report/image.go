package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/disintegration/imaging"
)

// DefaultImageWidth 内联ERD图片的最大宽度（A4横向可打印宽度）
const DefaultImageWidth = 1600

// InlineImage 读取PNG图片，宽度超过maxWidth时等比缩小，返回data URI
func InlineImage(path string, maxWidth int) (template.URL, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("读取ERD图片失败: %w", err)
	}

	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("编码ERD图片失败: %w", err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}
