package screenshot

import (
	"context"

	"github.com/chromedp/chromedp"
	"github.com/zzliekkas/autodoc/browser"
)

// Chrome 基于chromedp的整页截图，每次截图启动独立的浏览器进程
type Chrome struct {
	execPath string
}

// NewChrome 创建截图器，execPath为浏览器可执行文件
func NewChrome(execPath string) *Chrome {
	return &Chrome{execPath: execPath}
}

// Capture 实现Capturer接口
func (c *Chrome) Capture(ctx context.Context, url string) ([]byte, error) {
	bctx, cancel := browser.New(ctx, c.execPath)
	defer cancel()

	var png []byte
	if err := chromedp.Run(bctx,
		chromedp.Navigate(url),
		chromedp.FullScreenshot(&png, 100),
	); err != nil {
		return nil, err
	}
	return png, nil
}
