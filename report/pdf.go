package report

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/zzliekkas/autodoc/browser"
)

// A4纸张尺寸（英寸），横向
const (
	a4Long  = 11.69
	a4Short = 8.27
)

// ErrPDF PDF转换失败
var ErrPDF = errors.New("PDF转换失败")

// PDFConverter 将HTML文件转换为PDF
type PDFConverter interface {
	Convert(ctx context.Context, htmlPath, pdfPath string) error
}

// ChromePDF 使用无头Chrome打印PDF，A4横向并保留背景
type ChromePDF struct {
	execPath string
	timeout  time.Duration
}

// NewChromePDF 创建PDF转换器，execPath为空时自动定位浏览器
func NewChromePDF(execPath string, timeout time.Duration) *ChromePDF {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &ChromePDF{execPath: execPath, timeout: timeout}
}

// Convert 实现PDFConverter接口
func (c *ChromePDF) Convert(ctx context.Context, htmlPath, pdfPath string) error {
	execPath, err := browser.Locate(c.execPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDF, err)
	}

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDF, err)
	}
	target := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	bctx, closeBrowser := browser.New(ctx, execPath)
	defer closeBrowser()

	var pdf []byte
	err = chromedp.Run(bctx,
		chromedp.Navigate(target.String()),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithLandscape(true).
				WithPrintBackground(true).
				WithPaperWidth(a4Short).
				WithPaperHeight(a4Long).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPDF, err)
	}

	if err := os.WriteFile(pdfPath, pdf, 0644); err != nil {
		return fmt.Errorf("写入PDF失败: %w", err)
	}
	return nil
}
