// Package browser 定位本机的Chrome/Chromium并创建chromedp会话
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/chromedp/chromedp"
)

// ErrUnavailable 未检测到可用的无头浏览器
var ErrUnavailable = errors.New("未检测到可用的无头浏览器")

// candidates PATH中可能的浏览器命令
var candidates = []string{
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"chrome",
	"msedge",
}

// lookPath 便于测试替换
var lookPath = exec.LookPath

// Locate 返回浏览器可执行文件路径。configured非空时只检查该路径
func Locate(configured string) (string, error) {
	if configured != "" {
		if info, err := os.Stat(configured); err == nil && !info.IsDir() {
			return configured, nil
		}
		if path, err := lookPath(configured); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("%w: %s", ErrUnavailable, configured)
	}

	for _, name := range candidates {
		if path, err := lookPath(name); err == nil {
			return path, nil
		}
	}

	if runtime.GOOS == "darwin" {
		const mac = "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
		if _, err := os.Stat(mac); err == nil {
			return mac, nil
		}
	}
	return "", ErrUnavailable
}

// New 启动无头浏览器并返回会话上下文，调用cancel关闭浏览器
func New(ctx context.Context, execPath string) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	return browserCtx, func() {
		cancelBrowser()
		cancelAlloc()
	}
}
