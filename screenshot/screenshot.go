// Package screenshot 使用无头浏览器对配置的页面截图
package screenshot

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout 单个页面的截图超时
const DefaultTimeout = 30 * time.Second

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Target 截图目标
type Target struct {
	URL   string
	Label string
}

// Result 单个目标的截图结果
type Result struct {
	Target Target
	File   string
	Err    error
}

// Capturer 抓取页面并返回PNG图片
type Capturer interface {
	Capture(ctx context.Context, url string) ([]byte, error)
}

// Slug 由标签（为空时使用地址）生成文件名片段：转小写，非字母数字的连续字符替换为-，去掉首尾的-。
// 标签不含字母数字时退回到地址
func Slug(label, rawURL string) string {
	if slug := slugify(label); slug != "" {
		return slug
	}
	if slug := slugify(rawURL); slug != "" {
		return slug
	}
	return "page"
}

func slugify(name string) string {
	return strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// FileName 截图文件名
func FileName(target Target) string {
	return "screenshot-" + Slug(target.Label, target.URL) + ".png"
}

// Taker 依次对目标截图，每个目标独立超时，失败不影响其他目标
type Taker struct {
	capturer Capturer
	timeout  time.Duration
	baseURL  string
	logger   logrus.FieldLogger
}

// TakerOption 截图选项
type TakerOption func(*Taker)

// WithTimeout 设置单个目标的超时
func WithTimeout(timeout time.Duration) TakerOption {
	return func(t *Taker) {
		if timeout > 0 {
			t.timeout = timeout
		}
	}
}

// WithBaseURL 设置相对路径目标的基准地址
func WithBaseURL(base string) TakerOption {
	return func(t *Taker) {
		t.baseURL = base
	}
}

// WithLogger 设置日志
func WithLogger(logger logrus.FieldLogger) TakerOption {
	return func(t *Taker) {
		t.logger = logger
	}
}

// NewTaker 创建截图器
func NewTaker(capturer Capturer, options ...TakerOption) *Taker {
	t := &Taker{
		capturer: capturer,
		timeout:  DefaultTimeout,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

// Capture 将截图写入dir，返回每个目标的结果
func (t *Taker) Capture(ctx context.Context, dir string, targets []Target) []Result {
	results := make([]Result, 0, len(targets))
	for _, target := range targets {
		result := Result{Target: target, File: filepath.Join(dir, FileName(target))}
		result.Err = t.captureOne(ctx, target, result.File)
		if result.Err != nil {
			t.logger.Errorf("截图失败 %s: %v", target.URL, result.Err)
		} else {
			t.logger.Infof("已保存截图: %s", result.File)
		}
		results = append(results, result)
	}
	return results
}

func (t *Taker) captureOne(ctx context.Context, target Target, file string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("截图异常: %v", r)
		}
	}()

	address, err := t.resolve(target.URL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	png, err := t.capturer.Capture(ctx, address)
	if err != nil {
		return err
	}
	return os.WriteFile(file, png, 0644)
}

// resolve 将以/开头的路径拼接到基准地址
func (t *Taker) resolve(raw string) (string, error) {
	if !strings.HasPrefix(raw, "/") {
		return raw, nil
	}
	if t.baseURL == "" {
		return "", fmt.Errorf("相对地址%s需要配置app.url", raw)
	}

	base, err := url.Parse(t.baseURL)
	if err != nil {
		return "", fmt.Errorf("无效的app.url: %w", err)
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
