package diagram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// DefaultTimeout 渲染超时时间
const DefaultTimeout = 2 * time.Minute

// 渲染错误
var (
	// ErrJarNotFound PlantUML jar不存在
	ErrJarNotFound = errors.New("未找到PlantUML jar")
	// ErrTimeout 渲染超时
	ErrTimeout = errors.New("PlantUML渲染超时")
	// ErrNoOutput 命令成功但未生成图片
	ErrNoOutput = errors.New("PlantUML未生成图片")
)

// RenderError 渲染失败的详细信息
type RenderError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

// Error 实现error接口
func (e *RenderError) Error() string {
	msg := fmt.Sprintf("生成ERD图片失败 (命令: %s): %v", e.Command, e.Err)
	if e.ExitCode > 0 {
		msg += fmt.Sprintf(" (退出码 %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Unwrap 返回底层错误
func (e *RenderError) Unwrap() error {
	return e.Err
}

// Renderer 调用 java -jar plantuml.jar -tpng 渲染图片
type Renderer struct {
	// PlantUML jar路径
	jar string
	// 显式指定的java命令
	java string
	// 随项目分发的java运行时，存在时优先使用
	bundledJava string
	// 超时时间
	timeout time.Duration
}

// RendererOption 渲染器选项
type RendererOption func(*Renderer)

// WithJava 指定java命令
func WithJava(java string) RendererOption {
	return func(r *Renderer) {
		r.java = java
	}
}

// WithBundledJava 指定随项目分发的java运行时路径（不含.exe后缀）
func WithBundledJava(path string) RendererOption {
	return func(r *Renderer) {
		r.bundledJava = path
	}
}

// WithTimeout 设置渲染超时
func WithTimeout(timeout time.Duration) RendererOption {
	return func(r *Renderer) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// NewRenderer 创建渲染器
func NewRenderer(jar string, options ...RendererOption) *Renderer {
	r := &Renderer{jar: jar, timeout: DefaultTimeout}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Java 返回实际使用的java命令：显式指定 > 分发的运行时 > PATH中的java
func (r *Renderer) Java() string {
	if r.java != "" {
		return r.java
	}
	if r.bundledJava != "" {
		bundled := r.bundledJava
		if runtime.GOOS == "windows" && !strings.HasSuffix(bundled, ".exe") {
			bundled += ".exe"
		}
		if info, err := os.Stat(bundled); err == nil && !info.IsDir() {
			return bundled
		}
	}
	return "java"
}

// Render 渲染source对应的PNG图片，返回图片路径。失败时返回*RenderError
func (r *Renderer) Render(ctx context.Context, source string) (string, error) {
	java := r.Java()
	args := []string{"-jar", r.jar, "-tpng", source}
	command := strings.Join(append([]string{java}, args...), " ")

	if _, err := os.Stat(r.jar); err != nil {
		return "", &RenderError{Command: command, Err: fmt.Errorf("%w: %s", ErrJarNotFound, r.jar)}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, java, args...)
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		rerr := &RenderError{Command: command, Stderr: strings.TrimSpace(stderr.String()), Err: err}
		if ctx.Err() == context.DeadlineExceeded {
			rerr.Err = fmt.Errorf("%w (%s)", ErrTimeout, r.timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			rerr.ExitCode = exitErr.ExitCode()
		}
		return "", rerr
	}

	image := strings.TrimSuffix(source, filepath.Ext(source)) + ".png"
	if _, err := os.Stat(image); err != nil {
		return "", &RenderError{Command: command, Stderr: strings.TrimSpace(stderr.String()), Err: ErrNoOutput}
	}
	return image, nil
}
