// Package report 将收集到的数据渲染为HTML文档并转换为PDF
package report

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/zzliekkas/autodoc/migrations"
	"github.com/zzliekkas/autodoc/models"
	"github.com/zzliekkas/autodoc/routes"
	"github.com/zzliekkas/autodoc/schema"
	"github.com/zzliekkas/autodoc/stats"
)

// 输出文件名
const (
	HTMLFile = "docs.html"
	PDFFile  = "docs.pdf"
)

// ErrTemplate 模板渲染失败
var ErrTemplate = errors.New("文档模板渲染失败")

//go:embed templates/report.html
var templates embed.FS

var reportTemplate = template.Must(
	template.New("report.html").Funcs(funcs).ParseFS(templates, "templates/report.html"),
)

// Data 文档模板的数据
type Data struct {
	GeneratedAt      time.Time
	FrameworkVersion string
	RuntimeVersion   string
	Environment      string
	URL              string
	Timezone         string

	Routes      []routes.Route
	Controllers map[string]*routes.Controller
	Models      map[string]*models.Model
	Migrations  []migrations.Migration
	Configs     map[string]interface{}
	Policies    map[string]string
	Stats       stats.Stats
	Schema      map[string]*schema.Table

	// ERD图片在文档中的显示路径
	ERDPath string
	// 内联的ERD图片，为空时只显示路径
	ERDImage template.URL
}

// Render 渲染HTML文档
func Render(data Data) ([]byte, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return buf.Bytes(), nil
}

// Write 渲染HTML文档并写入dir/docs.html，返回文件路径
func Write(dir string, data Data) (string, error) {
	html, err := Render(data)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, HTMLFile)
	if err := os.WriteFile(path, html, 0644); err != nil {
		return "", fmt.Errorf("写入HTML文档失败: %w", err)
	}
	return path, nil
}
