package autodoc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/zzliekkas/autodoc/browser"
	"github.com/zzliekkas/autodoc/config"
	"github.com/zzliekkas/autodoc/db"
	"github.com/zzliekkas/autodoc/diagram"
	"github.com/zzliekkas/autodoc/manifest"
	"github.com/zzliekkas/autodoc/migrations"
	"github.com/zzliekkas/autodoc/models"
	"github.com/zzliekkas/autodoc/policy"
	"github.com/zzliekkas/autodoc/publish"
	"github.com/zzliekkas/autodoc/report"
	"github.com/zzliekkas/autodoc/routes"
	"github.com/zzliekkas/autodoc/schema"
	"github.com/zzliekkas/autodoc/screenshot"
	"github.com/zzliekkas/autodoc/stats"
)

// Result 一次生成收集到的数据和产物
type Result struct {
	OutputDir string

	Routes      []routes.Route
	Controllers map[string]*routes.Controller
	Models      map[string]*models.Model
	Migrations  []migrations.Migration
	Configs     map[string]interface{}
	Policies    map[string]string
	Packages    []string
	Stats       stats.Stats
	Schema      map[string]*schema.Table

	// 产物路径，未生成的为空
	DiagramSource string
	DiagramImage  string
	HTML          string
	PDF           string
	Screenshots   []screenshot.Result
	Published     []string

	// 不影响文档生成的错误
	Warnings []*StepError
}

// Files 返回已生成的产物文件
func (r *Result) Files() []string {
	files := make([]string, 0, 4+len(r.Screenshots))
	for _, f := range []string{r.DiagramSource, r.DiagramImage, r.HTML, r.PDF} {
		if f != "" {
			files = append(files, f)
		}
	}
	for _, s := range r.Screenshots {
		if s.Err == nil {
			files = append(files, s.File)
		}
	}
	return files
}

// Generate 依次收集数据、生成实体关系图、渲染HTML和PDF，然后按需截图和上传。
// 只有输出目录、HTML和PDF失败会返回错误，其余失败记录在Result.Warnings中
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	out := g.settings.OutputPath
	if out == "" {
		out = filepath.Join(g.sources.Root, config.DefaultOutputDir)
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return nil, stepError(StepOutput, fmt.Errorf("创建输出目录失败: %w", err))
	}

	res := &Result{OutputDir: out}
	g.gather(ctx, res)
	g.renderDiagram(ctx, res)

	if err := g.writeReport(ctx, res); err != nil {
		return res, err
	}

	g.takeScreenshots(ctx, res)
	g.publish(ctx, res)

	g.logger.Infof("文档已生成: %s", res.PDF)
	return res, nil
}

// gather 运行所有读取器，模型只读取一次
func (g *Generator) gather(ctx context.Context, res *Result) {
	src := g.sources

	g.logger.Info("正在读取路由和控制器")
	res.Routes = routes.Gather(src.Routes)
	res.Controllers = routes.GatherControllers(res.Routes, src.Controllers, g.settings.ControllerNamespace)

	g.logger.Info("正在读取模型")
	reader := models.NewReader(src.FS, src.Root, src.Models,
		models.WithPaths(g.settings.ModelPaths...),
		models.WithLogger(g.logger),
	)
	res.Models = reader.Gather(ctx)

	g.logger.Info("正在读取迁移、配置、策略和依赖包")
	res.Migrations = migrations.Gather(src.FS, filepath.Join(src.Root, migrations.DefaultDir))
	migrations.AttachBatches(ctx, src.DB, res.Migrations, g.logger)
	res.Configs = config.Snapshot(src.Config)
	res.Policies = policy.Read(src.Policies)
	res.Packages = manifest.Packages(src.FS, filepath.Join(src.Root, manifest.DefaultFile))

	g.logger.Info("正在统计")
	driver, database := g.connection()
	res.Stats = stats.Compute(stats.Input{
		Routes:      res.Routes,
		Controllers: len(res.Controllers),
		Models:      res.Models,
		Migrations:  len(res.Migrations),
		Packages:    len(res.Packages),
		LinesOfCode: stats.CountLines(src.FS, src.Root, g.settings.LOCPaths, stats.DefaultExtensions),
		Driver:      driver,
		Database:    database,
	})

	g.logger.Info("正在读取数据库结构")
	res.Schema = schema.Read(ctx, src.DB, g.logger)
	schema.Merge(res.Schema, res.Models)
}

// connection 返回当前数据库连接的驱动和库名，优先使用配置
func (g *Generator) connection() (driver, database string) {
	if cfg, err := db.FromConfig(g.sources.Config); err == nil {
		driver, database = cfg.Driver, cfg.Database
	}
	if driver == "" && g.sources.DB != nil && g.sources.DB.Dialector != nil {
		driver = g.sources.DB.Dialector.Name()
	}
	return driver, database
}

// renderDiagram 写入PlantUML描述文件并渲染图片，失败不影响后续步骤
func (g *Generator) renderDiagram(ctx context.Context, res *Result) {
	g.logger.Info("正在生成实体关系图")

	source := filepath.Join(res.OutputDir, diagram.SourceFile)
	if err := os.WriteFile(source, []byte(diagram.PlantUML(res.Models)), 0644); err != nil {
		g.warn(res, StepDiagram, fmt.Errorf("写入%s失败: %w", diagram.SourceFile, err))
		return
	}
	res.DiagramSource = source

	image, err := g.renderer.Render(ctx, source)
	if err != nil {
		g.warn(res, StepDiagram, err)
		return
	}
	res.DiagramImage = image
}

// writeReport 渲染HTML并转换为PDF
func (g *Generator) writeReport(ctx context.Context, res *Result) error {
	cfg := g.sources.Config
	data := report.Data{
		GeneratedAt:      g.now(),
		FrameworkVersion: gin.Version,
		RuntimeVersion:   runtime.Version(),
		Environment:      cfg.GetString("app.env"),
		URL:              cfg.GetString("app.url"),
		Timezone:         cfg.GetString("app.timezone"),
		Routes:           res.Routes,
		Controllers:      res.Controllers,
		Models:           res.Models,
		Migrations:       res.Migrations,
		Configs:          res.Configs,
		Policies:         res.Policies,
		Stats:            res.Stats,
		Schema:           res.Schema,
		ERDPath:          filepath.Join(res.OutputDir, diagram.ImageFile),
	}
	if res.DiagramImage != "" {
		image, err := report.InlineImage(res.DiagramImage, report.DefaultImageWidth)
		if err != nil {
			g.warn(res, StepImage, err)
		}
		data.ERDImage = image
	}

	g.logger.Info("正在渲染HTML文档")
	html, err := report.Write(res.OutputDir, data)
	if err != nil {
		return stepError(StepReport, err)
	}
	res.HTML = html

	g.logger.Info("正在生成PDF文档")
	pdf := filepath.Join(res.OutputDir, report.PDFFile)
	if err := g.pdf.Convert(ctx, html, pdf); err != nil {
		return stepError(StepPDF, err)
	}
	res.PDF = pdf
	return nil
}

// takeScreenshots 在命令行参数或配置开启时截图，没有可用浏览器时跳过
func (g *Generator) takeScreenshots(ctx context.Context, res *Result) {
	if !g.screenshots && !g.settings.TakeScreenshots {
		return
	}
	if len(g.settings.ScreenshotURLs) == 0 {
		g.logger.Info("未配置截图地址，跳过截图")
		return
	}

	capturer := g.capturer
	if capturer == nil {
		execPath, err := browser.Locate(g.chromePath)
		if err != nil {
			g.warn(res, StepScreenshot, fmt.Errorf("跳过截图: %w", err))
			return
		}
		capturer = screenshot.NewChrome(execPath)
	}

	targets := make([]screenshot.Target, 0, len(g.settings.ScreenshotURLs))
	for _, t := range g.settings.ScreenshotURLs {
		targets = append(targets, screenshot.Target{URL: t.URL, Label: t.Label})
	}

	g.logger.Infof("正在截取%d个页面", len(targets))
	taker := screenshot.NewTaker(capturer,
		screenshot.WithTimeout(g.settings.ScreenshotTimeout),
		screenshot.WithBaseURL(g.sources.Config.GetString("app.url")),
		screenshot.WithLogger(g.logger),
	)
	res.Screenshots = taker.Capture(ctx, res.OutputDir, targets)
	for _, r := range res.Screenshots {
		if r.Err != nil {
			res.Warnings = append(res.Warnings, stepError(StepScreenshot, fmt.Errorf("%s: %w", r.Target.URL, r.Err)))
		}
	}
}

// publish 上传产物，未配置存储桶且未指定上传器时跳过
func (g *Generator) publish(ctx context.Context, res *Result) {
	uploader := g.uploader
	if uploader == nil {
		if !g.settings.Publishing() {
			return
		}
		s3, err := publish.NewS3(ctx, g.settings.Publish.S3)
		if err != nil {
			g.warn(res, StepPublish, err)
			return
		}
		uploader = s3
	}

	g.logger.Info("正在上传文档")
	keys, err := uploader.Upload(ctx, res.Files())
	res.Published = keys
	if err != nil {
		g.warn(res, StepPublish, err)
	}
}

// warn 记录不影响生成的错误
func (g *Generator) warn(res *Result, step string, err error) {
	g.logger.Warnf("%s: %v", step, err)
	res.Warnings = append(res.Warnings, stepError(step, err))
}
