package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appYAML = `app:
  env: staging
  url: http://localhost:8000
cache:
  default: redis
queue:
  default: sync
mail:
  mailers:
    smtp:
      host: mail.local
autodoc:
  output_path: build/docs
  take_screenshots: true
  screenshot_urls:
    - url: http://localhost:8000/
      label: Home Page
    - url: /admin
  plantuml_jar: /opt/plantuml/plantuml.jar
  diagram_timeout: 45s
  publish:
    s3:
      bucket: docs-bucket
      region: ap-east-1
      prefix: nightly
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSettings(t *testing.T) {
	cfg := NewConfig(WithConfigFile(writeConfig(t, appYAML)))
	require.NoError(t, cfg.Load())
	assert.True(t, cfg.IsLoaded())

	settings, err := LoadSettings(cfg, "/srv/app")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/srv/app", "build/docs"), settings.OutputPath)
	assert.True(t, settings.TakeScreenshots)
	assert.Equal(t, []ScreenshotTarget{
		{URL: "http://localhost:8000/", Label: "Home Page"},
		{URL: "/admin"},
	}, settings.ScreenshotURLs)
	assert.Equal(t, "/opt/plantuml/plantuml.jar", settings.PlantUMLJar)
	assert.Equal(t, 45*time.Second, settings.DiagramTimeout)
	assert.Equal(t, DefaultScreenshotTimeout, settings.ScreenshotTimeout, "未配置的项应该保留默认值")
	assert.Equal(t, DefaultControllerNS, settings.ControllerNamespace)
	assert.True(t, settings.Publishing())
	assert.Equal(t, "nightly", settings.Publish.S3.Prefix)
}

func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := LoadSettings(NewConfig(), "/srv/app")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/srv/app", "docs"), settings.OutputPath)
	assert.Equal(t, filepath.Join("/srv/app", DefaultPlantUMLJar), settings.PlantUMLJar)
	assert.False(t, settings.TakeScreenshots)
	assert.Empty(t, settings.ScreenshotURLs)
	assert.Equal(t, []string{"app/models", "app"}, settings.ModelPaths)
	assert.Len(t, settings.LOCPaths, 10)
	assert.False(t, settings.Publishing())
}

func TestLoadSettingsInvalid(t *testing.T) {
	cfg := NewConfig()
	cfg.Set("autodoc.plantuml_jar", "plantuml.zip")
	cfg.Set("autodoc.screenshot_urls", []map[string]interface{}{{"url": "dashboard"}})
	cfg.Set("autodoc.publish.s3.bucket", "docs")

	_, err := LoadSettings(cfg, "/srv/app")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.Contains(t, err.Error(), "plantuml_jar必须是.jar文件")
	assert.Contains(t, err.Error(), "url必须是http(s)地址或以/开头的路径")
	assert.Contains(t, err.Error(), "region")
}

func TestLoadMissingFile(t *testing.T) {
	cfg := NewConfig(WithConfigPath(t.TempDir()))
	err := cfg.Load()
	assert.ErrorIs(t, err, ErrConfigNotFound)
	assert.False(t, cfg.IsLoaded())

	cfg = NewConfig(WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.ErrorIs(t, cfg.Load(), ErrConfigNotFound)
}

func TestEnvironmentSpecificFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.yaml"), []byte("app:\n  env: local\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.testing.yaml"), []byte("app:\n  env: testing\n"), 0644))

	cfg := NewConfig(WithConfigPath(dir), WithEnvironment("testing"))
	require.NoError(t, cfg.Load())
	assert.Equal(t, "testing", cfg.GetString("app.env"))
}

func TestSnapshot(t *testing.T) {
	cfg := NewConfig(WithConfigFile(writeConfig(t, appYAML)))
	require.NoError(t, cfg.Load())

	snapshot := Snapshot(cfg)
	assert.Len(t, snapshot, 4, "快照只包含四个键")
	assert.Equal(t, "redis", snapshot["cache"])
	assert.Equal(t, "sync", snapshot["queue"])
	assert.Equal(t, "staging", snapshot["app_env"])
	assert.Equal(t, map[string]interface{}{
		"smtp": map[string]interface{}{"host": "mail.local"},
	}, snapshot["mail"], "没有mail.default时使用mail.mailers")

	cfg.Set("mail.default", "log")
	assert.Equal(t, "log", Snapshot(cfg)["mail"])

	empty := Snapshot(NewConfig())
	assert.Len(t, empty, 4)
	for key, value := range empty {
		assert.Nil(t, value, key)
	}
}

func TestWriteDefaults(t *testing.T) {
	fs := afero.NewOsFs()
	path := filepath.Join(t.TempDir(), "config", "autodoc.yaml")

	require.NoError(t, WriteDefaults(fs, path, false))
	assert.ErrorIs(t, WriteDefaults(fs, path, false), ErrConfigExists)
	require.NoError(t, WriteDefaults(fs, path, true))

	cfg := NewConfig(WithConfigFile(path))
	require.NoError(t, cfg.Load())
	settings, err := LoadSettings(cfg, "/srv/app")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/srv/app", "docs"), settings.OutputPath)
	assert.Equal(t, DefaultDiagramTimeout, settings.DiagramTimeout)
	assert.Equal(t, DefaultSettings().LOCPaths, settings.LOCPaths)
}

func TestMergeFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.yaml"), []byte("app:\n  env: local\nautodoc:\n  output_path: docs\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFile), []byte("autodoc:\n  output_path: public/docs\n"), 0644))

	cfg := NewConfig(WithConfigPath(dir))
	require.NoError(t, cfg.Load())
	require.NoError(t, cfg.MergeFile(filepath.Join(dir, SettingsFile)))

	assert.Equal(t, "local", cfg.GetString("app.env"), "合并不应覆盖其他键")
	assert.Equal(t, "public/docs", cfg.GetString("autodoc.output_path"))
	assert.ErrorIs(t, cfg.MergeFile(filepath.Join(dir, "missing.yaml")), ErrConfigNotFound)
}
