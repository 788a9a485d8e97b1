package autodoc

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zzliekkas/autodoc/config"
	"github.com/zzliekkas/autodoc/models"
	"github.com/zzliekkas/autodoc/policy"
	"github.com/zzliekkas/autodoc/routes"
	"go.uber.org/dig"
)

func TestSourcesFromContainer(t *testing.T) {
	recorder := routes.NewRecorder(nil)
	registry := models.NewRegistry(&Post{})
	gate := policy.NewGate()
	cfg := config.NewConfig()
	fs := afero.NewMemMapFs()

	c := dig.New()
	require.NoError(t, c.Provide(func() *routes.Recorder { return recorder }))
	require.NoError(t, c.Provide(func() *models.Registry { return registry }))
	require.NoError(t, c.Provide(func() *policy.Gate { return gate }))
	require.NoError(t, c.Provide(func() *config.Config { return cfg }))
	require.NoError(t, c.Provide(func() afero.Fs { return fs }))

	src, err := SourcesFromContainer(c, root)
	require.NoError(t, err)

	assert.Same(t, recorder, src.Routes)
	assert.Same(t, registry, src.Models)
	assert.Same(t, gate, src.Policies)
	assert.Same(t, cfg, src.Config)
	assert.Equal(t, fs, src.FS)
	assert.Equal(t, root, src.Root)
	assert.Nil(t, src.DB, "容器中没有数据库连接")
	assert.Nil(t, src.Controllers)
}

func TestSourcesFromContainerPrefersTable(t *testing.T) {
	table := routes.NewRecorder(nil)
	c := dig.New()
	require.NoError(t, c.Provide(func() routes.Table { return table }))
	require.NoError(t, c.Provide(func() *routes.Recorder { return routes.NewRecorder(nil) }))

	src, err := SourcesFromContainer(c, "")
	require.NoError(t, err)
	assert.Same(t, table, src.Routes)
	assert.Equal(t, ".", src.Root)
}

func TestSourcesFromContainerFailingConstructor(t *testing.T) {
	c := dig.New()
	require.NoError(t, c.Provide(func() (*models.Registry, error) { return nil, assert.AnError }))

	_, err := SourcesFromContainer(c, root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "从容器解析协作者失败")
	assert.Equal(t, assert.AnError, dig.RootCause(errors.Unwrap(err)))
}

func TestSourcesWithoutContainer(t *testing.T) {
	src, err := SourcesFromContainer(nil, "")
	require.NoError(t, err)
	assert.IsType(t, &afero.OsFs{}, src.FS)
	assert.Nil(t, src.Routes)
	assert.Empty(t, policy.Read(src.Policies))
}
