package diagram

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zzliekkas/autodoc/models"
	"github.com/zzliekkas/autodoc/relation"
)

func blogModels() map[string]*models.Model {
	return map[string]*models.Model{
		"example.com/blog/models.Post": {
			Class:    "example.com/blog/models.Post",
			Fillable: []string{"title", "body"},
			Relationships: []relation.Relation{
				{Method: "Comments", Kind: relation.HasMany, Related: "example.com/blog/models.Comment"},
				{Method: "User", Kind: relation.BelongsTo, Related: "example.com/blog/models.User"},
				{Method: "Tags", Kind: relation.BelongsToMany, Related: "example.com/blog/models.Tag"},
				{Method: "Images", Kind: relation.MorphMany, Related: "example.com/blog/models.Image"},
				{Method: "Cover", Kind: "MorphOne", Related: "example.com/blog/models.Image"},
			},
		},
		"example.com/blog/models.Image": {
			Class:    "example.com/blog/models.Image",
			Fillable: []string{"url"},
			Relationships: []relation.Relation{
				{Method: "Imageable", Kind: relation.MorphTo},
			},
		},
		"example.com/blog/models.User": {
			Class: "example.com/blog/models.User",
			Relationships: []relation.Relation{
				{Method: "Profile", Kind: relation.HasOne, Related: "example.com/blog/models.Profile"},
			},
		},
	}
}

func TestPlantUML(t *testing.T) {
	out := PlantUML(blogModels())

	assert.True(t, strings.HasPrefix(out, "@startuml\n!theme plain\nhide circle\n"))

	body := strings.Join([]string{
		"class Image <<Entity>> {",
		"  +url",
		"}",
		"class Post <<Entity>> {",
		"  +title",
		"  +body",
		"}",
		"class User <<Entity>> {",
		"}",
		`Post "1" --> "*" Comment : Comments (HasMany)`,
		`Post "*" --> "1" User : User (BelongsTo)`,
		`Post "*" -- "*" Tag : Tags (BelongsToMany)`,
		`Post "1" --> "*" Image : Images (MorphMany)`,
		`Post --> Image : Cover (MorphOne)`,
		`User "1" --> "1" Profile : Profile (HasOne)`,
		"@enduml",
	}, "\n")
	assert.True(t, strings.HasSuffix(out, body), out)
	assert.NotContains(t, out, "Imageable", "没有关联模型的关系应该被忽略")
}

func TestPlantUMLDeterministic(t *testing.T) {
	first := PlantUML(blogModels())
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, PlantUML(blogModels()))
	}
}

func TestPlantUMLEmpty(t *testing.T) {
	out := PlantUML(nil)
	lines := strings.Split(out, "\n")
	assert.Equal(t, "@startuml", lines[0])
	assert.Equal(t, "}", lines[len(lines)-2], "只有头部的skinparam块")
	assert.Equal(t, "@enduml", lines[len(lines)-1])
}

func TestEdge(t *testing.T) {
	assert.Equal(t, `Image "*" --> "1" Post : Imageable (MorphTo)`,
		Edge("Image", "Post", relation.Relation{Method: "Imageable", Kind: relation.MorphTo}))
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("需要sh")
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func prepare(t *testing.T) (dir, jar, source string) {
	t.Helper()
	dir = t.TempDir()
	jar = filepath.Join(dir, "plantuml.jar")
	source = filepath.Join(dir, SourceFile)
	require.NoError(t, os.WriteFile(jar, []byte("jar"), 0644))
	require.NoError(t, os.WriteFile(source, []byte(PlantUML(nil)), 0644))
	return dir, jar, source
}

func TestRender(t *testing.T) {
	dir, jar, source := prepare(t)
	// 参数: -jar <jar> -tpng <source>
	java := writeScript(t, dir, "java", `out="${4%.puml}.png"; echo png > "$out"`)

	image, err := NewRenderer(jar, WithJava(java)).Render(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ImageFile), image)
	assert.FileExists(t, image)
}

func TestRenderFailures(t *testing.T) {
	dir, jar, source := prepare(t)

	t.Run("jar不存在", func(t *testing.T) {
		_, err := NewRenderer(filepath.Join(dir, "missing.jar")).Render(context.Background(), source)
		var rerr *RenderError
		require.True(t, errors.As(err, &rerr))
		assert.ErrorIs(t, err, ErrJarNotFound)
		assert.Contains(t, rerr.Command, "-tpng")
	})

	t.Run("非零退出", func(t *testing.T) {
		java := writeScript(t, dir, "java-fail", "echo 'syntax error' >&2; exit 3")
		_, err := NewRenderer(jar, WithJava(java)).Render(context.Background(), source)
		var rerr *RenderError
		require.True(t, errors.As(err, &rerr))
		assert.Equal(t, 3, rerr.ExitCode)
		assert.Equal(t, "syntax error", rerr.Stderr)
		assert.Contains(t, err.Error(), java)
	})

	t.Run("没有生成图片", func(t *testing.T) {
		java := writeScript(t, dir, "java-noop", "exit 0")
		_, err := NewRenderer(jar, WithJava(java)).Render(context.Background(), source)
		assert.ErrorIs(t, err, ErrNoOutput)
	})

	t.Run("超时", func(t *testing.T) {
		java := writeScript(t, dir, "java-slow", "sleep 5")
		start := time.Now()
		_, err := NewRenderer(jar, WithJava(java), WithTimeout(100*time.Millisecond)).Render(context.Background(), source)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Less(t, time.Since(start), 4*time.Second)
	})
}

func TestJavaSelection(t *testing.T) {
	dir := t.TempDir()
	bundled := filepath.Join(dir, "jre", "bin", "java")

	r := NewRenderer("plantuml.jar", WithBundledJava(bundled))
	assert.Equal(t, "java", r.Java(), "没有分发的运行时则使用PATH中的java")

	if runtime.GOOS == "windows" {
		bundled += ".exe"
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(bundled), 0755))
	require.NoError(t, os.WriteFile(bundled, []byte{}, 0755))
	assert.Equal(t, bundled, r.Java())

	assert.Equal(t, "/usr/bin/java", NewRenderer("x.jar", WithJava("/usr/bin/java"), WithBundledJava(bundled)).Java())
}
