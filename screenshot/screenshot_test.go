package screenshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCapturer struct {
	calls []string
	fail  map[string]error
	panic string
	slow  string
}

func (f *fakeCapturer) Capture(ctx context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	if url == f.panic {
		panic("browser crashed")
	}
	if url == f.slow {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if err, ok := f.fail[url]; ok {
		return nil, err
	}
	return []byte("png:" + url), nil
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "home-page", Slug("Home Page", "http://localhost/"))
	assert.Equal(t, "http-localhost-8000", Slug("", "http://localhost:8000/"))
	assert.Equal(t, "admin-users", Slug("", "/admin/users/"))
	assert.Equal(t, "a-b", Slug("a!!!b", ""))
	assert.Equal(t, "home", Slug("Home!", "http://localhost/"), "末尾的符号不应留下-")
	assert.Equal(t, "http-localhost-8000-about", Slug("!!!", "http://localhost:8000/about"), "标签没有字母数字时使用地址")
	assert.Equal(t, "page", Slug("", ""))
	assert.Equal(t, "screenshot-home-page.png", FileName(Target{URL: "http://x", Label: "Home Page"}))
}

func TestCaptureIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	capturer := &fakeCapturer{
		fail:  map[string]error{"http://app.test/broken": errors.New("net::ERR_CONNECTION_REFUSED")},
		panic: "http://app.test/crash",
		slow:  "http://app.test/slow",
	}
	log, hook := test.NewNullLogger()

	taker := NewTaker(capturer,
		WithBaseURL("http://app.test"),
		WithTimeout(50*time.Millisecond),
		WithLogger(log),
	)
	results := taker.Capture(context.Background(), dir, []Target{
		{URL: "http://app.test/", Label: "Home"},
		{URL: "http://app.test/broken"},
		{URL: "http://app.test/crash"},
		{URL: "http://app.test/slow"},
		{URL: "/dashboard", Label: "Dashboard"},
	})

	require.Len(t, results, 5)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.Error(t, results[2].Err, "panic应该被隔离")
	assert.ErrorIs(t, results[3].Err, context.DeadlineExceeded)
	assert.NoError(t, results[4].Err, "失败之后的目标继续执行")

	assert.Equal(t, "http://app.test/dashboard", capturer.calls[4], "相对路径拼接app.url")

	content, err := os.ReadFile(filepath.Join(dir, "screenshot-home.png"))
	require.NoError(t, err)
	assert.Equal(t, "png:http://app.test/", string(content))
	assert.FileExists(t, filepath.Join(dir, "screenshot-dashboard.png"))
	assert.NoFileExists(t, filepath.Join(dir, "screenshot-http-app-test-broken.png"))

	errorsLogged := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level.String() == "error" {
			errorsLogged++
		}
	}
	assert.Equal(t, 3, errorsLogged)
}

func TestRelativeURLWithoutBase(t *testing.T) {
	log, _ := test.NewNullLogger()
	taker := NewTaker(&fakeCapturer{}, WithLogger(log))
	results := taker.Capture(context.Background(), t.TempDir(), []Target{{URL: "/admin"}})
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}
