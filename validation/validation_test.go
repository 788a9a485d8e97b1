package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	URL string `json:"url" validate:"required,pageurl"`
	Jar string `json:"jar" validate:"omitempty,jarfile"`
}

func TestPageURL(t *testing.T) {
	cases := map[string]bool{
		"http://localhost:8000/": true,
		"https://example.com/a":  true,
		"/dashboard":             true,
		"ftp://example.com":      false,
		"dashboard":              false,
		"http://":                false,
	}
	for raw, valid := range cases {
		err := ValidateVar(raw, "pageurl")
		if valid {
			assert.NoError(t, err, raw)
		} else {
			assert.Error(t, err, raw)
		}
	}
}

func TestJarAndPrefix(t *testing.T) {
	assert.NoError(t, ValidateVar("/opt/plantuml.jar", "jarfile"))
	assert.NoError(t, ValidateVar("plantuml.JAR", "jarfile"))
	assert.Error(t, ValidateVar("/opt/plantuml", "jarfile"))

	assert.NoError(t, ValidateVar("docs/nightly", "s3prefix"))
	assert.Error(t, ValidateVar("/docs", "s3prefix"))
	assert.Error(t, ValidateVar("docs/../secret", "s3prefix"))
}

func TestTranslateError(t *testing.T) {
	err := Validate(page{URL: "dashboard", Jar: "plantuml.zip"})
	require.Error(t, err)

	messages := TranslateError(err)
	require.Len(t, messages, 2)
	assert.Equal(t, "url必须是http(s)地址或以/开头的路径", messages[0])
	assert.Equal(t, "jar必须是.jar文件", messages[1])

	err = Validate(page{})
	require.Error(t, err)
	assert.Equal(t, []string{"url为必填字段"}, TranslateError(err))

	assert.Nil(t, TranslateError(nil))
}
