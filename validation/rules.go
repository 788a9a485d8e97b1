package validation

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// rules 自定义验证规则
var rules = map[string]Rule{
	"pageurl": {
		Validation:   validatePageURL,
		ErrorMessage: "{0}必须是http(s)地址或以/开头的路径",
	},
	"jarfile": {
		Validation:   validateJarFile,
		ErrorMessage: "{0}必须是.jar文件",
	},
	"s3prefix": {
		Validation:   validateS3Prefix,
		ErrorMessage: "{0}不能以/开头或包含..",
	},
}

// validatePageURL 验证页面地址，允许绝对地址或相对于应用地址的路径
func validatePageURL(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	if strings.HasPrefix(raw, "/") {
		return true
	}

	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// validateJarFile 验证jar路径
func validateJarFile(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	return strings.EqualFold(filepath.Ext(raw), ".jar")
}

// validateS3Prefix 验证对象键前缀
func validateS3Prefix(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	return !strings.HasPrefix(raw, "/") && !strings.Contains(raw, "..")
}
