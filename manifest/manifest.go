// Package manifest 读取项目go.mod中声明的直接依赖
package manifest

import (
	"github.com/spf13/afero"
	"golang.org/x/mod/modfile"
)

// DefaultFile 依赖清单文件名
const DefaultFile = "go.mod"

// Packages 返回go.mod中直接依赖的模块路径，保持文件中的顺序。
// 文件不存在或无法解析时返回空列表
func Packages(fs afero.Fs, path string) []string {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return []string{}
	}

	f, err := modfile.Parse(path, data, nil)
	if err != nil {
		return []string{}
	}

	packages := make([]string, 0, len(f.Require))
	for _, req := range f.Require {
		if req.Indirect {
			continue
		}
		packages = append(packages, req.Mod.Path)
	}
	return packages
}
