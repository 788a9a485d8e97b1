package stats

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

// DefaultExtensions 计入代码行数的文件扩展名
var DefaultExtensions = []string{"go", "js", "vue", "css"}

var blockComment = regexp.MustCompile(`^/\*.*\*/$`)

// CountLines 统计root下各目录中指定扩展名文件的有效代码行数。
// 跳过空行、以//或#开头的行，以及整行的/* */注释；不存在的目录被忽略
func CountLines(fs afero.Fs, root string, paths []string, exts []string) int {
	allowed := make(map[string]bool, len(exts))
	for _, ext := range exts {
		allowed["."+strings.TrimPrefix(ext, ".")] = true
	}

	total := 0
	for _, path := range paths {
		dir := path
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		if ok, _ := afero.DirExists(fs, dir); !ok {
			continue
		}

		_ = afero.Walk(fs, dir, func(file string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() || !allowed[filepath.Ext(file)] {
				return nil
			}
			total += countFile(fs, file)
			return nil
		})
	}
	return total
}

func countFile(fs afero.Fs, path string) int {
	f, err := fs.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		if countable(scanner.Text()) {
			count++
		}
	}
	return count
}

func countable(line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false
	case strings.HasPrefix(line, "//"), strings.HasPrefix(line, "#"):
		return false
	case blockComment.MatchString(line):
		return false
	default:
		return true
	}
}
