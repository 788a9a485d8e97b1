package report

import (
	"bytes"
	"encoding/json"
	"html/template"
	"strconv"
	"strings"

	"github.com/zzliekkas/autodoc/relation"
)

var funcs = template.FuncMap{
	"short":    relation.ShortName,
	"symbol":   symbol,
	"sentence": sentence,
	"json":     prettyJSON,
	"number":   number,
	"orDash":   orDash,
}

func symbol(kind relation.Kind) string {
	return kind.Symbol()
}

func sentence(owner string, rel relation.Relation) string {
	return rel.Kind.Sentence(relation.ShortName(owner), relation.ShortName(rel.Related))
}

// prettyJSON 缩进4个空格且不转义斜杠和HTML字符
func prettyJSON(v interface{}) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return "null"
	}
	return strings.TrimRight(buf.String(), "\n")
}

// number 千分位格式
func number(n int) string {
	s := strconv.Itoa(n)
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
