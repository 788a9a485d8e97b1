// Package diagram 生成实体关系图的PlantUML描述并调用PlantUML渲染图片
package diagram

import (
	"fmt"
	"strings"

	"github.com/zzliekkas/autodoc/models"
	"github.com/zzliekkas/autodoc/relation"
)

// 输出文件名
const (
	SourceFile = "erd.puml"
	ImageFile  = "erd.png"
)

var header = []string{
	"@startuml",
	"!theme plain",
	"hide circle",
	"hide methods",
	"skinparam classAttributeIconSize 0",
	"left to right direction",
	"skinparam class {",
	"  BackgroundColor<<Entity>> White",
	"  BorderColor Black",
	"  FontColor Black",
	"  FontStyle bold",
	"  AttributeFontColor #444444",
	"  AttributeFontSize 11",
	"  BorderRoundCorner 8",
	"  HeaderBackgroundColor LightGray",
	"  HeaderFontColor Black",
	"  HeaderFontStyle bold",
	"}",
}

// PlantUML 生成实体关系图描述。模型按类名排序，相同输入总是得到相同输出；
// 关联模型未知的关系被忽略
func PlantUML(gathered map[string]*models.Model) string {
	classes := models.SortedClasses(gathered)

	lines := make([]string, 0, len(header)+len(classes)*4+1)
	lines = append(lines, header...)

	for _, class := range classes {
		lines = append(lines, fmt.Sprintf("class %s <<Entity>> {", relation.ShortName(class)))
		for _, field := range gathered[class].Fillable {
			lines = append(lines, "  +"+field)
		}
		lines = append(lines, "}")
	}

	for _, class := range classes {
		from := relation.ShortName(class)
		for _, rel := range gathered[class].Relationships {
			if rel.Related == "" {
				continue
			}
			lines = append(lines, Edge(from, relation.ShortName(rel.Related), rel))
		}
	}

	lines = append(lines, "@enduml")
	return strings.Join(lines, "\n")
}

// Edge 生成一条关系连线
func Edge(from, to string, rel relation.Relation) string {
	c, ok := rel.Kind.Cardinality()
	if !ok {
		return fmt.Sprintf("%s --> %s : %s (%s)", from, to, rel.Method, rel.Kind)
	}
	return fmt.Sprintf("%s %q %s %q %s : %s (%s)", from, c.From, c.Arrow, c.To, to, rel.Method, rel.Kind)
}
