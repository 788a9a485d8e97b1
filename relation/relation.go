// Package relation 定义模型关系类型以及关系类型到基数、符号和描述语句的统一映射
package relation

import (
	"fmt"
	"strings"
)

// Kind 关系类型
type Kind string

// 固定的关系类型枚举
const (
	// HasOne 一对一
	HasOne Kind = "HasOne"
	// HasMany 一对多
	HasMany Kind = "HasMany"
	// BelongsTo 多对一
	BelongsTo Kind = "BelongsTo"
	// BelongsToMany 多对多
	BelongsToMany Kind = "BelongsToMany"
	// MorphTo 多态多对一
	MorphTo Kind = "MorphTo"
	// MorphMany 多态一对多
	MorphMany Kind = "MorphMany"
)

// Relation 描述模型上的一个关系
type Relation struct {
	// 声明关系的方法或字段名
	Method string `json:"method"`
	// 关系类型
	Kind Kind `json:"type"`
	// 关联模型的完整类名，无法解析时为空
	Related string `json:"related,omitempty"`
	// 本地键
	LocalKey string `json:"local_key,omitempty"`
	// 外键
	ForeignKey string `json:"foreign_key,omitempty"`
}

// Cardinality 关系两端的基数和连线
type Cardinality struct {
	From        string
	Arrow       string
	To          string
	Polymorphic bool
}

// entry 映射表的一行
type entry struct {
	cardinality Cardinality
	// 句子模板，%s 为关联模型短名
	sentence string
}

// table 关系类型到基数和描述的唯一映射
var table = map[Kind]entry{
	HasOne:        {Cardinality{"1", "-->", "1", false}, "has exactly one %s."},
	HasMany:       {Cardinality{"1", "-->", "*", false}, "can have many %s."},
	BelongsTo:     {Cardinality{"*", "-->", "1", false}, "belongs to one %s."},
	BelongsToMany: {Cardinality{"*", "--", "*", false}, "has many %s (many-to-many)."},
	MorphMany:     {Cardinality{"1", "-->", "*", true}, "can have many %s (polymorphic)."},
	MorphTo:       {Cardinality{"*", "-->", "1", true}, "belongs to one parent (polymorphic)."},
}

// Kinds 返回所有已知的关系类型
func Kinds() []Kind {
	return []Kind{HasOne, HasMany, BelongsTo, BelongsToMany, MorphTo, MorphMany}
}

// Known 判断是否为已知关系类型
func (k Kind) Known() bool {
	_, ok := table[k]
	return ok
}

// Cardinality 返回关系类型的基数，未知类型返回 false
func (k Kind) Cardinality() (Cardinality, bool) {
	e, ok := table[k]
	return e.cardinality, ok
}

// Symbol 返回报告中使用的基数符号
func (k Kind) Symbol() string {
	e, ok := table[k]
	if !ok {
		return "?"
	}
	c := e.cardinality
	arrow := "→"
	if c.Arrow == "--" {
		arrow = "↔"
	}
	symbol := fmt.Sprintf("%s %s %s", c.From, arrow, c.To)
	if c.Polymorphic {
		symbol += " (Polymorphic)"
	}
	return symbol
}

// Sentence 返回关系的自然语言描述
func (k Kind) Sentence(owner, related string) string {
	e, ok := table[k]
	if !ok {
		return owner + " Relationship details unknown."
	}
	tpl := e.sentence
	if strings.Contains(tpl, "%s") {
		tpl = fmt.Sprintf(tpl, related)
	}
	return owner + " " + tpl
}

// ShortName 返回类名的最后一段，如 example.com/app/models.Post -> Post
func ShortName(class string) string {
	if i := strings.LastIndexAny(class, `./\`); i >= 0 {
		return class[i+1:]
	}
	return class
}
