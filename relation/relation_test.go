package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardinalityTable(t *testing.T) {
	cases := map[Kind][3]string{
		HasOne:        {"1", "-->", "1"},
		HasMany:       {"1", "-->", "*"},
		BelongsTo:     {"*", "-->", "1"},
		BelongsToMany: {"*", "--", "*"},
		MorphMany:     {"1", "-->", "*"},
		MorphTo:       {"*", "-->", "1"},
	}

	for kind, want := range cases {
		c, ok := kind.Cardinality()
		assert.True(t, ok, "%s 应该是已知类型", kind)
		assert.Equal(t, want, [3]string{c.From, c.Arrow, c.To}, "%s 基数不正确", kind)
	}

	_, ok := Kind("MorphOne").Cardinality()
	assert.False(t, ok, "MorphOne 不在固定枚举中")
}

func TestSymbol(t *testing.T) {
	assert.Equal(t, "* → 1", BelongsTo.Symbol())
	assert.Equal(t, "1 → *", HasMany.Symbol())
	assert.Equal(t, "* ↔ *", BelongsToMany.Symbol())
	assert.Equal(t, "1 → 1", HasOne.Symbol())
	assert.Equal(t, "1 → * (Polymorphic)", MorphMany.Symbol())
	assert.Equal(t, "* → 1 (Polymorphic)", MorphTo.Symbol())
	assert.Equal(t, "?", Kind("Through").Symbol())
}

func TestSentence(t *testing.T) {
	assert.Equal(t, "Post can have many Comment.", HasMany.Sentence("Post", "Comment"))
	assert.Equal(t, "Comment belongs to one Post.", BelongsTo.Sentence("Comment", "Post"))
	assert.Equal(t, "Tag has many Post (many-to-many).", BelongsToMany.Sentence("Tag", "Post"))
	assert.Equal(t, "User has exactly one Profile.", HasOne.Sentence("User", "Profile"))
	assert.Equal(t, "Post can have many Image (polymorphic).", MorphMany.Sentence("Post", "Image"))
	assert.Equal(t, "Image belongs to one parent (polymorphic).", MorphTo.Sentence("Image", ""))
	assert.Equal(t, "Post Relationship details unknown.", Kind("MorphOne").Sentence("Post", "Image"))
}

func TestSentenceIsPureFunctionOfKind(t *testing.T) {
	for _, kind := range Kinds() {
		assert.Equal(t, kind.Sentence("A", "B"), kind.Sentence("A", "B"))
		assert.Equal(t, kind.Symbol(), kind.Symbol())
		assert.True(t, kind.Known())
	}
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "Post", ShortName("example.com/blog/app/models.Post"))
	assert.Equal(t, "PostController", ShortName(`App\Http\Controllers\PostController`))
	assert.Equal(t, "Post", ShortName("Post"))
	assert.Equal(t, "", ShortName(""))
}
