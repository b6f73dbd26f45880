package sqlgen

import (
	"fmt"

	"post-data-parser/internal/utils"
	"post-data-parser/pkg/types"
)

// Target tables.
const (
	TablePost            = "Post"
	TablePostCategory    = "PostCategory"
	TableCategoryDetail  = "CategoryDetail"
	TablePostComment     = "PostComment"
	TablePostLike        = "PostLike"
	TablePostTag         = "PostTag"
	TablePostCommentLike = "PostCommentLike"
	TablePostCommentTag  = "PostCommentTag"
)

// Tables lists every target table in load order.
var Tables = []string{
	TablePost,
	TablePostCategory,
	TableCategoryDetail,
	TablePostComment,
	TablePostLike,
	TablePostTag,
	TablePostCommentLike,
	TablePostCommentTag,
}

// Field is one column of a record. Value is either int64 or string; text is
// stored unescaped.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered column/value mapping for a single row.
type Record struct {
	Table  string
	Fields []Field
}

// FieldError reports which column of which table failed to sanitize.
type FieldError struct {
	Table string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Table, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// recordBuilder accumulates fields and keeps the first sanitizer error.
type recordBuilder struct {
	rec Record
	err error
}

func newRecord(table string) *recordBuilder {
	return &recordBuilder{rec: Record{Table: table}}
}

func (b *recordBuilder) integer(name string, raw *types.Scalar) *recordBuilder {
	if b.err != nil || raw == nil {
		return b
	}
	n, err := ToSQLInteger(raw.String())
	if err != nil {
		b.err = &FieldError{Table: b.rec.Table, Field: name, Err: err}
		return b
	}
	b.rec.Fields = append(b.rec.Fields, Field{Name: name, Value: n})
	return b
}

func (b *recordBuilder) number(name string, n int64) *recordBuilder {
	if b.err == nil {
		b.rec.Fields = append(b.rec.Fields, Field{Name: name, Value: n})
	}
	return b
}

func (b *recordBuilder) text(name string, p *string) *recordBuilder {
	if b.err != nil || p == nil {
		return b
	}
	b.rec.Fields = append(b.rec.Fields, Field{Name: name, Value: *p})
	return b
}

func (b *recordBuilder) date(name string, p *string) *recordBuilder {
	if b.err != nil || p == nil {
		return b
	}
	d, err := utils.ReformatDate(*p)
	if err != nil {
		b.err = &FieldError{Table: b.rec.Table, Field: name, Err: err}
		return b
	}
	b.rec.Fields = append(b.rec.Fields, Field{Name: name, Value: d})
	return b
}

func (b *recordBuilder) build() (Record, error) {
	if b.err != nil {
		return Record{}, b.err
	}
	return b.rec, nil
}

func BuildPost(post types.Post) (Record, error) {
	return newRecord(TablePost).
		integer("id", post.ID).
		integer("social_id", post.SocialID).
		text("content", post.Content).
		date("date", post.Date).
		build()
}

// BuildPostCategory keys the category by name only; post linkage lives
// nowhere in this table.
func BuildPostCategory(category types.Category) (Record, error) {
	return newRecord(TablePostCategory).
		text("category_name", category.Name).
		build()
}

func BuildCategoryDetail(id int64, category types.Category) (Record, error) {
	return newRecord(TableCategoryDetail).
		number("id", id).
		text("post_category_name", category.Name).
		text("detail_description", category.DetailDescription).
		build()
}

func BuildPostComment(comment types.Comment, post types.Post) (Record, error) {
	return newRecord(TablePostComment).
		integer("id", comment.ID).
		text("content", comment.Content).
		date("date", comment.Date).
		integer("post_id", post.ID).
		integer("social_id", comment.SocialID).
		build()
}

func BuildPostLike(like types.Like, post types.Post) (Record, error) {
	return newRecord(TablePostLike).
		integer("id", like.ID).
		date("date", like.Date).
		integer("post_id", post.ID).
		integer("social_id", like.SocialID).
		build()
}

func BuildPostTag(tag types.Tag, post types.Post) (Record, error) {
	return newRecord(TablePostTag).
		integer("id", tag.ID).
		integer("post_id", post.ID).
		integer("tagger_social_id", post.SocialID).
		integer("tagged_social_id", tag.TaggedSocialID).
		build()
}

func BuildCommentLike(like types.Like, comment types.Comment) (Record, error) {
	return newRecord(TablePostCommentLike).
		integer("id", like.ID).
		integer("comment_id", comment.ID).
		integer("social_id", like.SocialID).
		date("date", like.Date).
		build()
}

func BuildCommentTag(tag types.Tag, comment types.Comment) (Record, error) {
	return newRecord(TablePostCommentTag).
		integer("id", tag.ID).
		integer("comment_id", comment.ID).
		integer("tagger_social_id", comment.SocialID).
		integer("tagged_social_id", tag.TaggedSocialID).
		build()
}
