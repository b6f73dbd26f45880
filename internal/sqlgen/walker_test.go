package sqlgen

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"post-data-parser/internal/utils"
	"post-data-parser/pkg/types"
)

func decode(t *testing.T, raw string) *types.PostData {
	t.Helper()
	var doc types.PostData
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return &doc
}

func sqlOf(log *Log) []string {
	var out []string
	for _, s := range log.Statements() {
		out = append(out, s.SQL())
	}
	return out
}

func TestWalkSinglePost(t *testing.T) {
	logger, _ := test.NewNullLogger()
	doc := decode(t, `{"posts":[{"id":1,"social_id":100,"content":"hi","date":"01/02/2020","categories":[{"id":1,"name":"news"}],"comments":[],"likes":[],"tags":[]}]}`)

	log, err := NewWalker(logger).Walk(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"INSERT IGNORE INTO Post (id, social_id, content, date) VALUES (1, 100, 'hi', '2020-01-02');",
		"INSERT IGNORE INTO PostCategory (category_name) VALUES ('news');",
	}, sqlOf(log))
}

const fullDocument = `{"posts":[
  {"id":1,"social_id":100,"content":"First O'Hara post","date":"03/14/2024",
   "categories":[{"id":1,"name":"news","detail_description":"Daily news"},{"id":2,"name":"sports"}],
   "comments":[
     {"id":10,"content":"nice","date":"03/15/2024","social_id":200,
      "tags":[{"id":30,"tagged_social_id":300}],
      "likes":[{"id":40,"date":"03/16/2024","social_id":400}]},
     {"id":11,"content":"plain","date":"03/15/2024","social_id":201}
   ],
   "likes":[{"id":50,"date":"03/17/2024","social_id":500}],
   "tags":[{"id":60,"tagged_social_id":600}]},
  {"id":"2","social_id":"101","content":"Second","date":"04/01/2024",
   "categories":[{"id":3,"name":"news"},{"id":4,"name":"tech","detail_description":"Gadgets"}],
   "comments":[],"likes":[],"tags":[]}
]}`

func TestWalkTraversalOrder(t *testing.T) {
	logger, _ := test.NewNullLogger()

	log, err := NewWalker(logger).Walk(decode(t, fullDocument))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"INSERT IGNORE INTO Post (id, social_id, content, date) VALUES (1, 100, 'First O''Hara post', '2024-03-14');",
		"INSERT IGNORE INTO PostCategory (category_name) VALUES ('news');",
		"INSERT IGNORE INTO CategoryDetail (id, post_category_name, detail_description) VALUES (1, 'news', 'Daily news');",
		"INSERT IGNORE INTO PostCategory (category_name) VALUES ('sports');",
		"INSERT IGNORE INTO PostComment (id, content, date, post_id, social_id) VALUES (10, 'nice', '2024-03-15', 1, 200);",
		"INSERT IGNORE INTO PostCommentTag (id, comment_id, tagger_social_id, tagged_social_id) VALUES (30, 10, 200, 300);",
		"INSERT IGNORE INTO PostCommentLike (id, comment_id, social_id, date) VALUES (40, 10, 400, '2024-03-16');",
		"INSERT IGNORE INTO PostComment (id, content, date, post_id, social_id) VALUES (11, 'plain', '2024-03-15', 1, 201);",
		"INSERT IGNORE INTO PostLike (id, date, post_id, social_id) VALUES (50, '2024-03-17', 1, 500);",
		"INSERT IGNORE INTO PostTag (id, post_id, tagger_social_id, tagged_social_id) VALUES (60, 1, 100, 600);",
		"INSERT IGNORE INTO Post (id, social_id, content, date) VALUES (2, 101, 'Second', '2024-04-01');",
		"INSERT IGNORE INTO PostCategory (category_name) VALUES ('tech');",
		"INSERT IGNORE INTO CategoryDetail (id, post_category_name, detail_description) VALUES (2, 'tech', 'Gadgets');",
	}, sqlOf(log))
}

func TestWalkCounts(t *testing.T) {
	logger, _ := test.NewNullLogger()

	log, err := NewWalker(logger).Walk(decode(t, fullDocument))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		TablePost:            2,
		TablePostCategory:    3,
		TableCategoryDetail:  2,
		TablePostComment:     2,
		TablePostCommentTag:  1,
		TablePostCommentLike: 1,
		TablePostLike:        1,
		TablePostTag:         1,
	}, log.CountByTable())
}

func TestWalkDetailIDsSpanWalks(t *testing.T) {
	logger, _ := test.NewNullLogger()
	w := NewWalker(logger)
	assert.Equal(t, int64(1), w.NextDetailID())

	_, err := w.Walk(decode(t, fullDocument))
	require.NoError(t, err)
	assert.Equal(t, int64(3), w.NextDetailID())

	log, err := w.Walk(decode(t, `{"posts":[{"id":9,"categories":[{"name":"misc","detail_description":"x"}]}]}`))
	require.NoError(t, err)
	stmts := log.Statements()
	require.Len(t, stmts, 3)
	assert.Equal(t, TableCategoryDetail, stmts[2].Table)
	assert.Equal(t, int64(3), stmts[2].Fields[0].Value)
}

func TestWalkNullPosts(t *testing.T) {
	for name, raw := range map[string]string{
		"null":   `{"posts": null}`,
		"absent": `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			log, err := NewWalker(logger).Walk(decode(t, raw))
			require.NoError(t, err)
			assert.Equal(t, 0, log.Len())
			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		})
	}
}

func TestWalkOmitsAbsentFields(t *testing.T) {
	logger, _ := test.NewNullLogger()
	log, err := NewWalker(logger).Walk(decode(t, `{"posts":[{"id":1,"content":null,"comments":[{"id":2}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"INSERT IGNORE INTO Post (id) VALUES (1);",
		"INSERT IGNORE INTO PostComment (id, post_id) VALUES (2, 1);",
	}, sqlOf(log))
}

func TestWalkFailsFast(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		target error
		field  string
	}{
		{
			name:   "bad date",
			raw:    `{"posts":[{"id":1,"date":"2020-01-02"}]}`,
			target: utils.ErrFormat,
			field:  "Post.date",
		},
		{
			name:   "bad comment like id",
			raw:    `{"posts":[{"id":1,"comments":[{"id":2,"likes":[{"id":"abc"}]}]}]}`,
			target: ErrParse,
			field:  "PostCommentLike.id",
		},
		{
			name:   "nameless category",
			raw:    `{"posts":[{"id":1,"categories":[{"id":3}]}]}`,
			target: ErrEmptyRecord,
			field:  "PostCategory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			log, err := NewWalker(logger).Walk(decode(t, tt.raw))
			require.Error(t, err)
			assert.Nil(t, log)
			assert.ErrorIs(t, err, tt.target)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestFieldErrorAs(t *testing.T) {
	_, err := BuildPostLike(types.Like{Date: strPtr("bad")}, types.Post{})
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, TablePostLike, fe.Table)
	assert.Equal(t, "date", fe.Field)
}

func TestReadPostData(t *testing.T) {
	dir := t.TempDir()

	_, err := ReadPostData(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrInputNotFound)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))
	_, err = ReadPostData(bad)
	assert.Error(t, err)

	good := filepath.Join(dir, "post_data.json")
	require.NoError(t, os.WriteFile(good, []byte(fullDocument), 0644))
	doc, err := ReadPostData(good)
	require.NoError(t, err)
	assert.Len(t, doc.Posts, 2)
}

func strPtr(s string) *string { return &s }
