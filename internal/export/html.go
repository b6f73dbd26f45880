package export

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"post-data-parser/internal/utils"
	"post-data-parser/pkg/types"
)

// PostsToken marks where post blocks are inserted in an HTML template.
const PostsToken = "{{POSTS}}"

// ErrNoToken is returned for a template without PostsToken.
var ErrNoToken = errors.New("template has no " + PostsToken + " placeholder")

//go:embed templates/posts.html
var DefaultTemplate string

const postBlock = `<article class="post">
  <header><span class="post-author"></span><span class="post-date"></span></header>
  <div class="post-categories"></div>
  <p class="post-content"></p>
  <div class="post-stats"><span class="post-likes"></span></div>
  <ul class="post-comments"></ul>
</article>`

const commentItem = `<li class="comment"><span class="comment-author"></span> <span class="comment-date"></span><p class="comment-content"></p></li>`

// LoadTemplate returns the template at path, or DefaultTemplate when path
// is empty.
func LoadTemplate(path string) (string, error) {
	if path == "" {
		return DefaultTemplate, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read HTML template: %w", err)
	}
	return string(data), nil
}

// RenderHTML replaces PostsToken in tmpl with one block per post. All text
// taken from the posts is HTML-escaped.
func RenderHTML(tmpl string, posts []types.Post) (string, error) {
	if !strings.Contains(tmpl, PostsToken) {
		return "", ErrNoToken
	}

	blocks := make([]string, 0, len(posts))
	for i, post := range posts {
		block, err := renderPost(post)
		if err != nil {
			return "", fmt.Errorf("failed to render post %d: %w", i+1, err)
		}
		blocks = append(blocks, block)
	}
	return strings.Replace(tmpl, PostsToken, strings.Join(blocks, "\n"), 1), nil
}

func renderPost(post types.Post) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(postBlock))
	if err != nil {
		return "", err
	}
	article := doc.Find("article.post")

	article.Find(".post-author").SetText(author(post.SocialID))
	article.Find(".post-date").SetText(displayDate(post.Date))

	categories := article.Find(".post-categories")
	for _, c := range post.Categories {
		name, ok := types.Text(c.Name)
		if !ok {
			continue
		}
		categories.AppendHtml(`<span class="tag"></span>`)
		categories.Find("span.tag").Last().SetText(name)
	}

	content, _ := types.Text(post.Content)
	article.Find(".post-content").SetText(content)
	article.Find(".post-likes").SetText(likeCount(len(post.Likes)))

	comments := article.Find(".post-comments")
	if len(post.Comments) == 0 {
		comments.Remove()
	}
	for _, c := range post.Comments {
		comments.AppendHtml(commentItem)
		item := comments.Find("li.comment").Last()
		item.Find(".comment-author").SetText(author(c.SocialID))
		item.Find(".comment-date").SetText(displayDate(c.Date))
		text, _ := types.Text(c.Content)
		item.Find(".comment-content").SetText(text)
	}

	return goquery.OuterHtml(article)
}

func author(socialID *types.Scalar) string {
	if socialID == nil {
		return "Unknown user"
	}
	return "User " + socialID.String()
}

// displayDate shows the ISO form when the source date is well formed and
// the raw text otherwise.
func displayDate(p *string) string {
	raw, ok := types.Text(p)
	if !ok {
		return ""
	}
	if d, err := utils.ReformatDate(raw); err == nil {
		return d
	}
	return raw
}

func likeCount(n int) string {
	if n == 1 {
		return "1 like"
	}
	return fmt.Sprintf("%d likes", n)
}
