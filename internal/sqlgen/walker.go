package sqlgen

import (
	"github.com/sirupsen/logrus"

	"post-data-parser/pkg/types"
)

// Walker turns a post document into INSERT statements. It owns the
// CategoryDetail id sequence, which starts at 1 and is shared by every Walk
// made through the same Walker.
type Walker struct {
	logger       *logrus.Logger
	nextDetailID int64
	log          *Log
}

func NewWalker(logger *logrus.Logger) *Walker {
	return &Walker{
		logger:       logger,
		nextDetailID: 1,
	}
}

// NextDetailID is the id the next CategoryDetail row will receive.
func (w *Walker) NextDetailID() int64 {
	return w.nextDetailID
}

// Walk emits statements in document order: each post, then its categories,
// its comments (with their tags and likes), its likes and its tags. The
// first value that cannot be sanitized aborts the walk.
func (w *Walker) Walk(doc *types.PostData) (*Log, error) {
	w.log = NewLog()
	defer func() { w.log = nil }()

	if doc == nil || doc.Posts == nil {
		w.logger.Warn("Post data has no posts, nothing to generate")
		return NewLog(), nil
	}

	for i, post := range doc.Posts {
		if err := w.walkPost(post); err != nil {
			w.logger.Errorf("Failed to parse post %d: %v", i+1, err)
			return nil, err
		}
	}

	w.logger.Infof("Post data parsed successfully: %d posts, %d statements", len(doc.Posts), w.log.Len())
	return w.log, nil
}

func (w *Walker) walkPost(post types.Post) error {
	if err := w.emit(BuildPost(post)); err != nil {
		return err
	}

	for _, category := range post.Categories {
		if err := w.walkCategory(category); err != nil {
			return err
		}
	}

	for _, comment := range post.Comments {
		if err := w.walkComment(comment, post); err != nil {
			return err
		}
	}

	for _, like := range post.Likes {
		if err := w.emit(BuildPostLike(like, post)); err != nil {
			return err
		}
	}

	for _, tag := range post.Tags {
		if err := w.emit(BuildPostTag(tag, post)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) walkCategory(category types.Category) error {
	rec, err := BuildPostCategory(category)
	if err != nil {
		return err
	}
	stmt, err := NewStatement(rec)
	if err != nil {
		return err
	}
	if !w.log.AppendUnique(stmt) {
		w.logger.Debugf("Skipping duplicate category %q", rec.Fields[0].Value)
	}

	if category.DetailDescription == nil {
		return nil
	}
	if err := w.emit(BuildCategoryDetail(w.nextDetailID, category)); err != nil {
		return err
	}
	w.nextDetailID++
	return nil
}

func (w *Walker) walkComment(comment types.Comment, post types.Post) error {
	if err := w.emit(BuildPostComment(comment, post)); err != nil {
		return err
	}
	for _, tag := range comment.Tags {
		if err := w.emit(BuildCommentTag(tag, comment)); err != nil {
			return err
		}
	}
	for _, like := range comment.Likes {
		if err := w.emit(BuildCommentLike(like, comment)); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) emit(rec Record, err error) error {
	if err != nil {
		return err
	}
	stmt, err := NewStatement(rec)
	if err != nil {
		return err
	}
	w.log.Append(stmt)
	return nil
}
