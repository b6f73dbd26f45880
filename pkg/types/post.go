package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PostData is the top-level input document.
type PostData struct {
	Posts []Post `json:"posts"`
}

type Post struct {
	ID         *Scalar    `json:"id"`
	SocialID   *Scalar    `json:"social_id"`
	Content    *string    `json:"content"`
	Date       *string    `json:"date"`
	Categories []Category `json:"categories"`
	Comments   []Comment  `json:"comments"`
	Likes      []Like     `json:"likes"`
	Tags       []Tag      `json:"tags"`
}

type Category struct {
	ID                *Scalar `json:"id"`
	Name              *string `json:"name"`
	DetailDescription *string `json:"detail_description"`
}

type Comment struct {
	ID       *Scalar `json:"id"`
	Content  *string `json:"content"`
	Date     *string `json:"date"`
	SocialID *Scalar `json:"social_id"`
	Tags     []Tag   `json:"tags"`
	Likes    []Like  `json:"likes"`
}

// Like is shared by post likes and comment likes.
type Like struct {
	ID       *Scalar `json:"id"`
	Date     *string `json:"date"`
	SocialID *Scalar `json:"social_id"`
}

// Tag is shared by post tags and comment tags.
type Tag struct {
	ID             *Scalar `json:"id"`
	TaggedSocialID *Scalar `json:"tagged_social_id"`
}

// Scalar keeps a JSON number or string in its textual form so identifiers
// can be coerced later without losing what the source actually contained.
// A nil *Scalar means the field was absent or null.
type Scalar string

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty scalar")
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = Scalar(text)
	case '{', '[':
		return fmt.Errorf("expected number or string, got %s", data)
	default:
		*s = Scalar(data)
	}
	return nil
}

func (s Scalar) String() string {
	return string(s)
}

// Text returns the value of an optional string field and whether it was set.
func Text(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}
