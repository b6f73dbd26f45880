package sqlgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"post-data-parser/pkg/types"
)

// ErrInputNotFound is returned when the post data file does not exist.
var ErrInputNotFound = errors.New("post data file not found")

// ReadPostData loads and decodes the post document at path.
func ReadPostData(path string) (*types.PostData, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read post data: %w", err)
	}

	var doc types.PostData
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse post data: %w", err)
	}
	return &doc, nil
}
