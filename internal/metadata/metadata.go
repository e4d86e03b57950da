// Package metadata parses the optional per-leaf info.json companion file.
//
// The file is written by hand, so parsing is forgiving in shape (the youtube
// field accepts a single link or a list) but strict about types; a malformed
// file surfaces as an error the scanner downgrades to a warning.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Info is the metadata a leaf may carry alongside its score.
type Info struct {
	YouTube StringList `json:"youtube,omitempty"`
	Spotify string     `json:"spotify,omitempty"`
}

// StringList accepts either a JSON string or an array of strings.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = nil
		return nil
	}
	if strings.HasPrefix(trimmed, "\"") {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		*s = StringList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("youtube must be a string or list of strings: %w", err)
	}
	*s = StringList(many)
	return nil
}

// Load reads and parses the metadata file at path.
func Load(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	return &info, nil
}
