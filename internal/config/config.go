// Package config loads optional YAML configuration files for the gemdown
// command line tool and validates flag values that need interpretation
// before they become conversion options.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// File mirrors the command line flags in YAML form. Fields are pointers so
// an absent key can be told apart from an explicit zero value.
type File struct {
	ImgTag      *string `yaml:"img_tag,omitempty"`
	Indent      *string `yaml:"indent,omitempty"`
	ASCIITables *bool   `yaml:"ascii_tables,omitempty"`
	Links       *string `yaml:"links,omitempty"`
	Plain       *bool   `yaml:"plain,omitempty"`
	Frontmatter *bool   `yaml:"frontmatter,omitempty"`
	Write       *bool   `yaml:"write,omitempty"`
	Dir         *string `yaml:"dir,omitempty"`
}

// Load reads and unmarshals a configuration file.
func Load(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if file.Indent != nil {
		if _, err := ParseIndent(*file.Indent); err != nil {
			return nil, err
		}
	}

	return &file, nil
}

// ErrInvalidIndent reports an indent specification that is neither a
// non-negative integer nor the word "tab".
var ErrInvalidIndent = errors.New("config: indent must be a non-negative integer or \"tab\"")

// ParseIndent turns the user-facing indent specification into the literal
// indent unit: "tab" means one tab character, an integer means that many
// spaces. Anything else is a configuration error.
func ParseIndent(s string) (string, error) {
	if s == "tab" {
		return "\t", nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidIndent, s)
	}
	return strings.Repeat(" ", n), nil
}
