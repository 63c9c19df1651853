package media

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed targets.yaml
var defaultTargets []byte

type targetList struct {
	Pages []string `yaml:"pages"`
}

// Targets returns the curated page identifiers in fill order. An empty
// path selects the embedded list.
func Targets(path string) ([]string, error) {
	data := defaultTargets
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read targets: %w", err)
		}
	}
	return ParseTargets(data)
}

// ParseTargets decodes a target list document. Blank and repeated
// identifiers are dropped; the first occurrence keeps its position.
func ParseTargets(data []byte) ([]string, error) {
	var list targetList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parse targets: %w", err)
	}

	seen := make(map[string]struct{}, len(list.Pages))
	out := make([]string, 0, len(list.Pages))
	for _, p := range list.Pages {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, errors.New("target list is empty")
	}
	return out, nil
}
