package source

import (
	"fmt"
	"strings"
)

// Source yields the labels of a render batch.
type Source interface {
	Count() int
	Label(index int) (string, error)
	Close() error
}

// ListSource serves labels held in memory (command line arguments or the
// configured default text).
type ListSource struct {
	labels []string
}

// NewListSource keeps the non-blank labels, trimmed.
func NewListSource(labels ...string) *ListSource {
	var kept []string
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return &ListSource{labels: kept}
}

func (s *ListSource) Count() int {
	return len(s.labels)
}

func (s *ListSource) Label(index int) (string, error) {
	if index < 0 || index >= len(s.labels) {
		return "", fmt.Errorf("label %d out of range [0,%d)", index, len(s.labels))
	}
	return s.labels[index], nil
}

func (s *ListSource) Close() error {
	return nil
}

// All drains a source into a slice.
func All(src Source) ([]string, error) {
	out := make([]string, 0, src.Count())
	for i := 0; i < src.Count(); i++ {
		l, err := src.Label(i)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, nil
}
