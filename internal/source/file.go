package source

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// NewFileSource reads one label per line from path. Blank lines and lines
// starting with '#' are skipped.
func NewFileSource(path string) (*ListSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var labels []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read labels %s: %w", path, err)
	}
	return NewListSource(labels...), nil
}
