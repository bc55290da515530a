// Package passage loads passage sets from files.
package passage

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadFile reads one passage per line from the provided file path.
func LoadFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only passage file.
			_ = cerr
		}
	}()

	var passages []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		passages = append(passages, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(passages) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return passages, nil
}
