package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ConfigName is the settings file name; ConfigNames lists every accepted
// spelling in lookup order.
const ConfigName = "bslcheck.toml"

var ConfigNames = []string{ConfigName, "." + ConfigName}

// FindConfig looks for a settings file in start (or its directory, for a
// file) and then in each parent. Поиск не выходит за корень репозитория:
// каталог с .git проверяется последним.
func FindConfig(start string) (path string, ok bool, err error) {
	if start == "" {
		start = "."
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf("resolve %q: %w", start, err)
	}
	if st, err := os.Stat(dir); err == nil && !st.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		for _, name := range ConfigNames {
			candidate := filepath.Join(dir, name)
			switch _, err := os.Stat(candidate); {
			case err == nil:
				return candidate, true, nil
			case !errors.Is(err, fs.ErrNotExist):
				return "", false, fmt.Errorf("stat %q: %w", candidate, err)
			}
		}
		if isRepoRoot(dir) {
			return "", false, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func isRepoRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}
