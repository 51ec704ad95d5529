package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Script is a single migration script on disk, e.g. "3_add_users.sql"
// carries index 3.
type Script struct {
	Index int
	Name  string
}

// discoverScripts lists the migration scripts in dir sorted by index. The
// directory is created when it does not exist. Every .sql file must carry a
// numeric prefix.
func discoverScripts(dir string) ([]Script, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory %s: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory %s: %w", dir, err)
	}

	var scripts []Script
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		prefix := strings.SplitN(name, "_", 2)[0]
		index, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %q must start with a number", name)
		}

		scripts = append(scripts, Script{Index: index, Name: name})
	}

	sort.Slice(scripts, func(i, j int) bool {
		if scripts[i].Index != scripts[j].Index {
			return scripts[i].Index < scripts[j].Index
		}
		return scripts[i].Name < scripts[j].Name
	})

	return scripts, nil
}

// CreateScript creates an empty migration script in dir with the next free
// index. An empty name gets a short random one. Returns the path of the new
// file.
func CreateScript(dir, name string) (string, error) {
	scripts, err := discoverScripts(dir)
	if err != nil {
		return "", err
	}

	index := 0
	if len(scripts) > 0 {
		index = scripts[len(scripts)-1].Index
	}

	if name == "" {
		name = uuid.NewString()[:8]
	}

	path := filepath.Join(dir, fmt.Sprintf("%d_%s.sql", index+1, name))
	if err := os.WriteFile(path, nil, 0644); err != nil {
		return "", fmt.Errorf("failed to create migration script %s: %w", path, err)
	}

	return path, nil
}

// readScript returns the SQL body of the given script. An empty script is an
// error, since applying it would record a migration that did nothing.
func readScript(dir string, script Script) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, script.Name))
	if err != nil {
		return "", fmt.Errorf("failed to read migration %q: %w", script.Name, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("migration %q is empty", script.Name)
	}
	return string(data), nil
}
