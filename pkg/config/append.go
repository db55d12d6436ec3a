package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/owl/pkg/errors"
	"github.com/arthur-debert/owl/pkg/types"
)

// appendedEntry is the TOML shape written for one adopted or added dotfile.
type appendedEntry struct {
	Dots []map[string]interface{} `toml:"dots"`
}

// AppendEntry appends a [[dots]] table for the entry to the user's config
// file, creating the file if needed. The rest of the file is left untouched
// so user formatting and comments survive.
func AppendEntry(configPath string, entry types.ManagedEntry) error {
	table := map[string]interface{}{
		"source": entry.Source,
		"target": entry.Target,
	}
	if entry.Mode != "" && entry.Mode != types.LinkModeSymlink {
		table["mode"] = string(entry.Mode)
	}
	if len(entry.Hosts) > 0 {
		table["hosts"] = []string(entry.Hosts)
	}
	if entry.Permissions != 0 {
		table["permissions"] = int64(entry.Permissions)
	}

	block, err := gotoml.Marshal(appendedEntry{Dots: []map[string]interface{}{table}})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render dots entry")
	}

	return appendBlock(configPath, string(block))
}

// AppendPackage appends a [[package]] table for the spec to the user's
// config file, creating the file if needed. Returns false when the package
// is already present.
func AppendPackage(configPath string, spec types.PackageSpec) (bool, error) {
	if present, err := filePackageExists(configPath, spec); err != nil {
		return false, err
	} else if present {
		return false, nil
	}

	var b strings.Builder
	b.WriteString("\n[[package]]\n")
	fmt.Fprintf(&b, "name = %q\n", spec.Name)
	if spec.Backend != "" {
		fmt.Fprintf(&b, "backend = %q\n", spec.Backend)
	}

	if err := appendBlock(configPath, b.String()); err != nil {
		return false, err
	}
	return true, nil
}

func filePackageExists(configPath string, spec types.PackageSpec) (bool, error) {
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrConfigLoad, "failed to read %s", configPath)
	}

	var raw rawConfig
	if err := gotoml.Unmarshal(data, &raw); err != nil {
		// Fall back to a line scan when the file does not parse, so a
		// broken config cannot cause duplicate appends.
		return strings.Contains(string(data), fmt.Sprintf("name = %q", spec.Name)), nil
	}
	for _, name := range raw.Packages {
		if name == spec.Name {
			return true, nil
		}
	}
	for _, pkg := range raw.Package {
		if pkg.Name == spec.Name && (pkg.Backend == spec.Backend || pkg.Backend == "" || spec.Backend == "") {
			return true, nil
		}
	}
	return false, nil
}

func appendBlock(configPath, block string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create config directory for %s", configPath)
	}

	f, err := os.OpenFile(configPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to open %s", configPath)
	}
	defer func() { _ = f.Close() }()

	if !strings.HasPrefix(block, "\n") {
		block = "\n" + block
	}
	if _, err := f.WriteString(block); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to append to %s", configPath)
	}
	return nil
}
