package commands

import (
	"bytes"

	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/owl/pkg/errors"
)

// ConfigCheck validates the configuration without planning anything.
// Loading and host reduction already happened in NewRuntime, so reaching
// here means the config is sound; the extra checks below catch entries
// whose sources do not exist yet.
func ConfigCheck(rt *Runtime) []error {
	var problems []error
	for _, entry := range rt.Effective.Entries {
		sourceAbs := rt.Paths.SourcePath(entry.Source)
		if _, err := rt.FS.Lstat(sourceAbs); err != nil {
			problems = append(problems, errors.Newf(errors.ErrFileNotFound,
				"entry %s: source %s does not exist", entry.Target, sourceAbs))
		}
	}
	return problems
}

// effectiveDoc is the TOML shape config-host renders.
type effectiveDoc struct {
	Host    string                   `toml:"host"`
	Dots    []map[string]interface{} `toml:"dots,omitempty"`
	Package []map[string]interface{} `toml:"package,omitempty"`
}

// ConfigHost renders the effective host-filtered configuration as TOML.
func ConfigHost(rt *Runtime) (string, error) {
	doc := effectiveDoc{Host: rt.Host}

	for _, entry := range rt.Effective.Entries {
		row := map[string]interface{}{
			"source": entry.Source,
			"target": entry.Target,
			"mode":   string(entry.Mode),
		}
		if entry.Permissions != 0 {
			row["permissions"] = int64(entry.Permissions)
		}
		doc.Dots = append(doc.Dots, row)
	}
	for _, spec := range rt.Effective.Packages {
		doc.Package = append(doc.Package, map[string]interface{}{
			"name":    spec.Name,
			"backend": spec.Backend,
		})
	}

	var buf bytes.Buffer
	enc := gotoml.NewEncoder(&buf)
	if err := enc.Encode(doc); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render effective config")
	}
	return buf.String(), nil
}
