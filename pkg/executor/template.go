package executor

import (
	"bytes"
	"os"
	"strings"
	"text/template"

	"github.com/arthur-debert/owl/pkg/errors"
	"github.com/arthur-debert/owl/pkg/types"
)

// templateData is what a template-mode source can reference.
type templateData struct {
	Host string
	Env  map[string]string
}

// RenderTemplate executes a template-mode source against the host context
// and the current environment. Planning and execution both render through
// it, so a template entry's desired fingerprint is always computed over
// the rendered bytes, not the raw source.
func RenderTemplate(fsys types.FS, sourcePath, host string) ([]byte, error) {
	raw, err := fsys.ReadFile(sourcePath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read template %s", sourcePath)
	}

	tmpl, err := template.New("entry").Option("missingkey=zero").Parse(string(raw))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "invalid template %s", sourcePath)
	}

	data := templateData{Host: host, Env: environMap()}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "failed to render template %s", sourcePath)
	}
	return buf.Bytes(), nil
}

func (e *Executor) render(sourcePath string) ([]byte, error) {
	return RenderTemplate(e.fs, sourcePath, e.host)
}

func environMap() map[string]string {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	return env
}
