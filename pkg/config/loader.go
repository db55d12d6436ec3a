package config

import (
	"os"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/owl/pkg/errors"
	"github.com/arthur-debert/owl/pkg/logging"
	"github.com/arthur-debert/owl/pkg/paths"
	"github.com/arthur-debert/owl/pkg/types"
)

// Load reads the layered configuration for the given host: embedded
// defaults, then the user's owl.toml, then the host overlay if present.
// A missing user config is not an error; owl then manages nothing until
// entries are added.
func Load(p paths.Paths, host string) (*Config, error) {
	logger := logging.GetLogger("config")

	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	userConfig := p.ConfigFile()
	if _, err := os.Stat(userConfig); err == nil {
		if err := k.Load(file.Provider(userConfig), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", userConfig)
		}
		logger.Debug().Str("path", userConfig).Msg("Loaded user config")
	} else {
		logger.Debug().Str("path", userConfig).Msg("No user config found")
	}

	hostConfig := p.HostConfigFile(host)
	if _, err := os.Stat(hostConfig); err == nil {
		if err := k.Load(file.Provider(hostConfig), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse host overlay %s", hostConfig)
		}
		logger.Debug().Str("path", hostConfig).Str("host", host).Msg("Loaded host overlay")
	}

	var raw rawConfig
	if err := k.Unmarshal("", &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	return fromRaw(&raw)
}

// fromRaw validates the raw file layout into a Config.
func fromRaw(raw *rawConfig) (*Config, error) {
	cfg := &Config{Settings: raw.Settings}

	for _, d := range raw.Dots {
		if d.Target == "" {
			return nil, errors.Newf(errors.ErrConfigInvalid, "dots entry with source %q has no target", d.Source)
		}
		if d.Source == "" {
			return nil, errors.Newf(errors.ErrConfigInvalid, "dots entry for target %q has no source", d.Target)
		}

		modeStr := d.Mode
		if modeStr == "" {
			modeStr = raw.Settings.LinkMode
		}
		mode, err := types.ParseLinkMode(modeStr)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "dots entry for target %q", d.Target)
		}

		cfg.Entries = append(cfg.Entries, types.ManagedEntry{
			Source:      d.Source,
			Target:      d.Target,
			Mode:        mode,
			Hosts:       types.HostFilter(d.Hosts),
			Permissions: permMode(d.Permissions),
		})
	}

	seen := make(map[string]bool)
	addPackage := func(name, backend string, hosts []string) error {
		if name == "" {
			return errors.New(errors.ErrConfigInvalid, "package entry with empty name")
		}
		if backend == "" {
			backend = raw.Settings.Backend
		}
		spec := types.PackageSpec{Name: name, Backend: backend, Hosts: types.HostFilter(hosts)}
		if !seen[spec.Key()] {
			seen[spec.Key()] = true
			cfg.Packages = append(cfg.Packages, spec)
		}
		return nil
	}

	for _, name := range raw.Packages {
		if err := addPackage(name, "", nil); err != nil {
			return nil, err
		}
	}
	for _, pkg := range raw.Package {
		if err := addPackage(pkg.Name, pkg.Backend, pkg.Hosts); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}
