// Package paths provides centralized path handling for owl.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/owl/pkg/errors"
)

// Environment variable names
const (
	// EnvSourceRoot overrides where the managed dotfile sources live
	EnvSourceRoot = "OWL_SOURCE_ROOT"

	// EnvConfigDir overrides the XDG config directory for owl
	EnvConfigDir = "OWL_CONFIG_DIR"

	// EnvDataDir overrides the XDG data directory for owl
	EnvDataDir = "OWL_DATA_DIR"

	// EnvHost overrides the resolved hostname for host filtering
	EnvHost = "OWL_HOST"
)

// Default directories and files. These define owl's on-disk layout and are
// not user-configurable; user-facing settings belong in pkg/config.
const (
	// OwlDirName is the directory name for owl-specific files
	OwlDirName = "owl"

	// DefaultSourceDir is the default source tree name under $HOME
	DefaultSourceDir = ".owl"

	// ConfigFileName is the main configuration file name
	ConfigFileName = "owl.toml"

	// StateFileName is the state store file name
	StateFileName = "state.toml"

	// LockFileName is the advisory run lock file name
	LockFileName = "owl.lock"
)

// Paths provides centralized path management for owl
type Paths interface {
	SourceRoot() string
	SourcePath(relative string) string
	ConfigDir() string
	ConfigFile() string
	HostConfigFile(host string) string
	DataDir() string
	StateFile() string
	LockFile() string
}

type osPaths struct {
	sourceRoot string
	configDir  string
	dataDir    string
}

// New resolves the owl path layout. sourceRoot may be empty, in which case
// OWL_SOURCE_ROOT and then ~/.owl are used.
func New(sourceRoot string) (Paths, error) {
	root := sourceRoot
	if root == "" {
		root = os.Getenv(EnvSourceRoot)
	}
	if root == "" {
		home, err := GetHomeDirectory()
		if err != nil {
			return nil, err
		}
		root = filepath.Join(home, DefaultSourceDir)
	}
	root, err := ExpandHome(root)
	if err != nil {
		return nil, err
	}

	configDir := os.Getenv(EnvConfigDir)
	if configDir == "" {
		configDir = filepath.Join(xdg.ConfigHome, OwlDirName)
	}

	dataDir := os.Getenv(EnvDataDir)
	if dataDir == "" {
		dataDir = filepath.Join(xdg.DataHome, OwlDirName)
	}

	return &osPaths{
		sourceRoot: root,
		configDir:  configDir,
		dataDir:    dataDir,
	}, nil
}

func (p *osPaths) SourceRoot() string {
	return p.sourceRoot
}

func (p *osPaths) SourcePath(relative string) string {
	return filepath.Join(p.sourceRoot, relative)
}

func (p *osPaths) ConfigDir() string {
	return p.configDir
}

func (p *osPaths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

func (p *osPaths) HostConfigFile(host string) string {
	return filepath.Join(p.configDir, fmt.Sprintf("host.%s.toml", host))
}

func (p *osPaths) DataDir() string {
	return p.dataDir
}

func (p *osPaths) StateFile() string {
	return filepath.Join(p.dataDir, StateFileName)
}

func (p *osPaths) LockFile() string {
	return filepath.Join(p.dataDir, LockFileName)
}

// GetHomeDirectory returns the user's home directory.
// It first tries os.UserHomeDir(), then falls back to the HOME environment
// variable. If both fail, it returns an error rather than using dangerous
// defaults.
func GetHomeDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err == nil && homeDir != "" {
		return homeDir, nil
	}

	homeDir = os.Getenv("HOME")
	if homeDir != "" {
		return homeDir, nil
	}

	return "", errors.New(errors.ErrFileAccess, "unable to determine home directory: neither os.UserHomeDir() nor HOME environment variable are available")
}

// ExpandHome expands the ~ character to the user's home directory.
// Returns an error if home directory cannot be determined.
func ExpandHome(path string) (string, error) {
	if path == "~" {
		return GetHomeDirectory()
	}

	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		homeDir, err := GetHomeDirectory()
		if err != nil {
			return "", fmt.Errorf("cannot expand ~: %w", err)
		}
		return filepath.Join(homeDir, path[2:]), nil
	}

	return path, nil
}

// ResolveHost returns the host name used for host filtering. OWL_HOST wins
// so tests and one-off runs can pin the host context.
func ResolveHost() (string, error) {
	if host := os.Getenv(EnvHost); host != "" {
		return host, nil
	}
	host, err := os.Hostname()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "unable to resolve hostname")
	}
	return host, nil
}
