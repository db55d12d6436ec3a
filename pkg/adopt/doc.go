// Package adopt folds existing unmanaged things into owl's management:
// files are moved into the configuration source tree and replaced by the
// configured link mode, and installed-but-unconfigured packages can be
// taken over interactively.
package adopt
