// pkg/planner/planner_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None (planning is pure)
// PURPOSE: Verify three-way diff classification and plan ordering

package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/owl/pkg/config"
	"github.com/arthur-debert/owl/pkg/planner"
	"github.com/arthur-debert/owl/pkg/statestore"
	"github.com/arthur-debert/owl/pkg/types"
)

// effective builds a minimal effective config from entries.
func effective(t *testing.T, entries ...types.ManagedEntry) *config.Effective {
	t.Helper()

	cfg := &config.Config{Entries: entries}
	eff, err := cfg.ForHost("testhost")
	require.NoError(t, err)
	return eff
}

func TestPlan_Classification(t *testing.T) {
	const (
		srcSum  = "aaa111"
		liveSum = "bbb222"
	)

	entry := types.ManagedEntry{Source: "bashrc", Target: "/home/u/.bashrc", Mode: types.LinkModeCopy}
	source := types.SourceInfo{AbsPath: "/src/bashrc", Fingerprint: srcSum}

	tests := []struct {
		name          string
		observation   types.FilesystemObservation
		record        *types.StateRecord
		source        types.SourceInfo
		wantKind      types.ActionKind
		wantRationale string
	}{
		{
			name:        "missing_target_creates",
			observation: types.FilesystemObservation{Target: entry.Target},
			source:      source,
			wantKind:    types.ActionCreate,
		},
		{
			name: "matching_content_skips",
			observation: types.FilesystemObservation{
				Target: entry.Target, Exists: true, Kind: types.KindFile, Fingerprint: srcSum,
			},
			record:   &types.StateRecord{Target: entry.Target, Fingerprint: srcSum},
			source:   source,
			wantKind: types.ActionSkip,
		},
		{
			name: "engine_owned_drift_updates",
			observation: types.FilesystemObservation{
				Target: entry.Target, Exists: true, Kind: types.KindFile, Fingerprint: liveSum,
			},
			record:        &types.StateRecord{Target: entry.Target, Fingerprint: liveSum},
			source:        source,
			wantKind:      types.ActionUpdate,
			wantRationale: "source content changed",
		},
		{
			name: "unmanaged_modification_conflicts",
			observation: types.FilesystemObservation{
				Target: entry.Target, Exists: true, Kind: types.KindFile, Fingerprint: liveSum,
			},
			record:        &types.StateRecord{Target: entry.Target, Fingerprint: "ccc333"},
			source:        source,
			wantKind:      types.ActionConflict,
			wantRationale: "unmanaged modification",
		},
		{
			name: "never_managed_existing_file_conflicts",
			observation: types.FilesystemObservation{
				Target: entry.Target, Exists: true, Kind: types.KindFile, Fingerprint: liveSum,
			},
			source:        source,
			wantKind:      types.ActionConflict,
			wantRationale: "unmanaged modification",
		},
		{
			name: "directory_at_target_conflicts",
			observation: types.FilesystemObservation{
				Target: entry.Target, Exists: true, Kind: types.KindDir,
			},
			source:        source,
			wantKind:      types.ActionConflict,
			wantRationale: "target is a directory",
		},
		{
			name:          "missing_source_conflicts",
			observation:   types.FilesystemObservation{Target: entry.Target},
			source:        types.SourceInfo{Missing: true},
			wantKind:      types.ActionConflict,
			wantRationale: "source file missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := statestore.NewState()
			if tt.record != nil {
				state.Set(*tt.record)
			}

			plan := planner.Plan(planner.Input{
				Config:       effective(t, entry),
				State:        state,
				Observations: map[string]types.FilesystemObservation{entry.Target: tt.observation},
				Sources:      map[string]types.SourceInfo{entry.Target: tt.source},
			})

			require.Len(t, plan.Actions, 1)
			assert.Equal(t, tt.wantKind, plan.Actions[0].Kind)
			if tt.wantRationale != "" {
				assert.Equal(t, tt.wantRationale, plan.Actions[0].Rationale)
			}
		})
	}
}

func TestPlan_SymlinkSatisfaction(t *testing.T) {
	entry := types.ManagedEntry{Source: "vimrc", Target: "/home/u/.vimrc", Mode: types.LinkModeSymlink}
	source := types.SourceInfo{AbsPath: "/src/vimrc", Fingerprint: "sum"}

	t.Run("link_to_source_skips", func(t *testing.T) {
		plan := planner.Plan(planner.Input{
			Config: effective(t, entry),
			State:  statestore.NewState(),
			Observations: map[string]types.FilesystemObservation{
				entry.Target: {Target: entry.Target, Exists: true, Kind: types.KindSymlink, LinkDest: "/src/vimrc", Fingerprint: "sum"},
			},
			Sources: map[string]types.SourceInfo{entry.Target: source},
		})
		require.Len(t, plan.Actions, 1)
		assert.Equal(t, types.ActionSkip, plan.Actions[0].Kind)
	})

	t.Run("link_elsewhere_conflicts", func(t *testing.T) {
		plan := planner.Plan(planner.Input{
			Config: effective(t, entry),
			State:  statestore.NewState(),
			Observations: map[string]types.FilesystemObservation{
				entry.Target: {Target: entry.Target, Exists: true, Kind: types.KindSymlink, LinkDest: "/elsewhere", Fingerprint: "other"},
			},
			Sources: map[string]types.SourceInfo{entry.Target: source},
		})
		require.Len(t, plan.Actions, 1)
		assert.Equal(t, types.ActionConflict, plan.Actions[0].Kind)
	})
}

func TestPlan_OrphanDetection(t *testing.T) {
	// StateRecord for ~/.vimrc exists but the entry is gone from the
	// configuration: the plan proposes removal, nothing more.
	state := statestore.NewState()
	state.Set(types.StateRecord{Target: "/home/u/.vimrc", Fingerprint: "sum"})

	plan := planner.Plan(planner.Input{
		Config:       effective(t),
		State:        state,
		Observations: map[string]types.FilesystemObservation{},
		Sources:      map[string]types.SourceInfo{},
	})

	require.Len(t, plan.Actions, 1)
	assert.Equal(t, types.ActionRemove, plan.Actions[0].Kind)
	assert.Equal(t, "/home/u/.vimrc", plan.Actions[0].Target)
	assert.Equal(t, "no longer configured", plan.Actions[0].Rationale)
	assert.Nil(t, plan.Actions[0].Entry)
}

func TestPlan_DeterministicOrder(t *testing.T) {
	entries := []types.ManagedEntry{
		{Source: "c", Target: "/home/u/.config/nvim/init.lua", Mode: types.LinkModeCopy},
		{Source: "a", Target: "/home/u/.bashrc", Mode: types.LinkModeCopy},
		{Source: "b", Target: "/home/u/.config/git/config", Mode: types.LinkModeCopy},
	}

	sources := make(map[string]types.SourceInfo)
	for _, e := range entries {
		sources[e.Target] = types.SourceInfo{AbsPath: "/src/" + e.Source, Fingerprint: "s"}
	}

	plan := planner.Plan(planner.Input{
		Config:       effective(t, entries...),
		State:        statestore.NewState(),
		Observations: map[string]types.FilesystemObservation{},
		Sources:      sources,
	})

	var targets []string
	for _, action := range plan.Actions {
		targets = append(targets, action.Target)
	}
	assert.Equal(t, []string{
		"/home/u/.bashrc",
		"/home/u/.config/git/config",
		"/home/u/.config/nvim/init.lua",
	}, targets)
}

func TestPlan_Packages(t *testing.T) {
	cfg := &config.Config{
		Packages: []types.PackageSpec{
			{Name: "htop", Backend: "pacman"},
			{Name: "ripgrep", Backend: "pacman"},
		},
	}
	eff, err := cfg.ForHost("testhost")
	require.NoError(t, err)

	state := statestore.NewState()
	state.AddUntrackedPackage("steam")
	state.AddManagedPackage("old-tool")

	plan := planner.Plan(planner.Input{
		Config:       eff,
		State:        state,
		Observations: map[string]types.FilesystemObservation{},
		Sources:      map[string]types.SourceInfo{},
		Installed: map[string]map[string]bool{
			"pacman": {
				"ripgrep":  true, // configured and installed
				"steam":    true, // untracked: stays quiet
				"old-tool": true, // managed but no longer configured
				"stray":    true, // never configured
			},
		},
	})

	byKey := make(map[string]types.PackageAction)
	for _, pa := range plan.Packages {
		byKey[pa.Spec.Key()] = pa
	}

	require.Contains(t, byKey, "pacman/htop")
	assert.Equal(t, types.PackageInstall, byKey["pacman/htop"].Kind)

	assert.NotContains(t, byKey, "pacman/ripgrep")
	assert.NotContains(t, byKey, "pacman/steam")

	require.Contains(t, byKey, "pacman/stray")
	assert.Equal(t, types.PackageReport, byKey["pacman/stray"].Kind)

	require.Contains(t, byKey, "pacman/old-tool")
	assert.Equal(t, types.PackageReport, byKey["pacman/old-tool"].Kind)
	assert.Equal(t, "managed but no longer configured", byKey["pacman/old-tool"].Rationale)
}
