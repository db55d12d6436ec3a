// pkg/resolver/resolver_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None (stub prompter)
// PURPOSE: Verify the approval policy for each action kind and run mode

package resolver_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/owl/pkg/resolver"
	"github.com/arthur-debert/owl/pkg/types"
)

// scriptedPrompter answers every prompt with a fixed result and records
// which actions it was asked about.
type scriptedPrompter struct {
	answer bool
	err    error
	asked  []types.Action
}

func (p *scriptedPrompter) Confirm(action types.Action) (bool, error) {
	p.asked = append(p.asked, action)
	return p.answer, p.err
}

func TestResolve_PolicyTable(t *testing.T) {
	tests := []struct {
		name         string
		kind         types.ActionKind
		mode         types.RunMode
		force        bool
		answer       bool
		wantDecision types.Decision
		wantPrompted bool
	}{
		{
			name:         "create_always_approved",
			kind:         types.ActionCreate,
			mode:         types.ModeNonInteractive,
			wantDecision: types.DecisionApproved,
		},
		{
			name:         "update_always_approved",
			kind:         types.ActionUpdate,
			mode:         types.ModeNonInteractive,
			wantDecision: types.DecisionApproved,
		},
		{
			name:         "skip_passes_through",
			kind:         types.ActionSkip,
			mode:         types.ModeInteractive,
			wantDecision: types.DecisionApproved,
		},
		{
			name:         "conflict_noninteractive_skipped",
			kind:         types.ActionConflict,
			mode:         types.ModeNonInteractive,
			wantDecision: types.DecisionSkipped,
		},
		{
			name:         "conflict_noninteractive_force_still_skipped",
			kind:         types.ActionConflict,
			mode:         types.ModeNonInteractive,
			force:        true,
			wantDecision: types.DecisionSkipped,
		},
		{
			name:         "conflict_interactive_approved",
			kind:         types.ActionConflict,
			mode:         types.ModeInteractive,
			answer:       true,
			wantDecision: types.DecisionApproved,
			wantPrompted: true,
		},
		{
			name:         "conflict_interactive_declined",
			kind:         types.ActionConflict,
			mode:         types.ModeInteractive,
			answer:       false,
			wantDecision: types.DecisionSkipped,
			wantPrompted: true,
		},
		{
			name:         "remove_noninteractive_skipped",
			kind:         types.ActionRemove,
			mode:         types.ModeNonInteractive,
			wantDecision: types.DecisionSkipped,
		},
		{
			name:         "remove_noninteractive_force_approved",
			kind:         types.ActionRemove,
			mode:         types.ModeNonInteractive,
			force:        true,
			wantDecision: types.DecisionApproved,
		},
		{
			name:         "remove_interactive_declined",
			kind:         types.ActionRemove,
			mode:         types.ModeInteractive,
			answer:       false,
			wantDecision: types.DecisionSkipped,
			wantPrompted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompter := &scriptedPrompter{answer: tt.answer}
			r := resolver.New(resolver.Options{
				Mode:     tt.mode,
				Force:    tt.force,
				Prompter: prompter,
			})

			plan := &types.Plan{Actions: []types.Action{
				{Kind: tt.kind, Target: "/home/u/.bashrc"},
			}}
			resolved, err := r.Resolve(plan)
			require.NoError(t, err)
			require.Len(t, resolved.Actions, 1)

			assert.Equal(t, tt.wantDecision, resolved.Actions[0].Decision)
			if tt.wantPrompted {
				assert.Len(t, prompter.asked, 1)
			} else {
				assert.Empty(t, prompter.asked)
			}
		})
	}
}

func TestResolve_NoPrompterDefaultsToSkip(t *testing.T) {
	// Interactive mode without a working prompter must never approve a
	// destructive action.
	r := resolver.New(resolver.Options{Mode: types.ModeInteractive})

	plan := &types.Plan{Actions: []types.Action{
		{Kind: types.ActionConflict, Target: "/home/u/.bashrc"},
		{Kind: types.ActionRemove, Target: "/home/u/.vimrc"},
	}}
	resolved, err := r.Resolve(plan)
	require.NoError(t, err)

	for _, ra := range resolved.Actions {
		assert.Equal(t, types.DecisionSkipped, ra.Decision)
	}
}

func TestResolve_PrompterError(t *testing.T) {
	prompter := &scriptedPrompter{err: errors.New("terminal gone")}
	r := resolver.New(resolver.Options{Mode: types.ModeInteractive, Prompter: prompter})

	plan := &types.Plan{Actions: []types.Action{
		{Kind: types.ActionConflict, Target: "/home/u/.bashrc"},
	}}
	_, err := r.Resolve(plan)
	assert.Error(t, err)
}

func TestResolve_PartitionsPlan(t *testing.T) {
	r := resolver.New(resolver.Options{Mode: types.ModeNonInteractive})

	plan := &types.Plan{Actions: []types.Action{
		{Kind: types.ActionCreate, Target: "/a"},
		{Kind: types.ActionConflict, Target: "/b"},
		{Kind: types.ActionUpdate, Target: "/c"},
		{Kind: types.ActionRemove, Target: "/d"},
	}}
	resolved, err := r.Resolve(plan)
	require.NoError(t, err)

	var approved, skipped []string
	for _, ra := range resolved.Approved() {
		approved = append(approved, ra.Target)
	}
	for _, ra := range resolved.Skipped() {
		skipped = append(skipped, ra.Action.Target)
	}
	assert.Equal(t, []string{"/a", "/c"}, approved)
	assert.Equal(t, []string{"/b", "/d"}, skipped)
}
