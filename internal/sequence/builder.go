// Package sequence implements the Sequence Builder (§4.F) and Sequence
// Runner (§4.G): turning a flat, unordered list of plugin.Handler records
// into a deterministic per-stage execution order, then running that order
// strictly sequentially.
package sequence

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/otopi-go/otopi/internal/environment"
	"github.com/otopi-go/otopi/internal/plugin"
	"github.com/otopi-go/otopi/internal/stage"
	apperrors "github.com/otopi-go/otopi/pkg/errors"
)

const maxSubPassIterations = 400
const maxOuterIterations = 400

// BuildOptions configures the builder beyond what lives in the environment
// store (RANDOMIZE_EVENTS, FAIL_ON_PRIO_OVERRIDE are both read from env).
type BuildOptions struct {
	// StrictOrdering, when true, runs a DFS cycle precheck over the
	// before/after name graph before the fixed-point repair loop, turning
	// an eventual 400-iteration BuildError into an immediate, readable
	// one naming the offending cycle. Off by default to match the
	// original's behavior exactly (spec.md's Open Question: kept
	// opt-in rather than replacing the 400-iteration bound outright).
	StrictOrdering bool
	// DebugLog receives early-debug-style diagnostic lines (constraint
	// repairs, priority-inversion warnings). May be nil.
	DebugLog func(string)
}

// Sequence is the Builder's output: a stage's handlers in final execution
// order, indexed by stage. Stages with no handlers are simply absent.
type Sequence map[stage.Stage][]plugin.Handler

// Build runs the full builder algorithm over handlers and returns the
// resulting per-stage Sequence, or a BuildError (via pkg/errors) for an
// unresolved constraint loop or a fatal priority inversion.
func Build(handlers []plugin.Handler, env *environment.Store, opts BuildOptions) (Sequence, error) {
	debug := opts.DebugLog
	if debug == nil {
		debug = func(string) {}
	}

	list := append([]plugin.Handler(nil), handlers...)

	if env.GetBool(string(environment.RandomizeEvents)) {
		rand.Shuffle(len(list), func(i, j int) { list[i], list[j] = list[j], list[i] })
	} else {
		sort.SliceStable(list, func(i, j int) bool { return list[i].MethodID < list[j].MethodID })
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].Priority < list[j].Priority })

	if opts.StrictOrdering {
		if cycle := cycleAmong(list); len(cycle) > 0 {
			return nil, apperrors.NewBuildError("before/after constraint cycle detected: " + joinNames(cycle))
		}
	}

	modifiedOuter := false
	for i := 0; i < maxOuterIterations; i++ {
		modifiedBefore, err := repairPass(&list, beforeNames, func(candidate, index int) bool { return candidate < index }, 0, debug)
		if err != nil {
			return nil, err
		}
		modifiedAfter, err := repairPass(&list, afterNames, func(candidate, index int) bool { return candidate > index }, 1, debug)
		if err != nil {
			return nil, err
		}
		modifiedOuter = modifiedBefore || modifiedAfter
		if !modifiedOuter {
			break
		}
		if i == maxOuterIterations-1 && modifiedOuter {
			return nil, apperrors.NewBuildError("sequence build loop detected")
		}
	}

	seq := make(Sequence)
	for _, h := range list {
		seq[h.Stage] = append(seq[h.Stage], h)
	}

	stages := make([]stage.Stage, 0, len(seq))
	for st := range seq {
		stages = append(stages, st)
	}
	sort.Slice(stages, func(i, j int) bool { return stage.Ordinal(stages[i]) < stage.Ordinal(stages[j]) })

	var inversions []string
	for _, st := range stages {
		methods := seq[st]
		for i := 0; i < len(methods)-1; i++ {
			if methods[i].Priority > methods[i+1].Priority {
				inversions = append(inversions, inversionMessage(st, methods[i], methods[i+1]))
			}
		}
	}
	if len(inversions) > 0 {
		msg := joinLines(inversions)
		debug(msg)
		if env.GetBool(string(environment.FailOnPrioOverride)) {
			return nil, apperrors.NewBuildError(msg)
		}
	}

	return seq, nil
}

func beforeNames(h plugin.Handler) []string { return h.Before }
func afterNames(h plugin.Handler) []string  { return h.After }

// repairPass runs one KISS-mode sub-pass (either the "before" or "after"
// pass) to a fixed point, bounded at maxSubPassIterations. offset is 0 for
// before (target the minimum matching index, insert at the match) and 1 for
// after (target the maximum matching index, insert just past the match);
// better decides whether the handler must move to that target.
func repairPass(listPtr *[]plugin.Handler, names func(plugin.Handler) []string, better func(candidate, index int) bool, offset int, debug func(string)) (bool, error) {
	list := *listPtr
	everModified := false
	modified := false

	for limit := 0; limit < maxSubPassIterations; limit++ {
		modified = false
		for index := 0; index < len(list); index++ {
			wanted := names(list[index])
			if len(wanted) == 0 {
				continue
			}
			candidate, ok := matchIndex(list, wanted, offset == 0)
			if !ok || !better(candidate, index) {
				continue
			}
			debug("modifying location: constraint repair")
			list = moveElement(list, index, candidate, offset)
			modified = true
			everModified = true
			break
		}
		if !modified {
			break
		}
		if limit == maxSubPassIterations-1 && modified {
			*listPtr = list
			return everModified, apperrors.NewBuildError("sequence build loop detected")
		}
	}

	*listPtr = list
	return everModified, nil
}

// matchIndex returns the min (wantMin=true, for "before") or max
// (wantMin=false, for "after") index among entries whose Name is in names.
// ok is false if no entry matches — an unknown before/after target name is
// silently treated as "no constraint", per spec.md's documented failure
// mode.
func matchIndex(list []plugin.Handler, names []string, wantMin bool) (int, bool) {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}

	found := false
	best := 0
	for i, h := range list {
		if _, ok := set[h.Name]; !ok {
			continue
		}
		if !found {
			best = i
			found = true
			continue
		}
		if wantMin && i < best {
			best = i
		}
		if !wantMin && i > best {
			best = i
		}
	}
	return best, found
}

// moveElement relocates the handler at index to candidate+offset: insert
// first, then delete the original — mirroring the original's
// `list.insert(candidateindex + offset, metadata)` followed by
// `del list[index + 1]` (if candidate < index) or `del list[index]`
// (otherwise), evaluated against the post-insertion list.
func moveElement(list []plugin.Handler, index, candidate, offset int) []plugin.Handler {
	elem := list[index]
	insertPos := candidate + offset

	withInsert := make([]plugin.Handler, 0, len(list)+1)
	withInsert = append(withInsert, list[:insertPos]...)
	withInsert = append(withInsert, elem)
	withInsert = append(withInsert, list[insertPos:]...)

	deleteAt := index
	if candidate < index {
		deleteAt = index + 1
	}

	out := make([]plugin.Handler, 0, len(list))
	out = append(out, withInsert[:deleteAt]...)
	out = append(out, withInsert[deleteAt+1:]...)
	return out
}

func cycleAmong(list []plugin.Handler) []string {
	edges := make(map[string][]string)
	nodeSet := make(map[string]struct{})
	for _, h := range list {
		if h.Name == "" {
			continue
		}
		nodeSet[h.Name] = struct{}{}
		edges[h.Name] = append(edges[h.Name], h.Before...)
		for _, after := range h.After {
			edges[after] = append(edges[after], h.Name)
		}
	}
	nodes := make([]string, 0, len(nodeSet))
	for n := range nodeSet {
		nodes = append(nodes, n)
	}
	return detectCycle(nodes, edges)
}

func inversionMessage(st stage.Stage, earlier, later plugin.Handler) string {
	return fmt.Sprintf(
		"priority inversion in stage %s: %s (priority %d) runs before %s (priority %d)",
		st, earlier.MethodID, earlier.Priority, later.MethodID, later.Priority,
	)
}

func joinNames(names []string) string {
	return strings.Join(names, " -> ")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
