// Package stagegate computes stage completion and the interleaved lock
// sequence that gates chapter and terminal-deliverable work.
package stagegate

import "gradus/internal/domain"

// Target distinguishes the two deliverable tracks within a stage.
type Target string

const (
	TargetChapters Target = "chapters"
	TargetTerminal Target = "terminal"
)

// Step is one element of the gating sequence: a stage paired with a
// deliverable track.
type Step struct {
	Stage  domain.Stage `json:"stage"`
	Target Target       `json:"target"`
}

// Sequence returns the canonical gating order: for each stage in
// canonical stage order, chapters first, then terminal.
func Sequence() []Step {
	steps := make([]Step, 0, len(domain.StageOrder)*2)
	for _, st := range domain.StageOrder {
		steps = append(steps, Step{Stage: st, Target: TargetChapters})
		steps = append(steps, Step{Stage: st, Target: TargetTerminal})
	}
	return steps
}

// Item is the view of a chapter or terminal requirement that gating
// cares about: which stages it belongs to and its approval status.
type Item struct {
	Stages []domain.Stage
	Status domain.WorkStatus
}

// ChapterItems projects chapters into gating items.
func ChapterItems(chapters []domain.Chapter) []Item {
	items := make([]Item, 0, len(chapters))
	for _, c := range chapters {
		items = append(items, Item{Stages: c.Stages, Status: c.Status})
	}
	return items
}

// RequirementItems projects terminal requirements into gating items.
func RequirementItems(reqs []domain.TerminalRequirement) []Item {
	items := make([]Item, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, Item{Stages: []domain.Stage{r.Stage}, Status: r.Status})
	}
	return items
}

// Options control how Completion treats a stage with no assigned items.
type Options struct {
	TreatEmptyAsComplete bool
}

// Completion reports whether every item assigned to the stage is
// approved. A stage with no assigned items is incomplete unless
// TreatEmptyAsComplete is set.
func Completion(items []Item, stage domain.Stage, opts Options) bool {
	found := false
	for _, it := range items {
		if !assignedTo(it, stage) {
			continue
		}
		found = true
		if it.Status != domain.WorkStatusApproved {
			return false
		}
	}
	if !found {
		return opts.TreatEmptyAsComplete
	}
	return true
}

func assignedTo(it Item, stage domain.Stage) bool {
	for _, st := range it.Stages {
		if st == stage {
			return true
		}
	}
	return false
}

// InterleavedLocks walks the canonical sequence once, left to right,
// and returns locked=true for every step whose predecessors are not all
// complete. gates optionally forces individual steps shut regardless of
// progress; steps absent from gates default to open. The accumulator
// carries the previous step's own completion only while that step is
// unlocked, so a locked step locks everything after it.
func InterleavedLocks(progress map[Step]bool, gates map[Step]bool) map[Step]bool {
	seq := Sequence()
	locks := make(map[Step]bool, len(seq))
	prevComplete := true
	for _, step := range seq {
		gate := true
		if g, ok := gates[step]; ok {
			gate = g
		}
		locked := !(prevComplete && gate)
		locks[step] = locked
		prevComplete = !locked && progress[step]
	}
	return locks
}

// CurrentStage returns the stage a thesis is actively working in: the
// first unlocked stage whose chapters are incomplete, else the last
// unlocked stage, else the first stage.
func CurrentStage(stageComplete map[domain.Stage]bool, locks map[Step]bool) domain.Stage {
	var last domain.Stage
	for _, st := range domain.StageOrder {
		if locks[Step{Stage: st, Target: TargetChapters}] {
			continue
		}
		if !stageComplete[st] {
			return st
		}
		last = st
	}
	if last != "" {
		return last
	}
	return domain.StageOrder[0]
}

// NormalizeStages resolves raw stage values against the canonical set,
// drops anything unrecognized, dedupes, and returns the result in
// canonical order. When nothing survives it falls back to the first
// stage, so a chapter with a mangled legacy value still gates somewhere.
func NormalizeStages(raw []string) []domain.Stage {
	seen := make(map[domain.Stage]bool, len(raw))
	for _, r := range raw {
		if st, ok := domain.ParseStage(r); ok {
			seen[st] = true
		}
	}
	out := make([]domain.Stage, 0, len(seen))
	for _, st := range domain.StageOrder {
		if seen[st] {
			out = append(out, st)
		}
	}
	if len(out) == 0 {
		return []domain.Stage{domain.StageOrder[0]}
	}
	return out
}
