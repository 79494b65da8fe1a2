package agenda

import "gradus/internal/domain"

// Selection is the classification a reviewer submits alongside an
// approval decision.
type Selection struct {
	AgendaType domain.AgendaType `json:"agenda_type"`
	Department string            `json:"department"`
	AgendaPath []string          `json:"agenda_path"`
	ESG        domain.ESGPillar  `json:"esg"`
	SDG        domain.SDGGoal    `json:"sdg"`
	Notes      string            `json:"notes"`
}

// Policy configures stage-dependent validation behavior.
type Policy struct {
	// HeadNotesOptional lets head-stage decisions omit free-text notes.
	// Moderator and chair notes are always required.
	HeadNotesOptional bool
}

// Resolver validates reviewer classification selections against an
// agenda tree snapshot. It performs no I/O; callers load the tree.
type Resolver struct {
	policy Policy
}

// NewResolver creates a Resolver with the given policy.
func NewResolver(policy Policy) *Resolver {
	return &Resolver{policy: policy}
}

// Validate checks a selection and returns per-field messages. An empty
// map means the selection is acceptable for the given stage. roots is
// the tree matching the selection's agenda type and department; nil
// stands for no such tree.
func (r *Resolver) Validate(sel Selection, roots []domain.AgendaNode, stage domain.ReviewStage) domain.FieldErrors {
	fields := domain.FieldErrors{}

	switch sel.AgendaType {
	case domain.AgendaInstitutional:
		if sel.Department != "" {
			fields["department"] = "department must be empty for the institutional agenda"
		}
	case domain.AgendaDepartmental:
		if sel.Department == "" {
			fields["department"] = "department is required for departmental agendas"
		}
	default:
		fields["agenda_type"] = "agenda type must be institutional or departmental"
	}

	if len(sel.AgendaPath) == 0 {
		fields["agenda_path"] = "at least one agenda level is required"
	} else if _, bad := fields["agenda_type"]; !bad {
		if !PathResolves(roots, sel.AgendaPath) {
			fields["agenda_path"] = "path does not resolve in the selected agenda tree"
		}
	}

	if !domain.ValidESGPillars[sel.ESG] {
		fields["esg"] = "a single ESG pillar is required"
	}
	if _, ok := domain.SDGTitles[sel.SDG]; !ok {
		fields["sdg"] = "a single SDG goal is required"
	}

	if sel.Notes == "" && !(stage == domain.ReviewStageHead && r.policy.HeadNotesOptional) {
		fields["notes"] = "review notes are required"
	}

	return fields
}

// ResetPathOnRetarget clears the agenda path whenever the tree it was
// picked from changes, so a stale path from one tree never leaks into a
// classification under another. A topic with no prior tree keeps its
// path; there is nothing stale to protect against.
func ResetPathOnRetarget(prev, next domain.Classification) domain.Classification {
	if prev.AgendaType == "" {
		return next
	}
	if next.AgendaType != prev.AgendaType || next.Department != prev.Department {
		next.AgendaPath = nil
	}
	return next
}
