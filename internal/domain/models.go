package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxTopicProposals bounds the number of topics a single proposal set
// may hold.
const MaxTopicProposals = 5

// User represents an authenticated member of the institution.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	Department   string    `db:"department" json:"department"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Group represents a student thesis group. TopicSeq is the monotonic
// counter topic ids are derived from; it only ever moves forward, so ids
// are never reused across the group's proposal sets.
type Group struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Code       string    `db:"code" json:"code"`
	Name       string    `db:"name" json:"name"`
	Program    string    `db:"program" json:"program"`
	Department string    `db:"department" json:"department"`
	LeaderID   uuid.UUID `db:"leader_id" json:"leader_id"`
	TopicSeq   int       `db:"topic_seq" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// GroupMember represents a user's membership in a group.
type GroupMember struct {
	GroupID uuid.UUID `db:"group_id" json:"group_id"`
	UserID  uuid.UUID `db:"user_id" json:"user_id"`
	AddedBy uuid.UUID `db:"added_by" json:"added_by"`
	AddedAt time.Time `db:"added_at" json:"added_at"`
}

// Classification files an approved topic under an agenda tree. Department
// is set only for departmental agendas; AgendaPath walks the tree from
// its root.
type Classification struct {
	AgendaType AgendaType `json:"agenda_type"`
	Department string     `json:"department,omitempty"`
	AgendaPath []string   `json:"agenda_path"`
}

// TopicProposal is a single topic inside a proposal set. Topics live in
// the set document, not in their own table; their ids are derived from
// the group code and counter ("{code}-T{n}").
type TopicProposal struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	ProblemStatement string         `json:"problem_statement,omitempty"`
	ExpectedOutcome  string         `json:"expected_outcome,omitempty"`
	Keywords         []string       `json:"keywords"`
	Status           TopicStatus    `json:"status"`
	Classification   Classification `json:"classification"`
	ESG              ESGPillar      `json:"esg,omitempty"`
	SDG              SDGGoal        `json:"sdg,omitempty"`
	UsedAsThesis     bool           `json:"used_as_thesis"`
	ProposedBy       uuid.UUID      `json:"proposed_by"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// ReviewRecord is one reviewer decision appended to a set's history.
type ReviewRecord struct {
	Stage      ReviewStage    `json:"stage"`
	TopicID    string         `json:"topic_id"`
	Status     DecisionStatus `json:"status"`
	Notes      string         `json:"notes,omitempty"`
	ReviewerID uuid.UUID      `json:"reviewer_id"`
	ReviewedAt time.Time      `json:"reviewed_at"`
}

// ProposalSet is a numbered batch of topic proposals reviewed together.
// The whole set is persisted as one document: topics keyed by id plus the
// ordered review history, written read-modify-write as a unit.
type ProposalSet struct {
	ID                uuid.UUID                 `db:"id" json:"id"`
	GroupID           uuid.UUID                 `db:"group_id" json:"group_id"`
	SetNumber         int                       `db:"set_number" json:"set_number"`
	AwaitingModerator bool                      `db:"awaiting_moderator" json:"awaiting_moderator"`
	AwaitingHead      bool                      `db:"awaiting_head" json:"awaiting_head"`
	Topics            map[string]*TopicProposal `db:"-" json:"topics"`
	Reviews           []ReviewRecord            `db:"-" json:"reviews"`
	CreatedBy         uuid.UUID                 `db:"created_by" json:"created_by"`
	CreatedAt         time.Time                 `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time                 `db:"updated_at" json:"updated_at"`
}

// Submitted reports whether the set has entered review. Submission moves
// every draft topic forward at once, so a single non-draft topic marks
// the whole set.
func (s *ProposalSet) Submitted() bool {
	for _, t := range s.Topics {
		if t.Status != TopicStatusDraft {
			return true
		}
	}
	return false
}

// CanEdit reports whether group members may still add, change or remove
// topics. A set freezes at submission and never thaws.
func (s *ProposalSet) CanEdit() bool {
	return !s.AwaitingModerator && !s.AwaitingHead && !s.Submitted()
}

// AllRejected reports whether every topic in the set is rejected. An
// empty set counts as fully rejected, so an abandoned set never blocks
// the group.
func (s *ProposalSet) AllRejected() bool {
	for _, t := range s.Topics {
		if t.Status != TopicStatusRejected {
			return false
		}
	}
	return true
}

// CountInStatus returns how many topics currently hold the given status.
func (s *ProposalSet) CountInStatus(status TopicStatus) int {
	n := 0
	for _, t := range s.Topics {
		if t.Status == status {
			n++
		}
	}
	return n
}

// Thesis is the official topic a group pursues after promotion.
type Thesis struct {
	ID          uuid.UUID `db:"id" json:"id"`
	GroupID     uuid.UUID `db:"group_id" json:"group_id"`
	TopicID     string    `db:"topic_id" json:"topic_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Keywords    []string  `db:"-" json:"keywords"`
	CreatedBy   uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Chapter is a thesis chapter gated by the stage sequence. A chapter may
// belong to several stages; Stages is kept normalized against the
// canonical order.
type Chapter struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ThesisID   uuid.UUID  `db:"thesis_id" json:"thesis_id"`
	Number     int        `db:"number" json:"number"`
	Title      string     `db:"title" json:"title"`
	Stages     []Stage    `db:"-" json:"stages"`
	Status     WorkStatus `db:"status" json:"status"`
	FileRef    string     `db:"file_ref" json:"file_ref,omitempty"`
	ReviewedBy *uuid.UUID `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// TerminalRequirement is a stage deliverable tracked separately from
// chapters but gated by the same sequence.
type TerminalRequirement struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	ThesisID   uuid.UUID  `db:"thesis_id" json:"thesis_id"`
	Name       string     `db:"name" json:"name"`
	Stage      Stage      `db:"stage" json:"stage"`
	Status     WorkStatus `db:"status" json:"status"`
	FileRef    string     `db:"file_ref" json:"file_ref,omitempty"`
	ReviewedBy *uuid.UUID `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// Notification is a routed audit event delivered to one recipient.
type Notification struct {
	ID          uuid.UUID            `db:"id" json:"id"`
	RecipientID uuid.UUID            `db:"recipient_id" json:"recipient_id"`
	Category    NotificationCategory `db:"category" json:"category"`
	Action      string               `db:"action" json:"action"`
	Details     map[string]any       `db:"-" json:"details"`
	Read        bool                 `db:"read" json:"read"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
}

// AgendaNode is one level of a classification tree. The subAgenda key
// matches the workbook export format.
type AgendaNode struct {
	Name      string       `json:"name"`
	SubAgenda []AgendaNode `json:"subAgenda,omitempty"`
}

// AgendaTree is one stored classification tree: the institutional tree
// or one tree per department.
type AgendaTree struct {
	ID         uuid.UUID    `db:"id" json:"id"`
	AgendaType AgendaType   `db:"agenda_type" json:"agenda_type"`
	Department string       `db:"department" json:"department"`
	Roots      []AgendaNode `db:"-" json:"roots"`
	UpdatedAt  time.Time    `db:"updated_at" json:"updated_at"`
}
