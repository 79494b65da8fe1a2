package domain

import "strings"

// UserRole defines the actor roles in the review hierarchy.
type UserRole string

const (
	RoleStudent   UserRole = "student"
	RoleModerator UserRole = "moderator"
	RoleChair     UserRole = "chair"
	RoleHead      UserRole = "head"
	RoleAdmin     UserRole = "admin"
)

// ValidRoles is the set of assignable user roles.
var ValidRoles = map[UserRole]bool{
	RoleStudent:   true,
	RoleModerator: true,
	RoleChair:     true,
	RoleHead:      true,
	RoleAdmin:     true,
}

// Stage represents one of the four sequential thesis progress phases.
type Stage string

const (
	StagePreProposal  Stage = "pre_proposal"
	StagePostProposal Stage = "post_proposal"
	StagePreDefense   Stage = "pre_defense"
	StagePostDefense  Stage = "post_defense"
)

// StageOrder is the canonical total order of stages.
var StageOrder = []Stage{
	StagePreProposal,
	StagePostProposal,
	StagePreDefense,
	StagePostDefense,
}

// StageTitles maps stages to their display names.
var StageTitles = map[Stage]string{
	StagePreProposal:  "Pre-Proposal",
	StagePostProposal: "Post-Proposal",
	StagePreDefense:   "Pre-Defense",
	StagePostDefense:  "Post-Defense",
}

// StageIndex returns the position of s in the canonical order, or -1.
func StageIndex(s Stage) int {
	for i, st := range StageOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// ParseStage resolves a raw stage value against the canonical set,
// ignoring case, spaces, hyphens and underscores. Legacy records carry
// variants like "Pre-Proposal" or "PRE PROPOSAL".
func ParseStage(raw string) (Stage, bool) {
	key := strings.ToLower(raw)
	for _, r := range []string{" ", "-", "_"} {
		key = strings.ReplaceAll(key, r, "")
	}
	for _, st := range StageOrder {
		if strings.ReplaceAll(string(st), "_", "") == key {
			return st, true
		}
	}
	return "", false
}

// TopicStatus represents a topic proposal's position in the review chain.
type TopicStatus string

const (
	TopicStatusDraft             TopicStatus = "draft"
	TopicStatusModeratorReview   TopicStatus = "moderator_review"
	TopicStatusModeratorApproved TopicStatus = "moderator_approved"
	TopicStatusChairReview       TopicStatus = "chair_review"
	TopicStatusChairApproved     TopicStatus = "chair_approved"
	TopicStatusHeadReview        TopicStatus = "head_review"
	TopicStatusHeadApproved      TopicStatus = "head_approved"
	TopicStatusRejected          TopicStatus = "rejected"
)

// ReviewStage identifies which reviewer a decision belongs to.
type ReviewStage string

const (
	ReviewStageModerator ReviewStage = "moderator"
	ReviewStageChair     ReviewStage = "chair"
	ReviewStageHead      ReviewStage = "head"
)

// ValidReviewStages is the set of recognized review stages.
var ValidReviewStages = map[ReviewStage]bool{
	ReviewStageModerator: true,
	ReviewStageChair:     true,
	ReviewStageHead:      true,
}

// ReviewStatus returns the topic status a topic holds while queued for
// this review stage.
func (s ReviewStage) ReviewStatus() TopicStatus {
	switch s {
	case ReviewStageModerator:
		return TopicStatusModeratorReview
	case ReviewStageChair:
		return TopicStatusChairReview
	case ReviewStageHead:
		return TopicStatusHeadReview
	}
	return ""
}

// ApprovedStatus returns the parked status an approval at this stage
// assigns, before the set advances to the next stage.
func (s ReviewStage) ApprovedStatus() TopicStatus {
	switch s {
	case ReviewStageModerator:
		return TopicStatusModeratorApproved
	case ReviewStageChair:
		return TopicStatusChairApproved
	case ReviewStageHead:
		return TopicStatusHeadApproved
	}
	return ""
}

// Next returns the following review stage, or "" after head.
func (s ReviewStage) Next() ReviewStage {
	switch s {
	case ReviewStageModerator:
		return ReviewStageChair
	case ReviewStageChair:
		return ReviewStageHead
	}
	return ""
}

// ReviewerRole returns the user role authorized to decide at this stage.
func (s ReviewStage) ReviewerRole() UserRole {
	switch s {
	case ReviewStageModerator:
		return RoleModerator
	case ReviewStageChair:
		return RoleChair
	case ReviewStageHead:
		return RoleHead
	}
	return ""
}

// DecisionStatus is the outcome of a single review decision.
type DecisionStatus string

const (
	DecisionApproved DecisionStatus = "approved"
	DecisionRejected DecisionStatus = "rejected"
)

// AgendaType selects which classification tree a topic is filed under.
type AgendaType string

const (
	AgendaInstitutional AgendaType = "institutional"
	AgendaDepartmental  AgendaType = "departmental"
)

// ESGPillar is the sustainability pillar assigned during review.
type ESGPillar string

const (
	ESGEnvironmental ESGPillar = "environmental"
	ESGSocial        ESGPillar = "social"
	ESGGovernance    ESGPillar = "governance"
)

// ValidESGPillars is the set of accepted ESG picks.
var ValidESGPillars = map[ESGPillar]bool{
	ESGEnvironmental: true,
	ESGSocial:        true,
	ESGGovernance:    true,
}

// SDGGoal is one of the 17 UN Sustainable Development Goals.
type SDGGoal string

const (
	SDG1  SDGGoal = "sdg_1"
	SDG2  SDGGoal = "sdg_2"
	SDG3  SDGGoal = "sdg_3"
	SDG4  SDGGoal = "sdg_4"
	SDG5  SDGGoal = "sdg_5"
	SDG6  SDGGoal = "sdg_6"
	SDG7  SDGGoal = "sdg_7"
	SDG8  SDGGoal = "sdg_8"
	SDG9  SDGGoal = "sdg_9"
	SDG10 SDGGoal = "sdg_10"
	SDG11 SDGGoal = "sdg_11"
	SDG12 SDGGoal = "sdg_12"
	SDG13 SDGGoal = "sdg_13"
	SDG14 SDGGoal = "sdg_14"
	SDG15 SDGGoal = "sdg_15"
	SDG16 SDGGoal = "sdg_16"
	SDG17 SDGGoal = "sdg_17"
)

// SDGTitles maps each goal to its short official title.
var SDGTitles = map[SDGGoal]string{
	SDG1:  "No Poverty",
	SDG2:  "Zero Hunger",
	SDG3:  "Good Health and Well-being",
	SDG4:  "Quality Education",
	SDG5:  "Gender Equality",
	SDG6:  "Clean Water and Sanitation",
	SDG7:  "Affordable and Clean Energy",
	SDG8:  "Decent Work and Economic Growth",
	SDG9:  "Industry, Innovation and Infrastructure",
	SDG10: "Reduced Inequalities",
	SDG11: "Sustainable Cities and Communities",
	SDG12: "Responsible Consumption and Production",
	SDG13: "Climate Action",
	SDG14: "Life Below Water",
	SDG15: "Life on Land",
	SDG16: "Peace, Justice and Strong Institutions",
	SDG17: "Partnerships for the Goals",
}

// WorkStatus represents the approval state of a chapter or terminal
// requirement.
type WorkStatus string

const (
	WorkStatusPending   WorkStatus = "pending"
	WorkStatusForReview WorkStatus = "for_review"
	WorkStatusApproved  WorkStatus = "approved"
	WorkStatusReturned  WorkStatus = "returned"
)

// ValidWorkStatuses is the set of recognized chapter/requirement states.
var ValidWorkStatuses = map[WorkStatus]bool{
	WorkStatusPending:   true,
	WorkStatusForReview: true,
	WorkStatusApproved:  true,
	WorkStatusReturned:  true,
}

// NotificationCategory tags an audit event for routing.
type NotificationCategory string

const (
	CategoryTopicProposal       NotificationCategory = "topic_proposal"
	CategoryThesis              NotificationCategory = "thesis"
	CategoryChapter             NotificationCategory = "chapter"
	CategoryTerminalRequirement NotificationCategory = "terminal_requirement"
	CategoryGroup               NotificationCategory = "group"
	CategoryAccount             NotificationCategory = "account"
	CategorySystem              NotificationCategory = "system"
)
