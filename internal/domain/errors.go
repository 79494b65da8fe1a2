package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrDuplicateCode      = errors.New("group code already exists")

	ErrGroupNotFound    = errors.New("group not found")
	ErrNotGroupMember   = errors.New("user is not a member of this group")
	ErrNotGroupLeader   = errors.New("only the group leader may perform this action")
	ErrAlreadyMember    = errors.New("user is already a member of this group")
	ErrLeaderNotMember  = errors.New("group leader must be a member of the group")
	ErrSetNotFound      = errors.New("proposal set not found")
	ErrTopicNotFound    = errors.New("topic proposal not found")
	ErrActiveSetExists  = errors.New("an active proposal set already exists for this group")
	ErrSetLocked        = errors.New("proposal set is no longer editable")
	ErrSetFull          = errors.New("proposal set already holds the maximum number of topics")
	ErrStageMismatch    = errors.New("topic is not awaiting review at this stage")
	ErrTopicNotApproved = errors.New("topic has not been approved by the head")
	ErrThesisChosen     = errors.New("a topic from this group is already in use as its thesis")

	ErrThesisNotFound      = errors.New("thesis not found")
	ErrChapterNotFound     = errors.New("chapter not found")
	ErrRequirementNotFound = errors.New("terminal requirement not found")
	ErrAgendaTreeNotFound  = errors.New("agenda tree not found")
)

// FieldErrors carries per-field validation messages. Services return it
// instead of mutating anything; handlers render it inside the error
// envelope.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	return "validation failed"
}

// Any reports whether at least one field failed.
func (f FieldErrors) Any() bool {
	return len(f) > 0
}
