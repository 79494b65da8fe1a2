// Package notify maps category-tagged audit events to navigation
// segments and aggregates unread counts for badge state.
package notify

import "gradus/internal/domain"

// Override replaces a route's destination for a specific role.
type Override struct {
	Path    string
	Segment string
}

// Route describes where notifications of one category land in the
// client: a default destination plus role-specific overrides.
type Route struct {
	DefaultPath    string
	DefaultSegment string
	RoleOverrides  map[domain.UserRole]Override
	AllowedRoles   []domain.UserRole
}

var reviewerQueue = map[domain.UserRole]Override{
	domain.RoleModerator: {Path: "/review/queue", Segment: "review_queue"},
	domain.RoleChair:     {Path: "/review/queue", Segment: "review_queue"},
	domain.RoleHead:      {Path: "/review/queue", Segment: "review_queue"},
}

// routes is the static category table. It is built once at process
// start and never mutated; resolution helpers read it only.
var routes = map[domain.NotificationCategory]Route{
	domain.CategoryTopicProposal: {
		DefaultPath:    "/proposals",
		DefaultSegment: "proposals",
		RoleOverrides:  reviewerQueue,
	},
	domain.CategoryThesis: {
		DefaultPath:    "/thesis",
		DefaultSegment: "thesis",
	},
	domain.CategoryChapter: {
		DefaultPath:    "/thesis/chapters",
		DefaultSegment: "chapters",
		RoleOverrides: map[domain.UserRole]Override{
			domain.RoleModerator: {Path: "/review/chapters", Segment: "chapter_review"},
			domain.RoleChair:     {Path: "/review/chapters", Segment: "chapter_review"},
			domain.RoleHead:      {Path: "/review/chapters", Segment: "chapter_review"},
		},
	},
	domain.CategoryTerminalRequirement: {
		DefaultPath:    "/thesis/requirements",
		DefaultSegment: "requirements",
		RoleOverrides: map[domain.UserRole]Override{
			domain.RoleModerator: {Path: "/review/requirements", Segment: "requirement_review"},
			domain.RoleChair:     {Path: "/review/requirements", Segment: "requirement_review"},
			domain.RoleHead:      {Path: "/review/requirements", Segment: "requirement_review"},
		},
	},
	domain.CategoryGroup: {
		DefaultPath:    "/group",
		DefaultSegment: "group",
	},
	domain.CategoryAccount: {
		DefaultPath:    "/account",
		DefaultSegment: "account",
	},
	domain.CategorySystem: {
		DefaultPath:    "/",
		DefaultSegment: "general",
	},
}

// fallbackRoute catches categories the table does not know. Aggregation
// must keep going on malformed events, so unknowns land in the general
// segment instead of failing.
var fallbackRoute = Route{DefaultPath: "/", DefaultSegment: "general"}

// RouteFor returns the route for a category, or the fallback route for
// an unrecognized one.
func RouteFor(category domain.NotificationCategory) Route {
	if r, ok := routes[category]; ok {
		return r
	}
	return fallbackRoute
}

// SegmentFor resolves the badge segment for a category as seen by a
// role: the role override when one matches, else the default.
func SegmentFor(category domain.NotificationCategory, role domain.UserRole) string {
	r := RouteFor(category)
	if o, ok := r.RoleOverrides[role]; ok && o.Segment != "" {
		return o.Segment
	}
	return r.DefaultSegment
}

// PathFor resolves the navigation path the same way SegmentFor resolves
// the segment.
func PathFor(category domain.NotificationCategory, role domain.UserRole) string {
	r := RouteFor(category)
	if o, ok := r.RoleOverrides[role]; ok && o.Path != "" {
		return o.Path
	}
	return r.DefaultPath
}

// Allowed reports whether a role may receive a category. An empty
// AllowedRoles list admits everyone.
func Allowed(category domain.NotificationCategory, role domain.UserRole) bool {
	r := RouteFor(category)
	if len(r.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range r.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}
