package task

import "time"

// ListFilter returns the store predicate for what p may list.
func ListFilter(p Principal) Filter {
	if p.IsAdmin {
		return Filter{}
	}
	owner := p.ID
	open := false
	return Filter{CreatedByID: &owner, IsClosed: &open}
}

// DecideRead decides whether p may read t. A nil t is an absent task.
func DecideRead(p Principal, t *Task) Decision {
	switch {
	case t == nil:
		return deny(ReasonNotFound)
	case p.IsAdmin:
		return allow()
	case t.CreatedByID != p.ID:
		return deny(ReasonNotOwner)
	case t.IsClosed:
		return deny(ReasonClosedToNonOwnerViewer)
	}
	return allow()
}

// DecideUpdate decides whether p may apply c to t.
// Non-admins may only set IsClosed to true on their own tasks.
// A change without IsClosed is an invalid transition for both tiers.
func DecideUpdate(p Principal, t *Task, c Change) Decision {
	if t == nil {
		return deny(ReasonNotFound)
	}
	if !p.IsAdmin && t.CreatedByID != p.ID {
		return deny(ReasonNotOwner)
	}
	if c.IsClosed == nil {
		return deny(ReasonInvalidTransition)
	}
	if !p.IsAdmin && !*c.IsClosed {
		return deny(ReasonInvalidTransition)
	}
	return allow()
}

// DecideDelete decides whether p may delete t.
func DecideDelete(p Principal, t *Task) Decision {
	switch {
	case t == nil:
		return deny(ReasonNotFound)
	case !p.IsAdmin:
		return deny(ReasonAdminRequired)
	}
	return allow()
}

// Apply returns a copy of t with c applied on behalf of p at now.
// Callers must check DecideUpdate first.
func Apply(p Principal, t Task, c Change, now time.Time) Task {
	if c.IsClosed != nil {
		t.IsClosed = *c.IsClosed
	}
	t.UpdatedByID = p.ID
	t.UpdatedAt = now
	return t
}

// NewTask builds an open task owned by p.
func NewTask(p Principal, f NewTaskFields, now time.Time) Task {
	return Task{
		Title:       f.Title,
		Description: f.Description,
		IsClosed:    false,
		CreatedByID: p.ID,
		UpdatedByID: p.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
