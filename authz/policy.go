// authz/policy.go
package authz

import "github.com/dev-kunalpandey/tudu/api/model"

// Decide is the policy engine: a pure allow/deny function over the
// actor, the action, the resource type and (optionally) a resource
// snapshot. First matching rule wins; the default is deny.
//
// attrs is an extension point for future attribute-based rules
// (time-of-day, IP, ...). It is accepted for interface stability and
// currently never changes the decision.
func Decide(actor Actor, action Action, resType ResourceType, res *Snapshot, attrs map[string]interface{}) bool {
	// Admins have full access to everything in this system.
	if actor.Role == model.RoleAdmin {
		return true
	}

	if resType == ResourceTodo {
		// Any authenticated actor may create a todo.
		if action == ActionCreate {
			return true
		}

		// READ, UPDATE and DELETE require ownership. A missing
		// snapshot is a deny, not an error: resolving the resource is
		// the caller's job.
		if res != nil {
			return res.OwnerID == actor.ID
		}
	}

	if resType == ResourceUser {
		if action == ActionRead {
			if res != nil {
				return res.ID == actor.ID
			}
			// Snapshot-less READ is the listing path; the listing
			// route is admin-gated upstream.
			return true
		}
	}

	_ = attrs

	// Default deny.
	return false
}
