// cache/keys.go
package cache

import "fmt"

// Cache keys are built here so the namespaces don't drift across the
// codebase.

func UserPolicyContextKey(userID int) string {
	return fmt.Sprintf("user:policy_context:%d", userID)
}

func TodoMetaKey(todoID int) string {
	return fmt.Sprintf("resource:meta:todo:%d", todoID)
}

func TodoListKey(actorID, skip, limit int) string {
	return fmt.Sprintf("list:todo:%d:%d:%d", actorID, skip, limit)
}
