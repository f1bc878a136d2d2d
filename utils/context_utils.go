package utils

import "golang.org/x/net/context"

// CheckContextDone polls a provided context without blocking and returns a boolean indicating whether it was
// cancelled or reached its deadline.
func CheckContextDone(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
