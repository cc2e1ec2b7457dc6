// nolint: revive
package utils

import (
	"fmt"
	"runtime/debug"
)

// SafelyRun converts a panic raised by function into an error carrying the stack.
func SafelyRun(function func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("%w\n%s", e, string(debug.Stack()))
			} else {
				err = fmt.Errorf("panic: %v\n%s", r, string(debug.Stack()))
			}
		}
	}()

	return function()
}
