package bench

import "fmt"

// EnvironmentError reports a failed preflight check. It is fatal: the batch
// aborts before any output directory is created.
type EnvironmentError struct {
	Check  string
	Detail string
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("environment check %q failed: %s", e.Check, e.Detail)
}
