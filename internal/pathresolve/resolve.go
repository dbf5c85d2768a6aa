// Package pathresolve implements the Path Resolver (§4.I): resolving a
// plugin-supplied, possibly relative path against the orchestrator's
// EXECUTION_DIRECTORY environment key, so plugins never have to special-case
// the process's own working directory.
package pathresolve

import "path/filepath"

// Resolve returns file unchanged if it is empty or already absolute;
// otherwise it joins file onto executionDirectory. Round-tripping an
// already-absolute path through Resolve is idempotent.
func Resolve(executionDirectory, file string) string {
	if file == "" {
		return file
	}
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(executionDirectory, file)
}
