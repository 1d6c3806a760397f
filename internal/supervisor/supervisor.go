// Package supervisor is the thin process-management collaborator spec.md
// §6 describes: "The supervisor accepts a single argument vector: the
// child command and its arguments. Exit code propagates the child's."
// Grounded in the teacher's own child-process bootstrap for its gopls
// subprocess (internal/lsp/gopls/proxy.go): os/exec.Command, inherited
// environment plus a session id override, Start then Wait.
package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/waylayer/uibackend/internal/session"
)

// SessionEnvVar is the environment variable the spawned client reads to
// learn which session's shared memory, socket, and semaphores to attach
// to (spec.md §6: "inherited/opened by the client via paths passed on
// argv or environment").
const SessionEnvVar = "WAYLAYER_SESSION"

// Run spawns argv[0] with argv[1:] as arguments, the session id injected
// via SessionEnvVar, waits for it to exit, and returns its exit code. A
// non-zero return is not itself an error — ExitCode communicates the
// child's own status; err is only non-nil if the child could not be
// started or signaled at all.
func Run(ctx context.Context, names session.Names, argv []string) (exitCode int, err error) {
	if len(argv) == 0 {
		return 0, fmt.Errorf("supervisor: empty argument vector")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), SessionEnvVar+"="+names.ID)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("supervisor: starting %s: %w", argv[0], err)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if ok := asExitError(err, &exitErr); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("supervisor: waiting for %s: %w", argv[0], err)
	}
	return 0, nil
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}
