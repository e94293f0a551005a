package pipeline

import (
	"context"

	ferrors "git.home.luguber.info/inful/dulynoted/internal/foundation/errors"
)

// stageCleanup removes the parse cache unless leaveJSONFiles is set.
func stageCleanup(_ context.Context, rs *RunState) error {
	if _, err := rs.workspace.Cleanup(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "remove parse directory").
			WithContext("path", rs.workspace.GetPath()).Build()
	}
	return nil
}
