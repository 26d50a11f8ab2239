// Package merger concatenates a plan's partial files into the final
// output, in chunk-index order.
package merger

import (
	"io"
	"os"

	rgerrors "github.com/arl/rget/pkg/errors"
	rgtypes "github.com/arl/rget/pkg/types"

	"github.com/sirupsen/logrus"
)

// Merge concatenates the n partial files for outputPath, in index order,
// into outputPath itself, then deletes the partials. A missing partial
// fails the merge; a failure to delete a partial afterward is logged but
// does not fail the merge, since the output is already complete and
// correct at that point.
func Merge(outputPath string, n int, log *logrus.Logger) error {
	out, err := os.Create(outputPath) // #nosec G304 -- outputPath is the orchestrator-derived destination
	if err != nil {
		return rgerrors.Wrap(rgerrors.CodeCouldNotConnect, err, err.Error())
	}
	defer func() { _ = out.Close() }()

	partPaths := make([]string, n)
	for i := 0; i < n; i++ {
		partPaths[i] = rgtypes.PartPath(outputPath, i)

		part, err := os.Open(partPaths[i]) // #nosec G304 -- path built from the same trusted outputPath
		if err != nil {
			return rgerrors.PartialMissing(partPaths[i])
		}

		_, copyErr := io.Copy(out, part)
		closeErr := part.Close()
		if copyErr != nil {
			return rgerrors.Wrap(rgerrors.CodeCouldNotConnect, copyErr, copyErr.Error())
		}
		if closeErr != nil {
			return rgerrors.Wrap(rgerrors.CodeCouldNotConnect, closeErr, closeErr.Error())
		}
	}

	if err := out.Sync(); err != nil {
		return rgerrors.Wrap(rgerrors.CodeCouldNotConnect, err, err.Error())
	}

	for _, p := range partPaths {
		if err := os.Remove(p); err != nil {
			if log != nil {
				log.WithError(err).Warnf("failed to delete partial file %s", p)
			}
		}
	}

	return nil
}
