// Package resume ports the source's calculate_byte_ranges_on_existing_files
// scaffolding: given a plan and an output path, it inspects whatever
// {output}_part_{i} files are already on disk and returns ranges adjusted
// to skip the bytes each one already holds.
//
// Nothing in the active Orchestrator path calls this package. The design
// is explicit that there is no resume across process restarts; this is
// the unexercised facility the design says exists but is never invoked,
// kept only so a future resume path has somewhere to start from.
package resume

import (
	"os"

	rgtypes "github.com/arl/rget/pkg/types"
)

// AdjustForExisting returns a copy of plan whose ranges are advanced past
// whatever bytes each chunk's partial file, at outputPath, already holds
// on disk. A chunk with no partial file is left untouched. A chunk whose
// partial already holds its whole range collapses to the one-byte range
// [End, End], which is also what a chunk with exactly one byte left gets,
// so the returned ranges alone do not tell those two cases apart.
func AdjustForExisting(plan rgtypes.DownloadPlan, outputPath string) rgtypes.DownloadPlan {
	adjusted := rgtypes.DownloadPlan{Total: plan.Total, Ranges: make([]rgtypes.Range, len(plan.Ranges))}

	for i, rng := range plan.Ranges {
		adjusted.Ranges[i] = adjustRange(rng, rgtypes.PartPath(outputPath, i))
	}

	return adjusted
}

func adjustRange(rng rgtypes.Range, partPath string) rgtypes.Range {
	info, err := os.Stat(partPath)
	if err != nil || info.Size() <= 0 {
		return rng
	}

	downloaded := uint64(info.Size())
	newStart := rng.Start + downloaded
	if newStart > rng.End {
		// Already fully downloaded; collapse to the single byte at the
		// chunk's own end rather than emit a range with Start > End.
		return rgtypes.Range{Start: rng.End, End: rng.End}
	}

	return rgtypes.Range{Start: newStart, End: rng.End}
}
