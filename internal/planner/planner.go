// Package planner cuts a resource's total byte count into the disjoint,
// contiguous ranges the dispatcher will hand out one per chunk downloader.
package planner

import (
	rgtypes "github.com/arl/rget/pkg/types"
	rgerrors "github.com/arl/rget/pkg/errors"
)

// Plan computes a DownloadPlan covering [0, total-1] using at most n
// ranges of size chunk = ceil(total/n).
//
// n equal-size chunks of that width can overshoot total even when n does
// not exceed total (e.g. total=7, n=5 gives chunk=2 and a 5th chunk whose
// start is already past the last byte). Rather than emit a range with
// start > end, Plan stops once a chunk's start would land at or beyond
// total, collapsing the plan to fewer than n ranges. total == 0 is not a
// valid plan; the probe accepts a zero Content-Length, so Plan reports it
// explicitly instead of guessing at a zero-chunk plan.
func Plan(n int, total uint64) (rgtypes.DownloadPlan, error) {
	if total == 0 {
		return rgtypes.DownloadPlan{}, rgerrors.CouldNotConnect("empty resource")
	}

	if n < 1 {
		n = 1
	}
	if uint64(n) > total {
		n = int(total)
	}

	chunk := (total + uint64(n) - 1) / uint64(n)

	ranges := make([]rgtypes.Range, 0, n)
	for i := 0; i < n; i++ {
		start := uint64(i) * chunk
		if start >= total {
			break
		}

		end := start + chunk - 1
		if end > total-1 {
			end = total - 1
		}

		ranges = append(ranges, rgtypes.Range{Start: start, End: end})
	}

	return rgtypes.DownloadPlan{Total: total, Ranges: ranges}, nil
}
