// Package dispatch provides the two execution disciplines the pipeline
// chooses between at startup: Multi, which fans tasks out across goroutines
// via grailbio/base/traverse, and Serial, which runs them inline for
// deterministic single-threaded debugging.
package dispatch

import "github.com/grailbio/base/traverse"

// Scheduler runs n independent tasks, indexed 0..n-1, calling fn once per
// task. It returns a non-nil error if any task fails. Serial stops at and
// returns the lowest-indexed failure; Multi returns the error traverse.Each
// reports, with no promise about which failing task it comes from.
type Scheduler interface {
	Run(n int, fn func(taskIdx int) error) error
}

// Multi runs tasks concurrently via traverse.Each.
type Multi struct{}

func (Multi) Run(n int, fn func(taskIdx int) error) error {
	return traverse.Each(n, func(i int) error {
		return fn(i)
	})
}

// Serial runs tasks one at a time on the calling goroutine, in index order.
// Useful for reproducing a run deterministically or under a debugger.
type Serial struct{}

func (Serial) Run(n int, fn func(taskIdx int) error) error {
	for i := 0; i < n; i++ {
		if err := fn(i); err != nil {
			return err
		}
	}
	return nil
}
