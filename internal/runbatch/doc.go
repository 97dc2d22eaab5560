// Package runbatch provides a way to run a batch of commands, optionally in parallel.
// It will return the exit code of all of the commends and format a nice error message explaining which command failed.
// It is the execution engine behind pattern sweeps: each training run is a command in a
// serial batch, with cool-down pauses in between, and a failed run never stops the batch.
// Commands can be added as serial or parallel commands. They can also be nested.
package runbatch
