package pipeline

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/will-rowe/minsketch/src/catalog"
	"github.com/will-rowe/minsketch/src/params"
)

// ErrSkipped is recorded for tasks that were never run because an earlier task failed fatally
var ErrSkipped = errors.New("task skipped after a fatal error")

// IsFatal reports if an error should stop any further tasks being issued
func IsFatal(err error) bool {
	var cerr *params.ConfigError
	var ferr *catalog.FormatError
	return errors.As(err, &cerr) || errors.As(err, &ferr)
}

// Boss is used to orchestrate the minions
//
// Tasks are identified by their index and each task only writes to its own result slot, so the results don't depend on the number of minions or the order they finish in.
type Boss struct {
	numMinions int
	queueSize  int
	issued     int // the number of tasks sent to the minions during the boss's lifetime
	failed     int // the number of tasks that returned an error
	sync.Mutex     // allows minions to update the boss's counts
}

// NewBoss is the constructor, the queue size bounds how many tasks can be waiting for a minion
func NewBoss(numMinions, queueSize int) *Boss {
	if numMinions < 1 {
		numMinions = 1
	}
	if queueSize < 1 {
		queueSize = BUFFERSIZE
	}
	return &Boss{numMinions: numMinions, queueSize: queueSize}
}

// Run is a method to start the minions on n tasks, returning the error from each task slot
//
// The boss blocks while the queue is full. Once a task fails fatally no further tasks are issued and any task not yet started is marked with ErrSkipped.
func (boss *Boss) Run(n int, task func(i int) error) []error {
	errs := make([]error, n)
	for i := range errs {
		errs[i] = ErrSkipped
	}
	queue := make(chan int, boss.queueSize)
	halt := make(chan struct{})
	var once sync.Once
	var wg sync.WaitGroup

	// launch the minions
	for m := 0; m < boss.numMinions; m++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			failed := 0
			for i := range queue {
				select {
				case <-halt:
					continue
				default:
				}
				err := task(i)
				errs[i] = err
				if err == nil {
					continue
				}
				failed++
				if IsFatal(err) {
					once.Do(func() { close(halt) })
				}
			}
			boss.Lock()
			boss.failed += failed
			boss.Unlock()
		}()
	}

	// issue the tasks
	issued := 0
issue:
	for i := 0; i < n; i++ {
		select {
		case <-halt:
			break issue
		default:
		}
		select {
		case <-halt:
			break issue
		case queue <- i:
			issued++
		}
	}
	close(queue)
	wg.Wait()
	boss.Lock()
	boss.issued += issued
	boss.Unlock()
	return errs
}

// Counts returns the number of tasks issued and the number that failed, over every run
func (boss *Boss) Counts() (int, int) {
	boss.Lock()
	defer boss.Unlock()
	return boss.issued, boss.failed
}

// FirstFatal is a helper function to get the first fatal error from a set of task errors
func FirstFatal(errs []error) error {
	for _, err := range errs {
		if err != nil && err != ErrSkipped && IsFatal(err) {
			return err
		}
	}
	return nil
}
