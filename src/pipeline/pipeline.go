// Package pipeline sketches sequence files into catalogs and compares catalogs, spreading the work over a pool of minions.
//
// Reads mode instead streams every read through a chain of stages, each stage running in its own go routine and passing records on through a buffered channel.
package pipeline

// BUFFERSIZE is the size of the buffer used by the stage channels and the boss queue
const BUFFERSIZE int = 64

// Stage is a step in a Chain, Run must return once its input is exhausted
type Stage interface {
	Run()
}

// Chain is a set of connected stages, listed from source to sink
type Chain struct {
	stages []Stage
}

// NewChain is the constructor
func NewChain(stages ...Stage) *Chain {
	return &Chain{stages: stages}
}

// Run is a method to start the chain, it returns once the sink stage has finished
func (chain *Chain) Run() {
	if len(chain.stages) == 0 {
		return
	}
	last := len(chain.stages) - 1
	for _, stage := range chain.stages[:last] {
		go stage.Run()
	}
	chain.stages[last].Run()
}
