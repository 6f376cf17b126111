//
// Copyright (c) 2025 Markku Rossi
//
// All rights reserved.
//

package engine

import (
	"fmt"

	"github.com/markkurossi/sha1core/sha1"
)

// State defines the digest core states.
type State int

// Core states. The numeric values are visible on the debug interfaces
// and must not change.
const (
	Init State = iota
	Start
	LoopOne
	LoopTwo
	LoopThree
	LoopFour
	Done
	Final
	Panic
)

var stateNames = map[State]string{
	Init:      "init",
	Start:     "start",
	LoopOne:   "loop1",
	LoopTwo:   "loop2",
	LoopThree: "loop3",
	LoopFour:  "loop4",
	Done:      "done",
	Final:     "final",
	Panic:     "panic",
}

func (s State) String() string {
	name, ok := stateNames[s]
	if ok {
		return name
	}
	return fmt.Sprintf("{State %d}", s)
}

// Loop tests if the state is one of the four round epochs.
func (s State) Loop() bool {
	return s >= LoopOne && s <= LoopFour
}

// epochState returns the loop state of the round index.
func epochState(index int) State {
	return LoopOne + State(sha1.Epoch(index))
}
