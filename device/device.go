/*
Package device models the console side of playback: a display with video
memory that only takes halfword writes, a frame clock driven by a timer
interrupt, and a Player that decodes each frame of a container within a fixed
scratch buffer.
*/
package device

import "fmt"

// State is a state of the Player.
type State int

// Player states, a container is played by cycling through AwaitFrameTick,
// DecodeFrame and Present once per frame.
const (
	Idle State = iota
	FetchHeader
	AwaitFrameTick
	DecodeFrame
	Present
	Done
)

var stateNames = [...]string{"idle", "fetch header", "await frame tick", "decode frame", "present", "done"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}
