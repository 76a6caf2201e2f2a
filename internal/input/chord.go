package input

import "time"

// chordPrefix followed by itself within the window seeks to the start.
const chordPrefix = 'g'

type chordState int

const (
	chordIdle chordState = iota
	chordAwaiting
)

type chordResult int

const (
	chordNone      chordResult = iota // key is not part of a chord, dispatch it
	chordStarted                      // prefix swallowed
	chordCompleted                    // second key arrived in time
)

// chord is a two state machine. The key read blocks without a timeout, so
// the deadline is checked against the timestamp of the next key: a late
// second key drops the prefix and is handled on its own.
type chord struct {
	state    chordState
	deadline time.Time
}

func (c *chord) feed(k Key, window time.Duration) chordResult {
	isPrefix := k.Code == CodeRune && k.Rune == chordPrefix

	if c.state == chordAwaiting {
		inTime := !k.When.After(c.deadline)
		c.state = chordIdle
		if isPrefix && inTime {
			return chordCompleted
		}
	}

	if isPrefix {
		c.state = chordAwaiting
		c.deadline = k.When.Add(window)
		return chordStarted
	}
	return chordNone
}
