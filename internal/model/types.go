// Package model defines shared data structures.
package model

// TallyConfig defines settings for the win-tally pipeline.
type TallyConfig struct {
	Challenge int
	Jobs      int
	Strict    bool
	Format    string
}

// TraceConfig defines settings for the session-trace pipeline.
type TraceConfig struct {
	Ext    string
	Width  int
	Height int
	Color  bool
	Open   string
	Viewer string
}

// Range tracks the extremes of a value stream. Both bounds start at zero and
// only ever widen, so a range always contains zero.
type Range struct {
	Max int
	Min int
}

// Observe widens the range to include v.
func (r *Range) Observe(v int) {
	if v > r.Max {
		r.Max = v
	}
	if v < r.Min {
		r.Min = v
	}
}

// Challenge holds the per-player play and delta series of one challenge.
type Challenge struct {
	Play  [][]int
	Delta [][]int
}

// NewChallenge returns a challenge with n empty series per kind.
func NewChallenge(n int) *Challenge {
	c := &Challenge{
		Play:  make([][]int, n),
		Delta: make([][]int, n),
	}
	for i := 0; i < n; i++ {
		c.Play[i] = []int{}
		c.Delta[i] = []int{}
	}
	return c
}

// NewSeededChallenge returns a challenge whose series all start with a zero sample.
func NewSeededChallenge(n int) *Challenge {
	c := &Challenge{
		Play:  make([][]int, n),
		Delta: make([][]int, n),
	}
	for i := 0; i < n; i++ {
		c.Play[i] = []int{0}
		c.Delta[i] = []int{0}
	}
	return c
}

// HasPlay reports whether the first player has any play samples.
func (c *Challenge) HasPlay() bool {
	return len(c.Play) > 0 && len(c.Play[0]) > 0
}

// Session is the parsed form of one game log.
//
// Challenges holds one entry per score heading. Entries are shared pointers:
// a heading seen before any play data keeps the current challenge open, and
// the same challenge is recorded again at the following heading.
type Session struct {
	Labels     []string
	Active     []bool
	Scores     [][]int
	HandValues [][]int
	Challenges []*Challenge
	Current    *Challenge

	PlayRange  Range
	DeltaRange Range
	ScoreRange Range
}

// NumPlayers returns the number of declared players.
func (s *Session) NumPlayers() int {
	return len(s.Labels)
}

// AddPlayer registers a player with empty series.
func (s *Session) AddPlayer(label string) {
	s.Labels = append(s.Labels, label)
	s.Active = append(s.Active, true)
	s.Scores = append(s.Scores, []int{})
	s.HandValues = append(s.HandValues, []int{})
}

// ChallengeCount returns the number of challenge pages a session supports:
// every challenge with a recorded score for the first player.
func (s *Session) ChallengeCount() int {
	if len(s.Scores) == 0 {
		return 0
	}
	n := len(s.Scores[0])
	if len(s.Challenges) < n {
		n = len(s.Challenges)
	}
	return n
}
