package tally

// Aggregator accumulates win counts indexed by player.
type Aggregator struct {
	counts []int
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record adds one win for player, growing the count list with zeros as needed.
func (a *Aggregator) Record(player int) {
	if player < 0 {
		return
	}
	a.grow(player + 1)
	a.counts[player]++
}

// Merge adds every count of other into a.
func (a *Aggregator) Merge(other *Aggregator) {
	if other == nil {
		return
	}
	a.grow(len(other.counts))
	for player, wins := range other.counts {
		a.counts[player] += wins
	}
}

func (a *Aggregator) grow(n int) {
	for len(a.counts) < n {
		a.counts = append(a.counts, 0)
	}
}

// Len returns the number of tracked players.
func (a *Aggregator) Len() int {
	return len(a.counts)
}

// Snapshot returns a copy of the counts ordered by player index.
func (a *Aggregator) Snapshot() []int {
	out := make([]int, len(a.counts))
	copy(out, a.counts)
	return out
}
