// Package tally counts per-player wins of one challenge across game logs.
package tally

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
)

// DefaultChallenge is the challenge number tallied when none is configured.
const DefaultChallenge = 16

const maxLineSize = 1024 * 1024

var (
	challengeMarker = regexp.MustCompile(` BEGIN CHALLENGE #(\d+)`)
	playerMarker    = regexp.MustCompile(` - player (\d+): (\d+)`)
)

type scanState int

const (
	seekChallenge scanState = iota
	inChallenge
)

// Result is the outcome of scanning one log.
type Result struct {
	Path      string
	Winner    int
	HighScore int
	HasWinner bool
}

// Scanner finds the top scorer inside the target challenge block of a log.
// It is fed one line at a time and never leaves the challenge block once
// it has entered it.
type Scanner struct {
	target string
	state  scanState
	best   int
	high   int
}

// NewScanner returns a Scanner for the given challenge number.
func NewScanner(challenge int) *Scanner {
	return &Scanner{
		target: strconv.Itoa(challenge),
		best:   -1,
	}
}

// Feed processes one log line.
func (s *Scanner) Feed(line string) {
	if s.state == seekChallenge {
		s.state = s.seek(line)
	}
	if s.state == inChallenge {
		s.score(line)
	}
}

func (s *Scanner) seek(line string) scanState {
	m := challengeMarker.FindStringSubmatch(line)
	if m != nil && m[1] == s.target {
		return inChallenge
	}
	return seekChallenge
}

func (s *Scanner) score(line string) {
	m := playerMarker.FindStringSubmatch(line)
	if m == nil {
		return
	}
	player, err := strconv.Atoi(m[1])
	if err != nil {
		return
	}
	value, err := strconv.Atoi(m[2])
	if err != nil {
		return
	}
	if value > s.high {
		s.high = value
		s.best = player
	}
}

// Result returns the winner seen so far.
func (s *Scanner) Result() Result {
	if s.best < 0 {
		return Result{Winner: -1}
	}
	return Result{Winner: s.best, HighScore: s.high, HasWinner: true}
}

// Scan reads every line from r and returns the winner of the target challenge.
func Scan(r io.Reader, challenge int) (Result, error) {
	s := NewScanner(challenge)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		s.Feed(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Result{Winner: -1}, err
	}
	return s.Result(), nil
}

// ScanFile scans the log at path.
func ScanFile(path string, challenge int) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{Path: path, Winner: -1}, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only log.
			_ = cerr
		}
	}()

	res, err := Scan(file, challenge)
	res.Path = path
	if err != nil {
		return res, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return res, nil
}
