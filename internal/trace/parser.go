// Package trace parses a single game log into per-player time series.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/verte-zerg/monkeylog/internal/model"
)

const (
	headerPrefix = "Players:"
	playerPrefix = "- "
	playWord     = `p%d=(\d+)`
	maxLineSize  = 1024 * 1024
)

var (
	playerDecl   = regexp.MustCompile(`- \d+: (.*)`)
	handReveal   = regexp.MustCompile(`: player (\d+) \(v=(\d+)\)`)
	concession   = regexp.MustCompile(`<player (\d+):concede>`)
	scoreHeading = regexp.MustCompile(`: score:`)
	scoreLine    = regexp.MustCompile(`player (\d+): (\d+)`)
)

type state int

const (
	stateHeader state = iota
	statePlayers
	stateScan
	stateScore
)

// Parser is a line-driven state machine that builds a model.Session.
//
// The log opens with a "Players:" header and a "- <n>: <name>" line per
// player. After that every line is matched against, in order: a play-values
// line, a hand reveal, a concession and a score heading. A score heading is
// followed by "player <n>: <score>" lines; the first line that is not a
// score line is matched again as a general line.
type Parser struct {
	sess  *model.Session
	state state
	line  int
	play  *regexp.Regexp
	err   error
}

// NewParser returns a Parser awaiting the header line.
func NewParser() *Parser {
	return &Parser{sess: &model.Session{}}
}

// Feed processes one log line without its trailing newline. After an error
// the parser is stuck and returns the same error for every later call.
func (p *Parser) Feed(line string) error {
	if p.err != nil {
		return p.err
	}
	p.line++
	next, err := p.handle(p.state, line)
	if err != nil {
		p.err = &ParseError{Line: p.line, Text: line, Err: err}
		return p.err
	}
	p.state = next
	return nil
}

// Session returns the series accumulated so far. A log that ends in the
// middle of a challenge is returned as is.
func (p *Parser) Session() (*model.Session, error) {
	if p.err != nil {
		return nil, p.err
	}
	if p.state == stateHeader {
		return nil, &ParseError{Line: p.line, Err: ErrMissingHeader}
	}
	if p.sess.Current == nil {
		p.sess.Current = model.NewChallenge(p.sess.NumPlayers())
	}
	return p.sess, nil
}

func (p *Parser) handle(s state, line string) (state, error) {
	switch s {
	case stateHeader:
		return p.header(line)
	case statePlayers:
		return p.players(line)
	case stateScore:
		return p.scores(line)
	default:
		return p.scan(line)
	}
}

func (p *Parser) header(line string) (state, error) {
	if !strings.HasPrefix(line, headerPrefix) {
		return stateHeader, ErrMissingHeader
	}
	return statePlayers, nil
}

func (p *Parser) players(line string) (state, error) {
	if !strings.HasPrefix(line, playerPrefix) {
		p.closePlayers()
		return p.scan(line)
	}
	m := playerDecl.FindStringSubmatch(line)
	if m == nil {
		return statePlayers, ErrBadPlayerLine
	}
	p.sess.AddPlayer(m[1])
	return statePlayers, nil
}

func (p *Parser) closePlayers() {
	n := p.sess.NumPlayers()
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf(playWord, i)
	}
	p.play = regexp.MustCompile(strings.Join(words, " "))
	p.sess.Current = model.NewChallenge(n)
}

func (p *Parser) scan(line string) (state, error) {
	if m := p.play.FindStringSubmatch(line); m != nil {
		return stateScan, p.playValues(m[1:])
	}
	if m := handReveal.FindStringSubmatch(line); m != nil {
		player, value, err := p.playerValue(m[1], m[2])
		if err != nil {
			return stateScan, err
		}
		p.sess.HandValues[player] = append(p.sess.HandValues[player], value)
		return stateScan, nil
	}
	if m := concession.FindStringSubmatch(line); m != nil {
		player, err := p.playerIndex(m[1])
		if err != nil {
			return stateScan, err
		}
		p.sess.Active[player] = false
		return stateScan, nil
	}
	if scoreHeading.MatchString(line) {
		p.closeChallenge()
		return stateScore, nil
	}
	return stateScan, nil
}

func (p *Parser) scores(line string) (state, error) {
	m := scoreLine.FindStringSubmatch(line)
	if m == nil {
		return p.scan(line)
	}
	player, value, err := p.playerValue(m[1], m[2])
	if err != nil {
		return stateScore, err
	}
	p.sess.Scores[player] = append(p.sess.Scores[player], value)
	p.sess.ScoreRange.Observe(value)
	return stateScore, nil
}

func (p *Parser) playValues(fields []string) error {
	values := make([]int, len(fields))
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil {
			return ErrBadNumber
		}
		values[i] = v
	}

	cur := p.sess.Current
	for i, v := range values {
		prev := 0
		if n := len(cur.Play[i]); n > 0 {
			prev = cur.Play[i][n-1]
		}
		if p.sess.Active[i] {
			p.sess.PlayRange.Observe(v)
			cur.Play[i] = append(cur.Play[i], v)
		}
		delta := v - prev
		p.sess.DeltaRange.Observe(delta)
		cur.Delta[i] = append(cur.Delta[i], delta)
	}
	return nil
}

// closeChallenge records the current challenge. Only a challenge with play
// data for the first player is replaced by a fresh one.
func (p *Parser) closeChallenge() {
	p.sess.Challenges = append(p.sess.Challenges, p.sess.Current)
	if !p.sess.Current.HasPlay() {
		return
	}
	p.sess.Current = model.NewSeededChallenge(p.sess.NumPlayers())
	for i := range p.sess.Active {
		p.sess.Active[i] = true
	}
}

func (p *Parser) playerIndex(field string) (int, error) {
	player, err := strconv.Atoi(field)
	if err != nil {
		return 0, ErrBadNumber
	}
	if player >= p.sess.NumPlayers() {
		return 0, ErrPlayerIndex
	}
	return player, nil
}

func (p *Parser) playerValue(playerField, valueField string) (int, int, error) {
	player, err := p.playerIndex(playerField)
	if err != nil {
		return 0, 0, err
	}
	value, err := strconv.Atoi(valueField)
	if err != nil {
		return 0, 0, ErrBadNumber
	}
	return player, value, nil
}

// Parse reads a whole log from r.
func Parse(r io.Reader) (*model.Session, error) {
	p := NewParser()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if err := p.Feed(strings.TrimSuffix(scanner.Text(), "\r")); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.Session()
}

// ParseFile parses the log at path.
func ParseFile(path string) (*model.Session, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only log.
			_ = cerr
		}
	}()

	sess, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return sess, nil
}
