package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/ericogr/tickduel/internal/constants"
	"github.com/ericogr/tickduel/internal/engine"
	"github.com/ericogr/tickduel/internal/game"
)

// appendLine adds one transcript line and repaints. Returns the line index
// so callers can update it in place later.
func (t *Terminal) appendLine(s string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.appendLocked(s)
}

func (t *Terminal) appendLocked(s string) int {
	t.lines = append(t.lines, s)
	t.redrawLocked()
	return len(t.lines) - 1
}

// setLine replaces one transcript line in place and repaints.
func (t *Terminal) setLine(i int, s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i < 0 || i >= len(t.lines) {
		return
	}
	t.lines[i] = s
	t.redrawLocked()
}

// redrawLocked repaints the transcript tail that fits the screen. Callers
// hold t.mu.
func (t *Terminal) redrawLocked() {
	t.screen.Clear()
	w, h := t.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	start := 0
	if len(t.lines) > h {
		start = len(t.lines) - h
	}
	style := tcell.StyleDefault
	for y, line := range t.lines[start:] {
		x := 0
		for _, r := range line {
			if x >= w {
				break
			}
			t.screen.SetContent(x, y, r, nil, style)
			x++
		}
	}
	t.screen.Show()
}

func (t *Terminal) playerByName(name string) *game.Player {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.first != nil && t.first.Name == name {
		return t.first
	}
	if t.second != nil && t.second.Name == name {
		return t.second
	}
	return nil
}

// MatchStarted renders the banner and remembers the players so later events
// can show their current stats.
func (t *Terminal) MatchStarted(id string, first, second *game.Player) {
	t.mu.Lock()
	t.first = first
	t.second = second
	t.mu.Unlock()

	t.appendLine("TICKDUEL - stop the counter on the objective. First to drain the rival's vitality wins.")
	t.appendLine(fmt.Sprintf("%s vs %s (vitality %d, speed %dms, strength %d)",
		first.Name, second.Name, first.Vitality, first.Speed, first.Strength))
}

// RoundStarted renders the round header and the shared objectives.
func (t *Terminal) RoundStarted(round int, targets game.TargetList) {
	t.mu.Lock()
	t.count = len(targets)
	first, second := t.first, t.second
	t.mu.Unlock()

	t.appendLine("")
	if first != nil && second != nil {
		t.appendLine(fmt.Sprintf("----- Round %d ----- %s %d vitality | %s %d vitality",
			round, first.Name, first.Vitality, second.Name, second.Vitality))
	} else {
		t.appendLine(fmt.Sprintf("----- Round %d -----", round))
	}

	vals := make([]string, len(targets))
	for i, v := range targets {
		vals[i] = fmt.Sprintf("%d", v)
	}
	t.appendLine("Objectives: " + strings.Join(vals, ", "))
}

// TurnStarted renders the turn header with the player's live stats.
func (t *Terminal) TurnStarted(round int, player string) {
	t.appendLine("")
	if p := t.playerByName(player); p != nil {
		t.appendLine(fmt.Sprintf("%s plays (speed %dms, strength %d)", p.Name, p.Speed, p.Strength))
		return
	}
	t.appendLine(fmt.Sprintf("%s plays", player))
}

// AttemptStarted opens the live counter line and paints it from the tick
// stream until the counter freezes.
func (t *Terminal) AttemptStarted(round int, player string, index, target int, ticks <-chan engine.Snapshot) {
	line := t.appendLine("  counter:   0 | miss 0")

	done := make(chan struct{})
	t.painter = done
	go func() {
		defer close(done)
		for s := range ticks {
			t.setLine(line, fmt.Sprintf("  counter: %3d | miss %d", s.Value, s.Miss))
		}
	}()

	t.mu.Lock()
	t.liveLine = line
	t.mu.Unlock()
}

// AttemptResolved waits for the live painter to drain, then replaces the
// counter line with the attempt's final score spelled out as
// (base + strength) / (miss + 1).
func (t *Terminal) AttemptResolved(round int, player string, attempt game.Attempt) {
	if t.painter != nil {
		<-t.painter
		t.painter = nil
	}

	text := fmt.Sprintf("  objective %d: stopped at %d | miss %d | delta %d | score %s",
		attempt.Target, attempt.Value, attempt.Miss, attempt.Delta, attempt.Raw.RatString())
	if p := t.playerByName(player); p != nil {
		text = fmt.Sprintf("  objective %d: stopped at %d | delta %d | score (%d+%d)/(%d+1) = %s",
			attempt.Target, attempt.Value, attempt.Delta,
			engine.BaseScore(attempt.Delta), p.Strength, attempt.Miss, attempt.Raw.RatString())
	}
	if attempt.Forced {
		text += " [forced]"
	}

	t.mu.Lock()
	line := t.liveLine
	t.liveLine = -1
	t.mu.Unlock()
	if line >= 0 {
		t.setLine(line, text)
	} else {
		t.appendLine(text)
	}
}

// TurnResolved renders the aggregated turn score.
func (t *Terminal) TurnResolved(round int, result game.TurnResult) {
	t.appendLine(fmt.Sprintf("  %s's turn score: %d", result.Player, result.Score))
}

// RoundResolved renders the comparison, the penalty and the damage.
func (t *Terminal) RoundResolved(outcome game.RoundOutcome) {
	if outcome.Draw {
		t.appendLine(fmt.Sprintf("Round %d is a draw (%d vs %d): no damage, no penalty.",
			outcome.Round, outcome.First.Score, outcome.Second.Score))
		return
	}
	t.appendLine(fmt.Sprintf("%s wins round %d by %d (%d vs %d).",
		outcome.Winner, outcome.Round, outcome.Difference, outcome.First.Score, outcome.Second.Score))
	if loser := t.playerByName(outcome.Loser); loser != nil {
		t.appendLine(fmt.Sprintf("%s: %s -%d, vitality -%d (now %d).",
			outcome.Loser, outcome.Penalty, constants.PenaltyAmount, outcome.Difference, loser.Vitality))
		return
	}
	t.appendLine(fmt.Sprintf("%s: %s -%d, vitality -%d.",
		outcome.Loser, outcome.Penalty, constants.PenaltyAmount, outcome.Difference))
}

// MatchEnded renders the final banner.
func (t *Terminal) MatchEnded(result game.Result, first, second *game.Player) {
	t.appendLine("")
	if result.Draw {
		t.appendLine(fmt.Sprintf("Both players are down after %d rounds. The duel is a draw.", result.Rounds))
		return
	}
	t.appendLine(fmt.Sprintf("%s wins the duel after %d rounds!", result.Winner, result.Rounds))
}
