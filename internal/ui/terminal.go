// Package ui renders the duel on a tcell terminal screen and turns key
// presses into the start/stop signals the engine blocks on.
package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/ericogr/tickduel/internal/constants"
	"github.com/ericogr/tickduel/internal/engine"
	"github.com/ericogr/tickduel/internal/game"
	"github.com/ericogr/tickduel/internal/service"
)

// ErrQuit reports that the player asked to leave (Ctrl+C or ESC).
var ErrQuit = errors.New("quit requested")

var (
	_ engine.Input         = (*Terminal)(nil)
	_ engine.PenaltyPicker = (*Terminal)(nil)
	_ service.Observer     = (*Terminal)(nil)
)

// key is one translated terminal key press.
type key struct {
	r     rune
	enter bool
}

// Terminal is the interactive front end. It owns the screen, pumps key
// events on Run, and renders the match transcript line by line. The zero
// Terminal is not usable; construct it with NewTerminal around an
// initialized screen.
type Terminal struct {
	screen tcell.Screen

	// keys receives translated presses from the Run pump and is closed when
	// the pump exits. The await helpers surface the closure through lost.
	keys chan key
	// dead flips on the first wait that finds keys closed. It is only
	// touched by the awaiting goroutine.
	dead bool

	mu       sync.Mutex
	lines    []string
	liveLine int
	count    int
	first    *game.Player
	second   *game.Player

	painter   chan struct{}
	closeOnce sync.Once
}

// NewTerminal wraps an already-initialized screen. Tests pass tcell's
// simulation screen here.
func NewTerminal(screen tcell.Screen) *Terminal {
	return &Terminal{
		screen:   screen,
		keys:     make(chan key, 8),
		liveLine: -1,
	}
}

// Run pumps terminal events until the screen is finalized, the context ends
// or the player quits. It must run on its own goroutine for the await
// helpers to make progress.
func (t *Terminal) Run(ctx context.Context) error {
	defer close(t.keys)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			t.screen.Sync()
			t.mu.Lock()
			t.redrawLocked()
			t.mu.Unlock()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyCtrlC, tcell.KeyEscape:
				return ErrQuit
			case tcell.KeyEnter:
				t.offer(key{enter: true})
			case tcell.KeyRune:
				t.offer(key{r: ev.Rune()})
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

// Close finalizes the screen. Safe to call more than once; the first call
// unblocks the Run pump.
func (t *Terminal) Close() {
	t.closeOnce.Do(func() { t.screen.Fini() })
}

// offer hands a key to whoever is awaiting one. Presses are dropped when the
// buffer is full rather than blocking the pump.
func (t *Terminal) offer(k key) {
	select {
	case t.keys <- k:
	default:
	}
}

// AwaitStart blocks until the player presses ENTER to launch the attempt.
func (t *Terminal) AwaitStart(ctx context.Context, player string, index, target int) error {
	t.mu.Lock()
	count := t.count
	t.mu.Unlock()
	t.appendLine(fmt.Sprintf("%s, objective %d/%d is %d. ENTER launches the counter; ENTER again stops it.", player, index+1, count, target))
	return t.awaitEnter(ctx)
}

// AwaitStop blocks until the player presses ENTER to freeze the counter.
func (t *Terminal) AwaitStop(ctx context.Context) error {
	return t.awaitEnter(ctx)
}

func (t *Terminal) awaitEnter(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case k, ok := <-t.keys:
			if !ok {
				return t.lost()
			}
			if k.enter {
				return nil
			}
		}
	}
}

// lost reports the first key-stream death as a lost signal so the attempt in
// flight still freezes and scores. Every later wait fails with ErrQuit:
// a dead terminal must not keep feeding forced attempts into new rounds.
func (t *Terminal) lost() error {
	if t.dead {
		return ErrQuit
	}
	t.dead = true
	return engine.ErrSignalLost
}

// PickPenalty asks the round winner to poison one of the loser's stats.
func (t *Terminal) PickPenalty(ctx context.Context, winner, loser string) (game.PenaltyChoice, error) {
	t.appendLine(fmt.Sprintf("%s, choose the penalty for %s:", winner, loser))
	t.appendLine(fmt.Sprintf("  [1] speed -%d    [2] strength -%d", constants.PenaltyAmount, constants.PenaltyAmount))
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case k, ok := <-t.keys:
			if !ok {
				return "", t.lost()
			}
			switch k.r {
			case '1':
				return game.PenaltySpeed, nil
			case '2':
				return game.PenaltyStrength, nil
			}
		}
	}
}

// PlayAgain asks for another match once the current one ended. A dead input
// stream counts as a no.
func (t *Terminal) PlayAgain(ctx context.Context) (bool, error) {
	t.appendLine("")
	t.appendLine("Play again? [y/n]")
	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case k, ok := <-t.keys:
			if !ok {
				return false, nil
			}
			switch k.r {
			case 'y', 'Y':
				return true, nil
			case 'n', 'N':
				return false, nil
			}
		}
	}
}
