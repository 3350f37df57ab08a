package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Scorch/internal/sim"
)

const (
	frameInterval = 16 * time.Millisecond // ~60 FPS
	maxSpeed      = 16
	// restartFrames is how long a finished match stays up before -loop
	// starts the next one.
	restartFrames = 180
)

// spectator runs an AI-vs-AI match in the terminal.
type spectator struct {
	screen tcell.Screen
	match  *sim.Match
	width  int
	height int
	speed  int // match ticks per frame
	paused bool
	loop   bool
	idle   int // frames spent on a finished match
}

func main() {
	seed := flag.Int64("seed", 0, "RNG seed (0 = time based)")
	tanks := flag.Int("tanks", 2, "number of AI tanks")
	speed := flag.Int("speed", 2, "match ticks per frame")
	calm := flag.Bool("calm", false, "disable wind")
	loop := flag.Bool("loop", false, "start a new match when one ends")
	logFile := flag.String("log", "", "write process logs to this file")
	level := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	// The terminal belongs to the renderer, so logs go to a file or nowhere.
	logger := log.New(io.Discard)
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "term-duel"})
	}
	if lvl, err := log.ParseLevel(*level); err == nil {
		logger.SetLevel(lvl)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	opts := []sim.Option{
		sim.WithTankCount(max(*tanks, 2)),
		sim.WithHumanTanks(0),
		sim.WithRand(rand.New(rand.NewSource(*seed))), // #nosec G404 -- reproducible spectating
		sim.WithLogger(logger),
	}
	if *calm {
		opts = append(opts, sim.WithCalm())
	}

	s, err := newSpectator(sim.NewMatch(opts...), *speed, *loop)
	if err != nil {
		fmt.Fprintf(os.Stderr, "terminal: %v\n", err)
		os.Exit(1)
	}
	logger.Info("spectating", "seed", *seed, "tanks", *tanks)
	s.run()
	s.screen.Fini()
	fmt.Print(s.match.Report().Format())
}

func newSpectator(m *sim.Match, speed int, loop bool) (*spectator, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(styleDefault)

	s := &spectator{
		screen: screen,
		match:  m,
		speed:  max(1, min(speed, maxSpeed)),
		loop:   loop,
	}
	s.width, s.height = screen.Size()
	s.newMatch()
	return s, nil
}

func (s *spectator) newMatch() {
	s.match.InitGame()
	_ = s.match.EndBuyingPhase()
	s.idle = 0
}

func (s *spectator) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := s.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !s.handleInput(ev) {
				return
			}
		case <-ticker.C:
			s.step()
			s.draw()
		}
	}
}

// handleInput returns false when the spectator should quit.
func (s *spectator) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case ' ':
			s.paused = !s.paused
		case '+', '=':
			s.speed = min(s.speed*2, maxSpeed)
		case '-':
			s.speed = max(s.speed/2, 1)
		case 'n', 'N':
			s.newMatch()
		}
	case *tcell.EventResize:
		s.width, s.height = s.screen.Size()
		s.screen.Sync()
	}
	return true
}

func (s *spectator) step() {
	if s.paused {
		return
	}
	if s.match.Phase() == sim.PhaseGameOver {
		s.idle++
		if s.loop && s.idle >= restartFrames {
			s.newMatch()
		}
		return
	}
	for i := 0; i < s.speed && s.match.Phase() != sim.PhaseGameOver; i++ {
		s.match.Tick()
	}
}

func (s *spectator) draw() {
	s.screen.Clear()
	render(s.screen, s.match.Snapshot(), s.width, s.height, s.speed, s.paused)
	s.screen.Show()
}
