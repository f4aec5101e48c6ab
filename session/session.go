package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/akmonengine/arena"
	"github.com/akmonengine/arena/actor"
	"github.com/akmonengine/arena/ai"
	"github.com/akmonengine/arena/camera"
	"github.com/akmonengine/arena/control"
	"github.com/akmonengine/arena/hud"
	"github.com/akmonengine/arena/input"
	"github.com/akmonengine/arena/match"
	"github.com/akmonengine/arena/profile"
	"github.com/rs/zerolog"
)

// ProfileSource supplies the player profile before the match is built
type ProfileSource interface {
	Player(ctx context.Context, id string) (profile.Player, error)
	Customization(ctx context.Context, playerID string) (profile.Customization, error)
}

// ResultSink receives the summary of every finished match of a registered player
type ResultSink interface {
	SaveMatch(ctx context.Context, result match.Result) error
}

// Publisher receives one HUD frame per simulated frame
type Publisher interface {
	Publish(frame hud.Frame)
	Close() error
}

var (
	ErrNotStarted      = errors.New("session not started")
	ErrMatchOver       = errors.New("match already over")
	ErrInvalidDuration = errors.New("match duration must be positive")
)

const postBuffer = 64

type Options struct {
	Pitch         arena.PitchConfig
	MatchDuration int
	MatchType     string
	FrameRate     int
	SaveTimeout   time.Duration
}

func DefaultOptions() Options {
	return Options{
		Pitch:         arena.DefaultPitchConfig(),
		MatchDuration: match.DefaultDuration,
		MatchType:     match.DefaultMatchType,
		FrameRate:     60,
		SaveTimeout:   10 * time.Second,
	}
}

// Session runs one player against the scripted opponent.
// All simulation state is owned by the goroutine calling Frame and TickSecond.
type Session struct {
	Logger zerolog.Logger

	Input    *input.State
	Mapper   input.Mapper
	Actuator control.Actuator
	Pursuit  ai.Pursuit
	Detector match.Detector

	Pitch  *arena.Pitch
	State  *match.State
	Camera *camera.Camera

	// nil for a guest
	Player        *profile.Player
	Customization profile.Customization

	opts      Options
	sinks     []ResultSink
	publisher Publisher
	metrics   *metrics
	stats     Stats
	tick      uint64

	posted chan func(*input.State)
	saves  sync.WaitGroup

	mu        sync.Mutex
	cancel    context.CancelFunc
	loopDone  chan struct{}
	closed    bool
	closeOnce sync.Once
}

// New creates a session in the guest lobby. publisher may be nil.
func New(log zerolog.Logger, opts Options, publisher Publisher, sinks ...ResultSink) (*Session, error) {
	if opts.MatchDuration <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDuration, opts.MatchDuration)
	}

	m, err := newMetrics()
	if err != nil {
		return nil, err
	}

	return &Session{
		Logger:        log,
		Input:         input.NewState(),
		Mapper:        input.DefaultMapper(),
		Actuator:      control.DefaultActuator(),
		Pursuit:       ai.DefaultPursuit(),
		Detector:      match.DefaultDetector(),
		Customization: profile.DefaultCustomization(""),
		opts:          opts,
		sinks:         sinks,
		publisher:     publisher,
		metrics:       m,
		posted:        make(chan func(*input.State), postBuffer),
	}, nil
}

// Setup loads the profile and customization of playerID.
// Any failure leaves the session in the guest lobby with the default customization.
func (s *Session) Setup(ctx context.Context, src ProfileSource, playerID string) {
	s.Player = nil
	s.Customization = profile.DefaultCustomization(playerID)

	if src == nil || playerID == "" {
		s.Logger.Info().Msg("No profile, playing as guest")
		return
	}

	player, err := src.Player(ctx, playerID)
	if err != nil {
		s.Logger.Warn().Err(err).Str("player", playerID).Msg("Failed to load profile, playing as guest")
		return
	}
	s.Player = &player

	custom, err := src.Customization(ctx, playerID)
	if err != nil {
		s.Logger.Warn().Err(err).Str("player", playerID).Msg("Failed to load customization, using default")
		return
	}
	s.Customization = custom

	s.Logger.Info().Str("player", player.ID).Str("username", player.Username).
		Int("level", player.Level).Str("rank", player.Rank).Msg("Profile loaded")
}

// Start builds the arena and a fresh match
func (s *Session) Start() {
	s.Pitch = arena.NewPitch(s.opts.Pitch)
	s.State = match.NewState(s.opts.MatchDuration)
	s.Camera = camera.New()
	s.Camera.Snap(s.Pitch.Player)
	s.Input.Clear()
	s.tick = 0

	s.Pitch.World.Events.Subscribe(arena.COLLISION_ENTER, s.onContact)

	s.Logger.Info().Int("duration", s.State.Duration).Str("color", s.Customization.BodyColor).Msg("Match started")
}

func (s *Session) onContact(event arena.Event) {
	e := event.(arena.CollisionEnterEvent)
	other, ok := arena.Involves(e.BodyA, e.BodyB, actor.Ball)
	if !ok || other.IsStatic() {
		return
	}

	s.stats.BallTouches++
	s.metrics.touch(other.ID.String())
}

// Frame runs one frame: input, player control, opponent policy, physics, goals, camera and HUD.
// It returns the number of physics steps taken, and does nothing before Start or once the match is over.
func (s *Session) Frame(elapsed float64) int {
	if s.Pitch == nil || !s.State.Running() {
		return 0
	}

	intent := s.Mapper.Resolve(s.Input)
	s.Actuator.ApplyPlayerControl(s.Pitch.Player, intent, &s.State.Boost)
	s.Pursuit.Step(s.Pitch.Opponent, s.Pitch.Ball)

	steps := s.Pitch.World.Advance(elapsed)

	if scorer := s.Detector.Detect(s.Pitch.Ball.Transform.Position); s.State.RecordGoal(scorer) {
		s.stats.Goals++
		s.metrics.goal(scorer.String())
		s.Logger.Info().Str("scorer", scorer.String()).
			Int("player", s.State.Score.Player).Int("opponent", s.State.Score.Opponent).
			Msg("Goal")

		s.Pitch.ResetKickoff()
		s.State.Kickoff()
	}

	s.Camera.Follow(s.Pitch.Player)

	s.tick++
	s.stats.Frames++
	s.stats.Substeps += int64(steps)
	s.metrics.frame(steps)

	if s.publisher != nil {
		s.publisher.Publish(hud.NewFrame(s.tick, s.State, s.Camera, s.Customization.BodyColor,
			s.Pitch.Ball, s.Pitch.Player, s.Pitch.Opponent))
	}

	return steps
}

// TickSecond is the one second timer callback. It returns true on the tick ending the match,
// after the result has been handed to the sinks and the arena reset.
func (s *Session) TickSecond() bool {
	if s.State == nil || !s.State.TickSecond() {
		return false
	}

	result := match.Summarize(s.playerID(), s.opts.MatchType, s.State)
	s.stats.Matches++
	s.metrics.matchEnded(string(result.Result))
	s.Logger.Info().Str("result", string(result.Result)).
		Int("player", result.PlayerGoals).Int("opponent", result.OpponentGoals).
		Int("xp", result.XPEarned).Int("coins", result.CoinsEarned).
		Msg("Match ended")

	s.persist(result)

	s.Pitch.ResetMatch()
	s.Input.Clear()
	return true
}

func (s *Session) playerID() string {
	if s.Player == nil {
		return ""
	}
	return s.Player.ID
}

// persist hands the result to every sink without waiting. Failures are logged and dropped.
func (s *Session) persist(result match.Result) {
	if s.Player == nil {
		s.Logger.Info().Msg("Guest match, result not saved")
		return
	}
	if len(s.sinks) == 0 {
		return
	}

	s.saves.Add(1)
	go func() {
		defer s.saves.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.opts.SaveTimeout)
		defer cancel()

		var errs []error
		for _, sink := range s.sinks {
			if err := sink.SaveMatch(ctx, result); err != nil {
				errs = append(errs, err)
			}
		}

		if err := errors.Join(errs...); err != nil {
			s.Logger.Error().Err(err).Str("player", result.PlayerID).Msg("Failed to save match result")
			return
		}
		s.Logger.Debug().Str("player", result.PlayerID).Msg("Match result saved")
	}()
}

// Stats returns the counters of the session. Not safe while Run is active.
func (s *Session) Stats() Stats {
	return s.stats
}

// Post queues an input mutation to be applied by the loop between frames.
// It is dropped if the queue is full.
func (s *Session) Post(fn func(*input.State)) {
	select {
	case s.posted <- fn:
	default:
		s.Logger.Warn().Msg("Input queue full, dropping event")
	}
}

// Run drives frames at the configured rate and the match timer every second until the match
// ends, ctx is canceled or Close is called. Both tickers stop on the same transition.
func (s *Session) Run(ctx context.Context) error {
	if s.Pitch == nil {
		return ErrNotStarted
	}
	if s.State.Ended() {
		return ErrMatchOver
	}

	rate := s.opts.FrameRate
	if rate <= 0 {
		rate = 60
	}

	frames := time.NewTicker(time.Second / time.Duration(rate))
	defer frames.Stop()
	seconds := time.NewTicker(time.Second)
	defer seconds.Stop()

	return s.loop(ctx, frames.C, seconds.C)
}

func (s *Session) loop(ctx context.Context, frames, seconds <-chan time.Time) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	defer close(done)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return context.Canceled
	}
	s.cancel = cancel
	s.loopDone = done
	s.mu.Unlock()

	var last time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-s.posted:
			fn(s.Input)
		case now := <-frames:
			elapsed := 0.0
			if !last.IsZero() {
				elapsed = now.Sub(last).Seconds()
			}
			last = now
			s.Frame(elapsed)
		case <-seconds:
			if s.TickSecond() {
				return nil
			}
		}
	}
}

// Close stops the loop, waits for the saves in flight and closes the publisher
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		cancel, done := s.cancel, s.loopDone
		s.mu.Unlock()

		if cancel != nil {
			cancel()
			<-done
		}

		s.saves.Wait()
		s.Input.Clear()

		if s.publisher != nil {
			err = s.publisher.Close()
		}
	})
	return err
}
