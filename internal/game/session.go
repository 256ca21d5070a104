package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game/events"
)

// Player is the active-piece state: the falling piece, where it is, and the score.
type Player struct {
	Piece *core.Piece
	Pos   core.Position
	Score int
}

// GameConfig holds the construction parameters of a Session
type GameConfig struct {
	Width     int
	Height    int
	Rng       *rand.Rand
	Publisher events.Publisher
	Logger    zerolog.Logger
}

// Session owns the board and the active piece for one orchestrator run.
// It is not safe for concurrent use.
type Session struct {
	id        string
	board     *core.Board
	player    Player
	rng       *rand.Rand
	publisher events.Publisher
	logger    zerolog.Logger

	// rows swept since the last TakeClearedLines
	clearedLines int
	// set when a spawn collided, cleared by TakeGameOver
	gameOver bool

	episode      int
	episodeLines int
	finalScore   int
}

// NewSession creates a session with an empty board and a freshly spawned piece.
func NewSession(cfg GameConfig) *Session {
	if cfg.Width <= 0 {
		cfg.Width = DefaultBoardWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultBoardHeight
	}
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Publisher == nil {
		cfg.Publisher = events.NopPublisher{}
	}

	s := &Session{
		id:        uuid.New().String(),
		board:     core.NewBoard(cfg.Width, cfg.Height),
		rng:       cfg.Rng,
		publisher: cfg.Publisher,
		episode:   1,
	}
	s.logger = cfg.Logger.With().Str("component", "game_session").Str("session_id", s.id).Logger()

	s.publisher.Publish(events.NewEpisodeStartedEvent(s.id, s.episode, cfg.Width, cfg.Height))
	s.ResetPiece()
	return s
}

// ResetPiece spawns a random piece centered at the top of the board. When the new
// piece collides immediately the game is over: the score drops to 0 and the board is
// emptied. Returns true in that case.
func (s *Session) ResetPiece() bool {
	s.spawn(core.RandomPiece(s.rng))
	return s.checkSpawn()
}

// spawn places p at the top center without checking for collisions.
func (s *Session) spawn(p *core.Piece) {
	s.player.Piece = p
	s.player.Pos = core.Position{
		X: s.board.W/2 - p.Width()/2,
		Y: 0,
	}
}

func (s *Session) checkSpawn() bool {
	over := s.board.Collide(s.player.Piece, s.player.Pos)
	s.publisher.Publish(events.NewPieceSpawnedEvent(s.id, s.episode, s.player.Piece.Type.String(), s.player.Pos.X, over))
	if !over {
		return false
	}

	s.logger.Debug().
		Int("episode", s.episode).
		Int("score", s.player.Score).
		Int("lines", s.episodeLines).
		Msg("Spawn collided, game over")

	s.finalScore = s.player.Score
	s.player.Score = 0
	s.board.Clear()
	s.gameOver = true
	return true
}

// IsGameOver reports whether the active piece collides at its committed position.
func (s *Session) IsGameOver() bool {
	return s.board.Collide(s.player.Piece, s.player.Pos)
}

// TakeGameOver reports whether a spawn collision happened since the last call and
// clears the flag.
func (s *Session) TakeGameOver() bool {
	over := s.gameOver
	s.gameOver = false
	return over
}

// Reset starts the next episode: a new piece and an empty board.
func (s *Session) Reset() {
	s.episode++
	s.clearedLines = 0
	s.episodeLines = 0
	s.publisher.Publish(events.NewEpisodeStartedEvent(s.id, s.episode, s.board.W, s.board.H))

	s.ResetPiece()
	s.board.Clear()
	s.gameOver = false
}

// TakeClearedLines returns the rows swept since the previous call and resets the counter.
func (s *Session) TakeClearedLines() int {
	n := s.clearedLines
	s.clearedLines = 0
	return n
}

// Public accessors
func (s *Session) ID() string          { return s.id }
func (s *Session) Board() *core.Board  { return s.board }
func (s *Session) Player() Player      { return s.player }
func (s *Session) Score() int          { return s.player.Score }
func (s *Session) Episode() int        { return s.episode }
func (s *Session) EpisodeLines() int   { return s.episodeLines }
func (s *Session) LastFinalScore() int { return s.finalScore }
