package game

import (
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game/events"
)

// Apply runs the controller operation bound to a. Out-of-range actions are ignored.
func (s *Session) Apply(a Action) {
	switch a {
	case ActionMoveLeft:
		s.Move(-1)
	case ActionMoveRight:
		s.Move(1)
	case ActionRotate:
		s.Rotate(1)
	case ActionSoftDrop:
		s.Drop()
	}
}

// Move shifts the piece horizontally by dir, or leaves it where it was if the
// shifted position collides.
func (s *Session) Move(dir int) bool {
	s.player.Pos.X += dir
	if s.board.Collide(s.player.Piece, s.player.Pos) {
		s.player.Pos.X -= dir
		return false
	}
	return true
}

// Rotate turns the piece and searches for a horizontal kick (+1, -2, +3, -4, ...)
// that resolves any collision. The search gives up once the next positive offset is
// wider than the piece, restoring the original orientation and x.
func (s *Session) Rotate(dir int) bool {
	origX := s.player.Pos.X
	offset := 1

	s.player.Piece.Rotate(dir)
	for s.board.Collide(s.player.Piece, s.player.Pos) {
		s.player.Pos.X += offset
		if offset > 0 {
			offset = -(offset + 1)
		} else {
			offset = -(offset - 1)
		}
		if offset > s.player.Piece.Width() {
			s.player.Piece.Rotate(-dir)
			s.player.Pos.X = origX
			return false
		}
	}
	return true
}

// Drop moves the piece one row down. If that collides, the piece locks in place,
// full rows are swept and a new piece spawns. Returns true when the piece locked.
func (s *Session) Drop() bool {
	s.player.Pos.Y++
	if !s.board.Collide(s.player.Piece, s.player.Pos) {
		return false
	}

	s.player.Pos.Y--
	s.board.Merge(s.player.Piece, s.player.Pos)
	s.publisher.Publish(events.NewPieceLockedEvent(s.id, s.episode, s.player.Piece.Type.String(), s.player.Pos.X, s.player.Pos.Y))
	s.sweep()
	s.ResetPiece()
	return true
}

func (s *Session) sweep() {
	rows := s.board.Sweep()
	if rows == 0 {
		return
	}
	s.clearedLines += rows
	s.episodeLines += rows
	s.player.Score += rows * PointsPerLine
	s.publisher.Publish(events.NewLinesClearedEvent(s.id, s.episode, rows, s.player.Score))
}
