package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game/core"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/game/events"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/testutil"
)

func newTestSession(t *testing.T, w, h int) *Session {
	t.Helper()
	return NewSession(GameConfig{
		Width:  w,
		Height: h,
		Rng:    testutil.NewTestRNG(42),
		Logger: testutil.NopLogger(),
	})
}

func TestNewSession(t *testing.T) {
	s := newTestSession(t, 0, 0)

	assert.NotEmpty(t, s.ID())
	assert.Equal(t, DefaultBoardWidth, s.Board().W)
	assert.Equal(t, DefaultBoardHeight, s.Board().H)
	assert.Equal(t, 1, s.Episode())
	assert.Equal(t, 0, s.Score())
	require.NotNil(t, s.Player().Piece)
	assert.Equal(t, 0, s.Player().Pos.Y)
	assert.False(t, s.IsGameOver())
}

func TestSpawnCentersPiece(t *testing.T) {
	s := newTestSession(t, 12, 20)

	tests := []struct {
		piece     core.PieceType
		expectedX int
	}{
		{core.PieceO, 5}, // 12/2 - 2/2
		{core.PieceT, 5}, // 12/2 - 3/2
		{core.PieceI, 4}, // 12/2 - 4/2
	}

	for _, tt := range tests {
		t.Run(tt.piece.String(), func(t *testing.T) {
			s.spawn(core.NewPiece(tt.piece))
			assert.Equal(t, core.Position{X: tt.expectedX, Y: 0}, s.Player().Pos)
		})
	}
}

func TestResetPiece_EmptyBoardNeverGameOver(t *testing.T) {
	s := newTestSession(t, 12, 20)

	for i := 0; i < 200; i++ {
		require.False(t, s.ResetPiece(), "spawn %d", i)
		assert.False(t, s.IsGameOver())
	}
	assert.False(t, s.TakeGameOver())
}

func TestResetPiece_OccupiedSpawnAreaIsGameOver(t *testing.T) {
	s := newTestSession(t, 12, 20)

	for i := 0; i < 20; i++ {
		s.player.Score = 70
		for y := 0; y < 4; y++ {
			s.board.Cells[y] = testutil.FullRow(12, 3)
		}
		// keep the rows below occupied too, so a cleared board is observable
		s.board.Cells[19][0] = 1

		require.True(t, s.ResetPiece(), "spawn %d", i)
		assert.Equal(t, 0, s.Score())
		assert.Equal(t, 70, s.LastFinalScore())
		assert.Zero(t, s.Board().FilledCount())
		assert.True(t, s.TakeGameOver())
		assert.False(t, s.TakeGameOver(), "flag is cleared once read")
	}
}

func TestMove(t *testing.T) {
	s := newTestSession(t, 12, 20)
	s.spawn(core.NewPiece(core.PieceO))

	assert.True(t, s.Move(-1))
	assert.Equal(t, 4, s.Player().Pos.X)
	assert.True(t, s.Move(1))
	assert.Equal(t, 5, s.Player().Pos.X)

	for s.Move(-1) {
	}
	assert.Equal(t, 0, s.Player().Pos.X, "stops at the left wall")
	assert.False(t, s.Move(-1))
	assert.Equal(t, 0, s.Player().Pos.X, "blocked move is reverted exactly")

	for s.Move(1) {
	}
	assert.Equal(t, 10, s.Player().Pos.X, "stops at the right wall")
}

func TestMove_BlockedByLockedCells(t *testing.T) {
	s := newTestSession(t, 12, 20)
	s.spawn(core.NewPiece(core.PieceO))
	s.board.Cells[0][4] = 2

	assert.False(t, s.Move(-1))
	assert.Equal(t, 5, s.Player().Pos.X)
}

func TestRotate_Free(t *testing.T) {
	s := newTestSession(t, 12, 20)
	s.spawn(core.NewPiece(core.PieceT))
	s.player.Pos.Y = 5

	assert.True(t, s.Rotate(1))
	assert.Equal(t, [][]int{{0, 1, 0}, {1, 1, 0}, {0, 1, 0}}, s.Player().Piece.Cells)
	assert.Equal(t, 5, s.Player().Pos.X)
}

func TestRotate_FourTimesRestoresLayout(t *testing.T) {
	s := newTestSession(t, 12, 20)
	s.spawn(core.NewPiece(core.PieceL))
	s.player.Pos.Y = 5
	original := s.Player().Piece.Clone()

	for i := 0; i < 4; i++ {
		require.True(t, s.Rotate(1))
	}
	assert.True(t, s.Player().Piece.Equal(original))
	assert.Equal(t, 5, s.Player().Pos.X)
}

func TestRotate_WallKick(t *testing.T) {
	s := newTestSession(t, 12, 20)
	s.spawn(core.NewPiece(core.PieceI))
	s.player.Pos = core.Position{X: 9, Y: 5}
	require.False(t, s.IsGameOver())

	// horizontal I would span x=9..12; +1 still collides, -2 fits
	assert.True(t, s.Rotate(1))
	assert.Equal(t, 8, s.Player().Pos.X)
	assert.Equal(t, []int{5, 5, 5, 5}, s.Player().Piece.Cells[2])
	assert.False(t, s.IsGameOver())
}

func TestRotate_AbandonedWhenNoKickFits(t *testing.T) {
	s := newTestSession(t, 4, 20)
	s.spawn(core.NewPiece(core.PieceI))
	s.board.Cells[2][0] = 1
	require.Equal(t, 0, s.Player().Pos.X)
	require.False(t, s.IsGameOver())
	original := s.Player().Piece.Clone()

	assert.False(t, s.Rotate(1))
	assert.True(t, s.Player().Piece.Equal(original))
	assert.Equal(t, 0, s.Player().Pos.X)
}

func TestDrop_FallsAndLocks(t *testing.T) {
	s := newTestSession(t, 12, 20)
	s.spawn(core.NewPiece(core.PieceO))

	assert.False(t, s.Drop())
	assert.Equal(t, 1, s.Player().Pos.Y)

	locked := false
	for i := 0; i < 30 && !locked; i++ {
		locked = s.Drop()
	}
	require.True(t, locked)
	assert.Equal(t, 2, s.Board().Cells[18][5])
	assert.Equal(t, 2, s.Board().Cells[19][6])
	assert.Equal(t, 4, s.Board().FilledCount())
	assert.Equal(t, 0, s.Player().Pos.Y, "a new piece spawned")
	assert.Equal(t, 0, s.TakeClearedLines())
}

func TestDrop_ClearsLinesAndScores(t *testing.T) {
	bus := events.NewEventBus(testutil.NopLogger())
	var cleared []*events.LinesClearedEvent
	bus.SubscribeFunc(events.TypeLinesCleared, func(e events.Event) {
		cleared = append(cleared, e.(*events.LinesClearedEvent))
	})

	s := NewSession(GameConfig{Width: 12, Height: 20, Rng: testutil.NewTestRNG(1), Publisher: bus, Logger: testutil.NopLogger()})
	for _, y := range []int{18, 19} {
		s.board.Cells[y] = testutil.FullRow(12, 4)
		s.board.Cells[y][0] = 0
		s.board.Cells[y][1] = 0
	}
	s.board.Cells[17][5] = 6
	s.spawn(core.NewPiece(core.PieceO))
	s.player.Pos = core.Position{X: 0, Y: 18}

	require.True(t, s.Drop())

	assert.Equal(t, 20, s.Score())
	assert.Equal(t, 2, s.EpisodeLines())
	assert.Equal(t, 2, s.TakeClearedLines())
	assert.Equal(t, 0, s.TakeClearedLines(), "counter resets after being read")
	assert.Equal(t, 1, s.Board().FilledCount())
	assert.Equal(t, 6, s.Board().Cells[19][5], "row above shifted down by two")
	require.Len(t, cleared, 1)
	assert.Equal(t, 2, cleared[0].Count)
	assert.Equal(t, 20, cleared[0].Score)
}

func TestApply(t *testing.T) {
	s := newTestSession(t, 12, 20)
	s.spawn(core.NewPiece(core.PieceT))

	s.Apply(ActionMoveLeft)
	assert.Equal(t, 4, s.Player().Pos.X)
	s.Apply(ActionMoveRight)
	assert.Equal(t, 5, s.Player().Pos.X)
	s.Apply(ActionSoftDrop)
	assert.Equal(t, 1, s.Player().Pos.Y)
	s.Apply(ActionRotate)
	assert.Equal(t, [][]int{{0, 1, 0}, {1, 1, 0}, {0, 1, 0}}, s.Player().Piece.Cells)

	before := s.Player()
	s.Apply(Action(9))
	assert.Equal(t, before.Pos, s.Player().Pos)
}

func TestReset(t *testing.T) {
	s := newTestSession(t, 12, 20)
	s.board.Cells[19][3] = 1
	s.clearedLines = 2

	s.Reset()

	assert.Equal(t, 2, s.Episode())
	assert.Zero(t, s.Board().FilledCount())
	assert.Zero(t, s.TakeClearedLines())
	assert.False(t, s.TakeGameOver())
	assert.Equal(t, 0, s.Player().Pos.Y)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "move_left", ActionMoveLeft.String())
	assert.Equal(t, "soft_drop", ActionSoftDrop.String())
	assert.Equal(t, "action(7)", Action(7).String())
	assert.True(t, ActionRotate.Valid())
	assert.False(t, Action(-1).Valid())
	assert.Len(t, AllActions, NumActions)
}

func TestSessionString(t *testing.T) {
	s := newTestSession(t, 4, 3)
	out := s.String()

	assert.Contains(t, out, "Score: 0")
	assert.Contains(t, out, "Episode: 1")
	assert.Contains(t, out, "+----+")
}

func TestCellAt_PieceOverlaysBoard(t *testing.T) {
	s := newTestSession(t, 12, 20)
	s.spawn(core.NewPiece(core.PieceO))
	pieceValue := s.Player().Piece.Cells[0][0]
	require.NotZero(t, pieceValue)

	s.board.Cells[19][0] = 7

	assert.Equal(t, pieceValue, s.CellAt(5, 0))
	assert.Equal(t, pieceValue, s.CellAt(6, 1))
	assert.Equal(t, 0, s.CellAt(4, 0))
	assert.Equal(t, 0, s.CellAt(5, 2))
	assert.Equal(t, 7, s.CellAt(0, 19))
}
