package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/jigsawd/internal/dependencies/mocks"
	"github.com/mcoot/jigsawd/internal/dependencies/random"
	"github.com/mcoot/jigsawd/internal/model"
	"github.com/mcoot/jigsawd/internal/testutil"
)

func newService() (*Service, *mocks.MockRandom) {
	rnd := mocks.NewMockRandom()
	return New(rnd, testutil.NopLogger()), rnd
}

func TestGenerateEasy(t *testing.T) {
	svc, _ := newService()

	info, positions, err := svc.Generate("http://example.com/cat.jpg", model.DifficultyEasy)
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/cat.jpg", info.ImageURL)
	assert.Equal(t, model.DifficultyEasy, info.Difficulty)
	assert.Equal(t, 3, info.Rows)
	assert.Equal(t, 3, info.Cols)
	assert.Len(t, positions, 9)
}

func TestGeneratePieceCountsPerDifficulty(t *testing.T) {
	svc, _ := newService()

	tests := []struct {
		difficulty model.Difficulty
		pieces     int
	}{
		{model.DifficultyEasy, 9},
		{model.DifficultyMedium, 20},
		{model.DifficultyHard, 48},
	}

	for _, tc := range tests {
		_, positions, err := svc.Generate("", tc.difficulty)
		require.NoError(t, err)
		assert.Len(t, positions, tc.pieces, "difficulty %s", tc.difficulty)
	}
}

func TestGenerateDefaultsToEasy(t *testing.T) {
	svc, _ := newService()

	info, positions, err := svc.Generate("", "")
	require.NoError(t, err)
	assert.Equal(t, model.DifficultyEasy, info.Difficulty)
	assert.Len(t, positions, 9)
}

func TestGenerateUnknownDifficultyFails(t *testing.T) {
	svc, _ := newService()

	_, _, err := svc.Generate("", model.Difficulty("impossible"))
	assert.ErrorIs(t, err, model.ErrUnknownDifficulty)
}

func TestGenerateUsesScatterPositions(t *testing.T) {
	svc, rnd := newService()
	rnd.QueueIntn(10, 20, 30, 40)

	_, positions, err := svc.Generate("", model.DifficultyEasy)
	require.NoError(t, err)

	// Piece ids are stable and sequential
	assert.Contains(t, positions, "piece_0")
	assert.Contains(t, positions, "piece_8")
	assert.NotContains(t, positions, "piece_9")
}

func TestGeneratePositionsStayOnBoard(t *testing.T) {
	// Real randomness here so the bound check is meaningful
	svc := New(random.New(), testutil.NopLogger())

	settings, err := model.SettingsForDifficulty(model.DifficultyHard)
	require.NoError(t, err)

	_, positions, err := svc.Generate("", model.DifficultyHard)
	require.NoError(t, err)

	for id, pos := range positions {
		assert.LessOrEqual(t, pos.X, boardWidth-settings.TargetPieceSize, "piece %s x", id)
		assert.LessOrEqual(t, pos.Y, boardHeight-settings.TargetPieceSize, "piece %s y", id)
	}
}
