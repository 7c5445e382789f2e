package puzzle

import (
	"fmt"
	"log/slog"

	"github.com/mcoot/jigsawd/internal/dependencies/random"
	"github.com/mcoot/jigsawd/internal/model"
)

const (
	// Board dimensions pieces are scattered over, matching the client window
	boardWidth  = 800
	boardHeight = 800
)

// Service generates puzzle configurations for new rooms
type Service struct {
	random random.Random
	logger *slog.Logger
}

// New creates a new puzzle Service
func New(rnd random.Random, logger *slog.Logger) *Service {
	return &Service{
		random: rnd,
		logger: logger.With(slog.String("component", "puzzle")),
	}
}

// Generate builds the puzzle info and scattered starting positions for a new
// room. An empty difficulty defaults to easy.
func (s *Service) Generate(imageURL string, difficulty model.Difficulty) (model.PuzzleInfo, map[string]model.Position, error) {
	if difficulty == "" {
		difficulty = model.DifficultyEasy
	}

	settings, err := model.SettingsForDifficulty(difficulty)
	if err != nil {
		return model.PuzzleInfo{}, nil, err
	}

	info := model.PuzzleInfo{
		ImageURL:   imageURL,
		Difficulty: difficulty,
		Rows:       settings.Rows,
		Cols:       settings.Cols,
	}

	positions := make(map[string]model.Position, settings.Pieces())
	maxX := boardWidth - settings.TargetPieceSize
	maxY := boardHeight - settings.TargetPieceSize
	for i := 0; i < settings.Pieces(); i++ {
		positions[PieceID(i)] = model.Position{
			X: s.random.Intn(maxX),
			Y: s.random.Intn(maxY),
		}
	}

	s.logger.Debug("puzzle generated",
		slog.String("difficulty", string(difficulty)),
		slog.Int("pieces", settings.Pieces()))

	return info, positions, nil
}

// PieceID returns the canonical id for the i-th puzzle piece
func PieceID(i int) string {
	return fmt.Sprintf("piece_%d", i)
}
