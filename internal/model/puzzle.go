package model

// Position is a piece's coordinate on the shared board
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Difficulty selects the puzzle grid
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultySettings describes the board layout for one difficulty level
type DifficultySettings struct {
	Rows            int
	Cols            int
	TargetImageSize int
	TargetPieceSize int
}

// Pieces returns the number of puzzle pieces for this difficulty
func (d DifficultySettings) Pieces() int {
	return d.Rows * d.Cols
}

// difficultyTable mirrors the board layouts supported by the client
var difficultyTable = map[Difficulty]DifficultySettings{
	DifficultyEasy:   {Rows: 3, Cols: 3, TargetImageSize: 450, TargetPieceSize: 150},
	DifficultyMedium: {Rows: 4, Cols: 5, TargetImageSize: 500, TargetPieceSize: 100},
	DifficultyHard:   {Rows: 6, Cols: 8, TargetImageSize: 600, TargetPieceSize: 75},
}

// SettingsForDifficulty returns the layout for a difficulty level
func SettingsForDifficulty(d Difficulty) (DifficultySettings, error) {
	settings, ok := difficultyTable[d]
	if !ok {
		return DifficultySettings{}, ErrUnknownDifficulty
	}
	return settings, nil
}

// PuzzleInfo holds the immutable puzzle configuration supplied at room creation
type PuzzleInfo struct {
	ImageURL   string     `json:"image_url"`
	Difficulty Difficulty `json:"difficulty"`
	Rows       int        `json:"rows"`
	Cols       int        `json:"cols"`
}

// PieceCount returns the number of pieces in the puzzle
func (p PuzzleInfo) PieceCount() int {
	return p.Rows * p.Cols
}
