package domain

// Board is indexed as board[y][x]. It is a plain array, so assigning it
// copies every cell.
type Board [BoardSize][BoardSize]PlayerID

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string {
	return Notation(p.X, p.Y)
}

func NewBoard() *Board {
	return &Board{}
}

func IsValidPosition(x, y int) bool {
	return x >= 0 && x < BoardSize && y >= 0 && y < BoardSize
}

// At returns Empty for positions outside the board.
func (b *Board) At(x, y int) PlayerID {
	if !IsValidPosition(x, y) {
		return Empty
	}
	return b[y][x]
}

func (b *Board) IsEmpty(x, y int) bool {
	return IsValidPosition(x, y) && b[y][x] == Empty
}

func (b *Board) Set(x, y int, p PlayerID) {
	b[y][x] = p
}

func (b *Board) Clear(x, y int) {
	b[y][x] = Empty
}

func (b *Board) Reset() {
	*b = Board{}
}

func (b *Board) StoneCount() int {
	n := 0
	for y := 0; y < BoardSize; y++ {
		for x := 0; x < BoardSize; x++ {
			if b[y][x] != Empty {
				n++
			}
		}
	}
	return n
}

// Place puts p on an empty cell and returns the function that clears it
// again. Callers defer the returned function so every exit path restores
// the board.
func (b *Board) Place(x, y int, p PlayerID) (restore func()) {
	b[y][x] = p
	return func() { b[y][x] = Empty }
}

// WithStone evaluates fn with p tentatively placed at (x, y). The cell is
// cleared before WithStone returns, including when fn panics.
func WithStone[T any](b *Board, x, y int, p PlayerID, fn func() T) T {
	defer b.Place(x, y, p)()
	return fn()
}

// Ints converts the board into plain ints for JSON storage
func (b *Board) Ints() [][]int {
	out := make([][]int, BoardSize)
	for y := range out {
		out[y] = make([]int, BoardSize)
		for x := range out[y] {
			out[y][x] = int(b[y][x])
		}
	}
	return out
}
