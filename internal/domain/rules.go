package domain

type WinResult struct {
	Win       bool     `json:"win"`
	Player    PlayerID `json:"player"`
	Direction string   `json:"direction,omitempty"`
	Line      []Point  `json:"line,omitempty"`
}

// CheckWin looks for a run of ToWin or more through the stone at (x, y).
// Runs longer than ToWin count as wins here; whether Black was allowed to
// make one is decided by CheckForbidden before the stone is placed.
func CheckWin(b *Board, x, y int) WinResult {
	p := b.At(x, y)
	if p == Empty {
		return WinResult{}
	}
	for _, d := range Directions {
		if b.RunLength(x, y, d.DX, d.DY, p) >= ToWin {
			return WinResult{
				Win:       true,
				Player:    p,
				Direction: d.Name,
				Line:      b.Line(x, y, d.DX, d.DY, p),
			}
		}
	}
	return WinResult{}
}

// IsWinningMove reports whether p placing at the empty cell (x, y) makes
// a run of at least ToWin.
func IsWinningMove(b *Board, x, y int, p PlayerID) bool {
	if !b.IsEmpty(x, y) {
		return false
	}
	defer b.Place(x, y, p)()
	for _, d := range Directions {
		if b.RunLength(x, y, d.DX, d.DY, p) >= ToWin {
			return true
		}
	}
	return false
}

// LineEvidence describes one direction that contributed to a forbidden verdict.
type LineEvidence struct {
	Direction string  `json:"direction"`
	Pattern   string  `json:"pattern"`
	Count     int     `json:"count"`
	Signature string  `json:"signature"`
	Line      []Point `json:"line,omitempty"`
}

const (
	PatternLongLine  = "long_line"
	PatternOpenFour  = "open_four"
	PatternOpenThree = "open_three"
)

type ForbiddenResult struct {
	Forbidden  bool           `json:"forbidden"`
	Kind       ForbiddenKind  `json:"kind,omitempty"`
	OpenFours  int            `json:"open_fours"`
	OpenThrees int            `json:"open_threes"`
	Evidence   []LineEvidence `json:"evidence,omitempty"`
}

// CheckForbidden reports whether p may not play (x, y). Only Black is ever
// restricted. The checks run in priority order: long line, double four,
// double three. A move that makes exactly five is never forbidden unless it
// also makes a long line.
func CheckForbidden(b *Board, x, y int, p PlayerID) ForbiddenResult {
	return analyzeForbidden(b, x, y, p, true)
}

// IsForbidden is CheckForbidden without collecting evidence.
func IsForbidden(b *Board, x, y int, p PlayerID) bool {
	return analyzeForbidden(b, x, y, p, false).Forbidden
}

func analyzeForbidden(b *Board, x, y int, p PlayerID, withEvidence bool) ForbiddenResult {
	var res ForbiddenResult
	if p != Black || !b.IsEmpty(x, y) {
		return res
	}
	defer b.Place(x, y, p)()

	five := false
	for _, d := range Directions {
		n := b.RunLength(x, y, d.DX, d.DY, p)
		if n > ToWin {
			res.Forbidden = true
			res.Kind = ForbiddenLongLine
			if !withEvidence {
				return res
			}
			res.Evidence = append(res.Evidence, LineEvidence{
				Direction: d.Name,
				Pattern:   PatternLongLine,
				Count:     n,
				Signature: b.Signature(x, y, d.DX, d.DY, p).String(),
				Line:      b.Line(x, y, d.DX, d.DY, p),
			})
		}
		if n == ToWin {
			five = true
		}
	}
	if res.Forbidden || five {
		return res
	}

	var fours, threes []LineEvidence
	for _, d := range Directions {
		sig := b.Signature(x, y, d.DX, d.DY, p)
		if n := CountOpenFours(sig); n > 0 {
			res.OpenFours += n
			if withEvidence {
				fours = append(fours, LineEvidence{Direction: d.Name, Pattern: PatternOpenFour, Count: n, Signature: sig.String()})
			}
		}
		// a direction that already holds a four is not also a three
		if !HasFour(sig) && HasOpenThree(sig) {
			res.OpenThrees++
			if withEvidence {
				threes = append(threes, LineEvidence{Direction: d.Name, Pattern: PatternOpenThree, Count: 1, Signature: sig.String()})
			}
		}
	}

	switch {
	case res.OpenFours >= 2:
		res.Forbidden = true
		res.Kind = ForbiddenDoubleFour
		res.Evidence = fours
	case res.OpenThrees >= 2:
		res.Forbidden = true
		res.Kind = ForbiddenDoubleThree
		res.Evidence = threes
	}
	return res
}

// CountOpenFours counts 6-cell windows reading empty, four stones, empty.
// Every such window in a 9-cell signature covers the centre.
func CountOpenFours(sig LineSignature) int {
	n := 0
	for i := 0; i+5 < SignatureLen; i++ {
		if sig[i] != SymEmpty || sig[i+5] != SymEmpty {
			continue
		}
		if sig[i+1] == SymSelf && sig[i+2] == SymSelf && sig[i+3] == SymSelf && sig[i+4] == SymSelf {
			n++
		}
	}
	return n
}

// HasOpenThree looks for a 6-cell window whose outer cells are empty and
// whose inner four cells hold three stones and one gap.
func HasOpenThree(sig LineSignature) bool {
	for i := 0; i+5 < SignatureLen; i++ {
		if sig[i] != SymEmpty || sig[i+5] != SymEmpty {
			continue
		}
		self, empty := 0, 0
		for j := i + 1; j <= i+4; j++ {
			switch sig[j] {
			case SymSelf:
				self++
			case SymEmpty:
				empty++
			}
		}
		if self == 3 && empty == 1 {
			return true
		}
	}
	return false
}

// HasFour reports a 5-cell window holding four stones and one gap, i.e.
// one more stone in that window makes five.
func HasFour(sig LineSignature) bool {
	for i := 0; i+4 < SignatureLen; i++ {
		self, empty := 0, 0
		for j := i; j <= i+4; j++ {
			switch sig[j] {
			case SymSelf:
				self++
			case SymEmpty:
				empty++
			}
		}
		if self == 4 && empty == 1 {
			return true
		}
	}
	return false
}
