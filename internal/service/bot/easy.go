package bot

import (
	"github.com/iamasit07/gomoku/internal/domain"
)

const beginnerRadius = 3

// beginnerMove takes a win or a block only when a weighted coin says so,
// otherwise it wanders around the centre.
func (s *search) beginnerMove() Decision {
	cands := Candidates(s.b, s.cfg.CandidateRadius, s.me)

	if p, ok := findWinningMove(s.b, cands, s.me); ok && s.rng.Float64() < s.cfg.WinChance {
		return Decision{Move: p, Source: SourceWin}
	}
	if p, ok := s.blockingMove(); ok && s.rng.Float64() < s.cfg.BlockChance {
		return Decision{Move: p, Source: SourceBlock}
	}

	var near []domain.Point
	for y := domain.Center - beginnerRadius; y <= domain.Center+beginnerRadius; y++ {
		for x := domain.Center - beginnerRadius; x <= domain.Center+beginnerRadius; x++ {
			if s.b.IsEmpty(x, y) && !domain.IsForbidden(s.b, x, y, s.me) {
				near = append(near, domain.Point{X: x, Y: y})
			}
		}
	}
	if len(near) == 0 {
		near = cands
		if s.cfg.CandidateLimit > 0 && len(near) > s.cfg.CandidateLimit {
			near = near[:s.cfg.CandidateLimit]
		}
	}
	return Decision{Move: near[s.rng.Intn(len(near))], Source: SourceRandom}
}
