package bot

// normalMove is a greedy single-ply pick: gate first, then score every
// candidate and choose at random among the few best that are close to the
// top score.
func (s *search) normalMove() Decision {
	if dec, ok := s.gate(); ok {
		return dec
	}

	ranked := s.rank(s.me, s.cfg.CandidateLimit)
	if len(ranked) == 0 {
		return s.bestRanked()
	}

	k := s.cfg.TopK
	if k < 1 {
		k = 1
	}
	best := ranked[0].score
	// stay within 10% of the best so a big threat is never traded for noise
	floor := best - abs64(best)*0.1
	top := 1
	for top < len(ranked) && top < k && ranked[top].score >= floor {
		top++
	}
	choice := ranked[s.rng.Intn(top)]
	return Decision{Move: choice.p, Source: SourceGreedy, Score: choice.score, Depth: 1}
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
