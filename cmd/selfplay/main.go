package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/iamasit07/gomoku/internal/domain"
	"github.com/iamasit07/gomoku/internal/service/bot"
	"github.com/muesli/termenv"
)

func main() {
	blackLevel := flag.String("black", "NORMAL", "difficulty playing Black")
	whiteLevel := flag.String("white", "HARD", "difficulty playing White")
	games := flag.Int("games", 1, "number of self-play games")
	seed := flag.Int64("seed", 0, "random seed (0 uses the clock)")
	quiet := flag.Bool("quiet", false, "only print results")
	puzzle := flag.String("puzzle", "", "JSON puzzle file to solve with the VCF search instead of self-play")
	depth := flag.Int("depth", 0, "VCF depth for -puzzle (overrides the file)")
	flag.Parse()

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	engine := bot.NewEngine(bot.WithRand(rand.New(rand.NewSource(*seed))))
	out := termenv.NewOutput(os.Stdout)

	if *puzzle != "" {
		if err := solvePuzzle(out, engine, *puzzle, *depth); err != nil {
			log.Fatalf("[PUZZLE] %v", err)
		}
		return
	}

	black, ok := domain.ParseDifficulty(*blackLevel)
	if !ok {
		log.Fatalf("unknown difficulty %q", *blackLevel)
	}
	white, ok := domain.ParseDifficulty(*whiteLevel)
	if !ok {
		log.Fatalf("unknown difficulty %q", *whiteLevel)
	}

	tally := map[domain.Winner]int{}
	ratings := map[domain.PlayerID]int{domain.Black: domain.InitialRating, domain.White: domain.InitialRating}
	for i := 0; i < *games; i++ {
		g, err := selfPlay(context.Background(), engine, black, white)
		if err != nil {
			log.Fatalf("[SELFPLAY] game %d: %v", i+1, err)
		}
		tally[g.Winner()]++
		rate(ratings, g.Winner())
		if !*quiet {
			fmt.Fprintln(out, renderBoard(out, g.Board(), g.WinLine()))
		}
		fmt.Fprintf(out, "game %d: %s (%s) vs %s (%s) -> %s in %d moves\n",
			i+1, domain.Black, black, domain.White, white, winnerLabel(g.Winner()), g.MoveCount())
	}
	if *games > 1 {
		fmt.Fprintf(out, "black %d, white %d, draw %d\n", tally[domain.WinnerBlack], tally[domain.WinnerWhite], tally[domain.WinnerDraw])
		fmt.Fprintf(out, "rating: %s as black %d, %s as white %d\n", black, ratings[domain.Black], white, ratings[domain.White])
	}
}

// selfPlay runs one engine-vs-engine game to the end.
func selfPlay(ctx context.Context, engine *bot.Engine, black, white domain.Difficulty) (*domain.Game, error) {
	levels := map[domain.PlayerID]domain.Difficulty{domain.Black: black, domain.White: white}
	g := domain.NewGame(domain.WithMode(domain.ModeEvE))
	for !g.IsFinished() {
		dec, err := engine.Decide(ctx, g, levels[g.CurrentPlayer()])
		if err != nil {
			return g, err
		}
		if _, err := g.ApplyMove(dec.Move.X, dec.Move.Y); err != nil {
			return g, fmt.Errorf("%s played %s: %w", g.CurrentPlayer(), dec.Move, err)
		}
	}
	return g, nil
}

// rate updates both sides' Elo after one game.
func rate(ratings map[domain.PlayerID]int, w domain.Winner) {
	b, wh := ratings[domain.Black], ratings[domain.White]
	ratings[domain.Black] = domain.CalculateElo(b, wh, w.Score(domain.Black))
	ratings[domain.White] = domain.CalculateElo(wh, b, w.Score(domain.White))
}

func winnerLabel(w domain.Winner) string {
	if w == domain.WinnerNone {
		return "unfinished"
	}
	return string(w)
}
