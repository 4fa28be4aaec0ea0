package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"factor-frenzy/internal/pool"
	"factor-frenzy/internal/session/repository"
	"factor-frenzy/internal/session/service"
)

type playOptions struct {
	pool      string
	poolsPath string
	rounds    int
	seed      uint64
}

func (c *cli) playCmd() *cobra.Command {
	opts := playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play rounds of guess-the-factors on the terminal",
		Long: `Each round shows a number. Type its prime factors separated by commas
(e.g. "3, 7"), or "?" for a hint. Malformed entries are ignored.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.play(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.pool, "pool", "classic", "candidate pool to draw targets from")
	cmd.Flags().StringVar(&opts.poolsPath, "pools", "", "YAML pools file; empty uses the built-in pools")
	cmd.Flags().IntVar(&opts.rounds, "rounds", 3, "number of rounds")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed; 0 picks one")
	return cmd
}

func (c *cli) play(cmd *cobra.Command, opts playOptions) error {
	if opts.rounds < 1 {
		return errors.New("--rounds must be at least 1")
	}
	pools, err := pool.Load(opts.poolsPath)
	if err != nil {
		return err
	}
	seed := opts.seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	game := service.NewGameService(repository.NewMemoryStore(), pools, nil, time.Hour,
		service.WithRand(rand.New(rand.NewPCG(seed, seed))),
		service.WithLogger(c.logger),
	)
	ctx := cmd.Context()
	ses, err := game.StartSession(ctx, opts.pool)
	if err != nil {
		return err
	}
	defer func() { _ = game.EndSession(ctx, ses.ID) }()

	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())
	fmt.Fprintf(out, "Factor Frenzy: %d rounds from pool %q (seed %d)\n", opts.rounds, ses.Pool, seed)

	for i := 1; i <= opts.rounds; i++ {
		ses, err = game.NewRound(ctx, ses.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nRound %d: factor %d\n", i, ses.Round.Target)

		guess, ok := c.readGuess(cmd, in, out, ses.ID, game)
		if !ok {
			fmt.Fprintln(out, "\nno more input")
			break
		}
		round, updated, err := game.SubmitGuess(ctx, ses.ID, guess)
		if err != nil {
			return err
		}
		ses = updated
		v := round.Verdict
		if v.Correct {
			fmt.Fprintf(out, "Correct! %d = %s\n", round.Target, v.Truth)
		} else {
			fmt.Fprintf(out, "Not quite. %d = %s\n", round.Target, v.Truth)
		}
		if len(v.Dropped) > 0 {
			fmt.Fprintf(out, "(ignored: %s)\n", strings.Join(v.Dropped, ", "))
		}
		fmt.Fprintf(out, "Score: %d\n", ses.Score)
	}

	fmt.Fprintf(out, "\nFinal score: %d/%d\n", ses.Score, len(ses.History))
	return nil
}

// readGuess prompts until a guess is entered, answering "?" with the round's hint.
// It returns false when input ends.
func (c *cli) readGuess(cmd *cobra.Command, in *bufio.Scanner, out io.Writer, sessionID string, game *service.GameService) (string, bool) {
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return "", false
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "?", "hint":
			hint, _, err := game.Hint(cmd.Context(), sessionID)
			if err != nil {
				fmt.Fprintf(out, "no hint: %v\n", err)
				continue
			}
			fmt.Fprintf(out, "Hint: %s\n", hint)
			continue
		}
		return line, true
	}
}
