package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/talgya/hexboard/internal/client"
	"github.com/talgya/hexboard/internal/render"
	"github.com/talgya/hexboard/internal/world"
)

type fetchOptions struct {
	server string
	gameID string
	join   string
	user   string
	seed   int64
	watch  bool
}

func (a *app) fetchCmd() *cobra.Command {
	var opts fetchOptions
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Create or load a board on a server and render it",
		Long: `Fetch creates a game on the server (or loads --game), optionally joins it,
and renders the board. With --watch it stays subscribed and redraws on every
regeneration until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFetch(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.server, "server", "http://localhost:3000", "board server URL")
	f.StringVar(&opts.gameID, "game", "", "existing game ID (default: create one)")
	f.StringVar(&opts.join, "join", "", "join the game under this player name")
	f.StringVar(&opts.user, "user", "hexboard-cli", "user ID for --watch")
	f.Int64Var(&opts.seed, "seed", 0, "seed for a new game (0 = server picks)")
	f.BoolVar(&opts.watch, "watch", false, "follow board pushes over WebSocket")
	return cmd
}

func (a *app) runFetch(cmd *cobra.Command, opts fetchOptions) error {
	ctx := cmd.Context()
	c, err := client.New(opts.server, a.logger)
	if err != nil {
		return err
	}

	gameID := opts.gameID
	if gameID == "" {
		created, err := c.CreateGame(ctx, opts.seed, nil)
		if err != nil {
			return err
		}
		gameID = created.GameID
		a.logger.Info("game created", "game_id", gameID, "seed", created.Seed)
	}

	if opts.join != "" {
		joined, err := c.JoinGame(ctx, gameID, opts.join)
		if err != nil {
			return err
		}
		a.logger.Info("joined", "player_id", joined.PlayerID, "players", len(joined.Players))
	}

	board, err := c.LoadBoard(ctx, gameID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printBoard(out, gameID, board)

	if !opts.watch {
		return nil
	}

	conn, err := client.Dial(ctx, opts.server, opts.user)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := conn.Subscribe(gameID); err != nil {
		return err
	}
	// The first push is the current board, already drawn.
	if _, err := conn.Next(ctx); err != nil {
		return err
	}
	a.logger.Info("watching", "game_id", gameID)

	for {
		up, err := conn.Next(ctx)
		if err != nil {
			return err
		}
		a.logger.Info("board regenerated", "game_id", up.GameID, "seed", up.Seed)
		printBoard(out, up.GameID, up.Board)
	}
}

func printBoard(w io.Writer, gameID string, board world.Board) {
	fmt.Fprintf(w, "game %s\n\n", gameID)
	fmt.Fprint(w, render.Render(board))
	fmt.Fprintln(w)
	fmt.Fprint(w, render.Summary(board))
}
