package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"draftmate/internal/lcu"
)

var errUsage = errors.New("invalid arguments, see -help")

// runCommand connects once, runs a single operation and prints the result
// as JSON.
func runCommand(ctx context.Context, a *App, cmd string, args []string, out io.Writer) error {
	if err := a.data.LoadCached(ctx); err != nil {
		a.log.Debug().Err(err).Msg("no cached static data")
	}
	if !a.tryConnect(ctx) {
		return lcu.ErrLeagueNotRunning
	}

	var (
		result any
		err    error
	)
	switch cmd {
	case "overview":
		result, err = a.SummonerOverview(ctx, arg(args, 0))
	case "match":
		gameID, perr := strconv.ParseInt(arg(args, 0), 10, 64)
		if perr != nil {
			return fmt.Errorf("%w: game id: %v", errUsage, perr)
		}
		result, err = a.MatchDetail(ctx, gameID, arg(args, 1))
	case "teammates":
		result, err = a.RecentTeammates(ctx, arg(args, 0))
	case "reroll":
		return a.RerollAndRestoreChampion(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
