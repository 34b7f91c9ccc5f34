package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/melodiq/melodiq/internal/client"
)

// A tiny terminal client for poking at a running server during
// development: load a task, punch in notes, submit.
func main() {
	addr := flag.String("addr", "http://localhost:8080", "server base URL")
	profile := flag.String("profile", "", "profile id to play as")
	apiKey := flag.String("api-key", os.Getenv("MELODIQ_API_KEY"), "API key")
	flag.Parse()

	if *profile == "" {
		fmt.Fprintln(os.Stderr, "usage: play -profile <id> [-addr url] [-api-key key]")
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	c, err := client.New(*addr, *apiKey, *profile, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "client error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	game := client.NewGame(c, logger)
	defer game.Close()

	if _, err := game.EnsureActiveSession(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "session error: %v\n", err)
		os.Exit(1)
	}
	game.StartKeepAlive(ctx)

	fmt.Println("commands: task, add <note>, del, clear, show, submit, end, quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "task":
			puzzle, err := game.LoadCurrentOrNextTask(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			fmt.Printf("level %d: %s ... (%d notes to fill, %d attempts left)\n",
				puzzle.LevelID, puzzle.SequenceBeginning, puzzle.ExpectedSlots, game.AttemptsLeft())

		case "add":
			if len(fields) < 2 {
				fmt.Println("usage: add <note>, e.g. add F#4")
				continue
			}
			if !game.AddNote(fields[1]) {
				fmt.Println("answer is full (or no task loaded)")
			}

		case "del":
			game.RemoveLastNote()

		case "clear":
			game.ClearNotes()

		case "show":
			fmt.Println(strings.Join(game.Answer(), "-"))

		case "submit":
			result, err := game.Submit(ctx)
			if err != nil {
				fmt.Println("error:", err)
				continue
			}
			if result.Score > 0 {
				fmt.Printf("correct! +%d points (total %d)\n", result.Score, result.TotalScore)
			} else if result.TaskCompleted {
				fmt.Println("out of attempts, task closed")
			} else {
				fmt.Printf("not quite, %d attempts left\n", game.AttemptsLeft())
			}
			if result.LevelCompleted {
				fmt.Printf("level up! now at level %d\n", result.NextLevel)
			}

		case "end":
			if err := game.EndSession(ctx); err != nil {
				fmt.Println("error:", err)
			}

		case "quit", "exit":
			return

		default:
			fmt.Println("unknown command:", fields[0])
		}
	}
}
