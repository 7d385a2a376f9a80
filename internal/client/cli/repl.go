package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Demo(ctx context.Context) error
	Profile(ctx context.Context) error
	Wallet(ctx context.Context) error
	Settings(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Aurahood client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
// Commands share reader with their own prompts, so input typed ahead is
// consumed in order.
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Signed out:
//	  - help              show available commands
//	  - register          create an account
//	  - login             sign in with email and password
//	  - demo              sign in as the demo neighbor
//	  - exit | quit       leave the program
//
//	Signed in:
//	  - help              show available commands
//	  - profile | whoami  show the signed-in identity
//	  - wallet            show aura points and trust score
//	  - settings          edit profile fields
//	  - logout            sign out
//	  - exit | quit       leave the program
//
// Any errors returned by command handlers are ignored here; handlers report
// and log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("aura %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, wallet, settings, logout, exit")
			} else {
				printlnFn("Available commands: register, login, demo, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "demo":
			_ = a.Demo(ctx)

		case "profile", "whoami":
			_ = a.Profile(ctx)

		case "wallet":
			_ = a.Wallet(ctx)

		case "settings":
			_ = a.Settings(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
