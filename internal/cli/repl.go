package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/authvault/internal/guard"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	screen() guard.Screen
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the AuthVault CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. The set of accepted commands
// follows the route guard's screen:
//
//	welcome (public):
//	  - help           — show available commands
//	  - signup         — create an account
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	dashboard (protected):
//	  - help           — show available commands
//	  - whoami         — show the signed-in profile
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Unknown commands (including protected commands on the public screen and
// vice versa) are reported back to the user. The loop exits on scanner EOF
// or when the user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers render
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("authvault %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		screen := a.screen()

		switch cmd {
		case "help":
			if screen == guard.ScreenDashboard {
				printlnFn("Available commands: whoami, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, exit")
			}

		case "signup":
			if screen != guard.ScreenWelcome {
				printlnFn("Already logged in")
				continue
			}
			_ = a.Signup(ctx)

		case "login":
			if screen != guard.ScreenWelcome {
				printlnFn("Already logged in")
				continue
			}
			_ = a.Login(ctx)

		case "whoami":
			if screen != guard.ScreenDashboard {
				printlnFn("Not logged in")
				continue
			}
			_ = a.Whoami(ctx)

		case "logout":
			if screen != guard.ScreenDashboard {
				printlnFn("Not logged in")
				continue
			}
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
