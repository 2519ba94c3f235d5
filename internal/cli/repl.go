package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	listCards(ctx context.Context)
	addCard(ctx context.Context) error
	showCard(ctx context.Context) error
	editCardImages(ctx context.Context) error
	deleteCard(ctx context.Context) error

	listPasswords(ctx context.Context)
	addPassword(ctx context.Context) error
	showPassword(ctx context.Context) error
	deletePassword(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the card keeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	help             — show available commands
//	cards | l        — list cards
//	add              — add a card
//	show             — show a card (interactive ID prompt)
//	images           — edit a card's front/back images
//	del              — delete a card and its image files
//	pw               — list passwords
//	pwadd            — add a password
//	pwshow           — show a password
//	pwdel            — delete a password
//	exit | quit      — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		printlnFn("cardkeep > ")
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: (l)ist/cards, add, show, images, del, pw, pwadd, pwshow, pwdel, exit")

		case "l", "list", "cards":
			a.listCards(ctx)

		case "add":
			_ = a.addCard(ctx)

		case "show":
			_ = a.showCard(ctx)

		case "images":
			_ = a.editCardImages(ctx)

		case "del":
			_ = a.deleteCard(ctx)

		case "pw":
			a.listPasswords(ctx)

		case "pwadd":
			_ = a.addPassword(ctx)

		case "pwshow":
			_ = a.showPassword(ctx)

		case "pwdel":
			_ = a.deletePassword(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
