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
// Handlers get the words that followed the command.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context, args []string) error
	Verify(ctx context.Context, args []string) error
	SetPassword(ctx context.Context, args []string) error
	Resend(ctx context.Context, args []string) error
	Forgot(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error

	Me(ctx context.Context, args []string) error
	Profile(ctx context.Context, args []string) error
	Passwd(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error

	Chats(ctx context.Context, args []string) error
	New(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Remove(ctx context.Context, args []string) error
	CloseChat(ctx context.Context, args []string) error
}

const (
	helpSignedOut = "Available commands: register, verify, setpassword, resend, forgot, reset, login, exit"
	helpSignedIn  = "Available commands: chats, new, open, rename, rm, close, me, profile, passwd, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the chatdesk console.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Signed out:
//	  - register         start registration (email, full name)
//	  - verify           confirm the email with a verification token
//	  - setpassword      set the first password with a verification token
//	  - resend           request a new verification token
//	  - forgot           request a password reset
//	  - reset            set a new password with a reset token
//	  - login            sign in
//
//	Signed in:
//	  - chats            list chats
//	  - new [message]    start a chat, named after its first message
//	  - open <id>        open a chat
//	  - rename <id> <name>
//	  - rm <id>          delete a chat
//	  - close            back to the landing screen
//	  - me               refresh and show the profile
//	  - profile          edit first name, last name and email
//	  - passwd           change the password
//	  - logout           sign out
//
// Handler errors are printed as their display message and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("chatdesk %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && (!errors.Is(readErr, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var handler func(context.Context, []string) error

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpSignedOut)
			}
			continue

		case "register":
			handler = a.Register
		case "verify":
			handler = a.Verify
		case "setpassword":
			handler = a.SetPassword
		case "resend":
			handler = a.Resend
		case "forgot":
			handler = a.Forgot
		case "reset":
			handler = a.Reset
		case "login":
			handler = a.Login

		case "me":
			handler = a.Me
		case "profile":
			handler = a.Profile
		case "passwd":
			handler = a.Passwd
		case "logout":
			handler = a.Logout

		case "chats", "l", "list":
			handler = a.Chats
		case "new":
			handler = a.New
		case "open":
			handler = a.Open
		case "rename":
			handler = a.Rename
		case "rm", "delete":
			handler = a.Remove
		case "close", "home":
			handler = a.CloseChat

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
			if readErr != nil {
				return
			}
			continue
		}

		if err := handler(ctx, args); err != nil {
			printlnFn("Error:", displayMessage(err))
		}
		if readErr != nil {
			return
		}
	}
}
