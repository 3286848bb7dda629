package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	snap := a.session.Current()
	if snap.User != nil {
		return fmt.Sprintf("(%s)", snap.User.Email)
	}
	return ""
}

func (a *App) Root(ctx context.Context) {

	log.Println("Welcome to the auth CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("auth %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: whoami, update, signout, ping, exit")
			} else {
				fmt.Println("Available commands: signup, signin, ping, exit")
			}
		case "signup", "register":
			err = a.SignUp(ctx)
		case "signin", "login":
			err = a.SignIn(ctx)
		case "signout", "logout":
			err = a.SignOut(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "update":
			err = a.UpdateProfile(ctx)
		case "ping":
			err = a.Ping(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}

		if err != nil {
			log.Printf("error: %v", err)
		}
	}

}
