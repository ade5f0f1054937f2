package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	if a.username == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.username)
}

// Root runs the interactive command loop until exit or EOF. Commands and
// prompt answers come through the same buffered reader, so piped input is
// consumed in order.
func (a *App) Root(ctx context.Context) {

	fmt.Println("Welcome to SecureVault (type 'help' for commands)")

	for {
		fmt.Printf("vault %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		if err := a.dispatch(ctx, cmd, args); err != nil {
			a.logger.Error(ctx, "command failed", "command", cmd, "error", err.Error())
			fmt.Println("Something went wrong, please try again")
		}

		if cmd == "exit" || cmd == "quit" {
			return
		}
	}
}

func (a *App) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		a.help()
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "logout":
		return a.Logout(ctx)
	case "add":
		return a.add(ctx)
	case "list":
		return a.list(ctx)
	case "get":
		if len(args) == 0 {
			fmt.Println("Usage: get <service>")
			return nil
		}
		return a.get(ctx, strings.Join(args, " "))
	case "update":
		if len(args) == 0 {
			fmt.Println("Usage: update <entry-id>")
			return nil
		}
		return a.update(ctx, args[0])
	case "delete":
		if len(args) == 0 {
			fmt.Println("Usage: delete <entry-id>")
			return nil
		}
		return a.delete(ctx, args[0])
	case "delete-account":
		return a.DeleteAccount(ctx)
	case "exit", "quit":
		fmt.Println("Bye!")
	default:
		fmt.Println("Unknown command:", cmd)
	}
	return nil
}

func (a *App) help() {
	if a.isLoggedIn() {
		fmt.Println("Available commands: add, list, get <service>, update <id>, delete <id>, delete-account, logout, exit")
	} else {
		fmt.Println("Available commands: register, login, exit")
	}
}
