package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dimasprakoso/siakad-cli/internal/client/guard"
)

// Root runs the REPL until exit or EOF. Commands that require a session are
// gated through the access guard; the guard's notice is what the user sees
// on denial.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Portal Data Mahasiswa CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Fprintf(a.out, "siakad %s> ", a.getStatus())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.printHelp()
		case "login":
			_ = a.Login(ctx)
		case "register":
			_ = a.Register(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "whoami":
			a.Whoami()
		case "list":
			if !a.requireLogin(cmd) {
				continue
			}
			if len(args) == 0 {
				a.renderList(ctx)
				continue
			}
			a.openList(ctx, args[0])
		case "next", "prev", "page", "search", "filter", "sort":
			if !a.requireLogin(cmd) {
				continue
			}
			a.listCommand(ctx, cmd, args)
		case "show":
			if !a.requireLogin(cmd) {
				continue
			}
			a.show(ctx, args)
		case "add":
			if !a.requireLogin(cmd) {
				continue
			}
			a.add(ctx, args)
		case "edit":
			if !a.requireLogin(cmd) {
				continue
			}
			a.edit(ctx, args)
		case "delete":
			if !a.requireLogin(cmd) {
				continue
			}
			a.delete(ctx, args)
		case "upload":
			if !a.requireLogin(cmd) {
				continue
			}
			a.uploadCmd(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Sampai jumpa!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}
	}
}

// requireLogin gates a command behind any authenticated session, printing
// the guard's denial notice when there is none.
func (a *App) requireLogin(command string) bool {
	decision := guard.Decide(a.sessions.Snapshot(), guard.Route{
		Location:    command,
		RequireAuth: true,
	})
	if decision.Outcome != guard.Render {
		fmt.Fprintln(a.out, decision.Notice)
		return false
	}
	return true
}

func (a *App) printHelp() {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, `Available commands:
  list <mahasiswa|prodi|posting|recipe|note>   open an entity list
  next | prev | page <n>                       paginate
  search <term> | filter <name> <value> | sort <field> [ASC|DESC]
  show [entity] <id>                           record detail
  add [entity] | edit [entity] <id> | delete [entity] <id>
  upload mahasiswa <id> <file>                 student photo
  whoami | logout | exit`)
		return
	}
	fmt.Fprintln(a.out, "Available commands: login, register, help, exit")
}
