// uhcd - Ultra Hardcore match wrapper for a Minecraft server
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/bronald/uhcd/internal/api"
	"github.com/bronald/uhcd/internal/auth"
	"github.com/bronald/uhcd/internal/config"
	"github.com/bronald/uhcd/internal/console"
	"github.com/bronald/uhcd/internal/domain"
	"github.com/bronald/uhcd/internal/game"
	"github.com/bronald/uhcd/internal/storage"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"
)

var version = "dev"

const defaultConfigPath = "uhc.yml"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		cmdRun(os.Args[2:])
	case "matches":
		cmdMatches(os.Args[2:])
	case "user":
		cmdUser(os.Args[2:])
	case "version":
		fmt.Printf("uhcd %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: uhcd <command> [options] [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run                        Start the game server under the wrapper")
	fmt.Println("  matches [--recent N]       Show recent matches (default: 20)")
	fmt.Println("  user add [--admin] <username>")
	fmt.Println("                             Add an API user (prompts for password)")
	fmt.Println("  user remove <username>     Remove an API user")
	fmt.Println("  user list                  List API users")
	fmt.Println("  version                    Show version")
	fmt.Println("  help                       Show this help")
	fmt.Println()
	fmt.Println("Global Options:")
	fmt.Println("  --config <path>    Path to configuration file (default uhc.yml)")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  uhcd run --config /srv/uhc/uhc.yml")
	fmt.Println("  uhcd user add --admin myuser")
	fmt.Println("  uhcd matches --recent 50")
}

// cmdRun starts the game server under the wrapper and serves the API
func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "path to config file")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("uhcd %s starting...", version)

	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()
	log.Printf("Database initialized at %s", cfg.Database.Path)

	authService := auth.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	if cfg.Auth.JWTSecret == "" {
		log.Printf("Warning: No JWT secret configured. Auth tokens will use an empty secret.")
	}

	runner := console.NewRunner(cfg.Server.Jar)

	router := api.NewRouter(store, runner, authService)
	router.StartWebSocketHub()

	matchLog := storage.NewMatchLog(store)

	// Session events fan out to the WebSocket hub and match history. Both
	// run on the control loop goroutine, so MatchLog needs no locking.
	notify := func(ev domain.Event) {
		router.HandleEvent(ev)
		matchLog.HandleEvent(ev)
	}
	sess := game.NewSession(cfg, runner, notify)

	if err := runner.Start(); err != nil {
		log.Fatalf("Failed to start game server: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loopDone := make(chan struct{})
	go func() {
		game.Run(ctx, sess, runner.Events(), cfg.Server.TickInterval)
		close(loopDone)
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.ListenAddr, cfg.Server.HTTPPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	case err := <-serverErr:
		log.Printf("HTTP server error: %v", err)
	case <-loopDone:
		log.Println("Game server exited")
	}

	// Sequential shutdown: stop the game server first so the control loop
	// drains its final events, then close the HTTP side
	log.Println("Stopping game server...")
	runner.Stop()

	select {
	case <-loopDone:
	case <-time.After(30 * time.Second):
		log.Println("Timed out waiting for game server output to end")
	}
	if err := runner.Wait(); err != nil {
		log.Printf("Game server exit: %v", err)
	}
	matchLog.Abandon(time.Now())

	log.Println("Shutting down HTTP server...")
	httpCtx, httpCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer httpCancel()
	if err := server.Shutdown(httpCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	cancel()
	log.Println("Shutdown complete")
}

// cmdMatches prints recent match history from the database
func cmdMatches(args []string) {
	fs := flag.NewFlagSet("matches", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "path to configuration file")
	limit := fs.Int("recent", 20, "number of recent matches to show")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	matches, err := store.GetRecentMatches(context.Background(), *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(matches) == 0 {
		fmt.Println("No matches recorded")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tENDED\tOUTCOME\tWINNER\tPLAYERS\tELIMINATIONS")
	fmt.Fprintln(w, "--\t-------\t-----\t-------\t------\t-------\t------------")

	for _, m := range matches {
		started := m.StartedAt.Format("2006-01-02 15:04")
		ended := "In Progress"
		if m.EndedAt != nil {
			ended = m.EndedAt.Format("2006-01-02 15:04")
		}
		outcome := m.Outcome
		if outcome == "" {
			outcome = "-"
		}
		winner := m.WinnerTeam
		if winner == "" {
			winner = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%d\n",
			m.ID, started, ended, outcome, winner, len(m.Participants), len(m.Eliminations))
	}

	w.Flush()
}

// cmdUser handles user subcommands
func cmdUser(args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: user subcommand required: add, remove, list\n")
		os.Exit(1)
	}

	subCmd := args[0]
	fs := flag.NewFlagSet("user", flag.ContinueOnError)
	configPath := fs.String("config", defaultConfigPath, "path to configuration file")
	isAdmin := fs.Bool("admin", false, "create as admin user")
	fs.Parse(args[1:])
	remaining := fs.Args()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()

	switch subCmd {
	case "add":
		err = cmdUserAdd(ctx, store, remaining, *isAdmin)
	case "remove":
		err = cmdUserRemove(ctx, store, remaining)
	case "list":
		err = cmdUserList(ctx, store)
	default:
		err = fmt.Errorf("unknown user command: %s (use: add, remove, list)", subCmd)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func cmdUserAdd(ctx context.Context, store *storage.Store, args []string, isAdmin bool) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: uhcd user add [--admin] <username>")
	}
	username := args[0]

	if _, err := store.GetUserByUsername(ctx, username); err == nil {
		return fmt.Errorf("user '%s' already exists", username)
	}

	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if string(password) != string(confirm) {
		return fmt.Errorf("passwords do not match")
	}

	hash, err := auth.HashPassword(string(password))
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := store.CreateUser(ctx, username, hash, isAdmin); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	roleStr := "user"
	if isAdmin {
		roleStr = "admin"
	}
	fmt.Printf("User '%s' created successfully (role: %s)\n", username, roleStr)
	return nil
}

func cmdUserRemove(ctx context.Context, store *storage.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: uhcd user remove <username>")
	}
	username := args[0]

	if err := store.DeleteUser(ctx, username); err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}

	fmt.Printf("User '%s' removed\n", username)
	return nil
}

func cmdUserList(ctx context.Context, store *storage.Store) error {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Println("No users configured")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tROLE\tCREATED")
	fmt.Fprintln(w, "--------\t----\t-------")

	for _, user := range users {
		role := "user"
		if user.IsAdmin {
			role = "admin"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", user.Username, role, user.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}
