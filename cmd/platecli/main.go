// Command platecli is a terminal client for the plate detection API. It
// keeps its session token and preferences in a small state file so a login
// survives between invocations.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/platevision/platevision-go/internal/client"
	"github.com/platevision/platevision-go/internal/model"
	"github.com/platevision/platevision-go/internal/store"
)

const tokenStorageKey = "token"

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage(stderr io.Writer) {
	fmt.Fprintln(stderr, "Usage: platecli <command> [flags]")
	fmt.Fprintln(stderr, "Commands:")
	fmt.Fprintln(stderr, "  register   create an account")
	fmt.Fprintln(stderr, "  login      authenticate and store the session token")
	fmt.Fprintln(stderr, "  logout     end the session")
	fmt.Fprintln(stderr, "  list       show plate records")
	fmt.Fprintln(stderr, "  add        add a plate record")
	fmt.Fprintln(stderr, "  delete     delete a plate record by id")
	fmt.Fprintln(stderr, "  status     show server system status")
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return fmt.Errorf("missing command")
	}

	command, rest := args[0], args[1:]

	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	server := fs.String("server", envOr("PLATEVISION_SERVER", "http://localhost:8080"), "API base URL")
	stateFile := fs.String("state", defaultStatePath(), "Path to the session state file")

	switch command {
	case "register":
		username := fs.String("user", "", "Username")
		email := fs.String("email", "", "Email address")
		password := fs.String("password", "", "Password (prompted when omitted)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return runRegister(newEnv(*server, *stateFile, stdout), stdin, stdout, *username, *email, *password)
	case "login":
		username := fs.String("user", "", "Username or email")
		password := fs.String("password", "", "Password (prompted when omitted)")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return runLogin(newEnv(*server, *stateFile, stdout), stdin, stdout, *username, *password)
	case "logout":
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return runLogout(newEnv(*server, *stateFile, stdout), stdout)
	case "list":
		filter := fs.String("filter", "all", "Time filter: all, today, week or month")
		query := fs.String("query", "", "Plate number substring to match")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return runList(newEnv(*server, *stateFile, stdout), stdout, store.Filter(*filter), *query)
	case "add":
		plate := fs.String("plate", "", "Plate number")
		image := fs.String("image", "", "Image URL")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return runAdd(newEnv(*server, *stateFile, stdout), stdout, *plate, *image)
	case "delete":
		id := fs.String("id", "", "Record id")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return runDelete(newEnv(*server, *stateFile, stdout), stdout, *id)
	case "status":
		if err := fs.Parse(rest); err != nil {
			return err
		}
		return runStatus(newEnv(*server, *stateFile, stdout), stdout)
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", command)
	}
}

// env bundles the adapter, state storage and stores a command needs.
type env struct {
	api     *client.Client
	storage store.Storage
	auth    *store.AuthStore
	records *store.RecordStore
}

func newEnv(server, statePath string, stdout io.Writer) *env {
	logger := slog.New(slog.NewTextHandler(stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	api := client.New(client.Config{BaseURL: server, Timeout: 30 * time.Second, Logger: logger})
	storage := store.NewFileStorage(statePath)
	if token, ok := storage.Get(tokenStorageKey); ok {
		api.SetToken(token)
	}
	return &env{
		api:     api,
		storage: storage,
		auth:    store.NewAuthStore(api, storage, logger),
		records: store.NewRecordStore(api, logger),
	}
}

func runRegister(e *env, stdin io.Reader, stdout io.Writer, username, email, password string) error {
	if username == "" || email == "" {
		return fmt.Errorf("missing required flags: user, email")
	}
	var err error
	if password, err = promptPassword(stdin, stdout, password); err != nil {
		return err
	}

	resp, err := e.auth.Register(context.Background(), username, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, resp.Message)
	return nil
}

func runLogin(e *env, stdin io.Reader, stdout io.Writer, username, password string) error {
	if username == "" {
		return fmt.Errorf("missing required flag: user")
	}
	var err error
	if password, err = promptPassword(stdin, stdout, password); err != nil {
		return err
	}

	if !e.auth.Login(context.Background(), username, password) {
		return fmt.Errorf("login failed")
	}
	if err := e.storage.Set(tokenStorageKey, e.api.Token()); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	user, _ := e.auth.User()
	fmt.Fprintf(stdout, "Logged in as %s\n", user.Name)
	return nil
}

func runLogout(e *env, stdout io.Writer) error {
	e.auth.Logout(context.Background())
	if err := e.storage.Delete(tokenStorageKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	fmt.Fprintln(stdout, "Logged out")
	return nil
}

func runList(e *env, stdout io.Writer, filter store.Filter, query string) error {
	e.records.SetFilter(filter)
	e.records.FetchRecords(context.Background())

	records := e.records.Filtered(query)
	if len(records) == 0 {
		fmt.Fprintln(stdout, "No records")
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(stdout, "%s  %-10s  %s\n", r.ID, r.PlateNumber, r.Timestamp)
	}
	return nil
}

func runAdd(e *env, stdout io.Writer, plate, image string) error {
	if plate == "" {
		return fmt.Errorf("missing required flag: plate")
	}
	record, err := e.records.AddRecord(context.Background(), store.RecordDraft{PlateNumber: plate, ImageURL: image})
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Added %s (%s)\n", record.PlateNumber, record.ID)
	return nil
}

func runDelete(e *env, stdout io.Writer, id string) error {
	if id == "" {
		return fmt.Errorf("missing required flag: id")
	}
	e.records.FetchRecords(context.Background())
	if err := e.records.DeleteRecord(context.Background(), id); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Deleted %s\n", id)
	return nil
}

func runStatus(e *env, stdout io.Writer) error {
	var resp model.StatusResponse
	if err := e.api.Do(context.Background(), "GET", "/api/system/status", nil, &resp); err != nil {
		return err
	}
	s := resp.Data
	fmt.Fprintf(stdout, "Platform: %s\n", s.Platform)
	fmt.Fprintf(stdout, "CPU:      %d%%\n", s.CPU)
	fmt.Fprintf(stdout, "Memory:   %d%%\n", s.Memory)
	fmt.Fprintf(stdout, "Disk:     %d%%\n", s.Disk)
	fmt.Fprintf(stdout, "Uptime:   %ds\n", s.Uptime)
	return nil
}

func promptPassword(stdin io.Reader, stdout io.Writer, password string) (string, error) {
	if password == "" {
		fmt.Fprint(stdout, "Password: ")
		var err error
		password, err = readPassword(stdin)
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		fmt.Fprintln(stdout)
	}
	if strings.TrimSpace(password) == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	return password, nil
}

func readPassword(stdin io.Reader) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	// Pipes and tests read a plain line.
	scanner := bufio.NewScanner(stdin)
	if scanner.Scan() {
		return scanner.Text(), nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".platecli.json"
	}
	return filepath.Join(home, ".platecli.json")
}
