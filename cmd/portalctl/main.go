package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jrsteele09/merchant-portal/auth"
	"github.com/jrsteele09/merchant-portal/auth/httpgateway"
	"github.com/jrsteele09/merchant-portal/guard"
	"github.com/jrsteele09/merchant-portal/sessions"
	"github.com/jrsteele09/merchant-portal/sessions/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultAPIURL = "http://localhost:8080/api"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Getenv, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run executes one portalctl command. getenv supplies PORTAL_API_URL, PORTAL_STATE_DIR and PORTAL_PASSWORD.
func run(ctx context.Context, args []string, getenv func(string) string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		printHelp(stdout)
		return nil
	}

	apiURL := getenv("PORTAL_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	store, err := openStore(getenv("PORTAL_STATE_DIR"))
	if err != nil {
		return err
	}

	switch args[0] {
	case "help", "--help", "-h":
		printHelp(stdout)
		return nil
	case "login":
		return runLogin(ctx, args[1:], apiURL, store, getenv, stdin, stdout)
	case "logout":
		return runLogout(ctx, apiURL, store, stdout)
	case "whoami":
		return runWhoami(ctx, store, stdout)
	case "check":
		if len(args) != 2 {
			return errors.New("usage: portalctl check <path>")
		}
		return runCheck(ctx, args[1], store, stdout)
	}
	return fmt.Errorf("unknown command %q, see portalctl help", args[0])
}

// openStore returns the session store kept under dir, or ~/.merchant-portal when dir is empty.
func openStore(dir string) (*sessions.Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, ".merchant-portal")
	}
	files, err := storage.NewFile(dir)
	if err != nil {
		return nil, err
	}
	return sessions.NewStore(files), nil
}

func newService(apiURL string) (*auth.Service, error) {
	return auth.NewService(httpgateway.New(apiURL, 10*time.Second))
}

func runLogin(ctx context.Context, args []string, apiURL string, store *sessions.Store, getenv func(string) string, stdin io.Reader, stdout io.Writer) error {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	flags.SetOutput(stdout)
	tenant := flags.String("tenant", "", "merchant subdomain, empty for the admin login")
	username := flags.String("user", "", "username")
	if err := flags.Parse(args); err != nil {
		return err
	}

	password := getenv("PORTAL_PASSWORD")
	if password == "" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}

	service, err := newService(apiURL)
	if err != nil {
		return err
	}
	session, err := service.Login(ctx, store, *tenant, *username, password)
	if err != nil {
		return errors.New(auth.UserMessage(err))
	}
	fmt.Fprintf(stdout, "Logged in as %s (%s)\n", session.DisplayName, describeScope(session))
	return nil
}

func runLogout(ctx context.Context, apiURL string, store *sessions.Store, stdout io.Writer) error {
	service, err := newService(apiURL)
	if err != nil {
		return err
	}
	service.Logout(ctx, store)
	fmt.Fprintln(stdout, "Logged out")
	return nil
}

func runWhoami(ctx context.Context, store *sessions.Store, stdout io.Writer) error {
	session, ok := store.Load(ctx)
	if !ok {
		return errors.New("not logged in")
	}
	fmt.Fprintf(stdout, "%s (%s), expires %s\n", session.DisplayName, describeScope(session), session.ExpiresAt.Format(time.RFC3339))
	return nil
}

func runCheck(ctx context.Context, path string, store *sessions.Store, stdout io.Writer) error {
	decision := guard.New(nil).Evaluate(ctx, path, store)
	if decision.Allowed() {
		fmt.Fprintf(stdout, "%s %s\n", decision.Verdict, path)
		return nil
	}
	fmt.Fprintf(stdout, "%s %s -> %s\n", decision.Verdict, path, decision.RedirectTo)
	return nil
}

func describeScope(session sessions.Session) string {
	if session.IsAdmin() {
		return "admin"
	}
	return "merchant " + session.Scope()
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `portalctl - merchant portal session tool

Usage:
  portalctl login [--tenant <subdomain>] --user <username>   password from PORTAL_PASSWORD or stdin
  portalctl logout
  portalctl whoami
  portalctl check <path>                                      show what the portal guard decides

Environment:
  PORTAL_API_URL     backend base URL (default `+defaultAPIURL+`)
  PORTAL_STATE_DIR   where the session is kept (default ~/.merchant-portal)
`)
}
