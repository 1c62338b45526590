package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/finovabank/client-go/client"
	"github.com/finovabank/client-go/internal/config"
	"github.com/finovabank/client-go/session"
)

var (
	email    = flag.String("email", "", "email for login/register")
	password = flag.String("password", "", "password for login/register")
	first    = flag.String("first-name", "", "first name for register")
	last     = flag.String("last-name", "", "last name for register")
	verbose  = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()
	if err := run(flag.Arg(0)); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run(action string) error {
	cfg := config.New()
	displayAppName(cfg.GetAppName())

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	c, err := client.New(cfg, client.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := c.Start(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	switch action {
	case "login":
		if err := c.Session().Login(ctx, *email, *password); err != nil {
			return err
		}
		return printWhoami(c)
	case "register":
		reg := session.Registration{
			FirstName: *first,
			LastName:  *last,
			Email:     *email,
			Password:  *password,
		}
		if err := c.Session().Register(ctx, reg); err != nil {
			return err
		}
		return printWhoami(c)
	case "logout":
		if err := c.Session().Logout(ctx); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	case "whoami", "":
		return printWhoami(c)
	case "accounts":
		accounts, err := c.Banking().Accounts(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ACCOUNT\tTYPE\tBALANCE\tCURRENCY")
		for _, a := range accounts {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", a.AccountID, a.AccountType, a.Balance, a.Currency)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown action %q (want login, register, logout, whoami, or accounts)", action)
	}
}

func printWhoami(c *client.Client) error {
	snap := c.Session().Current()
	if !snap.IsAuthenticated() {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("signed in as %s <%s>\n", snap.User.FullName(), snap.User.Email)
	return nil
}

func displayAppName(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
