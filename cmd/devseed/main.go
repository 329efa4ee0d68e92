// Command devseed registers demo travellers against a running API and drives the
// shared-trip chat flow end to end. It is a local development aid.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	if err := app().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "devseed:", err)
		os.Exit(1)
	}
}

func app() *cli.App {
	return &cli.App{
		Name:  "devseed",
		Usage: "Seed a local TravelTinder API with demo data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "API base URL",
				EnvVars: []string{"TRAVELTINDER_SERVER"},
				Value:   "http://localhost:8080",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Per-request timeout",
				Value: defaultTimeout,
			},
		},
		Commands: []*cli.Command{
			registerCommand(),
			scenarioCommand(),
		},
	}
}

func clientFrom(c *cli.Context) *client {
	return newClient(c.String("server"), c.Duration("timeout"))
}

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Register demo users and print their bearer tokens",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "count",
				Aliases: []string{"n"},
				Value:   3,
				Usage:   "Number of users",
			},
			&cli.StringFlag{
				Name:  "domain",
				Value: "example.com",
				Usage: "Email domain for generated accounts",
			},
			&cli.StringFlag{
				Name:  "password",
				Value: "travel-safe",
				Usage: "Password for every generated account",
			},
		},
		Action: func(c *cli.Context) error {
			n := c.Int("count")
			if n <= 0 {
				return cli.Exit("--count must be positive", 2)
			}
			cl := clientFrom(c)
			for i := 1; i <= n; i++ {
				name := fmt.Sprintf("Traveller %d", i)
				email := fmt.Sprintf("traveller%d@%s", i, c.String("domain"))
				sess, err := cl.register(c.Context, email, c.String("password"), name)
				if err != nil {
					return fmt.Errorf("register %s: %w", email, err)
				}
				fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", sess.User.ID, email, sess.Token)
			}
			return nil
		},
	}
}

func scenarioCommand() *cli.Command {
	return &cli.Command{
		Name:  "scenario",
		Usage: "Create a trip, fill it, chat, and confirm outsiders are rejected",
		Action: func(c *cli.Context) error {
			report, err := runScenario(c.Context, clientFrom(c))
			for _, line := range report {
				fmt.Fprintln(c.App.Writer, line)
			}
			return err
		},
	}
}
