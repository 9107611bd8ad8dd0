// Package main implements the todo CLI, a terminal client for todolist-server.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/grand-thief-cash/todolist/internal/apiclient"
	"github.com/grand-thief-cash/todolist/internal/credentials"
	"github.com/grand-thief-cash/todolist/internal/tasklist"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli carries the persistent flags shared by every subcommand.
type cli struct {
	configPath string
	server     string
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "todo",
		Short:        "Personal task tracker client",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "client config file (default <user config dir>/todolist/client.toml)")
	root.PersistentFlags().StringVar(&c.server, "server", "", "server base URL, overrides the config file")

	root.AddCommand(
		c.loginCmd(), c.registerCmd(), c.logoutCmd(),
		c.listCmd(), c.addCmd(), c.editCmd(),
		c.completeCmd(), c.toggleCmd(), c.deleteCmd(),
	)
	return root
}

func (c *cli) store() (*credentials.Store, error) {
	path := c.configPath
	if path == "" {
		p, err := credentials.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return credentials.NewStore(path), nil
}

// session opens the store and an API client pointed at the configured server.
func (c *cli) session() (*credentials.Store, *apiclient.Client, error) {
	st, err := c.store()
	if err != nil {
		return nil, nil, err
	}
	f, err := st.Read()
	if err != nil {
		return nil, nil, err
	}
	base := f.Server.BaseURL
	if c.server != "" {
		base = c.server
	}
	cfg := f.Server
	return st, apiclient.New(base, &cfg), nil
}

// mounted returns a controller whose task list has been loaded.
func (c *cli) mounted(cmd *cobra.Command) (*tasklist.Controller, error) {
	st, api, err := c.session()
	if err != nil {
		return nil, err
	}
	ctrl := tasklist.NewController(api, st.Token)
	if err := ctrl.Mount(cmd.Context()); err != nil {
		return nil, explain(err)
	}
	return ctrl, nil
}

// explain turns the errors users hit most into actionable messages.
func explain(err error) error {
	switch {
	case errors.Is(err, tasklist.ErrLoginRequired):
		return errors.New("not logged in; run `todo login <username>`")
	case apiclient.KindOf(err) == apiclient.KindUnauthorized:
		return fmt.Errorf("session rejected by server, log in again: %w", err)
	case apiclient.KindOf(err) == apiclient.KindNetwork:
		return fmt.Errorf("server unreachable: %w", err)
	}
	return err
}
