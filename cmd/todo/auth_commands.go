package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/grand-thief-cash/todolist/internal/apiclient"
	"github.com/grand-thief-cash/todolist/internal/credentials"
)

func (c *cli) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and cache the token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, "Password: ")
			if err != nil {
				return err
			}
			st, api, err := c.session()
			if err != nil {
				return err
			}
			s, err := api.Login(cmd.Context(), args[0], password)
			if apiclient.KindOf(err) == apiclient.KindUnauthorized {
				return fmt.Errorf("login failed: %w", err)
			}
			if err != nil {
				return explain(err)
			}
			if err := c.persist(st, args[0], s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) registerCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create an account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(cmd, "Choose a password: ")
			if err != nil {
				return err
			}
			st, api, err := c.session()
			if err != nil {
				return err
			}
			s, err := api.Register(cmd.Context(), args[0], email, password)
			if err != nil {
				return explain(err)
			}
			if err := c.persist(st, args[0], s); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "email address")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the cached token and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, api, err := c.session()
			if err != nil {
				return err
			}
			if tok, ok := st.Token(); ok {
				api.SetToken(tok)
				// an already rejected token still gets cleared locally
				if err := api.Logout(cmd.Context()); err != nil && apiclient.KindOf(err) != apiclient.KindUnauthorized {
					return explain(err)
				}
			}
			if err := st.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// persist caches the token, plus the server URL when given on the command line.
func (c *cli) persist(st *credentials.Store, username string, s *apiclient.Session) error {
	if c.server != "" {
		f, err := st.Read()
		if err != nil {
			return err
		}
		f.Server.BaseURL = c.server
		if err := st.Write(f); err != nil {
			return err
		}
	}
	return st.Save(credentials.Credential{Username: username, Token: s.Token, ExpiresAt: s.ExpiresAt})
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty password")
	}
	return line, nil
}
