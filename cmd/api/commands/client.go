package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartnote/core/internal/client"
	"github.com/smartnote/core/internal/infrastructure/config"
	"github.com/smartnote/core/internal/infrastructure/logger"
	"github.com/smartnote/core/internal/session"
)

// clientEnv is what every client command needs: the API, the session and
// somewhere to write.
type clientEnv struct {
	opts    *RootOptions
	logger  *logger.Logger
	api     *client.Client
	session *session.Manager
	out     io.Writer
}

func newClientEnv(cmd *cobra.Command, opts *RootOptions) (*clientEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	clientLogger, err := logger.New(config.LoggerConfig{Level: level, Format: "console", Output: "stderr"})
	if err != nil {
		return nil, err
	}

	baseURL := cfg.Client.BaseURL
	if opts.APIURL != "" {
		baseURL = opts.APIURL
	}
	sessionFile := cfg.Client.SessionFile
	if opts.SessionFile != "" {
		sessionFile = opts.SessionFile
	}

	api := client.New(baseURL, cfg.Client.Timeout, client.WithLogger(clientLogger))
	sess, err := session.Open(sessionFile, api)
	if err != nil {
		return nil, err
	}

	return &clientEnv{
		opts:    opts,
		logger:  clientLogger,
		api:     api,
		session: sess,
		out:     cmd.OutOrStdout(),
	}, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// emit writes v as JSON, or calls text for the text format
func (e *clientEnv) emit(v interface{}, text func(w io.Writer)) error {
	if e.opts.Format == "json" {
		enc := json.NewEncoder(e.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(e.out)
	return nil
}

func table(w io.Writer, header string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// NewLoginCommand creates the login command
func NewLoginCommand(opts *RootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				return errors.New("email and password are required")
			}
			env, err := newClientEnv(cmd, opts)
			if err != nil {
				return err
			}

			state, err := env.session.Login(commandContext(cmd), email, password)
			if err != nil {
				return err
			}
			return env.emit(state, func(w io.Writer) {
				fmt.Fprintf(w, "Logged in as %s <%s>\n", state.Username, state.Email)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", os.Getenv("SMARTNOTE_PASSWORD"), "account password (default $SMARTNOTE_PASSWORD)")
	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newClientEnv(cmd, opts)
			if err != nil {
				return err
			}
			if err := env.session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(env.out, "Logged out")
			return nil
		},
	}
}

// NewWhoamiCommand creates the whoami command
func NewWhoamiCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newClientEnv(cmd, opts)
			if err != nil {
				return err
			}
			state, err := env.session.Require()
			if err != nil {
				return err
			}
			return env.emit(state, func(w io.Writer) {
				fmt.Fprintf(w, "%s <%s> (id %s, since %s)\n",
					state.Username, state.Email, state.UserID, state.LoggedInAt.Local().Format(time.RFC1123))
			})
		},
	}
}

// filterFlags are the month/week selection shared by notes and tasks list
type filterFlags struct {
	month string
	week  int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.month, "month", "", "only show this month (YYYY-MM)")
	cmd.Flags().IntVar(&f.week, "week", 0, "only show this week of --month (1-5)")
}

type monthWeekSetter interface {
	SetMonth(year int, month time.Month) error
	SetWeek(week int) error
}

func (f *filterFlags) apply(v monthWeekSetter) error {
	if f.month != "" {
		m, err := time.Parse("2006-01", f.month)
		if err != nil {
			return fmt.Errorf("invalid --month %q: want YYYY-MM", f.month)
		}
		if err := v.SetMonth(m.Year(), m.Month()); err != nil {
			return err
		}
	}
	if f.week != 0 {
		return v.SetWeek(f.week)
	}
	return nil
}
