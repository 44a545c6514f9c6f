// Package parkctl implements a command-line front for the API client: one
// invocation runs one command, with the role marker and cookies persisted
// between invocations in a session file.
package parkctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/fatih/color"

	"github.com/okian/parkspot/internal/adapters/http/apiclient"
	"github.com/okian/parkspot/internal/adapters/store"
	"github.com/okian/parkspot/internal/domain/route"
	"github.com/okian/parkspot/internal/domain/session"
	"github.com/okian/parkspot/internal/navigation"
	"github.com/okian/parkspot/pkg/logger"
)

// Sentinel errors.
var (
	ErrUsage       = errors.New("usage")
	ErrInvalidBody = errors.New("body is not valid JSON")
)

// Runner executes parkctl commands.
type Runner struct {
	client  *apiclient.Client
	store   session.Store
	where   string
	session *session.Session
	nav     *navigation.Navigator
	apiURL  *url.URL
	out     io.Writer
	logger  logger.Logger
}

// New wires a runner from cfg. log may be nil. An empty SessionFile keeps
// the session in memory for this runner only.
func New(cfg *Config, out io.Writer, log logger.Logger) (*Runner, error) {
	if log == nil {
		log = logger.Nop()
	}
	root := strings.TrimRight(cfg.APIRoot, "/")
	apiURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/") + root + "/")
	if err != nil || apiURL.Scheme == "" || apiURL.Host == "" {
		return nil, fmt.Errorf("%w: invalid base url %q", ErrUsage, cfg.BaseURL)
	}

	var (
		st    session.Store = store.NewMemory()
		where               = "memory"
	)
	if cfg.SessionFile != "" {
		st, where = store.NewFile(cfg.SessionFile), cfg.SessionFile
	}
	sess := session.New(st)
	client := apiclient.New(
		apiclient.WithBaseURL(cfg.BaseURL),
		apiclient.WithRoot(root),
		apiclient.WithTimeout(cfg.Timeout),
		apiclient.WithSession(sess),
		apiclient.WithLogger(log.Named("apiclient")),
	)

	return &Runner{
		client:  client,
		store:   st,
		where:   where,
		session: sess,
		nav:     navigation.New(route.Default(), sess, navigation.WithLogger(log.Named("navigation"))),
		apiURL:  apiURL,
		out:     out,
		logger:  log,
	}, nil
}

// Run executes one command. Cookies are restored before and saved after the
// command, including when it fails.
func (r *Runner) Run(ctx context.Context, args []string) (err error) {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	if err := restoreCookies(ctx, r.store, r.client.Jar(), r.apiURL); err != nil {
		r.logger.Warn(ctx, "ignoring saved cookies", logger.String("store", r.where), logger.Error(err))
	}
	defer func() {
		if saveErr := saveCookies(ctx, r.store, r.client.Jar(), r.apiURL); saveErr != nil && err == nil {
			err = fmt.Errorf("save cookies: %w", saveErr)
		}
	}()

	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch cmd {
	case "get", "delete":
		path, err := pathArg(cmd, rest, 1)
		if err != nil {
			return err
		}
		return r.call(ctx, strings.ToUpper(cmd), path, nil)
	case "post", "put":
		path, err := pathArg(cmd, rest, 2)
		if err != nil {
			return err
		}
		var body any
		if len(rest) == 2 {
			if err := json.Unmarshal([]byte(rest[1]), &body); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidBody, err)
			}
		}
		return r.call(ctx, strings.ToUpper(cmd), path, body)
	case "login":
		if len(rest) != 2 {
			return fmt.Errorf("%w: login USER PASSWORD", ErrUsage)
		}
		return r.login(ctx, rest[0], rest[1])
	case "logout":
		return r.logout(ctx)
	case "whoami":
		return r.whoami(ctx)
	case "route":
		path, err := pathArg(cmd, rest, 1)
		if err != nil {
			return err
		}
		return r.route(ctx, path)
	case "help":
		ShowHelp(r.out)
		return nil
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
}

func pathArg(cmd string, rest []string, limit int) (string, error) {
	if len(rest) == 0 || len(rest) > limit {
		return "", fmt.Errorf("%w: %s PATH", ErrUsage, cmd)
	}
	path := rest[0]
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path, nil
}

func (r *Runner) call(ctx context.Context, method, path string, body any) error {
	res, err := r.client.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	switch res := res.(type) {
	case apiclient.Success:
		return r.printJSON(res.Value)
	case apiclient.Failure:
		if res.Status == http.StatusUnauthorized {
			_, _ = color.New(color.FgYellow).Fprintln(r.out, "session expired; log in again")
		}
		return res.Err()
	default:
		return fmt.Errorf("unexpected result %T", res)
	}
}

func (r *Runner) login(ctx context.Context, username, password string) error {
	var resp loginResponse
	if err := r.client.Fetch(ctx, http.MethodPost, "/login", loginRequest{Username: username, Password: password}, &resp); err != nil {
		return err
	}
	if err := r.session.Login(ctx, resp.Role); err != nil {
		return fmt.Errorf("remember role: %w", err)
	}
	_, _ = color.New(color.FgGreen).Fprintf(r.out, "%s (role: %s)\n", resp.Message, resp.Role)
	return nil
}

func (r *Runner) logout(ctx context.Context) error {
	_, err := r.client.Post(ctx, "/logout", nil)
	if clearErr := r.session.Clear(ctx); clearErr != nil && err == nil {
		err = clearErr
	}
	if err != nil {
		return err
	}
	_, _ = color.New(color.FgGreen).Fprintln(r.out, "logged out")
	return nil
}

func (r *Runner) whoami(ctx context.Context) error {
	role, ok, err := r.session.Role(ctx)
	if err != nil {
		return err
	}
	if !ok {
		_, _ = fmt.Fprintln(r.out, "not logged in")
		return nil
	}
	_, _ = fmt.Fprintln(r.out, role)
	return nil
}

func (r *Runner) route(ctx context.Context, path string) error {
	d, err := r.nav.Resolve(ctx, path)
	if errors.Is(err, navigation.ErrNotFound) {
		return err
	}

	_, _ = fmt.Fprintf(r.out, "view:     %s\n", d.Match.Route.View)
	_, _ = fmt.Fprintf(r.out, "pattern:  %s\n", d.Match.Route.Pattern)
	for name, value := range d.Match.Params {
		_, _ = fmt.Fprintf(r.out, "param:    %s=%s\n", name, value)
	}
	switch {
	case err != nil:
		_, _ = color.New(color.FgRed).Fprintln(r.out, "decision: denied (admin only)")
	case !d.Allowed():
		_, _ = color.New(color.FgYellow).Fprintf(r.out, "decision: redirect to %s\n", d.Redirect)
	default:
		_, _ = color.New(color.FgGreen).Fprintln(r.out, "decision: allowed")
	}
	return nil
}

func (r *Runner) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.out, string(b))
	return err
}
