package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/services"
	"github.com/desertthunder/tubelist/internal/shared"
)

// AuthRegister creates an account on the companion server and stores the returned session.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	username, password, err := credentials(cmd)
	if err != nil {
		return err
	}
	avatar, err := avatarURL(cmd.String("avatar"))
	if err != nil {
		return err
	}

	displayName := strings.TrimSpace(cmd.String("display-name"))
	if displayName == "" {
		displayName = username
	}

	if err := r.open(); err != nil {
		return err
	}

	session, err := r.remote.Register(ctx, services.RegisterRequest{
		Username:    username,
		Password:    password,
		DisplayName: displayName,
		AvatarURL:   avatar,
	})
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	return r.signIn(ctx, session, "Registered")
}

// AuthLogin exchanges credentials for a session token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username, password, err := credentials(cmd)
	if err != nil {
		return err
	}
	if err := r.open(); err != nil {
		return err
	}

	session, err := r.remote.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	return r.signIn(ctx, session, "Signed in")
}

// signIn persists the session and warms the playlist cache.
func (r *Runner) signIn(ctx context.Context, session models.Session, verb string) error {
	if err := r.sessions.Save(session); err != nil {
		return err
	}
	r.logger.Info("session stored", "user", session.Username)

	playlists := r.library.Playlists(ctx, session)
	r.writePlain("✓ %s as %s\n", verb, userLabel(session.User))
	return r.writePlain("%d playlists available\n", len(playlists))
}

// AuthLogout clears the local session. The server is told on a best-effort basis.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	session, err := r.sessions.Current()
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return r.writePlain("Not signed in.\n")
	} else if err != nil {
		return err
	}

	if err := r.remote.Logout(ctx, session); err != nil {
		r.logger.Warn("server logout failed", "error", err)
	}
	if err := r.sessions.Clear(); err != nil {
		return err
	}
	return r.writePlain("✓ Signed out %s\n", session.Username)
}

// AuthStatus reports the stored session and whether the server answers.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	r.writePlainHeader("tubelist status")
	session, err := r.sessions.Current()
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		r.writePlain("Session: ✗ Not signed in\n")
	case err != nil:
		return err
	default:
		r.writePlain("Session: ✓ %s\n", userLabel(session.User))
	}

	r.writePlain("Server:  %s\n", r.remote.BaseURL())
	if err := r.remote.Health(ctx); err != nil {
		r.logger.Debug("health check failed", "error", err)
		return r.writePlain("Health:  ✗ Unreachable (changes are kept in the local cache)\n")
	}
	return r.writePlain("Health:  ✓ OK\n")
}

// AuthUsers lists the accounts registered on the server.
func (r *Runner) AuthUsers(ctx context.Context, cmd *cli.Command) error {
	users, err := r.remote.Users(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrServiceUnavailable, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, true)
	}

	if len(users) == 0 {
		return r.writePlain("No users registered.\n")
	}
	for _, u := range users {
		r.writePlain("%-20s %s\n", u.Username, u.DisplayName)
	}
	return nil
}

func credentials(cmd *cli.Command) (username, password string, err error) {
	username = strings.TrimSpace(cmd.StringArg("username"))
	if username == "" {
		return "", "", fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	password = cmd.String("password")
	if password == "" {
		return "", "", fmt.Errorf("%w: --password (or TUBELIST_PASSWORD)", shared.ErrMissingArgument)
	}
	return username, password, nil
}

func avatarURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: avatar must be an http(s) URL", shared.ErrInvalidInput)
	}
	return raw, nil
}

func userLabel(u models.User) string {
	if u.DisplayName == "" || u.DisplayName == u.Username {
		return u.Username
	}
	return fmt.Sprintf("%s (%s)", u.DisplayName, u.Username)
}
