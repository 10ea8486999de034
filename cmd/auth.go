package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/syncup-music/syncup/internal/shared"
	"github.com/urfave/cli/v3"
)

// promptLine writes a label and reads one trimmed line from the runner's input.
func (r *Runner) promptLine(label string) (string, error) {
	r.writePlain("%s: ", label)
	reader := bufio.NewReader(r.input)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// AuthLogin exchanges credentials for a bearer token and stores it in the
// slot matching its role claim.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	password := cmd.String("password")
	if password == "" {
		var err error
		if password, err = r.promptLine("Password"); err != nil {
			return err
		}
	}

	r.logger.Infof("signing in as %v", username)

	token, err := r.service.Login(ctx, username, password)
	if err != nil {
		return err
	}

	if err := r.store.Login(token); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}

	identity := r.store.Identity()
	if identity.Admin() {
		return r.writePlain("✓ Signed in as %s (admin)\n", identity.Username)
	}
	return r.writePlain("✓ Signed in as %s\n", identity.Username)
}

// AuthRegister creates an account. The server confirmation is printed and no
// session is established; the new user signs in explicitly afterwards.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	password := cmd.String("password")
	if password == "" {
		var err error
		if password, err = r.promptLine("Password"); err != nil {
			return err
		}
	}

	message, err := r.service.Register(ctx, username, password, cmd.String("name"))
	if err != nil {
		return err
	}

	if message == "" {
		message = "account created"
	}

	r.writePlain("✓ %s\n", message)
	return r.writePlain("Sign in with 'syncup auth login %s'\n", username)
}

// AuthLogout invalidates the server session and clears both token slots.
//
// Local state is cleared even when the server call fails, so a dead backend
// cannot keep the client signed in.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.service.Logout(ctx); err != nil {
		r.logger.Warnf("server logout failed: %v", err)
	}

	if err := r.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthStatus reports the active session's identity and privilege level.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	identity := r.store.Identity()
	if identity.Empty() {
		return r.writePlain("✗ Not signed in\n")
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"username": identity.Username,
			"role":     identity.Role,
			"admin":    identity.Admin(),
		}, true)
	}

	r.writePlain("✓ Signed in\n")
	r.writePlain("Username: %s\n", identity.Username)
	if identity.Admin() {
		r.writePlain("Privileges: admin\n")
	} else {
		r.writePlain("Privileges: standard\n")
	}

	if profile, err := r.service.Session(ctx); err == nil && profile.Name != "" {
		r.writePlain("Name: %s\n", profile.Name)
	}

	return nil
}
