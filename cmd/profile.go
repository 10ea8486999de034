package main

import (
	"context"
	"fmt"

	"github.com/syncup-music/syncup/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProfileShow prints the profile behind the active session.
func (r *Runner) ProfileShow(ctx context.Context, cmd *cli.Command) error {
	profile, err := r.service.Session(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(profile, cmd.Bool("pretty"))
	}

	r.writePlain("Username: %s\n", profile.Username)
	if profile.Name != "" {
		r.writePlain("Name: %s\n", profile.Name)
	}
	if profile.Role != "" {
		r.writePlain("Role: %s\n", profile.Role)
	}
	return nil
}

// ProfileUpdateName changes the account display name.
func (r *Runner) ProfileUpdateName(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: new display name", shared.ErrMissingArgument)
	}

	username, err := r.currentUser(cmd)
	if err != nil {
		return err
	}

	message, err := r.service.UpdateName(ctx, username, name)
	if err != nil {
		return err
	}

	if message == "" {
		message = "display name updated"
	}
	return r.writePlain("✓ %s\n", message)
}

// ProfileChangePassword changes the account password. The new password is
// prompted when the flag is omitted so it stays out of shell history.
func (r *Runner) ProfileChangePassword(ctx context.Context, cmd *cli.Command) error {
	username, err := r.currentUser(cmd)
	if err != nil {
		return err
	}

	password := cmd.String("password")
	if password == "" {
		if password, err = r.promptLine("New password"); err != nil {
			return err
		}
	}
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", shared.ErrInvalidInput)
	}

	message, err := r.service.ChangePassword(ctx, username, password)
	if err != nil {
		return err
	}

	if message == "" {
		message = "password changed"
	}
	return r.writePlain("✓ %s\n", message)
}
