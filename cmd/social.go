package main

import (
	"context"
	"fmt"

	"github.com/syncup-music/syncup/internal/shared"
	"github.com/urfave/cli/v3"
)

// SocialFollow follows another user.
func (r *Runner) SocialFollow(ctx context.Context, cmd *cli.Command) error {
	target := cmd.StringArg("target")
	if target == "" {
		return fmt.Errorf("%w: target username", shared.ErrMissingArgument)
	}

	follower, err := r.currentUser(cmd)
	if err != nil {
		return err
	}

	message, err := r.service.Follow(ctx, follower, target)
	if err != nil {
		return err
	}

	if message == "" {
		message = fmt.Sprintf("now following %s", target)
	}
	return r.writePlain("✓ %s\n", message)
}

// SocialUnfollow stops following another user.
func (r *Runner) SocialUnfollow(ctx context.Context, cmd *cli.Command) error {
	target := cmd.StringArg("target")
	if target == "" {
		return fmt.Errorf("%w: target username", shared.ErrMissingArgument)
	}

	follower, err := r.currentUser(cmd)
	if err != nil {
		return err
	}

	message, err := r.service.Unfollow(ctx, follower, target)
	if err != nil {
		return err
	}

	if message == "" {
		message = fmt.Sprintf("unfollowed %s", target)
	}
	return r.writePlain("✓ %s\n", message)
}

// SocialFollowing lists the users the acting user follows.
func (r *Runner) SocialFollowing(ctx context.Context, cmd *cli.Command) error {
	username, err := r.currentUser(cmd)
	if err != nil {
		return err
	}

	following, err := r.service.Following(ctx, username)
	if err != nil {
		return err
	}

	if len(following) == 0 {
		return r.writePlain("%s is not following anyone\n", username)
	}

	r.writePlainHeader(fmt.Sprintf("%s follows %d users", username, len(following)))
	for _, followed := range following {
		r.writePlain("%s\n", followed)
	}
	return nil
}

// SocialSuggest prints users with overlapping taste.
func (r *Runner) SocialSuggest(ctx context.Context, cmd *cli.Command) error {
	username, err := r.currentUser(cmd)
	if err != nil {
		return err
	}

	suggestions, err := r.service.SuggestUsers(ctx, username, cmd.Int("limit"))
	if err != nil {
		return err
	}

	if len(suggestions) == 0 {
		return r.writePlain("No suggestions yet, favorite a few songs first\n")
	}

	r.writePlainHeader("Suggested users")
	for _, suggested := range suggestions {
		r.writePlain("%s\n", suggested)
	}
	return nil
}
