// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in and store the session token",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Password (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Password (prompted when omitted)",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Display name",
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Invalidate the server session and clear stored tokens",
				Action: r.AuthLogout,
			},
			{
				Name:  "status",
				Usage: "Show the active session and its privilege level",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthStatus,
			},
		},
	}
}

// songsCommand handles catalog browsing and search operations
func songsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songs",
		Aliases: []string{"catalog"},
		Usage:   "Browse and search the song catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the full catalog",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.SongsList,
			},
			{
				Name:  "get",
				Usage: "Show a single song by id",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.SongsGet,
			},
			{
				Name:  "search",
				Usage: "Search the catalog across title, artist and genre",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "field",
						Usage: "Restrict to a single field (titulo or genero)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongsSearch,
			},
			{
				Name:  "advanced",
				Usage: "Multi-field catalog search",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Title fragment",
					},
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Artist fragment",
					},
					&cli.StringFlag{
						Name:  "genre",
						Usage: "Genre fragment",
					},
					&cli.IntFlag{
						Name:  "year-from",
						Usage: "Earliest release year",
					},
					&cli.IntFlag{
						Name:  "year-to",
						Usage: "Latest release year",
					},
					&cli.StringFlag{
						Name:  "op",
						Usage: "Combine fields with AND or OR",
						Value: "AND",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongsAdvanced,
			},
			{
				Name:  "autocomplete",
				Usage: "Suggest song titles for a prefix",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "prefix"},
				},
				Action: r.SongsAutocomplete,
			},
			{
				Name:  "similar",
				Usage: "List songs similar to a seed song",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of songs to return",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongsSimilar,
			},
			{
				Name:  "radio",
				Usage: "Build a radio queue seeded by a song",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Queue length",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SongsRadio,
			},
		},
	}
}

// favoritesCommand handles the per-user favorite set
func favoritesCommand(r *Runner) *cli.Command {
	userFlag := &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "Act on behalf of this username (defaults to the signed-in user)",
	}

	return &cli.Command{
		Name:    "favorites",
		Aliases: []string{"fav"},
		Usage:   "Manage favorite songs",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List favorite songs",
				Flags: []cli.Flag{
					userFlag,
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.FavoritesList,
			},
			{
				Name:  "add",
				Usage: "Mark a song as favorite",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{userFlag},
				Action: r.FavoritesAdd,
			},
			{
				Name:  "remove",
				Usage: "Unmark a favorite song",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{userFlag},
				Action: r.FavoritesRemove,
			},
			{
				Name:  "export",
				Usage: "Export favorites to a CSV document",
				Flags: []cli.Flag{
					userFlag,
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.FavoritesExport,
			},
			{
				Name:    "discovery",
				Aliases: []string{"disc"},
				Usage:   "Personalized discovery feed based on favorites",
				Flags: []cli.Flag{
					userFlag,
					&cli.IntFlag{
						Name:  "size",
						Usage: "Number of songs to suggest",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.FavoritesDiscovery,
			},
		},
	}
}

// socialCommand handles the follow graph
func socialCommand(r *Runner) *cli.Command {
	userFlag := &cli.StringFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "Act on behalf of this username (defaults to the signed-in user)",
	}

	return &cli.Command{
		Name:  "social",
		Usage: "Follow other listeners",
		Commands: []*cli.Command{
			{
				Name:  "follow",
				Usage: "Follow a user",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "target"},
				},
				Flags:  []cli.Flag{userFlag},
				Action: r.SocialFollow,
			},
			{
				Name:  "unfollow",
				Usage: "Stop following a user",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "target"},
				},
				Flags:  []cli.Flag{userFlag},
				Action: r.SocialUnfollow,
			},
			{
				Name:   "following",
				Usage:  "List followed users",
				Flags:  []cli.Flag{userFlag},
				Action: r.SocialFollowing,
			},
			{
				Name:  "suggest",
				Usage: "Suggest users with overlapping taste",
				Flags: []cli.Flag{
					userFlag,
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of suggestions",
						Value: 5,
					},
				},
				Action: r.SocialSuggest,
			},
		},
	}
}

// profileCommand handles account self-service
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "View and update the signed-in account",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the profile behind the active session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ProfileShow,
			},
			{
				Name:  "update-name",
				Usage: "Change the account display name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.ProfileUpdateName,
			},
			{
				Name:  "change-password",
				Usage: "Change the account password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "New password (prompted when omitted)",
					},
				},
				Action: r.ProfileChangePassword,
			},
		},
	}
}

// adminCommand handles catalog management, user management and metrics.
//
// Every operation requires an admin token; the server rejects the rest.
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administrative operations (admin token required)",
		Commands: []*cli.Command{
			{
				Name:  "song",
				Usage: "Manage catalog entries",
				Commands: []*cli.Command{
					{
						Name:  "create",
						Usage: "Add a song to the catalog",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "title",
								Usage:    "Song title",
								Required: true,
							},
							&cli.StringFlag{
								Name:     "artist",
								Usage:    "Artist name",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "genre",
								Usage: "Genre",
							},
							&cli.IntFlag{
								Name:  "year",
								Usage: "Release year",
							},
							&cli.FloatFlag{
								Name:  "duration",
								Usage: "Duration in seconds",
							},
							&cli.StringFlag{
								Name:  "file",
								Usage: "Media file name",
							},
						},
						Action: r.AdminSongCreate,
					},
					{
						Name:  "update",
						Usage: "Update a catalog entry",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "title",
								Usage: "Song title",
							},
							&cli.StringFlag{
								Name:  "artist",
								Usage: "Artist name",
							},
							&cli.StringFlag{
								Name:  "genre",
								Usage: "Genre",
							},
							&cli.IntFlag{
								Name:  "year",
								Usage: "Release year",
							},
							&cli.FloatFlag{
								Name:  "duration",
								Usage: "Duration in seconds",
							},
							&cli.StringFlag{
								Name:  "file",
								Usage: "Media file name",
							},
						},
						Action: r.AdminSongUpdate,
					},
					{
						Name:  "delete",
						Usage: "Remove a song from the catalog",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "id"},
						},
						Action: r.AdminSongDelete,
					},
				},
			},
			{
				Name:  "users",
				Usage: "Manage accounts",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List all registered users",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "json",
								Usage: "Output raw JSON",
							},
						},
						Action: r.AdminUsersList,
					},
					{
						Name:  "delete",
						Usage: "Delete an account (prompts for confirmation)",
						Arguments: []cli.Argument{
							&cli.StringArg{Name: "username"},
						},
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:    "yes",
								Aliases: []string{"y"},
								Usage:   "Skip the confirmation prompt",
							},
						},
						Action: r.AdminUserDelete,
					},
				},
			},
			{
				Name:  "metrics",
				Usage: "Show the activity dashboard",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Rows per ranking",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.AdminMetrics,
			},
		},
	}
}

// cacheCommand handles the local catalog cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Sync and inspect the local catalog cache",
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Fetch the catalog and favorites into the local database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "user",
						Aliases: []string{"u"},
						Usage:   "Sync favorites of this username (defaults to the signed-in user)",
					},
				},
				Action: r.CacheSync,
			},
			{
				Name:  "list",
				Usage: "List cached songs without touching the network",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"ui"},
		Usage:   "Interactive terminal UI",
		Action:  r.TUI,
	}
}
