// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tubelist/internal/tasks"
)

// setupCommand writes a starter config file and initializes the local cache.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file and initialize the local cache",
		Action: r.Setup,
	}
}

// serveCommand runs the companion server.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the companion server (accounts, playlist storage, MP3 uploads)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Interface to listen on (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to listen on (overrides server.port)",
			},
			&cli.StringFlag{
				Name:  "storage",
				Usage: "Storage backend: file or redis (overrides server.storage)",
			},
		},
		Action: r.Serve,
	}
}

// authCommand handles account operations against the companion server
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your account and session",
		Commands: []*cli.Command{
			{
				Name:      "register",
				Usage:     "Create an account and sign in",
				Arguments: []cli.Argument{&cli.StringArg{Name: "username"}},
				Flags: []cli.Flag{
					passwordFlag(),
					&cli.StringFlag{
						Name:  "display-name",
						Usage: "Name shown to other users (defaults to the username)",
					},
					&cli.StringFlag{
						Name:     "avatar",
						Usage:    "Avatar image URL",
						Required: true,
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:      "login",
				Usage:     "Sign in and store the session locally",
				Arguments: []cli.Argument{&cli.StringArg{Name: "username"}},
				Flags:     []cli.Flag{passwordFlag()},
				Action:    r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "End the session on this device",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in user and server health",
				Action: r.AuthStatus,
			},
			{
				Name:  "users",
				Usage: "List registered users",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthUsers,
			},
		},
	}
}

// playlistsCommand handles playlist and video edits
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Create, edit and browse playlists",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List your playlists",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistsList,
			},
			{
				Name:      "show",
				Usage:     "Show the videos of a playlist",
				Arguments: []cli.Argument{playlistArg()},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "sort",
						Aliases: []string{"s"},
						Usage:   "Order by name or rating",
						Value:   "name",
					},
					&cli.StringFlag{
						Name:    "filter",
						Aliases: []string{"f"},
						Usage:   "Only show videos whose title contains this text",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlaylistsShow,
			},
			{
				Name:      "create",
				Usage:     "Create an empty playlist",
				Arguments: []cli.Argument{&cli.StringArg{Name: "name"}},
				Action:    r.PlaylistsCreate,
			},
			{
				Name:      "rename",
				Usage:     "Rename a playlist",
				Arguments: []cli.Argument{playlistArg(), &cli.StringArg{Name: "name"}},
				Action:    r.PlaylistsRename,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a playlist",
				Arguments: []cli.Argument{playlistArg()},
				Action:    r.PlaylistsDelete,
			},
			{
				Name:      "add",
				Usage:     "Add a YouTube video by URL or id",
				Arguments: []cli.Argument{playlistArg(), videoArg()},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Video title (defaults to the id)",
					},
					&cli.IntFlag{
						Name:  "rating",
						Usage: "Initial rating from 1 to 10",
						Value: 1,
					},
				},
				Action: r.PlaylistsAdd,
			},
			{
				Name:      "rate",
				Usage:     "Rate a video from 1 to 10",
				Arguments: []cli.Argument{playlistArg(), videoArg(), &cli.StringArg{Name: "rating"}},
				Action:    r.PlaylistsRate,
			},
			{
				Name:      "remove",
				Usage:     "Remove a video from a playlist",
				Arguments: []cli.Argument{playlistArg(), videoArg()},
				Action:    r.PlaylistsRemove,
			},
		},
	}
}

// searchCommand queries YouTube and optionally saves a hit to a playlist
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search YouTube for videos",
		Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of results (defaults to youtube.max_results)",
			},
			&cli.StringFlag{
				Name:  "add-to",
				Usage: "Add a result to this playlist",
			},
			&cli.IntFlag{
				Name:  "pick",
				Usage: "Which result to add with --add-to (1-based)",
				Value: 1,
			},
			&cli.BoolFlag{
				Name:  "history",
				Usage: "Show recent searches instead of searching",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Search,
	}
}

// uploadCommand sends an MP3 to the companion server and adds it to a playlist
func uploadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload an MP3 file into a playlist",
		Arguments: []cli.Argument{playlistArg(), &cli.StringArg{Name: "file"}},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "title",
				Usage: "Title shown in the playlist (defaults to the file name)",
			},
		},
		Action: r.Upload,
	}
}

// exportCommand writes playlists to disk
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export playlists to files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "Export format: " + strings.Join(tasks.ExportFormats, ", "),
				Value: "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: tubelist_export_<epoch>)",
			},
			&cli.StringSliceFlag{
				Name:  "id",
				Usage: "Playlist to export, by id or name (repeatable; default: all)",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
				Value: 4,
			},
			&cli.BoolFlag{
				Name:  "covers",
				Usage: "Download a cover image for markdown exports",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print the export summary as JSON",
			},
		},
		Action: r.Export,
	}
}

// openCommand plays a video in the default browser
func openCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Aliases:   []string{"play"},
		Usage:     "Open a video or MP3 in the browser",
		Arguments: []cli.Argument{playlistArg(), videoArg()},
		Action:    r.Open,
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive playlist browser",
		Action:  r.TUI,
	}
}

func playlistArg() cli.Argument { return &cli.StringArg{Name: "playlist", UsageText: "playlist id or name"} }

func videoArg() cli.Argument { return &cli.StringArg{Name: "video", UsageText: "video id, URL or title"} }

func passwordFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "password",
		Usage:   "Account password",
		Sources: cli.EnvVars("TUBELIST_PASSWORD"),
	}
}
