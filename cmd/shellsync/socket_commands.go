package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shellsync/internal/ipc"
	"shellsync/internal/journal"
	"shellsync/internal/wire"
)

func newSendCommand(ctx *commandContext) *cobra.Command {
	var quiet time.Duration
	cmd := &cobra.Command{
		Use:   "send VERB [ARGUMENT]",
		Short: "Send a raw socket command and print the replies",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line := strings.ToUpper(args[0]) + ":"
			if len(args) == 2 {
				line += args[1]
			}
			return ctx.withClient(func(client *ipc.Client) error {
				lines, err := client.Request(line, quiet)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, l := range lines {
					fmt.Fprintln(out, l)
				}
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&quiet, "quiet", defaultQuiet, "Stop reading after the daemon is silent this long")
	return cmd
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status PATH...",
		Short: "Show the sync status of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			return ctx.withClient(func(client *ipc.Client) error {
				for _, p := range paths {
					lines, err := client.Request(wire.Join(wire.VerbRetrieveFileStatus, p), defaultQuiet)
					if err != nil {
						return err
					}
					code := wire.CodeNOP
					for _, l := range lines {
						if c, ok := parseStatusReply(l, wire.VerbStatus); ok {
							code = c
							break
						}
					}
					fmt.Fprintln(out, renderStatusLine(p, statusKindFor(code), statusMessage(code), colorize))
				}
				return nil
			})
		},
	}
}

func newMenuCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "menu PATH...",
		Short: "Show the context menu offered for a selection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			arg := strings.Join(paths, string(wire.RecordSeparator))
			return ctx.withClient(func(client *ipc.Client) error {
				lines, err := client.Request(wire.Join(wire.VerbGetMenuItems, arg), 2*time.Second)
				if err != nil {
					return err
				}
				var rows [][]string
				for _, l := range lines {
					if entry, ok := parseMenuItem(l); ok {
						rows = append(rows, []string{entry.ID, yesNo(entry.Enabled), entry.Label})
					}
				}
				out := cmd.OutOrStdout()
				if len(rows) == 0 {
					fmt.Fprintln(out, "No menu items")
					return nil
				}
				fmt.Fprintln(out, renderTable([]string{"Item", "Enabled", "Label"}, rows, nil))
				return nil
			})
		},
	}
}

func newStringsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "strings [KEY]",
		Short: "Show the labels shell extensions display",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			return ctx.withClient(func(client *ipc.Client) error {
				lines, err := client.Request(wire.Join(wire.VerbGetStrings, key), 2*time.Second)
				if err != nil {
					return err
				}
				var rows [][]string
				for _, l := range lines {
					if k, v, ok := parseString(l); ok {
						rows = append(rows, []string{k, v})
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Key", "Value"}, rows, nil))
				return nil
			})
		},
	}
}

func newWatchCommand(ctx *commandContext) *cobra.Command {
	var dirs []string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print messages pushed by the daemon",
		Long: "Print every message the daemon pushes to this connection. Status pushes are\n" +
			"filtered per connection; pass --dir to express interest in a directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(dirs)
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				for _, p := range paths {
					if err := client.Send(wire.Join(wire.VerbRetrieveFolderStatus, p)); err != nil {
						return err
					}
				}
				return watch(cmd.Context(), client, cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringSliceVar(&dirs, "dir", nil, "Register interest in files under this directory (repeatable)")
	return cmd
}

func watch(ctx context.Context, client *ipc.Client, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	stop := context.AfterFunc(ctx, func() { client.Close() })
	defer stop()
	for {
		line, err := client.ReadLine(0)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(out, "daemon closed the connection")
				return nil
			}
			return err
		}
		fmt.Fprintf(out, "%s %s\n", time.Now().Format("15:04:05"), line)
	}
}

func newDownloadModeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download-mode",
		Short: "Inspect or change per-path download modes",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get PATH",
		Short: "Show the download mode of a path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := absPaths(args)
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				mode, err := getDownloadMode(client, paths[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", paths[0], mode)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set PATH online|offline",
		Short: "Change the download mode of a path",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := wire.ParseDownloadMode(args[1])
			if err != nil {
				return err
			}
			paths, err := absPaths(args[:1])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if err := client.Send(wire.Join(wire.VerbSetDownloadMode, paths[0]+"|"+mode.String())); err != nil {
					return err
				}
				got, err := getDownloadMode(client, paths[0])
				if err != nil {
					return err
				}
				if got == wire.CodeNOP {
					return fmt.Errorf("%s is not inside a sync folder", paths[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", paths[0], got)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list [FOLDER]",
		Short: "List paths with an explicit download mode",
		Long:  "Reads pinned download modes straight from the journal database. Descendants of a listed path inherit its mode.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := journal.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var rows [][]string
			for _, folder := range cfg.Folders {
				if len(args) == 1 && folder.Alias != args[0] {
					continue
				}
				pinned, err := store.SyncModePaths(cmd.Context(), folder.Alias)
				if err != nil {
					return err
				}
				for _, p := range pinned {
					rows = append(rows, []string{folder.Alias, path.Join(folder.LocalPath, p.Path), p.Mode.String()})
				}
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No pinned download modes; everything is online only.")
				return nil
			}
			fmt.Fprintln(out, renderTable([]string{"Folder", "Path", "Mode"}, rows, nil))
			return nil
		},
	})
	return cmd
}

func getDownloadMode(client *ipc.Client, path string) (string, error) {
	lines, err := client.Request(wire.Join(wire.VerbGetDownloadMode, path), defaultQuiet)
	if err != nil {
		return "", err
	}
	for _, l := range lines {
		if mode, ok := parseStatusReply(l, wire.VerbGetDownloadMode); ok {
			return mode, nil
		}
	}
	return "", errors.New("daemon did not report a download mode")
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
