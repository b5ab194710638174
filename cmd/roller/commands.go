package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storycraft/roller/internal/config"
	"github.com/storycraft/roller/internal/domain/roll"
	"github.com/storycraft/roller/internal/observability"
	charService "github.com/storycraft/roller/internal/services/character"
	rollService "github.com/storycraft/roller/internal/services/roll"
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "StoryCraft roll engine",
		Long: `Roller evaluates StoryCraft character actions and free-text dice
formulas, spends HP and MP, records every roll in a feed and posts it to a
chat webhook.

Configuration comes from the environment (REDIS_URL, WEBHOOK_URL, LOG_LEVEL,
LOG_FORMAT, HTTP_ADDR, FEED_LIMIT, DICE_SEED); a .env file is read first.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		rollCmd(),
		formulaCmd(),
		buffCmd(),
		importCmd(),
		exportCmd(),
		feedCmd(),
		serveCmd(),
		versionCmd(),
	)
	return cmd
}

// withApp loads configuration, builds the app and closes it after fn
func withApp(ctx context.Context, fn func(*App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	app, err := NewApp(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}
	defer func() { _ = app.Close() }()

	return fn(app)
}

func rollCmd() *cobra.Command {
	var feedID string

	cmd := &cobra.Command{
		Use:   "roll <character-id> <action>",
		Short: "Execute a character action",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(app *App) error {
				out, err := app.provider.RollService.ExecuteAction(cmd.Context(), &rollService.ExecuteActionInput{
					CharacterID: args[0],
					ActionName:  strings.Join(args[1:], " "),
					FeedID:      feedID,
				})
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				printMessage(w, out.Message, out.DispatchError, out.Fallback)
				fmt.Fprintf(w, "HP %d/%d | MP %d/%d\n",
					out.Character.Main.HP.Current, out.Character.Main.HP.Max,
					out.Character.Main.MP.Current, out.Character.Main.MP.Max)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&feedID, "feed", "", "Feed to record the roll in (defaults to the character ID)")
	return cmd
}

func formulaCmd() *cobra.Command {
	var feedID, author string

	cmd := &cobra.Command{
		Use:   "formula <formula>",
		Short: "Roll a free-text formula such as 2d6+3",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(app *App) error {
				out, err := app.provider.RollService.RollFormula(cmd.Context(), &rollService.RollFormulaInput{
					Formula: strings.Join(args, " "),
					FeedID:  feedID,
					Author:  author,
				})
				if err != nil {
					return err
				}
				printMessage(cmd.OutOrStdout(), out.Message, out.DispatchError, out.Fallback)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&feedID, "feed", "table", "Feed to record the roll in")
	cmd.Flags().StringVar(&author, "author", "", "Name shown next to the roll")
	return cmd
}

func buffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buff <character-id> <buff> <on|off>",
		Short: "Activate or deactivate a buff",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var active bool
			switch strings.ToLower(args[2]) {
			case "on", "true":
				active = true
			case "off", "false":
			default:
				return fmt.Errorf("buff state must be on or off, got %q", args[2])
			}

			return withApp(cmd.Context(), func(app *App) error {
				char, err := app.provider.CharacterService.ToggleBuff(cmd.Context(), args[0], args[1], active)
				if err != nil {
					return err
				}
				for _, b := range char.ActiveBuffs() {
					fmt.Fprintf(cmd.OutOrStdout(), "active: %s\n", b.Name)
				}
				return nil
			})
		},
	}
	return cmd
}

func importCmd() *cobra.Command {
	var ownerID, format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a character sheet from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read sheet: %w", err)
			}

			sheetFormat := charService.FormatFromPath(args[0])
			if format != "" {
				if sheetFormat, err = charService.ParseFormat(format); err != nil {
					return err
				}
			}

			return withApp(cmd.Context(), func(app *App) error {
				char, err := app.provider.CharacterService.Import(cmd.Context(), &charService.ImportInput{
					OwnerID: ownerID,
					Data:    data,
					Format:  sheetFormat,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %s (%s): %d actions, %d buffs\n",
					char.Name, char.ID, len(char.Actions), len(char.Buffs))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&ownerID, "owner", "", "Owner to assign, overriding the sheet")
	cmd.Flags().StringVar(&format, "format", "", "json or yaml (defaults to the file extension)")
	return cmd
}

func exportCmd() *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export <character-id>",
		Short: "Export a character sheet as JSON or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheetFormat, err := charService.ParseFormat(format)
			if err != nil {
				return err
			}

			return withApp(cmd.Context(), func(app *App) error {
				data, err := app.provider.CharacterService.Export(cmd.Context(), args[0], sheetFormat)
				if err != nil {
					return err
				}
				if output == "" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				return os.WriteFile(output, data, 0o644)
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (defaults to stdout)")
	return cmd
}

func feedCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "feed <feed-id>",
		Short: "List the newest rolls of a feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(app *App) error {
				entries, err := app.provider.RollService.ListFeed(cmd.Context(), args[0], limit)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				for _, e := range entries {
					who := e.CharacterName
					if who == "" {
						who = "-"
					}
					fmt.Fprintf(w, "%s  %-16s %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), who, oneLine(e.Message))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Entries to show (defaults to FEED_LIMIT)")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}

func printMessage(w io.Writer, msg *roll.Message, dispatchErr error, fallback string) {
	fmt.Fprintln(w, msg.PlainText())
	if dispatchErr != nil {
		fmt.Fprintf(w, "\nwebhook post failed (%v), copy this instead:\n%s\n", dispatchErr, fallback)
	}
}

func oneLine(msg *roll.Message) string {
	if msg == nil {
		return ""
	}
	text := strings.ReplaceAll(msg.DisplayText, "\n", " ")
	return strings.TrimSpace(msg.Title + ": " + text)
}
