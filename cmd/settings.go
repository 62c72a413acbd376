package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/cadence/internal/session"
)

// settingSetters maps settings keys to parsers that apply a value.
var settingSetters = map[string]func(*session.Settings, string) error{
	"spacedRepetition.baseInterval": intSetter(func(s *session.Settings) *int { return &s.SpacedRepetition.BaseInterval }),
	"spacedRepetition.minInterval":  intSetter(func(s *session.Settings) *int { return &s.SpacedRepetition.MinInterval }),
	"spacedRepetition.maxInterval":  intSetter(func(s *session.Settings) *int { return &s.SpacedRepetition.MaxInterval }),
	"spacedRepetition.easeFactor": func(s *session.Settings, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		s.SpacedRepetition.EaseFactor = f
		return nil
	},
	"interleaving.enabled": func(s *session.Settings, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		s.Interleaving.Enabled = b
		return nil
	},
	"interleaving.contextSwitchFrequency": intSetter(func(s *session.Settings) *int { return &s.Interleaving.ContextSwitchFrequency }),
	"interleaving.minTopicsToInterleave":  intSetter(func(s *session.Settings) *int { return &s.Interleaving.MinTopicsToInterleave }),
	"interleaving.shuffleIntensity":       intSetter(func(s *session.Settings) *int { return &s.Interleaving.ShuffleIntensity }),
}

func intSetter(field func(*session.Settings) *int) func(*session.Settings, string) error {
	return func(s *session.Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*field(s) = n
		return nil
	}
}

func settingKeys() []string {
	keys := make([]string, 0, len(settingSetters))
	for k := range settingSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newSettingsCmd(a *app) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change scheduling settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			return writeSettings(cmd, a.sessions.Settings(), format)
		},
	}
	showCmd.Flags().String("format", "yaml", "Output format: yaml or json")

	setCmd := &cobra.Command{
		Use:   "set <key=value>...",
		Short: "Change one or more settings",
		Long:  "Change one or more settings. Known keys:\n  " + strings.Join(settingKeys(), "\n  "),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}

			next := a.sessions.Settings()
			for _, arg := range args {
				key, value, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("invalid assignment %q, want key=value", arg)
				}
				set, known := settingSetters[strings.TrimSpace(key)]
				if !known {
					return fmt.Errorf("unknown setting %q", key)
				}
				if err := set(&next, strings.TrimSpace(value)); err != nil {
					return fmt.Errorf("setting %s: %w", key, err)
				}
			}

			s := a.sessions.UpdateSettings(ctx, func(cur *session.Settings) { *cur = next })
			return writeSettings(cmd, s, "yaml")
		},
	}

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			s := a.sessions.ResetSettings(ctx)
			return writeSettings(cmd, s, "yaml")
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load settings from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.services(ctx); err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read settings: %w", err)
			}

			// Fields missing from the file keep their current values.
			next := a.sessions.Settings()
			if err := yaml.Unmarshal(raw, &next); err != nil {
				return fmt.Errorf("parse settings: %w", err)
			}
			s := a.sessions.UpdateSettings(ctx, func(cur *session.Settings) { *cur = next })
			return writeSettings(cmd, s, "yaml")
		},
	}

	settingsCmd.AddCommand(showCmd, setCmd, resetCmd, importCmd)
	return settingsCmd
}

func writeSettings(cmd *cobra.Command, s session.Settings, format string) error {
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml", "yml", "":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q, want yaml or json", format)
	}
}
