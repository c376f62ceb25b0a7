package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/christopherklint97/capplan/internal/config"
	"github.com/christopherklint97/capplan/internal/logging"
	"github.com/christopherklint97/capplan/internal/schedule"
	"github.com/christopherklint97/capplan/internal/store"
)

// activeKey is the state entry holding the id of the schedule commands act on.
const activeKey = "active_schedule"

var rootCmd = &cobra.Command{
	Use:           "capplan",
	Short:         "Team capacity planner",
	Long:          "capplan plans team capacity week by week: availability after holidays, first-responder duty, and project allocations.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	RunE:  runConfig,
}

func init() {
	rootCmd.PersistentFlags().String("schedule", "", "Schedule id to act on instead of the active one")
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// app bundles what most commands need.
type app struct {
	cfg    *config.Config
	db     *store.DB
	logger zerolog.Logger
}

func openApp(component string) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(os.Stderr, component, cfg.Log.Level)

	db, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &app{cfg: cfg, db: db, logger: logger}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

func (a *app) owner() string {
	return a.cfg.User.ID
}

// active loads the schedule named by --schedule, or the active one.
func (a *app) active(cmd *cobra.Command) (*store.Record, error) {
	id, _ := cmd.Flags().GetString("schedule")
	if id == "" {
		var err error
		id, err = a.db.GetState(activeKey)
		if err != nil {
			return nil, fmt.Errorf("reading active schedule: %w", err)
		}
	}
	if id == "" {
		return nil, errors.New("no active schedule; run 'capplan init' or 'capplan use <id>'")
	}
	rec, err := a.db.Get(cmd.Context(), a.owner(), id)
	if err != nil {
		return nil, fmt.Errorf("loading schedule %s: %w", id, err)
	}
	return rec, nil
}

// edit applies fn to the active schedule and stores the result.
func edit(cmd *cobra.Command, fn func(s schedule.Schedule) (schedule.Schedule, error)) (*store.Record, error) {
	a, err := openApp("cli")
	if err != nil {
		return nil, err
	}
	defer a.Close()

	rec, err := a.active(cmd)
	if err != nil {
		return nil, err
	}
	next, err := fn(rec.Schedule)
	if err != nil {
		return nil, err
	}
	updated, err := a.db.Update(cmd.Context(), a.owner(), rec.ID, next)
	if err != nil {
		return nil, fmt.Errorf("saving schedule: %w", err)
	}
	return updated, nil
}

func parseID(kind, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, arg)
	}
	return id, nil
}

func parseDays(arg string) (float64, error) {
	d, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid day count %q", arg)
	}
	return d, nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if err := config.WriteDefault(configPath); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", configPath, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, configPath}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", configPath)
		return nil
	}
	_, err = process.Wait()
	return err
}
