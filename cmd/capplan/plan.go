package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
	"github.com/tj/go-naturaldate"

	"github.com/christopherklint97/capplan/internal/capacity"
	"github.com/christopherklint97/capplan/internal/config"
	"github.com/christopherklint97/capplan/internal/export"
	"github.com/christopherklint97/capplan/internal/report"
	"github.com/christopherklint97/capplan/internal/schedule"
	"github.com/christopherklint97/capplan/internal/share"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a schedule and make it active",
	RunE:  runInit,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your schedules",
	RunE:  runList,
}

var useCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a schedule the active one",
	Args:  cobra.ExactArgs(1),
	RunE:  runUse,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the team grid, summary and projects",
	RunE:  runShow,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show totals over a week range",
	RunE:  runStats,
}

var resizeCmd = &cobra.Command{
	Use:   "resize <weeks>",
	Short: "Grow or shrink the planning period",
	Args:  cobra.ExactArgs(1),
	RunE:  runResize,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of a schedule document",
	RunE:  runSchema,
}

func init() {
	initCmd.Flags().String("name", "", "Schedule name")
	initCmd.Flags().String("start", "next monday", `First day of the plan, e.g. "2025-11-24" or "next monday"`)
	initCmd.Flags().Int("weeks", 0, "Number of weeks (default from config)")
	initCmd.Flags().Bool("demo", false, "Seed with a demo team and project")

	statsCmd.Flags().String("start", "", "First week id (default: first week)")
	statsCmd.Flags().String("end", "", "Last week id (default: last week)")
	statsCmd.Flags().Bool("json", false, "Print as JSON")

	resizeCmd.Flags().Bool("strict", false, "Clamp project and assignment ranges to the remaining weeks")

	rootCmd.AddCommand(initCmd, listCmd, useCmd, showCmd, statsCmd, resizeCmd, schemaCmd)
}

// parseStart accepts an ISO date or a natural-language one relative to now.
func parseStart(arg string, now time.Time) (string, error) {
	if t, err := time.Parse(schedule.DateLayout, arg); err == nil {
		return t.Format(schedule.DateLayout), nil
	}
	t, err := naturaldate.Parse(arg, now, naturaldate.WithDirection(naturaldate.Future))
	if err != nil {
		return "", fmt.Errorf("parsing start date %q: %w", arg, err)
	}
	return t.Format(schedule.DateLayout), nil
}

func runInit(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	startArg, _ := cmd.Flags().GetString("start")
	weeks, _ := cmd.Flags().GetInt("weeks")
	demo, _ := cmd.Flags().GetBool("demo")

	a, err := openApp("cli")
	if err != nil {
		return err
	}
	defer a.Close()

	start, err := parseStart(startArg, time.Now())
	if err != nil {
		return err
	}
	s := newSchedule(a.cfg.Planning, name, start, weeks, demo)

	rec, err := a.db.Create(cmd.Context(), a.owner(), s)
	if err != nil {
		return fmt.Errorf("creating schedule: %w", err)
	}
	if err := a.db.SetState(activeKey, rec.ID); err != nil {
		return fmt.Errorf("setting active schedule: %w", err)
	}
	a.logger.Info().Str("schedule_id", rec.ID).Int("weeks", len(rec.Weeks)).Msg("schedule created")
	fmt.Printf("Created schedule %s (%d weeks from %s)\n", rec.ID, len(rec.Weeks), rec.PlanningPeriod.StartDate)
	return nil
}

// newSchedule builds the schedule init stores. The demo is fitted to the
// requested weeks and the planning config like a blank schedule is.
func newSchedule(cfg config.PlanningConfig, name, start string, weeks int, demo bool) schedule.Schedule {
	if weeks <= 0 {
		weeks = cfg.DefaultWeeks
	}
	opts := schedule.ResizeOptions{WorkingDays: cfg.WorkingDays}

	var s schedule.Schedule
	if demo {
		s = schedule.Demo(start)
		s.FRCapacityDays = cfg.FRCapacityDays
		opts.Strict = true
	} else {
		s = schedule.New(name, start, 0, cfg.FRCapacityDays)
	}
	s = schedule.ResizeWith(s, weeks, opts)
	if name != "" {
		s.Name = name
	}
	return s
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp("cli")
	if err != nil {
		return err
	}
	defer a.Close()

	recs, err := a.db.List(cmd.Context(), a.owner())
	if err != nil {
		return fmt.Errorf("listing schedules: %w", err)
	}
	if len(recs) == 0 {
		fmt.Println("No schedules yet. Run 'capplan init' to create one.")
		return nil
	}
	activeID, _ := a.db.GetState(activeKey)
	for _, r := range recs {
		marker := " "
		if r.ID == activeID {
			marker = "*"
		}
		name := r.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%s %s  %-24s %2d weeks  updated %s\n",
			marker, r.ID, name, len(r.Weeks), r.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func runUse(cmd *cobra.Command, args []string) error {
	a, err := openApp("cli")
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.db.Get(cmd.Context(), a.owner(), args[0])
	if err != nil {
		return fmt.Errorf("loading schedule %s: %w", args[0], err)
	}
	if err := a.db.SetState(activeKey, rec.ID); err != nil {
		return fmt.Errorf("setting active schedule: %w", err)
	}
	fmt.Printf("Active schedule is now %s\n", rec.ID)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp("cli")
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.active(cmd)
	if err != nil {
		return err
	}
	fmt.Println(report.Full(rec.Schedule))
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	asJSON, _ := cmd.Flags().GetBool("json")

	a, err := openApp("cli")
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.active(cmd)
	if err != nil {
		return err
	}
	s := rec.Schedule
	if n := len(s.Weeks); n > 0 {
		if start == "" {
			start = s.Weeks[0].ID
		}
		if end == "" {
			end = s.Weeks[n-1].ID
		}
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(capacity.RangeStats(s, start, end))
	}
	fmt.Println(report.Summary(s, start, end))
	fmt.Printf("Team average availability in %s: %s days\n", start, capacity.FormatDays(capacity.TeamAverageAvailability(s, start)))
	return nil
}

func runResize(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return fmt.Errorf("invalid week count %q", args[0])
	}

	a, err := openApp("cli")
	if err != nil {
		return err
	}
	defer a.Close()

	strict := a.cfg.Planning.StrictResize
	if cmd.Flags().Changed("strict") {
		strict, _ = cmd.Flags().GetBool("strict")
	}

	rec, err := a.active(cmd)
	if err != nil {
		return err
	}
	updated, err := a.db.Resize(cmd.Context(), a.owner(), rec.ID, n, schedule.ResizeOptions{
		WorkingDays: a.cfg.Planning.WorkingDays,
		Strict:      strict,
	})
	if err != nil {
		return fmt.Errorf("saving schedule: %w", err)
	}
	a.logger.Info().Str("schedule_id", rec.ID).
		Int("from", len(rec.Weeks)).Int("to", len(updated.Weeks)).Bool("strict", strict).
		Msg("schedule resized")
	fmt.Printf("Schedule now has %d weeks\n", len(updated.Weeks))
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	r := &jsonschema.Reflector{DoNotReference: true}
	sch := r.Reflect(&schedule.Schedule{})
	sch.Title = "capplan schedule"
	out, err := json.MarshalIndent(sch, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

var exportCmd = &cobra.Command{
	Use:       "export <csv|projects|json|ics>",
	Short:     "Export the active schedule",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"csv", "projects", "json", "ics"},
	RunE:      runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Overlay a JSON export onto the active schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print a read-only share link for the active schedule",
	RunE:  runShare,
}

var viewCmd = &cobra.Command{
	Use:   "view <link>",
	Short: "Render a shared schedule without storing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runView,
}

var importLinkCmd = &cobra.Command{
	Use:   "import-link <link>",
	Short: "Store a shared schedule as a new schedule",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportLink,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(exportCmd, importCmd, shareCmd, viewCmd, importLinkCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	a, err := openApp("cli")
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.active(cmd)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	switch args[0] {
	case "csv":
		err = export.WriteTeamCSV(w, rec.Schedule)
	case "projects":
		err = export.WriteProjectsCSV(w, rec.Schedule)
	case "json":
		err = export.WriteJSON(w, rec.Schedule, time.Now())
	case "ics":
		err = export.WriteCalendar(w, rec.Schedule, time.Now())
	default:
		return fmt.Errorf("unknown export format %q (want csv, projects, json or ics)", args[0])
	}
	if err != nil {
		return fmt.Errorf("exporting %s: %w", args[0], err)
	}
	if output != "" {
		fmt.Printf("Wrote %s\n", output)
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	rec, err := edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
		return export.ImportJSON(s, f)
	})
	if err != nil {
		return err
	}
	fmt.Printf("Imported %s into %s\n", args[0], rec.ID)
	return nil
}

func runShare(cmd *cobra.Command, args []string) error {
	a, err := openApp("cli")
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.active(cmd)
	if err != nil {
		return err
	}
	link, err := share.Link(a.cfg.Share.BaseURL, rec.Schedule)
	if err != nil {
		return fmt.Errorf("building share link: %w", err)
	}
	fmt.Println(link)
	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	s, err := share.FromLink(args[0])
	if err != nil {
		return err
	}
	fmt.Println(report.Full(s))
	return nil
}

func runImportLink(cmd *cobra.Command, args []string) error {
	s, err := share.FromLink(args[0])
	if err != nil {
		return err
	}

	a, err := openApp("cli")
	if err != nil {
		return err
	}
	defer a.Close()

	rec, err := a.db.Create(cmd.Context(), a.owner(), s)
	if err != nil {
		return fmt.Errorf("creating schedule: %w", err)
	}
	if err := a.db.SetState(activeKey, rec.ID); err != nil {
		return fmt.Errorf("setting active schedule: %w", err)
	}
	fmt.Printf("Created schedule %s from shared link\n", rec.ID)
	return nil
}
