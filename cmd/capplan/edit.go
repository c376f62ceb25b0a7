package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/capplan/internal/calendar"
	"github.com/christopherklint97/capplan/internal/capacity"
	"github.com/christopherklint97/capplan/internal/schedule"
)

var personCmd = &cobra.Command{
	Use:   "person",
	Short: "Manage team members",
}

var personAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a person",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		var added schedule.Person
		_, err := edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			var out schedule.Schedule
			out, added = schedule.AddPerson(s, name)
			return out, nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (id %d)\n", added.Name, added.ID)
		return nil
	},
}

var personRenameCmd = &cobra.Command{
	Use:   "rename <person-id> <name>",
	Short: "Rename a person",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("person", args[0])
		if err != nil {
			return err
		}
		_, err = edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			return schedule.RenamePerson(s, id, args[1])
		})
		return err
	},
}

var personRmCmd = &cobra.Command{
	Use:   "rm <person-id>",
	Short: "Remove a person with their holidays and duty weeks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("person", args[0])
		if err != nil {
			return err
		}
		_, err = edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			return schedule.DeletePerson(s, id)
		})
		return err
	},
}

var holidayCmd = &cobra.Command{
	Use:   "holiday",
	Short: "Manage holidays",
}

var holidaySetCmd = &cobra.Command{
	Use:   "set <person-id> <week-id> <days>",
	Short: "Set a person's holiday days in a week",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("person", args[0])
		if err != nil {
			return err
		}
		days, err := parseDays(args[2])
		if err != nil {
			return err
		}
		_, err = edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			return schedule.SetHoliday(s, id, args[1], days)
		})
		return err
	},
}

var holidayImportCmd = &cobra.Command{
	Use:   "import <file|url>",
	Short: "Import holidays from an iCalendar feed of team absences",
	Long:  "Events whose summary names a team member count as holiday for every weekday they touch.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		replace, _ := cmd.Flags().GetBool("replace")
		var imported []calendar.Absence
		_, err := edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			from, to, err := calendar.Window(s)
			if err != nil {
				return s, fmt.Errorf("planning period start date: %w", err)
			}
			events, err := calendar.Fetch(cmd.Context(), args[0], from, to)
			if err != nil {
				return s, err
			}
			imported = calendar.Absences(s, events)
			return calendar.Apply(s, imported, replace)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d holiday entries\n", len(imported))
		return nil
	},
}

var weekCmd = &cobra.Command{
	Use:   "week <week-id> <working-days>",
	Short: "Set the working days of a week",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid working days %q", args[1])
		}
		_, err = edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			return schedule.SetWorkingDays(s, args[0], days)
		})
		return err
	},
}

var frCmd = &cobra.Command{
	Use:   "fr",
	Short: "Manage first-responder duty",
}

var frSetCmd = &cobra.Command{
	Use:   "set <week-id> <person-id|none>",
	Short: "Put a person on duty for a week",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := 0
		if args[1] != "none" {
			var err error
			if id, err = parseID("person", args[1]); err != nil {
				return err
			}
		}
		force, _ := cmd.Flags().GetBool("force")
		_, err := edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			if force {
				return schedule.SetFirstResponder(s, args[0], id)
			}
			return capacity.AssignFirstResponder(s, args[0], id)
		})
		return err
	},
}

var frDaysCmd = &cobra.Command{
	Use:   "days <days>",
	Short: "Set the days first-responder duty takes each week",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days, err := parseDays(args[0])
		if err != nil {
			return err
		}
		_, err = edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			return schedule.SetFRCapacityDays(s, days)
		})
		return err
	},
}

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		var added schedule.Project
		_, err := edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			var out schedule.Schedule
			out, added = schedule.AddProject(s, name)
			return out, nil
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (id %d, %s to %s)\n", added.Name, added.ID, added.StartWeek, added.EndWeek)
		return nil
	},
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <project-id>",
	Short: "Change a project's name, range or notes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("project", args[0])
		if err != nil {
			return err
		}
		var patch schedule.ProjectPatch
		patch.Name = changedString(cmd, "name")
		patch.StartWeek = changedString(cmd, "start")
		patch.EndWeek = changedString(cmd, "end")
		patch.Notes = changedString(cmd, "notes")
		_, err = edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			return schedule.UpdateProject(s, id, patch)
		})
		return err
	},
}

var projectRmCmd = &cobra.Command{
	Use:   "rm <project-id>",
	Short: "Remove a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("project", args[0])
		if err != nil {
			return err
		}
		_, err = edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			return schedule.DeleteProject(s, id)
		})
		return err
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Manage project assignments",
}

var assignAddCmd = &cobra.Command{
	Use:   "add <project-id> <person-id>",
	Short: "Assign a person to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, personID, err := assignmentArgs(args)
		if err != nil {
			return err
		}
		patch := assignmentPatch(cmd)
		_, err = edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			out, _, err := schedule.AddAssignment(s, projectID, personID)
			if err != nil {
				return s, err
			}
			return schedule.UpdateAssignment(out, projectID, personID, patch)
		})
		return err
	},
}

var assignUpdateCmd = &cobra.Command{
	Use:   "update <project-id> <person-id>",
	Short: "Change an assignment's days or range",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, personID, err := assignmentArgs(args)
		if err != nil {
			return err
		}
		patch := assignmentPatch(cmd)
		_, err = edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			return schedule.UpdateAssignment(s, projectID, personID, patch)
		})
		return err
	},
}

var assignRmCmd = &cobra.Command{
	Use:   "rm <project-id> <person-id>",
	Short: "Remove an assignment",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, personID, err := assignmentArgs(args)
		if err != nil {
			return err
		}
		_, err = edit(cmd, func(s schedule.Schedule) (schedule.Schedule, error) {
			return schedule.RemoveAssignment(s, projectID, personID)
		})
		return err
	},
}

func init() {
	holidayImportCmd.Flags().Bool("replace", false, "Overwrite existing entries instead of keeping the larger value")
	frSetCmd.Flags().Bool("force", false, "Skip the availability check")

	projectUpdateCmd.Flags().String("name", "", "Project name")
	projectUpdateCmd.Flags().String("start", "", "Start week id")
	projectUpdateCmd.Flags().String("end", "", "End week id")
	projectUpdateCmd.Flags().String("notes", "", "Free-form notes")

	for _, c := range []*cobra.Command{assignAddCmd, assignUpdateCmd} {
		c.Flags().Float64("days", 0, "Days per week")
		c.Flags().String("start", "", "Start week id")
		c.Flags().String("end", "", "End week id")
	}

	personCmd.AddCommand(personAddCmd, personRenameCmd, personRmCmd)
	holidayCmd.AddCommand(holidaySetCmd, holidayImportCmd)
	frCmd.AddCommand(frSetCmd, frDaysCmd)
	projectCmd.AddCommand(projectAddCmd, projectUpdateCmd, projectRmCmd)
	assignCmd.AddCommand(assignAddCmd, assignUpdateCmd, assignRmCmd)
	rootCmd.AddCommand(personCmd, holidayCmd, weekCmd, frCmd, projectCmd, assignCmd)
}

// changedString returns the flag value only if it was set.
func changedString(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func assignmentPatch(cmd *cobra.Command) schedule.AssignmentPatch {
	var p schedule.AssignmentPatch
	if cmd.Flags().Changed("days") {
		d, _ := cmd.Flags().GetFloat64("days")
		p.DaysPerWeek = &d
	}
	p.StartWeek = changedString(cmd, "start")
	p.EndWeek = changedString(cmd, "end")
	return p
}

func assignmentArgs(args []string) (int, int, error) {
	projectID, err := parseID("project", args[0])
	if err != nil {
		return 0, 0, err
	}
	personID, err := parseID("person", args[1])
	if err != nil {
		return 0, 0, err
	}
	return projectID, personID, nil
}
