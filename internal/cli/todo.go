package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/toodo-app/toodo/internal/daemon/todo"
	"github.com/toodo-app/toodo/internal/models"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List active todos",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a todo and its steps",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a todo (replaces an existing one with the same name)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

var addCmd = &cobra.Command{
	Use:   "add <name> <step...>",
	Short: "Append a step to a todo",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAdd,
}

var doneCmd = &cobra.Command{
	Use:   "done <name> <index>",
	Short: "Mark a step as completed",
	Args:  cobra.ExactArgs(2),
	RunE:  runDone,
}

var rmStepCmd = &cobra.Command{
	Use:   "rm-step <name> <index>",
	Short: "Delete a step (later steps shift down)",
	Args:  cobra.ExactArgs(2),
	RunE:  runRmStep,
}

var deleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a todo",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func runList(cmd *cobra.Command, args []string) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}

	todos, err := mgr.List()
	if err != nil {
		return err
	}

	if len(todos) == 0 {
		fmt.Println("No active todos. Run 'toodo create <name>' to add one.")
		return nil
	}

	for i, t := range todos {
		fmt.Printf("  %s  %s %s\n",
			styleHint.Render(fmt.Sprintf("%2d", i)),
			styleTitle.Render(t.Name),
			progress(t),
		)
		fmt.Printf("      %s\n", styleHint.Render(
			fmt.Sprintf("updated %s ago · expires in %s", ago(t.LastUpdatedAt), until(t.ExpiresAt)),
		))
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}

	t, err := mgr.Get(args[0])
	if err != nil {
		return err
	}
	if t == nil {
		return fmt.Errorf("%w: %s", todo.ErrNotFound, args[0])
	}

	printTodo(t)
	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}

	t, err := mgr.Create(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s Todo '%s' created, expires in %s.\n",
		styleSuccess.Render("✓"), t.Name, until(t.ExpiresAt))
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}

	t, err := mgr.AddStep(args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	fmt.Printf("%s Step %d added to '%s'.\n", styleSuccess.Render("✓"), len(t.Steps)-1, t.Name)
	return nil
}

func runDone(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[1])
	if err != nil {
		return err
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}

	t, err := mgr.CompleteStep(args[0], index)
	if err != nil {
		return err
	}

	fmt.Printf("%s Step %d completed in '%s' %s.\n", styleSuccess.Render("✓"), index, t.Name, progress(t))
	return nil
}

func runRmStep(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[1])
	if err != nil {
		return err
	}

	mgr, err := newManager()
	if err != nil {
		return err
	}

	t, err := mgr.DeleteStep(args[0], index)
	if err != nil {
		return err
	}

	fmt.Printf("%s Step %d deleted from '%s'.\n", styleSuccess.Render("✓"), index, t.Name)
	return nil
}

func runDelete(cmd *cobra.Command, args []string) error {
	mgr, err := newManager()
	if err != nil {
		return err
	}

	if err := mgr.Delete(args[0]); err != nil {
		return err
	}

	fmt.Printf("%s Todo '%s' deleted.\n", styleSuccess.Render("✓"), args[0])
	return nil
}

func printTodo(t *models.Todo) {
	fmt.Printf("%s %s\n", styleTitle.Render(t.Name), progress(t))
	fmt.Printf("  %s %s\n", styleLabel.Render("Created:"), styleValue.Render(t.CreatedAt.Local().Format(time.DateTime)))
	fmt.Printf("  %s %s\n", styleLabel.Render("Updated:"), styleValue.Render(t.LastUpdatedAt.Local().Format(time.DateTime)))
	fmt.Printf("  %s %s\n", styleLabel.Render("Expires:"), styleValue.Render(t.ExpiresAt.Local().Format(time.DateTime)))
	fmt.Println()

	if len(t.Steps) == 0 {
		fmt.Println(styleHint.Render("  (no steps yet)"))
		return
	}
	for i, s := range t.Steps {
		badge := badgeOpen.Render("[ ]")
		if s.Completed {
			badge = badgeDone.Render("[x]")
		}
		fmt.Printf("  %s %s %s\n", styleHint.Render(fmt.Sprintf("%2d.", i)), badge, s.Description)
	}
}

func progress(t *models.Todo) string {
	p := fmt.Sprintf("[%d/%d]", t.CompletedCount(), len(t.Steps))
	if len(t.Steps) > 0 && t.CompletedCount() == len(t.Steps) {
		return badgeDone.Render(p)
	}
	return styleHint.Render(p)
}

func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid step index: %s", s)
	}
	return index, nil
}

func ago(t time.Time) string {
	return time.Since(t).Truncate(time.Second).String()
}

func until(t time.Time) string {
	d := time.Until(t).Truncate(time.Second)
	if d < 0 {
		return "0s"
	}
	return d.String()
}
