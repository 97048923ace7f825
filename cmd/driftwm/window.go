package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/driftwm/driftwm/internal/ipc"
)

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: driftwm window <subcommand> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Subcommands:")
	fmt.Fprintln(w, "  create [-i] [--title T] [--width W] [--height H] [--category C]")
	fmt.Fprintln(w, "  list [--json]")
	fmt.Fprintln(w, "  info ID")
	fmt.Fprintln(w, "  close ID")
	fmt.Fprintln(w, "  focus ID")
	fmt.Fprintln(w, "  move ID X Y")
	fmt.Fprintln(w, "  resize ID WIDTH HEIGHT")
	fmt.Fprintln(w, "  minimize ID")
	fmt.Fprintln(w, "  maximize ID")
	fmt.Fprintln(w, "  restore ID")
	fmt.Fprintln(w, "  fullscreen ID on|off")
	fmt.Fprintln(w, "  resizable ID on|off")
	fmt.Fprintln(w, "  movable ID on|off")
	fmt.Fprintln(w, "  ontop ID on|off")
	fmt.Fprintln(w, "  show ID")
	fmt.Fprintln(w, "  hide ID")
	fmt.Fprintln(w, "  title ID TITLE")
	fmt.Fprintln(w, "  opacity ID VALUE")
	fmt.Fprintln(w, "  constrain ID [--min-width N] [--min-height N] [--max-width N] [--max-height N]")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "create":
		return runWindowCreate(args[1:])
	case "list":
		return runWindowList(args[1:])
	case "info", "get":
		return runWindowInfo(args[1:])
	case "close":
		return runWindowID("close", args[1:], func(c *ipc.Client, id int) error { return c.CloseWindow(id) })
	case "focus":
		return runWindowID("focus", args[1:], func(c *ipc.Client, id int) error { return c.SetFocus(id) })
	case "move":
		return runWindowMove(args[1:])
	case "resize":
		return runWindowResize(args[1:])
	case "minimize":
		return runWindowID("minimize", args[1:], func(c *ipc.Client, id int) error { return c.MinimizeWindow(id) })
	case "maximize":
		return runWindowID("maximize", args[1:], func(c *ipc.Client, id int) error { return c.MaximizeWindow(id) })
	case "restore":
		return runWindowID("restore", args[1:], func(c *ipc.Client, id int) error { return c.RestoreWindow(id) })
	case "fullscreen":
		return runWindowFlag("fullscreen", args[1:], func(c *ipc.Client, id int, on bool) error {
			return c.SetFullscreen(id, on)
		})
	case "resizable":
		return runWindowFlag("resizable", args[1:], func(c *ipc.Client, id int, on bool) error {
			return c.SetResizable(id, on)
		})
	case "movable":
		return runWindowFlag("movable", args[1:], func(c *ipc.Client, id int, on bool) error {
			return c.SetMovable(id, on)
		})
	case "ontop":
		return runWindowFlag("ontop", args[1:], func(c *ipc.Client, id int, on bool) error {
			return c.SetAlwaysOnTop(id, on)
		})
	case "show":
		return runWindowID("show", args[1:], func(c *ipc.Client, id int) error { return c.ShowWindow(id) })
	case "hide":
		return runWindowID("hide", args[1:], func(c *ipc.Client, id int) error { return c.HideWindow(id) })
	case "title":
		return runWindowTitle(args[1:])
	case "opacity":
		return runWindowOpacity(args[1:])
	case "constrain":
		return runWindowConstrain(args[1:])
	case "help", "-h", "--help":
		printWindowUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown window subcommand: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

func parseWindowID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid window id %q", s)
	}
	return id, nil
}

// runWindowID handles the subcommands whose only argument is a window id.
func runWindowID(name string, args []string, action func(*ipc.Client, int) error) int {
	fs := flag.NewFlagSet("window "+name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: driftwm window %s ID\n", name)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := action(ipc.NewClient(), id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindowCreate(args []string) int {
	fs := flag.NewFlagSet("window create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	interactive := fs.Bool("i", false, "prompt for window parameters")
	title := fs.String("title", "", "window title")
	width := fs.Int("width", 800, "initial width in pixels")
	height := fs.Int("height", 600, "initial height in pixels")
	category := fs.String("category", "normal", "normal, dialog, tooltip, popup or utility")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: driftwm window create [-i] [--title T] [--width W] [--height H] [--category C]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "interactive mode requires a terminal")
			return 2
		}
		if err := promptCreateForm(title, width, height, category); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if *title == "" {
		fmt.Fprintln(os.Stderr, "a title is required")
		fs.Usage()
		return 2
	}

	id, err := ipc.NewClient().CreateWindow(*title, *width, *height, *category)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(id)
	return 0
}

func promptCreateForm(title *string, width, height *int, category *string) error {
	widthStr := strconv.Itoa(*width)
	heightStr := strconv.Itoa(*height)

	validateDim := func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return fmt.Errorf("must be a positive number")
		}
		return nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("Shown in window lists and the session file").
				Value(title).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("title must not be empty")
					}
					return nil
				}),

			huh.NewInput().
				Title("Width").
				Description("Initial width in pixels").
				Value(&widthStr).
				Validate(validateDim),

			huh.NewInput().
				Title("Height").
				Description("Initial height in pixels").
				Value(&heightStr).
				Validate(validateDim),

			huh.NewSelect[string]().
				Title("Category").
				Description("Determines default window capabilities").
				Options(
					huh.NewOption("normal", "normal"),
					huh.NewOption("dialog", "dialog"),
					huh.NewOption("tooltip", "tooltip"),
					huh.NewOption("popup", "popup"),
					huh.NewOption("utility", "utility"),
				).
				Value(category),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	*width, _ = strconv.Atoi(widthStr)
	*height, _ = strconv.Atoi(heightStr)
	return nil
}

func runWindowList(args []string) int {
	fs := flag.NewFlagSet("window list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "emit JSON instead of a table")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: driftwm window list [--json]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	windows, err := ipc.NewClient().ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *asJSON {
		data, err := json.MarshalIndent(windows, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	if len(windows) == 0 {
		fmt.Println("no windows")
		return 0
	}
	fmt.Printf("%-5s %-24s %-11s %-20s %s\n", "ID", "TITLE", "STATE", "GEOMETRY", "FOCUS")
	for _, w := range windows {
		focus := ""
		if w.Focused {
			focus = "*"
		}
		geom := fmt.Sprintf("%dx%d at %d,%d", w.Geometry.Width, w.Geometry.Height, w.Geometry.X, w.Geometry.Y)
		fmt.Printf("%-5d %-24s %-11s %-20s %s\n", w.ID, w.Title, w.State, geom, focus)
	}
	return 0
}

func runWindowInfo(args []string) int {
	fs := flag.NewFlagSet("window info", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: driftwm window info ID")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	info, err := ipc.NewClient().GetWindow(id)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(data))
	return 0
}

func runWindowMove(args []string) int {
	fs := flag.NewFlagSet("window move", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: driftwm window move ID X Y")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	x, errX := strconv.Atoi(fs.Arg(1))
	y, errY := strconv.Atoi(fs.Arg(2))
	if errX != nil || errY != nil {
		fmt.Fprintln(os.Stderr, "X and Y must be integers")
		return 2
	}
	if err := ipc.NewClient().MoveWindow(id, x, y); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindowResize(args []string) int {
	fs := flag.NewFlagSet("window resize", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: driftwm window resize ID WIDTH HEIGHT")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 3 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	w, errW := strconv.Atoi(fs.Arg(1))
	h, errH := strconv.Atoi(fs.Arg(2))
	if errW != nil || errH != nil || w < 1 || h < 1 {
		fmt.Fprintln(os.Stderr, "WIDTH and HEIGHT must be positive integers")
		return 2
	}
	if err := ipc.NewClient().ResizeWindow(id, w, h); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// runWindowFlag handles the subcommands that toggle an on/off flag.
func runWindowFlag(name string, args []string, action func(*ipc.Client, int, bool) error) int {
	fs := flag.NewFlagSet("window "+name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: driftwm window %s ID on|off\n", name)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	var on bool
	switch fs.Arg(1) {
	case "on":
		on = true
	case "off":
		on = false
	default:
		fs.Usage()
		return 2
	}
	if err := action(ipc.NewClient(), id, on); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindowTitle(args []string) int {
	fs := flag.NewFlagSet("window title", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: driftwm window title ID TITLE")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := ipc.NewClient().SetTitle(id, fs.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindowOpacity(args []string) int {
	fs := flag.NewFlagSet("window opacity", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: driftwm window opacity ID VALUE")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "VALUE is between 0.0 (transparent) and 1.0 (opaque).")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	opacity, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		fmt.Fprintln(os.Stderr, "VALUE must be a number")
		return 2
	}
	if err := ipc.NewClient().SetOpacity(id, opacity); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runWindowConstrain(args []string) int {
	fs := flag.NewFlagSet("window constrain", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	minWidth := fs.Int("min-width", 0, "minimum width in pixels")
	minHeight := fs.Int("min-height", 0, "minimum height in pixels")
	maxWidth := fs.Int("max-width", 0, "maximum width in pixels")
	maxHeight := fs.Int("max-height", 0, "maximum height in pixels")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: driftwm window constrain ID [--min-width N --min-height N] [--max-width N --max-height N]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Min and max bounds are set as pairs; give both values of a pair.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	id, err := parseWindowID(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	setMin := *minWidth != 0 || *minHeight != 0
	setMax := *maxWidth != 0 || *maxHeight != 0
	if !setMin && !setMax {
		fs.Usage()
		return 2
	}
	if setMin && (*minWidth < 1 || *minHeight < 1) {
		fmt.Fprintln(os.Stderr, "both --min-width and --min-height are required")
		return 2
	}
	if setMax && (*maxWidth < 1 || *maxHeight < 1) {
		fmt.Fprintln(os.Stderr, "both --max-width and --max-height are required")
		return 2
	}

	client := ipc.NewClient()
	if setMin {
		if err := client.SetMinimumSize(id, *minWidth, *minHeight); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	if setMax {
		if err := client.SetMaximumSize(id, *maxWidth, *maxHeight); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	return 0
}
