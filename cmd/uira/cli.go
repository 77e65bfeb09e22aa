package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/uira-ai/uira"
	"github.com/uira-ai/uira/autopilot"
	"github.com/uira-ai/uira/notepad"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	return &cli.App{
		Name:    "uira",
		Usage:   "Hook pipeline engine for agent-loop drivers",
		Version: Version,
		Commands: []*cli.Command{
			hookCmd(),
			autopilotCmd(),
			notepadCmd(),
		},
	}
}

// dirFlag is shared by every command that operates on a working directory.
func dirFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "dir",
		Aliases: []string{"d"},
		Usage:   "Working directory (defaults to the current directory)",
	}
}

func resolveDir(c *cli.Context) (string, error) {
	if dir := c.String("dir"); dir != "" {
		return dir, nil
	}
	return os.Getwd()
}

func loadConfig(dir string) *uira.AppConfig {
	loader, err := uira.NewConfigLoaderAt(dir)
	if err != nil {
		return uira.NewAppConfig()
	}
	cfg, err := loader.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		return uira.NewAppConfig()
	}
	return cfg
}

// hookCmd reads one hook payload from stdin, runs it through the pipeline,
// and writes the outcome to stdout. Exit code 0 means continue, 2 means
// the outcome blocks.
func hookCmd() *cli.Command {
	return &cli.Command{
		Name:  "hook",
		Usage: "Process one hook payload from stdin",
		Flags: []cli.Flag{
			dirFlag(),
			&cli.DurationFlag{Name: "timeout", Value: 60 * time.Second, Usage: "Dispatch timeout"},
		},
		Action: func(c *cli.Context) error {
			dir, err := resolveDir(c)
			if err != nil {
				return err
			}

			api := uira.NewBuilder().
				WithConfig(loadConfig(dir)).
				WithWorkingDir(dir).
				WithTimeout(c.Duration("timeout")).
				Build()

			code, err := api.ProcessStdinWithExitCode(context.Background())
			if err != nil {
				return err
			}
			if code != 0 {
				return cli.Exit("", code)
			}
			return nil
		},
	}
}

// autopilotCmd groups the run lifecycle operations.
func autopilotCmd() *cli.Command {
	return &cli.Command{
		Name:  "autopilot",
		Usage: "Manage the autopilot run for a directory",
		Subcommands: []*cli.Command{
			{
				Name:      "start",
				Usage:     "Start a run (task from arguments or stdin)",
				ArgsUsage: "[task]",
				Flags: []cli.Flag{
					dirFlag(),
					&cli.IntFlag{Name: "max-iterations", Usage: "Safety-valve iteration limit"},
					&cli.StringFlag{Name: "session", Usage: "Bind the run to one session"},
					&cli.StringFlag{Name: "plan", Usage: "Path where the plan will be written"},
				},
				Action: func(c *cli.Context) error {
					dir, err := resolveDir(c)
					if err != nil {
						return err
					}

					task := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
					if task == "" {
						task, err = readStdin()
						if err != nil {
							return err
						}
					}

					opts := autopilot.Options{
						MaxIterations: c.Int("max-iterations"),
						SessionID:     c.String("session"),
						PlanPath:      c.String("plan"),
					}
					if opts.MaxIterations <= 0 {
						cfg := loadConfig(dir)
						if cfg.Autopilot != nil && cfg.Autopilot.MaxIterations != nil {
							opts.MaxIterations = *cfg.Autopilot.MaxIterations
						}
					}

					ctrl := autopilot.New(autopilot.NewFileStore())
					s, err := ctrl.Start(dir, task, opts)
					if err != nil {
						return err
					}
					printState(s)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "Show the current run state",
				Flags: []cli.Flag{dirFlag()},
				Action: func(c *cli.Context) error {
					dir, err := resolveDir(c)
					if err != nil {
						return err
					}
					s, err := autopilot.New(autopilot.NewFileStore()).Status(dir)
					if err != nil {
						return err
					}
					printState(s)
					return nil
				},
			},
			{
				Name:  "cancel",
				Usage: "Cancel the current run, keeping its progress",
				Flags: []cli.Flag{dirFlag()},
				Action: func(c *cli.Context) error {
					dir, err := resolveDir(c)
					if err != nil {
						return err
					}
					s, err := autopilot.New(autopilot.NewFileStore()).Cancel(dir)
					if err != nil {
						return err
					}
					printState(s)
					return nil
				},
			},
			{
				Name:  "clear",
				Usage: "Remove the state document entirely",
				Flags: []cli.Flag{dirFlag()},
				Action: func(c *cli.Context) error {
					dir, err := resolveDir(c)
					if err != nil {
						return err
					}
					return autopilot.Clear(dir)
				},
			},
		},
	}
}

// notepadCmd groups the notepad document operations.
func notepadCmd() *cli.Command {
	sectionFlag := &cli.StringFlag{
		Name:    "section",
		Aliases: []string{"s"},
		Value:   string(notepad.SectionPriority),
		Usage:   "Section name (Priority Context, Working Memory, MANUAL)",
	}

	pad := func() *notepad.Notepad { return notepad.NewNotepad(notepad.NewFileStore()) }

	return &cli.Command{
		Name:  "notepad",
		Usage: "Manage the notepad document for a directory",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print a section's content",
				Flags: []cli.Flag{dirFlag(), sectionFlag},
				Action: func(c *cli.Context) error {
					dir, err := resolveDir(c)
					if err != nil {
						return err
					}
					content, err := pad().ReadSection(dir, notepad.Section(c.String("section")))
					if err != nil {
						return err
					}
					fmt.Println(content)
					return nil
				},
			},
			{
				Name:      "write",
				Usage:     "Replace a section's content (from arguments or stdin)",
				ArgsUsage: "[content]",
				Flags:     []cli.Flag{dirFlag(), sectionFlag},
				Action: func(c *cli.Context) error {
					dir, err := resolveDir(c)
					if err != nil {
						return err
					}
					content := strings.Join(c.Args().Slice(), " ")
					if content == "" {
						content, err = readStdin()
						if err != nil {
							return err
						}
					}
					return pad().WriteSection(dir, notepad.Section(c.String("section")), content)
				},
			},
			{
				Name:      "append",
				Usage:     "Add a timestamped Working Memory entry",
				ArgsUsage: "[content]",
				Flags:     []cli.Flag{dirFlag()},
				Action: func(c *cli.Context) error {
					dir, err := resolveDir(c)
					if err != nil {
						return err
					}
					content := strings.Join(c.Args().Slice(), " ")
					if content == "" {
						content, err = readStdin()
						if err != nil {
							return err
						}
					}
					return pad().Append(dir, content)
				},
			},
			{
				Name:  "prune",
				Usage: "Drop Working Memory entries older than the retention window",
				Flags: []cli.Flag{
					dirFlag(),
					&cli.DurationFlag{Name: "max-age", Value: notepad.DefaultMaxAge, Usage: "Retention window"},
				},
				Action: func(c *cli.Context) error {
					dir, err := resolveDir(c)
					if err != nil {
						return err
					}
					removed, err := pad().Prune(dir, c.Duration("max-age"))
					if err != nil {
						return err
					}
					fmt.Printf("removed %d entries\n", removed)
					return nil
				},
			},
			{
				Name:  "fmt",
				Usage: "Lint the document and optionally rewrite it formatted",
				Flags: []cli.Flag{
					dirFlag(),
					&cli.BoolFlag{Name: "write", Aliases: []string{"w"}, Usage: "Rewrite the document with canonical formatting"},
				},
				Action: func(c *cli.Context) error {
					dir, err := resolveDir(c)
					if err != nil {
						return err
					}
					data, err := os.ReadFile(notepad.DocumentPath(dir))
					if err != nil {
						return err
					}
					result, err := notepad.NewLinter().Lint(data)
					if err != nil {
						return err
					}
					for _, issue := range result.Issues {
						fmt.Printf("%d: %s: %s (%s)\n", issue.Line, issue.Severity, issue.Message, issue.Rule)
					}
					if c.Bool("write") && len(result.Formatted) > 0 {
						if err := notepad.NewFileStore().Save(dir, string(result.Formatted)); err != nil {
							return err
						}
					}
					if !result.Success {
						return cli.Exit("", 1)
					}
					return nil
				},
			},
		},
	}
}

func printState(s *autopilot.State) {
	fmt.Printf("phase: %s\nactive: %t\niteration: %d/%d\ntask: %s\n",
		s.Phase, s.Active, s.Iteration, s.MaxIterations, s.OriginalTask)
	if s.PlanPath != "" {
		fmt.Printf("plan: %s\n", s.PlanPath)
	}
	if s.LastError != "" {
		fmt.Printf("last error: %s\n", s.LastError)
	}
}

func readStdin() (string, error) {
	var sb strings.Builder
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}
