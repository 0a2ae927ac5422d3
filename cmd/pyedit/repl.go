package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"pyedit/internal/diff"
	"pyedit/internal/edit"
	"pyedit/internal/inventory"
	"pyedit/internal/session"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

const helpText = `# pyedit commands

| Command | Effect |
|---|---|
| ` + "`load <file.py>`" + ` | Load a Python file |
| ` + "`show`" + ` | Show the current source |
| ` + "`analyze`" + ` | Print the structural inventory |
| ` + "`intent <instruction>`" + ` | Show the parsed intent without editing |
| ` + "`undo`" + ` | Revert the last edit |
| ` + "`save [file.py]`" + ` | Write the source back to disk |
| ` + "`clear`" + ` | Drop the loaded source and history |
| ` + "`examples`" + ` | Show example instructions |
| ` + "`quit`" + ` / ` + "`exit`" + ` | Leave |

Anything else is treated as an editing instruction, like:

    Add a method called eat with parameter food to Animal class
`

const examplesText = `# Example instructions

- Add a method called eat with parameter food to Animal class
- Remove the speak method from Dog class
- Add a class called Customer with attributes name and email
- Remove the Person class
- Add attribute address to User class
- Remove the email attribute from Customer class
- Rename the speak method to talk in Animal class
- Rename User class to Customer
- Add a function called calculate_tax
- Add a for loop to the process_items method
- Add an if-else statement to the validate method
- Make Customer class inherit from Person class
- Make Customer class implement the Printable interface
- Add abstract method process to BaseHandler class
`

// runInteractive owns the prompt loop. Every line is either a session
// command or an editing instruction; instructions print their diff.
func runInteractive() error {
	s := session.New(
		session.WithLogger(logger),
		session.WithParser(newParser()),
		session.WithMutator(edit.New(cfg.Backend)),
	)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}

	fmt.Println(promptStyle.Render("=== pyedit ==="))
	fmt.Println(statusStyle.Render("Type 'help' for available commands"))

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		if s.Loaded() {
			fmt.Print(promptStyle.Render("pyedit> "))
		} else {
			fmt.Print(promptStyle.Render("pyedit (no file)> "))
		}
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		word, rest, _ := strings.Cut(line, " ")
		switch strings.ToLower(word) {
		case "quit", "exit":
			return nil

		case "help":
			printMarkdown(renderer, helpText)

		case "examples":
			printMarkdown(renderer, examplesText)

		case "load":
			if rest == "" {
				fmt.Println(errorStyle.Render("usage: load <file.py>"))
				continue
			}
			if err := s.Load(strings.TrimSpace(rest)); err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
				continue
			}
			fmt.Println(okStyle.Render("loaded " + s.Path()))
			printInventorySummary(s.Inventory())

		case "show":
			if !requireSource(s) {
				continue
			}
			fmt.Print(s.Source())

		case "analyze":
			if !requireSource(s) {
				continue
			}
			printJSON(s.Inventory())

		case "intent":
			if rest == "" {
				fmt.Println(errorStyle.Render("usage: intent <instruction>"))
				continue
			}
			printJSON(s.ParseIntent(rest))

		case "undo":
			rev, ok := s.Undo()
			if !ok {
				fmt.Println(statusStyle.Render("nothing to undo"))
				continue
			}
			fmt.Println(okStyle.Render("undid: " + rev.Command))

		case "save":
			if !requireSource(s) {
				continue
			}
			if err := s.Save(strings.TrimSpace(rest)); err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
				continue
			}
			fmt.Println(okStyle.Render("saved"))

		case "clear":
			s.Clear()
			fmt.Println(statusStyle.Render("cleared"))

		default:
			if !requireSource(s) {
				continue
			}
			out, err := s.Execute(line)
			if err != nil {
				fmt.Println(errorStyle.Render("Error: " + err.Error()))
				logger.Debug("instruction refused", zap.String("command", line))
				continue
			}
			fmt.Print(diff.Render(out.Diff))
		}
	}
}

func requireSource(s *session.Session) bool {
	if s.Loaded() {
		return true
	}
	fmt.Println(errorStyle.Render("no source loaded; use: load <file.py>"))
	return false
}

func printMarkdown(renderer *glamour.TermRenderer, md string) {
	out, err := renderer.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(errorStyle.Render(err.Error()))
		return
	}
	fmt.Println(string(data))
}

func printInventorySummary(inv *inventory.Inventory) {
	if inv.Status != inventory.StatusOK {
		fmt.Println(errorStyle.Render(inv.Message))
		return
	}
	var parts []string
	if n := len(inv.Classes); n > 0 {
		parts = append(parts, fmt.Sprintf("%d classes", n))
	}
	if n := len(inv.Functions); n > 0 {
		parts = append(parts, fmt.Sprintf("%d functions", n))
	}
	if n := len(inv.Imports); n > 0 {
		parts = append(parts, fmt.Sprintf("%d imports", n))
	}
	if len(parts) == 0 {
		parts = append(parts, "empty module")
	}
	fmt.Println(statusStyle.Render(strings.Join(parts, ", ")))
}
