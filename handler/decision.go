package handler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Prompter asks the user a question and returns the raw answer line
type Prompter interface {
	Ask(text string) (string, error)
}

// linePrompter reads one line per question
type linePrompter struct {
	reader *bufio.Reader
	out    io.Writer
	style  *color.Color
}

// NewLinePrompter returns a Prompter reading answers from in and writing questions to out.
// Questions are highlighted when out is a terminal.
func NewLinePrompter(in io.Reader, out io.Writer) Prompter {
	style := color.New(color.FgYellow, color.Bold)
	if f, ok := out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		style.DisableColor()
	}

	return &linePrompter{
		reader: bufio.NewReader(in),
		out:    out,
		style:  style,
	}
}

// NewStdinPrompter is the interactive terminal prompter
func NewStdinPrompter() Prompter {
	return NewLinePrompter(os.Stdin, os.Stdout)
}

func (p *linePrompter) Ask(text string) (string, error) {
	if _, err := p.style.Fprint(p.out, text); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	input, err := p.reader.ReadString('\n')
	if err != nil {
		// a last answer without trailing newline is still an answer
		if errors.Is(err, io.EOF) && input != "" {
			return strings.TrimSpace(input), nil
		}
		return "", fmt.Errorf("failed to read user input: %w", err)
	}

	return strings.TrimSpace(input), nil
}

// Decide resolves an ask / action pair:
//   - action set: apply without asking
//   - neither ask nor action: skip without asking
//   - otherwise ask, an empty answer or y/Y applies
func Decide(prompter Prompter, ask, action bool, text string) (bool, error) {
	if action {
		return true, nil
	}
	if !ask {
		return false, nil
	}

	choice, err := prompter.Ask(text)
	if err != nil {
		return false, err
	}

	return isAffirmative(choice), nil
}

func isAffirmative(choice string) bool {
	choice = strings.ToUpper(strings.TrimSpace(choice))
	return choice == "" || choice == "Y"
}
