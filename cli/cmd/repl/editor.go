package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/minilang/lang"
	"github.com/ardnew/minilang/log"
	"github.com/ardnew/minilang/pkg"
)

const defaultEditor = "vi"

// editorIndent is the indent width of the program written to the editor.
const editorIndent = 2

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop. It
// writes the session program to a temp file, opens the user's editor, and
// parses the result. On a syntax error the user is prompted to re-edit;
// declining abandons the edit.
type editCommand struct {
	ctxFunc func() context.Context
	logger  log.Logger
	program *lang.Program
	opts    []lang.Option
	edited  *lang.Program // nil if the user cleared the file
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. If the user declines to re-edit, it
// returns [ErrEditDeclined].
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	var buf bytes.Buffer
	if err := c.program.Format(ctx, &buf, editorIndent); err != nil {
		return fmt.Errorf("format program: %w", err)
	}

	f, err := os.CreateTemp("", pkg.Name+"-repl-*"+pkg.Extension)
	if err != nil {
		return err
	}

	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(buf.Bytes()); err != nil {
		f.Close()

		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	for {
		data, err := c.runEditor(ctx, path)
		if err != nil {
			return err
		}

		if strings.TrimSpace(string(data)) == "" {
			return nil
		}

		prog, parseErr := lang.Parse(ctx, string(data), c.opts...)

		c.logger.TraceContext(ctx, "editor parse attempt",
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil))

		if parseErr == nil {
			c.edited = prog

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\n", parseErr)
		fmt.Fprint(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return ErrEditDeclined
		}
	}
}

// runEditor opens path in the user's $EDITOR and returns the edited content.
func (c *editCommand) runEditor(ctx context.Context, path string) ([]byte, error) {
	// $EDITOR may carry arguments, as in "code --wait".
	args := strings.Fields(os.Getenv("EDITOR"))
	if len(args) == 0 {
		args = []string{defaultEditor}
	}

	args = append(args, path)

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	if err := cmd.Run(); err != nil {
		return nil, err
	}

	return os.ReadFile(path)
}
