package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/ansijoin/pkg/convert"
	"github.com/leapstack-labs/ansijoin/pkg/dialect"
)

const (
	replPrompt         = "ansijoin> "
	replContinuePrompt = "     ...> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Convert statements interactively",
		Long: `Start an interactive prompt that converts each statement as it is entered.

Statements end with a semicolon or a line holding a single "/". Type .help
for the available commands.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cc := NewCommandContextWithoutConverter(cmd)

	session, err := newREPLSession(convert.Config{
		SourceDialect: cc.Cfg.SourceDialect,
		TargetDialect: cc.Cfg.TargetDialect,
		Pretty:        cc.Cfg.Pretty,
		Flatten:       cc.Cfg.Flatten,
		ReorderJoins:  cc.Cfg.ReorderJoins,
		Workers:       cc.Cfg.Workers,
		Logger:        cc.Logger,
	}, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(),
		AutoComplete:    newREPLCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "ansijoin REPL (%s)\n", session.describe())
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.reset()
			rl.SetPrompt(session.prompt())
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		if quit := session.handleLine(ctx, line); quit {
			break
		}
		rl.SetPrompt(session.prompt())
	}

	return nil
}

// historyFile returns the REPL history path in the user's home directory,
// or "" to keep history in memory.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ansijoin_history")
}

// replSession holds the state of an interactive session independently of
// the terminal.
type replSession struct {
	cfg    convert.Config
	conv   *convert.Converter
	out    io.Writer
	errOut io.Writer
	buf    strings.Builder
}

func newREPLSession(cfg convert.Config, out, errOut io.Writer) (*replSession, error) {
	conv, err := convert.New(cfg)
	if err != nil {
		return nil, err
	}
	return &replSession{cfg: cfg, conv: conv, out: out, errOut: errOut}, nil
}

func (s *replSession) describe() string {
	return fmt.Sprintf("%s -> %s", s.conv.Source().Name, s.conv.Target().Name)
}

func (s *replSession) prompt() string {
	if s.buf.Len() > 0 {
		return replContinuePrompt
	}
	return replPrompt
}

func (s *replSession) reset() {
	s.buf.Reset()
}

// handleLine consumes one input line and reports whether the session ends.
func (s *replSession) handleLine(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)

	if s.buf.Len() == 0 {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ".") {
			return s.handleDotCommand(trimmed)
		}
	}

	// A lone "/" ends the statement like a semicolon.
	if trimmed == "/" {
		s.convertBuffered(ctx)
		return false
	}

	s.buf.WriteString(line)
	s.buf.WriteString("\n")
	if strings.HasSuffix(trimmed, ";") {
		s.convertBuffered(ctx)
	}
	return false
}

func (s *replSession) convertBuffered(ctx context.Context) {
	text := s.buf.String()
	s.buf.Reset()
	if strings.TrimSpace(text) == "" {
		return
	}

	batch, err := s.conv.ConvertBatch(ctx, text)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}

	_, _ = fmt.Fprint(s.out, batch.SQL())
	for _, st := range batch.Statements {
		if st.Err != nil {
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", st.Err)
		}
	}
	for _, d := range batch.Diagnostics() {
		_, _ = fmt.Fprintf(s.errOut, "%s\n", d)
	}
	_, _ = fmt.Fprintln(s.out)
}

func (s *replSession) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])
	args := parts[1:]

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.out)

	case ".dialect":
		next := s.cfg
		switch len(args) {
		case 0:
			_, _ = fmt.Fprintln(s.out, s.describe())
			return false
		case 1:
			next.TargetDialect = args[0]
		case 2:
			next.SourceDialect, next.TargetDialect = args[0], args[1]
		default:
			_, _ = fmt.Fprintln(s.errOut, "Usage: .dialect [source] <target>")
			return false
		}
		s.apply(next)

	case ".pretty", ".flatten", ".reorder":
		next := s.cfg
		var target *bool
		switch command {
		case ".pretty":
			target = &next.Pretty
		case ".flatten":
			target = &next.Flatten
		default:
			target = &next.ReorderJoins
		}
		if len(args) == 0 {
			_, _ = fmt.Fprintf(s.out, "%s is %s\n", command[1:], onOff(*target))
			return false
		}
		v, ok := parseOnOff(args[0])
		if !ok {
			_, _ = fmt.Fprintf(s.errOut, "Usage: %s on|off\n", command)
			return false
		}
		*target = v
		s.apply(next)

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

// apply swaps in a converter for cfg, keeping the current one on error.
func (s *replSession) apply(cfg convert.Config) {
	conv, err := convert.New(cfg)
	if err != nil {
		_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		return
	}
	s.cfg, s.conv = cfg, conv
	_, _ = fmt.Fprintf(s.out, "Converting %s (pretty %s, flatten %s, reorder %s)\n",
		s.describe(), onOff(cfg.Pretty), onOff(cfg.Flatten), onOff(cfg.ReorderJoins))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func parseOnOff(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "on", "true", "1":
		return true, true
	case "off", "false", "0":
		return false, true
	default:
		return false, false
	}
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help                     Show this help message
  .dialect                  Show the source and target dialects
  .dialect [source] target  Change the dialects
  .pretty on|off            Toggle multi-line output
  .flatten on|off           Toggle hoisting derived tables into WITH
  .reorder on|off           Toggle join reordering
  .quit / .exit             Exit the REPL

Tips:
  - Statements end with a semicolon (;) or a line holding only /
  - Use arrow keys to navigate history
  - Ctrl-C discards the statement being typed
`
	_, _ = fmt.Fprintln(w, help)
}

// newREPLCompleter completes dot-commands and dialect names.
func newREPLCompleter() *readline.PrefixCompleter {
	var dialects []readline.PrefixCompleterInterface
	for _, name := range dialect.List() {
		dialects = append(dialects, readline.PcItem(name))
	}
	toggle := []readline.PrefixCompleterInterface{readline.PcItem("on"), readline.PcItem("off")}

	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".dialect", dialects...),
		readline.PcItem(".pretty", toggle...),
		readline.PcItem(".flatten", toggle...),
		readline.PcItem(".reorder", toggle...),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
