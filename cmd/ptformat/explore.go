package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v3"

	"github.com/zamaudio/ptformat/internal/render"
	"github.com/zamaudio/ptformat/pkg/ptf"
)

var exploreCompleter = readline.NewPrefixCompleter(
	readline.PcItem("ls"),
	readline.PcItem("cd"),
	readline.PcItem("up"),
	readline.PcItem("show"),
	readline.PcItem("hex"),
	readline.PcItem("goto"),
	readline.PcItem("find"),
	readline.PcItem("stats"),
	readline.PcItem("help"),
	readline.PcItem("exit"),
)

const exploreHelp = `commands:
  ls             list blocks below the current one
  cd N           enter child N from ls; "cd .." goes up, "cd /" to the top
  up             same as cd ..
  show           decode the current block
  hex            dump the current block content
  goto OFFSET    jump to the innermost block containing a byte offset
  find TYPE      list blocks of a content type, e.g. find 0x0410
  stats          content type statistics
  exit           leave the shell`

func exploreCmd() *cli.Command {
	flags := append(parseFlags(), renderFlags()...)
	return &cli.Command{
		Name:      "explore",
		Usage:     "Navigate a session interactively",
		ArgsUsage: "<file>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1, "<file>"); err != nil {
				return err
			}
			applyParseConfig(cmd, cfg)
			applyRenderConfig(cmd, cfg)
			path := cmd.Args().First()

			f, err := ptf.Open(path, parseOptions(ctx))
			if err != nil {
				return cli.Exit(fmt.Sprintf("explore: %v", err), 1)
			}
			defer func() { _ = f.Close() }()

			sh := newShell(f.Tree, renderOptions(), os.Stdout)
			return runShell(ctx, sh, filepath.Base(path))
		},
	}
}

func runShell(ctx context.Context, sh *shell, name string) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          name + "> ",
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    exploreCompleter,
	})
	if err != nil {
		return fmt.Errorf("init readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(sh.out, "Enter help for a list of commands.")
	for ctx.Err() == nil {
		rl.SetPrompt(fmt.Sprintf("%s:%s> ", name, sh.where()))
		line, readErr := rl.Readline()
		if readErr != nil {
			if errors.Is(readErr, readline.ErrInterrupt) {
				if len(line) == 0 {
					return nil
				}
				continue
			}
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return readErr
		}
		quit, err := sh.exec(line)
		if err != nil {
			_, _ = fmt.Fprintf(sh.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return ctx.Err()
}

// shell holds the navigation state of explore. path lists the blocks from
// the top level down to the current one.
type shell struct {
	tree  *ptf.Tree
	index *ptf.Index
	opts  render.Options
	out   io.Writer
	path  []*ptf.Block
}

func newShell(tree *ptf.Tree, opts render.Options, out io.Writer) *shell {
	if opts.Registry == nil {
		opts.Registry = ptf.DefaultRegistry()
	}
	return &shell{
		tree:  tree,
		index: ptf.NewIndex(tree),
		opts:  opts,
		out:   out,
	}
}

func (s *shell) current() *ptf.Block {
	if len(s.path) == 0 {
		return nil
	}
	return s.path[len(s.path)-1]
}

func (s *shell) children() []*ptf.Block {
	if b := s.current(); b != nil {
		return b.Children
	}
	return s.tree.Blocks
}

func (s *shell) where() string {
	b := s.current()
	if b == nil {
		return "/"
	}
	return fmt.Sprintf("%s@%d", b.ContentType.Hex(), b.Position)
}

func (s *shell) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// exec runs one command line. quit reports whether the shell should exit.
func (s *shell) exec(line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}
	switch strings.ToLower(fields[0]) {
	case "exit", "quit", "q":
		return true, nil
	case "help", "?":
		s.printf("%s\n", exploreHelp)
	case "ls":
		s.list()
	case "cd":
		return false, s.cd(arg)
	case "up", "..":
		return false, s.cd("..")
	case "show":
		b := s.current()
		if b == nil {
			return false, errors.New("no block selected")
		}
		for _, l := range render.BlockLines(s.tree, b, s.opts) {
			s.printf("%s\n", l)
		}
	case "hex":
		b := s.current()
		if b == nil {
			return false, errors.New("no block selected")
		}
		for _, l := range render.HexDump(b.Content, s.opts.HexWidth) {
			s.printf("%s\n", l)
		}
	case "goto":
		return false, s.jump(arg)
	case "find":
		return false, s.find(arg)
	case "stats":
		render.StatsTable(s.out, "", ptf.CollectStats(s.tree, s.opts.Registry))
	default:
		return false, fmt.Errorf("unknown command %q (try help)", fields[0])
	}
	return false, nil
}

func (s *shell) list() {
	kids := s.children()
	if len(kids) == 0 {
		s.printf("(no child blocks)\n")
		return
	}
	for i, b := range kids {
		s.printf("%3d  @%-8d %s %-6d %s (%d children)\n",
			i, b.Position, b.ContentType, b.Size, s.opts.Registry.Describe(b.ContentType), len(b.Children))
	}
}

func (s *shell) cd(arg string) error {
	switch arg {
	case "", "/":
		s.path = nil
		return nil
	case "..":
		if len(s.path) > 0 {
			s.path = s.path[:len(s.path)-1]
		}
		return nil
	}
	i, err := strconv.Atoi(arg)
	kids := s.children()
	if err != nil || i < 0 || i >= len(kids) {
		return fmt.Errorf("no child %q (0..%d)", arg, len(kids)-1)
	}
	s.path = append(s.path, kids[i])
	return nil
}

func (s *shell) jump(arg string) error {
	off, err := parseOffset(arg)
	if err != nil {
		return err
	}
	chain := s.index.Locate(off)
	if len(chain) == 0 {
		return fmt.Errorf("offset %d is not inside any block", off)
	}
	s.path = chain
	s.printf("%s\n", s.where())
	return nil
}

func (s *shell) find(arg string) error {
	ct, err := ptf.ParseContentType(arg)
	if err != nil {
		return err
	}
	n := 0
	s.tree.Walk(func(b *ptf.Block) bool {
		if b.ContentType == ct {
			s.printf("@%-8d depth %d size %d\n", b.Position, b.Depth, b.Size)
			n++
		}
		return true
	})
	if n == 0 {
		s.printf("no blocks of content type %s\n", ct)
	}
	return nil
}
