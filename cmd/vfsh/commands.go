package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/brettbedarf/vfs"
	"github.com/brettbedarf/vfs/config"
	"github.com/brettbedarf/vfs/console"
	"github.com/brettbedarf/vfs/filesystem"
	"github.com/brettbedarf/vfs/history"
	"github.com/brettbedarf/vfs/server"
)

// shell runs namespace commands against a VFS and prints what happened
type shell struct {
	vfs      *server.VFS
	history  *history.Log
	printer  *console.Printer
	diff     bool
	commands map[string]command
}

type command struct {
	usage  string
	nargs  int  // required argument count; -1 takes the rest of the line as one argument
	mutate bool // runs under the write lock and is diffed
	run    func(fs *filesystem.FileSystem, args []string) error
}

func newShell(v *server.VFS, cfg *config.Config, out io.Writer, diff bool) *shell {
	s := &shell{
		vfs:     v,
		history: history.NewLog(v.FileSystem, cfg.HistoryLimit),
		printer: console.NewPrinter(out, cfg.Color),
		diff:    diff,
	}
	v.SetRecorder(s.history)
	v.Subscribe(s.printer)
	s.commands = s.buildCommands()
	return s
}

func (s *shell) buildCommands() map[string]command {
	return map[string]command{
		"mkdir": {"mkdir [-p] PATH", 1, true, func(fs *filesystem.FileSystem, args []string) error {
			p, err := vfs.NewDirectoryPath(args[0])
			if err != nil {
				return err
			}
			_, err = fs.CreateDirectory(p)
			return err
		}},
		"mkdir -p": {"mkdir -p PATH", 1, true, func(fs *filesystem.FileSystem, args []string) error {
			p, err := vfs.NewDirectoryPath(args[0])
			if err != nil {
				return err
			}
			_, err = fs.CreateDirectoryAll(p)
			return err
		}},
		"touch": {"touch PATH", 1, true, func(fs *filesystem.FileSystem, args []string) error {
			p, err := vfs.NewFilePath(args[0])
			if err != nil {
				return err
			}
			_, err = fs.CreateFile(p)
			return err
		}},
		"rm":        {"rm PATH", 1, true, deleteCmd(vfs.KindFile)},
		"rmdir":     {"rmdir PATH", 1, true, deleteCmd(vfs.KindDirectory)},
		"mv":        {"mv SRC DST", 2, true, moveCmd(vfs.KindFile)},
		"mvdir":     {"mvdir SRC DST", 2, true, moveCmd(vfs.KindDirectory)},
		"rename":    {"rename PATH NAME", 2, true, renameCmd(vfs.KindFile)},
		"renamedir": {"renamedir PATH NAME", 2, true, renameCmd(vfs.KindDirectory)},
		"find": {"find EXPR", -1, false, func(fs *filesystem.FileSystem, args []string) error {
			files, err := fs.FindFilesExpr(args[0])
			if err != nil {
				return err
			}
			for _, f := range files {
				s.printer.Println(f.Path())
			}
			return nil
		}},
		"finddir": {"finddir EXPR", -1, false, func(fs *filesystem.FileSystem, args []string) error {
			dirs, err := fs.FindDirectoriesExpr(args[0])
			if err != nil {
				return err
			}
			for _, d := range dirs {
				s.printer.Println(d.Path())
			}
			return nil
		}},
		"tree": {"tree", 0, false, func(fs *filesystem.FileSystem, _ []string) error {
			s.printer.Println(strings.TrimSuffix(fs.Tree(), "\n"))
			return nil
		}},
		"stat": {"stat", 0, false, func(fs *filesystem.FileSystem, _ []string) error {
			s.printer.Println(fs.String())
			return nil
		}},
		"undo": {"undo", 0, true, func(*filesystem.FileSystem, []string) error {
			_, err := s.history.Undo()
			return err
		}},
		"redo": {"redo", 0, true, func(*filesystem.FileSystem, []string) error {
			_, err := s.history.Redo()
			return err
		}},
		"help": {"help", 0, false, func(*filesystem.FileSystem, []string) error {
			s.printer.Println(s.usage())
			return nil
		}},
	}
}

func deleteCmd(kind vfs.NodeKind) func(*filesystem.FileSystem, []string) error {
	return func(fs *filesystem.FileSystem, args []string) error {
		p, err := vfs.NewPath(args[0], kind)
		if err != nil {
			return err
		}
		return fs.DeleteNode(kind, p)
	}
}

func moveCmd(kind vfs.NodeKind) func(*filesystem.FileSystem, []string) error {
	return func(fs *filesystem.FileSystem, args []string) error {
		src, err := vfs.NewPath(args[0], kind)
		if err != nil {
			return err
		}
		dst, err := vfs.NewPath(args[1], kind)
		if err != nil {
			return err
		}
		return fs.MoveNode(kind, src, dst)
	}
}

func renameCmd(kind vfs.NodeKind) func(*filesystem.FileSystem, []string) error {
	return func(fs *filesystem.FileSystem, args []string) error {
		p, err := vfs.NewPath(args[0], kind)
		if err != nil {
			return err
		}
		return fs.RenameNode(kind, p, args[1])
	}
}

func (s *shell) usage() string {
	lines := make([]string, 0, len(s.commands))
	for _, c := range s.commands {
		lines = append(lines, "  "+c.usage)
	}
	sort.Strings(lines)
	return "commands:\n" + strings.Join(lines, "\n")
}

// parse splits a command line into its command and arguments
func (s *shell) parse(line string) (command, []string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, nil, fmt.Errorf("empty command")
	}
	name, rest := fields[0], fields[1:]
	if name == "mkdir" && len(rest) > 0 && rest[0] == "-p" {
		name, rest = "mkdir -p", rest[1:]
	}
	cmd, ok := s.commands[name]
	if !ok {
		return command{}, nil, fmt.Errorf("unknown command %q", name)
	}

	switch {
	case cmd.nargs < 0:
		expr := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
		if expr == "" {
			return command{}, nil, fmt.Errorf("usage: %s", cmd.usage)
		}
		return cmd, []string{expr}, nil
	case len(rest) != cmd.nargs:
		return command{}, nil, fmt.Errorf("usage: %s", cmd.usage)
	}
	return cmd, rest, nil
}

// exec runs a single command line
func (s *shell) exec(line string) error {
	cmd, args, err := s.parse(line)
	if err != nil {
		return err
	}
	if !cmd.mutate {
		return s.vfs.View(func(fs *filesystem.FileSystem) error {
			return cmd.run(fs, args)
		})
	}
	return s.vfs.Apply(func(fs *filesystem.FileSystem) error {
		var before string
		if s.diff {
			before = fs.Tree()
		}
		if err := cmd.run(fs, args); err != nil {
			return err
		}
		if s.diff {
			s.printer.PrintDiff(before, fs.Tree())
		}
		return nil
	})
}

// runLines executes commands one per line, skipping blanks and # comments.
// Failures are printed and counted; execution continues with the next line.
func (s *shell) runLines(r io.Reader) (failed int, err error) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := s.exec(line); err != nil {
			s.printer.Error(err)
			failed++
		}
	}
	return failed, sc.Err()
}
