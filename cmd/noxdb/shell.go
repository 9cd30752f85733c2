package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"
	"github.com/peterh/liner"

	"github.com/calvinalkan/noxdb/pkg/docstore"
)

// historyFile returns the path to the shell's readline history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".noxdb_history")
}

// shellCommands lists the commands the completer offers.
var shellCommands = []string{"insert", "count", "tail", "pending", "lasterror", "help", "exit", "quit"}

// repl is an interactive session over one open bucket.
type repl struct {
	db     *docstore.Database
	bucket *docstore.Bucket
	name   string
	liner  *liner.State
	out    io.Writer
}

func cmdShell(args []string, out, errOut *os.File) int {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	dbDir := fs.String("db", "", "database directory (overrides config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "noxdb shell: expected exactly one bucket name")
		return 1
	}
	name := fs.Arg(0)

	db, err := openDatabase(*dbDir, errOut)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	defer db.Close()

	b, err := db.OpenBucket(name, nil)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	r := &repl{db: db, bucket: b, name: name, out: out}
	if err := r.run(); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	return 0
}

func (r *repl) run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintf(r.out, "noxdb shell — bucket %q\n", r.name)
	fmt.Fprintln(r.out, "Type 'help' for available commands.")

	for {
		line, err := r.liner.Prompt(r.name + "> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Fprintln(r.out, "bye")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			r.saveHistory()
			return nil
		case "help", "?":
			r.printHelp()
		case "insert":
			r.cmdInsert(args)
		case "count":
			r.cmdCount()
		case "tail":
			r.cmdTail()
		case "pending":
			r.cmdPending()
		case "lasterror":
			r.cmdLastError()
		default:
			fmt.Fprintf(r.out, "unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (r *repl) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}
	if f, err := os.Create(path); err == nil {
		r.liner.WriteHistory(f)
		f.Close()
	}
}

func (r *repl) completer(line string) []string {
	var out []string
	for _, c := range shellCommands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, "commands:")
	fmt.Fprintln(r.out, "  insert name=type:value [name=type:value ...]   insert a document")
	fmt.Fprintln(r.out, "  count                                          documents persisted on disk")
	fmt.Fprintln(r.out, "  tail                                           current in-memory tail offset")
	fmt.Fprintln(r.out, "  pending                                        enqueued inserts not yet persisted")
	fmt.Fprintln(r.out, "  lasterror                                      last background writer error, if any")
	fmt.Fprintln(r.out, "  exit, quit, q                                  leave the shell")
}

func (r *repl) cmdInsert(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "usage: insert name=type:value [...]")
		return
	}

	doc, err := parseFieldFlags(args)
	if err != nil {
		fmt.Fprintln(r.out, "error:", err)
		return
	}

	offset, _, err := r.bucket.Insert(doc)
	if err != nil {
		fmt.Fprintln(r.out, "error:", err)
		return
	}

	fmt.Fprintf(r.out, "ok, new tail offset %d\n", offset)
}

func (r *repl) cmdCount() {
	n, err := r.bucket.CountDocuments()
	if err != nil {
		fmt.Fprintln(r.out, "error:", err)
		return
	}
	fmt.Fprintln(r.out, n)
}

func (r *repl) cmdTail() {
	fmt.Fprintln(r.out, strconv.FormatUint(r.bucket.CurrentTailOffset(), 10))
}

func (r *repl) cmdPending() {
	fmt.Fprintln(r.out, strconv.FormatUint(r.bucket.PendingWrites(), 10))
}

func (r *repl) cmdLastError() {
	if err := r.bucket.LastError(); err != nil {
		fmt.Fprintln(r.out, err)
		return
	}
	fmt.Fprintln(r.out, "none")
}
