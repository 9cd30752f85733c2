// Command noxdb is a CLI for the noxdb embedded document store: create
// databases and buckets, insert documents from the command line, and
// drive a bucket interactively from a shell.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/noxdb/internal/config"
	"github.com/calvinalkan/noxdb/internal/schemafile"
	"github.com/calvinalkan/noxdb/pkg/docstore"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errOut *os.File) int {
	if len(args) == 0 {
		printUsage(out)
		return 1
	}

	cmd := args[0]
	rest := args[1:]

	switch cmd {
	case "open":
		return cmdOpen(rest, out, errOut)
	case "bucket":
		return cmdBucket(rest, out, errOut)
	case "insert":
		return cmdInsert(rest, out, errOut)
	case "count":
		return cmdCount(rest, out, errOut)
	case "shell":
		return cmdShell(rest, out, errOut)
	case "seed":
		return cmdSeed(rest, out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "noxdb: unknown command %q\n", cmd)
		printUsage(errOut)
		return 1
	}
}

func printUsage(w *os.File) {
	fmt.Fprintln(w, "usage: noxdb <command> [flags]")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  open <dir>                             open or create a database, print its descriptor")
	fmt.Fprintln(w, "  bucket create --schema <file> <name>   create a bucket from a schema file")
	fmt.Fprintln(w, "  insert --field name=type:value <name>  insert one document")
	fmt.Fprintln(w, "  count <name>                           count persisted documents")
	fmt.Fprintln(w, "  shell <name>                           interactive shell over a bucket")
	fmt.Fprintln(w, "  seed <name>                            insert demo accounts")
}

func loadConfigForCLI(dbDirFlag string) (config.Config, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return config.Config{}, err
	}

	overrides := config.Config{}
	if dbDirFlag != "" {
		overrides.DatabaseDir = dbDirFlag
	}

	return config.Load(workDir, "", overrides, os.Environ())
}

func openDatabase(dbDirFlag string, errOut *os.File) (*docstore.Database, error) {
	cfg, err := loadConfigForCLI(dbDirFlag)
	if err != nil {
		return nil, err
	}

	return docstore.Open(cfg.DatabaseDir, docstore.Options{PageSize: cfg.PageSize})
}

// cmdOpen opens (creating if necessary) the database directory named by
// its single positional argument and prints its descriptor, the way
// "noxdb open <dir>" is documented to behave.
func cmdOpen(args []string, out, errOut *os.File) int {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "noxdb open: expected exactly one directory")
		return 1
	}

	db, err := docstore.Open(fs.Arg(0), docstore.Options{})
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	defer db.Close()

	desc := db.Descriptor()
	fmt.Fprintf(out, "page_size=%d header_size=%d\n", desc.PageSize, desc.HeaderSize)
	return 0
}

func cmdBucket(args []string, out, errOut *os.File) int {
	if len(args) < 1 || args[0] != "create" {
		fmt.Fprintln(errOut, "noxdb bucket: expected subcommand \"create\"")
		return 1
	}

	fs := flag.NewFlagSet("bucket create", flag.ContinueOnError)
	schemaPath := fs.String("schema", "", "path to a JSONC schema file")
	dbDir := fs.String("db", "", "database directory (overrides config)")
	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "noxdb bucket create: expected exactly one bucket name")
		return 1
	}
	name := fs.Arg(0)

	if *schemaPath == "" {
		fmt.Fprintln(errOut, "noxdb bucket create: --schema is required")
		return 1
	}

	schema, err := schemafile.Load(*schemaPath)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	db, err := openDatabase(*dbDir, errOut)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	defer db.Close()

	if _, err := db.OpenBucket(name, schema); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	fmt.Fprintf(out, "bucket %q created\n", name)
	return 0
}

func cmdInsert(args []string, out, errOut *os.File) int {
	fs := flag.NewFlagSet("insert", flag.ContinueOnError)
	fields := fs.StringArray("field", nil, "name=type:value, repeatable")
	dbDir := fs.String("db", "", "database directory (overrides config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "noxdb insert: expected exactly one bucket name")
		return 1
	}
	name := fs.Arg(0)

	doc, err := parseFieldFlags(*fields)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

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

	offset, _, err := b.Insert(doc)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	fmt.Fprintf(out, "inserted, new tail offset %d\n", offset)
	return 0
}

// parseFieldFlags parses repeated --field name=type:value flags into a
// Document. Supported types: text, int64, uint64, float64; any other
// type name, including bytes, is rejected.
func parseFieldFlags(specs []string) (*docstore.Document, error) {
	doc := &docstore.Document{}

	for _, spec := range specs {
		nameRest := strings.SplitN(spec, "=", 2)
		if len(nameRest) != 2 {
			return nil, fmt.Errorf("malformed --field %q, want name=type:value", spec)
		}
		name := nameRest[0]

		typeVal := strings.SplitN(nameRest[1], ":", 2)
		if len(typeVal) != 2 {
			return nil, fmt.Errorf("malformed --field %q, want name=type:value", spec)
		}
		typ, val := typeVal[0], typeVal[1]

		field, err := parseOneField(name, typ, val)
		if err != nil {
			return nil, err
		}
		doc.Fields = append(doc.Fields, field)
	}

	return doc, nil
}

func parseOneField(name, typ, val string) (docstore.Field, error) {
	switch typ {
	case "text":
		return docstore.Field{Name: name, Type: docstore.FieldTypeText, Value: val}, nil
	case "int64":
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return docstore.Field{}, fmt.Errorf("field %q: %w", name, err)
		}
		return docstore.Field{Name: name, Type: docstore.FieldTypeInt64, Value: n}, nil
	case "uint64":
		n, err := strconv.ParseUint(val, 10, 64)
		if err != nil {
			return docstore.Field{}, fmt.Errorf("field %q: %w", name, err)
		}
		return docstore.Field{Name: name, Type: docstore.FieldTypeUint64, Value: n}, nil
	case "float64":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return docstore.Field{}, fmt.Errorf("field %q: %w", name, err)
		}
		return docstore.Field{Name: name, Type: docstore.FieldTypeFloat64, Value: f}, nil
	default:
		return docstore.Field{}, fmt.Errorf("field %q: unsupported type %q", name, typ)
	}
}

func cmdCount(args []string, out, errOut *os.File) int {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	dbDir := fs.String("db", "", "database directory (overrides config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "noxdb count: expected exactly one bucket name")
		return 1
	}

	db, err := openDatabase(*dbDir, errOut)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	defer db.Close()

	b, err := db.OpenBucket(fs.Arg(0), nil)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	n, err := b.CountDocuments()
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	fmt.Fprintln(out, n)
	return 0
}

func cmdSeed(args []string, out, errOut *os.File) int {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	dbDir := fs.String("db", "", "database directory (overrides config)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "noxdb seed: expected exactly one bucket name")
		return 1
	}

	db, err := openDatabase(*dbDir, errOut)
	if err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}
	defer db.Close()

	if err := seedAccounts(db, fs.Arg(0)); err != nil {
		fmt.Fprintln(errOut, "error:", err)
		return 1
	}

	fmt.Fprintln(out, "seeded 3 accounts")
	return 0
}
