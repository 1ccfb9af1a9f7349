// Command recman is a small end-to-end demonstration of the record manager
// stack: it creates a table, inserts a handful of records, then scans them
// back with a predicate. It does not delete or update records. It is example
// tooling, not product surface.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dhawaletejas/lightweight-database-engine/internal/config"
	"github.com/dhawaletejas/lightweight-database-engine/internal/expr"
	"github.com/dhawaletejas/lightweight-database-engine/internal/record"
	"github.com/dhawaletejas/lightweight-database-engine/internal/rm"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "path to a recman.yaml config file (optional)")
	flag.Parse()

	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
		cfg = loaded
	}

	setLogLevel(cfg.Log.Level)

	if err := os.MkdirAll(cfg.Storage.Dir, 0o755); err != nil {
		log.Fatalf("create storage dir: %v", err)
	}

	tableName := filepath.Join(cfg.Storage.Dir, "demo.tbl")
	if err := run(tableName); err != nil {
		log.Fatalf("recman demo: %v", err)
	}
}

func setLogLevel(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetLogLoggerLevel(lvl)
}

func run(tableName string) error {
	schema, err := record.NewSchema([]record.Attribute{
		{Name: "id", Type: record.TypeInt},
		{Name: "name", Type: record.TypeString, ByteLength: 32},
		{Name: "active", Type: record.TypeBool},
	}, []int32{0})
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}

	_ = rm.DeleteTable(tableName) // best-effort cleanup from a previous run
	if err := rm.CreateTable(tableName, schema); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	tbl, err := rm.OpenTable(tableName)
	if err != nil {
		return fmt.Errorf("open table: %w", err)
	}
	defer func() {
		if err := tbl.Close(); err != nil {
			slog.Error("close table failed", "err", err)
		}
	}()

	names := []string{"alice", "bob", "carol", "dave"}
	for i, name := range names {
		r := record.CreateRecord(schema)
		if err := record.SetAttr(r, schema, 0, record.IntValue(int32(i))); err != nil {
			return err
		}
		if err := record.SetAttr(r, schema, 1, record.StringValue(name)); err != nil {
			return err
		}
		if err := record.SetAttr(r, schema, 2, record.BoolValue(i%2 == 0)); err != nil {
			return err
		}
		if err := tbl.Insert(r); err != nil {
			return fmt.Errorf("insert %s: %w", name, err)
		}
		fmt.Printf("inserted %-6s -> %+v\n", name, r.ID)
	}

	fmt.Printf("table has %d tuples\n", tbl.GetNumTuples())

	pred := expr.AttrCompare{AttrIndex: 2, Op: expr.OpEquals, Literal: record.BoolValue(true)}
	sc := rm.StartScan(tbl, pred)
	defer sc.Close()

	out := record.CreateRecord(schema)
	fmt.Println("active records:")
	for {
		if err := sc.Next(out); err != nil {
			if err == rm.ErrNoMoreTuples {
				break
			}
			return fmt.Errorf("scan: %w", err)
		}
		nameVal, _ := record.GetAttr(out, schema, 1)
		fmt.Printf("  %s (rid=%+v)\n", nameVal.StringV, out.ID)
	}

	return nil
}
