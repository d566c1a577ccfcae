package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

func TestRunReportsYesForTerminatingSystem(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "afsm-*.txt")
	if err != nil {
		t.Fatalf("CreateTemp() error = %v", err)
	}
	src := "0 : Nat\ns : Nat -> Nat\nplus : Nat -> Nat -> Nat\n\nplus(0, y) -> y\nplus(s(x), y) -> s(plus(x, y))\n"
	if _, err := f.WriteString(src); err != nil {
		t.Fatalf("WriteString() error = %v", err)
	}
	f.Close()

	var out bytes.Buffer
	opts := &options{timeout: time.Second}
	if err := run(f.Name(), opts, &out); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out.String(), "YES") {
		t.Fatalf("run() output = %q, want it to contain YES", out.String())
	}
}

func TestRunReportsErrorForMissingFile(t *testing.T) {
	var out bytes.Buffer
	opts := &options{timeout: time.Second}
	if err := run("/does/not/exist.txt", opts, &out); err == nil {
		t.Fatalf("run() error = nil, want an error for a missing input file")
	}
}

func TestRunBatchProvesEachFileIndependently(t *testing.T) {
	dir := t.TempDir()
	plus := dir + "/plus.txt"
	loop := dir + "/loop.txt"
	if err := os.WriteFile(plus, []byte("0 : Nat\ns : Nat -> Nat\nplus : Nat -> Nat -> Nat\n\nplus(0, y) -> y\nplus(s(x), y) -> s(plus(x, y))\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := os.WriteFile(loop, []byte("a : Nat\nf : Nat -> Nat\n\nf(x) -> f(x)\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	var out bytes.Buffer
	opts := &options{timeout: time.Second}
	if err := runBatch([]string{plus, loop}, opts, &out); err != nil {
		t.Fatalf("runBatch() error = %v", err)
	}
	if !strings.Contains(out.String(), "plus.txt") || !strings.Contains(out.String(), "loop.txt") {
		t.Fatalf("runBatch() output = %q, want both file names reported", out.String())
	}
}
