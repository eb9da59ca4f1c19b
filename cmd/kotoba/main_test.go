package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/kotoba/pkg/kotoba/deck"
	"github.com/cognicore/kotoba/pkg/kotoba/internalerr"
	"github.com/cognicore/kotoba/pkg/kotoba/notes"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "kotoba.yaml")
	cfg := "log:\n  level: error\ndata:\n  db: " + filepath.Join(dir, "kotoba.db") + "\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{}
	root := newRootCmd(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return out.String(), err
}

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd(&app{})
	want := []string{"tokenize", "import-dict", "mine", "stats", "ignore", "sentences",
		"subs2srs", "enrich", "sort", "move", "summary", "audio", "refresh"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestIgnoreAddListRemove(t *testing.T) {
	cfg := writeConfig(t)

	if _, err := run(t, "--config", cfg, "ignore", "add", "する", "ある"); err != nil {
		t.Fatalf("ignore add: %v", err)
	}
	out, err := run(t, "--config", cfg, "ignore", "list")
	if err != nil {
		t.Fatalf("ignore list: %v", err)
	}
	if !strings.Contains(out, "する\tstore") || !strings.Contains(out, "ある\tstore") {
		t.Errorf("list output = %q", out)
	}

	if _, err := run(t, "--config", cfg, "ignore", "remove", "する"); err != nil {
		t.Fatalf("ignore remove: %v", err)
	}
	out, err = run(t, "--config", cfg, "ignore", "list")
	if err != nil {
		t.Fatalf("ignore list: %v", err)
	}
	if strings.Contains(out, "する") {
		t.Errorf("removed root still listed: %q", out)
	}
}

func TestMissingConfigFile(t *testing.T) {
	if _, err := run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "ignore", "list"); err == nil {
		t.Fatal("expected error for a missing config file")
	}
}

func TestImportDictNeedsPath(t *testing.T) {
	if _, err := run(t, "--config", writeConfig(t), "import-dict"); err == nil {
		t.Fatal("expected error without a JMdict path")
	}
}

func TestPrintNote(t *testing.T) {
	var buf bytes.Buffer
	printNote(&buf, notes.Note{
		Japanese: "電車",
		Reading:  "でんしゃ",
		English:  "1) train\n2) streetcar",
		Extra:    "JLPT N4",
	})
	out := buf.String()
	for _, want := range []string{"Japanese(Full): 電車", "Japanese(Kana): でんしゃ", "English: 1) train", "2) streetcar", "Extra: JLPT N4"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, deck.Summary{
		Buckets:  []deck.BucketCount{{Tag: "Freq:Top_1k", Learned: 3, LearnedTotal: 3, New: 1, NewTotal: 1}},
		Learned:  4,
		New:      1,
		Untagged: 1,
	})
	if !strings.Contains(buf.String(), "Freq:Top_1k") || !strings.Contains(buf.String(), "Learned without a bucket: 1") {
		t.Errorf("summary = %q", buf.String())
	}
}

func TestHelpers(t *testing.T) {
	if got := firstLine("1) train\n2) tram"); got != "1) train" {
		t.Errorf("firstLine = %q", got)
	}
	if got := orUnknown(" "); got != "???" {
		t.Errorf("orUnknown = %q", got)
	}
	if got := orUnknown("ichi1"); got != "ichi1" {
		t.Errorf("orUnknown = %q", got)
	}
}

func TestMineNeedsOneSource(t *testing.T) {
	cfg := writeConfig(t)
	list := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(list, []byte("猫\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cases := [][]string{
		{"mine"},
		{"mine", list, "--list", list},
		{"mine", "--list", list, "--jlpt", "5"},
		{"mine", "--jlpt", "7"},
	}
	for _, args := range cases {
		_, err := run(t, append([]string{"--config", cfg}, args...)...)
		if !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("%v: err = %v, want ErrInvalidInput", args, err)
		}
	}
}
