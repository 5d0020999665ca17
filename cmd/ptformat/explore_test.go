package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/zamaudio/ptformat/internal/ptftest"
	"github.com/zamaudio/ptformat/internal/render"
	"github.com/zamaudio/ptformat/pkg/ptf"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()
	tree, err := ptf.Parse(ptftest.LE().Sample(), ptf.Options{Strict: true})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var out bytes.Buffer
	return newShell(tree, render.Options{}, &out), &out
}

func TestShellNavigation(t *testing.T) {
	t.Parallel()

	sh, out := newTestShell(t)
	if _, err := sh.exec("ls"); err != nil {
		t.Fatalf("ls: %v", err)
	}
	if got := strings.Count(out.String(), "\n"); got != 5 {
		t.Fatalf("ls lines: got %d want 5\n%s", got, out.String())
	}

	if _, err := sh.exec("cd 3"); err != nil {
		t.Fatalf("cd 3: %v", err)
	}
	if got := sh.current().ContentType; got != ptf.ContentAudioFiles {
		t.Fatalf("current: got %s want %s", got, ptf.ContentAudioFiles)
	}
	if !strings.HasPrefix(sh.where(), "0x0410@") {
		t.Fatalf("where: got %q", sh.where())
	}

	out.Reset()
	if _, err := sh.exec("show"); err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out.String(), "kick.wav") {
		t.Fatalf("show should list the audio files:\n%s", out.String())
	}

	if _, err := sh.exec("cd 0"); err != nil {
		t.Fatalf("cd 0: %v", err)
	}
	if got := sh.current().ContentType; got != ptf.ContentAudioFileList {
		t.Fatalf("child: got %s want %s", got, ptf.ContentAudioFileList)
	}
	if _, err := sh.exec("cd 0"); err == nil {
		t.Fatalf("cd into a leaf should fail")
	}
	if _, err := sh.exec("up"); err != nil || len(sh.path) != 1 {
		t.Fatalf("up: err=%v depth=%d", err, len(sh.path))
	}
	if _, err := sh.exec("cd /"); err != nil || sh.current() != nil {
		t.Fatalf("cd /: err=%v current=%v", err, sh.current())
	}
}

func TestShellGotoAndFind(t *testing.T) {
	t.Parallel()

	sh, out := newTestShell(t)
	list := sh.tree.Blocks[3].Children[0]
	if _, err := sh.exec(fmt.Sprintf("goto %d", list.ContentStart()+2)); err != nil {
		t.Fatalf("goto: %v", err)
	}
	if sh.current() != list || len(sh.path) != 2 {
		t.Fatalf("goto: got %v (depth %d) want file list block", sh.current(), len(sh.path))
	}
	if _, err := sh.exec("goto 3"); err == nil {
		t.Fatalf("goto into the header should fail")
	}

	out.Reset()
	if _, err := sh.exec("find 0x3a10"); err != nil {
		t.Fatalf("find: %v", err)
	}
	if !strings.Contains(out.String(), fmt.Sprintf("@%d", list.Position)) {
		t.Fatalf("find output: %q", out.String())
	}
	if _, err := sh.exec("find 0x3a"); err == nil {
		t.Fatalf("find with a malformed content type should fail")
	}
}

func TestShellCommands(t *testing.T) {
	t.Parallel()

	sh, out := newTestShell(t)
	if _, err := sh.exec("show"); err == nil {
		t.Fatalf("show at the top level should fail")
	}
	if _, err := sh.exec("frobnicate"); err == nil {
		t.Fatalf("unknown command should fail")
	}
	if quit, err := sh.exec("   "); quit || err != nil {
		t.Fatalf("blank line: quit=%v err=%v", quit, err)
	}
	out.Reset()
	if _, err := sh.exec("stats"); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if out.Len() == 0 {
		t.Fatalf("stats printed nothing")
	}
	if quit, _ := sh.exec("exit"); !quit {
		t.Fatalf("exit should quit")
	}
}
