// Command wtmuxdemo is a minimal terminal UI that drives a real tmux
// session over its control-mode protocol, exercising the Session Driver
// (internal/driver), the notification decoder and command pipeline
// (internal/mux), and the layout grammar/model (internal/layout) against a
// live tmux(1) binary.
//
// Usage:
//
//	wtmuxdemo demo [-tmux tmux] [-session name]
//	wtmuxdemo attach [-tmux tmux] [-session name]
//
// The session name defaults to "wtmuxdemo". "demo" creates a detached
// session if none with that name exists yet (via a plain, non-control-mode
// tmux invocation — session creation policy is a host concern, left
// outside the driver per the Session Driver's collaborator contract) and
// then attaches to it in control mode. "attach" skips session creation and
// attaches directly, failing if the session doesn't already exist.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/elvisnm/wtmux/internal/demoui"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	sub := os.Args[1]
	switch sub {
	case "demo", "attach":
	default:
		usage()
		os.Exit(2)
	}

	fs := flag.NewFlagSet(sub, flag.ExitOnError)
	binary := fs.String("tmux", "tmux", "path to the tmux binary")
	session := fs.String("session", "wtmuxdemo", "tmux session name to attach to")
	fs.Parse(os.Args[2:])

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if sub == "demo" {
		if err := ensureSession(*binary, *session); err != nil {
			fmt.Fprintf(os.Stderr, "wtmuxdemo: %v\n", err)
			os.Exit(1)
		}
	}

	if err := run(*binary, *session, log); err != nil {
		fmt.Fprintf(os.Stderr, "wtmuxdemo: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: wtmuxdemo <demo|attach> [-tmux tmux] [-session name]")
}

// ensureSession creates a detached session named name if one doesn't
// already exist, sized to the real terminal so the first control-mode
// layout matches what the demo is about to render.
func ensureSession(binary, name string) error {
	check := exec.Command(binary, "has-session", "-t", name)
	if check.Run() == nil {
		return nil // already exists
	}

	w, h := 80, 24
	if cw, ch, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cw > 0 && ch > 0 {
		w, h = cw, ch
	}

	cmd := exec.Command(binary, "new-session", "-d", "-s", name,
		"-x", fmt.Sprintf("%d", w), "-y", fmt.Sprintf("%d", h))
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("new-session: %w: %s", err, out)
	}
	return nil
}

func run(binary, session string, log *slog.Logger) error {
	model := demoui.New(binary, session, log)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	model.SetProgram(program)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		model.Driver().Shutdown()
	}()

	_, err := program.Run()
	model.Driver().Shutdown()
	return err
}
