package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang.org/x/term"
)

// WaitForCancel returns a context that is canceled on Ctrl+C or SIGTERM.
func WaitForCancel(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// IsInteractive reports whether stdin is attached to a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm prompts the user for a yes/no answer. Piped stdin is read one line
// at a time; anything but "y" or "yes" is a no.
func Confirm(prompt string) (bool, error) {
	if !IsInteractive() {
		return confirmLine(os.Stdin, os.Stdout, prompt)
	}

	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return false, err
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	fmt.Print(prompt + " (y/n): ")

	b := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(b); err != nil {
			return false, err
		}

		if b[0] == 3 { // Ctrl+C
			fmt.Print("^C\r\n")
			return false, fmt.Errorf("cancelled")
		}

		switch strings.ToLower(string(b[0])) {
		case "y":
			fmt.Print("y\r\n")
			return true, nil
		case "n":
			fmt.Print("n\r\n")
			return false, nil
		}
	}
}

func confirmLine(r io.Reader, w io.Writer, prompt string) (bool, error) {
	fmt.Fprint(w, prompt+" (y/n): ")
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
