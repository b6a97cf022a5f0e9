package util

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/sidkik/libsync/pkg/errors"
)

// Mocked for unit testing.
var (
	stderr       io.Writer = os.Stderr
	exit                   = os.Exit
	isTerminal             = terminal.IsTerminal
	readPassword           = terminal.ReadPassword
	stdinFd                = int(os.Stdin.Fd())
)

// HandleFatalError handles errors that are severe enough to terminate the
// program.
func HandleFatalError(err error) {
	if _, ok := errors.RootCause(err).(interface{ FriendlyMessage() string }); ok {
		fmt.Fprintln(stderr, errors.GetPrintableMessage(err))
	} else {
		log.WithError(err).Error("Fatal error")
	}
	exit(1)
}

// HandleCommandError is like HandleFatalError, but also prints the usage of
// `cmd` if a required setting is missing.
func HandleCommandError(cmd *cobra.Command, err error) {
	if _, ok := errors.RootCause(err).(errors.MissingFieldError); ok {
		cmd.SetOutput(stderr)
		if err := cmd.Usage(); err != nil {
			log.WithError(err).Debug("Failed to print usage")
		}
		fmt.Fprintln(stderr)
	}
	HandleFatalError(err)
}

// HandlePanic logs a panic along with its stack trace, and exits. It must be
// deferred.
func HandlePanic() {
	if r := recover(); r != nil {
		log.WithField("stack", string(debug.Stack())).Errorf("Panic: %v", r)
		exit(1)
	}
}

// ReadAPIKey prompts for the Galaxy API key without echoing it. It fails if
// stdin isn't a terminal.
func ReadAPIKey() (string, error) {
	if !isTerminal(stdinFd) {
		return "", errors.New("stdin is not a terminal")
	}

	fmt.Fprint(stderr, "Galaxy API key: ")
	key, err := readPassword(stdinFd)
	fmt.Fprintln(stderr)
	if err != nil {
		return "", errors.WithContext(err, "read password")
	}
	return strings.TrimSpace(string(key)), nil
}

// SignalContext returns a context that's cancelled when the process is
// interrupted.
func SignalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigs:
			log.WithField("signal", sig).Info("Interrupted, stopping after the current request")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigs)
	}()
	return ctx, cancel
}
