package console

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sync"

	"github.com/bronald/uhcd/internal/domain"
)

// uhcPrefix is the chat prefix prepended to every announcement
const uhcPrefix = `{"text":"[UHC] ","color":"yellow"}`

// Runner supervises the Minecraft server process and owns its console pipes.
// It classifies every stdout line into a typed event; unmatched lines are
// echoed for console watchers. The Events channel closes when the server
// process closes its output (end-of-stream), which ends the control loop.
type Runner struct {
	jar    string
	cmd    *exec.Cmd
	events chan domain.ConsoleEvent

	mu    sync.Mutex // serializes stdin writes
	stdin io.WriteCloser
}

// NewRunner creates a runner for the given server jar
func NewRunner(jar string) *Runner {
	return &Runner{
		jar:    jar,
		events: make(chan domain.ConsoleEvent, 100),
	}
}

// Start spawns the server process and begins classifying its output
func (r *Runner) Start() error {
	r.cmd = exec.Command("java", "-jar", r.jar, "nogui")
	r.cmd.Env = append(r.cmd.Environ(), "TERM=dumb")

	stdin, err := r.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("opening stdin pipe: %w", err)
	}
	r.stdin = stdin

	stdout, err := r.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("opening stdout pipe: %w", err)
	}
	r.cmd.Stderr = r.cmd.Stdout

	if err := r.cmd.Start(); err != nil {
		return fmt.Errorf("starting server process: %w", err)
	}
	log.Printf("Server process started (pid %d)", r.cmd.Process.Pid)

	go r.readLoop(stdout)
	return nil
}

// Events returns the classified event stream. The channel closes when the
// server's output ends.
func (r *Runner) Events() <-chan domain.ConsoleEvent {
	return r.events
}

// Wait blocks until the server process exits
func (r *Runner) Wait() error {
	return r.cmd.Wait()
}

// readLoop classifies stdout lines until end-of-stream
func (r *Runner) readLoop(stdout io.Reader) {
	defer close(r.events)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		event := Classify(line)
		if event == nil {
			continue
		}
		if event.Type == domain.ConsoleUnrecognized {
			// Pass through for console watchers
			fmt.Println(line)
		}
		select {
		case r.events <- *event:
		default:
			// Channel full, drop event
		}
	}
	if err := scanner.Err(); err != nil {
		log.Printf("Error reading server output: %v", err)
	}
	log.Println("Server output ended")
}

// Send writes a single command line to the server console. A trailing
// newline is appended; failures are returned but never retried.
func (r *Runner) Send(command string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stdin == nil {
		return fmt.Errorf("server not started")
	}
	if _, err := fmt.Fprintf(r.stdin, "%s\n", command); err != nil {
		return fmt.Errorf("writing to server console: %w", err)
	}
	return nil
}

// Announce sends a tellraw to the target selector. The message is one or
// more raw JSON text components; the adapter adds the [UHC] prefix.
func (r *Runner) Announce(target, message string) error {
	return r.Send("tellraw " + target + " [" + uhcPrefix + "," + message + "]")
}

// Apply sends an opaque world-mutation command
func (r *Runner) Apply(command string) error {
	return r.Send(command)
}

// Query sends a command whose answer arrives later on the event stream
func (r *Runner) Query(command string) error {
	return r.Send(command)
}

// Stop asks the server to shut down cleanly
func (r *Runner) Stop() {
	if err := r.Send("stop"); err != nil {
		log.Printf("Error sending stop: %v", err)
	}
}
