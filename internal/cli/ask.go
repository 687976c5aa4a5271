package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ppiankov/reportdesk/internal/assistant"
	"github.com/ppiankov/reportdesk/internal/render"
)

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Chat with the assistant",
	Long: `Sends a message to the assistant and prints the reply. Without a message,
reads one message per line from stdin and keeps the conversation going until
EOF.

A reply that offers to create a report is saved to the collection.

Examples:
  reportdesk ask "what should a post-mortem contain?"
  reportdesk ask`,
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := requireAPIKey(); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	ws, err := openWorkspace(ctx, false)
	if err != nil {
		return err
	}
	defer ws.Close()
	svc := newAssistant(ws.mgr)

	if len(args) > 0 {
		return askOnce(cmd, svc, strings.Join(args, " "))
	}

	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := askOnce(cmd, svc, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func askOnce(cmd *cobra.Command, svc *assistant.Service, message string) error {
	logDebug("sending %d chars to %s", len(message), cfg.Model)
	reply, err := svc.Send(commandContext(cmd), message)
	if errors.Is(err, assistant.ErrEmptyInput) {
		return &ValidationError{Message: "message is empty"}
	}
	if reply.Text != "" {
		printAnswer(reply.Text)
	}
	if err != nil {
		return fmt.Errorf("assistant: %w", err)
	}
	if reply.Created != nil {
		fmt.Printf("\nSaved as report %q (%s)\n", reply.Created.Title, reply.Created.ID)
	}
	return nil
}

// printAnswer renders markdown when stdout is a terminal and prints it raw otherwise.
func printAnswer(text string) {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		fmt.Println(strings.TrimRight(text, "\n"))
		return
	}
	width := 80
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		width = w
	}
	fmt.Println(render.Markdown(text, width))
}
