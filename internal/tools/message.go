package tools

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// EndOfSession is returned by Dispatch when a message carries no command or
// signals that the agent is finished.
const EndOfSession = "End."

var (
	commandPattern = regexp.MustCompile(`(?m)^Command: (\S+)[ \t]*(.*)$`)
	blockPattern   = regexp.MustCompile("(?s)```(?:\\w+)?\\s*(.*?)```")
	argPattern     = regexp.MustCompile(`(?:"[^"]*"|'[^']*'|\S)+`)
)

var doneWords = map[string]bool{
	"none":     true,
	"done":     true,
	"finished": true,
}

// Message is a command extracted from free-form agent output.
type Message struct {
	Command string
	Args    []string

	// Block is the content of the first fenced code block, if any.
	Block    string
	HasBlock bool
}

// Done reports whether the message ends the session.
func (m Message) Done() bool {
	return m.Command == "" || doneWords[strings.TrimSuffix(m.Command, ".")]
}

// CallArgs returns the positional arguments with the fenced block appended.
func (m Message) CallArgs() []string {
	args := append([]string(nil), m.Args...)
	if m.HasBlock {
		args = append(args, m.Block)
	}
	return args
}

// ParseMessage extracts the first "Command:" line and the first fenced block
// from content. Command names are case-insensitive.
func ParseMessage(content string) Message {
	var msg Message
	if match := commandPattern.FindStringSubmatch(content); match != nil {
		msg.Command = strings.ToLower(match[1])
		msg.Args = SplitArgs(match[2])
	}
	if match := blockPattern.FindStringSubmatch(content); match != nil {
		msg.Block = match[1]
		msg.HasBlock = true
	}
	return msg
}

// SplitArgs splits on whitespace, keeping quoted segments together and
// removing a pair of quotes that wraps a whole argument.
func SplitArgs(s string) []string {
	matches := argPattern.FindAllString(s, -1)
	args := make([]string, 0, len(matches))
	for _, m := range matches {
		if len(m) >= 2 && (m[0] == '"' || m[0] == '\'') && m[len(m)-1] == m[0] {
			m = m[1 : len(m)-1]
		}
		args = append(args, m)
	}
	return args
}

// Dispatch parses content and runs the command it names. Failures are
// reported as text so the reply can be fed back to the agent.
func (r *Registry) Dispatch(ctx context.Context, content string) string {
	msg := ParseMessage(content)
	if msg.Done() {
		return EndOfSession
	}
	out, err := r.Execute(ctx, msg.Command, msg.CallArgs())
	switch {
	case errors.Is(err, ErrToolNotFound):
		return "Error: Command not found"
	case errors.Is(err, ErrArgumentCount):
		return fmt.Sprintf("Error: Arguments must be specified correctly: %v", err)
	case err != nil:
		return fmt.Sprintf("Error executing command: %v", err)
	}
	return out
}
