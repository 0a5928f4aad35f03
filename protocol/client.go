// Package protocol implements the line-based client side of the judging
// server conversation: greet with the client name, read the level off the
// same stream, then send one joint action per line and read the per-agent
// boolean results. The wire owns stdout, so all diagnostics must go to
// stderr.
package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pdrpinto/gridplan"
	"github.com/pdrpinto/gridplan/level"
)

// Client speaks the server protocol over a reader/writer pair, normally
// stdin/stdout.
type Client struct {
	r *bufio.Reader
	w *bufio.Writer
}

func NewClient(r io.Reader, w io.Writer) *Client {
	return &Client{r: bufio.NewReader(r), w: bufio.NewWriter(w)}
}

// Greet sends the client name. The server answers with the level.
func (c *Client) Greet(name string) error {
	if _, err := fmt.Fprintln(c.w, name); err != nil {
		return err
	}
	return c.w.Flush()
}

// ReadLevel parses the level the server sends after the greeting.
func (c *Client) ReadLevel() (*level.Level, error) {
	return level.Parse(c.r)
}

// Comment sends a '#'-prefixed line the server logs but otherwise ignores.
func (c *Client) Comment(msg string) error {
	if _, err := fmt.Fprintf(c.w, "#%s\n", msg); err != nil {
		return err
	}
	return c.w.Flush()
}

// SendJoint sends one timestep and returns the server's per-agent verdict.
// A false entry means the server rejected that agent's action at execution
// time; the search treats every combination it emits as self-consistent,
// so a rejection indicates a model mismatch worth surfacing to the caller.
func (c *Client) SendJoint(joint []gridplan.Action) ([]bool, error) {
	if _, err := fmt.Fprintln(c.w, gridplan.FormatJoint(joint)); err != nil {
		return nil, err
	}
	if err := c.w.Flush(); err != nil {
		return nil, err
	}
	line, err := c.r.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("read action response: %w", err)
	}
	parts := strings.Split(strings.TrimRight(line, "\r\n"), "|")
	if len(parts) != len(joint) {
		return nil, fmt.Errorf("action response has %d entries, want %d", len(parts), len(joint))
	}
	oks := make([]bool, len(parts))
	for i, p := range parts {
		switch strings.TrimSpace(p) {
		case "true":
			oks[i] = true
		case "false":
			oks[i] = false
		default:
			return nil, fmt.Errorf("bad action response entry %q", p)
		}
	}
	return oks, nil
}

// SendPlan replays a whole plan, stopping at the first server rejection.
func (c *Client) SendPlan(plan [][]gridplan.Action) error {
	for step, joint := range plan {
		oks, err := c.SendJoint(joint)
		if err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		for agent, ok := range oks {
			if !ok {
				return fmt.Errorf("step %d: server rejected agent %d action %s", step, agent, joint[agent])
			}
		}
	}
	return nil
}
