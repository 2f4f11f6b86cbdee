package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/statehealth/scatter/internal/column"
	"github.com/statehealth/scatter/internal/transition"
)

// Action is a scripted user event.
type Action string

const (
	ActionClick Action = "click" // click an axis label
	ActionShow  Action = "show"  // click a mark
	ActionHide  Action = "hide"  // mouse out of a mark
)

// Event is one line of a script.
type Event struct {
	At     time.Duration
	Action Action
	Target string // label field or mark abbreviation
	Line   int
}

// Script is an ordered list of events.
type Script []Event

// LoadScript reads a script file.
func LoadScript(path string) (Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()
	return ParseScript(f)
}

// ParseScript reads events of the form "<offset> <action> <target>", one
// per line. Offsets are Go durations and must not decrease. Blank lines and
// lines starting with '#' are skipped.
func ParseScript(r io.Reader) (Script, error) {
	var (
		out  Script
		last time.Duration
	)
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("line %d: expected \"<offset> <action> <target>\", got %q", n, line)
		}
		at, err := time.ParseDuration(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		if at < last {
			return nil, fmt.Errorf("line %d: offset %v before previous %v", n, at, last)
		}
		last = at

		ev := Event{At: at, Action: Action(fields[1]), Target: fields[2], Line: n}
		switch ev.Action {
		case ActionClick:
			if _, err := column.ParseKey(ev.Target); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
		case ActionShow, ActionHide:
		default:
			return nil, fmt.Errorf("line %d: unknown action %q", n, ev.Action)
		}
		out = append(out, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	return out, nil
}

// Play applies the script to c, moving clock to each event's offset first.
func (s Script) Play(c *Chart, clock *transition.ManualClock) error {
	for _, ev := range s {
		clock.Set(ev.At)
		if err := ev.apply(c); err != nil {
			return fmt.Errorf("line %d: %w", ev.Line, err)
		}
	}
	return nil
}

func (ev Event) apply(c *Chart) error {
	switch ev.Action {
	case ActionClick:
		k, err := column.ParseKey(ev.Target)
		if err != nil {
			return err
		}
		c.ClickLabel(k)
		return nil
	case ActionShow, ActionHide:
		i, ok := c.Dataset().Index(ev.Target)
		if !ok {
			return fmt.Errorf("no mark %q", ev.Target)
		}
		if ev.Action == ActionShow {
			return c.ClickMark(i)
		}
		return c.MouseOut(i)
	}
	return fmt.Errorf("unknown action %q", ev.Action)
}
