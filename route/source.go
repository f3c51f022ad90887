package route

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Source supplies the current path. The frame loop samples it once per frame.
type Source interface {
	Route(elapsed float64) string
}

// Static always reports the same path.
type Static string

func (s Static) Route(float64) string { return string(s) }

// Var is a path set by the navigation side of the frame loop. It is owned by
// the loop goroutine and not safe for concurrent use.
type Var struct {
	path string
}

func NewVar(path string) *Var {
	return &Var{path: path}
}

func (v *Var) Set(path string) { v.path = path }

func (v *Var) Route(float64) string { return v.path }

// Cue switches to Path once elapsed time reaches At seconds.
type Cue struct {
	At   float64
	Path string
}

// Script is a timeline of cues sorted by time.
type Script []Cue

// Route returns the path of the last cue at or before elapsed, or "/" before the first cue.
func (s Script) Route(elapsed float64) string {
	path := "/"
	for _, c := range s {
		if c.At > elapsed {
			break
		}
		path = c.Path
	}
	return path
}

// ParseScript parses "0:/,5:/projects,12.5:/about" into a Script.
func ParseScript(spec string) (Script, error) {
	var s Script
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		at, path, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("cue %q: expected <seconds>:<path>", part)
		}
		sec, err := strconv.ParseFloat(strings.TrimSpace(at), 64)
		if err != nil {
			return nil, fmt.Errorf("cue %q: %w", part, err)
		}
		if sec < 0 {
			return nil, fmt.Errorf("cue %q: negative time", part)
		}
		s = append(s, Cue{At: sec, Path: strings.TrimSpace(path)})
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("empty route script")
	}
	sort.SliceStable(s, func(i, j int) bool { return s[i].At < s[j].At })
	return s, nil
}
