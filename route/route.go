// Package route classifies navigation paths into the view modes that drive
// the scene, and provides the sources the frame loop samples them from.
package route

import "strings"

// Mode is the camera/behaviour regime selected by a route.
type Mode int

const (
	Other Mode = iota
	Home
	ProjectsOverview
	ProjectDetail
	About
)

const projectsPrefix = "/projects/"

func (m Mode) String() string {
	switch m {
	case Home:
		return "home"
	case ProjectsOverview:
		return "projects"
	case ProjectDetail:
		return "project-detail"
	case About:
		return "about"
	default:
		return "other"
	}
}

// Classify maps a path to its view mode. Trailing slashes are ignored, so
// "/projects/" is the overview and "/about/" is the about page.
func Classify(path string) Mode {
	p := Normalize(path)
	switch {
	case p == "/":
		return Home
	case p == "/projects":
		return ProjectsOverview
	case p == "/about":
		return About
	case strings.HasPrefix(p, projectsPrefix):
		return ProjectDetail
	default:
		return Other
	}
}

// Slug returns the segment after "/projects/" for detail routes.
func Slug(path string) (string, bool) {
	p := Normalize(path)
	if !strings.HasPrefix(p, projectsPrefix) {
		return "", false
	}
	return strings.TrimPrefix(p, projectsPrefix), true
}

// Sharp reports whether the background is shown without the dim/blur treatment.
func (m Mode) Sharp() bool {
	return m == Home || m == ProjectDetail
}

// Normalize reduces a location to its pathname: query and fragment are
// dropped, a leading slash is added and trailing slashes are trimmed.
func Normalize(path string) string {
	p := strings.TrimSpace(path)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = p[:len(p)-1]
	}
	return p
}
