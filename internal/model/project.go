package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/clynamic/scrollstack/internal/apperror"
)

// ProjectType discriminates how a stored project source is resolved.
// Only GitHub exists today; resolution switches exhaustively on the type
// so adding a kind is a compile-visible change.
type ProjectType int

const (
	ProjectTypeGitHub ProjectType = iota
)

var projectTypeNames = map[ProjectType]string{
	ProjectTypeGitHub: "GITHUB",
}

func (t ProjectType) String() string {
	if name, ok := projectTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ProjectType(%d)", int(t))
}

// ParseProjectType matches a type name case-insensitively.
func ParseProjectType(s string) (ProjectType, error) {
	for t, name := range projectTypeNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return 0, apperror.ValidationFailed("type", fmt.Sprintf("unknown project type: %q", s))
}

func (t ProjectType) MarshalJSON() ([]byte, error) {
	name, ok := projectTypeNames[t]
	if !ok {
		return nil, fmt.Errorf("model: cannot marshal unknown project type %d", int(t))
	}
	return json.Marshal(name)
}

func (t *ProjectType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseProjectType(name)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ProjectSource is the stored, unresolved pointer to a project. The raw
// source string is interpreted according to the type; for GitHub it must
// be "owner/repo". Validation is lazy: a malformed source is only
// rejected when the project is resolved, not when the row is written.
type ProjectSource struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Source string      `json:"source"`
	Type   ProjectType `json:"type"`
}

var ownerRepoPattern = regexp.MustCompile(`^([a-zA-Z0-9-]+)/([a-zA-Z0-9-]+)$`)

// OwnerAndRepo splits a GitHub source into its owner and repository parts.
func (s ProjectSource) OwnerAndRepo() (string, string, error) {
	if s.Type != ProjectTypeGitHub {
		return "", "", apperror.Unsupported(
			fmt.Sprintf("cannot get owner and repo for %s project", s.Type))
	}
	match := ownerRepoPattern.FindStringSubmatch(s.Source)
	if match == nil {
		return "", "", apperror.ValidationFailed("source",
			fmt.Sprintf("invalid source format: %q", s.Source))
	}
	return match[1], match[2], nil
}

type ProjectRequest struct {
	Name   string      `json:"name"`
	Source string      `json:"source"`
	Type   ProjectType `json:"type"`
}

type ProjectUpdate struct {
	Name   *string      `json:"name"`
	Source *string      `json:"source"`
	Type   *ProjectType `json:"type"`
}

// Project is the resolved, externally facing view of a project source.
// It is never persisted; every field beyond ID and Name comes from the
// remote system at request time. Source here is the full project URL.
type Project struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Source      string     `json:"source"`
	Description *string    `json:"description"`
	Updated     *time.Time `json:"updated"`
	Website     *string    `json:"website"`
	Language    *string    `json:"language"`
	Banner      *string    `json:"banner"`
	Stars       int        `json:"stars"`
}
