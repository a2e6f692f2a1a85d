package teamcrud

import (
	"strings"
	"sync"
)

// Field names a draft field that failed validation.
type Field string

const (
	FieldName  Field = "name"
	FieldRepos Field = "repos"
)

// User facing messages for each invalid field.
const (
	MsgNameRequired  = "Please enter a team name"
	MsgReposRequired = "Please select at least one repository"
)

// NameIsValid reports whether the draft has a non-blank name.
func NameIsValid(d Draft) bool {
	return strings.TrimSpace(d.Name) != ""
}

// RepoSelectionIsValid reports whether at least one repository is selected.
func RepoSelectionIsValid(d Draft) bool {
	return d.Len() > 0
}

// ValidationError lists the draft fields that block a save.
type ValidationError struct {
	Fields []Field
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return "invalid draft: " + strings.Join(names, ", ")
}

// Has reports whether f is among the failing fields.
func (e *ValidationError) Has(f Field) bool {
	for _, x := range e.Fields {
		if x == f {
			return true
		}
	}
	return false
}

// Message returns the notification shown for the first failing field.
func (e *ValidationError) Message() string {
	if e.Has(FieldName) {
		return MsgNameRequired
	}
	return MsgReposRequired
}

// Validate returns nil when d can be saved.
func Validate(d Draft) *ValidationError {
	var fields []Field
	if !NameIsValid(d) {
		fields = append(fields, FieldName)
	}
	if !RepoSelectionIsValid(d) {
		fields = append(fields, FieldRepos)
	}
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Gate holds the inline error flags the presentation layer renders.
// Flags start lowered and are recomputed on field change and on blur.
type Gate struct {
	mu        sync.Mutex
	nameError bool
	repoError bool
}

// RaiseNameError recomputes the name flag from d.
func (g *Gate) RaiseNameError(d Draft) {
	g.mu.Lock()
	g.nameError = !NameIsValid(d)
	g.mu.Unlock()
}

// RaiseRepoError recomputes the repository selection flag from d.
func (g *Gate) RaiseRepoError(d Draft) {
	g.mu.Lock()
	g.repoError = !RepoSelectionIsValid(d)
	g.mu.Unlock()
}

// NameError reports whether the name error should be shown.
func (g *Gate) NameError() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.nameError
}

// RepoError reports whether the repository selection error should be shown.
func (g *Gate) RepoError() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.repoError
}

// Reset lowers both flags.
func (g *Gate) Reset() {
	g.mu.Lock()
	g.nameError = false
	g.repoError = false
	g.mu.Unlock()
}
