package teamcrud

import "github.com/daap14/repoteams/internal/team"

// Draft is an unsaved team: a name and an ordered set of repositories,
// unique by repository id. The zero value is an empty draft.
type Draft struct {
	Name  string
	repos []team.Repository
}

// NewDraft builds a draft; duplicate repositories are dropped.
func NewDraft(name string, repos ...team.Repository) Draft {
	d := Draft{Name: name}
	d.SetSelection(repos)
	return d
}

// Select appends repo unless a repository with the same id is already selected.
// It reports whether the selection changed.
func (d *Draft) Select(repo team.Repository) bool {
	if d.Contains(repo.ID) {
		return false
	}
	d.repos = append(d.repos, repo)
	return true
}

// Deselect removes the repository with the given id and reports whether it was present.
func (d *Draft) Deselect(id string) bool {
	for i, r := range d.repos {
		if r.ID == id {
			d.repos = append(d.repos[:i:i], d.repos[i+1:]...)
			return true
		}
	}
	return false
}

// SetSelection replaces the selection, keeping the first occurrence of each id.
func (d *Draft) SetSelection(repos []team.Repository) {
	d.repos = nil
	for _, r := range repos {
		d.Select(r)
	}
}

// Contains reports whether a repository with the given id is selected.
func (d Draft) Contains(id string) bool {
	for _, r := range d.repos {
		if r.ID == id {
			return true
		}
	}
	return false
}

// Selected returns a copy of the selection in selection order.
func (d Draft) Selected() []team.Repository {
	out := make([]team.Repository, len(d.repos))
	copy(out, d.repos)
	return out
}

// Len returns the number of selected repositories.
func (d Draft) Len() int {
	return len(d.repos)
}

// Clone returns a draft that shares no memory with d.
func (d Draft) Clone() Draft {
	return Draft{Name: d.Name, repos: d.Selected()}
}

// Reset empties the draft.
func (d *Draft) Reset() {
	d.Name = ""
	d.repos = nil
}

// Payload builds the org_repos body of a create request; every selected
// repository is listed under orgName with its id as idempotency key.
func (d Draft) Payload(orgName string) team.OrgRepos {
	details := make([]team.RepoUniqueDetails, 0, len(d.repos))
	for _, r := range d.repos {
		details = append(details, r.UniqueDetails())
	}
	return team.OrgRepos{orgName: details}
}
