package validation

import (
	"fmt"
	"strconv"
)

// MaxSearchLimit bounds the limit query parameter of repository search.
const MaxSearchLimit = 100

// SearchReposRequest mirrors the query parameters of GET /repos/search.
type SearchReposRequest struct {
	OrgID    string
	Provider string
	Limit    string
}

// ValidateSearchReposRequest validates a repository search. The query itself
// is free text; an empty query is valid and yields no results.
func ValidateSearchReposRequest(req SearchReposRequest) []FieldError {
	var errs []FieldError
	errs = append(errs, validateOrgID(req.OrgID)...)
	errs = append(errs, validateProvider(req.Provider)...)

	if req.Limit != "" {
		n, err := strconv.Atoi(req.Limit)
		if err != nil || n < 1 || n > MaxSearchLimit {
			errs = append(errs, FieldError{Field: "limit", Message: fmt.Sprintf("limit must be an integer between 1 and %d", MaxSearchLimit)})
		}
	}

	return errs
}
