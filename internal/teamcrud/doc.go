// Package teamcrud orchestrates the lifecycle of a team draft: field
// validation, repository search and selection, and the save/discard
// transaction against the repo teams API.
//
// The pieces are usable on their own (Gate, SearchProvider, TeamStore,
// SaveOrchestrator) and are composed by CRUD, which is constructed once
// and handed to the presentation layer.
package teamcrud
