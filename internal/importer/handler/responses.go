package handler

import "leaguedesk/internal/roster/models"

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type linkResponse struct {
	RecordID    string `json:"record_id"`
	HouseholdID string `json:"household_id"`
}

type autoLinkResponse struct {
	Linked int `json:"linked"`
}

type unmatchedListResponse struct {
	Records []*models.UnmatchedRecord `json:"records"`
}
