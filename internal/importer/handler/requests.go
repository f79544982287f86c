package handler

import "leaguedesk/internal/importer/reconcile"

type importRequest struct {
	SeasonID string             `json:"season_id"`
	Rows     []reconcile.RawRow `json:"rows"`
	Options  importOptions      `json:"options"`
}

type importOptions struct {
	// OnlyActive skips rows whose active column is false.
	OnlyActive bool `json:"only_active"`
	// ClearWorkbondIfEmpty resets stored workbond compliance when the
	// incoming status column is empty, on any feed kind.
	ClearWorkbondIfEmpty bool `json:"clear_workbond_if_empty"`
}

type linkRequest struct {
	HouseholdID string `json:"household_id"`
}

type autoLinkRequest struct {
	SeasonID string `json:"season_id"`
}
