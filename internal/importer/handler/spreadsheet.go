package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/xuri/excelize/v2"

	"leaguedesk/internal/importer/reconcile"
	"leaguedesk/internal/importer/service"
	domainerrors "leaguedesk/pkg/domain-errors"
)

// maxSpreadsheetBytes bounds uploads; a season's registration export is a
// few hundred kilobytes.
const maxSpreadsheetBytes = 16 << 20

// importSpreadsheet accepts an .xlsx upload and runs it as an import
// batch. The first sheet's first row supplies the column keys; the form's
// kind field selects the feed semantics.
func (h *Handler) importSpreadsheet(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxSpreadsheetBytes); err != nil {
		h.writeError(w, r, domainerrors.New(domainerrors.CodeBadRequest, "malformed multipart form"))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.writeError(w, r, domainerrors.New(domainerrors.CodeBadRequest, "missing spreadsheet file"))
		return
	}
	defer file.Close()

	rows, err := sheetRows(file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	req := service.Request{
		SeasonID:             r.FormValue("season_id"),
		Rows:                 rows,
		OnlyActive:           r.FormValue("only_active") == "true",
		ClearWorkbondIfEmpty: r.FormValue("clear_workbond_if_empty") == "true",
	}

	var summary *service.Summary
	switch kind := r.FormValue("kind"); kind {
	case "players", "":
		summary, err = h.service.ImportPlayers(r.Context(), req)
	case "volunteers":
		summary, err = h.service.ImportVolunteers(r.Context(), req)
	case "shifts":
		summary, err = h.service.ImportShifts(r.Context(), req)
	default:
		err = domainerrors.Newf(domainerrors.CodeBadRequest, "unknown import kind %q", kind)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

func sheetRows(file io.Reader) ([]reconcile.RawRow, error) {
	workbook, err := excelize.OpenReader(file)
	if err != nil {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "file is not a readable spreadsheet")
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "spreadsheet has no sheets")
	}
	cells, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "failed to read sheet")
	}
	if len(cells) < 2 {
		return nil, domainerrors.New(domainerrors.CodeBadRequest, "sheet has no data rows")
	}

	headers := make([]string, len(cells[0]))
	for i, raw := range cells[0] {
		headers[i] = headerKey(raw)
	}

	rows := make([]reconcile.RawRow, 0, len(cells)-1)
	for _, line := range cells[1:] {
		row := make(reconcile.RawRow, len(headers))
		for i, value := range line {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			row[headers[i]] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// headerKey lower-snake-cases a spreadsheet column title so "Guardian 1
// Email" and "guardian1_email" land on the same key.
func headerKey(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, " ", "_")
	key = strings.ReplaceAll(key, "__", "_")
	// Numbered guardian columns arrive as "guardian_1_email".
	key = strings.ReplaceAll(key, "guardian_1", "guardian1")
	key = strings.ReplaceAll(key, "guardian_2", "guardian2")
	return key
}
