package handler_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"leaguedesk/internal/importer/service"
)

func (s *HandlerSuite) buildWorkbook(rows [][]any) *bytes.Buffer {
	workbook := excelize.NewFile()
	sheet := workbook.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		s.Require().NoError(err)
		s.Require().NoError(workbook.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	s.Require().NoError(workbook.Write(&buf))
	return &buf
}

func (s *HandlerSuite) postSpreadsheet(fields map[string]string, workbook *bytes.Buffer) *httptest.ResponseRecorder {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		s.Require().NoError(writer.WriteField(key, value))
	}
	part, err := writer.CreateFormFile("file", "roster.xlsx")
	s.Require().NoError(err)
	_, err = part.Write(workbook.Bytes())
	s.Require().NoError(err)
	s.Require().NoError(writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/imports/spreadsheet", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestSpreadsheetImportExtractsRows() {
	workbook := s.buildWorkbook([][]any{
		{"First Name", "Last Name", "Guardian 1 Email"},
		{"Alex", "Reyes", "dana@example.com"},
		{"Jo", "Reyes", "dana@example.com"},
	})

	var captured service.Request
	s.service.EXPECT().
		ImportPlayers(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, req service.Request) (*service.Summary, error) {
			captured = req
			return &service.Summary{BatchID: "b", Created: 2}, nil
		})

	rec := s.postSpreadsheet(map[string]string{
		"season_id": "2026-spring",
		"kind":      "players",
	}, workbook)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("2026-spring", captured.SeasonID)
	s.Require().Len(captured.Rows, 2)
	s.Equal("Alex", captured.Rows[0]["first_name"])
	s.Equal("dana@example.com", captured.Rows[0]["guardian1_email"])
}

func (s *HandlerSuite) TestSpreadsheetImportUnknownKind() {
	workbook := s.buildWorkbook([][]any{
		{"Name", "Email"},
		{"Dana Reyes", "dana@example.com"},
	})

	rec := s.postSpreadsheet(map[string]string{
		"season_id": "2026-spring",
		"kind":      "referees",
	}, workbook)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestSpreadsheetImportRejectsGarbage() {
	rec := s.postSpreadsheet(map[string]string{"season_id": "2026-spring"}, bytes.NewBufferString("not a workbook"))
	s.Equal(http.StatusBadRequest, rec.Code)
}
