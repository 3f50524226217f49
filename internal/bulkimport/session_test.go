package bulkimport

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alumni/internal/alumni"
)

func TestSessionEndToEnd(t *testing.T) {
	input := strings.Join([]string{
		header,
		"A1,Ann,1999-01-01,CS,2022,12345,Employed",
		"A2,Bob,1999-01-01,CS,2022,12345,Entrepreneur",
		"A3,Cy,1999-01-01,CS,2022,123,Employed",
	}, "\n")
	s, err := NewSession("alumni.csv", strings.NewReader(input), NewIDSet())
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, StateIdle, s.State)
	assert.Equal(t, Summary{Total: 3, Parsed: 3, Valid: 2, Invalid: 1}, s.Preview.Summary())

	creator := CreatorFunc(func(_ context.Context, rec alumni.Record) (CreateResponse, error) {
		if rec.AlumniID == "A2" {
			return CreateResponse{Success: false, Message: "Alumni ID already exists"}, nil
		}
		return CreateResponse{Success: true, Message: "Inserted successfully"}, nil
	})

	var calls int
	res, err := s.Import(context.Background(), NewImporter(creator, -1, nil), func(Progress) { calls++ })
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, StateCompleted, s.State)
	assert.Equal(t, 2, s.Progress)
	assert.Same(t, res, s.Result)

	_, err = s.Import(context.Background(), NewImporter(creator, -1, nil), nil)
	assert.ErrorIs(t, err, ErrSessionStarted)
}

func TestSessionNothingToImport(t *testing.T) {
	s, err := NewSession("x.csv", csvOf(header, "A1,,,,,,"), nil)
	require.NoError(t, err)
	_, err = s.Import(context.Background(), NewImporter(&fakeCreator{}, -1, nil), nil)
	assert.ErrorIs(t, err, ErrNothingToImport)
	assert.Equal(t, StateIdle, s.State)
}

func TestSessionPropagatesParseErrors(t *testing.T) {
	_, err := NewSession("x.csv", strings.NewReader(header), nil)
	assert.ErrorIs(t, err, ErrNoDataRows)
}

func TestWriteReports(t *testing.T) {
	p, err := Parse(csvOf(
		header,
		"A1,Ann,1999-01-01,CS,2022,12345,Employed",
		"A2,Bob",
		"A3,,1999-01-01,CS,2022,12345,Employed",
	), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePreview(&buf, p))
	out := buf.String()
	assert.Contains(t, out, "Total rows: 3  Valid: 1  Invalid: 2")
	assert.Contains(t, out, "A2 | Bob")
	assert.Contains(t, out, "Incorrect number of columns")
	assert.Contains(t, out, "Name is required")

	buf.Reset()
	require.NoError(t, WriteResult(&buf, &Result{
		State:     StateCompleted,
		Succeeded: 2,
		Failed:    1,
		Failures:  []Failure{{Record: validRecord("A9"), Message: "server down"}},
	}))
	assert.Contains(t, buf.String(), "Imported: 2  Skipped: 0  Failed: 1  (completed)")
	assert.Contains(t, buf.String(), "server down")
}

func TestCheckFile(t *testing.T) {
	assert.NoError(t, CheckFile("alumni.csv", 10))
	assert.NoError(t, CheckFile("ALUMNI.TXT", MaxFileSize))
	assert.ErrorIs(t, CheckFile("alumni.xlsx", 10), ErrUnsupportedFile)
	assert.ErrorIs(t, CheckFile("alumni", 10), ErrUnsupportedFile)
	assert.ErrorIs(t, CheckFile("alumni.csv", MaxFileSize+1), ErrFileTooLarge)
}

func TestExportedCSVImportsBack(t *testing.T) {
	rec := validRecord("A1")
	rec.Name = "Doe, Jane"
	require.Empty(t, ValidateRecord(rec, nil))

	var buf bytes.Buffer
	require.NoError(t, alumni.WriteCSV(&buf, []alumni.Alumnus{{ID: "1", Record: rec}}))

	p, err := Parse(&buf, nil)
	require.NoError(t, err)
	require.Len(t, p.Valid, 1)
	assert.Equal(t, rec, p.Valid[0].Record)
}
