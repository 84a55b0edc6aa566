package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/runway/tender-boq/internal/boq"
)

func TestPrintBOQ(t *testing.T) {
	srv := newFakeRunway(t, 1)

	var buf bytes.Buffer
	require.NoError(t, printBOQ(context.Background(), &buf, newTestClient(srv.URL), "T1", boq.DefaultFilter()))

	out := buf.String()
	assert.Contains(t, out, "Road resurfacing")
	assert.Contains(t, out, "BOQ Extracted Items (2)")
	assert.Contains(t, out, "Cement")
	assert.Contains(t, out, "Steel bars")
}

func TestPrintBOQ_Filtered(t *testing.T) {
	srv := newFakeRunway(t, 1)

	var buf bytes.Buffer
	f := boq.FilterState{SelectedFile: boq.AllFiles, OnlyComplete: true}
	require.NoError(t, printBOQ(context.Background(), &buf, newTestClient(srv.URL), "T1", f))

	out := buf.String()
	assert.Contains(t, out, "BOQ Extracted Items (1)")
	assert.NotContains(t, out, "Steel bars")
}

func TestPrintBOQ_NotFound(t *testing.T) {
	srv := newFakeRunway(t, 1)

	var buf bytes.Buffer
	require.NoError(t, printBOQ(context.Background(), &buf, newTestClient(srv.URL), "X123", boq.DefaultFilter()))
	assert.Equal(t, "Tender not found: X123\n", buf.String())
}

func TestPrintBOQ_InvalidID(t *testing.T) {
	srv := newFakeRunway(t, 1)

	var buf bytes.Buffer
	err := printBOQ(context.Background(), &buf, newTestClient(srv.URL), "  ", boq.DefaultFilter())
	assert.Error(t, err)
}

func TestExportBOQ(t *testing.T) {
	srv := newFakeRunway(t, 1)
	path := filepath.Join(t.TempDir(), "boq.xlsx")

	var buf bytes.Buffer
	f := boq.FilterState{SelectedFile: "b.pdf"}
	require.NoError(t, exportBOQ(context.Background(), &buf, newTestClient(srv.URL), "T1", f, path))
	assert.Contains(t, buf.String(), "wrote 1 items")

	wb, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	rows := wb.Sheet["BOQ"].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, "Steel bars", rows[1].Cells[1].String())
}
