package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kaioribeiro97/simulacao-shp/pkg/config"
	"github.com/kaioribeiro97/simulacao-shp/pkg/storage"
	"github.com/kaioribeiro97/simulacao-shp/pkg/testutil"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.HTTP.MaxUploadMB = 64
	cfg.History.Limit = 50
	return cfg
}

func testHandler(t *testing.T, store *storage.Store) *handler {
	t.Helper()
	return newHandler(store, testConfig())
}

func multipartBody(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, path := range files {
		fw, err := mw.CreateFormFile(field, filepath.Base(path))
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read fixture %s: %v", path, err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("failed to write form file: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to finish multipart body: %v", err)
	}

	return &body, mw.FormDataContentType()
}

func TestIndexPage(t *testing.T) {
	h := testHandler(t, nil)

	rec := httptest.NewRecorder()
	h.index(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	page := rec.Body.String()
	if !strings.Contains(page, `name="file_nodes"`) || !strings.Contains(page, `name="file_links"`) {
		t.Fatalf("upload form fields missing from page:\n%s", page)
	}
}

func TestHealthz(t *testing.T) {
	h := testHandler(t, nil)

	rec := httptest.NewRecorder()
	h.healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("unexpected healthz response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestConvertRejectsMissingFiles(t *testing.T) {
	h := testHandler(t, nil)

	nodesZip := testutil.NodesZip(t, []testutil.NodeFixture{{X: 0, Y: 0, Cota: 1, Demanda: 1}})
	body, contentType := multipartBody(t, map[string]string{"file_nodes": nodesZip})

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.convert(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Faltando") {
		t.Fatalf("unexpected error body: %q", rec.Body.String())
	}
}

func TestConvertRejectsEmptyFileField(t *testing.T) {
	h := testHandler(t, nil)

	nodesZip := testutil.NodesZip(t, []testutil.NodeFixture{{X: 0, Y: 0, Cota: 1, Demanda: 1}})

	// a file input submitted without a selection arrives as a blank form
	// value, not as a file part
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file_nodes", filepath.Base(nodesZip))
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	data, err := os.ReadFile(nodesZip)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.WriteField("file_links", ""); err != nil {
		t.Fatalf("WriteField failed: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to finish multipart body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.convert(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Selecione os dois arquivos") {
		t.Fatalf("unexpected error body: %q", rec.Body.String())
	}
}

func TestConvertRejectsOversizedUpload(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.MaxUploadMB = 1
	h := newHandler(nil, cfg)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file_nodes", "huge.zip")
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := fw.Write(make([]byte, 2<<20)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("failed to finish multipart body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.convert(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for an oversized upload, got %d", rec.Code)
	}
}

func TestConvertReturnsInpFile(t *testing.T) {
	store, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()
	h := testHandler(t, store)

	nodesZip := testutil.NodesZip(t, []testutil.NodeFixture{
		{X: 0, Y: 0, Cota: 10, Demanda: 100},
		{X: 1, Y: 0, Cota: 20, Demanda: 50},
	})
	linksZip := testutil.LinksZip(t, []testutil.LinkFixture{
		{Points: [][2]float64{{0, 0}, {1, 0}}, Diametro: 4, Extensao: 100, Rugosidade: 130},
	})

	body, contentType := multipartBody(t, map[string]string{
		"file_nodes": nodesZip,
		"file_links": linksZip,
	})

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.convert(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, downloadName) {
		t.Fatalf("unexpected Content-Disposition: %q", cd)
	}

	out, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if !strings.Contains(string(out), "[JUNCTIONS]") || !strings.Contains(string(out), "Headloss            H-W") {
		t.Fatalf("response is not an INP file:\n%s", out)
	}

	// the conversion has to show up in the history
	records, err := store.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(records) != 1 || records[0].Status != "ok" {
		t.Fatalf("unexpected history records: %+v", records)
	}
	if records[0].Junctions != 2 || records[0].Pipes != 1 {
		t.Fatalf("unexpected history counts: %+v", records[0])
	}
}

func TestConvertReportsConversionErrors(t *testing.T) {
	h := testHandler(t, nil)

	emptyZip := testutil.EmptyZip(t)
	linksZip := testutil.LinksZip(t, []testutil.LinkFixture{
		{Points: [][2]float64{{0, 0}, {1, 0}}, Diametro: 4, Extensao: 100, Rugosidade: 130},
	})

	body, contentType := multipartBody(t, map[string]string{
		"file_nodes": emptyZip,
		"file_links": linksZip,
	})

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.convert(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Ocorreu um erro:") {
		t.Fatalf("unexpected error body: %q", rec.Body.String())
	}
	// the wrapped cause has to be in Portuguese as well
	if !strings.Contains(rec.Body.String(), "Não foi possível encontrar o arquivo .shp") {
		t.Fatalf("error cause is not localized: %q", rec.Body.String())
	}
}

func TestHistoryEndpoint(t *testing.T) {
	store, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	err = store.Record(context.Background(), &storage.Conversion{ID: "a", Status: "ok", Junctions: 5, Pipes: 4})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	h := testHandler(t, store)
	rec := httptest.NewRecorder()
	h.history(rec, httptest.NewRequest(http.MethodGet, "/api/conversions", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var records []storage.Conversion
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if len(records) != 1 || records[0].ID != "a" {
		t.Fatalf("unexpected history response: %+v", records)
	}
}

func TestHistoryEndpointWithoutStore(t *testing.T) {
	h := testHandler(t, nil)

	rec := httptest.NewRecorder()
	h.history(rec, httptest.NewRequest(http.MethodGet, "/api/conversions", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}
