package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/muyo/sno"
	"github.com/rotisserie/eris"

	"github.com/kaioribeiro97/simulacao-shp/pkg/config"
	"github.com/kaioribeiro97/simulacao-shp/pkg/convert"
	"github.com/kaioribeiro97/simulacao-shp/pkg/storage"
	"github.com/kaioribeiro97/simulacao-shp/pkg/weblog"
)

//go:embed templates/index.html
var templateFS embed.FS

const downloadName = "modelo_convertido.inp"

type handler struct {
	store *storage.Store
	cfg   *config.Config
	tmpl  *template.Template
}

func newHandler(store *storage.Store, cfg *config.Config) *handler {
	return &handler{
		store: store,
		cfg:   cfg,
		tmpl:  template.Must(template.ParseFS(templateFS, "templates/index.html")),
	}
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, nil); err != nil {
		weblog.Log(r.Context()).Error().Err(err).Msg("Failed to render the index page")
	}
}

func (h *handler) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

var (
	errMissingUpload  = eris.New("upload field missing from the form")
	errNoFileSelected = eris.New("upload field submitted without a file")
)

// uploadHeader returns the file header for an upload field. A file input
// submitted without a selection arrives as a blank form value instead of a
// file part, which is reported separately from a field that is absent
// altogether.
func uploadHeader(r *http.Request, field string) (*multipart.FileHeader, error) {
	if files := r.MultipartForm.File[field]; len(files) > 0 {
		if files[0].Filename == "" {
			return nil, errNoFileSelected
		}
		return files[0], nil
	}
	if _, ok := r.MultipartForm.Value[field]; ok {
		return nil, errNoFileSelected
	}
	return nil, errMissingUpload
}

// saveUpload copies an uploaded file to a temporary file so the shapefile
// reader can open it as a ZIP archive (which needs random access).
func saveUpload(fh *multipart.FileHeader) (string, func(), error) {
	src, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "upload-*.zip")
	if err != nil {
		return "", nil, err
	}

	cleanup := func() { os.Remove(tmp.Name()) }
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, err
	}

	return tmp.Name(), cleanup, nil
}

func (h *handler) convert(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.HTTP.MaxUploadMB<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Erro: Não foi possível processar o formulário.", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	nodesHeader, nodesErr := uploadHeader(r, "file_nodes")
	linksHeader, linksErr := uploadHeader(r, "file_links")
	if eris.Is(nodesErr, errMissingUpload) || eris.Is(linksErr, errMissingUpload) {
		http.Error(w, "Erro: Faltando um ou mais arquivos.", http.StatusBadRequest)
		return
	}
	if nodesErr != nil || linksErr != nil {
		http.Error(w, "Erro: Selecione os dois arquivos.", http.StatusBadRequest)
		return
	}

	record := &storage.Conversion{
		ID:        sno.New(0).String(),
		NodesFile: nodesHeader.Filename,
		LinksFile: linksHeader.Filename,
	}

	nodesPath, nodesCleanup, err := saveUpload(nodesHeader)
	if err != nil {
		weblog.Log(ctx).Error().Err(err).Msg("Failed to store the node upload")
		http.Error(w, "Erro: Não foi possível salvar os arquivos enviados.", http.StatusInternalServerError)
		return
	}
	defer nodesCleanup()

	linksPath, linksCleanup, err := saveUpload(linksHeader)
	if err != nil {
		weblog.Log(ctx).Error().Err(err).Msg("Failed to store the link upload")
		http.Error(w, "Erro: Não foi possível salvar os arquivos enviados.", http.StatusInternalServerError)
		return
	}
	defer linksCleanup()

	wn, err := convert.FromZips(nodesPath, linksPath)
	if err != nil {
		weblog.Log(ctx).Warn().Err(err).Msg("Conversion failed")
		record.DurationMS = time.Since(start).Milliseconds()
		record.Status = "error"
		record.Error = err.Error()
		h.record(r, record)

		http.Error(w, fmt.Sprintf("Ocorreu um erro: %v", err), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := wn.WriteInp(&buf); err != nil {
		weblog.Log(ctx).Error().Err(err).Msg("Failed to render the INP file")
		http.Error(w, "Erro: Não foi possível gerar o arquivo .inp.", http.StatusInternalServerError)
		return
	}

	record.DurationMS = time.Since(start).Milliseconds()
	record.Status = "ok"
	record.Junctions = wn.JunctionCount()
	record.Pipes = wn.PipeCount()
	h.record(r, record)

	weblog.Log(ctx).Info().
		Int("junctions", wn.JunctionCount()).
		Int("pipes", wn.PipeCount()).
		Msg("Conversion finished")

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+downloadName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}

// record stores a history entry; failures are logged but never surface to
// the client.
func (h *handler) record(r *http.Request, c *storage.Conversion) {
	if h.store == nil {
		return
	}

	if err := h.store.Record(r.Context(), c); err != nil {
		weblog.Log(r.Context()).Warn().Err(err).Msg("Failed to record conversion history")
	}
}

func (h *handler) history(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "conversion history is disabled", http.StatusNotFound)
		return
	}

	records, err := h.store.Recent(r.Context(), h.cfg.History.Limit)
	if err != nil {
		weblog.Log(r.Context()).Error().Err(err).Msg("Failed to load conversion history")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []storage.Conversion{}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(records); err != nil {
		weblog.Log(r.Context()).Error().Err(err).Msg("Failed to encode conversion history")
	}
}
