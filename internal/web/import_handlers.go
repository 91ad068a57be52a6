package web

import (
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/FACorreiaa/ledger/internal/domain/ingest"
	"github.com/FACorreiaa/ledger/internal/ledgererr"
)

type importFormView struct {
	Error  string
	Result *ingest.Result
}

// ImportForm renders the blank CSV upload form.
func (h *Handlers) ImportForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.tmpl, "import_form", "fragment:import_form", importFormView{})
}

// Import handles the multipart CSV upload (spec.md §4.3, §6's "CSV
// import" form contract). Each part is its own ingest.Service call, so a
// file that fails NotCSV/InvalidCSV doesn't roll back files already
// imported earlier in the same request.
func (h *Handlers) Import(w http.ResponseWriter, r *http.Request) {
	const maxUploadBytes = 32 << 20 // 32 MiB
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.renderImportError(w, r, ledgererr.Wrap(ledgererr.MultipartError, "failed to parse upload", err))
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		h.renderImportError(w, r, ledgererr.New(ledgererr.MultipartError, "no files uploaded"))
		return
	}

	accountName := r.FormValue("account")
	var last ingest.Result
	for _, fh := range files {
		if !isCSVUpload(fh) {
			h.renderImportError(w, r, ledgererr.New(ledgererr.NotCSV, fh.Filename+" is not a CSV file"))
			return
		}

		f, err := fh.Open()
		if err != nil {
			h.renderImportError(w, r, ledgererr.Wrap(ledgererr.MultipartError, "failed to open uploaded file", err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.renderImportError(w, r, ledgererr.Wrap(ledgererr.MultipartError, "failed to read uploaded file", err))
			return
		}

		result, err := h.ingestSvc.ImportFile(r.Context(), data, accountName)
		if err != nil {
			h.renderImportError(w, r, err)
			return
		}
		last = result
	}

	render(w, r, h.tmpl, "import_form", "fragment:import_form", importFormView{Result: &last})
}

// isCSVUpload reports whether an uploaded part looks like a CSV file,
// checked by filename extension first (browsers send inconsistent
// Content-Type values for CSV - text/csv, application/vnd.ms-excel, or
// generic application/octet-stream) and falling back to a declared
// text/csv Content-Type for extensionless uploads (spec.md §4.3: "Each
// file MUST be CSV; non-CSV content fails with NotCSV").
func isCSVUpload(fh *multipart.FileHeader) bool {
	if strings.HasSuffix(strings.ToLower(fh.Filename), ".csv") {
		return true
	}
	ct := fh.Header.Get("Content-Type")
	return strings.Contains(strings.ToLower(ct), "csv")
}

func (h *Handlers) renderImportError(w http.ResponseWriter, r *http.Request, err error) {
	w.WriteHeader(statusFor(ledgererr.KindOf(err)))
	render(w, r, h.tmpl, "import_form", "fragment:import_form", importFormView{Error: err.Error()})
}
