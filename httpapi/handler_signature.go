package httpapi

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"os"

	"github.com/lucbsm2/DesafioBRY/cms"
	"github.com/lucbsm2/DesafioBRY/credential"
	"github.com/lucbsm2/DesafioBRY/staging"
)

const maxUploadSize = 32 << 20 // 32 MB

// HandleSignature signs an uploaded document with an uploaded PKCS#12
// credential.
// @Summary Sign a document
// @Description Signs the uploaded file with the private key and certificate found in the uploaded PKCS#12 (.p12/.pfx) bundle, returning a detached CMS/PKCS#7 SignedData structure.
// @Tags Signing
// @Accept multipart/form-data
// @Produce plain
// @Param file formData file true "Document to sign"
// @Param p12 formData file true "PKCS#12 credential bundle"
// @Param password formData string true "PKCS#12 bundle password"
// @Success 200 {string} string "base64-encoded CMS SignedData"
// @Failure 400 {string} string "Missing parameters: file, p12, or password."
// @Failure 405 {string} string ""
// @Failure 500 {string} string "Failed to sign document."
// @Router /signature [POST]
func HandleSignature(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("panic handling signature request", "recover", rec)
			writeText(w, http.StatusInternalServerError, "Internal server error")
		}
	}()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	staged, err := staging.Request(r, maxUploadSize)
	if err != nil {
		writeText(w, http.StatusBadRequest, "Missing parameters: file, p12, or password.")
		return
	}
	defer staged.Cleanup()

	password := r.FormValue("password")
	documentPath, haveDocument := staged["file"]
	p12Path, haveP12 := staged["p12"]

	if !haveDocument || !haveP12 || password == "" {
		writeText(w, http.StatusBadRequest, "Missing parameters: file, p12, or password.")
		return
	}

	bundle, err := credential.Load(p12Path, password)
	if err != nil {
		slog.Error("failed to load PKCS#12 credential", "error", err)
		writeText(w, http.StatusInternalServerError, "Failed to sign document.")
		return
	}
	defer bundle.Release()

	content, err := os.ReadFile(documentPath)
	if err != nil {
		slog.Error("failed to read staged document", "error", err)
		writeText(w, http.StatusInternalServerError, "Failed to sign document.")
		return
	}

	signer := cms.NewSigner(bundle)
	der, err := signer.Sign(content)
	if err != nil {
		slog.Error("failed to sign document", "error", err)
		writeText(w, http.StatusInternalServerError, "Failed to sign document.")
		return
	}

	slog.Info("document signed", "bytes", len(content), "signature_bytes", len(der))

	writeText(w, http.StatusOK, base64.StdEncoding.EncodeToString(der))
}
