package httpapi

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"os"

	"github.com/lucbsm2/DesafioBRY/cms"
	"github.com/lucbsm2/DesafioBRY/staging"
)

// HandleVerify checks whether an uploaded CMS/PKCS#7 signature is
// structurally valid and mathematically verifies against its embedded
// certificate.
// @Summary Verify a signed document
// @Description Verifies an uploaded detached CMS/PKCS#7 SignedData structure. The file may be either the raw DER bytes or a base64 encoding of them.
// @Tags Verification
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Signed document (CMS/PKCS#7)"
// @Success 200 {object} httpapi.VerifyResponse
// @Failure 400 {string} string "Falta o arquivo assinado (campo 'file')."
// @Failure 405 {string} string ""
// @Router /verify [POST]
func HandleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("panic handling verify request", "recover", rec)
			writeJSON(w, http.StatusOK, VerifyResponse{Status: cms.StatusInvalid})
		}
	}()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	staged, err := staging.Request(r, maxUploadSize)
	if err != nil {
		writeText(w, http.StatusBadRequest, "Falta o arquivo assinado (campo 'file').")
		return
	}
	defer staged.Cleanup()

	filePath, ok := staged["file"]
	if !ok {
		writeText(w, http.StatusBadRequest, "Falta o arquivo assinado (campo 'file').")
		return
	}

	raw, err := os.ReadFile(filePath)
	if err != nil {
		slog.Error("failed to read staged signed file", "error", err)
		writeJSON(w, http.StatusOK, VerifyResponse{Status: cms.StatusInvalid})
		return
	}

	der := decodeSignedFile(raw)
	result := cms.Verify(der)

	resp := VerifyResponse{Status: result.Status}
	if result.Valid {
		resp.Infos = &SignatureInfos{
			SignerName:    result.SignerName,
			SigningTime:   result.SigningTime,
			HashDocument:  result.HashHex,
			HashAlgorithm: result.HashAlgorithm,
		}
	}

	slog.Info("signature verified", "status", result.Status)
	writeJSON(w, http.StatusOK, resp)
}

// decodeSignedFile accepts either raw DER bytes or a base64 encoding of
// them, matching how /signature hands the signature back to callers.
func decodeSignedFile(raw []byte) []byte {
	if decoded, err := base64.StdEncoding.DecodeString(string(raw)); err == nil {
		return decoded
	}
	return raw
}
