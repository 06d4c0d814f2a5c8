package httpapi

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/domain/interfaces"
	"github.com/ochairo/buildplan/internal/domain/services"
)

// maxManifestBytes is the maximum accepted manifest size (1 MB).
const maxManifestBytes = 1 << 20

// DecodeFunc turns a manifest document into a manifest entity
type DecodeFunc func(data []byte) (*entities.Manifest, error)

// PlanHandler resolves manifests posted to /v1/plans. It keeps no per-request
// state, so concurrent requests never interact.
type PlanHandler struct {
	resolver   *services.ResolverService
	catalog    entities.BomCatalog
	decodeYAML DecodeFunc
	decodeHCL  DecodeFunc
	logger     interfaces.Logger
}

// NewPlanHandler creates a plan handler. The catalog must not be modified
// after the handler starts serving.
func NewPlanHandler(
	resolver *services.ResolverService,
	catalog entities.BomCatalog,
	decodeYAML, decodeHCL DecodeFunc,
	logger interfaces.Logger,
) *PlanHandler {
	return &PlanHandler{
		resolver:   resolver,
		catalog:    catalog,
		decodeYAML: decodeYAML,
		decodeHCL:  decodeHCL,
		logger:     interfaces.OrNoOp(logger),
	}
}

// CreatePlan handles POST /v1/plans. The body is a YAML manifest, or HCL when
// Content-Type is application/hcl. The plan is returned as JSON, or YAML when
// the client accepts application/yaml.
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	decode, ok := h.decoderFor(r.Header.Get("Content-Type"))
	if !ok {
		writeRequestError(w, http.StatusUnsupportedMediaType, kindUnsupportedMediaType,
			"content type must be application/yaml or application/hcl")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxManifestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeRequestError(w, http.StatusRequestEntityTooLarge, kindTooLarge, "manifest exceeds 1 MB")
			return
		}
		writeRequestError(w, http.StatusBadRequest, kindBadRequest, "failed to read request body")
		return
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		writeRequestError(w, http.StatusBadRequest, kindBadRequest, "request body is empty")
		return
	}

	manifest, err := decode(body)
	if err != nil {
		writeError(w, err)
		return
	}

	plan, err := h.resolver.Resolve(manifest, h.catalog)
	if err != nil {
		h.logger.Debug("Plan request rejected", interfaces.F("error", err.Error()))
		writeError(w, err)
		return
	}

	if acceptsYAML(r.Header.Get("Accept")) {
		data, err := yaml.Marshal(plan)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

func (h *PlanHandler) decoderFor(contentType string) (DecodeFunc, bool) {
	if contentType == "" {
		return h.decodeYAML, true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false
	}

	switch mediaType {
	case "application/hcl", "text/hcl":
		return h.decodeHCL, h.decodeHCL != nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/plain", "application/octet-stream":
		return h.decodeYAML, true
	default:
		return nil, false
	}
}

func acceptsYAML(accept string) bool {
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if mediaType == "application/yaml" || mediaType == "application/x-yaml" || mediaType == "text/yaml" {
			return true
		}
	}
	return false
}
