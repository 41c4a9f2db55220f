package get_embed_config

import (
	"errors"
	"net/http"

	"github.com/m04kA/CRM-SchedulingService/internal/api/handlers"
	"github.com/m04kA/CRM-SchedulingService/internal/service/embedconfig"
)

const msgNotConfigured = "виджет не настроен"

type Handler struct {
	service EmbedConfigService
	logger  Logger
}

func NewHandler(service EmbedConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/embed-config
// Query params: domain (optional, домен страницы, запросившей виджет)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")

	result, err := h.service.Emit(r.Context())
	if err != nil {
		var cfgErr *embedconfig.ConfigurationError

		switch {
		case errors.As(err, &cfgErr):
			h.logger.Error("GET /embed-config - Not configured: domain=%s, reason=%s", domain, cfgErr.Reason)
			handlers.RespondErrorWithReason(w, http.StatusInternalServerError, msgNotConfigured, cfgErr.Reason)

		default:
			h.logger.Error("GET /embed-config - Failed to emit config: domain=%s, error=%v", domain, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /embed-config - Config emitted: domain=%s, services_count=%d",
		domain, len(result.ServiceCatalog))
	handlers.RespondJSON(w, http.StatusOK, result)
}
