package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/clynamic/scrollstack/internal/apperror"
	"github.com/clynamic/scrollstack/internal/fetch"
	"github.com/clynamic/scrollstack/internal/service"
)

// ContentsHandler streams cached content bytes through the app's own
// origin, so external image URLs never leak to clients.
type ContentsHandler struct {
	contents *service.ContentsService
	client   *fetch.Client
	logger   *slog.Logger
}

func NewContentsHandler(contents *service.ContentsService, client *fetch.Client, logger *slog.Logger) *ContentsHandler {
	return &ContentsHandler{contents: contents, client: client, logger: logger}
}

// HandleStream handles GET /cdn/{id}: reads the content record, honors
// its expiry, and proxies the bytes from the underlying source with the
// stored MIME type.
func (h *ContentsHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	content, err := h.contents.Read(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	if content.Expired(time.Now()) {
		writeError(w, apperror.Expired("content", id))
		return
	}

	stream, err := h.client.Stream(r.Context(), content.Source)
	if err != nil {
		writeError(w, err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", content.Mime)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, stream); err != nil {
		// The response is already streaming; all we can do is log.
		h.logger.Warn("failed to stream content",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
	}
}
