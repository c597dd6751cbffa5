package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/novalift/novaliftcom/internal/middleware"
	"github.com/novalift/novaliftcom/internal/telemetry/metrics"
	"github.com/novalift/novaliftcom/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type contactRepo interface {
	Create(ctx context.Context, fields Fields) (*Message, error)
}

type Handler struct {
	repo    contactRepo
	metrics *metrics.Manager
}

func NewHandler(repo contactRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:    repo,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	contactRouter := router.PathPrefix("/api/contact").Subrouter()
	contactRouter.HandleFunc("", handler.handleSubmit).Methods("POST", "OPTIONS").Name("submit-contact")
	contactRouter.Use(middleware.RateLimit(rateLimiter, "contact", allowedPerMin, handler.metrics))
}

func (handler *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		pkg.WriteTextResponseOK(w, "")
		return
	}

	var fields Fields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		log.Errorf("submit contact, unmarshal json params: %s", err)
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	if fields.Name == "" || fields.Email == "" || fields.Message == "" {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	// a full address check is pointless here, but a missing @ is never valid
	if !strings.Contains(fields.Email, "@") {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	newMessage, err := handler.repo.Create(r.Context(), fields)
	if err != nil {
		log.Errorf("submit contact failed: %s", err)
		http.Error(w, "failed to submit contact form", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterContactMessages.Inc()
	log.Tracef("contact message %d from [%s] received", newMessage.ID, newMessage.Email)

	messageJson, err := json.Marshal(newMessage)
	if err != nil {
		log.Errorf("marshal contact message %d: %s", newMessage.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, messageJson)
}
