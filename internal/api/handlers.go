package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/strfmt"

	"github.com/foxzi/campaignmock/internal/campaign"
	"github.com/foxzi/campaignmock/internal/metrics"
	"github.com/foxzi/campaignmock/internal/openapi"
)

// List query parameters
const (
	ParamAutomation = "filters[automation]"
	ParamOrderSend  = "orders[sdate]"
	ParamOrderLast  = "orders[ldate]"
	ParamLimit      = "limit"
	ParamOffset     = "offset"
)

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: strfmt.DateTime(s.now().UTC()),
		Campaigns: s.corpus.Len(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleOpenAPIJSON handles GET /openapi.json
func (s *Server) handleOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(s.doc.JSON())
}

// handleOpenAPIPage handles GET /openapi
func (s *Server) handleOpenAPIPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := openapi.WriteReferencePage(w, s.doc.Title(), "/openapi.json"); err != nil {
		s.logger.Error("failed to render API reference", "error", err)
	}
}

// handleListCampaigns handles GET /api/3/campaigns
func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	field, direction := campaign.OrderBy(params.Get(ParamOrderSend), params.Get(ParamOrderLast))
	q := campaign.Query{
		Automation:    params.Get(ParamAutomation),
		SortField:     field,
		SortDirection: direction,
		Limit:         params.Get(ParamLimit),
		Offset:        params.Get(ParamOffset),
	}

	page := campaign.Process(s.corpus, q)
	metrics.ObserveQueryResults(len(page.Campaigns), q.Filtered())

	s.sendJSON(w, http.StatusOK, NewListResponse(page))
}

// handleGetCampaign handles GET /api/3/campaigns/{campaignID}
func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaign.ParseID(chi.URLParam(r, "campaignID"))
	if !ok {
		s.sendError(w, http.StatusNotFound, "Campaign not found")
		return
	}

	c, found := s.corpus.Find(id)
	if !found {
		s.sendError(w, http.StatusNotFound, "Campaign not found")
		return
	}

	s.sendJSON(w, http.StatusOK, CampaignResponse{Campaign: NewCampaignResource(c)})
}

// handleNotImplemented answers platform routes the mock does not emulate
func (s *Server) handleNotImplemented(w http.ResponseWriter, r *http.Request) {
	s.sendError(w, http.StatusNotImplemented, "Not implemented")
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.sendError(w, http.StatusNotFound, "Not found")
}

// sendJSON sends a JSON response
func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, ErrorResponse{Message: message})
}
