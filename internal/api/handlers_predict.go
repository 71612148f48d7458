package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/healwise/server/internal/geo"
	"github.com/healwise/server/internal/predict"
	"github.com/healwise/server/internal/store"
)

type predictRequest struct {
	Symptoms []string `json:"symptoms"`
}

type predictResponse struct {
	predict.Result
	Symptoms []string `json:"symptoms"`
	RecordID string   `json:"record_id,omitempty"`
}

// handleSymptoms exposes the schema for clients building the checklist UI.
func (s *Server) handleSymptoms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"symptoms": s.Pipeline.Schema()})
}

func (s *Server) handlePredict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	result, err := s.Pipeline.Predict(req.Symptoms)
	if errors.Is(err, predict.ErrNoSymptoms) {
		// Defined outcome, not a failure: the caller simply selected nothing.
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "no_symptoms",
			"message": "Please select at least one symptom to proceed.",
		})
		return
	}
	if err != nil {
		log.Printf("prediction failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "prediction_failed"})
		return
	}

	resp := predictResponse{Result: *result, Symptoms: req.Symptoms}

	// Persist into the caller's history when authenticated. A failed write
	// must not cost the caller their answer; it is logged and the response
	// still carries the computed result.
	if userID := c.GetString(ctxUserID); userID != "" && s.Store != nil {
		rec := &store.PredictionRecord{
			OwnerID:     &userID,
			Disease:     result.Disease,
			Specialist:  result.Specialist,
			Confidence:  result.Confidence,
			Symptoms:    req.Symptoms,
			Description: result.Description,
		}
		id, err := s.Store.SavePrediction(c.Request.Context(), rec)
		if err != nil {
			log.Printf("prediction record for user %s not saved: %v", userID, err)
		} else {
			resp.RecordID = id
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListPredictions(c *gin.Context) {
	if s.Store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history unavailable"})
		return
	}
	records, err := s.Store.ListPredictionsByOwner(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		log.Printf("list predictions failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if records == nil {
		records = []store.PredictionRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"predictions": records})
}

func (s *Server) handleGeoFacilities(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter q"})
		return
	}
	limit := 5
	if v, err := parsePositiveInt(c.Query("limit")); err == nil {
		limit = v
	}

	places, err := s.Geo.Search(c.Request.Context(), query, limit)
	if err != nil {
		log.Printf("geo search failed: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "geo lookup failed"})
		return
	}
	if places == nil {
		places = []geo.Place{}
	}
	c.JSON(http.StatusOK, gin.H{"places": places})
}

func parsePositiveInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("not positive: %d", v)
	}
	return v, nil
}
