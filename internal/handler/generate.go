package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Vamshik07/marketmind/internal/ai"
	"github.com/Vamshik07/marketmind/internal/middleware"
	"github.com/Vamshik07/marketmind/internal/model"
	"github.com/Vamshik07/marketmind/internal/service"
)

// GenerateHandler serves the AI generation endpoints. They are thin
// pass-throughs: build a prompt, call the generator, record the
// result in the user's history.
type GenerateHandler struct {
	Gen     ai.TextGenerator
	History *service.HistoryService
}

func NewGenerateHandler(gen ai.TextGenerator, hist *service.HistoryService) *GenerateHandler {
	return &GenerateHandler{Gen: gen, History: hist}
}

type campaignReq struct {
	Product  string `json:"product"`
	Audience string `json:"audience"`
	Platform string `json:"platform"`
}
type pitchReq struct {
	Product string `json:"product"`
	Persona string `json:"persona"`
}
type leadReq struct {
	Name    string `json:"name"`
	Budget  string `json:"budget"`
	Need    string `json:"need"`
	Urgency string `json:"urgency"`
}

// generate runs the prompt and appends a history entry on success.
func (h *GenerateHandler) generate(c echo.Context, uid uint64, prompt, pageTitle, actionType string, meta func(result string) model.Metadata) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Minute)
	defer cancel()

	result, err := h.Gen.Generate(ctx, prompt)
	if err != nil {
		c.Logger().Errorf("generate: %s for user %d failed: %v", actionType, uid, err)
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "message": "Generation failed. Please try again later."})
	}

	if _, err := h.History.Record(ctx, model.HistoryEntry{
		UserID:     uid,
		PageURL:    c.Request().URL.Path,
		PageTitle:  pageTitle,
		ActionType: actionType,
		Metadata:   meta(result),
		IPAddress:  c.RealIP(),
		UserAgent:  c.Request().UserAgent(),
	}); err != nil {
		c.Logger().Errorf("generate: history record for user %d failed: %v", uid, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "result": result})
}

// Campaign generates a marketing campaign strategy.
func (h *GenerateHandler) Campaign(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "User not authenticated"})
	}
	var req campaignReq
	if err := c.Bind(&req); err != nil || req.Product == "" || req.Audience == "" || req.Platform == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Missing required fields"})
	}
	prompt := ai.CampaignPrompt(req.Product, req.Audience, req.Platform)
	return h.generate(c, uid, prompt, "Campaign Generator", model.ActionCampaignGenerated, func(result string) model.Metadata {
		return model.CampaignMetadata(req.Product, req.Audience, req.Platform, result)
	})
}

// Pitch generates a sales pitch.
func (h *GenerateHandler) Pitch(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "User not authenticated"})
	}
	var req pitchReq
	if err := c.Bind(&req); err != nil || req.Product == "" || req.Persona == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Missing required fields"})
	}
	prompt := ai.PitchPrompt(req.Product, req.Persona)
	return h.generate(c, uid, prompt, "Pitch Generator", model.ActionPitchGenerated, func(result string) model.Metadata {
		return model.PitchMetadata(req.Product, req.Persona, result)
	})
}

// LeadScore qualifies a sales lead.
func (h *GenerateHandler) LeadScore(c echo.Context) error {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "User not authenticated"})
	}
	var req leadReq
	if err := c.Bind(&req); err != nil || req.Name == "" || req.Budget == "" || req.Need == "" || req.Urgency == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "Missing required fields"})
	}
	prompt := ai.LeadScoringPrompt(req.Name, req.Budget, req.Need, req.Urgency)
	return h.generate(c, uid, prompt, "Lead Scorer", model.ActionLeadScored, func(result string) model.Metadata {
		return model.LeadMetadata(req.Name, req.Budget, req.Need, req.Urgency, result)
	})
}
