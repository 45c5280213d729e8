package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lincup/internal/application"
	"github.com/oksasatya/lincup/internal/domain/entity"
	"github.com/oksasatya/lincup/pkg/response"
	"github.com/oksasatya/lincup/pkg/validation"
)

type ProfileHandler struct {
	Svc    *application.ProfileService
	Logger *logrus.Logger
}

func NewProfileHandler(svc *application.ProfileService, logger *logrus.Logger) *ProfileHandler {
	return &ProfileHandler{Svc: svc, Logger: logger}
}

type profileRequest struct {
	Hobbies string `json:"hobbies" binding:"required"`
	Enjoys  string `json:"enjoys" binding:"required"`
	Major   string `json:"major" binding:"required"`
	Minor   string `json:"minor"`
	Goals   string `json:"goals" binding:"required"`
}

// SubmitProfile stores the onboarding answers and returns the user with recommendations attached.
func (h *ProfileHandler) SubmitProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	user, err := h.Svc.SubmitProfile(c.Request.Context(), c.GetString("userID"), entity.Profile{
		Hobbies: req.Hobbies,
		Enjoys:  req.Enjoys,
		Major:   req.Major,
		Minor:   req.Minor,
		Goals:   req.Goals,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, user, "profile saved", nil)
}

func (h *ProfileHandler) Clubs(c *gin.Context) {
	clubs := h.Svc.Clubs()
	response.Success(c, http.StatusOK, clubs, "clubs", map[string]any{"count": len(clubs)})
}
