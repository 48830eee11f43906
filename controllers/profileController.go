package controllers

import (
	"context"
	"log/slog"
	"net/http"

	"cyclesafe-be/middlewares"
	"cyclesafe-be/models"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=profileController.go -destination=mocks/profileController_mock.go -package=mocks
type ProfileService interface {
	Get(ctx context.Context, owner string) (*models.Profile, error)
	Save(ctx context.Context, owner string, in models.ProfileInput) (*models.Profile, error)
}

type ProfileController struct {
	profiles ProfileService
	logger   *slog.Logger
}

func NewProfileController(profiles ProfileService, logger *slog.Logger) *ProfileController {
	return &ProfileController{profiles: profiles, logger: logger}
}

func (ctl *ProfileController) GetProfile(c *gin.Context) {
	profile, err := ctl.profiles.Get(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		handleError(c, ctl.logger, err, "Profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveProfile replaces the caller's profile, creating it on first use.
func (ctl *ProfileController) SaveProfile(c *gin.Context) {
	var input models.ProfileInput
	if !bindJSON(c, &input) {
		return
	}

	profile, err := ctl.profiles.Save(c.Request.Context(), middlewares.UserID(c), input)
	if err != nil {
		handleError(c, ctl.logger, err, "Profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}
