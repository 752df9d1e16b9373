package public

import (
	"errors"
	"time"

	"github.com/vijayholve/Wooden-EShop/internal/http/response"
	"github.com/vijayholve/Wooden-EShop/internal/models"
	"github.com/vijayholve/Wooden-EShop/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCurrentUser 获取当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	user, err := h.UserService.GetUserByID(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.Success(c, userResponse(user))
}

// GetMyProfile 获取当前用户客户资料（不存在时创建默认资料）
func (h *Handler) GetMyProfile(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	profile, err := h.UserService.GetOrCreateProfile(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.user_fetch_failed", err)
		return
	}
	response.Success(c, profile)
}

// ProfileUpdateRequest 更新客户资料请求（缺省字段不修改）
type ProfileUpdateRequest struct {
	PhoneNumber   *string `json:"phone_number"`
	StreetAddress *string `json:"street_address"`
	City          *string `json:"city"`
	State         *string `json:"state"`
	ZipCode       *string `json:"zip_code"`
	Country       *string `json:"country"`
	DateOfBirth   *string `json:"date_of_birth"` // YYYY-MM-DD
	Newsletter    *bool   `json:"is_subscribed_to_newsletter"`
}

// UpdateMyProfile 更新当前用户客户资料
func (h *Handler) UpdateMyProfile(c *gin.Context) {
	id, ok := getUserID(c)
	if !ok {
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	input := service.UpdateProfileInput{
		PhoneNumber:   req.PhoneNumber,
		StreetAddress: req.StreetAddress,
		City:          req.City,
		State:         req.State,
		ZipCode:       req.ZipCode,
		Country:       req.Country,
		Newsletter:    req.Newsletter,
	}
	if req.DateOfBirth != nil {
		parsed, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			respondError(c, response.CodeBadRequest, "error.date_of_birth_invalid", nil)
			return
		}
		input.DateOfBirth = &parsed
	}

	profile, err := h.UserService.UpdateProfile(id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		case errors.Is(err, service.ErrInvalidInput):
			respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		default:
			respondError(c, response.CodeInternal, "error.user_update_failed", err)
		}
		return
	}
	response.Success(c, profile)
}

func userResponse(user *models.User) gin.H {
	return gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"status":       user.Status,
		"created_at":   user.CreatedAt,
	}
}
