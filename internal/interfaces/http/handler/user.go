package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/klinika/backend/internal/application/identity"
	"github.com/klinika/backend/internal/interfaces/http/middleware"
)

// UserHandler handles clinic staff management
type UserHandler struct {
	BaseHandler
	userService      *appidentity.UserService
	assistantService *appidentity.AssistantService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *appidentity.UserService, assistantService *appidentity.AssistantService) *UserHandler {
	return &UserHandler{
		userService:      userService,
		assistantService: assistantService,
	}
}

// Create adds a staff account to the clinic
func (h *UserHandler) Create(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var req appidentity.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Create(c.Request.Context(), clinicID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// GetByID returns one staff member
func (h *UserHandler) GetByID(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), clinicID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// List returns the clinic's staff with pagination
func (h *UserHandler) List(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	var filter appidentity.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.userService.List(c.Request.Context(), clinicID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	Paginated(&h.BaseHandler, c, result)
}

// ListDoctors returns the clinic's doctors, for queue assignment pickers
func (h *UserHandler) ListDoctors(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}

	doctors, err := h.userService.ListDoctors(c.Request.Context(), clinicID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doctors)
}

// UpdateProfile changes a staff member's profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	var req appidentity.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), clinicID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ChangePassword changes the authenticated user's own password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appidentity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate disables a staff account
func (h *UserHandler) Deactivate(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.Deactivate(c.Request.Context(), clinicID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Activate re-enables a staff account
func (h *UserHandler) Activate(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.Activate(c.Request.Context(), clinicID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a staff account
func (h *UserHandler) Delete(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.userService.Delete(c.Request.Context(), clinicID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AssignAssistant pairs a doctor assistant with a doctor
func (h *UserHandler) AssignAssistant(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	doctorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req appidentity.AssignAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	assignment, err := h.assistantService.Assign(c.Request.Context(), clinicID, doctorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, assignment)
}

// ListAssistants lists the authenticated doctor's assistants
func (h *UserHandler) ListAssistants(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	doctorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	assistants, err := h.assistantService.ListByDoctor(c.Request.Context(), clinicID, doctorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, assistants)
}

// RemoveAssistant unassigns an assistant from the authenticated doctor
func (h *UserHandler) RemoveAssistant(c *gin.Context) {
	clinicID, err := getClinicID(c)
	if err != nil {
		h.Forbidden(c, "Clinic context required")
		return
	}
	doctorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid assignment ID")
		return
	}

	if err := h.assistantService.Remove(c.Request.Context(), clinicID, doctorID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers staff management routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("", middleware.RequirePermission("user:create"), h.Create)
		users.GET("", middleware.RequirePermission("user:read"), h.List)
		users.GET("/doctors", middleware.RequirePermission("user:read"), h.ListDoctors)
		users.GET("/:id", middleware.RequirePermission("user:read"), h.GetByID)
		users.PUT("/:id", middleware.RequirePermission("user:update"), h.UpdateProfile)
		users.POST("/:id/deactivate", middleware.RequirePermission("user:update"), h.Deactivate)
		users.POST("/:id/activate", middleware.RequirePermission("user:update"), h.Activate)
		users.DELETE("/:id", middleware.RequirePermission("user:delete"), h.Delete)
	}

	// Own-account operation, no extra permission beyond authentication
	rg.POST("/users/me/password", h.ChangePassword)

	assistants := rg.Group("/assistants")
	{
		assistants.POST("", middleware.RequirePermission("assistant:create"), h.AssignAssistant)
		assistants.GET("", middleware.RequirePermission("assistant:read"), h.ListAssistants)
		assistants.DELETE("/:id", middleware.RequirePermission("assistant:delete"), h.RemoveAssistant)
	}
}
