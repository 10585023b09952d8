package handler

import (
	"net/http"
	"strconv"
	"time"

	"leadflow_backend/internal/leads/service"
	"leadflow_backend/internal/leads/transport"
	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/check-duplicate", h.CheckDuplicate)
	rg.GET("/:id", h.GetByID)
	rg.PATCH("/:id/status", h.UpdateStatus)
	rg.PUT("/:id/assign", h.Reassign)
	rg.POST("/bulk-assign", h.BulkReassign)
	rg.POST("/unassign", h.Unassign)
	rg.POST("/bulk-delete", h.Delete)
	rg.GET("/:id/notes", h.ListNotes)
	rg.POST("/:id/notes", h.AddNote)
}

// actor extracts the authenticated caller for note stamping. Returns false
// when the request is unauthenticated (the response is already written).
func actor(c *gin.Context) (service.Actor, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return service.Actor{}, false
	}
	return service.Actor{ID: id.UserID(), Name: id.Name()}, true
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}

	// A member creating a lead for themselves gets it auto-assigned.
	if !req.AssigneeID.Set && id.HasRole("member") {
		self := id.UserID()
		req.AssigneeID = transport.OptionalUUID{Value: &self, Set: true}
	}

	lead, err := h.svc.Create(c.Request.Context(), req, service.Actor{ID: id.UserID(), Name: id.Name()})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, lead)
}

func (h *Handler) List(c *gin.Context) {
	act, ok := actor(c)
	if !ok {
		return
	}

	params := service.ListParams{
		Status:     c.Query("status"),
		Unassigned: c.Query("unassigned") == "true",
		Search:     c.Query("search"),
		SortBy:     c.Query("sortBy"),
		SortAsc:    c.Query("order") == "asc",
	}
	if from, err := time.Parse(transport.DateLayout, c.Query("assignedFrom")); err == nil {
		params.AssignedFrom = &from
	}
	if to, err := time.Parse(transport.DateLayout, c.Query("assignedTo")); err == nil {
		params.AssignedUpTo = &to
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		params.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset > 0 {
		params.Offset = offset
	}

	leads, err := h.svc.List(c.Request.Context(), act, params)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, leads)
}

func (h *Handler) CheckDuplicate(c *gin.Context) {
	rawPhone := c.Query("phone")
	if rawPhone == "" {
		httpkit.Error(c, http.StatusBadRequest, "phone query parameter is required", nil)
		return
	}

	result, err := h.svc.CheckDuplicate(c.Request.Context(), rawPhone)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	lead, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	act, ok := actor(c)
	if !ok {
		return
	}

	lead, err := h.svc.UpdateStatus(c.Request.Context(), id, req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) Reassign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.ReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	act, ok := actor(c)
	if !ok {
		return
	}

	lead, err := h.svc.Reassign(c.Request.Context(), id, req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, lead)
}

func (h *Handler) BulkReassign(c *gin.Context) {
	var req transport.BulkReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	act, ok := actor(c)
	if !ok {
		return
	}

	resp, err := h.svc.BulkReassign(c.Request.Context(), req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) Unassign(c *gin.Context) {
	var req transport.UnassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	act, ok := actor(c)
	if !ok {
		return
	}

	resp, err := h.svc.Unassign(c.Request.Context(), req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}

func (h *Handler) Delete(c *gin.Context) {
	var req transport.DeleteLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	act, ok := actor(c)
	if !ok {
		return
	}

	resp, err := h.svc.Delete(c.Request.Context(), req, act)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}
