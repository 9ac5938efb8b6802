package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/logging"
)

type PolicyHandlers struct {
	svc domain.PolicyService
	log logging.Logger
}

func NewPolicyHandlers(svc domain.PolicyService, log logging.Logger) *PolicyHandlers {
	return &PolicyHandlers{svc: svc, log: log.With("component", "policy_handlers")}
}

type policyReq struct {
	Sub string `json:"sub" binding:"required"`
	Obj string `json:"obj" binding:"required"`
	Act string `json:"act" binding:"required"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	policies, err := h.svc.GetPolicies()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": policies})
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if err := bindJSON(c, &r); err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.svc.AddPolicy(r.Sub, r.Obj, r.Act); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if err := bindJSON(c, &r); err != nil {
		respondError(c, h.log, err)
		return
	}
	if err := h.svc.RemovePolicy(r.Sub, r.Obj, r.Act); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
