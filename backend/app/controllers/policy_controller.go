package controllers

import (
	"net/http"

	"guardian-control/backend/app/dto"
	"guardian-control/backend/app/services"
)

type PolicyController struct {
	Policies *services.PolicyService
}

func NewPolicyController(policies *services.PolicyService) *PolicyController {
	return &PolicyController{Policies: policies}
}

// Render serves POST /policy-render (service-internal): the merged effective
// policy for one resolved client.
func (c *PolicyController) Render(w http.ResponseWriter, r *http.Request) {
	var req dto.RenderPolicyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	eff, err := c.Policies.Resolve(r.Context(), req.ParentID, req.ClientID, req.MAC)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eff)
}
