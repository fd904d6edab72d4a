package httpapi

import (
	"net/http"

	"gitlab.com/agrofinance/agrofinance/internal/plan"
	"gitlab.com/agrofinance/agrofinance/internal/repository"
)

type createSectorRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

func (s *Server) handleListSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := repository.NewSectorRepository(s.db).ListByAccount(r.Context(), s.accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sectors)
}

func (s *Server) handleCreateSector(w http.ResponseWriter, r *http.Request) {
	var req createSectorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sector, err := s.ops.CreateSector(r.Context(), s.accountID, req.Name, req.Description, req.Color, req.Icon)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sector)
}

func (s *Server) handleDeleteSector(w http.ResponseWriter, r *http.Request) {
	if err := s.ops.DeleteSector(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createOperationRequest struct {
	SectorID    string `json:"sectorId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

func (s *Server) handleListOperations(w http.ResponseWriter, r *http.Request) {
	operations, err := repository.NewOperationRepository(s.db).ListByAccount(r.Context(), s.accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, operations)
}

func (s *Server) handleCreateOperation(w http.ResponseWriter, r *http.Request) {
	var req createOperationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	operation, err := s.ops.CreateOperation(r.Context(), s.accountID, req.SectorID, req.Name, req.Description, req.Color, req.Icon)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, operation)
}

func (s *Server) handleDeleteOperation(w http.ResponseWriter, r *http.Request) {
	if err := s.ops.DeleteOperation(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type upgradePlanRequest struct {
	PlanID string `json:"planId"`
}

func (s *Server) handleListPlans(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, plan.Plans)
}

func (s *Server) handleUpgradePlan(w http.ResponseWriter, r *http.Request) {
	var req upgradePlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.ops.UpgradePlan(r.Context(), s.accountID, req.PlanID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
