package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/omnivault/deposit-widget/internal/assetsel"
	"github.com/omnivault/deposit-widget/internal/flow"
)

func (s *Server) handleContextGet(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, s.widget.Snapshot())
}

func (s *Server) handleAssetsGet(w http.ResponseWriter, _ *http.Request) {
	view := s.widget.Snapshot()
	JSON(w, http.StatusOK, map[string]any{
		"assets":           view.Assets,
		"tokenRows":        view.TokenRows,
		"selection":        view.Selection,
		"totalSelectedUsd": view.TotalSelectedUSD,
	})
}

func (s *Server) handleDiagnosticsGet(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]any{"entries": s.sink.Entries()})
}

type inputsRequest struct {
	Amount        *string `json:"amount"`
	SelectedToken *string `json:"selectedToken"`
}

func (s *Server) handleInputsPost(w http.ResponseWriter, r *http.Request) {
	var req inputsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ERROR(w, http.StatusBadRequest, err)
		return
	}
	state := s.widget.SetInputs(flow.SetInputs{
		Amount:        req.Amount,
		SelectedToken: req.SelectedToken,
	})
	JSON(w, http.StatusOK, map[string]any{"status": state.Status, "step": state.Step})
}

type selectionRequest struct {
	// Action is one of toggle_token, toggle_chain, preset, expand.
	Action string `json:"action"`
	Symbol string `json:"symbol,omitempty"`
	Key    string `json:"key,omitempty"`
	Filter string `json:"filter,omitempty"`
}

func (s *Server) handleSelectionPost(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ERROR(w, http.StatusBadRequest, err)
		return
	}
	rows := assetsel.BuildRows(s.session.SwapBalance())
	store := s.widget.Selection()

	switch req.Action {
	case "toggle_token":
		store.ToggleToken(rows, req.Symbol)
	case "toggle_chain":
		store.ToggleChain(rows, req.Key)
	case "preset":
		store.ApplyPreset(rows, assetsel.Filter(req.Filter))
	case "expand":
		store.ToggleExpanded(req.Key)
	default:
		ERROR(w, http.StatusBadRequest, errors.New("unknown selection action"))
		return
	}
	JSON(w, http.StatusOK, map[string]any{"selection": store.Snapshot()})
}

func (s *Server) handleContinuePost(w http.ResponseWriter, r *http.Request) {
	if err := s.widget.HandleAmountContinue(r.Context()); err != nil {
		ERROR(w, http.StatusUnprocessableEntity, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"step": flow.StepConfirmation})
}

func (s *Server) handleConfirmPost(w http.ResponseWriter, _ *http.Request) {
	if err := s.widget.HandleConfirmOrder(); err != nil {
		ERROR(w, http.StatusUnprocessableEntity, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"step": flow.StepTransactionStatus})
}

func (s *Server) handleRefreshPost(w http.ResponseWriter, r *http.Request) {
	if err := s.widget.RefreshSimulation(r.Context()); err != nil {
		ERROR(w, http.StatusUnprocessableEntity, err)
		return
	}
	JSON(w, http.StatusOK, map[string]any{"refreshed": true})
}

func (s *Server) handleBackPost(w http.ResponseWriter, r *http.Request) {
	target, moved := s.widget.GoBack(r.Context())
	JSON(w, http.StatusOK, map[string]any{"step": target, "moved": moved})
}

func (s *Server) handleResetPost(w http.ResponseWriter, r *http.Request) {
	s.widget.Reset(r.Context())
	JSON(w, http.StatusOK, map[string]any{"step": flow.StepAmount})
}
