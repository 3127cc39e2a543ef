package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	checkoutapp "github.com/m7one/storefront/internal/checkout/app"
	checkoutdomain "github.com/m7one/storefront/internal/checkout/domain"
)

type sessionResponse struct {
	SessionID string                    `json:"session_id"`
	Step      int                       `json:"step"`
	StepName  string                    `json:"step_name"`
	Status    checkoutdomain.Status     `json:"status"`
	Draft     checkoutdomain.OrderDraft `json:"draft"`
}

func sessionView(s *checkoutapp.Session) sessionResponse {
	step := s.Step()
	return sessionResponse{
		SessionID: s.ID(),
		Step:      int(step),
		StepName:  step.String(),
		Status:    s.Status(),
		Draft:     s.Draft(),
	}
}

func (s *Server) handleBeginCheckout(w http.ResponseWriter, r *http.Request) {
	session, err := s.checkout.Begin(s.cartPort)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionView(session))
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*checkoutapp.Session, bool) {
	session, err := s.checkout.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return session, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionView(session))
}

func (s *Server) handleSubmitShipping(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var form checkoutapp.ShippingForm
	if !decodeBody(w, r, &form) {
		return
	}
	if err := session.SubmitShipping(form); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(session))
}

func (s *Server) handleSubmitPayment(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var form checkoutapp.PaymentForm
	if !decodeBody(w, r, &form) {
		return
	}
	if err := session.SubmitPayment(form); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(session))
}

func (s *Server) handleRetreat(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := session.Retreat(); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(session))
}

type jumpRequest struct {
	Step int `json:"step"`
}

func (s *Server) handleJumpTo(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req jumpRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := session.JumpTo(checkoutdomain.Step(req.Step)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(session))
}

type promoRequest struct {
	Code string `json:"code"`
}

func (s *Server) handleApplyPromo(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var req promoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Code == "" {
		session.RemovePromo()
		writeJSON(w, http.StatusOK, sessionView(session))
		return
	}
	if err := session.ApplyPromo(req.Code); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionView(session))
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	conf, err := session.PlaceOrder(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conf)
}

func (s *Server) handleAbandonCheckout(w http.ResponseWriter, r *http.Request) {
	if err := s.checkout.Abandon(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "abandoned"})
}
