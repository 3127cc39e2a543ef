package api

import "net/http"

type themeBody struct {
	Theme string `json:"theme"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, _ *http.Request) {
	if s.theme == nil {
		writeErrorMsg(w, http.StatusNotFound, "preferences not available")
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: s.theme.Theme()})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	if s.theme == nil {
		writeErrorMsg(w, http.StatusNotFound, "preferences not available")
		return
	}
	var req themeBody
	if !decodeBody(w, r, &req) {
		return
	}
	if err := s.theme.SetTheme(req.Theme); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: s.theme.Theme()})
}
