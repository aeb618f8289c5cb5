package api

import (
	"net/http"

	"domainhub/sources/tracing"
)

type loginUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type loginResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Token   string    `json:"token"`
	User    loginUser `json:"user"`
}

func (x *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decode(r, &req); err != nil {
		WriteError(w, x.log, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	token, admin, err := x.auth.Login(r.Context(), x.log, req.Username, req.Password)
	if err != nil {
		x.log.W("Rejected admin login", tracing.AdminName, req.Username, tracing.RemoteAddr, r.RemoteAddr)
		WriteError(w, x.log, err)
		return
	}

	WriteJSON(w, http.StatusOK, loginResponse{
		Success: true,
		Message: "Login successful",
		Token:   token,
		User:    loginUser{ID: admin.ID, Username: admin.Username},
	})
}

// me echoes the identity carried by the bearer token.
func (x *Server) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := AdminFromContext(r.Context())
	if !ok {
		WriteMessage(w, http.StatusUnauthorized, "Access token required")
		return
	}
	WriteData(w, http.StatusOK, "", loginUser{ID: claims.UserID, Username: claims.Username})
}
