package api

import (
	"net/http"
	"time"

	"domainhub/sources/platform"
)

type websocketHealth struct {
	Connections int    `json:"connections"`
	Status      string `json:"status"`
}

type healthResponse struct {
	Message   string          `json:"message"`
	Version   string          `json:"version"`
	BuildTime string          `json:"buildTime"`
	Uptime    string          `json:"uptime"`
	Storage   string          `json:"storage"`
	Websocket websocketHealth `json:"websocket"`
	Timestamp time.Time       `json:"timestamp"`
}

func (x *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	response := healthResponse{
		Message:   "Server is running!",
		Version:   platform.GetAppVersion(),
		BuildTime: platform.GetAppBuildTime(),
		Uptime:    platform.GetAppUptime().String(),
		Storage:   "ok",
		Websocket: websocketHealth{Connections: x.hub.Count(), Status: "active"},
		Timestamp: time.Now(),
	}

	status := http.StatusOK
	if err := x.checks.CheckAll(r.Context(), x.log); err != nil {
		response.Storage = err.Error()
		status = http.StatusServiceUnavailable
	}

	WriteJSON(w, status, response)
}
