package route

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"orderbot/src-server/utils"
)

type healthResponse struct {
	Status        string `json:"status"`
	Uptime        string `json:"uptime"`
	Guilds        int    `json:"guilds"`
	PendingOrders int    `json:"pending_orders"`
}

// Health reports 200 while the gateway connection is up, 503 otherwise.
func Health(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:        "ok",
			Uptime:        utils.FormatUptime(as.GetUptime()),
			PendingOrders: as.Orders.Len(),
		}
		code := http.StatusOK
		if as.Host == nil || !as.Host.Ready() {
			resp.Status = "unavailable"
			code = http.StatusServiceUnavailable
		} else {
			resp.Guilds = len(as.Host.Guilds())
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Warn("can't write health response", "error", err)
		}
	})
}
