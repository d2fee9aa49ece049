package relay

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"jetcargo-backend/lib/servicetype"
	"jetcargo-backend/lib/submission"
	"jetcargo-backend/lib/validate"
	"jetcargo-backend/services/relay/db"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const maxBodySize = 1 << 20

const (
	messageRateLimited  = "Too many requests. Please try again later."
	messageInvalidJSON  = "Invalid data. Please check the format."
	messageInvalidForm  = "Invalid form data"
	messageConfig       = "Server configuration error"
	messageProcessing   = "Error processing the form. Please try again."
	messageContactAdded = "Contact created successfully"
	unknownContactId    = "unknown"
)

var features = []string{
	"Data validation",
	"Rate limiting",
	"Server side classification",
	"Audit log",
	"Lead notifications",
}

type validationDetail struct {
	Errors  []string `json:"errors"`
	Message string   `json:"message"`
}

type errorResponse struct {
	Detail any `json:"detail"`
}

type submitResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ContactId string `json:"ghl_contact_id"`
}

type rootResponse struct {
	Status   string   `json:"status"`
	Service  string   `json:"service"`
	Version  string   `json:"version"`
	Features []string `json:"features"`
}

type healthConfig struct {
	ApiKeyConfigured     bool `json:"api_key_configured"`
	LocationIdConfigured bool `json:"location_id_configured"`
}

type healthResponse struct {
	Status    string       `json:"status"`
	Timestamp string       `json:"timestamp"`
	Config    healthConfig `json:"config"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		slog.Warn("failed to write response", "err", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// clientIp is the address submissions are rate limited and audited by.
// Behind a proxy it is the last X-Forwarded-For hop, the one the proxy
// appended. Earlier hops come from the client and are ignored.
func clientIp(r *http.Request, trustProxy bool) string {
	if trustProxy {
		hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
		last := strings.TrimSpace(hops[len(hops)-1])
		if last != "" {
			return last
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// cors allows any origin, the forms are embedded on several domains.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			headers := r.Header.Get("Access-Control-Request-Headers")
			if headers == "" {
				headers = "*"
			}
			w.Header().Set("Access-Control-Allow-Headers", headers)
			w.Header().Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Handler returns the http routes of the relay.
func (s Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /webhook/submit", s.handleSubmit)
	return cors(mux)
}

func (s Service) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Status:   "ok",
		Service:  s.options.Name,
		Version:  s.options.Version,
		Features: features,
	})
}

func (s Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: s.options.Now().Format(time.RFC3339),
		Config: healthConfig{
			ApiKeyConfigured:     s.crm.HasApiKey(),
			LocationIdConfigured: s.crm.LocationId() != "",
		},
	})
}

func (s Service) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "handleSubmit")
	defer span.End()

	now := s.options.Now()
	ip := clientIp(r, s.options.TrustProxy)
	span.SetAttributes(attribute.String("client_ip", ip))

	if !s.limiter.Allow(ip, now) {
		s.tel.ReportWarning(report_relay_rate_limit, ip)
		span.SetStatus(codes.Error, "rate limited")
		writeDetail(w, http.StatusTooManyRequests, messageRateLimited)
		return
	}

	sub, err := decodeSubmission(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		span.SetStatus(codes.Error, "invalid json")
		writeDetail(w, http.StatusBadRequest, messageInvalidJSON)
		return
	}

	code, ok := servicetype.Parse(sub[submission.KeyServiceType])
	if !ok {
		code = servicetype.Classify(servicetype.Context{
			ModalText: sub[submission.KeyPageTitle],
			PageURL:   sub[submission.KeyPageURL],
		})
	}
	sub[submission.KeyServiceType] = string(code)
	span.SetAttributes(attribute.String("service_type", string(code)))

	problems := validate.Submission(sub)
	if len(problems) > 0 {
		span.SetStatus(codes.Error, "validation failed")
		s.audit(ctx, ip, now, sub, db.StatusRejected, "")
		writeDetail(w, http.StatusBadRequest, validationDetail{
			Errors:  problems,
			Message: messageInvalidForm,
		})
		return
	}

	if !s.crm.Configured() {
		s.tel.ReportBroken(report_relay_config, "crm api key or location id missing")
		span.SetStatus(codes.Error, "crm not configured")
		s.audit(ctx, ip, now, sub, db.StatusFailed, "")
		writeDetail(w, http.StatusInternalServerError, messageConfig)
		return
	}

	contactId, err := s.createLead(ctx, sub, now)
	if err != nil {
		s.tel.ReportBroken(report_relay_contact, err)
		span.SetStatus(codes.Error, err.Error())
		s.audit(ctx, ip, now, sub, db.StatusFailed, "")
		writeDetail(w, http.StatusInternalServerError, messageProcessing)
		return
	}
	if contactId == "" {
		contactId = unknownContactId
	}

	s.audit(ctx, ip, now, sub, db.StatusAccepted, contactId)
	s.notifyAsync(ctx, sub, contactId)

	writeJSON(w, http.StatusOK, submitResponse{
		Success:   true,
		Message:   messageContactAdded,
		ContactId: contactId,
	})
}
