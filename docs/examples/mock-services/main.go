// Textgate Mock Downstream Services
//
// This is a minimal stand-in for the five text-processing services, for
// local development of the gateway. It answers every endpoint with a
// deterministic body in the expected shape.
//
// Usage:
//   go run main.go
//
// Then point the gateway at it:
//   export TRANSLATION_SERVICE_URL="http://localhost:9100"
//   export SUMMARY_SERVICE_URL="http://localhost:9100"
//   export KEYWORDS_SERVICE_URL="http://localhost:9100"
//   export EDITING_SERVICE_URL="http://localhost:9100"
//   export ANALYTICS_SERVICE_URL="http://localhost:9100"

package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

type request struct {
	Text       string `json:"text"`
	TargetLang string `json:"targetLang"`
	Count      int    `json:"count"`
	Style      string `json:"style"`
}

func main() {
	http.HandleFunc("/translate", handle(func(req request) any {
		return map[string]string{
			"translated": "[" + req.TargetLang + "] " + req.Text,
		}
	}))

	http.HandleFunc("/summarize", handle(func(req request) any {
		words := strings.Fields(req.Text)
		if len(words) > 5 {
			words = words[:5]
		}
		return map[string]string{
			"original": req.Text,
			"summary":  strings.Join(words, " "),
		}
	}))

	http.HandleFunc("/keywords", handle(func(req request) any {
		words := strings.Fields(req.Text)
		count := req.Count
		if count <= 0 || count > len(words) {
			count = len(words)
		}
		return map[string]any{
			"original": req.Text,
			"keywords": words[:count],
		}
	}))

	http.HandleFunc("/edit", handle(func(req request) any {
		return map[string]string{
			"edited": strings.TrimSpace(req.Text),
		}
	}))

	http.HandleFunc("/analyze", handle(func(req request) any {
		return map[string]any{
			"sentiment":     "neutral",
			"wordCount":     len(strings.Fields(req.Text)),
			"sentenceCount": strings.Count(req.Text, ".") + 1,
			"mainTopics":    []string{"general"},
		}
	}))

	log.Println("Starting mock services on :9100")
	log.Fatal(http.ListenAndServe(":9100", nil))
}

func handle(fn func(request) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Text == "" {
			writeError(w, http.StatusBadRequest, "text is required")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(fn(req)); err != nil {
			log.Printf("encode response: %v", err)
		}
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
