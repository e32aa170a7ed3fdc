package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/shoestop/backend/pkg/upload"
)

// Catalog writes arrive as multipart/form-data because they carry an image.
// These helpers normalize the loosely-typed form fields.

// parseMultipart reads the form with headroom above the image size cap so a
// too-large file is rejected by the upload validator, not a parse error.
func parseMultipart(r *http.Request) error {
	return r.ParseMultipartForm(upload.MaxImageBytes + 1<<20)
}

// formSizes accepts either a JSON array (`["7","8"]`) or a comma-separated
// list (`7,8,9`) and returns the trimmed, de-duplicated labels.
func formSizes(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parts []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &parts); err != nil {
			return nil
		}
	} else {
		parts = strings.Split(raw, ",")
	}

	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

func formBool(raw string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(raw))
	return b
}

func formFloat(raw string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	return f
}

// formIntPtr returns nil for an absent value, so "no stock field" keeps a
// product untracked rather than zeroing it.
func formIntPtr(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
