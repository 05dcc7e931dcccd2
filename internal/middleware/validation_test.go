package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codesync/internal/models"
)

func TestValidateRequestPassesDecodedRequest(t *testing.T) {
	var got *models.CompleteRequest
	handler := ValidateRequest[*models.CompleteRequest]()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetValidatedRequest[*models.CompleteRequest](r)
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":"let x","language":" TypeScript "}`))
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected handler to run, got %d", rec.Code)
	}
	if got == nil || got.Code != "let x" || got.Language != "typescript" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestValidateRequestEmptyBodyUsesDefaults(t *testing.T) {
	var got *models.CompleteRequest
	handler := ValidateRequest[*models.CompleteRequest]()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetValidatedRequest[*models.CompleteRequest](r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if got == nil || got.Code != "" || got.Language != models.DefaultLanguage {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestValidateRequestRejectsInvalidJSON(t *testing.T) {
	handler := ValidateRequest[*models.ExplainRequest]()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"code":`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body models.FailureResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body.Success || !strings.HasPrefix(body.Error, "invalid_json") {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestValidateRequestRejectsInvalidPayload(t *testing.T) {
	handler := ValidateRequest[*models.SaveProjectRequest]()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "missing_room_id") {
		t.Fatalf("expected validation code in body, got %s", rec.Body.String())
	}
}
