package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ehr/patientmsg/internal/config"
	"github.com/ehr/patientmsg/internal/domain/patientmsg"
	"github.com/ehr/patientmsg/internal/platform/middleware"
)

const testMessage = "MSG|^~\\&|SenderSystem|Location|ReceiverSystem|Location|20230502112233\n" +
	"EVT|TYPE|20230502112233\n" +
	"PRS|1|9876543210^^^Location^ID||Smith^John^A|||M|19800101|\n" +
	"DET|1|I|^^MainDepartment^101^Room 1|Common Cold\n"

// ---------------------------------------------------------------------------
// parse command
// ---------------------------------------------------------------------------

func TestRunParse(t *testing.T) {
	input := testMessage + "\n" + "PRS|1||Doe^Jane|||F|19900202\nDET|1|I||Flu\n"

	var out bytes.Buffer
	if err := runParse(strings.NewReader(input), &out, "utf-8", zerolog.Nop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 records, got %d: %q", len(lines), out.String())
	}

	var rec patientmsg.PatientRecord
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if rec.FullName.LastName != "Doe" || rec.PrimaryCondition != "Flu" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestRunParse_ReportsFailures(t *testing.T) {
	input := testMessage + "\n" + "DET|1|I\n"

	var out, logs bytes.Buffer
	err := runParse(strings.NewReader(input), &out, "utf-8", zerolog.New(&logs))
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected 1 of 2 failure, got %v", err)
	}
	if strings.Count(out.String(), "\n") != 1 {
		t.Errorf("expected the valid record to be printed, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "Primary condition is missing") {
		t.Errorf("expected rejection to be logged, got %q", logs.String())
	}
}

func TestRunParse_Latin1(t *testing.T) {
	// "Fièvre" with è as the single ISO-8859-1 byte 0xE8.
	input := "PRS|1||Martin^Paul|||M|19750505\nDET|1|I||Fi\xe8vre\n"

	var out bytes.Buffer
	if err := runParse(strings.NewReader(input), &out, "latin1", zerolog.Nop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var rec patientmsg.PatientRecord
	if err := json.Unmarshal(out.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if rec.PrimaryCondition != "Fièvre" {
		t.Errorf("expected Fièvre, got %q", rec.PrimaryCondition)
	}
}

func TestDecodeReader_UnknownCharset(t *testing.T) {
	if _, err := decodeReader(strings.NewReader(""), "ebcdic"); err == nil {
		t.Error("expected error for unsupported charset")
	}
}

func TestParseCmd_Stdin(t *testing.T) {
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(testMessage))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"parse", "--charset", "windows-1252"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), `"lastName":"Smith"`) {
		t.Errorf("expected Smith record, got %q", out.String())
	}
}

func TestSamples_ParseCleanly(t *testing.T) {
	var samples bytes.Buffer
	if err := writeSamples(&samples, 6, "LoadTest", time.Now()); err != nil {
		t.Fatalf("writeSamples: %v", err)
	}

	var out bytes.Buffer
	if err := runParse(&samples, &out, "utf-8", zerolog.Nop()); err != nil {
		t.Fatalf("samples failed to parse: %v", err)
	}
	if n := strings.Count(out.String(), "\n"); n != 6 {
		t.Errorf("expected 6 records, got %d", n)
	}
}

func TestSampleCmd_RejectsZeroCount(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"sample", "--count", "0"})

	if err := cmd.Execute(); err == nil {
		t.Error("expected error for zero count")
	}
}

// ---------------------------------------------------------------------------
// server wiring
// ---------------------------------------------------------------------------

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func testConfig() *config.Config {
	return &config.Config{
		Env:            "test",
		CORSOrigins:    []string{"*"},
		BodyLimit:      "1M",
		RequestTimeout: 5 * time.Second,
	}
}

func newTestServer(t *testing.T, cfg *config.Config, pinger fakePinger, withDB bool) http.Handler {
	t.Helper()
	logger := zerolog.Nop()
	checker, err := patientmsg.NewProjectionChecker(patientmsg.DefaultPatientInvariants)
	if err != nil {
		t.Fatalf("NewProjectionChecker: %v", err)
	}
	svc := patientmsg.NewService(patientmsg.NewParser(logger), patientmsg.NewLogSaver(logger), logger)
	if withDB {
		return newServer(cfg, logger, svc, checker, pinger)
	}
	return newServer(cfg, logger, svc, checker, nil)
}

func do(t *testing.T, h http.Handler, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func messageBody(t *testing.T) string {
	t.Helper()
	b, err := json.Marshal(map[string]string{"message": testMessage})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestServer_Health(t *testing.T) {
	h := newTestServer(t, testConfig(), fakePinger{}, false)
	rec := do(t, h, http.MethodGet, "/health", "", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("expected request id header")
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("expected security headers")
	}
}

func TestServer_HealthDB(t *testing.T) {
	h := newTestServer(t, testConfig(), fakePinger{}, false)
	if rec := do(t, h, http.MethodGet, "/health/db", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 without a database, got %d", rec.Code)
	}

	h = newTestServer(t, testConfig(), fakePinger{err: errors.New("down")}, true)
	if rec := do(t, h, http.MethodGet, "/health/db", "", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for failing ping, got %d", rec.Code)
	}
}

func TestServer_ParseMessage_DevAuth(t *testing.T) {
	h := newTestServer(t, testConfig(), fakePinger{}, false)
	rec := do(t, h, http.MethodPost, "/api/parse-message", messageBody(t), "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"primaryCondition":"Common Cold"`) {
		t.Errorf("unexpected body %s", rec.Body.String())
	}
}

func TestServer_BodyLimit(t *testing.T) {
	cfg := testConfig()
	cfg.BodyLimit = "64"
	h := newTestServer(t, cfg, fakePinger{}, false)

	rec := do(t, h, http.MethodPost, "/api/parse-message", messageBody(t), "")
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func TestServer_JWTAuth(t *testing.T) {
	key := strings.Repeat("k", 32)
	cfg := testConfig()
	cfg.AuthSigningKey = key
	h := newTestServer(t, cfg, fakePinger{}, false)

	if rec := do(t, h, http.MethodPost, "/api/parse-message", messageBody(t), ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Errorf("expected /health to stay public, got %d", rec.Code)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "integration",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if rec := do(t, h, http.MethodPost, "/api/parse-message", messageBody(t), signed); rec.Code != http.StatusOK {
		t.Errorf("expected 200 with token, got %d", rec.Code)
	}
}
