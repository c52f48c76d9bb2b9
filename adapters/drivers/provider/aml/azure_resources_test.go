package aml

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/kompox/amlops/domain/model"
)

func responseError(status int, code string) error {
	header := http.Header{}
	header.Set("x-ms-error-code", code)
	return runtime.NewResponseError(&http.Response{
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(`{"error":{"code":"` + code + `","message":"test"}}`)),
		Request: &http.Request{
			Method: http.MethodGet,
			URL:    &url.URL{Scheme: "https", Host: "management.azure.com", Path: "/subscriptions/sub"},
		},
	})
}

func TestLookupFailure(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		kind      model.LookupKind
		transient bool
	}{
		{"not found", responseError(404, "ResourceNotFound"), model.LookupNotFound, false},
		{"wrapped not found", fmt.Errorf("get: %w", responseError(404, "ResourceGroupNotFound")), model.LookupNotFound, false},
		{"forbidden", responseError(403, "AuthorizationFailed"), model.LookupError, false},
		{"bad request", responseError(400, "InvalidParameter"), model.LookupError, false},
		{"throttled", responseError(429, "TooManyRequests"), model.LookupError, true},
		{"request timeout", responseError(408, "RequestTimeout"), model.LookupError, true},
		{"server error", responseError(503, "ServiceUnavailable"), model.LookupError, true},
		{"network", &net.OpError{Op: "dial", Err: errors.New("connection refused")}, model.LookupError, true},
		{"unexpected eof", io.ErrUnexpectedEOF, model.LookupError, true},
		{"deadline", context.DeadlineExceeded, model.LookupError, false},
		{"other", errors.New("credential unavailable"), model.LookupError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := lookupFailure[*model.Workspace](tt.err)
			if l.Kind != tt.kind {
				t.Fatalf("Kind = %v, want %v", l.Kind, tt.kind)
			}
			if tt.kind == model.LookupError {
				if got := model.IsTransient(l.Err); got != tt.transient {
					t.Errorf("IsTransient = %v, want %v", got, tt.transient)
				}
				if !errors.Is(l.Err, tt.err) {
					t.Errorf("Err %v does not wrap %v", l.Err, tt.err)
				}
			}
		})
	}
}

func TestAzureShorterErrorString(t *testing.T) {
	got := azureShorterErrorString(fmt.Errorf("get workspace: %w", responseError(404, "ResourceNotFound")))
	if got != "404 Not Found (ResourceNotFound)" {
		t.Errorf("got %q", got)
	}
	if got := azureShorterErrorString(errors.New("plain")); got != "plain" {
		t.Errorf("got %q", got)
	}
}

func TestTags(t *testing.T) {
	if azureTags(nil) != nil {
		t.Error("azureTags(nil) should be nil")
	}
	in := map[string]string{"managed-by": "amlops"}
	out := modelTags(azureTags(in))
	if out["managed-by"] != "amlops" || len(out) != 1 {
		t.Errorf("round trip = %v", out)
	}
	if ptrOrNil("") != nil {
		t.Error("ptrOrNil(\"\") should be nil")
	}
}
