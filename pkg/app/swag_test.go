package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/swaggo/swag"
)

func TestSwagInstance_ReusedAfterShutdown(t *testing.T) {
	ctx := context.Background()

	first := New(WithTitle("First"), WithDocsStaticURL("/static"))
	name := first.swagInstance
	if name == "" {
		t.Fatal("expected a swag instance name")
	}
	// Shutdown twice must release the name only once.
	for i := 0; i < 2; i++ {
		if err := first.Shutdown(ctx); err != nil {
			t.Fatalf("shutdown: %v", err)
		}
	}

	doc, err := swag.ReadDoc(name)
	if err != nil {
		t.Fatalf("ReadDoc: %v", err)
	}
	if doc != "{}" {
		t.Errorf("released instance still serves a document: %s", doc)
	}

	second := New(WithTitle("Second"), WithDocsStaticURL("/static"))
	third := New(WithTitle("Third"), WithDocsStaticURL("/static"))
	t.Cleanup(func() {
		_ = second.Shutdown(ctx)
		_ = third.Shutdown(ctx)
	})

	if second.swagInstance != name {
		t.Errorf("expected released name %q to be reused, got %q", name, second.swagInstance)
	}
	if third.swagInstance == second.swagInstance {
		t.Fatal("two live applications share a swag instance")
	}

	rr := httptest.NewRecorder()
	second.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/doc.json", http.NoBody))
	if !strings.Contains(rr.Body.String(), `"title":"Second"`) {
		t.Errorf("reused instance served the wrong document: %s", rr.Body.String())
	}
}

func TestSwagInstance_NotBoundWithoutStaticDocs(t *testing.T) {
	a := New(WithDocsStaticURL("/static"), WithOpenAPIURL(""))
	if a.swagInstance != "" {
		t.Fatalf("no schema route means no swag instance, got %q", a.swagInstance)
	}
	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
