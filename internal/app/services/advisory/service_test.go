package advisory

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/profitlens/profitlens/internal/app/domain/ledger"
)

func sampleRecord() (ledger.Record, ledger.KPISet) {
	rec := ledger.Record{
		Period:   "2024-05",
		Revenue:  1000,
		COGS:     400,
		Expenses: 200,
		Taxes:    50,
		Currency: "UZS",
	}
	return rec, rec.KPIs()
}

func TestAdviseReturnsGeneratedText(t *testing.T) {
	svc := New(GeneratorFunc(func(ctx context.Context, messages []Message, maxTokens int) (string, error) {
		return "Cut operating expenses.", nil
	}), 300, time.Second, nil)

	rec, kpis := sampleRecord()
	text, generated := svc.Advise(context.Background(), rec, kpis)
	if !generated {
		t.Fatal("expected generated=true")
	}
	if text != "Cut operating expenses." {
		t.Fatalf("got %q", text)
	}
}

func TestAdviseFallsBackOnError(t *testing.T) {
	svc := New(GeneratorFunc(func(ctx context.Context, messages []Message, maxTokens int) (string, error) {
		return "", errors.New("upstream down")
	}), 300, time.Second, nil)

	rec, kpis := sampleRecord()
	text, generated := svc.Advise(context.Background(), rec, kpis)
	if generated {
		t.Fatal("expected generated=false")
	}
	if text != FallbackText {
		t.Fatalf("got %q, want fallback", text)
	}
}

func TestAdviseFallsBackWithoutGenerator(t *testing.T) {
	svc := New(nil, 300, time.Second, nil)

	rec, kpis := sampleRecord()
	text, generated := svc.Advise(context.Background(), rec, kpis)
	if generated || text != FallbackText {
		t.Fatalf("got (%q, %v), want fallback", text, generated)
	}
}

func TestAdviseAppliesTimeout(t *testing.T) {
	svc := New(GeneratorFunc(func(ctx context.Context, messages []Message, maxTokens int) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}), 300, 10*time.Millisecond, nil)

	rec, kpis := sampleRecord()
	done := make(chan struct{})
	go func() {
		defer close(done)
		text, generated := svc.Advise(context.Background(), rec, kpis)
		if generated || text != FallbackText {
			t.Errorf("got (%q, %v), want fallback", text, generated)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Advise did not honor its timeout")
	}
}

func TestAdvisePromptContents(t *testing.T) {
	var captured []Message
	svc := New(GeneratorFunc(func(ctx context.Context, messages []Message, maxTokens int) (string, error) {
		captured = messages
		if maxTokens != 300 {
			t.Errorf("maxTokens = %d, want 300", maxTokens)
		}
		return "ok", nil
	}), 300, time.Second, nil)

	rec, kpis := sampleRecord()
	svc.Advise(context.Background(), rec, kpis)

	if len(captured) != 2 {
		t.Fatalf("expected system + user messages, got %d", len(captured))
	}
	if captured[0].Role != "system" {
		t.Fatalf("first message role = %q", captured[0].Role)
	}

	prompt := captured[1].Content
	for _, want := range []string{"2024-05", "UZS", "1000", "gross profit=600", "net profit=350", "60.00%", "35.00%"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
