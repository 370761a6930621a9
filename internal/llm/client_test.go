package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ccastromar/askai/internal/metrics"
)

type fakeBackend struct {
	out   string
	err   error
	calls int
	got   string
}

func (f *fakeBackend) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.got = prompt
	return f.out, f.err
}

// failingBackend fails the test if the client reaches the network layer.
type failingBackend struct{ t *testing.T }

func (f failingBackend) Generate(ctx context.Context, prompt string) (string, error) {
	f.t.Fatalf("backend must not be called, got prompt %q", prompt)
	return "", nil
}

func TestAsk_MissingCredential_NoBackendCall(t *testing.T) {
	c := NewClient(Settings{Provider: ProviderGemini}, failingBackend{t})

	_, err := c.Ask(context.Background(), "hello")
	require.Error(t, err)
	require.Equal(t, KindMissingCredential, KindOf(err))
	require.Equal(t, "API key is not configured", err.Error())
	require.False(t, c.Ready())
}

func TestAsk_BlankCredentialCountsAsMissing(t *testing.T) {
	c := NewClient(Settings{Provider: ProviderGemini, APIKey: "   "}, failingBackend{t})

	_, err := c.Ask(context.Background(), "hello")
	require.Equal(t, KindMissingCredential, KindOf(err))
}

func TestAsk_TrimsAnswer(t *testing.T) {
	fb := &fakeBackend{out: "\n  4  \n"}
	c := NewClient(Settings{Provider: ProviderGemini, APIKey: "k"}, fb)

	out, err := c.Ask(context.Background(), "what is 22")
	require.NoError(t, err)
	require.Equal(t, "4", out)
	require.Equal(t, 1, fb.calls)
	require.Equal(t, "what is 22", fb.got)
}

func TestAsk_EmptyResponse(t *testing.T) {
	for _, out := range []string{"", "   \n\t"} {
		fb := &fakeBackend{out: out}
		c := NewClient(Settings{Provider: ProviderGemini, APIKey: "k"}, fb)

		_, err := c.Ask(context.Background(), "q")
		require.Equal(t, KindEmptyResponse, KindOf(err))
		require.Equal(t, "model returned an empty response", err.Error())
	}
}

func TestAsk_ServiceErrorKeepsUpstreamMessage(t *testing.T) {
	svc := &ServiceError{Code: 403, Status: "PERMISSION_DENIED", Message: "API key not valid. Please pass a valid API key."}
	fb := &fakeBackend{err: fmt.Errorf("generate: %w", svc)}
	c := NewClient(Settings{Provider: ProviderGemini, APIKey: "k"}, fb)

	_, err := c.Ask(context.Background(), "q")
	var e *Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, KindBackend, e.Kind)
	require.Equal(t, svc.Message, e.Message)
	require.Equal(t, "backend error: API key not valid. Please pass a valid API key.", err.Error())
	require.ErrorIs(t, err, svc)
	require.Equal(t, 1, fb.calls)
}

func TestAsk_OtherErrorIsUnknown(t *testing.T) {
	boom := errors.New("connection reset by peer")
	fb := &fakeBackend{err: boom}
	c := NewClient(Settings{Provider: ProviderGemini, APIKey: "k"}, fb)

	_, err := c.Ask(context.Background(), "q")
	require.Equal(t, KindUnknown, KindOf(err))
	require.Equal(t, "request failed: connection reset by peer", err.Error())
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, fb.calls)
}

func TestAsk_PreclassifiedErrorPassesThrough(t *testing.T) {
	fb := &fakeBackend{err: MalformedRequest("prompt too long")}
	c := NewClient(Settings{Provider: ProviderGemini, APIKey: "k"}, fb)

	_, err := c.Ask(context.Background(), "q")
	require.Equal(t, KindMalformedRequest, KindOf(err))
	require.Equal(t, "malformed request: prompt too long", err.Error())
}

func TestKindOf_PlainError(t *testing.T) {
	require.Equal(t, Kind(""), KindOf(errors.New("x")))
	require.Equal(t, Kind(""), KindOf(nil))
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Settings{Provider: "bard", APIKey: "k"})
	require.Error(t, err)
}

func TestNew_MissingKeyStillBuildsClient(t *testing.T) {
	c, err := New(context.Background(), Settings{})
	require.NoError(t, err)
	require.Equal(t, ProviderGemini, c.Provider())
	require.Equal(t, DefaultGeminiModel, c.Model())
	require.False(t, c.Ready())

	_, err = c.Ask(context.Background(), "q")
	require.Equal(t, KindMissingCredential, KindOf(err))
}

func TestNew_OpenAIProviderWithoutKey(t *testing.T) {
	c, err := New(context.Background(), Settings{Provider: "OpenAI"})
	require.NoError(t, err)
	require.Equal(t, ProviderOpenAI, c.Provider())
	require.Equal(t, DefaultOpenAIModel, c.Model())
	require.False(t, c.Ready())
}

func TestServiceError_Error(t *testing.T) {
	require.Equal(t, "429 RESOURCE_EXHAUSTED: quota", (&ServiceError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota"}).Error())
	require.Equal(t, "500: boom", (&ServiceError{Code: 500, Message: "boom"}).Error())
}

func TestAsk_DurationRecordedForEveryBackendCall(t *testing.T) {
	const provider = "duration-test"
	fb := &fakeBackend{out: "ok"}
	c := NewClient(Settings{Provider: provider, APIKey: "k"}, fb)
	ok := map[string]string{"provider": provider, "outcome": "ok"}

	for i := 0; i < 5; i++ {
		_, err := c.Ask(context.Background(), "q")
		require.NoError(t, err)
	}

	require.Equal(t, float64(5), metrics.LLMAsks.Value(ok))
	require.Equal(t, metrics.LLMAsks.Value(ok), metrics.LLMAskDur.Count(ok))

	missing := map[string]string{"provider": provider + "-nokey", "outcome": string(KindMissingCredential)}
	_, _ = NewClient(Settings{Provider: provider + "-nokey"}, failingBackend{t}).Ask(context.Background(), "q")
	require.Equal(t, float64(1), metrics.LLMAsks.Value(missing))
	require.Zero(t, metrics.LLMAskDur.Count(missing))
}
