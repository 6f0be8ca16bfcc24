package questionbank

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() RetryPolicy {
	return RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Options{
		BaseURL:     server.URL,
		AccessToken: "tok-123",
		Retry:       testPolicy(),
	})
}

func questionsJSON(n int) string {
	out := `{"data":[`
	for i := range n {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"id":%d,"question":"q%d","option":{"a":"1","b":"2","c":"3","d":"4"},"answer":"c"}`, i+1, i)
	}
	return out + `]}`
}

func TestFetchQuestions_RequestShape(t *testing.T) {
	var gotPath, gotSubject, gotType, gotYear, gotToken string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSubject = r.URL.Query().Get("subject")
		gotType = r.URL.Query().Get("type")
		gotYear = r.URL.Query().Get("year")
		gotToken = r.Header.Get("AccessToken")
		fmt.Fprint(w, questionsJSON(3))
	})

	qs, err := c.FetchQuestions(context.Background(), "physics", 3, 2015)
	require.NoError(t, err)
	assert.Len(t, qs, 3)
	assert.Equal(t, "/q/3", gotPath)
	assert.Equal(t, "physics", gotSubject)
	assert.Equal(t, "utme", gotType)
	assert.Equal(t, "2015", gotYear)
	assert.Equal(t, "tok-123", gotToken)
	for _, q := range qs {
		assert.Equal(t, "physics", q.Subject)
	}
}

func TestFetchQuestions_NoYearParam(t *testing.T) {
	var hasYear bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hasYear = r.URL.Query().Has("year")
		fmt.Fprint(w, questionsJSON(1))
	})

	_, err := c.FetchQuestions(context.Background(), "biology", 1, 0)
	require.NoError(t, err)
	assert.False(t, hasYear)
}

func TestFetchQuestions_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, questionsJSON(2))
	})

	qs, err := c.FetchQuestions(context.Background(), "chemistry", 2, 0)
	require.NoError(t, err)
	assert.Len(t, qs, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchQuestions_GivesUpAfterThreeAttempts(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.FetchQuestions(context.Background(), "chemistry", 2, 0)
	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())

	var svc *ServiceError
	require.True(t, errors.As(err, &svc))
	assert.Equal(t, http.StatusServiceUnavailable, svc.Status)
}

func TestFetchQuestions_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.FetchQuestions(context.Background(), "english", 40, 0)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchQuestions_NotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.FetchQuestions(context.Background(), "english", 40, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchQuestions_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [`)
	})

	_, err := c.FetchQuestions(context.Background(), "english", 40, 0)
	var svc *ServiceError
	assert.True(t, errors.As(err, &svc))
}

func TestFetchQuestions_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.FetchQuestions(ctx, "english", 40, 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchBulkQuestions_TruncatesToCount(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, questionsJSON(10))
	})

	qs, err := c.FetchBulkQuestions(context.Background(), "economics", 4)
	require.NoError(t, err)
	assert.Equal(t, "/m", gotPath)
	assert.Len(t, qs, 4)
}

func TestFetchQuestion_Single(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"id":9,"question":"q","option":{"a":"1","b":"2","c":"3","d":"4"},"answer":"d"}}`)
	})

	q, err := c.FetchQuestion(context.Background(), "government", 0)
	require.NoError(t, err)
	assert.Equal(t, "9", q.ID)
	assert.Equal(t, "d", q.Answer)
}

func TestSubjectMetrics_BestEffort(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	assert.Nil(t, c.SubjectMetrics(context.Background()))
}

func TestRetryPolicyWaitIsLinear(t *testing.T) {
	p := RetryPolicy{Attempts: 3, BaseDelay: time.Second}
	assert.Equal(t, time.Second, p.wait(1))
	assert.Equal(t, 2*time.Second, p.wait(2))
}
