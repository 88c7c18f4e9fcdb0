package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	keys []string
	err  error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	p.keys = append(p.keys, routingKey)
	return p.err
}

func TestIPFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", IPFromRequest(req))

	req.Header.Set("X-Forwarded-For", " 192.168.1.9 , 10.0.0.2")
	assert.Equal(t, "192.168.1.9", IPFromRequest(req))
}

func TestPublishEventCountsErrors(t *testing.T) {
	t.Cleanup(func() { SetPublisher(nil) })

	require.NoError(t, PublishEvent(context.Background(), "ws_events", EventEnvelope{}))

	pub := &recordingPublisher{}
	SetPublisher(pub)
	require.NoError(t, PublishEvent(context.Background(), "ws_events", EventEnvelope{EventName: "ws_connect"}))
	assert.Equal(t, []string{"ws_events"}, pub.keys)

	before := testutil.ToFloat64(amqpPublishErrorsTotal)
	pub.err = assert.AnError
	require.Error(t, PublishEvent(context.Background(), "ws_events", EventEnvelope{}))
	assert.Equal(t, before+1, testutil.ToFloat64(amqpPublishErrorsTotal))
}

func TestStoreMetrics(t *testing.T) {
	before := testutil.ToFloat64(storeOperationsTotal.WithLabelValues("send", "ok"))
	IncStoreOp("send", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(storeOperationsTotal.WithLabelValues("send", "ok")))

	SetStoredMessages(4)
	assert.Equal(t, float64(4), testutil.ToFloat64(storeMessages))
}

func TestHTTPMetricsMiddlewareRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(HTTPMetricsMiddleware())
	r.GET("/messages", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/messages", "200")
	before := testutil.ToFloat64(counter)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/messages", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
